package inbox

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/burnbox/burnbox/internal/model"
	"github.com/burnbox/burnbox/internal/theme"
)

// MessageItem wraps a model.Message so it can be used in a bubbles/list.
type MessageItem struct {
	Message model.Message
}

// FilterValue returns the string used for fuzzy filtering.
func (i MessageItem) FilterValue() string {
	return i.Message.Subject + " " + i.Message.From
}

// Title returns the message subject for the list.
func (i MessageItem) Title() string {
	if i.Message.Subject == "" {
		return "(no subject)"
	}
	return i.Message.Subject
}

// Description returns a short summary line for the list.
func (i MessageItem) Description() string {
	return i.Message.From + " | " + relativeTime(i.Message.ReceivedTime())
}

// ItemDelegate implements list.ItemDelegate for rendering inbox rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single inbox row: read marker, sender, subject,
// excerpt, and relative arrival time.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	msgItem, ok := item.(MessageItem)
	if !ok {
		return
	}

	msg := msgItem.Message
	isSelected := index == m.Index()

	marker := "○"
	from := msg.From
	if !msg.Read {
		marker = theme.UnreadStyle.Render("●")
		from = theme.UnreadStyle.Render(from)
	}

	subject := msg.Subject
	if subject == "" {
		subject = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("(no subject)")
	}

	excerpt := ""
	if msg.Excerpt != "" {
		excerpt = lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(" " + truncate(msg.Excerpt, 48))
	}

	timeStr := lipgloss.NewStyle().
		Foreground(theme.ColorGray).
		Render(relativeTime(msg.ReceivedTime()))

	line := fmt.Sprintf("%s %s  %s%s  %s", marker, from, subject, excerpt, timeStr)

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}

// truncate shortens s to at most n runes with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// relativeTime returns a human-friendly relative time string.
func relativeTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}

	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1m ago"
		}
		return fmt.Sprintf("%dm ago", mins)
	case d < 24*time.Hour:
		hrs := int(d.Hours())
		if hrs == 1 {
			return "1h ago"
		}
		return fmt.Sprintf("%dh ago", hrs)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1d ago"
		}
		return fmt.Sprintf("%dd ago", days)
	}
}
