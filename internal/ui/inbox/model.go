// Package inbox renders the message listing for the active mailbox.
package inbox

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/burnbox/burnbox/internal/keys"
	"github.com/burnbox/burnbox/internal/model"
	"github.com/burnbox/burnbox/internal/theme"
)

// OpenMessageMsg is sent when the user opens a message from the list.
type OpenMessageMsg struct {
	ID string
}

// Model is the inbox list view component.
type Model struct {
	list    list.Model
	keys    *keys.KeyMap
	loading bool
	width   int
	height  int
}

// New creates a new inbox model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Inbox"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetMessages replaces the listing, preserving the cursor position when
// the same number of rows survives a refresh.
func (m *Model) SetMessages(messages []model.Message) tea.Cmd {
	cursor := m.list.Index()
	items := make([]list.Item, len(messages))
	for i, msg := range messages {
		items[i] = MessageItem{Message: msg}
	}
	cmd := m.list.SetItems(items)
	if cursor < len(items) {
		m.list.Select(cursor)
	}
	return cmd
}

// SetLoading toggles the loading indicator.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
}

// SelectedID returns the id of the focused message, or "".
func (m Model) SelectedID() string {
	item, ok := m.list.SelectedItem().(MessageItem)
	if !ok {
		return ""
	}
	return item.Message.ID
}

// Update handles messages for the inbox view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(keyMsg, m.keys.Select) {
			item, ok := m.list.SelectedItem().(MessageItem)
			if !ok {
				return m, nil
			}
			return m, func() tea.Msg {
				return OpenMessageMsg{ID: item.Message.ID}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the inbox view.
func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}
	return m.list.View()
}

// renderEmptyState shows guidance text while the inbox is empty.
func (m Model) renderEmptyState() string {
	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if m.loading {
		return style.Render("Checking for emails...")
	}

	return style.Render(
		"Your inbox is empty.\n\n" +
			"Emails sent to your address appear here automatically.\n" +
			"Press c to copy the address.",
	)
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}
