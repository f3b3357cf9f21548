// Package pages renders the static informational pages: about, privacy
// policy, terms of service, and contact.
package pages

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/burnbox/burnbox/internal/keys"
	"github.com/burnbox/burnbox/internal/theme"
)

// Page identifies one static page.
type Page int

const (
	PageAbout Page = iota
	PagePrivacy
	PageTerms
	PageContact
)

// BackMsg signals the parent to navigate back.
type BackMsg struct{}

// Model is the static page viewer.
type Model struct {
	page     Page
	siteName string
	contact  string
	viewport viewport.Model
	keys     *keys.KeyMap
	width    int
	height   int
}

// New creates a pages model.
func New(k *keys.KeyMap, siteName, contact string, width, height int) Model {
	vp := viewport.New(width, height-2)
	return Model{
		siteName: siteName,
		contact:  contact,
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Show switches to the given page.
func (m *Model) Show(p Page) {
	m.page = p
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// Cycle advances to the next page, wrapping around.
func (m *Model) Cycle() {
	m.Show((m.page + 1) % 4)
}

// Update handles messages for the page viewer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(keyMsg, m.keys.Back):
			return m, func() tea.Msg { return BackMsg{} }
		case keyMsg.String() == "tab":
			m.Cycle()
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the current page.
func (m Model) View() string {
	return m.viewport.View()
}

func (m Model) renderContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)
	bodyStyle := lipgloss.NewStyle().
		Width(min(m.width-4, 80))

	var title, body string
	switch m.page {
	case PageAbout:
		title = "About " + m.siteName
		body = fmt.Sprintf(
			"%s gives you a disposable email address in one keystroke.\n\n"+
				"Use it anywhere you would rather not hand out your real "+
				"address: sign-up forms, downloads, trials. Messages arrive "+
				"in seconds and the whole mailbox evaporates when you are "+
				"done with it.\n\n"+
				"No registration is required. An address lives for two hours "+
				"of inactivity, then it and every message in it are gone.",
			m.siteName,
		)
	case PagePrivacy:
		title = "Privacy Policy"
		body = "We keep as little as possible.\n\n" +
			"Your temporary address and its messages exist only on the " +
			"upstream mail servers and disappear when the session expires. " +
			"The session identifier is stored on your machine, signed and " +
			"readable only by this application.\n\n" +
			"We do not log message content, sell data, or track usage " +
			"beyond what is needed to operate the service."
	case PageTerms:
		title = "Terms of Service"
		body = "The service is provided as-is, without warranty.\n\n" +
			"Do not use temporary addresses for anything you need to keep: " +
			"account recovery, legal correspondence, or financial services. " +
			"Messages are irrecoverable once a session ends.\n\n" +
			"Abuse, including using the service to send spam or to evade " +
			"bans, may result in upstream providers blocking access."
	case PageContact:
		title = "Contact"
		contact := m.contact
		if contact == "" {
			contact = "the site administrator"
		}
		body = fmt.Sprintf(
			"Questions, problems, or abuse reports: reach %s.\n\n"+
				"Include the approximate time of the issue. Message content "+
				"cannot be recovered after a session expires, so report "+
				"problems while the session is still active.",
			contact,
		)
	}

	footer := theme.HelpStyle.Render("tab next page | esc back")

	return lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render(title),
		bodyStyle.Render(body),
		"",
		footer,
	)
}

// SetSize updates the page viewer dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.viewport.SetContent(m.renderContent())
}
