// Package app is the root Bubble Tea model: view routing, the refresh
// countdown, toast display, and wiring between the mailbox coordinator
// and the individual views.
package app

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/burnbox/burnbox/internal/auth"
	"github.com/burnbox/burnbox/internal/keys"
	"github.com/burnbox/burnbox/internal/mailbox"
	"github.com/burnbox/burnbox/internal/model"
	"github.com/burnbox/burnbox/internal/notify"
	"github.com/burnbox/burnbox/internal/store"
	"github.com/burnbox/burnbox/internal/theme"
	"github.com/burnbox/burnbox/internal/ui"
	"github.com/burnbox/burnbox/internal/ui/authview"
	helpview "github.com/burnbox/burnbox/internal/ui/help"
	"github.com/burnbox/burnbox/internal/ui/inbox"
	"github.com/burnbox/burnbox/internal/ui/pages"
	"github.com/burnbox/burnbox/internal/ui/settingsview"
	"github.com/burnbox/burnbox/internal/ui/viewer"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewInbox ViewState = iota
	ViewMessage
	ViewSettings
	ViewAuth
	ViewPages
	ViewHelp
	ViewConfirmNew
	ViewEditAddress
)

// countdownTickMsg drives the 1 Hz refresh countdown in the header.
type countdownTickMsg time.Time

// toastShownMsg carries a toast from the presenter into the UI.
type toastShownMsg struct {
	toast notify.Toast
}

// toastExpiredMsg hides a toast after its display duration.
type toastExpiredMsg struct {
	seq int
}

// exportDoneMsg reports the outcome of a .eml export.
type exportDoneMsg struct {
	path string
	err  error
}

// copiedMsg reports the outcome of a clipboard copy.
type copiedMsg struct {
	err error
}

// siteLoadedMsg refreshes the cached site settings after an admin edit.
type siteLoadedMsg struct {
	site model.SiteSettings
}

// unreadCountMsg carries the number of unread notifications to the UI.
type unreadCountMsg struct {
	count int
}

// Model is the root Bubble Tea model.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	log          zerolog.Logger

	coordinator *mailbox.Coordinator
	presenter   *notify.Presenter
	store       store.Store
	authSvc     *auth.Service
	cfg         model.AppConfig
	site        model.SiteSettings
	headerStyle lipgloss.Style
	addrStyle   lipgloss.Style
	unreadCount int

	inboxView    inbox.Model
	viewerView   viewer.Model
	settingsView settingsview.Model
	authView     authview.Model
	pagesView    pages.Model
	helpView     helpview.Model

	confirmForm *huh.Form
	confirmNew  bool
	editForm    *huh.Form
	editLocal   string

	toast    *notify.Toast
	toastSeq int

	countdown int
	ready     bool
	exportDir string
}

// New creates the root application model.
func New(
	coordinator *mailbox.Coordinator,
	presenter *notify.Presenter,
	s store.Store,
	authSvc *auth.Service,
	cfg model.AppConfig,
	exportDir string,
	log zerolog.Logger,
) Model {
	k := keys.DefaultKeyMap()

	return Model{
		currentView:  ViewInbox,
		keys:         k,
		log:          log.With().Str("module", "app").Logger(),
		coordinator:  coordinator,
		presenter:    presenter,
		store:        s,
		authSvc:      authSvc,
		cfg:          cfg,
		site:         model.DefaultSiteSettings(),
		headerStyle:  theme.HeaderStyle,
		addrStyle:    theme.AddressStyle,
		inboxView:    inbox.New(k, 80, 24),
		viewerView:   viewer.New(k, 80, 24),
		settingsView: settingsview.New(s, k, 80, 24),
		authView:     authview.New(authSvc, 80, 24),
		pagesView:    pages.New(k, "Burnbox", "", 80, 24),
		helpView:     helpview.New(k, 80, 24),
		countdown:    cfg.Display.RefreshIntervalSec,
		exportDir:    exportDir,
	}
}

// Init starts the mailbox coordinator, the toast listener, and the
// countdown ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.coordinator.Init(),
		m.coordinator.Start(),
		m.waitForToast(),
		m.loadSite(),
		m.fetchUnreadCount(),
		tickCountdown(),
	)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w := m.layout.ContentWidth()
		h := m.layout.ContentHeight()
		m.inboxView.SetSize(w, h)
		m.viewerView.SetSize(w, h)
		m.settingsView.SetSize(w, h)
		m.authView.SetSize(w, h)
		m.pagesView.SetSize(w, h)
		m.helpView.SetSize(w, h)
		return m.updateActiveView(msg)

	case countdownTickMsg:
		return m.handleCountdownTick()

	case mailbox.ReadyMsg,
		mailbox.RefreshedMsg,
		mailbox.CreatedMsg,
		mailbox.SelectedMsg,
		mailbox.RenamedMsg,
		mailbox.ForgottenMsg,
		mailbox.SessionEventMsg:
		return m.handleCoordinatorMsg(msg)

	case toastShownMsg:
		m.toast = &msg.toast
		m.toastSeq++
		seq := m.toastSeq
		duration := msg.toast.Duration
		return m, tea.Batch(
			m.waitForToast(),
			m.persistNotification(msg.toast),
			tea.Tick(duration, func(time.Time) tea.Msg {
				return toastExpiredMsg{seq: seq}
			}),
		)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = nil
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.log.Warn().Err(msg.err).Msg("export failed")
			m.presenter.Notify(notify.KeyError, "Failed to export email", notify.Options{
				Icon: "⚠", Duration: 3 * time.Second,
			})
		} else {
			m.presenter.Notify(notify.KeyCopy, "Saved "+msg.path, notify.Options{
				Icon: "💾", Duration: 3 * time.Second,
			})
		}
		return m, nil

	case copiedMsg:
		if msg.err != nil {
			m.presenter.Notify(notify.KeyError, "Failed to copy address", notify.Options{
				Icon: "⚠", Duration: 3 * time.Second,
			})
		} else {
			m.presenter.Notify(notify.KeyCopy, "Email address copied to clipboard!", notify.Options{
				Icon: "✓", Duration: 2 * time.Second,
			})
		}
		return m, nil

	case siteLoadedMsg:
		m.site = msg.site
		palette := msg.site.Light
		if m.cfg.Display.Theme == "dark" {
			palette = msg.site.Dark
		}
		m.headerStyle, m.addrStyle = theme.FromSettings(palette)
		return m, nil

	case unreadCountMsg:
		m.unreadCount = msg.count
		return m, nil

	case inbox.OpenMessageMsg:
		m.previousView = m.currentView
		m.currentView = ViewMessage
		m.viewerView.SetLoading(true)
		return m, m.coordinator.Select(msg.ID)

	case viewer.BackMsg:
		m.currentView = ViewInbox
		return m, nil

	case viewer.ExportMsg:
		return m, m.exportMessage()

	case settingsview.DoneMsg:
		m.currentView = ViewInbox
		return m, nil

	case settingsview.SettingsSavedMsg:
		if msg.Section == "site" {
			return m, m.loadSite()
		}
		return m, nil

	case authview.DoneMsg:
		m.currentView = m.previousView
		return m, nil

	case authview.SignedInMsg:
		m.presenter.Notify(notify.KeyAccount, "Signed in as "+msg.User.Email, notify.Options{
			Icon: "✓", Duration: 2 * time.Second,
		})
		if m.authSvc.IsAdmin() {
			m.currentView = ViewSettings
			return m, m.settingsView.Init()
		}
		m.currentView = ViewInbox
		return m, nil

	case pages.BackMsg:
		m.currentView = ViewInbox
		return m, nil

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKeys(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

// handleCountdownTick decrements the refresh countdown and fires a
// refresh when it reaches zero. The countdown is cosmetic; the
// coordinator's own ticker polls independently, so a missed tick here
// never stops mail from arriving.
func (m Model) handleCountdownTick() (tea.Model, tea.Cmd) {
	snap := m.coordinator.Snapshot()
	if snap.Account == nil || !snap.AutoRefresh {
		return m, tickCountdown()
	}

	m.countdown--
	if m.countdown > 0 {
		return m, tickCountdown()
	}

	m.countdown = m.cfg.Display.RefreshIntervalSec
	return m, tea.Batch(m.coordinator.Refresh(), tickCountdown())
}

// handleCoordinatorMsg folds a coordinator message into state and
// syncs the affected views.
func (m Model) handleCoordinatorMsg(msg tea.Msg) (tea.Model, tea.Cmd) {
	applied := m.coordinator.Apply(msg)
	cmds := []tea.Cmd{m.coordinator.WaitForNext()}

	if applied {
		snap := m.coordinator.Snapshot()

		switch msg.(type) {
		case mailbox.ReadyMsg, mailbox.RefreshedMsg, mailbox.CreatedMsg:
			m.inboxView.SetLoading(snap.Loading)
			cmds = append(cmds, m.inboxView.SetMessages(snap.Messages))
			if _, ok := msg.(mailbox.RefreshedMsg); ok {
				m.countdown = m.cfg.Display.RefreshIntervalSec
			}

		case mailbox.SelectedMsg:
			cmds = append(cmds, m.inboxView.SetMessages(snap.Messages))
			m.viewerView.SetLoading(false)
			if snap.Selected != nil {
				m.viewerView.SetDetail(snap.Selected)
			} else if m.currentView == ViewMessage {
				m.currentView = ViewInbox
			}

		case mailbox.SessionEventMsg:
			m.inboxView.SetLoading(false)
			cmds = append(cmds, m.inboxView.SetMessages(nil))
			m.viewerView.SetDetail(nil)
			if m.currentView == ViewMessage {
				m.currentView = ViewInbox
			}
		}
	}

	return m, tea.Batch(cmds...)
}

// handleGlobalKeys processes keys that work across views. It reports
// whether the key was consumed.
func (m Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	// Forms own the keyboard while visible.
	formActive := m.currentView == ViewConfirmNew ||
		m.currentView == ViewEditAddress ||
		m.currentView == ViewAuth ||
		m.currentView == ViewSettings

	switch msg.String() {
	case "ctrl+c":
		return m.quit()

	case "q":
		if m.currentView == ViewInbox {
			return m.quit()
		}

	case "?":
		if formActive {
			break
		}
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.previousView = m.currentView
		m.currentView = ViewHelp
		return m, nil, true

	case "r":
		if m.currentView == ViewInbox {
			m.countdown = m.cfg.Display.RefreshIntervalSec
			m.coordinator.ExtendSession()
			return m, m.coordinator.Refresh(), true
		}

	case "n":
		if m.currentView == ViewInbox {
			snap := m.coordinator.Snapshot()
			if snap.Account == nil {
				// Nothing to discard; create directly.
				return m, m.coordinator.CreateNew(), true
			}
			m.previousView = m.currentView
			m.currentView = ViewConfirmNew
			m.confirmNew = false
			m.confirmForm = m.buildConfirmNewForm()
			return m, m.confirmForm.Init(), true
		}

	case "c":
		if m.currentView == ViewInbox {
			return m, m.copyAddress(), true
		}

	case "e":
		if m.currentView == ViewInbox {
			snap := m.coordinator.Snapshot()
			if snap.Account == nil {
				return m, nil, true
			}
			m.previousView = m.currentView
			m.currentView = ViewEditAddress
			m.editLocal = ""
			m.editForm = m.buildEditAddressForm()
			return m, m.editForm.Init(), true
		}

	case "u":
		if m.currentView == ViewInbox && m.unreadCount > 0 {
			return m, m.markAlertsRead(), true
		}

	case "p":
		if m.currentView == ViewInbox {
			m.coordinator.ToggleAutoRefresh()
			m.countdown = m.cfg.Display.RefreshIntervalSec
			return m, nil, true
		}

	case "s":
		if m.currentView == ViewInbox {
			m.previousView = m.currentView
			if !m.authSvc.IsAdmin() {
				m.currentView = ViewAuth
				return m, m.authView.StartSignIn(), true
			}
			m.currentView = ViewSettings
			return m, m.settingsView.Init(), true
		}

	case "l":
		if m.currentView == ViewInbox && m.site.ShowLoginButton {
			m.previousView = m.currentView
			m.currentView = ViewAuth
			return m, m.authView.StartSignIn(), true
		}

	case "a":
		if m.currentView == ViewInbox {
			m.previousView = m.currentView
			m.currentView = ViewPages
			m.pagesView.Show(pages.PageAbout)
			return m, nil, true
		}
	}

	// Confirm and edit forms are driven here rather than in a sub-view.
	switch m.currentView {
	case ViewConfirmNew:
		next, cmd := m.updateConfirmNewForm(msg)
		return next, cmd, true
	case ViewEditAddress:
		next, cmd := m.updateEditAddressForm(msg)
		return next, cmd, true
	}

	return m, nil, false
}

func (m Model) quit() (tea.Model, tea.Cmd, bool) {
	m.coordinator.Stop()
	m.presenter.Close()
	return m, tea.Quit, true
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewInbox:
		m.inboxView, cmd = m.inboxView.Update(msg)
	case ViewMessage:
		m.viewerView, cmd = m.viewerView.Update(msg)
	case ViewSettings:
		m.settingsView, cmd = m.settingsView.Update(msg)
	case ViewAuth:
		m.authView, cmd = m.authView.Update(msg)
	case ViewPages:
		m.pagesView, cmd = m.pagesView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewConfirmNew, ViewEditAddress:
		// Key messages for these are consumed in handleGlobalKeys;
		// everything else still has to reach the form.
		if _, ok := msg.(tea.KeyMsg); !ok {
			switch m.currentView {
			case ViewConfirmNew:
				return m.updateConfirmNewForm(msg)
			case ViewEditAddress:
				return m.updateEditAddressForm(msg)
			}
		}
	}

	return m, cmd
}

// View renders the full terminal UI.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := m.site.SiteName
	if m.unreadCount > 0 {
		title = fmt.Sprintf("%s [%d new]", m.site.SiteName, m.unreadCount)
	}
	header := m.layout.RenderHeader(title, m.headerAddress(), m.headerStatus(), m.headerStyle, m.addrStyle)
	content := m.renderContent()
	if m.toast != nil {
		content = m.overlayToast(content)
	}
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewInbox:
		return m.inboxView.View()
	case ViewMessage:
		return m.viewerView.View()
	case ViewSettings:
		return m.settingsView.View()
	case ViewAuth:
		return m.authView.View()
	case ViewPages:
		return m.pagesView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewConfirmNew:
		return m.renderForm(m.confirmForm)
	case ViewEditAddress:
		return m.renderForm(m.editForm)
	default:
		return ""
	}
}

// headerAddress returns the active address for the header, or empty
// when no mailbox exists yet.
func (m Model) headerAddress() string {
	snap := m.coordinator.Snapshot()
	if snap.Account == nil {
		return ""
	}
	return snap.Account.EmailAddress
}

// headerStatus shows the refresh state next to the address.
func (m Model) headerStatus() string {
	snap := m.coordinator.Snapshot()
	if snap.Account == nil {
		return "no address"
	}
	if !snap.AutoRefresh {
		return "⏸ paused"
	}
	if snap.Loading {
		return "refreshing..."
	}
	return fmt.Sprintf("↻ %ds", m.countdown)
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewMessage:
		return "esc back | x export .eml | j/k scroll"
	case ViewSettings:
		return "enter open | esc back"
	case ViewAuth:
		return "tab switch form | enter submit | esc back"
	case ViewPages:
		return "tab next page | esc back"
	case ViewConfirmNew, ViewEditAddress:
		return "enter confirm | esc cancel"
	default:
		return "q quit | ? help | n new address | c copy | e edit | r refresh | p pause | u alerts"
	}
}

// overlayToast draws the active toast above the content area.
func (m Model) overlayToast(content string) string {
	style := theme.ToastStyle
	if m.toast.Key == notify.KeyError {
		style = theme.ErrorToastStyle
	}

	icon := m.toast.Icon
	if icon != "" {
		icon += " "
	}
	rendered := style.Render(icon + m.toast.Message)

	// The toast replaces the first content line rather than floating,
	// which keeps rendering simple and never hides the selection.
	return rendered + "\n" + content
}
