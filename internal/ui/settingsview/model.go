// Package settingsview is the admin settings UI: site identity and
// theme, SMTP relay, API access, and issued API keys.
package settingsview

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/burnbox/burnbox/internal/keys"
	"github.com/burnbox/burnbox/internal/model"
	"github.com/burnbox/burnbox/internal/smtpcheck"
	"github.com/burnbox/burnbox/internal/store"
	"github.com/burnbox/burnbox/internal/theme"
)

// Mode represents the current state of the settings view.
type Mode int

const (
	ModeMenu        Mode = iota // Top-level settings menu
	ModeFormSite                // Site identity form
	ModeFormSMTP                // SMTP relay form
	ModeFormAPI                 // API limits form
	ModeKeyList                 // Issued API keys
	ModeFormNewKey              // Name a new API key
	ModeConfirmDrop             // Confirm API key deletion
	ModeProbing                 // SMTP connectivity test running
	ModeProbeResult             // SMTP test outcome
)

// DoneMsg signals the settings view should close.
type DoneMsg struct{}

// SettingsSavedMsg signals a settings section was persisted.
type SettingsSavedMsg struct {
	Section string
}

type settingsLoadedMsg struct {
	site model.SiteSettings
	smtp model.SMTPSettings
	api  model.APISettings
	keys []model.APIKey
	err  error
}

type sectionSavedMsg struct {
	section string
	err     error
}

type probeResultMsg struct {
	err error
}

type keyCreatedMsg struct {
	apiKey model.APIKey
	err    error
}

type keyDeletedMsg struct {
	err error
}

// menuEntries are the top-level settings sections.
var menuEntries = []string{
	"Site & Appearance",
	"SMTP Relay",
	"API Access",
	"API Keys",
}

// Model is the Bubble Tea model for the settings UI.
type Model struct {
	mode  Mode
	store store.Store
	keys  *keys.KeyMap

	site    model.SiteSettings
	smtp    model.SMTPSettings
	api     model.APISettings
	apiKeys []model.APIKey

	menuIdx int
	keyIdx  int

	siteForm    *huh.Form
	smtpForm    *huh.Form
	apiForm     *huh.Form
	newKeyForm  *huh.Form
	confirmForm *huh.Form

	// Form field values (huh binds to these)
	formSiteName    string
	formSiteURL     string
	formSiteDesc    string
	formShowLogin   bool
	formLightAccent string
	formDarkAccent  string

	formSMTPEnabled bool
	formSMTPHost    string
	formSMTPPort    string
	formSMTPUser    string
	formSMTPPass    string
	formSMTPFrom    string
	formSMTPEnc     string

	formAPIEnabled bool
	formAPIKeyReq  bool
	formAPIRPM     string
	formAPIBurst   string

	formKeyName string
	dropConfirm bool

	// pendingSMTP holds settings awaiting a successful probe.
	pendingSMTP model.SMTPSettings
	probeErr    error
	spinner     spinner.Model

	// createdKey shows the freshly issued key once, on the key list.
	createdKey string

	statusMsg     string
	width, height int
}

// New creates the settings view model.
func New(s store.Store, k *keys.KeyMap, width, height int) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		mode:    ModeMenu,
		store:   s,
		keys:    k,
		spinner: sp,
		width:   width,
		height:  height,
	}
}

// Init loads all settings sections from the store.
func (m Model) Init() tea.Cmd {
	return m.loadSettings()
}

// Update handles messages and dispatches based on the current mode.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case settingsLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error loading settings: %v", msg.err)
			return m, nil
		}
		m.site = msg.site
		m.smtp = msg.smtp
		m.api = msg.api
		m.apiKeys = msg.keys
		return m, nil

	case sectionSavedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error saving %s settings: %v", msg.section, msg.err)
			m.mode = ModeMenu
			return m, nil
		}
		m.statusMsg = fmt.Sprintf("Saved %s settings", msg.section)
		m.mode = ModeMenu
		return m, tea.Batch(
			m.loadSettings(),
			func() tea.Msg { return SettingsSavedMsg{Section: msg.section} },
		)

	case probeResultMsg:
		m.probeErr = msg.err
		if msg.err == nil {
			m.mode = ModeProbeResult
			return m, m.saveSMTP(m.pendingSMTP)
		}
		m.mode = ModeProbeResult
		return m, nil

	case keyCreatedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error creating key: %v", msg.err)
		} else {
			m.createdKey = msg.apiKey.Key
			m.statusMsg = fmt.Sprintf("Key %q created", msg.apiKey.Name)
		}
		m.mode = ModeKeyList
		return m, m.loadSettings()

	case keyDeletedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error deleting key: %v", msg.err)
		} else {
			m.statusMsg = "Key deleted"
			if m.keyIdx > 0 {
				m.keyIdx--
			}
		}
		m.mode = ModeKeyList
		return m, m.loadSettings()

	case spinner.TickMsg:
		if m.mode == ModeProbing {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	}

	return m.updateActiveForm(msg)
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case ModeMenu:
		return m.handleMenuKeys(msg)
	case ModeFormSite:
		return m.updateSiteForm(msg)
	case ModeFormSMTP:
		return m.updateSMTPForm(msg)
	case ModeFormAPI:
		return m.updateAPIForm(msg)
	case ModeKeyList:
		return m.handleKeyListKeys(msg)
	case ModeFormNewKey:
		return m.updateNewKeyForm(msg)
	case ModeConfirmDrop:
		return m.updateConfirmForm(msg)
	case ModeProbeResult:
		if msg.String() == "enter" || msg.String() == "esc" {
			m.mode = ModeMenu
			m.probeErr = nil
			return m, nil
		}
	case ModeProbing:
		if msg.String() == "esc" {
			m.mode = ModeMenu
			return m, nil
		}
	}
	return m, nil
}

func (m Model) handleMenuKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return DoneMsg{} }

	case key.Matches(msg, m.keys.Down):
		m.menuIdx = (m.menuIdx + 1) % len(menuEntries)
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.menuIdx--
		if m.menuIdx < 0 {
			m.menuIdx = len(menuEntries) - 1
		}
		return m, nil

	case msg.String() == "enter":
		switch m.menuIdx {
		case 0:
			m.mode = ModeFormSite
			m.siteForm = m.buildSiteForm()
			return m, m.siteForm.Init()
		case 1:
			m.mode = ModeFormSMTP
			m.smtpForm = m.buildSMTPForm()
			return m, m.smtpForm.Init()
		case 2:
			m.mode = ModeFormAPI
			m.apiForm = m.buildAPIForm()
			return m, m.apiForm.Init()
		case 3:
			m.mode = ModeKeyList
			m.createdKey = ""
			return m, nil
		}
	}
	return m, nil
}

func (m Model) handleKeyListKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ModeMenu
		m.createdKey = ""
		return m, nil

	case msg.String() == "a":
		m.formKeyName = ""
		m.newKeyForm = m.buildNewKeyForm()
		m.mode = ModeFormNewKey
		return m, m.newKeyForm.Init()

	case msg.String() == "d":
		if len(m.apiKeys) == 0 {
			return m, nil
		}
		m.dropConfirm = false
		m.confirmForm = m.buildConfirmForm()
		m.mode = ModeConfirmDrop
		return m, m.confirmForm.Init()

	case key.Matches(msg, m.keys.Down):
		if len(m.apiKeys) > 0 {
			m.keyIdx = (m.keyIdx + 1) % len(m.apiKeys)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.apiKeys) > 0 {
			m.keyIdx--
			if m.keyIdx < 0 {
				m.keyIdx = len(m.apiKeys) - 1
			}
		}
		return m, nil
	}
	return m, nil
}

func (m Model) updateActiveForm(msg tea.Msg) (Model, tea.Cmd) {
	switch m.mode {
	case ModeFormSite:
		return m.updateSiteForm(msg)
	case ModeFormSMTP:
		return m.updateSMTPForm(msg)
	case ModeFormAPI:
		return m.updateAPIForm(msg)
	case ModeFormNewKey:
		return m.updateNewKeyForm(msg)
	case ModeConfirmDrop:
		return m.updateConfirmForm(msg)
	}
	return m, nil
}

// --- Site form ---

func (m *Model) buildSiteForm() *huh.Form {
	m.formSiteName = m.site.SiteName
	m.formSiteURL = m.site.SiteURL
	m.formSiteDesc = m.site.SiteDescription
	m.formShowLogin = m.site.ShowLoginButton
	m.formLightAccent = m.site.Light.Accent
	m.formDarkAccent = m.site.Dark.Accent

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Site Name").
				Value(&m.formSiteName).
				Validate(validateRequired("Site name")),
			huh.NewInput().
				Title("Site URL").
				Placeholder("https://burnbox.example").
				Value(&m.formSiteURL),
			huh.NewInput().
				Title("Description").
				Value(&m.formSiteDesc),
			huh.NewConfirm().
				Title("Show Login Button").
				Affirmative("Yes").
				Negative("No").
				Value(&m.formShowLogin),
			huh.NewInput().
				Title("Light Accent Color").
				Placeholder("#6366f1").
				Value(&m.formLightAccent).
				Validate(validateHexColor),
			huh.NewInput().
				Title("Dark Accent Color").
				Placeholder("#818cf8").
				Value(&m.formDarkAccent).
				Validate(validateHexColor),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateSiteForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.siteForm == nil {
		return m, nil
	}

	mdl, cmd := m.siteForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.siteForm = f
	}

	if m.siteForm.State == huh.StateCompleted {
		site := m.site
		site.SiteName = m.formSiteName
		site.SiteURL = m.formSiteURL
		site.SiteDescription = m.formSiteDesc
		site.ShowLoginButton = m.formShowLogin
		site.Light.Accent = m.formLightAccent
		site.Dark.Accent = m.formDarkAccent
		return m, m.saveSite(site)
	}
	if m.siteForm.State == huh.StateAborted {
		m.mode = ModeMenu
		return m, nil
	}

	return m, cmd
}

// --- SMTP form ---

func (m *Model) buildSMTPForm() *huh.Form {
	m.formSMTPEnabled = m.smtp.Enabled
	m.formSMTPHost = m.smtp.Host
	m.formSMTPPort = strconv.Itoa(m.smtp.Port)
	m.formSMTPUser = m.smtp.Username
	m.formSMTPPass = "" // Never pre-fill credentials
	m.formSMTPFrom = m.smtp.FromEmail
	m.formSMTPEnc = m.smtp.Encryption

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable SMTP Relay").
				Affirmative("Yes").
				Negative("No").
				Value(&m.formSMTPEnabled),
			huh.NewInput().
				Title("Host").
				Placeholder("smtp.example.com").
				Value(&m.formSMTPHost),
			huh.NewInput().
				Title("Port").
				Placeholder("587").
				Value(&m.formSMTPPort).
				Validate(validatePort),
			huh.NewInput().
				Title("Username").
				Value(&m.formSMTPUser),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.formSMTPPass),
			huh.NewInput().
				Title("From Address").
				Placeholder("noreply@burnbox.example").
				Value(&m.formSMTPFrom),
			huh.NewSelect[string]().
				Title("Encryption").
				Options(
					huh.NewOption("STARTTLS (port 587)", "starttls"),
					huh.NewOption("Implicit TLS (port 465)", "tls"),
					huh.NewOption("None", "none"),
				).
				Value(&m.formSMTPEnc),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateSMTPForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.smtpForm == nil {
		return m, nil
	}

	mdl, cmd := m.smtpForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.smtpForm = f
	}

	if m.smtpForm.State == huh.StateCompleted {
		smtp := m.smtp
		smtp.Enabled = m.formSMTPEnabled
		smtp.Host = m.formSMTPHost
		smtp.Port, _ = strconv.Atoi(m.formSMTPPort)
		smtp.Username = m.formSMTPUser
		if m.formSMTPPass != "" {
			smtp.Password = m.formSMTPPass
		}
		smtp.FromEmail = m.formSMTPFrom
		smtp.Encryption = m.formSMTPEnc

		if !smtp.Enabled {
			// No point probing a disabled relay.
			return m, m.saveSMTP(smtp)
		}

		m.pendingSMTP = smtp
		m.mode = ModeProbing
		return m, tea.Batch(m.spinner.Tick, probeRelay(smtp))
	}
	if m.smtpForm.State == huh.StateAborted {
		m.mode = ModeMenu
		return m, nil
	}

	return m, cmd
}

// --- API form ---

func (m *Model) buildAPIForm() *huh.Form {
	m.formAPIEnabled = m.api.Enabled
	m.formAPIKeyReq = m.api.RequireAPIKey
	m.formAPIRPM = strconv.Itoa(m.api.RequestsPerMinute)
	m.formAPIBurst = strconv.Itoa(m.api.BurstLimit)

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Enable API").
				Affirmative("Yes").
				Negative("No").
				Value(&m.formAPIEnabled),
			huh.NewConfirm().
				Title("Require API Key").
				Affirmative("Yes").
				Negative("No").
				Value(&m.formAPIKeyReq),
			huh.NewInput().
				Title("Requests per Minute").
				Value(&m.formAPIRPM).
				Validate(validateNumber("Requests per minute")),
			huh.NewInput().
				Title("Burst Limit").
				Value(&m.formAPIBurst).
				Validate(validateNumber("Burst limit")),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateAPIForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.apiForm == nil {
		return m, nil
	}

	mdl, cmd := m.apiForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.apiForm = f
	}

	if m.apiForm.State == huh.StateCompleted {
		api := m.api
		api.Enabled = m.formAPIEnabled
		api.RequireAPIKey = m.formAPIKeyReq
		api.RequestsPerMinute, _ = strconv.Atoi(m.formAPIRPM)
		api.BurstLimit, _ = strconv.Atoi(m.formAPIBurst)
		return m, m.saveAPI(api)
	}
	if m.apiForm.State == huh.StateAborted {
		m.mode = ModeMenu
		return m, nil
	}

	return m, cmd
}

// --- API key forms ---

func (m *Model) buildNewKeyForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Key Name").
				Description("A label identifying who or what uses this key").
				Placeholder("ci-pipeline").
				Value(&m.formKeyName).
				Validate(validateRequired("Name")),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateNewKeyForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.newKeyForm == nil {
		return m, nil
	}

	mdl, cmd := m.newKeyForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.newKeyForm = f
	}

	if m.newKeyForm.State == huh.StateCompleted {
		return m, m.createKey(m.formKeyName)
	}
	if m.newKeyForm.State == huh.StateAborted {
		m.mode = ModeKeyList
		return m, nil
	}

	return m, cmd
}

func (m *Model) buildConfirmForm() *huh.Form {
	name := ""
	if m.keyIdx < len(m.apiKeys) {
		name = m.apiKeys[m.keyIdx].Name
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Delete API key %q?", name)).
				Description("Clients using this key lose access immediately.").
				Affirmative("Yes, delete").
				Negative("Cancel").
				Value(&m.dropConfirm),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateConfirmForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.confirmForm == nil {
		return m, nil
	}

	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}

	if m.confirmForm.State == huh.StateCompleted {
		if m.dropConfirm && m.keyIdx < len(m.apiKeys) {
			return m, m.deleteKey(m.apiKeys[m.keyIdx].ID)
		}
		m.mode = ModeKeyList
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.mode = ModeKeyList
		return m, nil
	}

	return m, cmd
}

// --- View ---

// View renders the settings UI based on the current mode.
func (m Model) View() string {
	switch m.mode {
	case ModeMenu:
		return m.viewMenu()
	case ModeFormSite:
		return m.viewForm(m.siteForm)
	case ModeFormSMTP:
		return m.viewForm(m.smtpForm)
	case ModeFormAPI:
		return m.viewForm(m.apiForm)
	case ModeKeyList:
		return m.viewKeyList()
	case ModeFormNewKey:
		return m.viewForm(m.newKeyForm)
	case ModeConfirmDrop:
		return m.viewForm(m.confirmForm)
	case ModeProbing:
		return m.viewProbing()
	case ModeProbeResult:
		return m.viewProbeResult()
	default:
		return ""
	}
}

func (m Model) viewMenu() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	b.WriteString(titleStyle.Render("Settings"))
	b.WriteString("\n\n")

	for i, entry := range menuEntries {
		if i == m.menuIdx {
			b.WriteString(theme.SelectedItemStyle.Render(entry))
		} else {
			b.WriteString(theme.ListItemStyle.Render(entry))
		}
		b.WriteString("\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Italic(true).
			Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("enter open | esc back"))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(b.String())
}

func (m Model) viewKeyList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	b.WriteString(titleStyle.Render("API Keys"))
	b.WriteString("\n\n")

	if len(m.apiKeys) == 0 {
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Italic(true).
			Render("No API keys issued.\nPress 'a' to create one."))
	} else {
		for i, k := range m.apiKeys {
			lastUsed := "never used"
			if k.LastUsed != nil {
				lastUsed = "used " + k.LastUsed.Format("2006-01-02")
			}
			line := fmt.Sprintf("%s  %s  %s", k.Name, maskKey(k.Key), lastUsed)
			if i == m.keyIdx {
				b.WriteString(theme.SelectedItemStyle.Render(line))
			} else {
				b.WriteString(theme.ListItemStyle.Render(line))
			}
			b.WriteString("\n")
		}
	}

	if m.createdKey != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.ColorGreen).
			Render("New key (copy it now, it is not shown again):\n  " + m.createdKey))
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.ColorYellow).
			Italic(true).
			Render(m.statusMsg))
	}

	b.WriteString("\n\n")
	b.WriteString(theme.HelpStyle.Render("a create | d delete | esc back"))

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(b.String())
}

func (m Model) viewForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(f.View())
}

func (m Model) viewProbing() string {
	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(fmt.Sprintf(
			"%s Testing SMTP connection...\n\nPress esc to cancel.",
			m.spinner.View(),
		))
}

func (m Model) viewProbeResult() string {
	style := lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height)

	if m.probeErr != nil {
		errStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorRed)
		return style.Render(errStyle.Render("SMTP connection failed") + "\n\n" +
			m.probeErr.Error() + "\n\n" +
			theme.HelpStyle.Render("enter/esc back"))
	}

	okStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorGreen)
	return style.Render(okStyle.Render("SMTP connection successful") + "\n\n" +
		"Settings saved.\n\n" +
		theme.HelpStyle.Render("enter/esc back"))
}

// --- Commands ---

func (m Model) loadSettings() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()

		site, err := s.GetSiteSettings(ctx)
		if err != nil {
			return settingsLoadedMsg{err: err}
		}
		smtp, err := s.GetSMTPSettings(ctx)
		if err != nil {
			return settingsLoadedMsg{err: err}
		}
		api, err := s.GetAPISettings(ctx)
		if err != nil {
			return settingsLoadedMsg{err: err}
		}
		apiKeys, err := s.GetAPIKeys(ctx)
		if err != nil {
			return settingsLoadedMsg{err: err}
		}

		return settingsLoadedMsg{site: site, smtp: smtp, api: api, keys: apiKeys}
	}
}

func (m Model) saveSite(site model.SiteSettings) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.SaveSiteSettings(context.Background(), site)
		return sectionSavedMsg{section: "site", err: err}
	}
}

func (m Model) saveSMTP(smtp model.SMTPSettings) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.SaveSMTPSettings(context.Background(), smtp)
		return sectionSavedMsg{section: "smtp", err: err}
	}
}

func (m Model) saveAPI(api model.APISettings) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.SaveAPISettings(context.Background(), api)
		return sectionSavedMsg{section: "api", err: err}
	}
}

func probeRelay(smtp model.SMTPSettings) tea.Cmd {
	return func() tea.Msg {
		return probeResultMsg{err: smtpcheck.Probe(smtp)}
	}
}

func (m Model) createKey(name string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		apiKey, err := s.CreateAPIKey(context.Background(), name)
		return keyCreatedMsg{apiKey: apiKey, err: err}
	}
}

func (m Model) deleteKey(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		err := s.DeleteAPIKey(context.Background(), id)
		return keyDeletedMsg{err: err}
	}
}

// --- Helpers ---

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func maskKey(k string) string {
	if len(k) <= 8 {
		return "****"
	}
	return k[:6] + "…" + k[len(k)-4:]
}

// --- Validators ---

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validatePort(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("port is required")
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 || n > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}

func validateNumber(fieldName string) func(string) error {
	return func(s string) error {
		if _, err := strconv.Atoi(strings.TrimSpace(s)); err != nil {
			return fmt.Errorf("%s must be a number", fieldName)
		}
		return nil
	}
}

func validateHexColor(s string) error {
	if s == "" {
		return nil
	}
	if !strings.HasPrefix(s, "#") || (len(s) != 7 && len(s) != 4) {
		return fmt.Errorf("color must be a hex value like #6366f1")
	}
	return nil
}
