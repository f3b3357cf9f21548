// Package authview is the sign-in / sign-up UI for the optional local
// account, which gates the settings and admin views.
package authview

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/burnbox/burnbox/internal/auth"
	"github.com/burnbox/burnbox/internal/model"
	"github.com/burnbox/burnbox/internal/theme"
)

// Mode represents the current state of the auth view.
type Mode int

const (
	ModeSignIn Mode = iota
	ModeSignUp
	ModePassword
)

// DoneMsg signals the auth view should close.
type DoneMsg struct{}

// SignedInMsg is sent after a successful sign-in or sign-up.
type SignedInMsg struct {
	User *model.User
}

type authResultMsg struct {
	user *model.User
	err  error
}

type passwordChangedMsg struct {
	err error
}

// Model is the Bubble Tea model for the auth UI.
type Model struct {
	mode    Mode
	service *auth.Service

	form *huh.Form

	formEmail    string
	formPassword string
	formConfirm  string
	formName     string
	formOldPass  string

	statusMsg     string
	width, height int
}

// New creates the auth view model.
func New(service *auth.Service, width, height int) Model {
	return Model{
		mode:    ModeSignIn,
		service: service,
		width:   width,
		height:  height,
	}
}

// Init builds and starts the sign-in form.
func (m Model) Init() tea.Cmd {
	m.form = m.buildSignInForm()
	return m.form.Init()
}

// StartSignIn switches to the sign-in form.
func (m *Model) StartSignIn() tea.Cmd {
	m.mode = ModeSignIn
	m.statusMsg = ""
	m.resetFields()
	m.form = m.buildSignInForm()
	return m.form.Init()
}

// StartSignUp switches to the registration form.
func (m *Model) StartSignUp() tea.Cmd {
	m.mode = ModeSignUp
	m.statusMsg = ""
	m.resetFields()
	m.form = m.buildSignUpForm()
	return m.form.Init()
}

// StartPasswordChange switches to the change-password form.
func (m *Model) StartPasswordChange() tea.Cmd {
	m.mode = ModePassword
	m.statusMsg = ""
	m.resetFields()
	m.form = m.buildPasswordForm()
	return m.form.Init()
}

// Update handles messages for the auth view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case authResultMsg:
		if msg.err != nil {
			m.statusMsg = msg.err.Error()
			return m, m.restartCurrentForm()
		}
		return m, func() tea.Msg { return SignedInMsg{User: msg.user} }

	case passwordChangedMsg:
		if msg.err != nil {
			m.statusMsg = msg.err.Error()
			return m, m.restartCurrentForm()
		}
		m.statusMsg = "Password changed"
		return m, func() tea.Msg { return DoneMsg{} }

	case tea.KeyMsg:
		// Tab between sign-in and sign-up.
		if msg.String() == "tab" && m.mode != ModePassword {
			if m.mode == ModeSignIn {
				return m, m.StartSignUp()
			}
			return m, m.StartSignIn()
		}
	}

	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m.submit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return DoneMsg{} }
	}

	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	service := m.service
	switch m.mode {
	case ModeSignIn:
		email, password := m.formEmail, m.formPassword
		return m, func() tea.Msg {
			user, err := service.SignIn(context.Background(), email, password)
			return authResultMsg{user: user, err: err}
		}

	case ModeSignUp:
		if m.formPassword != m.formConfirm {
			m.statusMsg = "Passwords do not match"
			return m, m.restartCurrentForm()
		}
		email, password, name := m.formEmail, m.formPassword, m.formName
		return m, func() tea.Msg {
			user, err := service.SignUp(context.Background(), email, password, name)
			return authResultMsg{user: user, err: err}
		}

	case ModePassword:
		oldPass, newPass := m.formOldPass, m.formPassword
		return m, func() tea.Msg {
			err := service.ChangePassword(context.Background(), oldPass, newPass)
			return passwordChangedMsg{err: err}
		}
	}
	return m, nil
}

func (m *Model) restartCurrentForm() tea.Cmd {
	switch m.mode {
	case ModeSignIn:
		m.form = m.buildSignInForm()
	case ModeSignUp:
		m.form = m.buildSignUpForm()
	case ModePassword:
		m.form = m.buildPasswordForm()
	}
	return m.form.Init()
}

func (m *Model) resetFields() {
	m.formEmail = ""
	m.formPassword = ""
	m.formConfirm = ""
	m.formName = ""
	m.formOldPass = ""
}

func (m *Model) buildSignInForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.formEmail).
				Validate(validateRequired("Email")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.formPassword).
				Validate(validateRequired("Password")),
		),
	).WithWidth(m.formWidth())
}

func (m *Model) buildSignUpForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Placeholder("you@example.com").
				Value(&m.formEmail).
				Validate(validateRequired("Email")),
			huh.NewInput().
				Title("Display Name").
				Value(&m.formName),
			huh.NewInput().
				Title("Password").
				Description(fmt.Sprintf("At least %d characters", auth.MinPasswordLength)).
				EchoMode(huh.EchoModePassword).
				Value(&m.formPassword).
				Validate(validatePassword),
			huh.NewInput().
				Title("Confirm Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.formConfirm).
				Validate(validateRequired("Confirmation")),
		),
	).WithWidth(m.formWidth())
}

func (m *Model) buildPasswordForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Current Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.formOldPass).
				Validate(validateRequired("Current password")),
			huh.NewInput().
				Title("New Password").
				Description(fmt.Sprintf("At least %d characters", auth.MinPasswordLength)).
				EchoMode(huh.EchoModePassword).
				Value(&m.formPassword).
				Validate(validatePassword),
		),
	).WithWidth(m.formWidth())
}

// View renders the auth UI.
func (m Model) View() string {
	var title string
	switch m.mode {
	case ModeSignIn:
		title = "Sign In"
	case ModeSignUp:
		title = "Create Account"
	case ModePassword:
		title = "Change Password"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n\n")
	if m.form != nil {
		b.WriteString(m.form.View())
	}

	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().
			Foreground(theme.ColorRed).
			Italic(true).
			Render(m.statusMsg))
	}

	if m.mode != ModePassword {
		b.WriteString("\n\n")
		b.WriteString(theme.HelpStyle.Render("tab switch sign in/sign up | esc back"))
	}

	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.width).
		Height(m.height).
		Render(b.String())
}

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
	if w > 80 {
		w = 80
	}
	return w
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validatePassword(s string) error {
	if len(s) < auth.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", auth.MinPasswordLength)
	}
	return nil
}
