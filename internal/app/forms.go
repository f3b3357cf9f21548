package app

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// buildConfirmNewForm asks the user to confirm discarding the current
// mailbox before a replacement is created.
func (m *Model) buildConfirmNewForm() *huh.Form {
	address := ""
	if snap := m.coordinator.Snapshot(); snap.Account != nil {
		address = snap.Account.EmailAddress
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Discard %s?", address)).
				Description(
					"Generating a new address permanently deletes the " +
						"current address and every email in its inbox.",
				).
				Affirmative("Yes, new address").
				Negative("Cancel").
				Value(&m.confirmNew),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateConfirmNewForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.confirmForm == nil {
		m.currentView = ViewInbox
		return m, nil
	}

	mdl, cmd := m.confirmForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.confirmForm = f
	}

	if m.confirmForm.State == huh.StateCompleted {
		m.currentView = ViewInbox
		if m.confirmNew {
			m.countdown = m.cfg.Display.RefreshIntervalSec
			return m, m.coordinator.CreateNew()
		}
		return m, nil
	}
	if m.confirmForm.State == huh.StateAborted {
		m.currentView = ViewInbox
		return m, nil
	}

	return m, cmd
}

// buildEditAddressForm collects a new local part for the address.
func (m *Model) buildEditAddressForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("New address name").
				Description("The part before the @; the domain stays the same").
				Placeholder("my.new.name").
				Value(&m.editLocal).
				Validate(validateLocalPart),
		),
	).WithWidth(m.formWidth())
}

func (m Model) updateEditAddressForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.editForm == nil {
		m.currentView = ViewInbox
		return m, nil
	}

	mdl, cmd := m.editForm.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.editForm = f
	}

	if m.editForm.State == huh.StateCompleted {
		m.currentView = ViewInbox
		local := strings.TrimSpace(strings.ToLower(m.editLocal))
		return m, m.coordinator.Rename(local)
	}
	if m.editForm.State == huh.StateAborted {
		m.currentView = ViewInbox
		return m, nil
	}

	return m, cmd
}

func (m Model) renderForm(f *huh.Form) string {
	if f == nil {
		return ""
	}
	return lipgloss.NewStyle().
		Padding(1, 2).
		Width(m.layout.ContentWidth()).
		Height(m.layout.ContentHeight()).
		Render(f.View())
}

func (m Model) formWidth() int {
	w := m.layout.ContentWidth() - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func validateLocalPart(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return fmt.Errorf("address name is required")
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9',
			r == '.', r == '-', r == '_':
		default:
			return fmt.Errorf("only letters, digits, '.', '-' and '_' are allowed")
		}
	}
	return nil
}
