package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the global keybindings for the application.
type KeyMap struct {
	// Navigation
	Down key.Binding
	Up   key.Binding

	// Selection
	Select key.Binding

	// Back / Quit
	Back key.Binding
	Quit key.Binding

	// Help toggle
	Help key.Binding

	// Mailbox actions
	Refresh     key.Binding
	NewAddress  key.Binding
	CopyAddress key.Binding
	EditAddress key.Binding
	AutoRefresh key.Binding
	Export      key.Binding
	Alerts      key.Binding

	// Secondary views
	Settings key.Binding
	SignIn   key.Binding
	About    key.Binding
}

// DefaultKeyMap returns the default set of keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "down"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "up"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open email"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh inbox"),
		),
		NewAddress: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new address"),
		),
		CopyAddress: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy address"),
		),
		EditAddress: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit address"),
		),
		AutoRefresh: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause auto-refresh"),
		),
		Export: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "export .eml"),
		),
		Alerts: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "clear alert badge"),
		),
		Settings: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "settings"),
		),
		SignIn: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "sign in"),
		),
		About: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "about"),
		),
	}
}

// ShortHelp returns the most essential keybindings for the compact help view.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.Up, k.Down, k.Select, k.Back,
		k.Refresh, k.NewAddress, k.CopyAddress, k.Quit,
	}
}

// FullHelp returns all keybindings grouped by category for the expanded
// help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Quit},
		{k.Refresh, k.NewAddress, k.CopyAddress, k.EditAddress},
		{k.AutoRefresh, k.Export, k.Alerts, k.Settings, k.SignIn, k.About},
		{k.Help},
	}
}
