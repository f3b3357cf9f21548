package theme

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/burnbox/burnbox/internal/model"
)

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorAccent  = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
	ColorBorder  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#E2E8F0"}
	ColorAddress = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
)

// HeaderStyle is used for the application title bar.
var HeaderStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorWhite).
	Background(ColorAccent).
	Padding(0, 1)

// AddressStyle renders the active disposable address in the header.
var AddressStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorAddress)

// StatusBarStyle is used for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(ColorWhite).
	Background(ColorSubtle).
	Padding(0, 1)

// ViewerPanelStyle wraps the message viewer content area.
var ViewerPanelStyle = lipgloss.NewStyle().
	Padding(1, 2).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ListItemStyle is the base style for items in the inbox list.
var ListItemStyle = lipgloss.NewStyle().
	PaddingLeft(2)

// SelectedItemStyle highlights the currently focused list item.
var SelectedItemStyle = lipgloss.NewStyle().
	PaddingLeft(1).
	Bold(true).
	Foreground(ColorAccent).
	Border(lipgloss.NormalBorder(), false, false, false, true).
	BorderForeground(ColorAccent)

// HelpStyle is used for keyboard shortcut hints and help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(ColorGray).
	Italic(true)

// BorderStyle provides a standard rounded border for panels.
var BorderStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorBorder)

// ToastStyle renders transient notifications above the status bar.
var ToastStyle = lipgloss.NewStyle().
	Bold(true).
	Padding(0, 1).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(ColorAccent)

// ErrorToastStyle is the toast variant for failures.
var ErrorToastStyle = ToastStyle.
	BorderForeground(ColorRed).
	Foreground(ColorRed)

// UnreadStyle marks messages that have not been opened yet.
var UnreadStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(ColorYellow)

// CountdownStyle renders the seconds-until-refresh indicator.
func CountdownStyle(secondsLeft int) lipgloss.Style {
	base := lipgloss.NewStyle().Bold(true)
	if secondsLeft <= 5 {
		return base.Foreground(ColorYellow)
	}
	return base.Foreground(ColorGray)
}

// FromSettings builds header and address styles from the color palette
// an admin configured, falling back to the adaptive defaults when a
// value is empty.
func FromSettings(colors model.ThemeColors) (header, address lipgloss.Style) {
	header = HeaderStyle
	address = AddressStyle
	if colors.Accent != "" {
		header = header.Background(lipgloss.Color(colors.Accent))
	}
	if colors.AccentHover != "" {
		address = address.Foreground(lipgloss.Color(colors.AccentHover))
	}
	return header, address
}
