package theme_test

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/burnbox/burnbox/internal/model"
	"github.com/burnbox/burnbox/internal/theme"
)

func TestFromSettingsAppliesConfiguredPalette(t *testing.T) {
	header, address := theme.FromSettings(model.ThemeColors{
		Accent:      "#112233",
		AccentHover: "#445566",
	})

	assert.Equal(t, lipgloss.Color("#112233"), header.GetBackground())
	assert.Equal(t, lipgloss.Color("#445566"), address.GetForeground())
}

func TestFromSettingsFallsBackToDefaults(t *testing.T) {
	header, address := theme.FromSettings(model.ThemeColors{})

	assert.Equal(t, theme.HeaderStyle.GetBackground(), header.GetBackground())
	assert.Equal(t, theme.AddressStyle.GetForeground(), address.GetForeground())
}

func TestFromSettingsOverridesIndependently(t *testing.T) {
	header, address := theme.FromSettings(model.ThemeColors{Accent: "#0B7285"})

	assert.Equal(t, lipgloss.Color("#0B7285"), header.GetBackground())
	assert.Equal(t, theme.AddressStyle.GetForeground(), address.GetForeground())
}
