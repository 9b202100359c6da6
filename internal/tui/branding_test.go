package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/cinelab/cine/internal/config"
)

func TestApplyThemeOverridesPalette(t *testing.T) {
	defer ApplyTheme(config.TestConfig().UI.Colors)

	ApplyTheme(config.UIColors{Primary: "#FF0000", Muted: "#00FF00"})

	assert.Equal(t, lipgloss.Color("#FF0000"), PrimaryColor)
	assert.Equal(t, lipgloss.Color("#FF0000"), LogoStyle.GetForeground())
	assert.Equal(t, lipgloss.Color("#00FF00"), MutedColor)
	assert.Equal(t, lipgloss.Color("#00FF00"), HelpStyle.GetForeground())

	// Colors the section leaves out keep their current value.
	assert.Equal(t, lipgloss.Color("#4ECDC4"), SecondaryColor)
	assert.Equal(t, lipgloss.Color("#4ECDC4"), HeaderStyle.GetForeground())
}
