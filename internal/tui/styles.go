package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/smokyabdulrahman/prayer-engine/internal/display"
)

var (
	colorPrimary   = lipgloss.Color("6")
	colorMuted     = lipgloss.Color("8")
	colorSuccess   = lipgloss.Color("2")
	colorWarning   = lipgloss.Color("3")
	colorForbidden = lipgloss.Color("1")
)

// Styles share the display renderer so --no-color and NO_COLOR apply here too.
var (
	r = display.Renderer()

	titleStyle = r.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	subtitleStyle = r.NewStyle().
			Foreground(colorMuted)

	panelStyle = r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 2)

	nextRowStyle = r.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	pastRowStyle = r.NewStyle().
			Foreground(colorMuted)

	prayerStateStyle = r.NewStyle().
				Bold(true).
				Foreground(colorSuccess)

	forbiddenStateStyle = r.NewStyle().
				Bold(true).
				Foreground(colorForbidden)

	neutralStateStyle = r.NewStyle().
				Foreground(colorWarning)

	errorStyle = r.NewStyle().
			Foreground(colorForbidden)
)
