// Package display styles terminal output with lipgloss.
//
// Color follows NO_COLOR (https://no-color.org/) and FORCE_COLOR, and is
// otherwise on only when stdout is a color-capable terminal.
package display

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ANSI palette indices, so output follows the terminal's theme.
const (
	colorRed    = lipgloss.Color("1")
	colorGreen  = lipgloss.Color("2")
	colorYellow = lipgloss.Color("3")
	colorCyan   = lipgloss.Color("6")
	colorGray   = lipgloss.Color("8")
)

type palette struct {
	bold, dim, accent              lipgloss.Style
	green, yellow, red, cyan, gray lipgloss.Style
}

var (
	renderer = lipgloss.NewRenderer(os.Stdout)
	enabled  bool
	styles   palette
)

func init() {
	SetEnabled(shouldEnable())
}

func shouldEnable() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if _, ok := os.LookupEnv("FORCE_COLOR"); ok {
		return true
	}
	return renderer.ColorProfile() != termenv.Ascii
}

// SetEnabled overrides color detection, e.g. for --no-color or tests.
func SetEnabled(on bool) {
	enabled = on
	profile := termenv.Ascii
	if on {
		profile = termenv.ANSI
	}
	renderer.SetColorProfile(profile)

	s := renderer.NewStyle
	styles = palette{
		bold:   s().Bold(true),
		dim:    s().Faint(true),
		accent: s().Bold(true).Foreground(colorCyan),
		green:  s().Foreground(colorGreen),
		yellow: s().Foreground(colorYellow),
		red:    s().Foreground(colorRed),
		cyan:   s().Foreground(colorCyan),
		gray:   s().Foreground(colorGray),
	}
}

// Enabled reports whether color output is on.
func Enabled() bool { return enabled }

// Renderer is the renderer every package style is bound to. Other packages
// build their styles from it so one color decision applies everywhere.
func Renderer() *lipgloss.Renderer { return renderer }

func Bold(text string) string   { return styles.bold.Render(text) }
func Dim(text string) string    { return styles.dim.Render(text) }
func Green(text string) string  { return styles.green.Render(text) }
func Yellow(text string) string { return styles.yellow.Render(text) }
func Cyan(text string) string   { return styles.cyan.Render(text) }
func Gray(text string) string   { return styles.gray.Render(text) }

// Red marks forbidden windows.
func Red(text string) string { return styles.red.Render(text) }

// Accent is bold cyan, used for the next prayer.
func Accent(text string) string { return styles.accent.Render(text) }

// Boldf is Bold over fmt.Sprintf.
func Boldf(format string, a ...any) string {
	return Bold(fmt.Sprintf(format, a...))
}
