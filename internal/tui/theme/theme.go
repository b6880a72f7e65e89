// Package theme defines the color palettes used by reinst terminal output.
//
// Colors follow the Catppuccin palettes: Mocha for dark terminals, Latte
// for light ones. Plain disables styling entirely and is selected when
// NO_COLOR is set or output.color is "never".
package theme

import (
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme is the set of semantic colors reinst styles are built from.
type Theme struct {
	// Text colors
	Text    lipgloss.Color // Primary text
	Subtext lipgloss.Color // Secondary text
	Overlay lipgloss.Color // Dimmed text

	// Semantic colors
	Primary lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
	Info    lipgloss.Color

	// Selection highlight for interactive pickers
	SelectionFg lipgloss.Color
	SelectionBg lipgloss.Color
}

// Dark is the Catppuccin Mocha palette.
var Dark = Theme{
	Text:    lipgloss.Color("#cdd6f4"),
	Subtext: lipgloss.Color("#a6adc8"),
	Overlay: lipgloss.Color("#6c7086"),

	Primary: lipgloss.Color("#89b4fa"), // Blue
	Success: lipgloss.Color("#a6e3a1"), // Green
	Warning: lipgloss.Color("#f9e2af"), // Yellow
	Error:   lipgloss.Color("#f38ba8"), // Red
	Info:    lipgloss.Color("#89dceb"), // Sky

	SelectionFg: lipgloss.Color("#cdd6f4"),
	SelectionBg: lipgloss.Color("#45475a"), // Surface1
}

// Light is the Catppuccin Latte palette.
var Light = Theme{
	Text:    lipgloss.Color("#4c4f69"),
	Subtext: lipgloss.Color("#6c6f85"),
	Overlay: lipgloss.Color("#7c7f93"),

	Primary: lipgloss.Color("#1e66f5"),
	Success: lipgloss.Color("#40a02b"),
	Warning: lipgloss.Color("#df8e1d"),
	Error:   lipgloss.Color("#d20f39"),
	Info:    lipgloss.Color("#04a5e5"),

	SelectionFg: lipgloss.Color("#4c4f69"),
	SelectionBg: lipgloss.Color("#bcc0cc"), // Surface1
}

// Plain is a no-color theme. Empty colors render as terminal defaults.
var Plain = Theme{}

// NoColorEnabled reports whether the standard NO_COLOR variable is set.
// Presence means colors are disabled, regardless of value.
func NoColorEnabled() bool {
	_, noColorSet := os.LookupEnv("NO_COLOR")
	return noColorSet
}

// FromMode maps an output.color config value to a theme.
// "never" forces Plain, "always" skips the NO_COLOR check, and "auto"
// (or anything else) honors NO_COLOR and the terminal background.
func FromMode(mode string) Theme {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "never":
		return Plain
	case "always":
		return autoTheme()
	default:
		if NoColorEnabled() {
			return Plain
		}
		return autoTheme()
	}
}

var (
	modeMu      sync.RWMutex
	currentMode = "auto"
)

// SetMode selects the color mode returned by Current. The CLI calls it once
// at startup with the output.color config value.
func SetMode(mode string) {
	modeMu.Lock()
	currentMode = mode
	modeMu.Unlock()
}

// Current returns the theme for the configured color mode.
func Current() Theme {
	modeMu.RLock()
	mode := currentMode
	modeMu.RUnlock()
	return FromMode(mode)
}

// detectDarkBackground inspects the terminal to determine if a dark
// background is in use. It is defined as a variable for testability.
var detectDarkBackground = func() bool {
	output := termenv.NewOutput(os.Stdout)
	return output.HasDarkBackground()
}

var (
	cachedAutoTheme Theme
	autoThemeOnce   sync.Once
)

// resetAutoTheme resets the cached auto theme for testing purposes.
var resetAutoTheme = func() {
	autoThemeOnce = sync.Once{}
	cachedAutoTheme = Theme{}
}

func autoTheme() (result Theme) {
	autoThemeOnce.Do(func() {
		// Default to the dark palette, safer for most terminals
		cachedAutoTheme = Dark

		defer func() {
			if recover() != nil {
				cachedAutoTheme = Dark
			}
		}()

		if !detectDarkBackground() {
			cachedAutoTheme = Light
		}
	})
	return cachedAutoTheme
}
