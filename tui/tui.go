// Package tui holds the terminal front end shared by richedit commands.
package tui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/richedit/config"
	"github.com/grovetools/richedit/tui/theme"
	"github.com/muesli/termenv"
)

// Setup picks the icon set, theme and color profile before anything is
// rendered. RICHEDIT_THEME, when set, wins over the configured theme.
func Setup(cfg *config.Config, ascii bool) {
	if cfg == nil {
		cfg = config.Default()
	}
	if ascii || cfg.Theme.Icons == "ascii" {
		theme.UseASCII(true)
	}
	if os.Getenv("RICHEDIT_THEME") == "" {
		theme.DefaultTheme = theme.NewThemeWithName(cfg.Theme.Name)
	}
	if p, ok := forcedProfile(); ok {
		lipgloss.SetColorProfile(p)
	}
}

// forcedProfile reads the conventional color overrides. NO_COLOR beats
// CLICOLOR_FORCE; anything else keeps the detected profile so that output
// piped to a file stays plain.
func forcedProfile() (termenv.Profile, bool) {
	if os.Getenv("NO_COLOR") != "" {
		return termenv.Ascii, true
	}
	if os.Getenv("CLICOLOR_FORCE") == "1" || os.Getenv("COLORTERM") == "truecolor" {
		return termenv.TrueColor, true
	}
	return termenv.Ascii, false
}
