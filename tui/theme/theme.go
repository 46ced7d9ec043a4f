package theme

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/richedit/config"
)

const defaultThemeName = "default"

// --- Kanagawa Dragon (dark) palette, used by "default" ---
const (
	darkGreen              = "#98BB6C"
	darkYellow             = "#FF9E3B"
	darkRed                = "#FF5D62"
	darkOrange             = "#FFA066"
	darkCyan               = "#7E9CD8"
	darkBlue               = "#7FB4CA"
	darkViolet             = "#957FB8"
	darkPink               = "#D27E99"
	darkLightText          = "#DCD7BA"
	darkMutedText          = "#727169"
	darkBorder             = "#363646"
	darkSelectedBackground = "#223249"
	darkSubtleBackground   = "#1F1F28"
	darkMarkBackground     = "#49443C"
)

// --- Kanagawa Lotus (light) palette, used by "light" ---
const (
	lightGreen              = "#6F894E"
	lightYellow             = "#77713F"
	lightRed                = "#C84053"
	lightOrange             = "#CC6D00"
	lightCyan               = "#4D699B"
	lightBlue               = "#4E8CA2"
	lightViolet             = "#624C83"
	lightPink               = "#B35B79"
	lightLightText          = "#545464"
	lightMutedText          = "#8A8980"
	lightBorder             = "#C7C7B9"
	lightSelectedBackground = "#C9CBD1"
	lightSubtleBackground   = "#E7DBA0"
	lightMarkBackground     = "#F9E7A2"
)

// --- ANSI palette, used by "mono" ---
const (
	terminalGreen              = "2"
	terminalYellow             = "3"
	terminalRed                = "1"
	terminalOrange             = "208"
	terminalCyan               = "6"
	terminalBlue               = "4"
	terminalViolet             = "5"
	terminalPink               = "13"
	terminalLightText          = "7"
	terminalMutedText          = "8"
	terminalBorder             = "8"
	terminalSelectedBackground = "8"
	terminalSubtleBackground   = "0"
	terminalMarkBackground     = "3"
)

// Colors is a theme palette.
type Colors struct {
	Green              lipgloss.TerminalColor
	Yellow             lipgloss.TerminalColor
	Red                lipgloss.TerminalColor
	Orange             lipgloss.TerminalColor
	Cyan               lipgloss.TerminalColor
	Blue               lipgloss.TerminalColor
	Violet             lipgloss.TerminalColor
	Pink               lipgloss.TerminalColor
	LightText          lipgloss.TerminalColor
	MutedText          lipgloss.TerminalColor
	Border             lipgloss.TerminalColor
	SelectedBackground lipgloss.TerminalColor
	SubtleBackground   lipgloss.TerminalColor
	MarkBackground     lipgloss.TerminalColor
}

// Theme holds every style the CLI and the editor view render with.
type Theme struct {
	Name   string
	Colors Colors

	Header lipgloss.Style
	Title  lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	Bold     lipgloss.Style
	Normal   lipgloss.Style
	Muted    lipgloss.Style
	Selected lipgloss.Style
	Accent   lipgloss.Style

	Box         lipgloss.Style // popup frame
	Code        lipgloss.Style
	Placeholder lipgloss.Style
	Cursor      lipgloss.Style

	// Document styles.
	Heading    lipgloss.Style
	Quote      lipgloss.Style
	CodeBlock  lipgloss.Style
	Link       lipgloss.Style
	Mark       lipgloss.Style
	Rule       lipgloss.Style
	ActiveItem lipgloss.Style // pressed toolbar button
	GroupTitle lipgloss.Style
}

var themeRegistry = map[string]func() Colors{
	"default": newDarkColors,
	"light":   newLightColors,
	"mono":    newTerminalColors,
}

var themeAliases = map[string]string{
	"dark":     "default",
	"kanagawa": "default",
	"terminal": "mono",
}

// DefaultTheme is resolved once from RICHEDIT_THEME or the theme section of
// the configuration.
var DefaultTheme = NewThemeWithName(getThemeName())

// NewThemeWithName builds a theme; unknown names fall back to the default.
func NewThemeWithName(name string) *Theme {
	key := normalizeThemeName(name)
	if alias, ok := themeAliases[key]; ok {
		key = alias
	}
	builder, ok := themeRegistry[key]
	if !ok {
		key = defaultThemeName
		builder = themeRegistry[key]
	}
	return newThemeFromColors(key, builder())
}

// RenderHeader renders a header with the default theme.
func RenderHeader(title string) string {
	return DefaultTheme.Header.Render(title)
}

// RenderStatus renders text in the style for status.
func RenderStatus(status, text string) string {
	switch status {
	case "success":
		return DefaultTheme.Success.Render(text)
	case "error":
		return DefaultTheme.Error.Render(text)
	case "warning":
		return DefaultTheme.Warning.Render(text)
	case "info":
		return DefaultTheme.Info.Render(text)
	default:
		return text
	}
}

func newThemeFromColors(name string, colors Colors) *Theme {
	return &Theme{
		Name:   name,
		Colors: colors,

		Header: lipgloss.NewStyle().
			Bold(true).
			MarginTop(1).
			MarginBottom(1),

		Title: lipgloss.NewStyle().
			Bold(true).
			Underline(true),

		Success: lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(colors.Red).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(colors.Yellow).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(colors.Cyan).
			Bold(true),

		Bold: lipgloss.NewStyle().
			Bold(true),

		Normal: lipgloss.NewStyle(),

		Muted: lipgloss.NewStyle().
			Foreground(colors.MutedText),

		Selected: lipgloss.NewStyle().
			Background(colors.SelectedBackground).
			Foreground(colors.LightText),

		Accent: lipgloss.NewStyle().
			Foreground(colors.Violet).
			Bold(true),

		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Border).
			Padding(0, 1),

		Code: lipgloss.NewStyle().
			Background(colors.SubtleBackground).
			Foreground(colors.Orange),

		Placeholder: lipgloss.NewStyle().
			Foreground(colors.MutedText).
			Italic(true),

		Cursor: lipgloss.NewStyle().
			Reverse(true),

		Heading: lipgloss.NewStyle().
			Foreground(colors.Blue).
			Bold(true),

		Quote: lipgloss.NewStyle().
			Foreground(colors.MutedText).
			Italic(true),

		CodeBlock: lipgloss.NewStyle().
			Background(colors.SubtleBackground).
			Foreground(colors.LightText),

		Link: lipgloss.NewStyle().
			Foreground(colors.Cyan).
			Underline(true),

		Mark: lipgloss.NewStyle().
			Background(colors.MarkBackground),

		Rule: lipgloss.NewStyle().
			Foreground(colors.Border),

		ActiveItem: lipgloss.NewStyle().
			Foreground(colors.Green).
			Bold(true),

		GroupTitle: lipgloss.NewStyle().
			Foreground(colors.MutedText).
			Bold(true),
	}
}

func normalizeThemeName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.ReplaceAll(normalized, " ", "-")
	normalized = strings.ReplaceAll(normalized, "_", "-")
	return normalized
}

func getThemeName() string {
	if theme := normalizeThemeName(os.Getenv("RICHEDIT_THEME")); theme != "" {
		return theme
	}

	cfg, err := config.LoadDefault()
	if err != nil || cfg == nil {
		return defaultThemeName
	}
	return cfg.Theme.Name
}

func newDarkColors() Colors {
	return Colors{
		Green:              lipgloss.Color(darkGreen),
		Yellow:             lipgloss.Color(darkYellow),
		Red:                lipgloss.Color(darkRed),
		Orange:             lipgloss.Color(darkOrange),
		Cyan:               lipgloss.Color(darkCyan),
		Blue:               lipgloss.Color(darkBlue),
		Violet:             lipgloss.Color(darkViolet),
		Pink:               lipgloss.Color(darkPink),
		LightText:          lipgloss.Color(darkLightText),
		MutedText:          lipgloss.Color(darkMutedText),
		Border:             lipgloss.Color(darkBorder),
		SelectedBackground: lipgloss.Color(darkSelectedBackground),
		SubtleBackground:   lipgloss.Color(darkSubtleBackground),
		MarkBackground:     lipgloss.Color(darkMarkBackground),
	}
}

func newLightColors() Colors {
	return Colors{
		Green:              lipgloss.Color(lightGreen),
		Yellow:             lipgloss.Color(lightYellow),
		Red:                lipgloss.Color(lightRed),
		Orange:             lipgloss.Color(lightOrange),
		Cyan:               lipgloss.Color(lightCyan),
		Blue:               lipgloss.Color(lightBlue),
		Violet:             lipgloss.Color(lightViolet),
		Pink:               lipgloss.Color(lightPink),
		LightText:          lipgloss.Color(lightLightText),
		MutedText:          lipgloss.Color(lightMutedText),
		Border:             lipgloss.Color(lightBorder),
		SelectedBackground: lipgloss.Color(lightSelectedBackground),
		SubtleBackground:   lipgloss.Color(lightSubtleBackground),
		MarkBackground:     lipgloss.Color(lightMarkBackground),
	}
}

func newTerminalColors() Colors {
	return Colors{
		Green:              lipgloss.Color(terminalGreen),
		Yellow:             lipgloss.Color(terminalYellow),
		Red:                lipgloss.Color(terminalRed),
		Orange:             lipgloss.Color(terminalOrange),
		Cyan:               lipgloss.Color(terminalCyan),
		Blue:               lipgloss.Color(terminalBlue),
		Violet:             lipgloss.Color(terminalViolet),
		Pink:               lipgloss.Color(terminalPink),
		LightText:          lipgloss.Color(terminalLightText),
		MutedText:          lipgloss.Color(terminalMutedText),
		Border:             lipgloss.Color(terminalBorder),
		SelectedBackground: lipgloss.Color(terminalSelectedBackground),
		SubtleBackground:   lipgloss.Color(terminalSubtleBackground),
		MarkBackground:     lipgloss.Color(terminalMarkBackground),
	}
}
