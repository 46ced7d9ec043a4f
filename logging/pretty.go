package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/richedit/tui/theme"
)

// PrettyStyles are the styles of user-facing CLI lines.
type PrettyStyles struct {
	Success lipgloss.Style
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Key     lipgloss.Style
	Value   lipgloss.Style
	Path    lipgloss.Style
}

// DefaultPrettyStyles derives the styles from theme.DefaultTheme, so call
// it after the theme is chosen.
func DefaultPrettyStyles() PrettyStyles {
	t := theme.DefaultTheme
	return PrettyStyles{
		Success: t.Success,
		Info:    t.Info,
		Warning: t.Warning,
		Error:   t.Error,
		Key:     t.Muted,
		Value:   t.Accent.Bold(true),
		Path:    lipgloss.NewStyle().Foreground(t.Colors.Blue).Italic(true),
	}
}

// PrettyLogger prints status lines for people, not log files. Use a
// UnifiedLogger when the line should also be recorded.
type PrettyLogger struct {
	w      io.Writer
	styles PrettyStyles
}

// NewPrettyLogger writes to stderr.
func NewPrettyLogger() *PrettyLogger {
	return &PrettyLogger{w: os.Stderr, styles: DefaultPrettyStyles()}
}

// WithWriter redirects output, usually to a command's stdout.
func (p *PrettyLogger) WithWriter(w io.Writer) *PrettyLogger {
	p.w = w
	return p
}

func (p *PrettyLogger) status(style lipgloss.Style, icon, msg string) {
	fmt.Fprintln(p.w, style.Render(icon+" "+msg))
}

func (p *PrettyLogger) pair(key, value string, style lipgloss.Style) {
	fmt.Fprintf(p.w, "%s: %s\n", p.styles.Key.Render(key), style.Render(value))
}

// Success prints msg with a check mark.
func (p *PrettyLogger) Success(msg string) { p.status(p.styles.Success, theme.IconSuccess, msg) }

// WarnPretty prints msg as a warning.
func (p *PrettyLogger) WarnPretty(msg string) { p.status(p.styles.Warning, theme.IconWarning, msg) }

// ErrorPretty prints msg followed by err when err is non-nil.
func (p *PrettyLogger) ErrorPretty(msg string, err error) {
	if err != nil {
		msg += ": " + err.Error()
	}
	p.status(p.styles.Error, theme.IconError, msg)
}

// Field prints a key/value line.
func (p *PrettyLogger) Field(key string, value interface{}) {
	p.pair(key, fmt.Sprint(value), p.styles.Value)
}

// Path prints a labelled file path.
func (p *PrettyLogger) Path(label, path string) { p.pair(label, path, p.styles.Path) }
