package logging

import (
	"context"
	"fmt"
	"regexp"

	"github.com/grovetools/richedit/tui/theme"
	"github.com/sirupsen/logrus"
)

// ansiRegex matches ANSI escape sequences for stripping
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// UnifiedLogger writes each message twice: styled for the user and as a
// structured log record.
type UnifiedLogger struct {
	component  string
	structured *logrus.Entry
}

// NewUnifiedLogger creates a unified logger for component.
func NewUnifiedLogger(component string) *UnifiedLogger {
	return newUnifiedLogger(component, NewLogger(component))
}

func newUnifiedLogger(component string, structured *logrus.Entry) *UnifiedLogger {
	return &UnifiedLogger{component: component, structured: structured}
}

func (u *UnifiedLogger) entry(level logrus.Level, msg, icon string, fields logrus.Fields) *LogEntry {
	if fields == nil {
		fields = logrus.Fields{}
	}
	return &LogEntry{logger: u, msg: msg, level: level, icon: icon, fields: fields}
}

// Info returns a LogEntry at INFO level.
func (u *UnifiedLogger) Info(msg string) *LogEntry {
	return u.entry(logrus.InfoLevel, msg, "", nil)
}

// Warn returns a LogEntry at WARN level.
func (u *UnifiedLogger) Warn(msg string) *LogEntry {
	return u.entry(logrus.WarnLevel, msg, theme.IconWarning, nil)
}

// Error returns a LogEntry at ERROR level.
func (u *UnifiedLogger) Error(msg string) *LogEntry {
	return u.entry(logrus.ErrorLevel, msg, theme.IconError, nil)
}

// Success returns an INFO entry tagged status=success.
func (u *UnifiedLogger) Success(msg string) *LogEntry {
	return u.entry(logrus.InfoLevel, msg, theme.IconSuccess, logrus.Fields{"status": "success"})
}

// Component returns the component name for this logger.
func (u *UnifiedLogger) Component() string {
	return u.component
}

// LogEntry accumulates options until Log is called.
type LogEntry struct {
	logger     *UnifiedLogger
	msg        string
	level      logrus.Level
	fields     logrus.Fields
	icon       string
	structOnly bool
}

// Field adds a structured field (chainable).
func (e *LogEntry) Field(key string, value interface{}) *LogEntry {
	e.fields[key] = value
	return e
}

// Err attaches an error (chainable).
func (e *LogEntry) Err(err error) *LogEntry {
	if err != nil {
		e.fields["error"] = err.Error()
	}
	return e
}

// StructuredOnly skips pretty output (chainable).
func (e *LogEntry) StructuredOnly() *LogEntry {
	e.structOnly = true
	return e
}

// Log writes the entry. Pretty output goes to the writer attached to ctx.
func (e *LogEntry) Log(ctx context.Context) {
	pretty := e.pretty()
	if !e.structOnly {
		fmt.Fprintln(GetWriter(ctx), pretty)
	}
	e.fields["pretty_text"] = ansiRegex.ReplaceAllString(pretty, "")
	e.logger.structured.WithFields(e.fields).Log(e.level, e.msg)
}

func (e *LogEntry) pretty() string {
	icon := e.icon
	if icon == "" {
		icon = theme.IconBullet
	}
	output := icon + " " + e.msg

	styles := DefaultPrettyStyles()
	switch {
	case e.level == logrus.WarnLevel:
		return styles.Warning.Render(output)
	case e.level == logrus.ErrorLevel:
		return styles.Error.Render(output)
	case e.icon == theme.IconSuccess:
		return styles.Success.Render(output)
	default:
		return styles.Info.Render(output)
	}
}
