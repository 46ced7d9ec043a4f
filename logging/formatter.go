package logging

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/grovetools/richedit/tui/theme"
	"github.com/sirupsen/logrus"
)

// TextFormatter renders one record per line:
//
//	2026-01-02 03:04:05 INFO  [edit/slashmenu] Slash menu opened query=head
//
// The component and the richtext part it came from share one tag. Values
// containing spaces or quotes are quoted.
type TextFormatter struct {
	Config FormatConfig
	// Plain disables styling, for sinks that are not terminals.
	Plain bool
}

// Format implements logrus.Formatter.
func (f *TextFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var b strings.Builder

	if !f.Config.DisableTimestamp {
		b.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
		b.WriteByte(' ')
	}

	level := strings.ToUpper(entry.Level.String())
	if level == "WARNING" {
		level = "WARN"
	}
	fmt.Fprintf(&b, "%-5s", level)

	if tag := f.tag(entry.Data); tag != "" {
		if !f.Plain {
			tag = theme.DefaultTheme.Accent.Render(tag)
		}
		b.WriteString(" [" + tag + "]")
	}

	if entry.HasCaller() {
		fmt.Fprintf(&b, " (%s:%d)", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}

	b.WriteByte(' ')
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if k != "component" && k != "part" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(formatValue(entry.Data[k]))
	}

	b.WriteByte('\n')
	return []byte(b.String()), nil
}

func (f *TextFormatter) tag(data logrus.Fields) string {
	if f.Config.DisableComponent {
		return ""
	}
	var parts []string
	for _, k := range []string{"component", "part"} {
		if v, ok := data[k]; ok {
			parts = append(parts, fmt.Sprint(v))
		}
	}
	return strings.Join(parts, "/")
}

func formatValue(v interface{}) string {
	var s string
	switch t := v.(type) {
	case error:
		s = t.Error()
	case string:
		s = t
	default:
		s = fmt.Sprint(v)
	}
	if s == "" || strings.ContainsAny(s, " \t\n\"=") {
		return strconv.Quote(s)
	}
	return s
}
