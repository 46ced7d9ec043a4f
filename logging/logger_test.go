package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		config  FormatConfig
		level   logrus.Level
		data    logrus.Fields
		want    []string
		notWant []string
	}{
		{
			name:  "default",
			level: logrus.InfoLevel,
			data:  logrus.Fields{"component": "edit", "part": "slashmenu", "query": "head"},
			want:  []string{"2026-01-02 03:04:05 INFO  [edit/slashmenu] Menu opened query=head"},
		},
		{
			name:    "simple",
			config:  FormatConfig{DisableTimestamp: true, DisableComponent: true},
			level:   logrus.WarnLevel,
			data:    logrus.Fields{"component": "toolbar"},
			want:    []string{"WARN  Menu opened"},
			notWant: []string{"2026", "toolbar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &TextFormatter{Config: tt.config, Plain: true}
			entry := &logrus.Entry{
				Time:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
				Level:   tt.level,
				Message: "Menu opened",
				Data:    tt.data,
			}
			out, err := f.Format(entry)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, string(out), w)
			}
			for _, w := range tt.notWant {
				assert.NotContains(t, string(out), w)
			}
			assert.True(t, strings.HasSuffix(string(out), "\n"))
		})
	}
}

func TestTextFormatterSortsFields(t *testing.T) {
	f := &TextFormatter{Config: FormatConfig{DisableTimestamp: true}}
	out, err := f.Format(&logrus.Entry{
		Level:   logrus.DebugLevel,
		Message: "m",
		Data:    logrus.Fields{"b": 2, "a": 1, "c": "two words", "d": ""},
	})
	require.NoError(t, err)
	assert.Equal(t, `DEBUG m a=1 b=2 c="two words" d=""`+"\n", string(out))
}

func TestFileSinkKeepsOwnFormat(t *testing.T) {
	t.Setenv("RICHEDIT_LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "edit.log")
	var stderr bytes.Buffer
	prev := SetGlobalOutput(&stderr)
	t.Cleanup(func() { SetGlobalOutput(prev) })

	cfg := Config{
		File:   FileSinkConfig{Enabled: true, Path: path, Format: "text"},
		Format: FormatConfig{Preset: PresetJSON, StructuredToStderr: "always", DisableTimestamp: true},
	}
	newLogger("edit", cfg, "").WithField("part", "toolbar").Info("Toolbar shown")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "INFO  [edit/toolbar] Toolbar shown\n", string(data))
	assert.True(t, json.Valid(bytes.TrimSpace(stderr.Bytes())))
}

func TestNewLoggerLevel(t *testing.T) {
	t.Setenv("RICHEDIT_LOG_LEVEL", "")
	entry := newLogger("bus", Config{Level: "debug", Format: FormatConfig{StructuredToStderr: "never"}}, "")
	assert.Equal(t, logrus.DebugLevel, entry.Logger.GetLevel())
	assert.Equal(t, "bus", entry.Data["component"])

	t.Setenv("RICHEDIT_LOG_LEVEL", "error")
	entry = newLogger("bus", Config{Level: "debug"}, "")
	assert.Equal(t, logrus.ErrorLevel, entry.Logger.GetLevel())

	t.Setenv("RICHEDIT_LOG_LEVEL", "nonsense")
	entry = newLogger("bus", Config{}, "")
	assert.Equal(t, logrus.InfoLevel, entry.Logger.GetLevel())
}

func TestFileSinkJSON(t *testing.T) {
	t.Setenv("RICHEDIT_LOG_LEVEL", "")
	path := filepath.Join(t.TempDir(), "logs", "richedit.log")
	cfg := Config{
		Level:  "info",
		File:   FileSinkConfig{Enabled: true, Path: path},
		Format: FormatConfig{Preset: "json", StructuredToStderr: "never"},
	}

	entry := newLogger("markdown", cfg, "")
	entry.WithField("blocks", 3).Info("Markdown loaded")

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(data), &record))
	assert.Equal(t, "Markdown loaded", record["msg"])
	assert.Equal(t, "markdown", record["component"])
	assert.EqualValues(t, 3, record["blocks"])
}

func TestShouldLogToStderr(t *testing.T) {
	t.Setenv("RICHEDIT_DEBUG", "")
	assert.True(t, shouldLogToStderr(Config{Format: FormatConfig{StructuredToStderr: "always"}}, logrus.InfoLevel))
	assert.False(t, shouldLogToStderr(Config{Format: FormatConfig{StructuredToStderr: "never"}}, logrus.DebugLevel))
	assert.True(t, shouldLogToStderr(Config{}, logrus.DebugLevel))
}

func TestGlobalOutput(t *testing.T) {
	var buf bytes.Buffer
	prev := SetGlobalOutput(&buf)
	t.Cleanup(func() { SetGlobalOutput(prev) })

	entry := newLogger("observer", Config{Format: FormatConfig{Preset: "simple", StructuredToStderr: "always"}}, "")
	entry.Info("Selection settled")
	assert.Equal(t, "INFO  Selection settled\n", buf.String())
}

func TestUnifiedLogger(t *testing.T) {
	var structured bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&structured)
	logger.SetFormatter(&logrus.JSONFormatter{})
	ulog := newUnifiedLogger("md", logger.WithField("component", "md"))
	assert.Equal(t, "md", ulog.Component())

	var out bytes.Buffer
	ctx := WithWriter(context.Background(), &out)
	ulog.Success("Converted notes.md").Field("blocks", 4).Log(ctx)

	assert.Contains(t, out.String(), "Converted notes.md")

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(structured.Bytes()), &record))
	assert.Equal(t, "Converted notes.md", record["msg"])
	assert.Equal(t, "success", record["status"])
	assert.EqualValues(t, 4, record["blocks"])
	assert.Contains(t, record["pretty_text"], "Converted notes.md")
}

func TestUnifiedLoggerStructuredOnly(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})
	ulog := newUnifiedLogger("md", logger.WithField("component", "md"))

	var out bytes.Buffer
	ctx := WithWriter(context.Background(), &out)
	ulog.Error("boom").Err(assert.AnError).StructuredOnly().Log(ctx)
	assert.Empty(t, out.String())
}

func TestPrettyLogger(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrettyLogger().WithWriter(&buf)
	p.Field("blocks", 3)
	p.Path("file", "/tmp/notes.md")
	p.ErrorPretty("failed", assert.AnError)

	out := buf.String()
	assert.Contains(t, out, "blocks: 3")
	assert.Contains(t, out, "file: /tmp/notes.md")
	assert.Contains(t, out, "failed: "+assert.AnError.Error())
}

func TestLogFileName(t *testing.T) {
	name := LogFile("edit")
	assert.Contains(t, name, filepath.Join(".richedit", "logs"))
	assert.True(t, strings.HasPrefix(filepath.Base(name), "edit-"))
	assert.True(t, strings.HasSuffix(name, ".log"))
}
