package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/grovetools/richedit/cli"
	"github.com/grovetools/richedit/testutil"
	"github.com/grovetools/richedit/tui/keymap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := cli.NewStandardCommand("richedit", "test")
	root.AddCommand(NewMarkdownCmd(), NewConfigCmd(), NewKeymapCmd())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestMarkdownCommand(t *testing.T) {
	out, err := execute(t, "Hello _there_\n\n* one\n* two\n", "md")
	require.NoError(t, err)
	assert.Equal(t, "Hello *there*\n\n- one\n- two\n", out)

	out, err = execute(t, "Hello *there*\n", "md", "--format", "html")
	require.NoError(t, err)
	assert.Contains(t, out, "<em>there</em>")

	out, err = execute(t, "# Title\n\nbody\n", "md", "-f", "text")
	require.NoError(t, err)
	assert.Equal(t, "Title\nbody\n", out)

	_, err = execute(t, "x\n", "md", "--format", "rtf")
	assert.Error(t, err)
}

func TestConfigSchemaCommand(t *testing.T) {
	out, err := execute(t, "", "config", "schema")
	require.NoError(t, err)

	var schema map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &schema))
	props, ok := schema["properties"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, props, "editor")
	assert.Contains(t, props, "bridge")
}

func TestConfigValidateCommand(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	good := filepath.Join(dir, "richedit.yml")
	require.NoError(t, os.WriteFile(good, []byte("editor:\n  settle_delay: 80ms\n"), 0644))
	out, err := execute(t, "", "config", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid")

	bad := filepath.Join(dir, "bad.yml")
	require.NoError(t, os.WriteFile(bad, []byte("theme:\n  name: neon\n"), 0644))
	_, err = execute(t, "", "config", "validate", bad)
	assert.Error(t, err)
}

func TestKeymapCommandJSON(t *testing.T) {
	isolate(t)
	out, err := execute(t, "", "keymap", "--json")
	require.NoError(t, err)

	var info keymap.TUIInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "richedit-edit", info.Name)
	assert.NotEmpty(t, info.Sections)
}

func TestRenderCatalog(t *testing.T) {
	data, err := RenderCatalog()
	require.NoError(t, err)

	var doc catalogDoc
	require.NoError(t, json.Unmarshal(data, &doc))
	require.NotEmpty(t, doc.SlashCommands)
	assert.Equal(t, "Text", doc.SlashCommands[0].Title)

	var link toolbarActionDoc
	for _, a := range doc.ToolbarActions {
		if a.ID == "link" {
			link = a
		}
	}
	assert.True(t, link.NeedsValue)
}

func TestDocumentReadWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "notes.md")
	doc, err := newDocument(path)
	require.NoError(t, err)

	md, err := doc.Read()
	require.NoError(t, err)
	assert.Equal(t, "", md)
	assert.Equal(t, "notes.md", doc.Title())

	require.NoError(t, doc.Write("# Notes\n"))
	_, changed, err := doc.changed()
	require.NoError(t, err)
	assert.False(t, changed)

	require.NoError(t, os.WriteFile(path, []byte("# Other\n"), 0644))
	md, changed, err = doc.changed()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "# Other\n", md)
}

func TestDocumentKeepsFrontmatter(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "post.md", "---\ntitle: Launch\n---\n\n# Old\n")
	doc, err := newDocument(path)
	require.NoError(t, err)

	md, err := doc.Read()
	require.NoError(t, err)
	assert.Equal(t, "# Old\n", md)
	assert.Equal(t, "Launch", doc.Title())

	require.NoError(t, doc.Write("# New\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: Launch\n---\n\n# New\n", string(data))
}

func TestDocumentWatch(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "notes.md", "start\n")
	doc, err := newDocument(path)
	require.NoError(t, err)
	_, err = doc.Read()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	log, _ := testutil.Logger(t)
	changes := make(chan string, 16)
	require.NoError(t, doc.Watch(ctx, log, func(md string) { changes <- md }))

	require.NoError(t, os.WriteFile(path, []byte("outside\n"), 0644))
	deadline := time.After(3 * time.Second)
	for got := ""; got != "outside\n"; {
		select {
		case got = <-changes:
		case <-deadline:
			t.Fatal("no change reported for an outside write")
		}
	}

	require.NoError(t, doc.Write("mine\n"))
	select {
	case md := <-changes:
		t.Fatalf("own write reported as change: %q", md)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestFormatLogLine(t *testing.T) {
	line := `{"time":"2026-10-17T09:30:00Z","level":"warning","msg":"Ping failed","component":"bridge","remote":"127.0.0.1"}`

	text := formatLogLine(line, false)
	assert.Contains(t, text, "09:30:00")
	assert.Contains(t, text, "WARNING")
	assert.Contains(t, text, "Ping failed")
	assert.Contains(t, text, "bridge")
	assert.Contains(t, text, "127.0.0.1")

	assert.Equal(t, line, formatLogLine(line, true))
	assert.Equal(t, "plain text", formatLogLine("plain text", false))
	assert.Equal(t, `{"raw_line":"plain text"}`, formatLogLine("plain text", true))
}

func TestLogFiles(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "edit-2026-10-16.log")
	newer := filepath.Join(dir, "bridge-2026-10-17.log")
	empty := filepath.Join(dir, "logs-2026-10-17.log")
	require.NoError(t, os.WriteFile(older, []byte("a\nb\nc\n"), 0644))
	require.NoError(t, os.WriteFile(newer, []byte("x\n\ny\n"), 0644))
	require.NoError(t, os.WriteFile(empty, nil, 0644))
	now := time.Now()
	require.NoError(t, os.Chtimes(older, now.Add(-2*time.Hour), now.Add(-2*time.Hour)))
	require.NoError(t, os.Chtimes(newer, now.Add(-time.Hour), now.Add(-time.Hour)))

	latest, err := findLatestLogFile(dir)
	require.NoError(t, err)
	assert.Equal(t, newer, latest)

	lines, err := lastLines(older, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, lines)

	lines, err = lastLines(newer, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, lines)

	_, err = findLatestLogFile(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}
