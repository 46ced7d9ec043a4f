package cli

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/grovetools/richedit/errors"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapText(t *testing.T) {
	assert.Equal(t, "short", wrapText("short", 10))
	assert.Equal(t, "one two\nthree", wrapText("one two three", 8))
	assert.Equal(t, "a\nb", wrapText("a\nb", 10))
}

func TestParseDescription(t *testing.T) {
	desc, ex := parseDescription("Edit a file.\nExamples:\n  richedit edit notes.md\n")
	assert.Equal(t, "Edit a file.", desc)
	assert.Equal(t, "richedit edit notes.md", ex)

	desc, ex = parseDescription("Just text")
	assert.Equal(t, "Just text", desc)
	assert.Empty(t, ex)
}

func TestParseChoices(t *testing.T) {
	tests := []struct {
		usage   string
		desc    string
		choices []string
	}{
		{"Color theme: default, light, or mono", "Color theme:", []string{"default", "light", "mono"}},
		{"Icon set: nerd, ascii", "Icon set: nerd, ascii", nil},
		{"Output format: md, html, text (default md)", "Output format: (default md)", []string{"md", "html", "text"}},
		{"No choices here", "No choices here", nil},
	}
	for _, tt := range tests {
		t.Run(tt.usage, func(t *testing.T) {
			desc, choices := parseChoices(tt.usage)
			assert.Equal(t, tt.desc, desc)
			assert.Equal(t, tt.choices, choices)
		})
	}
}

func TestStandardCommandOptions(t *testing.T) {
	cmd := NewStandardCommand("richedit", "test")
	cmd.RunE = func(cmd *cobra.Command, args []string) error { return nil }
	cmd.SetArgs([]string{"-v", "--json", "-c", "custom.yml"})
	require.NoError(t, cmd.Execute())

	opts := GetOptions(cmd)
	assert.True(t, opts.Verbose)
	assert.True(t, opts.JSONOutput)
	assert.Equal(t, "custom.yml", opts.ConfigFile)
}

func TestStyledHelp(t *testing.T) {
	root := NewStandardCommand("richedit", "Rich text editing in the terminal")
	sub := &cobra.Command{
		Use:   "edit [file]",
		Short: "Open a markdown file",
		Long:  "Open a markdown file.\nExamples:\n  # edit notes\n  richedit edit notes.md --watch\n",
		RunE:  func(cmd *cobra.Command, args []string) error { return nil },
	}
	sub.Flags().Bool("watch", false, "Reload when the file changes")
	root.AddCommand(sub)
	ApplyStyledHelpRecursive(root)

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"edit", "--help"})
	require.NoError(t, root.Execute())

	help := out.String()
	assert.Contains(t, help, "RICHEDIT EDIT")
	assert.Contains(t, help, "USAGE")
	assert.Contains(t, help, "--watch")
	assert.Contains(t, help, "EXAMPLES")
	assert.Contains(t, help, "# edit notes")
}

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{errors.ConfigNotFound("/x"), "Configuration not found"},
		{errors.MarkdownParse(fmt.Errorf("bad")), "Could not parse markdown"},
		{errors.EditorUnavailable("load"), "not ready"},
		{fmt.Errorf("plain"), "Error: plain"},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		h := NewErrorHandler(&out, false)
		assert.Equal(t, tt.err, h.Handle(tt.err))
		assert.Contains(t, out.String(), tt.want)
	}

	var out bytes.Buffer
	NewErrorHandler(&out, true).Handle(errors.InvalidRange(3, 1))
	assert.Contains(t, out.String(), `"code": "INVALID_RANGE"`)

	assert.NoError(t, NewErrorHandler(&out, false).Handle(nil))
}

func TestVersionCommand(t *testing.T) {
	root := NewStandardCommand("richedit", "x")
	root.AddCommand(NewVersionCommand("richedit"))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version", "--json"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), `"version": "dev"`)
}

func TestDocsCommand(t *testing.T) {
	cmd := NewDocsCommand(func() ([]byte, error) { return []byte(`{"ok":true}`), nil })
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "{\"ok\":true}\n", out.String())
}
