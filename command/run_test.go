package command

import (
	"testing"

	"github.com/grovetools/richedit/editor"
	"github.com/grovetools/richedit/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		op      Op
		wantErr bool
	}{
		{"heading 1", Heading(1), false},
		{"heading 4", Heading(4), false},
		{"heading 0", Heading(0), true},
		{"heading 5", Heading(5), true},
		{"single mark", Mark(editor.Bold), false},
		{"no mark", Mark(0), true},
		{"two marks", Mark(editor.Bold | editor.Italic), true},
		{"unknown kind", Op{Kind: Kind(99)}, true},
		{"clear", Clear(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.op)
			if tt.wantErr {
				assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRunDispatches(t *testing.T) {
	m := editor.NewMemory(editor.NewBlock(editor.Paragraph, "text"))
	m.Blur()

	require.NoError(t, Run(m, Heading(2)))
	assert.True(t, m.IsFocused())
	assert.True(t, IsActive(m, Heading(2)))
	assert.False(t, IsActive(m, Heading(1)))

	require.NoError(t, Run(m, List(editor.BulletList)))
	assert.True(t, IsActive(m, List(editor.BulletList)))
	assert.False(t, IsActive(m, List(editor.OrderedList)))

	require.NoError(t, Run(m, Blockquote()))
	assert.True(t, IsActive(m, Blockquote()))

	require.NoError(t, Run(m, Clear()))
	require.NoError(t, Run(m, Align(editor.AlignRight)))
	assert.True(t, IsActive(m, Align(editor.AlignRight)))

	m.SetSelection(editor.Selection{Anchor: 0, Head: 4})
	require.NoError(t, Run(m, MarkWithValue(editor.Highlight, "#ffcc00")))
	assert.True(t, IsActive(m, Mark(editor.Highlight)))
	assert.Equal(t, "#ffcc00", m.Blocks()[0].Chars[0].Highlight)

	require.NoError(t, Run(m, CodeBlock()))
	assert.True(t, IsActive(m, CodeBlock()))
}

func TestRunLeaves(t *testing.T) {
	m := editor.NewMemory()
	require.NoError(t, Run(m, HorizontalRule()))
	require.NoError(t, Run(m, Placeholder(editor.ImagePlaceholder)))

	var kinds []editor.BlockKind
	for _, b := range m.Blocks() {
		kinds = append(kinds, b.Kind)
	}
	assert.Equal(t, []editor.BlockKind{editor.HorizontalRule, editor.Image, editor.Paragraph}, kinds)
	assert.False(t, IsActive(m, HorizontalRule()))
}

func TestRunFailures(t *testing.T) {
	err := Run(nil, Heading(1))
	assert.True(t, errors.Is(err, errors.ErrCodeEditorUnavailable))

	m := editor.NewMemory(editor.NewBlock(editor.Paragraph, "x"))
	err = Run(m, Heading(9))
	assert.True(t, errors.Is(err, errors.ErrCodeCommandFailed))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	assert.True(t, m.BlockActive(editor.Paragraph, 0))

	err = Run(m, Placeholder(editor.PlaceholderKind(7)))
	assert.True(t, errors.Is(err, errors.ErrCodeCommandFailed))
}

func TestIsActiveWithoutEditor(t *testing.T) {
	var m *editor.Memory
	assert.False(t, IsActive(m, Heading(1)))
	assert.False(t, IsActive(nil, Mark(editor.Bold)))
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "toggleHeading(2)", Heading(2).String())
	assert.Equal(t, "toggleList(ordered)", List(editor.OrderedList).String())
	assert.Equal(t, "setAlignment(center)", Align(editor.AlignCenter).String())
	assert.Equal(t, "toggleMark(link=https://x.io)", MarkWithValue(editor.Link, "https://x.io").String())
	assert.Equal(t, "clearNodes", Clear().String())
}
