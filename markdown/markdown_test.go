package markdown

import (
	"testing"

	"github.com/grovetools/richedit/editor"
	"github.com/grovetools/richedit/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const document = "# Title\n" +
	"\n" +
	"## Section\n" +
	"\n" +
	"Some **bold** and *italic* text with `code` and a [link](https://example.com).\n" +
	"\n" +
	"- one\n" +
	"- two **strong**\n" +
	"\n" +
	"1. first\n" +
	"2. second\n" +
	"\n" +
	"```go\n" +
	"fmt.Println(\"hi\")\n" +
	"\n" +
	"return\n" +
	"```\n" +
	"\n" +
	"> quoted *words*\n" +
	"\n" +
	"---\n" +
	"\n" +
	"![diagram](img/flow.png)\n"

func TestRoundTrip(t *testing.T) {
	blocks, err := Parse([]byte(document))
	require.NoError(t, err)

	out, err := Serialize(blocks)
	require.NoError(t, err)
	assert.Equal(t, document, out)
}

func TestParseBlocks(t *testing.T) {
	blocks, err := Parse([]byte(document))
	require.NoError(t, err)

	var kinds []editor.BlockKind
	for _, b := range blocks {
		kinds = append(kinds, b.Kind)
	}
	assert.Equal(t, []editor.BlockKind{
		editor.Heading, editor.Heading, editor.Paragraph,
		editor.BulletItem, editor.BulletItem,
		editor.OrderedItem, editor.OrderedItem,
		editor.CodeBlock, editor.Blockquote, editor.HorizontalRule, editor.Image,
	}, kinds)

	assert.Equal(t, 1, blocks[0].Level)
	assert.Equal(t, 2, blocks[1].Level)
	assert.Equal(t, "go", blocks[7].Lang)
	assert.Equal(t, "fmt.Println(\"hi\")\n\nreturn", blocks[7].Text())
	assert.Equal(t, "img/flow.png", blocks[10].Src)
	assert.Equal(t, "diagram", blocks[10].Alt)

	spans := blocks[2].Spans()
	require.Len(t, spans, 9)
	assert.Equal(t, editor.Span{Text: "bold", Marks: editor.Bold}, spans[1])
	assert.Equal(t, editor.Span{Text: "italic", Marks: editor.Italic}, spans[3])
	assert.Equal(t, editor.Span{Text: "code", Marks: editor.Code}, spans[5])
	assert.Equal(t, editor.Span{Text: "link", Marks: editor.Link, Href: "https://example.com"}, spans[7])
}

func TestNormalization(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"star bullets", "* a\n* b\n", "- a\n- b\n"},
		{"plus bullets", "+ a\n", "- a\n"},
		{"underscore emphasis", "__bold__ and _it_\n", "**bold** and *it*\n"},
		{"renumbered list", "3. c\n4. d\n", "1. c\n2. d\n"},
		{"setext heading", "Title\n=====\n", "# Title\n"},
		{"soft break joins lines", "one\ntwo\n", "one two\n"},
		{"indented code", "    x := 1\n", "```\nx := 1\n```\n"},
		{"extra blank lines", "a\n\n\n\nb\n", "a\n\nb\n"},
		{"deep heading clamps", "###### deep\n", "#### deep\n"},
		{"escapes survive", "1\\. not a list and \\*stars\\*\n", "1\\. not a list and \\*stars\\*\n"},
		{"strikethrough", "~~gone~~\n", "~~gone~~\n"},
		{"underline tags", "<u>under</u> line\n", "<u>under</u> line\n"},
		{"nested quote paragraphs", "> a\n>\n> b\n", "> a\n\n> b\n"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			blocks, err := Parse([]byte(tt.in))
			require.NoError(t, err)
			out, err := Serialize(blocks)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func codeMarked(kind editor.BlockKind, text string) editor.Block {
	b := editor.NewBlock(kind, text)
	for i := range b.Chars {
		b.Chars[i].Marks = editor.Code
	}
	return b
}

func TestDocumentSurvivesRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		block editor.Block
		want  string
	}{
		{"backtick in code", codeMarked(editor.Paragraph, "a`b"), "``a`b``\n"},
		{"code edged by backticks", codeMarked(editor.Paragraph, "`x`"), "`` `x` ``\n"},
		{"code edged by spaces", codeMarked(editor.Paragraph, " x "), "`  x  `\n"},
		{"indented paragraph", editor.NewBlock(editor.Paragraph, "    spaced"), "&#32;   spaced\n"},
		{"trailing space", editor.NewBlock(editor.Paragraph, "end "), "end&#32;\n"},
		{"newline before marker", editor.NewBlock(editor.Paragraph, "x\n- y"), "x\\\n\\- y\n"},
		{"indented continuation", editor.NewBlock(editor.Paragraph, "x\n    y"), "x\\\n&#32;   y\n"},
		{"blank line inside", editor.NewBlock(editor.Paragraph, "a\n\nb"), "a<br><br>b\n"},
		{"trailing newline", editor.NewBlock(editor.Paragraph, "a\n"), "a<br>\n"},
		{"only a newline", editor.NewBlock(editor.Paragraph, "\n"), "<br>\n"},
		{"heading break", editor.NewHeading(2, "A\nB"), "## A<br>B\n"},
		{"quote break", editor.NewBlock(editor.Blockquote, "a\n> b"), "> a\\\n> \\> b\n"},
		{"list break", editor.NewBlock(editor.BulletItem, "x\n- y"), "- x\\\n  \\- y\n"},
		{"backslash before break", editor.NewBlock(editor.Paragraph, "a\\\nb"), "a\\\\<br>b\n"},
		{"ampersand entity", editor.NewBlock(editor.Paragraph, "&#32; &amp;"), "\\&#32; \\&amp;\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Serialize([]editor.Block{tt.block})
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)

			back, err := Parse([]byte(out))
			require.NoError(t, err)
			require.Len(t, back, 1)
			assert.Equal(t, tt.block.Kind, back[0].Kind)
			assert.Equal(t, tt.block.Text(), back[0].Text())
			assert.Equal(t, tt.block.Spans(), back[0].Spans())
		})
	}
}

func TestCodeSpanWithBacktickReloads(t *testing.T) {
	blocks, err := Parse([]byte("Use `` a`b `` here\n"))
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	spans := blocks[0].Spans()
	require.Len(t, spans, 3)
	assert.Equal(t, editor.Span{Text: "a`b", Marks: editor.Code}, spans[1])

	out, err := Serialize(blocks)
	require.NoError(t, err)
	assert.Equal(t, "Use ``a`b`` here\n", out)
}

func TestHardBreakKeepsNewline(t *testing.T) {
	for _, in := range []string{"a  \nb\n", "a\\\nb\n", "a<br>b\n"} {
		blocks, err := Parse([]byte(in))
		require.NoError(t, err)
		require.Len(t, blocks, 1)
		assert.Equal(t, "a\nb", blocks[0].Text(), in)

		out, err := Serialize(blocks)
		require.NoError(t, err)
		assert.Equal(t, "a\\\nb\n", out)
	}
}

func TestBoldAcrossHardBreak(t *testing.T) {
	b := editor.NewBlock(editor.Paragraph, "a\nb")
	for i := range b.Chars {
		b.Chars[i].Marks = editor.Bold
	}
	out, err := Serialize([]editor.Block{b})
	require.NoError(t, err)
	assert.Equal(t, "**a\\\nb**\n", out)

	back, err := Parse([]byte(out))
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, b.Spans(), back[0].Spans())
}

func TestSerializeMarks(t *testing.T) {
	b := editor.NewBlock(editor.Paragraph, "ab cd ef")
	for i := 0; i < 5; i++ {
		b.Chars[i].Marks |= editor.Bold
	}
	for i := 3; i < 8; i++ {
		b.Chars[i].Marks |= editor.Italic
	}
	out, err := Serialize([]editor.Block{b})
	require.NoError(t, err)
	assert.Equal(t, "**ab *cd*** *ef*\n", out)

	back, err := Parse([]byte(out))
	require.NoError(t, err)
	require.Len(t, back, 1)
	assert.Equal(t, "ab cd ef", back[0].Text())
	assert.True(t, back[0].Chars[3].Marks.Has(editor.Bold|editor.Italic))
	assert.False(t, back[0].Chars[6].Marks.Has(editor.Bold))
	assert.True(t, back[0].Chars[6].Marks.Has(editor.Italic))
}

func TestSerializeMovesSpacesOutOfEmphasis(t *testing.T) {
	b := editor.NewBlock(editor.Paragraph, "a bold b")
	for i := 1; i < 7; i++ {
		b.Chars[i].Marks = editor.Bold
	}
	out, err := Serialize([]editor.Block{b})
	require.NoError(t, err)
	assert.Equal(t, "a **bold** b\n", out)
}

func TestSerializeSkipsEmptyParagraphs(t *testing.T) {
	out, err := Serialize([]editor.Block{
		editor.NewBlock(editor.Paragraph, ""),
		editor.NewHeading(2, "Hi"),
		editor.NewBlock(editor.Paragraph, ""),
	})
	require.NoError(t, err)
	assert.Equal(t, "## Hi\n", out)
}

func TestSerializeFenceLongerThanContent(t *testing.T) {
	out, err := Serialize([]editor.Block{editor.NewBlock(editor.CodeBlock, "```inner```")})
	require.NoError(t, err)
	assert.Equal(t, "````\n```inner```\n````\n", out)
}

func TestParseRejectsInvalidUTF8(t *testing.T) {
	_, err := Parse([]byte{0xff, 0xfe, 'a'})
	assert.True(t, errors.Is(err, errors.ErrCodeMarkdownParse))
}

func TestSerializeRejectsUnknownBlocks(t *testing.T) {
	_, err := Serialize([]editor.Block{{Kind: editor.BlockKind(42)}})
	assert.True(t, errors.Is(err, errors.ErrCodeMarkdownSerialize))
}

func TestPlainText(t *testing.T) {
	assert.Equal(t, "Title\nbody\n", PlainText([]editor.Block{
		editor.NewHeading(1, "Title"),
		editor.NewBlock(editor.Paragraph, "body"),
		{Kind: editor.HorizontalRule},
	}))
}

func TestHTML(t *testing.T) {
	html, err := HTML([]byte("# Hi\n\n*there*\n"))
	require.NoError(t, err)
	assert.Equal(t, "<h1>Hi</h1>\n<p><em>there</em></p>\n", html)
}
