package markdown

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/grovetools/richedit/editor"
	"github.com/grovetools/richedit/errors"
	"github.com/yuin/goldmark"
)

// Serialize renders blocks as normalized markdown: blocks are separated by
// one blank line, consecutive list items form tight lists, bullets use "-",
// ordered items are numbered from 1, code is fenced, italic uses "*" and
// bold "**". Newlines inside a block become hard line breaks. Empty
// paragraphs and alignment are dropped.
func Serialize(blocks []editor.Block) (string, error) {
	var parts []string
	for i := 0; i < len(blocks); i++ {
		b := blocks[i]
		switch b.Kind {
		case editor.Paragraph:
			if b.Len() == 0 {
				continue
			}
			parts = append(parts, breakLines(inline(b.Spans()), "", false))
		case editor.Heading:
			level := min(max(b.Level, 1), 4)
			parts = append(parts, strings.Repeat("#", level)+" "+breakLines(inline(b.Spans()), "", true))
		case editor.BulletItem, editor.OrderedItem:
			var lines []string
			n := 0
			for ; i < len(blocks) && blocks[i].Kind == b.Kind; i++ {
				n++
				marker := "- "
				if b.Kind == editor.OrderedItem {
					marker = strconv.Itoa(n) + ". "
				}
				indent := strings.Repeat(" ", len(marker))
				lines = append(lines, marker+breakLines(inline(blocks[i].Spans()), indent, false))
			}
			i--
			parts = append(parts, strings.Join(lines, "\n"))
		case editor.CodeBlock:
			body := b.Text()
			fence := strings.Repeat("`", max(3, longestRun(body, '`')+1))
			parts = append(parts, fence+b.Lang+"\n"+body+"\n"+fence)
		case editor.Blockquote:
			parts = append(parts, "> "+breakLines(inline(b.Spans()), "> ", false))
		case editor.HorizontalRule:
			parts = append(parts, "---")
		case editor.Image:
			parts = append(parts, "!["+escapeText(b.Alt)+"]("+b.Src+")")
		default:
			return "", errors.MarkdownSerialize(fmt.Errorf("unsupported block kind %s", b.Kind))
		}
	}
	if len(parts) == 0 {
		return "", nil
	}
	return strings.Join(parts, "\n\n") + "\n", nil
}

// PlainText renders the blocks' text, one block per line.
func PlainText(blocks []editor.Block) string {
	lines := make([]string, 0, len(blocks))
	for _, b := range blocks {
		lines = append(lines, b.Text())
	}
	return strings.Join(lines, "\n")
}

// HTML renders markdown to HTML for previews.
func HTML(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return "", errors.MarkdownParse(err)
	}
	return buf.String(), nil
}

// Marks in the order they are opened. Links wrap everything; code spans are
// innermost because nothing may nest inside them.
var openOrder = []editor.Mark{
	editor.Link,
	editor.Bold,
	editor.Italic,
	editor.Strike,
	editor.Underline,
	editor.Highlight,
	editor.Code,
}

const emphasis = editor.Bold | editor.Italic | editor.Strike | editor.Underline | editor.Highlight

func openTag(m editor.Mark) string {
	switch m {
	case editor.Link:
		return "["
	case editor.Bold:
		return "**"
	case editor.Italic:
		return "*"
	case editor.Strike:
		return "~~"
	case editor.Underline:
		return "<u>"
	case editor.Highlight:
		return "<mark>"
	}
	return ""
}

func closeTag(m editor.Mark, href string) string {
	switch m {
	case editor.Link:
		return "](" + href + ")"
	case editor.Underline:
		return "</u>"
	case editor.Highlight:
		return "</mark>"
	}
	return openTag(m)
}

// inline renders spans, keeping a stack of open marks so that adjacent spans
// sharing a mark share its delimiters. Line breaks are left as raw newlines
// for breakLines.
func inline(spans []editor.Span) string {
	var sb strings.Builder
	var stack []editor.Mark
	href := ""
	// Code text is buffered until the span closes, when its fence is known.
	var code strings.Builder

	// closeTo closes marks from the top of the stack down to the lowest one
	// keep rejects.
	closeTo := func(keep func(editor.Mark) bool) {
		for i, m := range stack {
			if keep(m) {
				continue
			}
			for j := len(stack) - 1; j >= i; j-- {
				if stack[j] == editor.Code {
					sb.WriteString(codeSpan(code.String()))
					code.Reset()
					continue
				}
				sb.WriteString(closeTag(stack[j], href))
			}
			stack = stack[:i]
			return
		}
	}
	opened := func() editor.Mark {
		var open editor.Mark
		for _, m := range stack {
			open |= m
		}
		return open
	}

	for _, pc := range pieces(spans) {
		want := pc.marks &^ editor.Color
		if pc.space {
			// Spaces may continue emphasis but never open or end it.
			want &^= emphasis &^ pc.next
			want &^= emphasis &^ opened()
		}
		closeTo(func(m editor.Mark) bool {
			if m == editor.Link && pc.href != href {
				return false
			}
			return want.Has(m)
		})
		if pc.space {
			want &^= emphasis &^ opened()
		}
		open := opened()
		for _, m := range openOrder {
			if want.Has(m) && !open.Has(m) {
				if m == editor.Link {
					href = pc.href
				}
				sb.WriteString(openTag(m))
				stack = append(stack, m)
			}
		}
		switch {
		case pc.text == "\n":
			sb.WriteString(pc.text)
		case want.Has(editor.Code):
			code.WriteString(pc.text)
		default:
			sb.WriteString(escapeText(pc.text))
		}
	}
	closeTo(func(editor.Mark) bool { return false })
	return sb.String()
}

type piece struct {
	text  string
	marks editor.Mark
	href  string
	space bool
	next  editor.Mark // marks of the text that follows
}

// pieces splits the leading and trailing spaces off emphasized spans, since
// "** bold**" is not emphasis in markdown. Newlines become pieces of their
// own that behave like spaces and never carry the code mark.
func pieces(spans []editor.Span) []piece {
	var split []editor.Span
	for _, sp := range spans {
		for i, part := range strings.Split(sp.Text, "\n") {
			if i > 0 {
				split = append(split, editor.Span{Text: "\n", Marks: sp.Marks &^ editor.Code, Href: sp.Href})
			}
			if part != "" {
				split = append(split, editor.Span{Text: part, Marks: sp.Marks, Href: sp.Href})
			}
		}
	}
	spans = split

	out := make([]piece, 0, len(spans))
	for i, sp := range spans {
		var next editor.Mark
		if i+1 < len(spans) {
			next = spans[i+1].Marks
		}
		if sp.Text == "\n" {
			out = append(out, piece{text: sp.Text, marks: sp.Marks, href: sp.Href, space: true, next: next})
			continue
		}
		if sp.Marks&emphasis == 0 || sp.Marks.Has(editor.Code) {
			out = append(out, piece{text: sp.Text, marks: sp.Marks, href: sp.Href})
			continue
		}
		trimmed := strings.TrimLeft(sp.Text, " ")
		lead := sp.Text[:len(sp.Text)-len(trimmed)]
		core := strings.TrimRight(trimmed, " ")
		trail := trimmed[len(core):]
		if lead != "" {
			leadNext := sp.Marks
			if core == "" {
				leadNext = next
			}
			out = append(out, piece{text: lead, marks: sp.Marks, href: sp.Href, space: true, next: leadNext})
		}
		if core != "" {
			out = append(out, piece{text: core, marks: sp.Marks, href: sp.Href})
		}
		if trail != "" {
			out = append(out, piece{text: trail, marks: sp.Marks, href: sp.Href, space: true, next: next})
		}
	}
	return out
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
	"~", `\~`,
	"&", `\&`,
)

func escapeText(s string) string {
	return escaper.Replace(s)
}

// codeSpan fences s with one backtick more than its longest backtick run.
// Content that starts or ends with a backtick is padded with a space, as is
// content with spaces at both ends, because the parser strips one such pair.
func codeSpan(s string) string {
	fence := strings.Repeat("`", longestRun(s, '`')+1)
	pad := strings.HasPrefix(s, "`") || strings.HasSuffix(s, "`") ||
		(strings.HasPrefix(s, " ") && strings.HasSuffix(s, " ") && strings.Trim(s, " ") != "")
	if pad {
		s = " " + s + " "
	}
	return fence + s + fence
}

// breakLines joins the lines of rendered inline text with hard breaks,
// starting each continuation line with prefix. Headings cannot span lines
// and use <br> instead, as do breaks next to an empty line or after an
// escaped backslash, where a trailing backslash would be literal.
func breakLines(s, prefix string, heading bool) string {
	lines := strings.Split(s, "\n")
	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			prev := lines[i-1]
			if heading || line == "" || prev == "" || strings.HasSuffix(prev, `\`) {
				sb.WriteString("<br>")
			} else {
				sb.WriteString("\\\n" + prefix)
			}
		}
		sb.WriteString(escapeLine(line))
	}
	return sb.String()
}

// escapeLine protects the edges of one line: leading whitespace, which the
// parser strips or reads as indentation, trailing whitespace, which it strips,
// and block markers.
func escapeLine(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case ' ':
		s = "&#32;" + s[1:]
	case '\t':
		s = "&#9;" + s[1:]
	default:
		s = escapeLineStart(s)
	}
	switch s[len(s)-1] {
	case ' ':
		s = s[:len(s)-1] + "&#32;"
	case '\t':
		s = s[:len(s)-1] + "&#9;"
	}
	return s
}

// escapeLineStart escapes characters that would turn a line into a heading,
// list item, quote or rule.
func escapeLineStart(s string) string {
	if s == "" {
		return s
	}
	switch s[0] {
	case '#', '>', '-', '+', '=':
		return `\` + s
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && (s[i] == '.' || s[i] == ')') {
		return s[:i] + `\` + s[i:]
	}
	return s
}

func longestRun(s string, r byte) int {
	best, cur := 0, 0
	for i := 0; i < len(s); i++ {
		if s[i] == r {
			cur++
			best = max(best, cur)
		} else {
			cur = 0
		}
	}
	return best
}
