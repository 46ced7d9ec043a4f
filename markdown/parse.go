// Package markdown converts between markdown text and editor blocks.
package markdown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/grovetools/richedit/editor"
	"github.com/grovetools/richedit/errors"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Strikethrough))

var lineBreaks = regexp.MustCompile(`^(?i:<br\s*/?>)+`)

// Parse converts markdown into blocks. Nested structure is flattened: list
// items become one block each and quoted paragraphs become blockquote
// blocks.
func Parse(src []byte) ([]editor.Block, error) {
	if !utf8.Valid(src) {
		return nil, errors.MarkdownParse(fmt.Errorf("input is not valid UTF-8"))
	}
	doc := md.Parser().Parse(text.NewReader(src))
	p := &parser{src: src}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if err := p.block(n); err != nil {
			return nil, errors.MarkdownParse(err)
		}
	}
	return p.blocks, nil
}

type parser struct {
	src    []byte
	blocks []editor.Block
}

func (p *parser) block(n ast.Node) error {
	switch n := n.(type) {
	case *ast.Heading:
		b := editor.Block{Kind: editor.Heading, Level: min(max(n.Level, 1), 4)}
		b.Chars = p.inlines(n)
		p.blocks = append(p.blocks, b)
	case *ast.Paragraph, *ast.TextBlock:
		if img, ok := soleImage(n); ok {
			p.blocks = append(p.blocks, editor.Block{
				Kind: editor.Image,
				Src:  string(img.Destination),
				Alt:  string(p.plain(img)),
			})
			return nil
		}
		p.blocks = append(p.blocks, editor.Block{Kind: editor.Paragraph, Chars: p.inlines(n)})
	case *ast.List:
		kind := editor.BulletItem
		if n.IsOrdered() {
			kind = editor.OrderedItem
		}
		for item := n.FirstChild(); item != nil; item = item.NextSibling() {
			if err := p.listItem(item, kind); err != nil {
				return err
			}
		}
	case *ast.FencedCodeBlock:
		p.blocks = append(p.blocks, editor.Block{
			Kind:  editor.CodeBlock,
			Lang:  string(n.Language(p.src)),
			Chars: plainChars(p.lines(n)),
		})
	case *ast.CodeBlock:
		p.blocks = append(p.blocks, editor.Block{Kind: editor.CodeBlock, Chars: plainChars(p.lines(n))})
	case *ast.Blockquote:
		start := len(p.blocks)
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			if err := p.block(c); err != nil {
				return err
			}
		}
		for i := start; i < len(p.blocks); i++ {
			if p.blocks[i].Kind.IsText() {
				p.blocks[i].Kind, p.blocks[i].Level, p.blocks[i].Lang = editor.Blockquote, 0, ""
			}
		}
	case *ast.ThematicBreak:
		p.blocks = append(p.blocks, editor.Block{Kind: editor.HorizontalRule})
	case *ast.HTMLBlock:
		raw := p.lines(n)
		if breaks := lineBreaks.FindString(raw); breaks == raw && raw != "" {
			// A paragraph holding only newlines serializes as a line of <br>.
			raw = strings.Repeat("\n", strings.Count(raw, "<"))
		}
		p.blocks = append(p.blocks, editor.Block{Kind: editor.Paragraph, Chars: plainChars(raw)})
	default:
		return fmt.Errorf("unsupported block %s", n.Kind())
	}
	return nil
}

func (p *parser) listItem(item ast.Node, kind editor.BlockKind) error {
	if item.FirstChild() == nil {
		p.blocks = append(p.blocks, editor.Block{Kind: kind})
		return nil
	}
	for c := item.FirstChild(); c != nil; c = c.NextSibling() {
		switch c.(type) {
		case *ast.Paragraph, *ast.TextBlock:
			p.blocks = append(p.blocks, editor.Block{Kind: kind, Chars: p.inlines(c)})
		default:
			if err := p.block(c); err != nil {
				return err
			}
		}
	}
	return nil
}

// lines joins a block's raw lines, dropping the final newline.
func (p *parser) lines(n ast.Node) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(p.src))
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func soleImage(n ast.Node) (*ast.Image, bool) {
	if n.ChildCount() != 1 {
		return nil, false
	}
	img, ok := n.FirstChild().(*ast.Image)
	return img, ok
}

// plain collects the unformatted text under n.
func (p *parser) plain(n ast.Node) []byte {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			buf.Write(unescape(c.Segment.Value(p.src)))
		case *ast.String:
			buf.Write(c.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.Bytes()
}

// unescape resolves backslash escapes and character references in one pass,
// so an escaped "&" never starts a reference.
func unescape(v []byte) []byte {
	var out []byte
	start := 0
	for i := 0; i+1 < len(v); i++ {
		if v[i] == '\\' && util.IsPunct(v[i+1]) {
			out = append(out, resolveRefs(v[start:i])...)
			out = append(out, v[i+1])
			i++
			start = i + 1
		}
	}
	return append(out, resolveRefs(v[start:])...)
}

func resolveRefs(v []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(v))
}

func plainChars(s string) []editor.Char {
	chars := make([]editor.Char, 0, len(s))
	for _, r := range s {
		chars = append(chars, editor.Char{R: r})
	}
	return chars
}

// inlines converts the inline children of n into formatted characters.
func (p *parser) inlines(n ast.Node) []editor.Char {
	w := &inlineWriter{src: p.src}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.node(c)
	}
	return w.chars
}

type inlineWriter struct {
	src   []byte
	chars []editor.Char
	cur   editor.Char
}

func (w *inlineWriter) write(s []byte) {
	for _, r := range string(s) {
		c := w.cur
		c.R = r
		w.chars = append(w.chars, c)
	}
}

func (w *inlineWriter) children(n ast.Node) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.node(c)
	}
}

// with applies mark for the duration of fn.
func (w *inlineWriter) with(mark editor.Mark, fn func()) {
	saved := w.cur
	w.cur.Marks |= mark
	fn()
	w.cur = saved
}

func (w *inlineWriter) node(n ast.Node) {
	switch n := n.(type) {
	case *ast.Text:
		w.write(unescape(n.Segment.Value(w.src)))
		switch {
		case n.HardLineBreak():
			w.write([]byte("\n"))
		case n.SoftLineBreak():
			w.write([]byte(" "))
		}
	case *ast.String:
		w.write(n.Value)
	case *ast.Emphasis:
		mark := editor.Italic
		if n.Level >= 2 {
			mark = editor.Bold
		}
		w.with(mark, func() { w.children(n) })
	case *east.Strikethrough:
		w.with(editor.Strike, func() { w.children(n) })
	case *ast.CodeSpan:
		w.with(editor.Code, func() {
			for c := n.FirstChild(); c != nil; c = c.NextSibling() {
				if t, ok := c.(*ast.Text); ok {
					w.write(bytes.ReplaceAll(t.Segment.Value(w.src), []byte("\n"), []byte(" ")))
				}
			}
		})
	case *ast.Link:
		w.with(editor.Link, func() {
			w.cur.Href = string(n.Destination)
			w.children(n)
		})
	case *ast.AutoLink:
		w.with(editor.Link, func() {
			w.cur.Href = string(n.URL(w.src))
			w.write(n.Label(w.src))
		})
	case *ast.Image:
		w.children(n)
	case *ast.RawHTML:
		w.rawHTML(n)
	default:
		w.children(n)
	}
}

// rawHTML understands the tags the serializer emits for marks markdown has
// no syntax for. Any other markup is kept as literal text.
func (w *inlineWriter) rawHTML(n *ast.RawHTML) {
	var buf bytes.Buffer
	for i := 0; i < n.Segments.Len(); i++ {
		seg := n.Segments.At(i)
		buf.Write(seg.Value(w.src))
	}
	tag := buf.String()
	switch strings.ToLower(tag) {
	case "<u>":
		w.cur.Marks |= editor.Underline
	case "</u>":
		w.cur.Marks &^= editor.Underline
	case "<mark>":
		w.cur.Marks |= editor.Highlight
	case "</mark>":
		w.cur.Marks &^= editor.Highlight
	case "<br>", "<br/>", "<br />":
		w.write([]byte("\n"))
	default:
		w.write([]byte(tag))
	}
}
