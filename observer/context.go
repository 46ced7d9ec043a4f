// Package observer derives caret and selection state from the host editor and
// publishes the semantic signals the popups react to.
package observer

import (
	"strings"

	"github.com/grovetools/richedit/bus"
	"github.com/grovetools/richedit/editor"
)

// CaretContext describes the caret relative to its enclosing block.
type CaretContext struct {
	Ready       bool
	BlockText   string // full text of the enclosing block
	Line        string // block text from its start up to the caret
	BlockKind   editor.BlockKind
	CaretOffset int
	CaretPos    int
}

// SlashToken is the "/"-prefixed text ending at the caret.
type SlashToken struct {
	Active bool
	Query  string
}

// Len returns the number of characters the token occupies, including the
// leading slash.
func (t SlashToken) Len() int {
	if !t.Active {
		return 0
	}
	return len([]rune(t.Query)) + 1
}

// SelectionContext describes the current text selection.
type SelectionContext struct {
	Ready     bool
	Anchor    int
	Head      int
	Empty     bool
	Settled   bool
	BlockKind editor.BlockKind
}

// Snapshot converts the context into the form carried by toolbar updates.
func (s SelectionContext) Snapshot() *bus.SelectionSnapshot {
	if !s.Ready {
		return nil
	}
	return &bus.SelectionSnapshot{
		Anchor:  s.Anchor,
		Head:    s.Head,
		Empty:   s.Empty,
		Settled: s.Settled,
	}
}

// DeriveCaret reads the caret context at the selection head. An unavailable
// editor yields the zero context.
func DeriveCaret(ed editor.Reader) CaretContext {
	if !editor.Available(ed) {
		return CaretContext{}
	}
	head := ed.Selection().Head
	rp, err := ed.Resolve(head)
	if err != nil {
		return CaretContext{}
	}
	runes := []rune(rp.Text)
	off := min(rp.Offset, len(runes))
	return CaretContext{
		Ready:       true,
		BlockText:   rp.Text,
		Line:        string(runes[:off]),
		BlockKind:   rp.Kind,
		CaretOffset: off,
		CaretPos:    head,
	}
}

// DetectSlash reports whether the caret sits at the end of a "/" token. The
// block must not be a code block, the caret must be at the end of the block's
// text, and the token may not span a line break.
func DetectSlash(c CaretContext) SlashToken {
	if !c.Ready || c.BlockKind == editor.CodeBlock || !c.BlockKind.IsText() {
		return SlashToken{}
	}
	return detectLine(c.Line, c.CaretOffset == len([]rune(c.BlockText)))
}

func detectLine(line string, atEnd bool) SlashToken {
	if !atEnd || !strings.HasPrefix(line, "/") || strings.Contains(line, "\n") {
		return SlashToken{}
	}
	return SlashToken{Active: true, Query: line[1:]}
}

// DeriveSelection reads the selection context. settled is supplied by the
// caller, which tracks pointer and keyboard activity.
func DeriveSelection(ed editor.Reader, settled bool) SelectionContext {
	if !editor.Available(ed) {
		return SelectionContext{}
	}
	sel := ed.Selection()
	ctx := SelectionContext{
		Ready:   true,
		Anchor:  sel.Anchor,
		Head:    sel.Head,
		Empty:   sel.Empty(),
		Settled: settled,
	}
	if rp, err := ed.Resolve(sel.From()); err == nil {
		ctx.BlockKind = rp.Kind
	}
	if rp, err := ed.Resolve(sel.To()); err == nil && rp.Kind == editor.CodeBlock {
		ctx.BlockKind = editor.CodeBlock
	}
	return ctx
}
