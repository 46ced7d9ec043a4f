package toolbar

import (
	"github.com/grovetools/richedit/command"
	"github.com/grovetools/richedit/editor"
)

// Action is one toolbar button.
type Action struct {
	ID    string
	Label string
	Icon  string
	Op    command.Op
	// NeedsValue marks actions that take an attribute when applied, such as
	// the href of a link.
	NeedsValue bool
}

var actions = []Action{
	{ID: "bold", Label: "Bold", Icon: "bold", Op: command.Mark(editor.Bold)},
	{ID: "italic", Label: "Italic", Icon: "italic", Op: command.Mark(editor.Italic)},
	{ID: "underline", Label: "Underline", Icon: "underline", Op: command.Mark(editor.Underline)},
	{ID: "h1", Label: "Heading 1", Icon: "heading1", Op: command.Heading(1)},
	{ID: "h2", Label: "Heading 2", Icon: "heading2", Op: command.Heading(2)},
	{ID: "h3", Label: "Heading 3", Icon: "heading3", Op: command.Heading(3)},
	{ID: "bullet", Label: "Bullet list", Icon: "list", Op: command.List(editor.BulletList)},
	{ID: "ordered", Label: "Ordered list", Icon: "list-ordered", Op: command.List(editor.OrderedList)},
	{ID: "link", Label: "Link", Icon: "link", Op: command.Mark(editor.Link), NeedsValue: true},
	{ID: "color", Label: "Text color", Icon: "color", Op: command.Mark(editor.Color), NeedsValue: true},
	{ID: "highlight", Label: "Highlight", Icon: "highlight", Op: command.Mark(editor.Highlight), NeedsValue: true},
	{ID: "align-left", Label: "Align left", Icon: "align-left", Op: command.Align(editor.AlignLeft)},
	{ID: "align-center", Label: "Align center", Icon: "align-center", Op: command.Align(editor.AlignCenter)},
	{ID: "align-right", Label: "Align right", Icon: "align-right", Op: command.Align(editor.AlignRight)},
	{ID: "blockquote", Label: "Blockquote", Icon: "quote", Op: command.Blockquote()},
}

// Actions returns the toolbar's buttons in display order.
func Actions() []Action {
	return append([]Action(nil), actions...)
}

// Lookup finds an action by ID.
func Lookup(id string) (Action, bool) {
	for _, a := range actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// With returns the action's operation carrying value. Values only apply to
// actions that take one.
func (a Action) With(value string) command.Op {
	op := a.Op
	if a.NeedsValue {
		op.Value = value
	}
	return op
}

// Button is an action together with its active state at the selection.
type Button struct {
	Action
	Active bool
}
