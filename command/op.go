// Package command describes formatting operations as data and runs them
// against a host editor.
package command

import (
	"fmt"

	"github.com/grovetools/richedit/editor"
)

// Kind identifies the operation an Op performs.
type Kind int

const (
	ToggleHeading Kind = iota
	ToggleList
	ToggleCodeBlock
	ToggleBlockquote
	SetAlignment
	ToggleMark
	InsertPlaceholder
	ClearNodes
	SetHorizontalRule
)

var kindNames = map[Kind]string{
	ToggleHeading:     "toggleHeading",
	ToggleList:        "toggleList",
	ToggleCodeBlock:   "toggleCodeBlock",
	ToggleBlockquote:  "toggleBlockquote",
	SetAlignment:      "setAlignment",
	ToggleMark:        "toggleMark",
	InsertPlaceholder: "insertPlaceholder",
	ClearNodes:        "clearNodes",
	SetHorizontalRule: "setHorizontalRule",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Op is one formatting operation. Only the fields relevant to Kind are set.
type Op struct {
	Kind        Kind
	Level       int
	List        editor.ListKind
	Align       editor.Alignment
	Mark        editor.Mark
	Value       string
	Placeholder editor.PlaceholderKind
}

func (o Op) String() string {
	switch o.Kind {
	case ToggleHeading:
		return fmt.Sprintf("%s(%d)", o.Kind, o.Level)
	case ToggleList:
		if o.List == editor.OrderedList {
			return "toggleList(ordered)"
		}
		return "toggleList(bullet)"
	case SetAlignment:
		return fmt.Sprintf("%s(%s)", o.Kind, o.Align)
	case ToggleMark:
		if o.Value != "" {
			return fmt.Sprintf("%s(%s=%s)", o.Kind, o.Mark, o.Value)
		}
		return fmt.Sprintf("%s(%s)", o.Kind, o.Mark)
	}
	return o.Kind.String()
}

// Constructors for each operation.
func Heading(level int) Op                    { return Op{Kind: ToggleHeading, Level: level} }
func List(kind editor.ListKind) Op            { return Op{Kind: ToggleList, List: kind} }
func CodeBlock() Op                           { return Op{Kind: ToggleCodeBlock} }
func Blockquote() Op                          { return Op{Kind: ToggleBlockquote} }
func Align(a editor.Alignment) Op             { return Op{Kind: SetAlignment, Align: a} }
func Mark(m editor.Mark) Op                   { return Op{Kind: ToggleMark, Mark: m} }
func Placeholder(k editor.PlaceholderKind) Op { return Op{Kind: InsertPlaceholder, Placeholder: k} }
func Clear() Op                               { return Op{Kind: ClearNodes} }
func HorizontalRule() Op                      { return Op{Kind: SetHorizontalRule} }

// MarkWithValue toggles a mark that carries an attribute, such as a link
// href or a highlight color.
func MarkWithValue(m editor.Mark, value string) Op {
	return Op{Kind: ToggleMark, Mark: m, Value: value}
}
