package command

import (
	"fmt"

	"github.com/grovetools/richedit/editor"
	"github.com/grovetools/richedit/errors"
)

// Validate checks that op's arguments are in range before it reaches the
// host editor.
func Validate(op Op) error {
	switch op.Kind {
	case ToggleHeading:
		if op.Level < 1 || op.Level > 4 {
			return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("heading level %d out of range", op.Level)).
				WithDetail("level", op.Level)
		}
	case ToggleMark:
		if op.Mark == 0 || op.Mark&(op.Mark-1) != 0 {
			return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("toggleMark needs one mark, got %s", op.Mark))
		}
	case ToggleList, ToggleCodeBlock, ToggleBlockquote, SetAlignment,
		InsertPlaceholder, ClearNodes, SetHorizontalRule:
	default:
		return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown operation %s", op.Kind))
	}
	return nil
}

// Run focuses the editor and applies op. Failures are returned as
// COMMAND_FAILED errors wrapping the host's error.
func Run(ed editor.Commander, op Op) error {
	if ed == nil {
		return errors.EditorUnavailable(op.String())
	}
	if err := Validate(op); err != nil {
		return errors.CommandFailed(op.String(), err)
	}
	ed.Focus()
	if err := dispatch(ed, op); err != nil {
		return errors.CommandFailed(op.String(), err)
	}
	return nil
}

func dispatch(ed editor.Commander, op Op) error {
	switch op.Kind {
	case ToggleHeading:
		return ed.ToggleHeading(op.Level)
	case ToggleList:
		return ed.ToggleList(op.List)
	case ToggleCodeBlock:
		return ed.ToggleCodeBlock()
	case ToggleBlockquote:
		return ed.ToggleBlockquote()
	case SetAlignment:
		return ed.SetAlignment(op.Align)
	case ToggleMark:
		return ed.ToggleMark(op.Mark, op.Value)
	case InsertPlaceholder:
		return ed.InsertPlaceholder(op.Placeholder)
	case ClearNodes:
		return ed.ClearNodes()
	case SetHorizontalRule:
		return ed.SetHorizontalRule()
	}
	return fmt.Errorf("unhandled operation %s", op.Kind)
}

// IsActive reports whether op's effect is already present at the selection.
// Operations without a persistent state, such as inserts, are never active.
func IsActive(ed editor.Reader, op Op) bool {
	if !editor.Available(ed) {
		return false
	}
	switch op.Kind {
	case ToggleHeading:
		return ed.BlockActive(editor.Heading, op.Level)
	case ToggleList:
		return ed.BlockActive(op.List.BlockKind(), 0)
	case ToggleCodeBlock:
		return ed.BlockActive(editor.CodeBlock, 0)
	case ToggleBlockquote:
		return ed.BlockActive(editor.Blockquote, 0)
	case SetAlignment:
		return ed.AlignActive(op.Align)
	case ToggleMark:
		return ed.MarkActive(op.Mark)
	}
	return false
}
