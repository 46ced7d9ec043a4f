package editorview

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/richedit/editor"
)

var namedKeys = map[tea.KeyType]editor.KeyEvent{
	tea.KeyEnter:      {Key: editor.KeyEnter},
	tea.KeyBackspace:  {Key: editor.KeyBackspace},
	tea.KeyDelete:     {Key: editor.KeyDelete},
	tea.KeyEsc:        {Key: editor.KeyEscape},
	tea.KeyTab:        {Key: editor.KeyTab},
	tea.KeySpace:      {Key: " "},
	tea.KeyUp:         {Key: editor.KeyArrowUp},
	tea.KeyDown:       {Key: editor.KeyArrowDown},
	tea.KeyLeft:       {Key: editor.KeyArrowLeft},
	tea.KeyRight:      {Key: editor.KeyArrowRight},
	tea.KeyHome:       {Key: editor.KeyHome},
	tea.KeyEnd:        {Key: editor.KeyEnd},
	tea.KeyShiftUp:    {Key: editor.KeyArrowUp, Shift: true},
	tea.KeyShiftDown:  {Key: editor.KeyArrowDown, Shift: true},
	tea.KeyShiftLeft:  {Key: editor.KeyArrowLeft, Shift: true},
	tea.KeyShiftRight: {Key: editor.KeyArrowRight, Shift: true},
	tea.KeyShiftHome:  {Key: editor.KeyHome, Shift: true},
	tea.KeyShiftEnd:   {Key: editor.KeyEnd, Shift: true},
}

// translateKey converts a terminal key into the editor key presses it
// stands for. Keys the editor has no use for translate to nothing.
func translateKey(msg tea.KeyMsg) []editor.KeyEvent {
	if msg.Type == tea.KeyRunes {
		events := make([]editor.KeyEvent, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			events = append(events, editor.KeyEvent{Key: string(r), Alt: msg.Alt})
		}
		return events
	}
	ev, ok := namedKeys[msg.Type]
	if !ok {
		return nil
	}
	ev.Alt = msg.Alt
	return []editor.KeyEvent{ev}
}

// menuKey maps the configurable menu bindings onto the keys the slash menu
// understands.
func (m *Model) menuKey(msg tea.KeyMsg) (editor.KeyEvent, bool) {
	switch {
	case key.Matches(msg, m.keys.MenuUp):
		return editor.KeyEvent{Key: editor.KeyArrowUp}, true
	case key.Matches(msg, m.keys.MenuDown):
		return editor.KeyEvent{Key: editor.KeyArrowDown}, true
	case key.Matches(msg, m.keys.MenuSelect):
		return editor.KeyEvent{Key: editor.KeyEnter}, true
	case key.Matches(msg, m.keys.MenuClose):
		return editor.KeyEvent{Key: editor.KeyEscape}, true
	}
	return editor.KeyEvent{}, false
}

func pointerButton(b tea.MouseButton) editor.PointerButton {
	switch b {
	case tea.MouseButtonLeft:
		return editor.ButtonPrimary
	case tea.MouseButtonRight:
		return editor.ButtonSecondary
	case tea.MouseButtonMiddle:
		return editor.ButtonMiddle
	}
	return editor.ButtonNone
}
