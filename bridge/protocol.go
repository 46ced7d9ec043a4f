// Package bridge serves the interaction layer over a websocket so a page
// hosting its own editor surface can drive the slash menu and toolbar.
//
// Each connection gets its own in-memory editor. The client sends JSON
// requests and receives exactly one response per request; state changes
// that happen later, such as the toolbar appearing once a selection
// settles, are pushed as unsolicited state responses.
package bridge

import (
	"github.com/grovetools/richedit/editor"
	"github.com/grovetools/richedit/errors"
	"github.com/grovetools/richedit/richtext"
)

// Request types.
const (
	TypeKey     = "key"
	TypeText    = "text"
	TypePointer = "pointer"
	TypeSelect  = "select"
	TypeLoad    = "load"
	TypeGet     = "get"
	TypeAction  = "action"
	TypeExecute = "execute"
	TypeResize  = "resize"
)

// Response types.
const (
	TypeState    = "state"
	TypeMarkdown = "markdown"
	TypeError    = "error"
)

// KeyPayload is a key press.
type KeyPayload struct {
	Key   string `json:"key"`
	Shift bool   `json:"shift,omitempty"`
	Ctrl  bool   `json:"ctrl,omitempty"`
	Alt   bool   `json:"alt,omitempty"`
}

// PointerPayload is a pointer or touch event.
type PointerPayload struct {
	Phase  string `json:"phase"`            // down, move or up
	Source string `json:"source,omitempty"` // mouse (default) or touch
	Button string `json:"button,omitempty"` // primary (default), secondary, middle or none
	X      int    `json:"x"`
	Y      int    `json:"y"`
}

// SelectionPayload is a document selection.
type SelectionPayload struct {
	Anchor int `json:"anchor"`
	Head   int `json:"head"`
}

// SizePayload is the editing surface size in cells.
type SizePayload struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Request is a client message.
type Request struct {
	Type      string            `json:"type"`
	Key       *KeyPayload       `json:"key,omitempty"`
	Text      string            `json:"text,omitempty"`
	Pointer   *PointerPayload   `json:"pointer,omitempty"`
	Selection *SelectionPayload `json:"selection,omitempty"`
	Markdown  string            `json:"markdown,omitempty"`
	// Action and Value run a toolbar action.
	Action string `json:"action,omitempty"`
	Value  string `json:"value,omitempty"`
	// Index picks a slash command from the filtered list.
	Index int          `json:"index,omitempty"`
	Size  *SizePayload `json:"size,omitempty"`
}

// Response is a server message. State responses carry the menu and toolbar
// views at the top level.
type Response struct {
	Type string `json:"type"`
	*richtext.View
	Selection *SelectionPayload   `json:"selection,omitempty"`
	Markdown  string              `json:"markdown,omitempty"`
	Error     *errors.EditorError `json:"error,omitempty"`
}

func (p KeyPayload) event() (editor.KeyEvent, error) {
	if p.Key == "" {
		return editor.KeyEvent{}, errors.New(errors.ErrCodeInvalidInput, "key event without a key")
	}
	return editor.KeyEvent{Key: p.Key, Shift: p.Shift, Ctrl: p.Ctrl, Alt: p.Alt}, nil
}

var (
	phases = map[string]editor.PointerType{
		"down": editor.PointerDown,
		"move": editor.PointerMove,
		"up":   editor.PointerUp,
	}
	sources = map[string]editor.PointerSource{
		"":      editor.SourceMouse,
		"mouse": editor.SourceMouse,
		"touch": editor.SourceTouch,
	}
	buttons = map[string]editor.PointerButton{
		"":          editor.ButtonPrimary,
		"primary":   editor.ButtonPrimary,
		"secondary": editor.ButtonSecondary,
		"middle":    editor.ButtonMiddle,
		"none":      editor.ButtonNone,
	}
)

func (p PointerPayload) event() (editor.PointerEvent, error) {
	phase, ok := phases[p.Phase]
	if !ok {
		return editor.PointerEvent{}, errors.New(errors.ErrCodeInvalidInput, "unknown pointer phase").WithDetail("phase", p.Phase)
	}
	source, ok := sources[p.Source]
	if !ok {
		return editor.PointerEvent{}, errors.New(errors.ErrCodeInvalidInput, "unknown pointer source").WithDetail("source", p.Source)
	}
	button, ok := buttons[p.Button]
	if !ok {
		return editor.PointerEvent{}, errors.New(errors.ErrCodeInvalidInput, "unknown pointer button").WithDetail("button", p.Button)
	}
	return editor.PointerEvent{Type: phase, Source: source, Button: button, X: p.X, Y: p.Y}, nil
}

// toEditorError gives every failure a code for the wire.
func toEditorError(err error) *errors.EditorError {
	if e, ok := errors.As(err); ok {
		return e
	}
	return errors.Wrap(err, errors.ErrCodeInternal, "request failed")
}
