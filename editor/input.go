package editor

import "unicode/utf8"

// Named keys, following DOM key names.
const (
	KeyBackspace  = "Backspace"
	KeyDelete     = "Delete"
	KeyEnter      = "Enter"
	KeyEscape     = "Escape"
	KeyTab        = "Tab"
	KeyArrowUp    = "ArrowUp"
	KeyArrowDown  = "ArrowDown"
	KeyArrowLeft  = "ArrowLeft"
	KeyArrowRight = "ArrowRight"
	KeyHome       = "Home"
	KeyEnd        = "End"
)

// KeyEvent is a single key press delivered to the editor surface.
type KeyEvent struct {
	Key   string
	Shift bool
	Ctrl  bool
	Alt   bool
}

// Printable reports whether the key inserts its own text.
func (k KeyEvent) Printable() bool {
	return !k.Ctrl && !k.Alt && utf8.RuneCountInString(k.Key) == 1
}

// ExtendsSelection reports whether the key moves the selection head while
// keeping the anchor (shift+navigation).
func (k KeyEvent) ExtendsSelection() bool {
	if !k.Shift {
		return false
	}
	switch k.Key {
	case KeyArrowUp, KeyArrowDown, KeyArrowLeft, KeyArrowRight, KeyHome, KeyEnd:
		return true
	}
	return false
}

// KeyHandler inspects a key press. Returning true vetoes the host's default
// handling and stops later handlers from seeing the key.
type KeyHandler func(KeyEvent) bool

// TextHandler inspects text about to replace [from, to). Returning true
// vetoes the insertion.
type TextHandler func(from, to int, text string) bool

// PointerType is the phase of a pointer interaction.
type PointerType int

const (
	PointerDown PointerType = iota
	PointerMove
	PointerUp
)

// PointerSource distinguishes mouse pointers from touch contacts.
type PointerSource int

const (
	SourceMouse PointerSource = iota
	SourceTouch
)

// PointerButton identifies which mouse button is involved.
type PointerButton int

const (
	ButtonPrimary PointerButton = iota
	ButtonSecondary
	ButtonMiddle
	ButtonNone
)

// PointerEvent is a pointer or touch event on the editor surface.
type PointerEvent struct {
	Type   PointerType
	Source PointerSource
	Button PointerButton
	X      int
	Y      int
}
