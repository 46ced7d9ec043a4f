// Package editor defines the capabilities the interaction layer needs from a
// host rich-text engine, and provides Memory, an in-memory engine that
// implements them.
package editor

// Reader exposes read-only views of the host document and its layout.
type Reader interface {
	// Ready reports whether the host has an active document.
	Ready() bool
	Selection() Selection
	// Resolve describes pos relative to its enclosing block.
	Resolve(pos int) (ResolvedPos, error)
	// CoordsAtPos returns the viewport box of the caret at pos.
	CoordsAtPos(pos int) (Rect, error)
	// AnchorAt returns the layout box of the element holding pos.
	AnchorAt(pos int) (Rect, error)
	// ElementAt hit-tests viewport coordinates against the editor's layout.
	ElementAt(x, y int) (Rect, bool)
	Viewport() Size
	IsEditable() bool
	IsFocused() bool
	MarkActive(m Mark) bool
	BlockActive(kind BlockKind, level int) bool
	AlignActive(a Alignment) bool
}

// Commander mutates the host document. Each call is atomic from the caller's
// point of view.
type Commander interface {
	Focus()
	DeleteRange(from, to int) error
	ToggleHeading(level int) error
	ToggleList(kind ListKind) error
	ToggleCodeBlock() error
	ToggleBlockquote() error
	SetAlignment(a Alignment) error
	ToggleMark(m Mark, value string) error
	InsertPlaceholder(kind PlaceholderKind) error
	ClearNodes() error
	SetHorizontalRule() error
}

// Notifier lets observers follow host changes and intercept input.
type Notifier interface {
	OnChange(fn func(Change)) (unsubscribe func())
	// InterceptKeys registers fn ahead of the host's default key handling.
	// Handlers with a higher priority run first.
	InterceptKeys(priority int, fn KeyHandler) (remove func())
	InterceptText(priority int, fn TextHandler) (remove func())
}

// Editor is the full host capability set.
type Editor interface {
	Reader
	Commander
	Notifier
}

// Available reports whether ed can be read and commanded.
func Available(ed Reader) bool {
	return ed != nil && ed.Ready()
}

// Document gives whole-document access for loading and saving content.
type Document interface {
	Blocks() []Block
	SetContent(blocks []Block)
}
