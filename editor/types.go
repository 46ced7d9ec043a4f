package editor

import "strings"

// BlockKind identifies the structural type of a block.
type BlockKind int

const (
	Paragraph BlockKind = iota
	Heading
	CodeBlock
	Blockquote
	BulletItem
	OrderedItem
	HorizontalRule
	Image
)

var blockKindNames = map[BlockKind]string{
	Paragraph:      "paragraph",
	Heading:        "heading",
	CodeBlock:      "codeBlock",
	Blockquote:     "blockquote",
	BulletItem:     "bulletItem",
	OrderedItem:    "orderedItem",
	HorizontalRule: "horizontalRule",
	Image:          "image",
}

func (k BlockKind) String() string {
	if name, ok := blockKindNames[k]; ok {
		return name
	}
	return "other"
}

// IsText reports whether blocks of this kind hold inline text.
func (k BlockKind) IsText() bool {
	return k != HorizontalRule && k != Image
}

// ListKind selects between bullet and ordered lists.
type ListKind int

const (
	BulletList ListKind = iota
	OrderedList
)

// BlockKind returns the item kind used for this list.
func (l ListKind) BlockKind() BlockKind {
	if l == OrderedList {
		return OrderedItem
	}
	return BulletItem
}

// Alignment is the text alignment of a paragraph or heading.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
	AlignJustify
)

func (a Alignment) String() string {
	switch a {
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	case AlignJustify:
		return "justify"
	default:
		return "left"
	}
}

// PlaceholderKind selects the node inserted by InsertPlaceholder.
type PlaceholderKind int

const (
	ImagePlaceholder PlaceholderKind = iota
)

// Mark is a bit set of inline formatting marks.
type Mark uint16

const (
	Bold Mark = 1 << iota
	Italic
	Underline
	Strike
	Code
	Link
	Highlight
	Color
)

var markNames = []struct {
	mark Mark
	name string
}{
	{Bold, "bold"},
	{Italic, "italic"},
	{Underline, "underline"},
	{Strike, "strike"},
	{Code, "code"},
	{Link, "link"},
	{Highlight, "highlight"},
	{Color, "color"},
}

// Has reports whether every mark in m is present.
func (m Mark) Has(other Mark) bool {
	return m&other == other
}

func (m Mark) String() string {
	if m == 0 {
		return "none"
	}
	var parts []string
	for _, mn := range markNames {
		if m.Has(mn.mark) {
			parts = append(parts, mn.name)
		}
	}
	return strings.Join(parts, "+")
}

// Char is a single character with its marks and mark attributes.
type Char struct {
	R         rune
	Marks     Mark
	Href      string
	Highlight string
	Color     string
}

// sameFormat reports whether two characters carry identical formatting.
func (c Char) sameFormat(o Char) bool {
	return c.Marks == o.Marks && c.Href == o.Href && c.Highlight == o.Highlight && c.Color == o.Color
}

// Block is a structural unit of the document.
type Block struct {
	Kind  BlockKind
	Level int // heading level, 1-4
	Align Alignment
	Lang  string // code block language
	Src   string // image source
	Alt   string // image alt text
	Chars []Char
}

// NewBlock creates a block of the given kind holding unformatted text.
func NewBlock(kind BlockKind, text string) Block {
	b := Block{Kind: kind}
	if kind == Heading {
		b.Level = 1
	}
	for _, r := range text {
		b.Chars = append(b.Chars, Char{R: r})
	}
	return b
}

// NewHeading creates a heading block of the given level.
func NewHeading(level int, text string) Block {
	b := NewBlock(Heading, text)
	b.Level = level
	return b
}

// Text returns the plain text content of the block.
func (b Block) Text() string {
	var sb strings.Builder
	for _, c := range b.Chars {
		sb.WriteRune(c.R)
	}
	return sb.String()
}

// Len returns the number of positions the block's content occupies.
func (b Block) Len() int {
	return len(b.Chars)
}

// Span is a run of characters sharing the same formatting.
type Span struct {
	Text      string
	Marks     Mark
	Href      string
	Highlight string
	Color     string
}

// Spans groups the block's characters into runs of equal formatting.
func (b Block) Spans() []Span {
	var spans []Span
	var sb strings.Builder
	for i, c := range b.Chars {
		if i > 0 && !c.sameFormat(b.Chars[i-1]) {
			prev := b.Chars[i-1]
			spans = append(spans, Span{Text: sb.String(), Marks: prev.Marks, Href: prev.Href, Highlight: prev.Highlight, Color: prev.Color})
			sb.Reset()
		}
		sb.WriteRune(c.R)
	}
	if len(b.Chars) > 0 {
		last := b.Chars[len(b.Chars)-1]
		spans = append(spans, Span{Text: sb.String(), Marks: last.Marks, Href: last.Href, Highlight: last.Highlight, Color: last.Color})
	}
	return spans
}

func (b Block) clone() Block {
	out := b
	out.Chars = append([]Char(nil), b.Chars...)
	return out
}

// Selection is a text selection between anchor and head positions.
type Selection struct {
	Anchor int
	Head   int
}

// Caret returns a collapsed selection at pos.
func Caret(pos int) Selection {
	return Selection{Anchor: pos, Head: pos}
}

// From returns the lower bound of the selection.
func (s Selection) From() int {
	if s.Anchor < s.Head {
		return s.Anchor
	}
	return s.Head
}

// To returns the upper bound of the selection.
func (s Selection) To() int {
	if s.Anchor > s.Head {
		return s.Anchor
	}
	return s.Head
}

// Empty reports whether the selection is collapsed.
func (s Selection) Empty() bool {
	return s.Anchor == s.Head
}

// ResolvedPos describes a document position relative to its enclosing block.
type ResolvedPos struct {
	Pos    int
	Block  int
	Offset int
	Kind   BlockKind
	Level  int
	Text   string // full text of the enclosing block
}

// Point is a cell coordinate in the viewport.
type Point struct {
	X int
	Y int
}

// Size is a width and height in cells.
type Size struct {
	W int
	H int
}

// Rect is a layout box in viewport coordinates.
type Rect struct {
	X int
	Y int
	W int
	H int
}

func (r Rect) Left() int   { return r.X }
func (r Rect) Top() int    { return r.Y }
func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

// Contains reports whether p lies inside r.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// Change describes what a host notification changed.
type Change struct {
	Doc       bool
	Selection bool
}
