package editor

import (
	"fmt"
	"strings"

	"github.com/grovetools/richedit/errors"
	"github.com/mattn/go-runewidth"
)

// Line is one rendered row of the document. Text blocks wrap only at
// explicit newlines (code blocks); every other block is a single row.
type Line struct {
	Y      int
	Block  int
	Offset int // offset in the block of the first character on this row
	Kind   BlockKind
	Prefix string
	Chars  []Char
}

// Width returns the number of cells the row occupies.
func (l Line) Width() int {
	w := runewidth.StringWidth(l.Prefix)
	for _, c := range l.Chars {
		w += runewidth.RuneWidth(c.R)
	}
	return w
}

// Layout lays the document out one row per block line.
func (m *Memory) Layout() []Line {
	var lines []Line
	ordinal := 0
	for bi, b := range m.blocks {
		if b.Kind == OrderedItem {
			ordinal++
		} else {
			ordinal = 0
		}
		prefix := linePrefix(b, ordinal)
		switch b.Kind {
		case HorizontalRule:
			lines = append(lines, Line{Y: len(lines), Block: bi, Kind: b.Kind, Prefix: strings.Repeat("─", 24)})
			continue
		case Image:
			label := "[image]"
			if b.Src != "" {
				label = fmt.Sprintf("[image: %s]", b.Src)
			}
			lines = append(lines, Line{Y: len(lines), Block: bi, Kind: b.Kind, Prefix: label})
			continue
		}
		offset := 0
		for ci, c := range b.Chars {
			if c.R == '\n' {
				lines = append(lines, Line{Y: len(lines), Block: bi, Offset: offset, Kind: b.Kind, Prefix: prefix, Chars: b.Chars[offset:ci]})
				offset = ci + 1
			}
		}
		lines = append(lines, Line{Y: len(lines), Block: bi, Offset: offset, Kind: b.Kind, Prefix: prefix, Chars: b.Chars[offset:]})
	}
	return lines
}

func linePrefix(b Block, ordinal int) string {
	switch b.Kind {
	case Heading:
		return strings.Repeat("#", b.Level) + " "
	case BulletItem:
		return "• "
	case OrderedItem:
		return fmt.Sprintf("%d. ", ordinal)
	case Blockquote:
		return "│ "
	case CodeBlock:
		return "  "
	}
	return ""
}

// lineAt finds the row holding offset off of block bi.
func lineAt(lines []Line, bi, off int) (Line, bool) {
	var found Line
	ok := false
	for _, l := range lines {
		if l.Block != bi {
			if ok {
				break
			}
			continue
		}
		if l.Offset <= off {
			found, ok = l, true
		}
	}
	return found, ok
}

func (m *Memory) CoordsAtPos(pos int) (Rect, error) {
	bi, off, ok := m.resolve(pos)
	if !ok {
		return Rect{}, errors.InvalidRange(pos, pos)
	}
	line, ok := lineAt(m.Layout(), bi, off)
	if !ok {
		return Rect{}, errors.AnchorUnresolved(pos)
	}
	x := runewidth.StringWidth(line.Prefix)
	for _, c := range line.Chars[:min(off-line.Offset, len(line.Chars))] {
		x += runewidth.RuneWidth(c.R)
	}
	return Rect{X: x, Y: line.Y, W: 0, H: 1}, nil
}

// AnchorAt returns the box of the text row holding pos. Leaf blocks (rules
// and images) hold no text and cannot anchor.
func (m *Memory) AnchorAt(pos int) (Rect, error) {
	bi, off, ok := m.resolve(pos)
	if !ok {
		return Rect{}, errors.InvalidRange(pos, pos)
	}
	if !m.blocks[bi].Kind.IsText() {
		return Rect{}, errors.AnchorUnresolved(pos)
	}
	line, ok := lineAt(m.Layout(), bi, off)
	if !ok {
		return Rect{}, errors.AnchorUnresolved(pos)
	}
	prefix := runewidth.StringWidth(line.Prefix)
	return Rect{X: prefix, Y: line.Y, W: max(1, line.Width()-prefix), H: 1}, nil
}

func (m *Memory) ElementAt(x, y int) (Rect, bool) {
	lines := m.Layout()
	if y < 0 || y >= len(lines) || x < 0 || x >= m.viewport.W {
		return Rect{}, false
	}
	return Rect{X: 0, Y: y, W: m.viewport.W, H: 1}, true
}

// PosAt maps viewport coordinates to the nearest document position.
func (m *Memory) PosAt(x, y int) int {
	lines := m.Layout()
	if y < 0 {
		return 0
	}
	if y >= len(lines) {
		return m.Size()
	}
	line := lines[y]
	base := m.start(line.Block) + line.Offset
	col := runewidth.StringWidth(line.Prefix)
	for i, c := range line.Chars {
		w := runewidth.RuneWidth(c.R)
		if x < col+w {
			return base + i
		}
		col += w
	}
	return base + len(line.Chars)
}
