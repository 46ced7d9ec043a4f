package editor

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"github.com/grovetools/richedit/errors"
)

type keyEntry struct {
	id       int
	priority int
	fn       KeyHandler
}

type textEntry struct {
	id       int
	priority int
	fn       TextHandler
}

type changeEntry struct {
	id int
	fn func(Change)
}

// Memory is an in-memory host engine. Positions are global integers: block i
// starts at the sum of (len+1) of the blocks before it, so every position in
// [0, Size()] belongs to exactly one block.
//
// Memory is not safe for concurrent use; drive it from a single loop.
type Memory struct {
	blocks     []Block
	sel        Selection
	pending    Mark
	pendingSet bool
	focused    bool
	editable   bool
	viewport   Size

	nextID       int
	listeners    []changeEntry
	keyHandlers  []keyEntry
	textHandlers []textEntry
}

// NewMemory creates an editable, focused engine holding blocks. An empty
// document gets a single empty paragraph.
func NewMemory(blocks ...Block) *Memory {
	m := &Memory{
		editable: true,
		focused:  true,
		viewport: Size{W: 80, H: 24},
	}
	m.setBlocks(blocks)
	m.sel = Caret(m.Size())
	return m
}

func (m *Memory) setBlocks(blocks []Block) {
	m.blocks = make([]Block, 0, len(blocks))
	for _, b := range blocks {
		m.blocks = append(m.blocks, b.clone())
	}
	if len(m.blocks) == 0 {
		m.blocks = append(m.blocks, NewBlock(Paragraph, ""))
	}
	m.pendingSet = false
}

// SetContent replaces the document and moves the caret to its end.
func (m *Memory) SetContent(blocks []Block) {
	m.setBlocks(blocks)
	m.sel = Caret(m.Size())
	m.notify(Change{Doc: true, Selection: true})
}

// Blocks returns a copy of the document's blocks.
func (m *Memory) Blocks() []Block {
	out := make([]Block, len(m.blocks))
	for i, b := range m.blocks {
		out[i] = b.clone()
	}
	return out
}

// Size returns the last valid position in the document.
func (m *Memory) Size() int {
	size := 0
	for i, b := range m.blocks {
		if i > 0 {
			size++
		}
		size += b.Len()
	}
	return size
}

func (m *Memory) start(index int) int {
	s := 0
	for i := 0; i < index; i++ {
		s += m.blocks[i].Len() + 1
	}
	return s
}

func (m *Memory) resolve(pos int) (int, int, bool) {
	if pos < 0 {
		return 0, 0, false
	}
	s := 0
	for i, b := range m.blocks {
		if pos <= s+b.Len() {
			return i, pos - s, true
		}
		s += b.Len() + 1
	}
	return 0, 0, false
}

// --- Reader ---

// Ready reports whether the engine exists. A nil *Memory is not ready.
func (m *Memory) Ready() bool {
	return m != nil
}

func (m *Memory) Selection() Selection {
	return m.sel
}

func (m *Memory) Resolve(pos int) (ResolvedPos, error) {
	bi, off, ok := m.resolve(pos)
	if !ok {
		return ResolvedPos{}, errors.InvalidRange(pos, pos)
	}
	b := m.blocks[bi]
	return ResolvedPos{
		Pos:    pos,
		Block:  bi,
		Offset: off,
		Kind:   b.Kind,
		Level:  b.Level,
		Text:   b.Text(),
	}, nil
}

func (m *Memory) Viewport() Size     { return m.viewport }
func (m *Memory) IsEditable() bool   { return m.editable }
func (m *Memory) IsFocused() bool    { return m.focused }
func (m *Memory) SetViewport(s Size) { m.viewport = s }

// SetEditable toggles whether user input changes the document.
func (m *Memory) SetEditable(editable bool) {
	m.editable = editable
}

// Blur removes focus from the editor.
func (m *Memory) Blur() {
	if m.focused {
		m.focused = false
		m.notify(Change{Selection: true})
	}
}

// SetSelection moves the selection, clamping both ends into the document.
func (m *Memory) SetSelection(sel Selection) {
	sel.Anchor = m.clamp(sel.Anchor)
	sel.Head = m.clamp(sel.Head)
	if sel == m.sel {
		return
	}
	m.sel = sel
	m.pendingSet = false
	m.notify(Change{Selection: true})
}

func (m *Memory) clamp(pos int) int {
	if pos < 0 {
		return 0
	}
	if size := m.Size(); pos > size {
		return size
	}
	return pos
}

// blockRange returns the indices of the first and last blocks touched by the
// current selection.
func (m *Memory) blockRange() (int, int) {
	bi, _, _ := m.resolve(m.sel.From())
	ei, _, _ := m.resolve(m.sel.To())
	return bi, ei
}

// charsInRange calls fn for every character inside [from, to) that lives in
// a block accepting marks.
func (m *Memory) charsInRange(from, to int, fn func(bi, ci int)) {
	s := 0
	for bi, b := range m.blocks {
		end := s + b.Len()
		if end >= from && s < to && b.Kind.IsText() && b.Kind != CodeBlock {
			for ci := range b.Chars {
				p := s + ci
				if p >= from && p < to {
					fn(bi, ci)
				}
			}
		}
		s = end + 1
	}
}

func (m *Memory) marksAtCaret() Char {
	bi, off, ok := m.resolve(m.sel.Head)
	if !ok || off == 0 {
		return Char{}
	}
	return m.blocks[bi].Chars[off-1]
}

func (m *Memory) MarkActive(mark Mark) bool {
	if m.sel.Empty() {
		if m.pendingSet {
			return m.pending.Has(mark)
		}
		return m.marksAtCaret().Marks.Has(mark)
	}
	seen, all := false, true
	m.charsInRange(m.sel.From(), m.sel.To(), func(bi, ci int) {
		seen = true
		if !m.blocks[bi].Chars[ci].Marks.Has(mark) {
			all = false
		}
	})
	return seen && all
}

func (m *Memory) BlockActive(kind BlockKind, level int) bool {
	bi, ei := m.blockRange()
	for i := bi; i <= ei; i++ {
		b := m.blocks[i]
		if b.Kind != kind {
			return false
		}
		if kind == Heading && level > 0 && b.Level != level {
			return false
		}
	}
	return true
}

func (m *Memory) AlignActive(a Alignment) bool {
	bi, ei := m.blockRange()
	seen := false
	for i := bi; i <= ei; i++ {
		b := m.blocks[i]
		if b.Kind != Paragraph && b.Kind != Heading {
			continue
		}
		seen = true
		if b.Align != a {
			return false
		}
	}
	return seen
}

// --- Notifier ---

func (m *Memory) OnChange(fn func(Change)) func() {
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, changeEntry{id: id, fn: fn})
	return func() {
		for i, l := range m.listeners {
			if l.id == id {
				m.listeners = append(m.listeners[:i:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

func (m *Memory) InterceptKeys(priority int, fn KeyHandler) func() {
	m.nextID++
	id := m.nextID
	m.keyHandlers = append(m.keyHandlers, keyEntry{id: id, priority: priority, fn: fn})
	sort.SliceStable(m.keyHandlers, func(i, j int) bool {
		return m.keyHandlers[i].priority > m.keyHandlers[j].priority
	})
	return func() {
		for i, h := range m.keyHandlers {
			if h.id == id {
				m.keyHandlers = append(m.keyHandlers[:i:i], m.keyHandlers[i+1:]...)
				return
			}
		}
	}
}

func (m *Memory) InterceptText(priority int, fn TextHandler) func() {
	m.nextID++
	id := m.nextID
	m.textHandlers = append(m.textHandlers, textEntry{id: id, priority: priority, fn: fn})
	sort.SliceStable(m.textHandlers, func(i, j int) bool {
		return m.textHandlers[i].priority > m.textHandlers[j].priority
	})
	return func() {
		for i, h := range m.textHandlers {
			if h.id == id {
				m.textHandlers = append(m.textHandlers[:i:i], m.textHandlers[i+1:]...)
				return
			}
		}
	}
}

func (m *Memory) notify(ch Change) {
	listeners := append([]changeEntry(nil), m.listeners...)
	for _, l := range listeners {
		l.fn(ch)
	}
}

// --- User input ---

// PressKey delivers a key press. Interceptors run first; if none vetoes the
// key, the default editing behavior applies. It returns true when an
// interceptor consumed the key.
func (m *Memory) PressKey(ev KeyEvent) bool {
	handlers := append([]keyEntry(nil), m.keyHandlers...)
	for _, h := range handlers {
		if h.fn(ev) {
			return true
		}
	}
	m.defaultKey(ev)
	return false
}

// Type inserts text at the selection after giving text interceptors a chance
// to veto it. It returns true when the insertion was vetoed.
func (m *Memory) Type(text string) bool {
	from, to := m.sel.From(), m.sel.To()
	handlers := append([]textEntry(nil), m.textHandlers...)
	for _, h := range handlers {
		if h.fn(from, to, text) {
			return true
		}
	}
	m.insertText(text)
	return false
}

func (m *Memory) defaultKey(ev KeyEvent) {
	switch ev.Key {
	case KeyArrowLeft, KeyArrowRight, KeyArrowUp, KeyArrowDown, KeyHome, KeyEnd:
		m.move(ev)
		return
	}
	if !m.editable {
		return
	}
	switch ev.Key {
	case KeyBackspace:
		m.backspace()
	case KeyDelete:
		m.deleteForward()
	case KeyEnter:
		m.splitBlock()
	default:
		if ev.Printable() {
			m.Type(ev.Key)
		}
	}
}

func (m *Memory) insertText(text string) {
	if !m.editable || text == "" {
		return
	}
	if !m.sel.Empty() {
		_ = m.deleteRange(m.sel.From(), m.sel.To())
	}
	pos := m.sel.Head
	bi, off, _ := m.resolve(pos)
	if !m.blocks[bi].Kind.IsText() {
		m.blocks = insertBlock(m.blocks, bi+1, NewBlock(Paragraph, ""))
		bi, off = bi+1, 0
		pos = m.start(bi)
	}

	format := m.marksAtCaret()
	if m.pendingSet {
		format.Marks = m.pending
	}
	// Links do not extend to text typed after them.
	format.Marks &^= Link
	format.Href = ""
	if m.blocks[bi].Kind == CodeBlock {
		format = Char{}
	}

	chars := make([]Char, 0, utf8.RuneCountInString(text))
	for _, r := range text {
		c := format
		c.R = r
		chars = append(chars, c)
	}
	b := &m.blocks[bi]
	b.Chars = append(b.Chars[:off:off], append(chars, b.Chars[off:]...)...)
	m.sel = Caret(pos + len(chars))
	m.pendingSet = false
	m.notify(Change{Doc: true, Selection: true})
}

func (m *Memory) move(ev KeyEvent) {
	pos := m.sel.Head
	bi, off, _ := m.resolve(pos)
	switch ev.Key {
	case KeyArrowLeft:
		if !ev.Shift && !m.sel.Empty() {
			pos = m.sel.From()
		} else {
			pos--
		}
	case KeyArrowRight:
		if !ev.Shift && !m.sel.Empty() {
			pos = m.sel.To()
		} else {
			pos++
		}
	case KeyArrowUp:
		if bi == 0 {
			pos = 0
		} else {
			pos = m.start(bi-1) + min(off, m.blocks[bi-1].Len())
		}
	case KeyArrowDown:
		if bi == len(m.blocks)-1 {
			pos = m.Size()
		} else {
			pos = m.start(bi+1) + min(off, m.blocks[bi+1].Len())
		}
	case KeyHome:
		pos = m.start(bi)
	case KeyEnd:
		pos = m.start(bi) + m.blocks[bi].Len()
	}
	pos = m.clamp(pos)
	if ev.Shift {
		m.SetSelection(Selection{Anchor: m.sel.Anchor, Head: pos})
		return
	}
	m.SetSelection(Caret(pos))
}

func (m *Memory) backspace() {
	if !m.sel.Empty() {
		_ = m.deleteRange(m.sel.From(), m.sel.To())
		m.notify(Change{Doc: true, Selection: true})
		return
	}
	pos := m.sel.Head
	bi, off, _ := m.resolve(pos)
	b := &m.blocks[bi]
	switch {
	case off > 0:
		_ = m.deleteRange(pos-1, pos)
	case b.Kind != Paragraph && b.Kind.IsText():
		// Lift the block out of its structure before joining.
		b.Kind, b.Level, b.Lang = Paragraph, 0, ""
	case bi > 0 && !m.blocks[bi-1].Kind.IsText():
		m.blocks = append(m.blocks[:bi-1:bi-1], m.blocks[bi:]...)
		m.sel = Caret(pos - 1)
	case bi > 0:
		_ = m.deleteRange(pos-1, pos)
	default:
		return
	}
	m.notify(Change{Doc: true, Selection: true})
}

func (m *Memory) deleteForward() {
	if !m.sel.Empty() {
		_ = m.deleteRange(m.sel.From(), m.sel.To())
		m.notify(Change{Doc: true, Selection: true})
		return
	}
	pos := m.sel.Head
	if pos >= m.Size() {
		return
	}
	_ = m.deleteRange(pos, pos+1)
	m.notify(Change{Doc: true, Selection: true})
}

func (m *Memory) splitBlock() {
	if !m.sel.Empty() {
		_ = m.deleteRange(m.sel.From(), m.sel.To())
	}
	pos := m.sel.Head
	bi, off, _ := m.resolve(pos)
	b := m.blocks[bi]
	switch {
	case !b.Kind.IsText():
		m.blocks = insertBlock(m.blocks, bi+1, NewBlock(Paragraph, ""))
		m.sel = Caret(m.start(bi + 1))
	case b.Kind == CodeBlock:
		nl := Char{R: '\n'}
		cb := &m.blocks[bi]
		cb.Chars = append(cb.Chars[:off:off], append([]Char{nl}, cb.Chars[off:]...)...)
		m.sel = Caret(pos + 1)
	case (b.Kind == BulletItem || b.Kind == OrderedItem || b.Kind == Blockquote) && b.Len() == 0:
		m.blocks[bi].Kind = Paragraph
	default:
		left := b.clone()
		left.Chars = left.Chars[:off]
		right := b.clone()
		right.Chars = right.Chars[off:]
		if right.Kind == Heading {
			right.Kind, right.Level = Paragraph, 0
		}
		m.blocks[bi] = left
		m.blocks = insertBlock(m.blocks, bi+1, right)
		m.sel = Caret(m.start(bi + 1))
	}
	m.pendingSet = false
	m.notify(Change{Doc: true, Selection: true})
}

// --- Commander ---

func (m *Memory) Focus() {
	if !m.focused {
		m.focused = true
		m.notify(Change{Selection: true})
	}
}

// DeleteRange removes [from, to). Ranges spanning blocks join the first and
// last block.
func (m *Memory) DeleteRange(from, to int) error {
	if err := m.deleteRange(from, to); err != nil {
		return err
	}
	m.notify(Change{Doc: true, Selection: true})
	return nil
}

func (m *Memory) deleteRange(from, to int) error {
	if from < 0 || from > to || to > m.Size() {
		return errors.InvalidRange(from, to)
	}
	if from == to {
		return nil
	}
	bi, bo, _ := m.resolve(from)
	ei, eo, _ := m.resolve(to)
	if bi == ei {
		b := &m.blocks[bi]
		b.Chars = append(b.Chars[:bo:bo], b.Chars[eo:]...)
	} else {
		first, last := m.blocks[bi], m.blocks[ei]
		merged := first.clone()
		if !first.Kind.IsText() {
			merged = last.clone()
			merged.Chars = merged.Chars[eo:]
		} else {
			merged.Chars = append(merged.Chars[:bo:bo], last.Chars[eo:]...)
		}
		rest := append([]Block{merged}, m.blocks[ei+1:]...)
		m.blocks = append(m.blocks[:bi:bi], rest...)
	}
	m.sel = Selection{
		Anchor: mapDeleted(m.sel.Anchor, from, to),
		Head:   mapDeleted(m.sel.Head, from, to),
	}
	m.pendingSet = false
	return nil
}

func mapDeleted(p, from, to int) int {
	switch {
	case p <= from:
		return p
	case p >= to:
		return p - (to - from)
	default:
		return from
	}
}

func (m *Memory) toggleBlock(kind BlockKind, level int) {
	bi, ei := m.blockRange()
	active := m.BlockActive(kind, level)
	for i := bi; i <= ei; i++ {
		b := &m.blocks[i]
		if !b.Kind.IsText() {
			continue
		}
		if active {
			b.Kind, b.Level = Paragraph, 0
		} else {
			b.Kind, b.Level = kind, 0
			if kind == Heading {
				b.Level = level
			}
		}
		if b.Kind == CodeBlock {
			for ci := range b.Chars {
				b.Chars[ci] = Char{R: b.Chars[ci].R}
			}
		} else {
			b.Lang = ""
		}
	}
	m.notify(Change{Doc: true})
}

func (m *Memory) ToggleHeading(level int) error {
	if level < 1 || level > 4 {
		return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("heading level %d out of range", level)).
			WithDetail("level", level)
	}
	m.toggleBlock(Heading, level)
	return nil
}

func (m *Memory) ToggleList(kind ListKind) error {
	m.toggleBlock(kind.BlockKind(), 0)
	return nil
}

func (m *Memory) ToggleCodeBlock() error {
	m.toggleBlock(CodeBlock, 0)
	return nil
}

func (m *Memory) ToggleBlockquote() error {
	m.toggleBlock(Blockquote, 0)
	return nil
}

func (m *Memory) ClearNodes() error {
	bi, ei := m.blockRange()
	for i := bi; i <= ei; i++ {
		b := &m.blocks[i]
		if b.Kind.IsText() {
			b.Kind, b.Level, b.Lang = Paragraph, 0, ""
		}
	}
	m.notify(Change{Doc: true})
	return nil
}

func (m *Memory) SetAlignment(a Alignment) error {
	bi, ei := m.blockRange()
	for i := bi; i <= ei; i++ {
		b := &m.blocks[i]
		if b.Kind == Paragraph || b.Kind == Heading {
			b.Align = a
		}
	}
	m.notify(Change{Doc: true})
	return nil
}

// ToggleMark adds or removes a single mark over the selection. value is the
// href for links and the color for highlight and color marks. With an empty
// selection the mark applies to the next typed text.
func (m *Memory) ToggleMark(mark Mark, value string) error {
	if mark == 0 || mark&(mark-1) != 0 {
		return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("toggle needs exactly one mark, got %s", mark))
	}
	if m.sel.Empty() {
		if !m.pendingSet {
			m.pending = m.marksAtCaret().Marks
			m.pendingSet = true
		}
		m.pending ^= mark
		return nil
	}

	from, to := m.sel.From(), m.sel.To()
	remove := m.MarkActive(mark)
	m.charsInRange(from, to, func(bi, ci int) {
		c := &m.blocks[bi].Chars[ci]
		if remove {
			c.Marks &^= mark
		} else {
			c.Marks |= mark
		}
		attr := value
		if remove {
			attr = ""
		}
		switch mark {
		case Link:
			c.Href = attr
		case Highlight:
			c.Highlight = attr
		case Color:
			c.Color = attr
		}
	})
	m.notify(Change{Doc: true})
	return nil
}

func (m *Memory) InsertPlaceholder(kind PlaceholderKind) error {
	if kind != ImagePlaceholder {
		return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown placeholder kind %d", kind))
	}
	m.insertLeaf(Block{Kind: Image})
	return nil
}

func (m *Memory) SetHorizontalRule() error {
	m.insertLeaf(Block{Kind: HorizontalRule})
	return nil
}

// insertLeaf places a non-text block at the caret, splitting the current
// block when the caret sits inside it, and leaves the caret in the text
// block that follows.
func (m *Memory) insertLeaf(leaf Block) {
	if !m.sel.Empty() {
		_ = m.deleteRange(m.sel.From(), m.sel.To())
	}
	bi, off, _ := m.resolve(m.sel.Head)
	b := m.blocks[bi]
	switch {
	case b.Kind.IsText() && b.Len() == 0:
		m.blocks[bi] = leaf
		m.blocks = insertBlock(m.blocks, bi+1, NewBlock(Paragraph, ""))
		m.sel = Caret(m.start(bi + 1))
	case b.Kind.IsText() && off == 0:
		m.blocks = insertBlock(m.blocks, bi, leaf)
		m.sel = Caret(m.start(bi + 1))
	case b.Kind.IsText() && off < b.Len():
		left, right := b.clone(), b.clone()
		left.Chars = left.Chars[:off]
		right.Chars = right.Chars[off:]
		m.blocks[bi] = left
		m.blocks = insertBlock(m.blocks, bi+1, leaf)
		m.blocks = insertBlock(m.blocks, bi+2, right)
		m.sel = Caret(m.start(bi + 2))
	default:
		m.blocks = insertBlock(m.blocks, bi+1, leaf)
		if bi+2 >= len(m.blocks) || !m.blocks[bi+2].Kind.IsText() {
			m.blocks = insertBlock(m.blocks, bi+2, NewBlock(Paragraph, ""))
		}
		m.sel = Caret(m.start(bi + 2))
	}
	m.pendingSet = false
	m.notify(Change{Doc: true, Selection: true})
}

func insertBlock(blocks []Block, at int, b Block) []Block {
	blocks = append(blocks, Block{})
	copy(blocks[at+1:], blocks[at:])
	blocks[at] = b
	return blocks
}
