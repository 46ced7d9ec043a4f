package editorview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/grovetools/richedit/editor"
	"github.com/grovetools/richedit/slashmenu"
	"github.com/grovetools/richedit/toolbar"
	"github.com/grovetools/richedit/tui/theme"
	"github.com/mattn/go-runewidth"
)

const (
	// docTop is the screen row of the first document row.
	docTop      = 1
	placeholder = "Type '/' for commands"
)

// blockStarts returns the document position where each block's content
// begins. Block boundaries take one position each.
func blockStarts(blocks []editor.Block) []int {
	starts := make([]int, len(blocks))
	pos := 0
	for i, b := range blocks {
		starts[i] = pos
		pos += b.Len() + 1
	}
	return starts
}

func blockStyle(t *theme.Theme, kind editor.BlockKind) lipgloss.Style {
	switch kind {
	case editor.Heading:
		return t.Heading
	case editor.Blockquote:
		return t.Quote
	case editor.CodeBlock:
		return t.CodeBlock
	case editor.HorizontalRule:
		return t.Rule
	case editor.Image:
		return t.Muted
	}
	return t.Normal
}

func charStyle(t *theme.Theme, base lipgloss.Style, c editor.Char) lipgloss.Style {
	s := base
	if c.Marks.Has(editor.Bold) {
		s = s.Bold(true)
	}
	if c.Marks.Has(editor.Italic) {
		s = s.Italic(true)
	}
	if c.Marks.Has(editor.Underline) {
		s = s.Underline(true)
	}
	if c.Marks.Has(editor.Strike) {
		s = s.Strikethrough(true)
	}
	if c.Marks.Has(editor.Code) {
		s = s.Inherit(t.Code)
	}
	if c.Marks.Has(editor.Link) {
		s = s.Inherit(t.Link)
	}
	if c.Marks.Has(editor.Highlight) {
		s = s.Inherit(t.Mark)
	}
	if c.Marks.Has(editor.Color) && c.Color != "" {
		s = s.Foreground(lipgloss.Color(c.Color))
	}
	return s
}

// renderDocument renders the first height rows of the document.
func (m *Model) renderDocument(height int) []string {
	t := m.theme
	blocks := m.mem.Blocks()
	starts := blockStarts(blocks)
	sel := m.mem.Selection()
	caret := m.mem.IsFocused() && sel.Empty()

	out := make([]string, 0, height)
	for _, l := range m.mem.Layout() {
		if len(out) == height {
			break
		}
		base := blockStyle(t, l.Kind)
		if !l.Kind.IsText() {
			out = append(out, base.Render(l.Prefix))
			continue
		}

		var sb strings.Builder
		sb.WriteString(t.Muted.Render(l.Prefix))
		pos := starts[l.Block] + l.Offset
		for i, c := range l.Chars {
			s := charStyle(t, base, c)
			switch p := pos + i; {
			case caret && p == sel.Head:
				s = t.Cursor
			case !sel.Empty() && p >= sel.From() && p < sel.To():
				s = s.Inherit(t.Selected)
			}
			sb.WriteString(s.Render(string(c.R)))
		}
		if end := pos + len(l.Chars); caret && end == sel.Head {
			sb.WriteString(t.Cursor.Render(" "))
			if len(blocks) == 1 && l.Kind == editor.Paragraph && len(l.Chars) == 0 {
				sb.WriteString(t.Placeholder.Render(placeholder))
			}
		}
		out = append(out, sb.String())
	}
	for len(out) < height {
		out = append(out, "")
	}
	return out
}

// menuRow is one row inside the menu frame. index is the command's position
// in the filtered list, or -1 for group titles and the empty notice.
type menuRow struct {
	index int
	text  string
}

func (m *Model) menuRows() []menuRow {
	menu := m.rt.Menu()
	if menu.Empty() {
		return []menuRow{{index: -1, text: m.theme.Muted.Render("No results")}}
	}
	selected := menu.State().Selected
	var rows []menuRow
	for _, g := range menu.Groups() {
		rows = append(rows, menuRow{index: -1, text: m.theme.GroupTitle.Render(g.Name)})
		for _, it := range g.Items {
			rows = append(rows, menuRow{index: it.Index, text: m.menuItem(it.Command, it.Index == selected)})
		}
	}
	if limit := m.cfg.Menu.MaxRows; limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

func (m *Model) menuItem(cmd slashmenu.Command, selected bool) string {
	inner := m.cfg.Menu.Width - 4
	title := fmt.Sprintf("%s %s", theme.Icon(cmd.Icon), cmd.Title)
	desc := runewidth.Truncate(cmd.Description, max(0, inner-runewidth.StringWidth(title)-2), "…")
	line := title + "  " + m.theme.Muted.Render(desc)
	if selected {
		return m.theme.Selected.Width(inner).Render(title + "  " + desc)
	}
	return line
}

func (m *Model) renderMenu() string {
	rows := m.menuRows()
	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = r.text
	}
	return m.theme.Box.Width(m.cfg.Menu.Width - 2).Render(strings.Join(lines, "\n"))
}

// menuHit returns the filtered index of the command drawn at (x, y) in
// document coordinates.
func (m *Model) menuHit(x, y int) (int, bool) {
	st := m.rt.Menu().State()
	if !st.Open || x <= st.Anchor.X || x >= st.Anchor.X+m.cfg.Menu.Width-1 {
		return 0, false
	}
	rows := m.menuRows()
	r := y - st.Anchor.Y - 1
	if r < 0 || r >= len(rows) || rows[r].index < 0 {
		return 0, false
	}
	return rows[r].index, true
}

func toolbarLabel(b toolbar.Button) string {
	return theme.Icon(b.Icon)
}

func (m *Model) renderToolbar() string {
	size := m.cfg.Toolbar.Size
	buttons := m.rt.Toolbar().Buttons()
	labels := make([]string, len(buttons))
	for i, b := range buttons {
		if b.Active {
			labels[i] = m.theme.ActiveItem.Render(toolbarLabel(b))
		} else {
			labels[i] = toolbarLabel(b)
		}
	}
	return m.theme.Box.Width(size.W - 2).MaxHeight(size.H).Render(strings.Join(labels, " "))
}

// toolbarHit returns the action drawn at (x, y) in document coordinates.
func (m *Model) toolbarHit(x, y int) (string, bool) {
	st := m.rt.Toolbar().State()
	if !st.Visible || y != st.Position.Y+1 {
		return "", false
	}
	col := st.Position.X + 2
	for _, b := range m.rt.Toolbar().Buttons() {
		w := runewidth.StringWidth(toolbarLabel(b))
		if x >= col && x < col+w {
			return b.ID, true
		}
		col += w + 1
	}
	return "", false
}

// overlay draws box over base with its top-left corner at (x, y).
func overlay(base []string, box string, x, y int) []string {
	for i, line := range strings.Split(box, "\n") {
		row := y + i
		if row < 0 || row >= len(base) {
			continue
		}
		bg := base[row]
		if w := ansi.StringWidth(bg); w < x {
			bg += strings.Repeat(" ", x-w)
		}
		left := ansi.Truncate(bg, x, "")
		right := ""
		if end := x + ansi.StringWidth(line); ansi.StringWidth(bg) > end {
			right = ansi.TruncateLeft(bg, end, "")
		}
		base[row] = left + line + right
	}
	return base
}

func (m *Model) renderHeader() string {
	title := m.opts.Title
	if title == "" {
		title = "untitled"
	}
	if m.dirty {
		title += " " + m.theme.Warning.Render("●")
	}
	return m.theme.Bold.Render(title)
}

func (m *Model) renderFooter() string {
	if m.prompting {
		return m.prompt.View()
	}
	if m.status != "" {
		if m.statusErr {
			return m.theme.Error.Render(theme.IconError + " " + m.status)
		}
		return m.theme.Info.Render(m.status)
	}
	return m.help.View()
}
