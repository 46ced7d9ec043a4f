package slashmenu

import (
	"fmt"
	"testing"

	"github.com/grovetools/richedit/bus"
	"github.com/grovetools/richedit/editor"
	"github.com/grovetools/richedit/errors"
	"github.com/grovetools/richedit/observer"
	"github.com/grovetools/richedit/popup"
	"github.com/grovetools/richedit/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	mem   *editor.Memory
	bus   *bus.Bus
	sched *schedule.Manual
	menu  *Menu
}

func mount(t *testing.T, ed editor.Editor, mem *editor.Memory) *fixture {
	t.Helper()
	b := bus.New(nil)
	sched := schedule.NewManual()
	obs := observer.New(ed, b, sched, observer.DefaultConfig(), nil)
	obs.Mount()
	menu := New(ed, b, popup.NewCoordinator(nil), nil, Config{Offset: 1}, nil)
	menu.Mount()
	t.Cleanup(func() {
		menu.Unmount()
		obs.Close()
	})
	return &fixture{mem: mem, bus: b, sched: sched, menu: menu}
}

func newFixture(t *testing.T, blocks ...editor.Block) *fixture {
	mem := editor.NewMemory(blocks...)
	return mount(t, mem, mem)
}

func (f *fixture) typeKeys(keys ...string) {
	for _, k := range keys {
		f.mem.PressKey(editor.KeyEvent{Key: k})
		f.sched.Flush()
	}
}

func (f *fixture) typeString(s string) {
	for _, r := range s {
		f.typeKeys(string(r))
	}
}

func titles(cmds []Command) []string {
	var out []string
	for _, c := range cmds {
		out = append(out, c.Title)
	}
	return out
}

func TestFilter(t *testing.T) {
	all := Catalog()
	tests := []struct {
		query string
		want  []string
	}{
		{"", titles(all)},
		{"   ", titles(all)},
		{"head", []string{"Heading 1", "Heading 2", "Heading 3"}},
		{"HEAD", []string{"Heading 1", "Heading 2", "Heading 3"}},
		{" h2 ", []string{"Heading 2"}},
		{"quote", []string{"Quote", "Blockquote"}},
		{"ol", []string{"Numbered List"}},
		{"divider", []string{"Horizontal Rule"}},
		{"zzz", nil},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q", tt.query), func(t *testing.T) {
			assert.Equal(t, tt.want, titles(Filter(all, tt.query)))
		})
	}
}

func TestFilterIsSubsequenceOfCatalog(t *testing.T) {
	all := Catalog()
	for _, q := range []string{"a", "e", "co", "list", "block", "x"} {
		got := Filter(all, q)
		j := 0
		for _, c := range got {
			for j < len(all) && all[j].Title != c.Title {
				j++
			}
			require.Less(t, j, len(all), "query %q out of catalog order", q)
			j++
		}
	}
}

func TestGroupCommands(t *testing.T) {
	groups := GroupCommands(Filter(Catalog(), "code"))
	require.Len(t, groups, 2)
	assert.Equal(t, GroupBasic, groups[0].Name)
	assert.Equal(t, "Code Block", groups[0].Items[0].Command.Title)
	assert.Equal(t, 0, groups[0].Items[0].Index)
	assert.Equal(t, GroupInline, groups[1].Name)
	assert.Equal(t, "Code", groups[1].Items[0].Command.Title)
	assert.Equal(t, 1, groups[1].Items[0].Index)
}

func TestTypingSlashOpensFullCatalog(t *testing.T) {
	f := newFixture(t)
	f.typeKeys("/")

	st := f.menu.State()
	assert.True(t, st.Open)
	assert.Equal(t, "", st.Query)
	assert.Equal(t, 0, st.Selected)
	assert.Len(t, f.menu.Filtered(), len(Catalog()))
	assert.Equal(t, editor.Point{X: 1, Y: 2}, st.Anchor)
}

func TestMenuSizeFollowsFilter(t *testing.T) {
	f := newFixture(t)
	f.menu.cfg = Config{Width: 30, MaxRows: 8}

	f.typeString("/head")
	assert.Equal(t, editor.Size{W: 30, H: 1 + 3 + 2}, f.menu.Size())

	f.typeString("zzz")
	require.True(t, f.menu.Empty())
	assert.Equal(t, editor.Size{W: 30, H: 3}, f.menu.Size())

	for range 7 {
		f.typeKeys(editor.KeyBackspace)
	}
	require.True(t, f.menu.State().Open)
	assert.Equal(t, 8+2, f.menu.Size().H, "rows are capped")
}

func TestMenuShiftsLeftAtRightEdge(t *testing.T) {
	f := newFixture(t, editor.NewBlock(editor.Paragraph, ""))
	f.menu.cfg = Config{Width: 30}
	f.mem.SetViewport(editor.Size{W: 20, H: 24})

	f.typeString("/")
	st := f.menu.State()
	require.True(t, st.Open)
	assert.Equal(t, 0, st.Anchor.X)
	assert.Equal(t, popup.Bottom, st.Placement)

	f.mem.SetViewport(editor.Size{W: 80, H: 24})
	f.typeString("he")
	assert.Equal(t, 3, f.menu.State().Anchor.X)
}

func TestQueryNarrowsList(t *testing.T) {
	f := newFixture(t)
	f.typeString("/head")

	st := f.menu.State()
	assert.True(t, st.Open)
	assert.Equal(t, "head", st.Query)
	assert.Equal(t, 0, st.Selected)
	assert.Equal(t, []string{"Heading 1", "Heading 2", "Heading 3"}, titles(f.menu.Filtered()))
	assert.Equal(t, 5, st.Anchor.X, "anchor follows the caret")
}

func TestEnterExecutesSelected(t *testing.T) {
	f := newFixture(t)
	f.typeString("/head")

	f.mem.PressKey(editor.KeyEvent{Key: editor.KeyEnter})

	blocks := f.mem.Blocks()
	require.Len(t, blocks, 1, "enter must not split the block")
	assert.Equal(t, "", blocks[0].Text())
	assert.Equal(t, editor.Heading, blocks[0].Kind)
	assert.Equal(t, 1, blocks[0].Level)
	assert.Equal(t, State{Selected: -1}, f.menu.State())
}

func TestEnterKeepsTextBeforeToken(t *testing.T) {
	f := newFixture(t, editor.NewBlock(editor.Paragraph, "intro"), editor.NewBlock(editor.Paragraph, ""))
	f.typeString("/quote")
	f.mem.PressKey(editor.KeyEvent{Key: editor.KeyEnter})

	blocks := f.mem.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, "intro", blocks[0].Text())
	assert.Equal(t, editor.Blockquote, blocks[1].Kind)
	assert.Equal(t, "", blocks[1].Text())
}

func TestArrowKeysWrap(t *testing.T) {
	f := newFixture(t)
	f.typeString("/head")

	down := editor.KeyEvent{Key: editor.KeyArrowDown}
	up := editor.KeyEvent{Key: editor.KeyArrowUp}

	assert.True(t, f.mem.PressKey(down))
	assert.Equal(t, 1, f.menu.State().Selected)
	f.mem.PressKey(down)
	f.mem.PressKey(down)
	assert.Equal(t, 0, f.menu.State().Selected)

	f.mem.PressKey(up)
	assert.Equal(t, 2, f.menu.State().Selected)

	f.mem.PressKey(editor.KeyEvent{Key: editor.KeyEnter})
	assert.True(t, f.mem.BlockActive(editor.Heading, 3))
}

func TestMoveFromNoSelection(t *testing.T) {
	m := New(nil, bus.New(nil), nil, nil, Config{}, nil)
	m.open("")
	m.state.Selected = -1
	m.MoveDown()
	assert.Equal(t, 0, m.State().Selected)

	m.state.Selected = -1
	m.MoveUp()
	assert.Equal(t, len(Catalog())-1, m.State().Selected)
}

func TestEscapeClosesAndDeletesToken(t *testing.T) {
	f := newFixture(t, editor.NewBlock(editor.Paragraph, "keep"), editor.NewBlock(editor.Paragraph, ""))
	f.typeString("/co")
	require.True(t, f.menu.State().Open)

	assert.True(t, f.mem.PressKey(editor.KeyEvent{Key: editor.KeyEscape}))
	assert.False(t, f.menu.State().Open)
	blocks := f.mem.Blocks()
	require.Len(t, blocks, 2)
	assert.Equal(t, "keep", blocks[0].Text())
	assert.Equal(t, "", blocks[1].Text())
}

func TestSlashMidLineDoesNotOpen(t *testing.T) {
	f := newFixture(t, editor.NewBlock(editor.Paragraph, "keep "))
	f.typeString("/co")
	assert.False(t, f.menu.State().Open)
}

func TestKeysPassThroughWhenClosed(t *testing.T) {
	f := newFixture(t, editor.NewBlock(editor.Paragraph, "ab"))
	assert.False(t, f.mem.PressKey(editor.KeyEvent{Key: editor.KeyEnter}))
	assert.Len(t, f.mem.Blocks(), 2)
}

func TestKeysPassThroughWhenTokenGone(t *testing.T) {
	f := newFixture(t)
	f.typeKeys("/")
	f.mem.SetSelection(editor.Caret(0))
	f.menu.open("")
	assert.False(t, f.menu.HandleKey(editor.KeyEvent{Key: editor.KeyArrowDown}))
}

func TestEmptyResultsKeepMenuOpen(t *testing.T) {
	f := newFixture(t)
	f.typeString("/zzz")

	st := f.menu.State()
	assert.True(t, st.Open)
	assert.Equal(t, -1, st.Selected)
	assert.True(t, f.menu.Empty())

	f.mem.PressKey(editor.KeyEvent{Key: editor.KeyEnter})
	assert.Equal(t, "/zzz", f.mem.Blocks()[0].Text(), "enter on an empty list is a no-op")
	assert.Len(t, f.mem.Blocks(), 1)

	f.typeKeys(editor.KeyBackspace, editor.KeyBackspace, editor.KeyBackspace)
	assert.Equal(t, 0, f.menu.State().Selected, "results return when the query shrinks")
}

func TestBackspaceThroughSlashCloses(t *testing.T) {
	f := newFixture(t)
	f.typeKeys("/")
	require.True(t, f.menu.State().Open)

	f.typeKeys(editor.KeyBackspace)
	assert.Equal(t, State{Selected: -1}, f.menu.State())
	assert.Equal(t, "", f.mem.Blocks()[0].Text())
}

func TestDuplicateSearchIsIdempotent(t *testing.T) {
	f := newFixture(t)
	f.typeString("/head")
	f.mem.PressKey(editor.KeyEvent{Key: editor.KeyArrowDown})

	f.bus.Publish(bus.SearchQuery{Query: "head"})
	first := f.menu.State()
	f.bus.Publish(bus.SearchQuery{Query: "head"})
	assert.Equal(t, first, f.menu.State())
	assert.Equal(t, 1, first.Selected)
}

func TestQueryChangeResetsSelection(t *testing.T) {
	f := newFixture(t)
	f.typeString("/h")
	f.mem.PressKey(editor.KeyEvent{Key: editor.KeyArrowDown})
	require.Equal(t, 1, f.menu.State().Selected)

	f.typeKeys("e")
	assert.Equal(t, 0, f.menu.State().Selected)
}

type failingEditor struct {
	*editor.Memory
}

func (failingEditor) ToggleHeading(int) error {
	return fmt.Errorf("document changed underneath")
}

func TestExecuteFailureStillCloses(t *testing.T) {
	mem := editor.NewMemory()
	f := mount(t, failingEditor{mem}, mem)
	f.typeString("/h1")

	cmd, ok := f.menu.Selected()
	require.True(t, ok)
	require.Equal(t, "Heading 1", cmd.Title)

	err := f.menu.Execute(cmd)
	assert.True(t, errors.Is(err, errors.ErrCodeCommandFailed))
	assert.Equal(t, State{Selected: -1}, f.menu.State())
	assert.Equal(t, "", mem.Blocks()[0].Text(), "token is removed before the command runs")
}

func TestUnmountReleasesEverything(t *testing.T) {
	mem := editor.NewMemory()
	b := bus.New(nil)
	menu := New(mem, b, nil, nil, Config{}, nil)
	menu.Mount()
	require.Equal(t, 3, b.Len())

	menu.Unmount()
	assert.Zero(t, b.Len())
	b.Publish(bus.OpenMenu{})
	assert.False(t, menu.State().Open)
	assert.False(t, mem.PressKey(editor.KeyEvent{Key: editor.KeyArrowDown}))
}

func TestExecuteWithoutEditor(t *testing.T) {
	var mem *editor.Memory
	m := New(mem, bus.New(nil), nil, nil, Config{}, nil)
	m.open("")
	err := m.Execute(Catalog()[0])
	assert.True(t, errors.Is(err, errors.ErrCodeEditorUnavailable))
	assert.False(t, m.State().Open)
}
