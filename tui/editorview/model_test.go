package editorview

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/richedit/config"
	"github.com/grovetools/richedit/editor"
	"github.com/grovetools/richedit/popup"
	"github.com/grovetools/richedit/tui/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModel(t *testing.T, md string, opts Options) *Model {
	t.Helper()
	theme.UseASCII(true)
	t.Cleanup(func() { theme.UseASCII(false) })

	if opts.Config == nil {
		opts.Config = config.Default()
	}
	m, err := New(md, opts)
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

// settle runs every deferred callback, as if their ticks had elapsed.
func settle(m *Model) {
	for ids := m.sched.pending(); len(ids) > 0; ids = m.sched.pending() {
		for _, id := range ids {
			m.Update(timerMsg{id: id})
		}
	}
}

func send(m *Model, msgs ...tea.Msg) {
	for _, msg := range msgs {
		m.Update(msg)
		settle(m)
	}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeString(m *Model, s string) {
	for _, r := range s {
		send(m, runes(string(r)))
	}
}

func TestSlashMenuFromKeyboard(t *testing.T) {
	m := newModel(t, "", Options{})

	typeString(m, "/")
	require.True(t, m.rt.Menu().State().Open)
	assert.Equal(t, popup.SlashMenu, m.rt.Popups().Active())

	typeString(m, "head")
	assert.Equal(t, "head", m.rt.Menu().State().Query)
	assert.Len(t, m.rt.Menu().Filtered(), 3)

	view := m.View()
	assert.Contains(t, view, "Basic blocks")
	assert.Contains(t, view, "Heading 1")

	send(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, m.rt.Menu().State().Selected)
	send(m, tea.KeyMsg{Type: tea.KeyUp})
	send(m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.False(t, m.rt.Menu().State().Open)
	blocks := m.mem.Blocks()
	require.Len(t, blocks, 1)
	assert.Equal(t, editor.Heading, blocks[0].Kind)
	assert.Equal(t, 1, blocks[0].Level)

	typeString(m, "Title")
	assert.Equal(t, "# Title\n", m.Markdown())
	assert.True(t, m.Dirty())
}

func TestMenuCloseBindingRemovesToken(t *testing.T) {
	m := newModel(t, "", Options{})
	typeString(m, "/quo")
	require.True(t, m.rt.Menu().State().Open)

	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.rt.Menu().State().Open)
	assert.Equal(t, "", m.mem.Blocks()[0].Text())
}

func TestDragShowsToolbarAndClickApplies(t *testing.T) {
	m := newModel(t, "hello world", Options{})

	send(m,
		tea.MouseMsg{X: 0, Y: docTop, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft},
		tea.MouseMsg{X: 5, Y: docTop, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft},
	)
	assert.False(t, m.rt.Toolbar().State().Visible, "toolbar stays hidden while dragging")

	send(m, tea.MouseMsg{X: 5, Y: docTop, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	st := m.rt.Toolbar().State()
	require.True(t, st.Visible)
	assert.Equal(t, editor.Point{X: 0, Y: 1}, st.Position)
	assert.Equal(t, editor.Selection{Anchor: 0, Head: 5}, m.mem.Selection())

	id, ok := m.toolbarHit(2, 2)
	require.True(t, ok)
	assert.Equal(t, "bold", id)

	send(m, tea.MouseMsg{X: 2, Y: docTop + 2, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	assert.Equal(t, "**hello** world\n", m.Markdown())
}

func TestFormatKeyOnKeyboardSelection(t *testing.T) {
	m := newModel(t, "hello world", Options{})

	send(m, tea.KeyMsg{Type: tea.KeyHome})
	for i := 0; i < 5; i++ {
		send(m, tea.KeyMsg{Type: tea.KeyShiftRight})
	}
	assert.True(t, m.rt.Toolbar().State().Visible)

	send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'i'}, Alt: true})
	assert.Equal(t, "*hello* world\n", m.Markdown())
}

func TestLinkPrompt(t *testing.T) {
	m := newModel(t, "hello world", Options{})
	m.mem.SetSelection(editor.Selection{Anchor: 0, Head: 5})
	settle(m)

	send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'k'}, Alt: true})
	require.True(t, m.prompting)
	assert.Contains(t, m.View(), "Link: ")

	send(m, runes("https://x.dev"), tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.prompting)
	assert.Equal(t, "https://x.dev", m.mem.Blocks()[0].Chars[0].Href)
	assert.Equal(t, "", m.mem.Blocks()[0].Chars[6].Href)
}

func TestSave(t *testing.T) {
	var saved string
	m := newModel(t, "", Options{Save: func(md string) error {
		saved = md
		return nil
	}})
	typeString(m, "hi")
	require.True(t, m.Dirty())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	send(m, cmd())

	assert.Equal(t, "hi\n", saved)
	assert.False(t, m.Dirty())
	assert.Contains(t, m.View(), "Saved")
}

func TestReloadFromDisk(t *testing.T) {
	m := newModel(t, "one", Options{})

	send(m, ReloadMsg{Markdown: "two", FromDisk: true})
	assert.Equal(t, "two\n", m.Markdown())
	assert.False(t, m.Dirty())

	typeString(m, "!")
	send(m, ReloadMsg{Markdown: "three", FromDisk: true})
	assert.Equal(t, "two!\n", m.Markdown())
	assert.Contains(t, m.View(), "changed on disk")
}

func TestPreviewShowsMarkdown(t *testing.T) {
	m := newModel(t, "# Title\n\nSome **bold** text.\n", Options{})
	send(m, tea.KeyMsg{Type: tea.KeyCtrlO})
	assert.Contains(t, m.View(), "Some **bold** text.")

	send(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.preview)
}

func TestQuitClosesEditor(t *testing.T) {
	m := newModel(t, "x", Options{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, 0, m.rt.Bus().Len())
}

func TestTranslateKey(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		want []editor.KeyEvent
	}{
		{"runes", runes("ab"), []editor.KeyEvent{{Key: "a"}, {Key: "b"}}},
		{"space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, []editor.KeyEvent{{Key: " "}}},
		{"shift left", tea.KeyMsg{Type: tea.KeyShiftLeft}, []editor.KeyEvent{{Key: editor.KeyArrowLeft, Shift: true}}},
		{"backspace", tea.KeyMsg{Type: tea.KeyBackspace}, []editor.KeyEvent{{Key: editor.KeyBackspace}}},
		{"unmapped", tea.KeyMsg{Type: tea.KeyF5}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, translateKey(tt.msg))
		})
	}
}

func TestOverlay(t *testing.T) {
	base := []string{"abcdef", "ghijkl", "mn"}
	out := overlay(base, "XY\nZW", 2, 1)
	assert.Equal(t, []string{"abcdef", "ghXYkl", "mnZW"}, out)

	out = overlay([]string{"ab"}, "Q", 4, 0)
	assert.Equal(t, []string{"ab  Q"}, out)
}

func TestSchedulerCancel(t *testing.T) {
	s := newTeaScheduler()
	ran := 0
	cancel := s.After(time.Millisecond, func() { ran++ })
	s.After(0, func() { ran += 10 })
	assert.NotNil(t, s.drain())
	assert.Nil(t, s.drain())

	cancel()
	assert.Equal(t, []int{2}, s.pending())
	s.fire(1)
	s.fire(2)
	s.fire(2)
	assert.Equal(t, 10, ran)
}

func TestCaretRoundTrip(t *testing.T) {
	m := newModel(t, "hello world\n", Options{})
	m.SetCaret(5)
	assert.Equal(t, 5, m.Caret())

	m.SetCaret(500)
	assert.Equal(t, m.Editor().Host().Selection().Head, m.Caret())
	assert.Equal(t, 11, m.Caret())

	m.SetCaret(-3)
	assert.Equal(t, 0, m.Caret())
}
