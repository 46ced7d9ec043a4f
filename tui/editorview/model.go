// Package editorview is the terminal front end of the editor: a bubbletea
// model that renders a document with its slash menu and floating toolbar and
// feeds terminal keys and mouse events into the interaction layer.
package editorview

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/grovetools/richedit/command"
	"github.com/grovetools/richedit/config"
	"github.com/grovetools/richedit/editor"
	"github.com/grovetools/richedit/richtext"
	"github.com/grovetools/richedit/toolbar"
	"github.com/grovetools/richedit/tui/components/help"
	"github.com/grovetools/richedit/tui/keymap"
	"github.com/grovetools/richedit/tui/theme"
	"github.com/sirupsen/logrus"
)

// Options configures a Model.
type Options struct {
	// Title is shown in the header, usually the file name.
	Title  string
	Config *config.Config
	// Keys overrides the bindings loaded from Config.
	Keys *keymap.KeyMap
	// Save persists the document. Saving is disabled when nil.
	Save func(markdown string) error
	// Reload reads the document source again. Reloading is disabled when nil.
	Reload func() (string, error)
	Log    *logrus.Entry
}

// ReloadMsg replaces the document. FromDisk marks content that changed
// underneath the editor; it is not applied over unsaved edits.
type ReloadMsg struct {
	Markdown string
	FromDisk bool
}

type savedMsg struct {
	err error
}

type errMsg struct {
	err error
}

// Model is the editor screen.
type Model struct {
	mem   *editor.Memory
	rt    *richtext.Editor
	sched *teaScheduler
	cfg   richtext.Config
	keys  keymap.KeyMap
	help  help.Model
	theme *theme.Theme
	opts  Options
	log   *logrus.Entry

	width     int
	height    int
	fixedSize bool

	dirty     bool
	status    string
	statusErr bool

	preview   bool
	previewVP viewport.Model

	prompt       textinput.Model
	prompting    bool
	promptAction string

	dragging   bool
	dragAnchor int
}

// New creates the editor screen holding md.
func New(md string, opts Options) (*Model, error) {
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	keys := keymap.Load(opts.Config)
	if opts.Keys != nil {
		keys = *opts.Keys
	}

	m := &Model{
		mem:       editor.NewMemory(),
		sched:     newTeaScheduler(),
		cfg:       richtext.FromConfig(opts.Config),
		keys:      keys,
		help:      help.New(keys),
		theme:     theme.DefaultTheme,
		opts:      opts,
		log:       log,
		previewVP: viewport.New(0, 0),
		prompt:    textinput.New(),
	}
	m.rt = richtext.New(m.mem, m.sched, m.cfg, richtext.WithLogger(log))
	if md != "" {
		if err := m.rt.Handle().LoadMarkdown(md); err != nil {
			m.rt.Close()
			return nil, err
		}
	}
	m.mem.OnChange(func(ch editor.Change) {
		if ch.Doc {
			m.dirty = true
		}
	})

	if opts.Config != nil {
		if vp := opts.Config.Editor.Viewport; vp.Width > 0 && vp.Height > 0 {
			m.fixedSize = true
			m.resize(vp.Width, vp.Height+2)
		}
	}
	return m, nil
}

// Editor returns the interaction layer, mainly for tests and embedding.
func (m *Model) Editor() *richtext.Editor {
	return m.rt
}

// Markdown returns the current document as markdown.
func (m *Model) Markdown() string {
	return m.rt.Handle().GetMarkdown()
}

// Caret returns the caret position, the head of the selection.
func (m *Model) Caret() int {
	return m.mem.Selection().Head
}

// SetCaret collapses the selection to pos, clamped to the document.
func (m *Model) SetCaret(pos int) {
	m.mem.SetSelection(editor.Caret(min(max(pos, 0), m.mem.Size())))
}

// Dirty reports whether the document changed since it was loaded or saved.
func (m *Model) Dirty() bool {
	return m.dirty
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if !m.fixedSize {
			m.resize(msg.Width, msg.Height)
		}
	case timerMsg:
		m.sched.fire(msg.id)
	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	case tea.MouseMsg:
		cmd = m.handleMouse(msg)
	case ReloadMsg:
		m.reload(msg)
	case savedMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else {
			m.dirty = false
			m.setStatus("Saved")
		}
	case errMsg:
		m.setError(msg.err)
	}
	return m, tea.Batch(cmd, m.sched.drain())
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	docHeight := max(1, height-2)
	m.mem.SetViewport(editor.Size{W: width, H: docHeight})
	m.help.SetSize(width, height)
	m.previewVP.Width = width
	m.previewVP.Height = docHeight
	m.prompt.Width = max(10, width-20)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.help.ShowAll {
		var cmd tea.Cmd
		m.help, cmd = m.help.Update(msg)
		return cmd
	}
	if m.prompting {
		return m.updatePrompt(msg)
	}
	m.status = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.rt.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.Toggle()
		return nil
	case key.Matches(msg, m.keys.Preview):
		m.togglePreview()
		return nil
	case key.Matches(msg, m.keys.Save):
		return m.save()
	case key.Matches(msg, m.keys.Reload):
		return m.reloadSource()
	}

	if m.preview {
		if msg.Type == tea.KeyEsc {
			m.togglePreview()
			return nil
		}
		var cmd tea.Cmd
		m.previewVP, cmd = m.previewVP.Update(msg)
		return cmd
	}

	if key.Matches(msg, m.keys.SelectAll) {
		m.mem.SetSelection(editor.Selection{Anchor: 0, Head: m.mem.Size()})
		return nil
	}
	if id, ok := m.keys.FormatAction(msg); ok {
		return m.runAction(id)
	}
	if m.rt.Menu().State().Open {
		if ev, ok := m.menuKey(msg); ok {
			m.mem.PressKey(ev)
			return nil
		}
	}
	if msg.Paste {
		m.mem.Type(string(msg.Runes))
		return nil
	}
	for _, ev := range translateKey(msg) {
		m.mem.PressKey(ev)
	}
	return nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if m.preview || m.help.ShowAll || m.prompting {
		return nil
	}
	x, y := msg.X, msg.Y-docTop
	ev := editor.PointerEvent{Source: editor.SourceMouse, Button: pointerButton(msg.Button), X: x, Y: y}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		if id, ok := m.toolbarHit(x, y); ok {
			return m.runAction(id)
		}
		if i, ok := m.menuHit(x, y); ok {
			menu := m.rt.Menu()
			menu.Select(i)
			if c, ok := menu.Selected(); ok {
				if err := menu.Execute(c); err != nil {
					m.setError(err)
				}
			}
			return nil
		}
		ev.Type = editor.PointerDown
		m.rt.HandlePointer(ev)
		m.mem.Focus()
		m.dragging = true
		m.dragAnchor = m.mem.PosAt(x, y)
		m.mem.SetSelection(editor.Caret(m.dragAnchor))
	case tea.MouseActionMotion:
		if !m.dragging {
			return nil
		}
		ev.Type = editor.PointerMove
		m.rt.HandlePointer(ev)
		m.mem.SetSelection(editor.Selection{Anchor: m.dragAnchor, Head: m.mem.PosAt(x, y)})
	case tea.MouseActionRelease:
		if !m.dragging {
			return nil
		}
		m.dragging = false
		ev.Type = editor.PointerUp
		ev.Button = editor.ButtonPrimary
		m.rt.HandlePointer(ev)
	}
	return nil
}

// runAction applies a toolbar action to the selection. Actions that take a
// value and are not yet active ask for it first.
func (m *Model) runAction(id string) tea.Cmd {
	a, ok := toolbar.Lookup(id)
	if !ok {
		return nil
	}
	if a.NeedsValue && !command.IsActive(m.mem, a.Op) {
		m.prompting = true
		m.promptAction = id
		m.prompt.Prompt = a.Label + ": "
		m.prompt.Placeholder = placeholderFor(id)
		m.prompt.SetValue("")
		return m.prompt.Focus()
	}
	if err := m.rt.Toolbar().Run(id, ""); err != nil {
		m.setError(err)
	}
	return nil
}

func placeholderFor(id string) string {
	switch id {
	case "link":
		return "https://"
	case "color", "highlight":
		return "#rrggbb"
	}
	return ""
}

func (m *Model) updatePrompt(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		value := strings.TrimSpace(m.prompt.Value())
		m.closePrompt()
		if value == "" {
			return nil
		}
		if err := m.rt.Toolbar().Run(m.promptAction, value); err != nil {
			m.setError(err)
		}
		return nil
	case tea.KeyEsc:
		m.closePrompt()
		return nil
	}
	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return cmd
}

func (m *Model) closePrompt() {
	m.prompting = false
	m.prompt.Blur()
}

func (m *Model) togglePreview() {
	m.preview = !m.preview
	if m.preview {
		m.previewVP.SetContent(m.Markdown())
		m.previewVP.GotoTop()
	}
}

func (m *Model) save() tea.Cmd {
	if m.opts.Save == nil {
		m.setStatus("Saving is not available for this buffer")
		return nil
	}
	md, save := m.Markdown(), m.opts.Save
	return func() tea.Msg {
		return savedMsg{err: save(md)}
	}
}

func (m *Model) reloadSource() tea.Cmd {
	if m.opts.Reload == nil {
		return nil
	}
	reload := m.opts.Reload
	return func() tea.Msg {
		md, err := reload()
		if err != nil {
			return errMsg{err: err}
		}
		return ReloadMsg{Markdown: md}
	}
}

func (m *Model) reload(msg ReloadMsg) {
	if msg.FromDisk && m.dirty {
		m.setStatus("File changed on disk; " + m.keys.Reload.Help().Key + " reloads it")
		return
	}
	if err := m.rt.Handle().LoadMarkdown(msg.Markdown); err != nil {
		m.setError(err)
		return
	}
	m.dirty = false
	if msg.FromDisk {
		m.setStatus("Reloaded from disk")
	}
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(err error) {
	m.log.WithError(err).Warn("Editor action failed")
	m.status, m.statusErr = err.Error(), true
}

func (m *Model) View() string {
	if m.help.ShowAll {
		return m.help.View()
	}
	docHeight := max(1, m.height-2)

	var body string
	if m.preview {
		body = m.previewVP.View()
	} else {
		lines := m.renderDocument(docHeight)
		if st := m.rt.Toolbar().State(); st.Visible {
			lines = overlay(lines, m.renderToolbar(), st.Position.X, st.Position.Y)
		}
		if st := m.rt.Menu().State(); st.Open {
			lines = overlay(lines, m.renderMenu(), st.Anchor.X, st.Anchor.Y)
		}
		body = strings.Join(lines, "\n")
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}
