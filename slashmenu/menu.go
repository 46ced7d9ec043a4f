package slashmenu

import (
	"github.com/grovetools/richedit/bus"
	"github.com/grovetools/richedit/command"
	"github.com/grovetools/richedit/editor"
	"github.com/grovetools/richedit/errors"
	"github.com/grovetools/richedit/observer"
	"github.com/grovetools/richedit/popup"
	"github.com/sirupsen/logrus"
)

// KeyPriority is the interception priority of the menu's key handler. It
// runs ahead of the observer so consumed keys never reach it.
const KeyPriority = observer.Priority + 100

// State is the menu's transient UI state. Anchor is the top-left corner of
// the menu box.
type State struct {
	Open      bool
	Query     string
	Selected  int // -1 when nothing is selected
	Anchor    editor.Point
	Placement popup.Placement
}

// Config controls menu geometry.
type Config struct {
	// Offset is the number of rows between the caret and the menu.
	Offset int
	// Width is the width of the menu box in cells.
	Width int
	// MaxRows caps the rows drawn inside the frame. Zero means no cap.
	MaxRows int
}

// DefaultConfig returns the geometry used when none is configured.
func DefaultConfig() Config {
	return Config{Offset: 0, Width: 44, MaxRows: 12}
}

// Menu is the slash command palette mounted on one editor.
type Menu struct {
	ed       editor.Editor
	bus      *bus.Bus
	popups   *popup.Coordinator
	cfg      Config
	log      *logrus.Entry
	commands []Command

	state    State
	filtered []Command
	subs     bus.Group
	unhook   func()
}

// New creates a closed menu over commands. A nil commands slice uses the
// built-in catalog.
func New(ed editor.Editor, b *bus.Bus, popups *popup.Coordinator, commands []Command, cfg Config, log *logrus.Entry) *Menu {
	if commands == nil {
		commands = Catalog()
	}
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Menu{
		ed:       ed,
		bus:      b,
		popups:   popups,
		cfg:      cfg,
		log:      log,
		commands: commands,
		state:    State{Selected: -1},
	}
}

// Mount subscribes to the bus and intercepts keys on the editor.
func (m *Menu) Mount() {
	m.subs.Add(bus.On(m.bus, func(s bus.OpenMenu) { m.open(s.Query) }))
	m.subs.Add(bus.On(m.bus, func(s bus.SearchQuery) { m.search(s.Query) }))
	m.subs.Add(bus.On(m.bus, func(bus.CloseMenu) { m.Close() }))
	m.popups.Register(popup.SlashMenu, m.Close)
	if editor.Available(m.ed) {
		m.unhook = m.ed.InterceptKeys(KeyPriority, m.HandleKey)
	}
}

// Unmount releases every subscription and hook the menu holds.
func (m *Menu) Unmount() {
	m.subs.Release()
	if m.unhook != nil {
		m.unhook()
		m.unhook = nil
	}
	m.popups.Unregister(popup.SlashMenu)
	m.reset()
}

// State returns a copy of the menu state.
func (m *Menu) State() State {
	return m.state
}

// Filtered returns the commands matching the current query.
func (m *Menu) Filtered() []Command {
	return append([]Command(nil), m.filtered...)
}

// Groups returns the filtered commands grouped for rendering.
func (m *Menu) Groups() []Group {
	return GroupCommands(m.filtered)
}

// Empty reports whether the menu is open with no matching commands.
func (m *Menu) Empty() bool {
	return m.state.Open && len(m.filtered) == 0
}

// Selected returns the highlighted command.
func (m *Menu) Selected() (Command, bool) {
	if m.state.Selected < 0 || m.state.Selected >= len(m.filtered) {
		return Command{}, false
	}
	return m.filtered[m.state.Selected], true
}

func (m *Menu) open(query string) {
	if !m.state.Open {
		m.state.Open = true
		m.setQuery(query)
		m.popups.Acquire(popup.SlashMenu)
		m.log.WithField("query", query).Debug("Slash menu opened")
	} else if query != m.state.Query {
		m.setQuery(query)
	}
	m.reanchor()
}

// search handles a query update. A query implies the token exists, so a
// closed menu opens.
func (m *Menu) search(query string) {
	m.open(query)
}

func (m *Menu) setQuery(query string) {
	m.state.Query = query
	m.filtered = Filter(m.commands, query)
	if len(m.filtered) > 0 {
		m.state.Selected = 0
	} else {
		m.state.Selected = -1
	}
}

// Size is the footprint of the menu box: a title row per group, a row per
// command, or one row for the empty notice, inside a one-cell border.
func (m *Menu) Size() editor.Size {
	rows := 1
	if len(m.filtered) > 0 {
		rows = 0
		for _, g := range m.Groups() {
			rows += 1 + len(g.Items)
		}
	}
	if m.cfg.MaxRows > 0 {
		rows = min(rows, m.cfg.MaxRows)
	}
	return editor.Size{W: m.cfg.Width, H: rows + 2}
}

// reanchor places the menu below the caret, flipping above it when the box
// would run past the bottom of the viewport.
func (m *Menu) reanchor() {
	if !editor.Available(m.ed) {
		return
	}
	r, err := m.ed.CoordsAtPos(m.ed.Selection().Head)
	if err != nil {
		return
	}
	m.state.Anchor, m.state.Placement = popup.Place(r, m.Size(), m.ed.Viewport(), m.cfg.Offset)
}

// Close resets the menu to closed.
func (m *Menu) Close() {
	if !m.state.Open {
		return
	}
	m.reset()
	m.popups.Release(popup.SlashMenu)
	m.log.Debug("Slash menu closed")
}

func (m *Menu) reset() {
	m.state = State{Selected: -1}
	m.filtered = nil
}

// MoveDown advances the selection, wrapping to the top.
func (m *Menu) MoveDown() {
	n := len(m.filtered)
	switch {
	case n == 0:
		m.state.Selected = -1
	case m.state.Selected < 0 || m.state.Selected >= n-1:
		m.state.Selected = 0
	default:
		m.state.Selected++
	}
}

// MoveUp moves the selection back, wrapping to the bottom.
func (m *Menu) MoveUp() {
	n := len(m.filtered)
	switch {
	case n == 0:
		m.state.Selected = -1
	case m.state.Selected <= 0:
		m.state.Selected = n - 1
	default:
		m.state.Selected--
	}
}

// Select highlights the command at index i of the filtered list.
func (m *Menu) Select(i int) {
	if i >= 0 && i < len(m.filtered) {
		m.state.Selected = i
	}
}

// HandleKey handles navigation keys while the menu is open and the caret is
// on a slash token. It returns true when the key was consumed.
func (m *Menu) HandleKey(ev editor.KeyEvent) bool {
	if !m.state.Open || !observer.DetectSlash(observer.DeriveCaret(m.ed)).Active {
		return false
	}
	switch ev.Key {
	case editor.KeyArrowDown:
		m.MoveDown()
	case editor.KeyArrowUp:
		m.MoveUp()
	case editor.KeyEnter:
		if len(m.filtered) > 0 {
			i := max(m.state.Selected, 0)
			_ = m.Execute(m.filtered[i])
		}
	case editor.KeyEscape:
		m.dismiss()
	default:
		return false
	}
	return true
}

// dismiss closes the menu and removes the typed token from the document.
func (m *Menu) dismiss() {
	from, to := m.tokenRange()
	m.Close()
	if err := m.ed.DeleteRange(from, to); err != nil {
		m.log.WithError(err).Error("Failed to remove slash token")
	}
}

// tokenRange returns the document range of the "/" token ending at the caret.
func (m *Menu) tokenRange() (int, int) {
	caret := m.ed.Selection().Head
	n := len([]rune(m.state.Query)) + 1
	return max(caret-n, 0), caret
}

// Execute removes the slash token, then applies cmd. The menu is closed
// afterwards whether or not the command succeeded.
func (m *Menu) Execute(cmd Command) error {
	defer m.Close()
	if !editor.Available(m.ed) {
		return errors.EditorUnavailable(cmd.Op.String())
	}
	from, to := m.tokenRange()
	if err := m.ed.DeleteRange(from, to); err != nil {
		err = errors.CommandFailed("deleteRange", err)
		m.log.WithError(err).Error("Failed to remove slash token")
		return err
	}
	if err := command.Run(m.ed, cmd.Op); err != nil {
		m.log.WithError(err).WithField("command", cmd.Title).Error("Slash command failed")
		return err
	}
	m.log.WithField("command", cmd.Title).Debug("Slash command executed")
	return nil
}
