// Package toolbar implements the floating formatting toolbar shown next to a
// settled text selection.
package toolbar

import (
	"github.com/grovetools/richedit/bus"
	"github.com/grovetools/richedit/command"
	"github.com/grovetools/richedit/editor"
	"github.com/grovetools/richedit/errors"
	"github.com/grovetools/richedit/observer"
	"github.com/grovetools/richedit/popup"
	"github.com/sirupsen/logrus"
)

// Config controls toolbar geometry.
type Config struct {
	// Offset is the gap in rows between the selection and the toolbar.
	Offset int
	// Size is the toolbar's footprint, used for collision-aware placement.
	Size editor.Size
}

// DefaultConfig returns the geometry used when none is configured.
func DefaultConfig() Config {
	return Config{Offset: 0, Size: editor.Size{W: 48, H: 3}}
}

// State is the toolbar's transient UI state. The anchor it was placed
// against is never kept.
type State struct {
	Visible   bool
	Position  editor.Point
	Placement popup.Placement
}

// ShouldShow reports whether the toolbar belongs on screen for sel.
func ShouldShow(sel observer.SelectionContext, ed editor.Reader) bool {
	if !editor.Available(ed) || !sel.Ready {
		return false
	}
	return sel.Settled && !sel.Empty && ed.IsEditable() && ed.IsFocused() && sel.BlockKind != editor.CodeBlock
}

// Toolbar is the floating toolbar mounted on one editor.
type Toolbar struct {
	ed     editor.Editor
	bus    *bus.Bus
	popups *popup.Coordinator
	cfg    Config
	log    *logrus.Entry

	state State
	subs  bus.Group
}

// New creates a hidden toolbar.
func New(ed editor.Editor, b *bus.Bus, popups *popup.Coordinator, cfg Config, log *logrus.Entry) *Toolbar {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Toolbar{ed: ed, bus: b, popups: popups, cfg: cfg, log: log}
}

// Mount subscribes the toolbar to selection updates.
func (t *Toolbar) Mount() {
	t.subs.Add(bus.On(t.bus, func(u bus.ToolbarUpdate) { t.Update(u.Selection) }))
	t.popups.Register(popup.Toolbar, t.Hide)
}

// Unmount releases the toolbar's subscriptions and hides it.
func (t *Toolbar) Unmount() {
	t.subs.Release()
	t.popups.Unregister(popup.Toolbar)
	t.state.Visible = false
}

// State returns a copy of the toolbar state.
func (t *Toolbar) State() State {
	return t.state
}

// Update re-evaluates visibility for a selection snapshot. A missing or
// unsettled snapshot hides the toolbar immediately.
func (t *Toolbar) Update(snap *bus.SelectionSnapshot) {
	if snap == nil || !snap.Settled {
		t.Hide()
		return
	}
	sel := observer.DeriveSelection(t.ed, true)
	if !ShouldShow(sel, t.ed) {
		t.Hide()
		return
	}
	t.reposition(sel)
	if !t.state.Visible {
		t.state.Visible = true
		t.popups.Acquire(popup.Toolbar)
		t.log.WithField("anchor", sel.Anchor).WithField("head", sel.Head).Debug("Toolbar shown")
	}
}

// Hide hides the toolbar.
func (t *Toolbar) Hide() {
	if !t.state.Visible {
		return
	}
	t.state.Visible = false
	t.popups.Release(popup.Toolbar)
	t.log.Debug("Toolbar hidden")
}

// reposition places the toolbar against the element at the selection start.
// If no anchor can be resolved the toolbar keeps its last position.
func (t *Toolbar) reposition(sel observer.SelectionContext) {
	from := min(sel.Anchor, sel.Head)
	anchor, err := ResolveAnchor(t.ed, from)
	if err != nil {
		t.log.WithError(err).Debug("Toolbar anchor unresolved, keeping position")
		return
	}
	t.state.Position, t.state.Placement = popup.Place(anchor, t.cfg.Size, t.ed.Viewport(), t.cfg.Offset)
}

// ResolveAnchor finds the layout box to place the toolbar against: the
// element holding pos, or failing that the element under pos's screen
// coordinates.
func ResolveAnchor(ed editor.Reader, pos int) (editor.Rect, error) {
	if r, err := ed.AnchorAt(pos); err == nil {
		return r, nil
	}
	coords, err := ed.CoordsAtPos(pos)
	if err != nil {
		return editor.Rect{}, errors.AnchorUnresolved(pos)
	}
	if el, ok := ed.ElementAt(coords.X, coords.Y); ok {
		return el, nil
	}
	return editor.Rect{}, errors.AnchorUnresolved(pos)
}

// Buttons returns the actions with their active state at the selection.
func (t *Toolbar) Buttons() []Button {
	out := make([]Button, 0, len(actions))
	for _, a := range actions {
		out = append(out, Button{Action: a, Active: command.IsActive(t.ed, a.Op)})
	}
	return out
}

// Run applies the action with the given ID. value is used by actions that
// take one; applying such an action without a value while it is active
// removes it.
func (t *Toolbar) Run(id, value string) error {
	a, ok := Lookup(id)
	if !ok {
		return errors.New(errors.ErrCodeInvalidInput, "unknown toolbar action: "+id).WithDetail("action", id)
	}
	if a.NeedsValue && value == "" && !command.IsActive(t.ed, a.Op) {
		return errors.New(errors.ErrCodeInvalidInput, a.Label+" needs a value").WithDetail("action", id)
	}
	if err := command.Run(t.ed, a.With(value)); err != nil {
		t.log.WithError(err).WithField("action", id).Error("Toolbar action failed")
		return err
	}
	return nil
}
