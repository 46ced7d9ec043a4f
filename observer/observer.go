package observer

import (
	"time"

	"github.com/grovetools/richedit/bus"
	"github.com/grovetools/richedit/editor"
	"github.com/grovetools/richedit/schedule"
	"github.com/sirupsen/logrus"
)

// Priority is the interception priority the observer registers at. Popups
// that consume keys register above it.
const Priority = 0

// Config holds the observer's tuning delays.
type Config struct {
	// SettleDelay is how long a selection must stay still after a pointer
	// release or keyboard extension before it counts as settled.
	SettleDelay time.Duration
	// KeyDeferral delays the recompute after a key press so the host has
	// applied the key first. Zero means the next tick.
	KeyDeferral time.Duration
}

// DefaultConfig returns the delays used when none are configured.
func DefaultConfig() Config {
	return Config{SettleDelay: 50 * time.Millisecond}
}

// Observer watches one editor and publishes OpenMenu, CloseMenu, SearchQuery
// and ToolbarUpdate signals. It must be driven from a single loop.
type Observer struct {
	ed    editor.Editor
	bus   *bus.Bus
	sched schedule.Scheduler
	cfg   Config
	log   *logrus.Entry

	pointerDown bool
	settled     bool
	tokenActive bool
	lastSel     editor.Selection

	settleCancel schedule.Cancel
	keyCancel    schedule.Cancel
	removers     []func()
	closed       bool
}

// New creates an observer. Mount must be called to start observing.
func New(ed editor.Editor, b *bus.Bus, sched schedule.Scheduler, cfg Config, log *logrus.Entry) *Observer {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Observer{
		ed:      ed,
		bus:     b,
		sched:   sched,
		cfg:     cfg,
		log:     log,
		settled: true,
	}
}

// Mount hooks the observer into the editor's change and input pipelines.
func (o *Observer) Mount() {
	if o.ed == nil || !o.ed.Ready() {
		o.log.Debug("Editor not ready, observer idle")
		return
	}
	o.lastSel = o.ed.Selection()
	o.removers = append(o.removers,
		o.ed.OnChange(o.HandleChange),
		o.ed.InterceptKeys(Priority, func(ev editor.KeyEvent) bool {
			o.HandleKeyDown(ev)
			return false
		}),
		o.ed.InterceptText(Priority, func(from, to int, text string) bool {
			o.HandleTextInput(from, to, text)
			return false
		}),
	)
}

// Close cancels pending callbacks and detaches from the editor. Callbacks
// that were already queued become no-ops.
func (o *Observer) Close() {
	if o.closed {
		return
	}
	o.closed = true
	o.cancelSettle()
	if o.keyCancel != nil {
		o.keyCancel()
		o.keyCancel = nil
	}
	for _, remove := range o.removers {
		remove()
	}
	o.removers = nil
}

// Caret returns the current caret context.
func (o *Observer) Caret() CaretContext {
	return DeriveCaret(o.ed)
}

// Selection returns the current selection context.
func (o *Observer) Selection() SelectionContext {
	return DeriveSelection(o.ed, o.settled && !o.pointerDown)
}

// HandleKeyDown runs before the host applies a key.
func (o *Observer) HandleKeyDown(ev editor.KeyEvent) {
	if o.closed {
		return
	}
	if ev.Key == editor.KeyBackspace {
		c := DeriveCaret(o.ed)
		if c.Ready && c.Line == "/" && c.BlockKind != editor.CodeBlock && o.ed.Selection().Empty() {
			o.log.Debug("Slash removed, closing menu")
			o.tokenActive = false
			o.bus.Publish(bus.CloseMenu{})
		}
	}
	if o.keyCancel != nil {
		o.keyCancel()
	}
	o.keyCancel = o.sched.After(o.cfg.KeyDeferral, func() {
		if o.closed {
			return
		}
		o.keyCancel = nil
		o.recompute()
	})
}

// HandleTextInput runs before the host inserts text over [from, to).
func (o *Observer) HandleTextInput(from, to int, text string) {
	if o.closed {
		return
	}
	c := DeriveCaret(o.ed)
	if !c.Ready || c.BlockKind == editor.CodeBlock || !c.BlockKind.IsText() || from != to || from != c.CaretPos {
		return
	}
	tok := detectLine(c.Line+text, c.CaretOffset == len([]rune(c.BlockText)))
	if tok.Active {
		o.log.WithField("query", tok.Query).Debug("Slash token typed")
		o.tokenActive = true
		o.bus.Publish(bus.OpenMenu{Query: tok.Query})
	}
}

// HandlePointer tracks pointer and touch activity on the editing surface.
func (o *Observer) HandlePointer(ev editor.PointerEvent) {
	if o.closed {
		return
	}
	primary := ev.Source == editor.SourceTouch || ev.Button == editor.ButtonPrimary
	switch ev.Type {
	case editor.PointerDown:
		if !primary {
			return
		}
		o.pointerDown = true
		o.unsettle()
	case editor.PointerMove:
		if !o.pointerDown {
			return
		}
		o.unsettle()
	case editor.PointerUp:
		if !o.pointerDown {
			return
		}
		o.pointerDown = false
		o.scheduleSettle()
	}
}

// HandleChange re-derives state after the host document or selection changed.
func (o *Observer) HandleChange(ch editor.Change) {
	if o.closed {
		return
	}
	if ch.Selection {
		sel := o.ed.Selection()
		if sel != o.lastSel {
			o.lastSel = sel
			switch {
			case sel.Empty():
				o.cancelSettle()
				o.settled = true
			case !o.pointerDown:
				// Keyboard extension settles after the same quiet period.
				o.settled = false
				o.scheduleSettle()
			}
		}
	}
	o.recompute()
}

// recompute publishes the slash state and a toolbar update derived from the
// current document.
func (o *Observer) recompute() {
	tok := DetectSlash(DeriveCaret(o.ed))
	switch {
	case tok.Active:
		o.tokenActive = true
		o.bus.Publish(bus.SearchQuery{Query: tok.Query})
	case o.tokenActive:
		o.tokenActive = false
		o.bus.Publish(bus.CloseMenu{})
	}
	o.publishToolbar()
}

func (o *Observer) publishToolbar() {
	o.bus.Publish(bus.ToolbarUpdate{Selection: o.Selection().Snapshot()})
}

// unsettle marks the selection as moving and hides the toolbar right away.
func (o *Observer) unsettle() {
	o.cancelSettle()
	o.settled = false
	o.publishToolbar()
}

func (o *Observer) scheduleSettle() {
	o.cancelSettle()
	o.settleCancel = o.sched.After(o.cfg.SettleDelay, func() {
		if o.closed {
			return
		}
		o.settleCancel = nil
		o.settled = true
		o.log.Debug("Selection settled")
		o.publishToolbar()
	})
}

func (o *Observer) cancelSettle() {
	if o.settleCancel != nil {
		o.settleCancel()
		o.settleCancel = nil
	}
}
