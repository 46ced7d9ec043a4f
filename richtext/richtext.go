// Package richtext assembles the interaction layer on top of one host
// editor: the selection observer, slash menu, floating toolbar and popup
// coordinator sharing one event bus.
package richtext

import (
	"github.com/grovetools/richedit/bus"
	"github.com/grovetools/richedit/editor"
	"github.com/grovetools/richedit/errors"
	"github.com/grovetools/richedit/markdown"
	"github.com/grovetools/richedit/observer"
	"github.com/grovetools/richedit/popup"
	"github.com/grovetools/richedit/schedule"
	"github.com/grovetools/richedit/slashmenu"
	"github.com/grovetools/richedit/toolbar"
	"github.com/sirupsen/logrus"
)

// Config gathers the tuning of each component.
type Config struct {
	Observer observer.Config
	Menu     slashmenu.Config
	Toolbar  toolbar.Config
}

// DefaultConfig returns the defaults of every component.
func DefaultConfig() Config {
	return Config{
		Observer: observer.DefaultConfig(),
		Menu:     slashmenu.DefaultConfig(),
		Toolbar:  toolbar.DefaultConfig(),
	}
}

type options struct {
	log      *logrus.Entry
	commands []slashmenu.Command
}

// Option customizes New.
type Option func(*options)

// WithLogger sets the logger the components derive theirs from.
func WithLogger(log *logrus.Entry) Option {
	return func(o *options) { o.log = log }
}

// WithCommands replaces the slash menu catalog.
func WithCommands(cmds []slashmenu.Command) Option {
	return func(o *options) { o.commands = cmds }
}

// Editor is the interaction layer mounted on one host editor.
type Editor struct {
	ed      editor.Editor
	bus     *bus.Bus
	popups  *popup.Coordinator
	obs     *observer.Observer
	menu    *slashmenu.Menu
	toolbar *toolbar.Toolbar
	log     *logrus.Entry
	closed  bool
}

// New mounts the interaction layer on ed. Deferred work is scheduled on
// sched, whose callbacks must run on the same loop that drives ed.
func New(ed editor.Editor, sched schedule.Scheduler, cfg Config, opts ...Option) *Editor {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}

	b := bus.New(log.WithField("part", "bus"))
	popups := popup.NewCoordinator(log.WithField("part", "popup"))
	e := &Editor{
		ed:      ed,
		bus:     b,
		popups:  popups,
		obs:     observer.New(ed, b, sched, cfg.Observer, log.WithField("part", "observer")),
		menu:    slashmenu.New(ed, b, popups, o.commands, cfg.Menu, log.WithField("part", "slashmenu")),
		toolbar: toolbar.New(ed, b, popups, cfg.Toolbar, log.WithField("part", "toolbar")),
		log:     log,
	}
	// Popups subscribe first so they have updated by the time any later
	// subscriber, such as a renderer, sees the same signal.
	e.menu.Mount()
	e.toolbar.Mount()
	e.obs.Mount()
	return e
}

// Close unmounts every component. Pending deferred callbacks become no-ops.
func (e *Editor) Close() {
	if e.closed {
		return
	}
	e.closed = true
	e.obs.Close()
	e.menu.Unmount()
	e.toolbar.Unmount()
}

func (e *Editor) Bus() *bus.Bus                { return e.bus }
func (e *Editor) Menu() *slashmenu.Menu        { return e.menu }
func (e *Editor) Toolbar() *toolbar.Toolbar    { return e.toolbar }
func (e *Editor) Observer() *observer.Observer { return e.obs }
func (e *Editor) Popups() *popup.Coordinator   { return e.popups }
func (e *Editor) Host() editor.Editor          { return e.ed }

// HandlePointer forwards pointer activity on the editing surface.
func (e *Editor) HandlePointer(ev editor.PointerEvent) {
	if e.closed {
		return
	}
	e.obs.HandlePointer(ev)
}

// Handle returns the page-facing handle.
func (e *Editor) Handle() Handle {
	return handle{e: e}
}

// Handle lets a hosting page push markdown into the editor and pull it out.
type Handle interface {
	Editor() editor.Editor
	GetMarkdown() string
	LoadMarkdown(md string) error
}

type handle struct {
	e *Editor
}

func (h handle) Editor() editor.Editor {
	return h.e.ed
}

// GetMarkdown serializes the document, falling back to plain text when it
// cannot be expressed as markdown.
func (h handle) GetMarkdown() string {
	doc, ok := h.document()
	if !ok {
		return ""
	}
	blocks := doc.Blocks()
	md, err := markdown.Serialize(blocks)
	if err != nil {
		h.e.log.WithError(err).Warn("Markdown serialization failed, using plain text")
		return markdown.PlainText(blocks)
	}
	return md
}

// LoadMarkdown replaces the document with md. Content is left untouched when
// md cannot be parsed.
func (h handle) LoadMarkdown(md string) error {
	doc, ok := h.document()
	if !ok {
		return errors.EditorUnavailable("loadMarkdown")
	}
	blocks, err := markdown.Parse([]byte(md))
	if err != nil {
		h.e.log.WithError(err).Warn("Markdown not loaded")
		return err
	}
	doc.SetContent(blocks)
	return nil
}

func (h handle) document() (editor.Document, bool) {
	if !editor.Available(h.e.ed) {
		return nil, false
	}
	doc, ok := h.e.ed.(editor.Document)
	return doc, ok
}
