// Package popup keeps the editor's floating popups mutually exclusive.
package popup

import "github.com/sirupsen/logrus"

// Kind identifies a popup.
type Kind int

const (
	None Kind = iota
	SlashMenu
	Toolbar
)

func (k Kind) String() string {
	switch k {
	case SlashMenu:
		return "slash-menu"
	case Toolbar:
		return "toolbar"
	default:
		return "none"
	}
}

// Coordinator owns which popup, if any, is showing. Acquiring one popup
// closes whichever other popup held the slot. A nil Coordinator accepts
// every call and coordinates nothing.
type Coordinator struct {
	active  Kind
	closers map[Kind]func()
	log     *logrus.Entry
}

// NewCoordinator creates a coordinator with no popup active.
func NewCoordinator(log *logrus.Entry) *Coordinator {
	return &Coordinator{closers: make(map[Kind]func()), log: log}
}

// Register sets the function that closes kind when another popup takes over.
func (c *Coordinator) Register(kind Kind, close func()) {
	if c == nil {
		return
	}
	c.closers[kind] = close
}

// Unregister forgets kind, releasing the slot if kind held it.
func (c *Coordinator) Unregister(kind Kind) {
	if c == nil {
		return
	}
	delete(c.closers, kind)
	c.Release(kind)
}

// Acquire makes kind the active popup, closing the previous one.
func (c *Coordinator) Acquire(kind Kind) {
	if c == nil || kind == None || c.active == kind {
		return
	}
	prev := c.active
	c.active = kind
	if prev != None {
		if c.log != nil {
			c.log.WithField("from", prev.String()).WithField("to", kind.String()).Debug("Popup preempted")
		}
		if closeFn, ok := c.closers[prev]; ok {
			closeFn()
		}
	}
}

// Release clears the slot if kind holds it.
func (c *Coordinator) Release(kind Kind) {
	if c == nil {
		return
	}
	if c.active == kind {
		c.active = None
	}
}

// Active returns the popup currently showing.
func (c *Coordinator) Active() Kind {
	if c == nil {
		return None
	}
	return c.active
}
