// Package bus is a synchronous publish/subscribe channel carrying the
// interaction layer's semantic signals between the selection observer and
// the popups.
package bus

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// Signal is one of OpenMenu, CloseMenu, SearchQuery or ToolbarUpdate.
type Signal interface {
	signal()
	Kind() string
}

// OpenMenu asks the slash menu to open with the current token's query.
type OpenMenu struct {
	Query string
}

// CloseMenu asks the slash menu to close.
type CloseMenu struct{}

// SearchQuery carries the token text typed after the slash.
type SearchQuery struct {
	Query string
}

// SelectionSnapshot is the selection state a toolbar update was derived from.
type SelectionSnapshot struct {
	Anchor  int
	Head    int
	Empty   bool
	Settled bool
}

// ToolbarUpdate asks the toolbar to re-evaluate. A nil Selection, or one
// that is not settled, hides it.
type ToolbarUpdate struct {
	Selection *SelectionSnapshot
}

func (OpenMenu) signal()      {}
func (CloseMenu) signal()     {}
func (SearchQuery) signal()   {}
func (ToolbarUpdate) signal() {}

func (OpenMenu) Kind() string      { return "open-menu" }
func (CloseMenu) Kind() string     { return "close-menu" }
func (SearchQuery) Kind() string   { return "search-query" }
func (ToolbarUpdate) Kind() string { return "toolbar-update" }

// Handler receives published signals.
type Handler func(Signal)

type entry struct {
	id int
	fn Handler
}

// Bus delivers each published signal to the handlers subscribed at publish
// time, in subscription order. It is safe for concurrent use; handlers run
// outside the registry lock so they may subscribe or publish themselves.
type Bus struct {
	mu       sync.Mutex
	nextID   int
	handlers []entry
	log      *logrus.Entry
}

// New creates an empty bus. A nil logger disables debug tracing.
func New(log *logrus.Entry) *Bus {
	return &Bus{log: log}
}

// Subscribe registers fn for every signal kind.
func (b *Bus) Subscribe(fn Handler) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	id := b.nextID
	b.handlers = append(b.handlers, entry{id: id, fn: fn})
	return &Subscription{bus: b, id: id}
}

// On registers fn for signals of type T only.
func On[T Signal](b *Bus, fn func(T)) *Subscription {
	return b.Subscribe(func(s Signal) {
		if v, ok := s.(T); ok {
			fn(v)
		}
	})
}

// Publish delivers s synchronously to the current subscribers.
func (b *Bus) Publish(s Signal) {
	b.mu.Lock()
	handlers := make([]entry, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.Unlock()

	if b.log != nil {
		b.log.WithField("signal", s.Kind()).WithField("subscribers", len(handlers)).Debug("Publishing signal")
	}
	for _, h := range handlers {
		if !b.subscribed(h.id) {
			continue
		}
		h.fn(s)
	}
}

// Len returns the number of live subscriptions.
func (b *Bus) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}

func (b *Bus) subscribed(id int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, h := range b.handlers {
		if h.id == id {
			return true
		}
	}
	return false
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, h := range b.handlers {
		if h.id == id {
			b.handlers = append(b.handlers[:i:i], b.handlers[i+1:]...)
			return
		}
	}
}

// Subscription is a live registration on a Bus.
type Subscription struct {
	bus  *Bus
	id   int
	once sync.Once
}

// Unsubscribe removes the handler. Calling it more than once is a no-op.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(func() { s.bus.remove(s.id) })
}

// Group collects the subscriptions owned by one component so they can be
// released together when it unmounts.
type Group struct {
	mu   sync.Mutex
	subs []*Subscription
}

// Add tracks sub and returns it.
func (g *Group) Add(sub *Subscription) *Subscription {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subs = append(g.subs, sub)
	return sub
}

// Release unsubscribes everything in the group.
func (g *Group) Release() {
	g.mu.Lock()
	subs := g.subs
	g.subs = nil
	g.mu.Unlock()
	for _, s := range subs {
		s.Unsubscribe()
	}
}
