// Package schedule runs deferred callbacks on a single logical loop.
//
// The interaction layer has two suspension points: a short settle delay
// after a pointer or touch is released, and a one-tick deferral after a key
// press so the host finishes applying the change before state is re-derived.
// Both are expressed as Scheduler.After calls whose callbacks run on the same
// loop as every other handler.
package schedule

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Cancel stops a pending callback. Calling it after the callback ran, or more
// than once, is a no-op.
type Cancel func()

// Scheduler defers fn by d. A zero delay means "next tick".
type Scheduler interface {
	After(d time.Duration, fn func()) Cancel
}

// Manual is a virtual-time scheduler for tests. Callbacks only run when the
// clock is advanced.
type Manual struct {
	now     time.Duration
	nextID  int
	pending []manualTask
}

type manualTask struct {
	id  int
	at  time.Duration
	fn  func()
	seq int
}

// NewManual creates a manual scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{}
}

func (m *Manual) After(d time.Duration, fn func()) Cancel {
	if d < 0 {
		d = 0
	}
	m.nextID++
	id := m.nextID
	m.pending = append(m.pending, manualTask{id: id, at: m.now + d, fn: fn, seq: id})
	return func() {
		for i, t := range m.pending {
			if t.id == id {
				m.pending = append(m.pending[:i:i], m.pending[i+1:]...)
				return
			}
		}
	}
}

// Now returns the current virtual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Pending returns the number of callbacks waiting to run.
func (m *Manual) Pending() int {
	return len(m.pending)
}

// Advance moves the clock forward by d, running every callback that comes due
// in order. Callbacks scheduled while advancing run too if they fall inside
// the window.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		task, ok := m.next(target)
		if !ok {
			break
		}
		if task.at > m.now {
			m.now = task.at
		}
		task.fn()
	}
	m.now = target
}

// Flush runs zero-delay callbacks without moving the clock.
func (m *Manual) Flush() {
	m.Advance(0)
}

func (m *Manual) next(limit time.Duration) (manualTask, bool) {
	if len(m.pending) == 0 {
		return manualTask{}, false
	}
	sort.SliceStable(m.pending, func(i, j int) bool {
		if m.pending[i].at != m.pending[j].at {
			return m.pending[i].at < m.pending[j].at
		}
		return m.pending[i].seq < m.pending[j].seq
	})
	task := m.pending[0]
	if task.at > limit {
		return manualTask{}, false
	}
	m.pending = m.pending[1:]
	return task, true
}

// Loop is a real-time scheduler whose callbacks, and any function handed to
// Post, run one at a time on the goroutine calling Run.
type Loop struct {
	tasks chan func()
	stop  chan struct{}
	once  sync.Once
}

// NewLoop creates a loop with a small task buffer.
func NewLoop() *Loop {
	return &Loop{
		tasks: make(chan func(), 64),
		stop:  make(chan struct{}),
	}
}

func (l *Loop) After(d time.Duration, fn func()) Cancel {
	var mu sync.Mutex
	cancelled := false
	run := func() {
		mu.Lock()
		c := cancelled
		mu.Unlock()
		if !c {
			fn()
		}
	}
	timer := time.AfterFunc(d, func() { l.Post(run) })
	return func() {
		mu.Lock()
		cancelled = true
		mu.Unlock()
		timer.Stop()
	}
}

// Post queues fn to run on the loop. It returns false once the loop stopped.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.stop:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.stop:
		return false
	}
}

// Run executes queued tasks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	defer l.once.Do(func() { close(l.stop) })
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-ctx.Done():
			return
		}
	}
}
