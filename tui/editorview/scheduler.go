package editorview

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/richedit/schedule"
)

// timerMsg fires a deferred callback on the program's update loop.
type timerMsg struct {
	id int
}

// teaScheduler runs deferred callbacks as tea.Tick commands so they execute
// inside Update, on the same goroutine as every other editor handler.
type teaScheduler struct {
	nextID int
	tasks  map[int]func()
	queued []tea.Cmd
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{tasks: make(map[int]func())}
}

func (s *teaScheduler) After(d time.Duration, fn func()) schedule.Cancel {
	s.nextID++
	id := s.nextID
	s.tasks[id] = fn
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	}))
	return func() { delete(s.tasks, id) }
}

// fire runs the callback for id unless it was cancelled.
func (s *teaScheduler) fire(id int) {
	fn, ok := s.tasks[id]
	if !ok {
		return
	}
	delete(s.tasks, id)
	fn()
}

// drain returns the ticks scheduled since the last call.
func (s *teaScheduler) drain() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}

// pending returns the ids of callbacks still waiting, lowest first.
func (s *teaScheduler) pending() []int {
	ids := make([]int, 0, len(s.tasks))
	for id := 1; id <= s.nextID; id++ {
		if _, ok := s.tasks[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
