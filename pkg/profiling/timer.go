// Package profiling times nested phases of a command and writes pprof
// profiles on request.
package profiling

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Stopper ends a timed span.
type Stopper interface {
	Stop()
}

type span struct {
	name     string
	start    time.Time
	duration time.Duration
	children []*span
	p        *Profiler
}

func (s *span) Stop() {
	s.p.end(s)
}

// Profiler records a tree of spans. Spans nest in the order they are started
// and stopped, so one profiler times one goroutine's work.
type Profiler struct {
	mu      sync.Mutex
	enabled bool
	root    *span
	stack   []*span
}

var defaultProfiler = &Profiler{}

// Enable starts recording on the default profiler.
func Enable() { defaultProfiler.Enable() }

// Start opens a span on the default profiler. It is free when profiling is
// off.
func Start(name string) Stopper { return defaultProfiler.Start(name) }

// Summarize writes the default profiler's span tree.
func Summarize(w io.Writer) { defaultProfiler.Summarize(w) }

// Enable starts recording. Calling it again keeps the current tree.
func (p *Profiler) Enable() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		return
	}
	p.enabled = true
	p.root = &span{name: "total", start: time.Now(), p: p}
	p.stack = []*span{p.root}
}

// Start opens a span under the innermost open one.
func (p *Profiler) Start(name string) Stopper {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return noopStopper{}
	}
	s := &span{name: name, start: time.Now(), p: p}
	parent := p.stack[len(p.stack)-1]
	parent.children = append(parent.children, s)
	p.stack = append(p.stack, s)
	return s
}

func (p *Profiler) end(s *span) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s.duration = time.Since(s.start)
	for i := len(p.stack) - 1; i > 0; i-- {
		if p.stack[i] == s {
			p.stack = p.stack[:i]
			return
		}
	}
}

// Summarize writes each span with its share of the total time.
func (p *Profiler) Summarize(w io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return
	}
	total := time.Since(p.root.start)
	fmt.Fprintf(w, "timing: %v total\n", total.Round(100*time.Microsecond))
	for _, c := range p.root.children {
		writeSpan(w, c, 1, total)
	}
}

func writeSpan(w io.Writer, s *span, depth int, total time.Duration) {
	pct := 0.0
	if total > 0 {
		pct = float64(s.duration) / float64(total) * 100
	}
	fmt.Fprintf(w, "%s- %s (%v, %.1f%%)\n", strings.Repeat("  ", depth), s.name, s.duration.Round(100*time.Microsecond), pct)
	for _, c := range s.children {
		writeSpan(w, c, depth+1, total)
	}
}

type noopStopper struct{}

func (noopStopper) Stop() {}
