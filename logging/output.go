package logging

import (
	"context"
	"io"
	"os"
	"sync"
)

// swapWriter forwards to a destination that can change while loggers hold
// it. The editor TUI points it at io.Discard while the alternate screen is
// up.
type swapWriter struct {
	mu  sync.RWMutex
	dst io.Writer
}

func (s *swapWriter) Write(p []byte) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dst.Write(p)
}

func (s *swapWriter) swap(w io.Writer) io.Writer {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.dst
	s.dst = w
	return prev
}

var stderrSink = &swapWriter{dst: os.Stderr}

// SetGlobalOutput redirects the stderr sink shared by every logger and
// returns the previous destination.
func SetGlobalOutput(w io.Writer) io.Writer { return stderrSink.swap(w) }

// GetGlobalOutput returns the shared stderr sink.
func GetGlobalOutput() io.Writer { return stderrSink }

type writerKey struct{}

// WithWriter makes w the destination of user-facing output logged with ctx,
// usually a command's stdout.
func WithWriter(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, writerKey{}, w)
}

// GetWriter returns the writer attached to ctx, or the stderr sink.
func GetWriter(ctx context.Context) io.Writer {
	if ctx != nil {
		if w, ok := ctx.Value(writerKey{}).(io.Writer); ok && w != nil {
			return w
		}
	}
	return stderrSink
}
