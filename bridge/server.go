package bridge

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/grovetools/richedit/editor"
	"github.com/grovetools/richedit/richtext"
	"github.com/oklog/ulid/v2"
	"github.com/sirupsen/logrus"
)

// SessionHeader carries the session ID in the upgrade response. The same
// ID tags the session's log records.
const SessionHeader = "X-Richedit-Session"

// Server accepts websocket editing sessions.
type Server struct {
	logger   *logrus.Entry
	cfg      richtext.Config
	size     editor.Size
	upgrader websocket.Upgrader
	ctx      context.Context
	cancel   context.CancelFunc
	sessions sync.WaitGroup

	mu       sync.Mutex
	server   *http.Server
	document string
}

// New creates a new Server instance.
func New(cfg richtext.Config, logger *logrus.Entry) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		logger: logger,
		cfg:    cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		ctx:    ctx,
		cancel: cancel,
	}
}

// SetDocument sets the markdown each new session starts with.
func (s *Server) SetDocument(md string) {
	s.mu.Lock()
	s.document = md
	s.mu.Unlock()
}

// SetViewport sets the surface size new sessions start with. Clients can
// change it later with a resize request.
func (s *Server) SetViewport(size editor.Size) {
	s.size = size
}

// Handler returns the HTTP routes of the bridge.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", s.handleSession)
	return mux
}

// ListenAndServe serves the bridge on addr. It blocks until the server stops
// or fails.
func (s *Server) ListenAndServe(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	server := &http.Server{Handler: s.Handler()}
	s.mu.Lock()
	s.server = server
	s.mu.Unlock()

	s.logger.WithField("addr", listener.Addr().String()).Info("Bridge listening")
	if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops accepting connections, ends open sessions and waits for
// them to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down bridge...")
	s.mu.Lock()
	server := s.server
	s.mu.Unlock()

	var err error
	if server != nil {
		err = server.Shutdown(ctx)
	}
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		if err == nil {
			err = ctx.Err()
		}
	}
	return err
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	id := ulid.Make().String()
	conn, err := s.upgrader.Upgrade(w, r, http.Header{SessionHeader: {id}})
	if err != nil {
		s.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	s.mu.Lock()
	doc := s.document
	s.mu.Unlock()

	log := s.logger.WithFields(logrus.Fields{"session": id, "remote": r.RemoteAddr})
	log.Debug("Session opened")

	s.sessions.Add(1)
	defer s.sessions.Done()
	sess := newSession(conn, s.cfg, s.size, log)
	if err := sess.serve(s.ctx, doc); err != nil {
		log.WithError(err).Warn("Session ended with error")
		return
	}
	log.Debug("Session closed")
}
