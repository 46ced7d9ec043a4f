package bridge

import (
	"context"
	"reflect"
	"time"

	"github.com/gorilla/websocket"
	"github.com/grovetools/richedit/editor"
	"github.com/grovetools/richedit/errors"
	"github.com/grovetools/richedit/richtext"
	"github.com/grovetools/richedit/schedule"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1 << 20
)

// session is one websocket connection and the editor behind it. Everything
// touching the editor or writing to conn runs on loop.
type session struct {
	conn *websocket.Conn
	loop *schedule.Loop
	mem  *editor.Memory
	rt   *richtext.Editor
	log  *logrus.Entry
	last *richtext.View
}

// pushScheduler runs deferred editor work on the loop and pushes the new
// state if the work changed what the client sees.
type pushScheduler struct{ s *session }

func (p pushScheduler) After(d time.Duration, fn func()) schedule.Cancel {
	return p.s.loop.After(d, func() {
		fn()
		p.s.pushIfChanged()
	})
}

func newSession(conn *websocket.Conn, cfg richtext.Config, size editor.Size, log *logrus.Entry) *session {
	s := &session{
		conn: conn,
		loop: schedule.NewLoop(),
		mem:  editor.NewMemory(),
		log:  log,
	}
	if size.W > 0 && size.H > 0 {
		s.mem.SetViewport(size)
	}
	s.rt = richtext.New(s.mem, pushScheduler{s}, cfg, richtext.WithLogger(log))
	return s
}

// serve runs the session until the client goes away or ctx ends.
func (s *session) serve(ctx context.Context, initial string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.loop.Post(func() {
		if initial != "" {
			if err := s.rt.Handle().LoadMarkdown(initial); err != nil {
				s.reply(Response{Type: TypeError, Error: toEditorError(err)})
				return
			}
		}
		s.reply(s.state())
	})
	s.schedulePing()

	errc := make(chan error, 1)
	go func() {
		errc <- s.readLoop()
		cancel()
	}()

	s.loop.Run(ctx)
	s.rt.Close()
	s.conn.Close()
	return <-errc
}

func (s *session) readLoop() error {
	s.conn.SetReadLimit(maxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		var req Request
		if err := s.conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return err
			}
			return nil
		}
		if !s.loop.Post(func() { s.reply(s.handle(req)) }) {
			return nil
		}
	}
}

func (s *session) schedulePing() {
	s.loop.After(pingPeriod, func() {
		if err := s.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
			s.log.WithError(err).Debug("Ping failed")
			return
		}
		s.schedulePing()
	})
}

// handle applies one request and returns its response.
func (s *session) handle(req Request) Response {
	var err error
	switch req.Type {
	case TypeKey:
		if req.Key == nil {
			err = errors.New(errors.ErrCodeInvalidInput, "key request without key")
			break
		}
		var ev editor.KeyEvent
		if ev, err = req.Key.event(); err == nil {
			s.mem.PressKey(ev)
		}
	case TypeText:
		s.mem.Type(req.Text)
	case TypePointer:
		if req.Pointer == nil {
			err = errors.New(errors.ErrCodeInvalidInput, "pointer request without pointer")
			break
		}
		var ev editor.PointerEvent
		if ev, err = req.Pointer.event(); err == nil {
			s.rt.HandlePointer(ev)
		}
	case TypeSelect:
		err = s.selectRange(req.Selection)
	case TypeLoad:
		err = s.rt.Handle().LoadMarkdown(req.Markdown)
	case TypeGet:
		return Response{Type: TypeMarkdown, Markdown: s.rt.Handle().GetMarkdown()}
	case TypeAction:
		err = s.rt.Toolbar().Run(req.Action, req.Value)
	case TypeExecute:
		err = s.execute(req.Index)
	case TypeResize:
		if req.Size == nil || req.Size.Width <= 0 || req.Size.Height <= 0 {
			err = errors.New(errors.ErrCodeInvalidInput, "resize needs a positive size")
			break
		}
		s.mem.SetViewport(editor.Size{W: req.Size.Width, H: req.Size.Height})
	default:
		err = errors.New(errors.ErrCodeInvalidInput, "unknown request type").WithDetail("type", req.Type)
	}
	if err != nil {
		s.log.WithError(err).WithField("type", req.Type).Debug("Request failed")
		return Response{Type: TypeError, Error: toEditorError(err)}
	}
	return s.state()
}

func (s *session) selectRange(sel *SelectionPayload) error {
	if sel == nil {
		return errors.New(errors.ErrCodeInvalidInput, "select request without selection")
	}
	size := s.mem.Size()
	if sel.Anchor < 0 || sel.Head < 0 || sel.Anchor > size || sel.Head > size {
		return errors.New(errors.ErrCodeInvalidRange, "selection outside the document").
			WithDetail("anchor", sel.Anchor).
			WithDetail("head", sel.Head).
			WithDetail("size", size)
	}
	s.mem.SetSelection(editor.Selection{Anchor: sel.Anchor, Head: sel.Head})
	return nil
}

func (s *session) execute(index int) error {
	menu := s.rt.Menu()
	if !menu.State().Open {
		return errors.New(errors.ErrCodeInvalidInput, "slash menu is not open")
	}
	if index < 0 || index >= len(menu.Filtered()) {
		return errors.New(errors.ErrCodeInvalidRange, "no command at index").WithDetail("index", index)
	}
	menu.Select(index)
	cmd, _ := menu.Selected()
	return menu.Execute(cmd)
}

func (s *session) state() Response {
	v := s.rt.View()
	sel := s.mem.Selection()
	return Response{
		Type:      TypeState,
		View:      &v,
		Selection: &SelectionPayload{Anchor: sel.Anchor, Head: sel.Head},
	}
}

func (s *session) pushIfChanged() {
	v := s.rt.View()
	if s.last != nil && reflect.DeepEqual(*s.last, v) {
		return
	}
	s.reply(s.state())
}

func (s *session) reply(resp Response) {
	if resp.View != nil {
		s.last = resp.View
	}
	s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := s.conn.WriteJSON(resp); err != nil {
		s.log.WithError(err).Debug("Write failed")
	}
}
