// Package session runs one client connection: it reads frames one at a
// time, dispatches them, and writes replies in the order they were issued.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/gammazero/deque"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/dispatch"
	"github.com/vovakirdan/roomchat-server/internal/proto"
)

// Conn is a framed, ordered, bidirectional connection.
type Conn interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, p []byte) error
}

// Session is the per-connection actor.
type Session struct {
	conn  Conn
	users *core.Registry
	disp  *dispatch.Dispatcher
	log   *zerolog.Logger

	// actor is owned by the read loop until Run returns.
	actor core.UserID

	mu    sync.Mutex
	queue deque.Deque[string]
	wake  chan struct{}
}

// New builds a session acting as user until a command rebinds it.
func New(conn Conn, users *core.Registry, disp *dispatch.Dispatcher, user core.UserID, logger *zerolog.Logger) *Session {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Session{
		conn:  conn,
		users: users,
		disp:  disp,
		log:   logger,
		actor: user,
		wake:  make(chan struct{}, 1),
	}
}

// Run serves the connection until a read or write fails or ctx is done.
// The connection's identity is logged in while it runs; the identity the
// session ends with is marked logged out.
func (s *Session) Run(ctx context.Context) error {
	s.users.SetLoggedIn(s.actor, true)
	s.log.Info().Str("user_id", s.actor.String()).Msg("session started")
	s.enqueue(proto.Encode(proto.ReplyUserCreated, s.actor.String()))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.writeLoop(ctx) })
	g.Go(func() error { return s.readLoop(ctx) })
	err := g.Wait()

	s.users.SetLoggedIn(s.actor, false)
	s.log.Info().Err(err).Str("user_id", s.actor.String()).Msg("session finished")
	return err
}

// Actor returns the identity the session currently acts as.
// It is only safe to call after Run has returned.
func (s *Session) Actor() core.UserID {
	return s.actor
}

func (s *Session) readLoop(ctx context.Context) error {
	for {
		frame, err := s.conn.Read(ctx)
		if err != nil {
			if ctx.Err() == nil {
				s.log.Warn().Err(err).Str("user_id", s.actor.String()).Msg("read frame")
			}
			return fmt.Errorf("read: %w", err)
		}

		res := s.disp.Dispatch(s.actor, string(frame))
		s.actor = res.Actor
		s.enqueue(res.Reply)
	}
}

func (s *Session) writeLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.wake:
		}

		for {
			frame, ok := s.dequeue()
			if !ok {
				break
			}
			if err := s.conn.Write(ctx, []byte(frame)); err != nil {
				if ctx.Err() == nil {
					s.log.Warn().Err(err).Msg("write frame")
				}
				return fmt.Errorf("write: %w", err)
			}
		}
	}
}

func (s *Session) enqueue(frame string) {
	s.mu.Lock()
	s.queue.PushBack(frame)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Session) dequeue() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queue.Len() == 0 {
		return "", false
	}
	return s.queue.PopFront(), true
}
