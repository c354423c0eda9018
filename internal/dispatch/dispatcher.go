// Package dispatch turns decoded wire commands into registry and manager
// calls and encodes exactly one reply line for each of them.
package dispatch

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/proto"
)

var errBadArgument = errors.New("bad argument")

// Result is the outcome of one dispatched line.
// Actor is the identity the connection acts as from now on.
type Result struct {
	Reply string
	Actor core.UserID
}

// Dispatcher is stateless between calls; the acting identity is passed in
// and handed back on every call.
type Dispatcher struct {
	users *core.Registry
	chats *core.Manager
	log   *zerolog.Logger
}

// New builds a dispatcher over the shared registry and chat manager.
func New(users *core.Registry, chats *core.Manager, logger *zerolog.Logger) *Dispatcher {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Dispatcher{users: users, chats: chats, log: logger}
}

// call carries one request through its handler.
type call struct {
	actor core.UserID
	req   proto.Request
}

type handler struct {
	minArgs int
	run     func(d *Dispatcher, c *call) (string, error)
}

var handlers = [...]handler{
	proto.CmdRenameUser:         {1, (*Dispatcher).renameUser},
	proto.CmdCreatePersonalChat: {2, (*Dispatcher).createPersonalChat},
	proto.CmdCreateOpenGroup:    {1, (*Dispatcher).createOpenGroup},
	proto.CmdCreateCloseGroup:   {1, (*Dispatcher).createCloseGroup},
	proto.CmdDeleteChat:         {1, (*Dispatcher).deleteChat},
	proto.CmdAddParticipant:     {2, (*Dispatcher).addParticipant},
	proto.CmdRemoveParticipant:  {2, (*Dispatcher).removeParticipant},
	proto.CmdSendMessage:        {2, (*Dispatcher).sendMessage},
	proto.CmdEditMessage:        {3, (*Dispatcher).editMessage},
	proto.CmdRemoveMessage:      {2, (*Dispatcher).removeMessage},
	proto.CmdGetHistory:         {1, (*Dispatcher).history},
	proto.CmdListUsers:          {0, (*Dispatcher).listUsers},
	proto.CmdListChats:          {0, (*Dispatcher).listChats},
	proto.CmdListParticipants:   {1, (*Dispatcher).listParticipants},
	proto.CmdSignUp:             {1, (*Dispatcher).signUp},
	proto.CmdSignIn:             {1, (*Dispatcher).signIn},
	proto.CmdSignOut:            {0, (*Dispatcher).signOut},
}

// Dispatch decodes one line on behalf of actor and returns its reply.
// It never panics; unexpected failures are reported as a format error.
func (d *Dispatcher) Dispatch(actor core.UserID, line string) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Interface("panic", r).
				Str("user_id", actor.String()).
				Msg("dispatch panic")
			res = Result{Reply: proto.EncodeError(proto.ErrIncorrectFormat), Actor: actor}
		}
	}()

	req, err := proto.ParseRequest(line)
	switch {
	case errors.Is(err, proto.ErrNoSuchCommand):
		d.log.Debug().Err(err).Str("user_id", actor.String()).Msg("unknown command")
		return Result{Reply: proto.EncodeError(proto.ErrUnknownCommand), Actor: actor}
	case err != nil:
		d.log.Debug().Err(err).Str("user_id", actor.String()).Msg("malformed line")
		return Result{Reply: proto.EncodeError(proto.ErrIncorrectFormat), Actor: actor}
	}

	h := handlers[req.Command]
	if len(req.Args) < h.minArgs {
		d.log.Debug().
			Str("user_id", actor.String()).
			Str("command", req.Command.String()).
			Int("args", len(req.Args)).
			Msg("too few arguments")
		return Result{Reply: proto.EncodeError(proto.ErrIncorrectFormat), Actor: actor}
	}

	c := &call{actor: actor, req: req}
	reply, err := h.run(d, c)
	if err != nil {
		d.log.Debug().
			Err(err).
			Str("user_id", actor.String()).
			Str("command", req.Command.String()).
			Msg("bad argument")
		return Result{Reply: proto.EncodeError(proto.ErrIncorrectFormat), Actor: actor}
	}

	d.log.Debug().
		Str("user_id", actor.String()).
		Str("command", req.Command.String()).
		Str("reply", reply).
		Msg("dispatched")
	return Result{Reply: reply, Actor: c.actor}
}

// reject logs the domain reason and encodes the error kind for the client.
func (d *Dispatcher) reject(c *call, kind proto.ErrorKind, err error) string {
	d.log.Debug().
		Err(err).
		Str("user_id", c.actor.String()).
		Str("command", c.req.Command.String()).
		Msg("command rejected")
	return proto.EncodeError(kind)
}

func parseID(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %q: %v", errBadArgument, s, err)
	}
	return id, nil
}

// ids parses the first n arguments as identifiers.
func (c *call) ids(n int) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, n)
	for i := range n {
		id, err := parseID(c.req.Args[i])
		if err != nil {
			return nil, err
		}
		out[i] = id
	}
	return out, nil
}

// text is the free-text remainder starting at argument i.
func (c *call) text(i int) string {
	return c.req.Rest(i)
}
