package dispatch

import (
	"strings"

	"github.com/samber/lo"
	"github.com/vovakirdan/roomchat-server/internal/core"
	"github.com/vovakirdan/roomchat-server/internal/proto"
)

// name is a free-text label starting at argument i, without trailing blanks.
func (c *call) name(i int) string {
	return strings.TrimRight(c.text(i), " \t")
}

func (d *Dispatcher) renameUser(c *call) (string, error) {
	if err := d.users.Rename(c.actor, c.name(0)); err != nil {
		return d.reject(c, proto.ErrUserRename, err), nil
	}
	return proto.Encode(proto.ReplyUserRenamed, ""), nil
}

func (d *Dispatcher) createPersonalChat(c *call) (string, error) {
	other, err := parseID(c.req.Args[0])
	if err != nil {
		return "", err
	}
	id, err := d.chats.CreatePersonalChat(c.name(1), c.actor, other)
	if err != nil {
		return d.reject(c, proto.ErrChatCreate, err), nil
	}
	return proto.Encode(proto.ReplyChatCreated, id.String()), nil
}

func (d *Dispatcher) createOpenGroup(c *call) (string, error) {
	id, err := d.chats.CreateOpenGroup(c.name(0), c.actor)
	if err != nil {
		return d.reject(c, proto.ErrChatCreate, err), nil
	}
	return proto.Encode(proto.ReplyChatCreated, id.String()), nil
}

func (d *Dispatcher) createCloseGroup(c *call) (string, error) {
	id, err := d.chats.CreateCloseGroup(c.name(0), c.actor)
	if err != nil {
		return d.reject(c, proto.ErrChatCreate, err), nil
	}
	return proto.Encode(proto.ReplyChatCreated, id.String()), nil
}

func (d *Dispatcher) deleteChat(c *call) (string, error) {
	chat, err := parseID(c.req.Args[0])
	if err != nil {
		return "", err
	}
	if err := d.chats.DeleteChat(chat, c.actor); err != nil {
		return d.reject(c, proto.ErrChatDelete, err), nil
	}
	return proto.Encode(proto.ReplyChatDeleted, ""), nil
}

func (d *Dispatcher) addParticipant(c *call) (string, error) {
	ids, err := c.ids(2)
	if err != nil {
		return "", err
	}
	if err := d.chats.AddParticipant(ids[0], c.actor, ids[1]); err != nil {
		return d.reject(c, proto.ErrParticipantAdd, err), nil
	}
	return proto.Encode(proto.ReplyParticipantAdded, ""), nil
}

func (d *Dispatcher) removeParticipant(c *call) (string, error) {
	ids, err := c.ids(2)
	if err != nil {
		return "", err
	}
	if err := d.chats.RemoveParticipant(ids[0], c.actor, ids[1]); err != nil {
		return d.reject(c, proto.ErrParticipantRemove, err), nil
	}
	return proto.Encode(proto.ReplyParticipantRemoved, ""), nil
}

func (d *Dispatcher) sendMessage(c *call) (string, error) {
	chat, err := parseID(c.req.Args[0])
	if err != nil {
		return "", err
	}
	if _, err := d.chats.SendMessage(chat, c.actor, c.text(1)); err != nil {
		return d.reject(c, proto.ErrSendMessage, err), nil
	}
	return proto.Encode(proto.ReplyMessageSent, ""), nil
}

func (d *Dispatcher) editMessage(c *call) (string, error) {
	ids, err := c.ids(2)
	if err != nil {
		return "", err
	}
	if err := d.chats.EditMessage(ids[0], c.actor, ids[1], c.text(2)); err != nil {
		return d.reject(c, proto.ErrEditMessage, err), nil
	}
	return proto.Encode(proto.ReplyMessageEdited, ""), nil
}

func (d *Dispatcher) removeMessage(c *call) (string, error) {
	ids, err := c.ids(2)
	if err != nil {
		return "", err
	}
	if err := d.chats.RemoveMessage(ids[0], c.actor, ids[1]); err != nil {
		return d.reject(c, proto.ErrRemoveMessage, err), nil
	}
	return proto.Encode(proto.ReplyMessageRemoved, ""), nil
}

func (d *Dispatcher) history(c *call) (string, error) {
	chat, err := parseID(c.req.Args[0])
	if err != nil {
		return "", err
	}
	items := lo.Map(d.chats.History(chat), func(m core.Message, _ int) string {
		return proto.Fields(m.ID.String(), m.AuthorID.String(), m.Text)
	})
	return proto.Encode(proto.ReplyHistory, proto.List(items)), nil
}

func (d *Dispatcher) listUsers(_ *call) (string, error) {
	items := lo.Map(d.users.Users(), func(u core.User, _ int) string {
		return proto.Fields(u.ID.String(), u.Name)
	})
	return proto.Encode(proto.ReplyUsersList, proto.List(items)), nil
}

func (d *Dispatcher) listChats(c *call) (string, error) {
	items := lo.Map(d.chats.UserChats(c.actor), func(id core.ChatID, _ int) string {
		return id.String()
	})
	return proto.Encode(proto.ReplyChatsList, proto.List(items)), nil
}

func (d *Dispatcher) listParticipants(c *call) (string, error) {
	chat, err := parseID(c.req.Args[0])
	if err != nil {
		return "", err
	}
	items := lo.Map(d.chats.Participants(chat), func(id core.UserID, _ int) string {
		return id.String()
	})
	return proto.Encode(proto.ReplyParticipantsList, proto.List(items)), nil
}

func (d *Dispatcher) signUp(c *call) (string, error) {
	id, err := d.users.SignUp(c.name(0))
	if err != nil {
		d.log.Debug().Err(err).Str("user_id", c.actor.String()).Msg("sign up failed")
		return proto.Encode(proto.ReplySignUpFail, ""), nil
	}
	d.rebind(c, id)
	return proto.Encode(proto.ReplySignUpSuccess, id.String()), nil
}

func (d *Dispatcher) signIn(c *call) (string, error) {
	id, err := d.users.SignIn(c.name(0))
	if err != nil {
		d.log.Debug().Err(err).Str("user_id", c.actor.String()).Msg("sign in failed")
		return proto.Encode(proto.ReplySignInFail, ""), nil
	}
	d.rebind(c, id)
	return proto.Encode(proto.ReplySignInSuccess, id.String()), nil
}

func (d *Dispatcher) signOut(c *call) (string, error) {
	d.users.SetLoggedIn(c.actor, false)
	return proto.Encode(proto.ReplySignOutSuccess, ""), nil
}

// rebind switches the acting identity, logging out the one left behind.
func (d *Dispatcher) rebind(c *call, id core.UserID) {
	if c.actor != id {
		d.users.SetLoggedIn(c.actor, false)
	}
	d.log.Info().
		Str("from", c.actor.String()).
		Str("to", id.String()).
		Msg("identity rebound")
	c.actor = id
}
