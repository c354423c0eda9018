package core

import (
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ChatID identifies a chat room across the whole system.
type ChatID = uuid.UUID

// ChatKind tells the room variants apart.
type ChatKind int

const (
	// ChatPersonal is a permanent two-member chat.
	ChatPersonal ChatKind = iota
	// ChatOpenGroup is a group where any member may invite.
	ChatOpenGroup
	// ChatCloseGroup is a group where only the admin may invite.
	ChatCloseGroup
)

func (k ChatKind) String() string {
	switch k {
	case ChatPersonal:
		return "personal"
	case ChatOpenGroup:
		return "open_group"
	case ChatCloseGroup:
		return "close_group"
	default:
		return "unknown"
	}
}

// room is the capability set shared by every chat variant.
// The set of implementations is closed: personalChat, openGroup, closeGroup.
type room interface {
	base() *chatBase
	Kind() ChatKind
	AdminID() (UserID, bool)

	addParticipant(requester, target UserID) error
	removeParticipant(requester, target UserID) error
	canDelete(user UserID) bool
	removeMessage(user UserID, id MessageID, now time.Time) error
}

// chatBase holds the storage common to all variants and the shared edit rule.
type chatBase struct {
	id           ChatID
	name         string
	createdAt    time.Time
	participants []UserID
	messages     []Message
}

func (c *chatBase) base() *chatBase { return c }

func (c *chatBase) isParticipant(user UserID) bool {
	return lo.Contains(c.participants, user)
}

func (c *chatBase) appendParticipant(user UserID) error {
	if c.isParticipant(user) {
		return ErrAlreadyParticipant
	}
	c.participants = append(c.participants, user)
	return nil
}

func (c *chatBase) dropParticipant(user UserID) {
	if i := lo.IndexOf(c.participants, user); i >= 0 {
		c.participants = slices.Delete(c.participants, i, i+1)
	}
}

func (c *chatBase) appendMessage(m Message) {
	c.messages = append(c.messages, m)
}

func (c *chatBase) messageIndex(id MessageID) int {
	return slices.IndexFunc(c.messages, func(m Message) bool { return m.ID == id })
}

func (c *chatBase) dropMessage(i int) {
	c.messages = slices.Delete(c.messages, i, i+1)
}

// editMessage applies the edit rule shared by every variant: only the author,
// and only inside EditWindow. Admins get no exemption here.
func (c *chatBase) editMessage(user UserID, id MessageID, text string, now time.Time) error {
	i := c.messageIndex(id)
	if i < 0 {
		return ErrMessageNotFound
	}
	msg := &c.messages[i]
	if msg.AuthorID != user {
		return ErrPermissionDenied
	}
	if !msg.withinWindow(now) {
		return ErrEditWindowExpired
	}
	msg.changeText(text)
	return nil
}

// removeOwnMessage is the author-only removal rule, bounded by EditWindow.
func (c *chatBase) removeOwnMessage(user UserID, id MessageID, now time.Time) error {
	i := c.messageIndex(id)
	if i < 0 {
		return ErrMessageNotFound
	}
	msg := c.messages[i]
	if msg.AuthorID != user {
		return ErrPermissionDenied
	}
	if !msg.withinWindow(now) {
		return ErrEditWindowExpired
	}
	c.dropMessage(i)
	return nil
}

func (c *chatBase) snapshotParticipants() []UserID {
	return slices.Clone(c.participants)
}

func (c *chatBase) snapshotMessages() []Message {
	return slices.Clone(c.messages)
}
