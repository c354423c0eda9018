package core

import (
	"time"

	"github.com/google/uuid"
)

// personalChatSize is the fixed membership of a personal chat.
const personalChatSize = 2

type personalChat struct {
	chatBase
}

func newPersonalChat(id ChatID, name string, now time.Time) *personalChat {
	return &personalChat{chatBase: chatBase{id: id, name: name, createdAt: now}}
}

func (p *personalChat) Kind() ChatKind { return ChatPersonal }

func (p *personalChat) AdminID() (UserID, bool) { return uuid.Nil, false }

// addParticipant only succeeds while the chat is being built.
func (p *personalChat) addParticipant(_, target UserID) error {
	if len(p.participants) >= personalChatSize {
		return ErrChatFull
	}
	return p.appendParticipant(target)
}

func (p *personalChat) removeParticipant(_, _ UserID) error {
	return ErrPermissionDenied
}

func (p *personalChat) canDelete(user UserID) bool {
	return p.isParticipant(user)
}

func (p *personalChat) removeMessage(user UserID, id MessageID, now time.Time) error {
	return p.removeOwnMessage(user, id, now)
}
