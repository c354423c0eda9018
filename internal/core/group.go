package core

import "time"

// groupChat carries the admin role and the rules both group variants share.
type groupChat struct {
	chatBase
	admin UserID
}

func newGroupChat(id ChatID, name string, admin UserID, now time.Time) groupChat {
	return groupChat{
		chatBase: chatBase{
			id:           id,
			name:         name,
			createdAt:    now,
			participants: []UserID{admin},
		},
		admin: admin,
	}
}

func (g *groupChat) AdminID() (UserID, bool) { return g.admin, true }

// removeParticipant allows anyone to leave and only the admin to remove others.
// When the admin leaves, the longest-standing remaining member takes over.
func (g *groupChat) removeParticipant(requester, target UserID) error {
	if !g.isParticipant(target) {
		return ErrNotParticipant
	}
	if requester != target && requester != g.admin {
		return ErrPermissionDenied
	}

	g.dropParticipant(target)
	if target == g.admin && len(g.participants) > 0 {
		g.admin = g.participants[0]
	}
	return nil
}

func (g *groupChat) canDelete(user UserID) bool {
	return user == g.admin
}

// removeMessage lets the admin remove any message regardless of age.
func (g *groupChat) removeMessage(user UserID, id MessageID, now time.Time) error {
	if user == g.admin {
		i := g.messageIndex(id)
		if i < 0 {
			return ErrMessageNotFound
		}
		g.dropMessage(i)
		return nil
	}
	return g.removeOwnMessage(user, id, now)
}

// openGroup lets any member invite new members.
type openGroup struct {
	groupChat
}

func newOpenGroup(id ChatID, name string, admin UserID, now time.Time) *openGroup {
	return &openGroup{groupChat: newGroupChat(id, name, admin, now)}
}

func (o *openGroup) Kind() ChatKind { return ChatOpenGroup }

func (o *openGroup) addParticipant(requester, target UserID) error {
	if !o.isParticipant(requester) {
		return ErrNotParticipant
	}
	return o.appendParticipant(target)
}

// closeGroup lets only the admin invite new members.
type closeGroup struct {
	groupChat
}

func newCloseGroup(id ChatID, name string, admin UserID, now time.Time) *closeGroup {
	return &closeGroup{groupChat: newGroupChat(id, name, admin, now)}
}

func (c *closeGroup) Kind() ChatKind { return ChatCloseGroup }

func (c *closeGroup) addParticipant(requester, target UserID) error {
	if requester != c.admin {
		return ErrPermissionDenied
	}
	return c.appendParticipant(target)
}
