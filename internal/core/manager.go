package core

import (
	"cmp"
	"slices"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
)

// ChatInfo is a read-only snapshot of a chat room.
type ChatInfo struct {
	ID           ChatID
	Name         string
	Kind         ChatKind
	AdminID      UserID // uuid.Nil for personal chats
	Participants []UserID
	MessageCount int
	CreatedAt    time.Time
}

// Manager owns every chat room and is the only entry point for chat mutation.
// A single RW lock covers the whole collection, so each operation is atomic
// with respect to every other one.
type Manager struct {
	mu       sync.RWMutex
	rooms    map[ChatID]room
	users    *Registry
	clock    clock.Clock
	nextSeq  uint64
	sequence map[ChatID]uint64
}

// NewManager creates a chat manager validating users against the registry.
// A nil clock falls back to the wall clock.
func NewManager(users *Registry, clk clock.Clock) *Manager {
	if clk == nil {
		clk = clock.New()
	}
	return &Manager{
		rooms:    make(map[ChatID]room),
		users:    users,
		clock:    clk,
		sequence: make(map[ChatID]uint64),
	}
}

// Now returns the manager's current time.
func (m *Manager) Now() time.Time {
	return m.clock.Now()
}

// CreatePersonalChat creates a two-member chat between a and b.
func (m *Manager) CreatePersonalChat(name string, a, b UserID) (ChatID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.users.Exists(a) || !m.users.Exists(b) {
		return uuid.Nil, ErrUserNotFound
	}

	chat := newPersonalChat(uuid.New(), name, m.clock.Now())
	if err := chat.addParticipant(a, a); err != nil {
		return uuid.Nil, err
	}
	if err := chat.addParticipant(b, b); err != nil {
		return uuid.Nil, err
	}

	m.insert(chat)
	return chat.id, nil
}

// CreateOpenGroup creates a group in which any member may invite others.
func (m *Manager) CreateOpenGroup(name string, admin UserID) (ChatID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.users.Exists(admin) {
		return uuid.Nil, ErrUserNotFound
	}

	chat := newOpenGroup(uuid.New(), name, admin, m.clock.Now())
	m.insert(chat)
	return chat.id, nil
}

// CreateCloseGroup creates a group in which only the admin may invite others.
func (m *Manager) CreateCloseGroup(name string, admin UserID) (ChatID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.users.Exists(admin) {
		return uuid.Nil, ErrUserNotFound
	}

	chat := newCloseGroup(uuid.New(), name, admin, m.clock.Now())
	m.insert(chat)
	return chat.id, nil
}

// DeleteChat permanently removes a chat if the actor is allowed to.
func (m *Manager) DeleteChat(id ChatID, actor UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.users.Exists(actor) {
		return ErrUserNotFound
	}
	chat, ok := m.rooms[id]
	if !ok {
		return ErrChatNotFound
	}
	if !chat.canDelete(actor) {
		return ErrPermissionDenied
	}

	m.erase(id)
	return nil
}

// AddParticipant appends target to the chat if the variant's rule allows requester to do so.
func (m *Manager) AddParticipant(id ChatID, requester, target UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.users.Exists(requester) || !m.users.Exists(target) {
		return ErrUserNotFound
	}
	chat, ok := m.rooms[id]
	if !ok {
		return ErrChatNotFound
	}
	return chat.addParticipant(requester, target)
}

// RemoveParticipant removes target from the chat if the variant's rule allows it.
// A group left without participants is deleted in the same operation.
func (m *Manager) RemoveParticipant(id ChatID, requester, target UserID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.users.Exists(requester) || !m.users.Exists(target) {
		return ErrUserNotFound
	}
	chat, ok := m.rooms[id]
	if !ok {
		return ErrChatNotFound
	}
	if err := chat.removeParticipant(requester, target); err != nil {
		return err
	}

	if _, isGroup := chat.AdminID(); isGroup && len(chat.base().participants) == 0 {
		m.erase(id)
	}
	return nil
}

// SendMessage appends a message from sender, stamped with the manager's clock.
func (m *Manager) SendMessage(id ChatID, sender UserID, text string) (MessageID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.users.Exists(sender) {
		return uuid.Nil, ErrUserNotFound
	}
	chat, ok := m.rooms[id]
	if !ok {
		return uuid.Nil, ErrChatNotFound
	}
	if !chat.base().isParticipant(sender) {
		return uuid.Nil, ErrNotParticipant
	}

	msg := newMessage(sender, text, m.clock.Now())
	chat.base().appendMessage(msg)
	return msg.ID, nil
}

// EditMessage replaces the text of one of the editor's own recent messages.
func (m *Manager) EditMessage(id ChatID, editor UserID, msgID MessageID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.users.Exists(editor) {
		return ErrUserNotFound
	}
	chat, ok := m.rooms[id]
	if !ok {
		return ErrChatNotFound
	}
	return chat.base().editMessage(editor, msgID, text, m.clock.Now())
}

// RemoveMessage deletes a message from history if the variant's rule allows it.
func (m *Manager) RemoveMessage(id ChatID, remover UserID, msgID MessageID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.users.Exists(remover) {
		return ErrUserNotFound
	}
	chat, ok := m.rooms[id]
	if !ok {
		return ErrChatNotFound
	}
	return chat.removeMessage(remover, msgID, m.clock.Now())
}

// History returns a copy of the chat's messages in send order.
// Unknown chats yield an empty history.
func (m *Manager) History(id ChatID) []Message {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chat, ok := m.rooms[id]
	if !ok {
		return nil
	}
	return chat.base().snapshotMessages()
}

// ChatAdmin returns the admin of a group chat.
func (m *Manager) ChatAdmin(id ChatID) (UserID, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chat, ok := m.rooms[id]
	if !ok {
		return uuid.Nil, false
	}
	return chat.AdminID()
}

// ChatExists reports whether the chat is still alive.
func (m *Manager) ChatExists(id ChatID) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.rooms[id]
	return ok
}

// UserChats lists the chats the user participates in, oldest first.
func (m *Manager) UserChats(user UserID) []ChatID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []ChatID
	for id, chat := range m.rooms {
		if chat.base().isParticipant(user) {
			out = append(out, id)
		}
	}
	slices.SortFunc(out, func(a, b ChatID) int {
		return cmp.Compare(m.sequence[a], m.sequence[b])
	})
	return out
}

// Participants returns the chat's members in join order.
func (m *Manager) Participants(id ChatID) []UserID {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chat, ok := m.rooms[id]
	if !ok {
		return nil
	}
	return chat.base().snapshotParticipants()
}

// Chat returns a snapshot of the chat.
func (m *Manager) Chat(id ChatID) (ChatInfo, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	chat, ok := m.rooms[id]
	if !ok {
		return ChatInfo{}, false
	}
	b := chat.base()
	admin, _ := chat.AdminID()
	return ChatInfo{
		ID:           b.id,
		Name:         b.name,
		Kind:         chat.Kind(),
		AdminID:      admin,
		Participants: b.snapshotParticipants(),
		MessageCount: len(b.messages),
		CreatedAt:    b.createdAt,
	}, true
}

// ChatCount returns the number of live chats.
func (m *Manager) ChatCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.rooms)
}

func (m *Manager) insert(chat room) {
	id := chat.base().id
	m.nextSeq++
	m.rooms[id] = chat
	m.sequence[id] = m.nextSeq
}

func (m *Manager) erase(id ChatID) {
	delete(m.rooms, id)
	delete(m.sequence, id)
}
