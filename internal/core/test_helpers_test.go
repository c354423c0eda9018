package core

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
)

// fixture bundles a registry and a manager driven by a mock clock.
type fixture struct {
	users *Registry
	chats *Manager
	clock *clock.Mock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	clk := clock.NewMock()
	clk.Set(time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC))

	users := NewRegistry()
	return &fixture{
		users: users,
		chats: NewManager(users, clk),
		clock: clk,
	}
}

func (f *fixture) register(name string) UserID {
	return f.users.Register(name)
}

func (f *fixture) personalChat(t *testing.T, a, b UserID) ChatID {
	t.Helper()

	id, err := f.chats.CreatePersonalChat("Chat", a, b)
	require.NoError(t, err)
	return id
}

func (f *fixture) openGroup(t *testing.T, admin UserID, members ...UserID) ChatID {
	t.Helper()

	id, err := f.chats.CreateOpenGroup("Open Group", admin)
	require.NoError(t, err)
	for _, member := range members {
		require.NoError(t, f.chats.AddParticipant(id, admin, member))
	}
	return id
}

func (f *fixture) closeGroup(t *testing.T, admin UserID, members ...UserID) ChatID {
	t.Helper()

	id, err := f.chats.CreateCloseGroup("Close Group", admin)
	require.NoError(t, err)
	for _, member := range members {
		require.NoError(t, f.chats.AddParticipant(id, admin, member))
	}
	return id
}

func (f *fixture) send(t *testing.T, chat ChatID, from UserID, text string) MessageID {
	t.Helper()

	id, err := f.chats.SendMessage(chat, from, text)
	require.NoError(t, err)
	return id
}
