package core

import (
	"time"

	"github.com/google/uuid"
)

// EditWindow is how long after sending an author may still edit or remove a message.
const EditWindow = 60 * time.Minute

// MessageID identifies a message across the whole system.
type MessageID = uuid.UUID

// Message is the domain model for a chat message.
// Only Text and Edited ever change after construction, and only together.
type Message struct {
	ID       MessageID
	AuthorID UserID
	Text     string
	SentAt   time.Time
	Edited   bool
}

func newMessage(author UserID, text string, now time.Time) Message {
	return Message{
		ID:       uuid.New(),
		AuthorID: author,
		Text:     text,
		SentAt:   now,
	}
}

func (m *Message) changeText(text string) {
	m.Text = text
	m.Edited = true
}

// withinWindow reports whether the author may still act on the message.
// Exactly EditWindow after sending is still inside the window.
func (m *Message) withinWindow(now time.Time) bool {
	return now.Sub(m.SentAt) <= EditWindow
}
