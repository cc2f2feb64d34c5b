package core

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is the domain model for a chat message. Immutable once
// constructed; ordering is send-time order within a single town.
type ChatMessage struct {
	ID     string    `json:"id"`
	Sender *Player   `json:"sender"`
	Body   string    `json:"message"`
	SentAt time.Time `json:"timestamp"`
}

// NewChatMessage constructs a message with a fresh id and the current time.
func NewChatMessage(sender *Player, body string) ChatMessage {
	return ChatMessage{
		ID:     uuid.NewString(),
		Sender: sender,
		Body:   body,
		SentAt: time.Now(),
	}
}
