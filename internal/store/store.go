package store

import (
	"context"
	"time"
)

// ChatRecord is a chat message as handed off for storage. The core never
// reads history back; only the HTTP history endpoint does.
type ChatRecord struct {
	ID         string
	TownID     string
	SenderID   string
	SenderName string
	Body       string
	SentAt     time.Time
}

// MessageStore persists chat messages handed off after a successful
// broadcast and pages them back out for the history API.
type MessageStore interface {
	// SaveMessage persists one record.
	SaveMessage(ctx context.Context, rec ChatRecord) error

	// ListMessages returns up to limit records for the town, newest first.
	// When beforeID names a stored message, only records older than it are
	// returned; an empty beforeID starts from the newest.
	ListMessages(ctx context.Context, townID, beforeID string, limit int) ([]ChatRecord, error)

	// Close releases the underlying resources.
	Close() error
}
