package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/vovakirdan/townsquare-server/internal/store"
)

const schema = `
CREATE TABLE IF NOT EXISTS messages (
	id          TEXT PRIMARY KEY,
	town_id     TEXT NOT NULL,
	sender_id   TEXT NOT NULL,
	sender_name TEXT NOT NULL,
	body        TEXT NOT NULL,
	sent_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_messages_town ON messages(town_id, rowid DESC);
`

// SQLiteStore implements store.MessageStore for SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a SQLite store at dbPath and applies the schema.
func New(dbPath string) (*SQLiteStore, error) {
	return NewWithSetup(dbPath, nil)
}

// NewWithSetup creates a SQLite store and runs an extra setup function after
// the schema is applied. Useful for tests to seed data.
func NewWithSetup(dbPath string, setup func(*sql.DB) error) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	if setup != nil {
		if err := setup(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("setup: %w", err)
		}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveMessage persists one chat record.
func (s *SQLiteStore) SaveMessage(ctx context.Context, rec store.ChatRecord) error {
	query := `
		INSERT INTO messages (id, town_id, sender_id, sender_name, body, sent_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	if _, err := s.db.ExecContext(ctx, query, rec.ID, rec.TownID, rec.SenderID, rec.SenderName, rec.Body, rec.SentAt); err != nil {
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

// ListMessages returns up to limit records for the town, newest first,
// strictly older than beforeID when it names a stored message.
func (s *SQLiteStore) ListMessages(ctx context.Context, townID, beforeID string, limit int) ([]store.ChatRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT id, town_id, sender_id, sender_name, body, sent_at
		FROM messages
		WHERE town_id = ?
		  AND (? = '' OR rowid < COALESCE((SELECT rowid FROM messages WHERE id = ?), 9223372036854775807))
		ORDER BY rowid DESC
		LIMIT ?
	`
	rows, err := s.db.QueryContext(ctx, query, townID, beforeID, beforeID, limit)
	if err != nil {
		return nil, fmt.Errorf("query messages: %w", err)
	}
	defer rows.Close()

	var records []store.ChatRecord
	for rows.Next() {
		var rec store.ChatRecord
		if err := rows.Scan(&rec.ID, &rec.TownID, &rec.SenderID, &rec.SenderName, &rec.Body, &rec.SentAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}
	return records, nil
}

var _ store.MessageStore = (*SQLiteStore)(nil)
