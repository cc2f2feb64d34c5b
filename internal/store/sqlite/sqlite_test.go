package sqlite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/vovakirdan/townsquare-server/internal/store"
)

func seedMessages(t *testing.T, s *SQLiteStore, townID string, n int) []store.ChatRecord {
	t.Helper()
	ctx := context.Background()
	records := make([]store.ChatRecord, 0, n)
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		rec := store.ChatRecord{
			ID:         fmt.Sprintf("%s-msg-%d", townID, i),
			TownID:     townID,
			SenderID:   "player-1",
			SenderName: "ann",
			Body:       fmt.Sprintf("message %d", i),
			SentAt:     base.Add(time.Duration(i) * time.Second),
		}
		if err := s.SaveMessage(ctx, rec); err != nil {
			t.Fatalf("save message %d: %v", i, err)
		}
		records = append(records, rec)
	}
	return records
}

func TestListMessagesNewestFirstWithPaging(t *testing.T) {
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer s.Close()

	saved := seedMessages(t, s, "town-a", 5)
	seedMessages(t, s, "town-b", 2)

	ctx := context.Background()

	page, err := s.ListMessages(ctx, "town-a", "", 3)
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("first page size = %d, want 3", len(page))
	}
	// Newest first.
	if page[0].ID != saved[4].ID || page[2].ID != saved[2].ID {
		t.Fatalf("unexpected first page order: %s .. %s", page[0].ID, page[2].ID)
	}

	rest, err := s.ListMessages(ctx, "town-a", page[2].ID, 10)
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(rest) != 2 || rest[0].ID != saved[1].ID || rest[1].ID != saved[0].ID {
		t.Fatalf("unexpected second page: %+v", rest)
	}
}

func TestListMessagesTownIsolation(t *testing.T) {
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer s.Close()

	seedMessages(t, s, "town-a", 3)
	seedMessages(t, s, "town-b", 1)

	ctx := context.Background()

	got, err := s.ListMessages(ctx, "town-b", "", 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].TownID != "town-b" {
		t.Fatalf("expected only town-b messages, got %+v", got)
	}

	empty, err := s.ListMessages(ctx, "town-c", "", 10)
	if err != nil {
		t.Fatalf("list unknown town: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("unknown town should have no messages, got %d", len(empty))
	}
}

func TestSaveMessageRoundTripsFields(t *testing.T) {
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()
	sentAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	rec := store.ChatRecord{
		ID:         "msg-1",
		TownID:     "town-a",
		SenderID:   "player-9",
		SenderName: "bob",
		Body:       "hello town",
		SentAt:     sentAt,
	}
	if err := s.SaveMessage(ctx, rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := s.ListMessages(ctx, "town-a", "", 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}
	r := got[0]
	if r.ID != rec.ID || r.SenderID != rec.SenderID || r.SenderName != rec.SenderName || r.Body != rec.Body {
		t.Fatalf("record mismatch: %+v", r)
	}
	if !r.SentAt.Equal(sentAt) {
		t.Fatalf("sent_at = %v, want %v", r.SentAt, sentAt)
	}
}
