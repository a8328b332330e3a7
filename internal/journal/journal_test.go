package journal

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// setupJournalDB creates an in-memory SQLite database with the events table.
func setupJournalDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE events (
			id TEXT PRIMARY KEY,
			address TEXT NOT NULL,
			args TEXT NOT NULL DEFAULT '[]',
			source TEXT NOT NULL DEFAULT 'listener',
			created_at TEXT NOT NULL
		) STRICT;
		CREATE INDEX idx_events_address ON events(address, created_at DESC);
		CREATE INDEX idx_events_time ON events(created_at DESC);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})
	return db
}

// insertEventRow inserts an event with a specific timestamp.
func insertEventRow(t *testing.T, db *sql.DB, id, address, argsJSON string, createdAt time.Time) {
	t.Helper()

	_, err := db.Exec(
		"INSERT INTO events (id, address, args, source, created_at) VALUES (?, ?, ?, 'listener', ?)",
		id, address, argsJSON, createdAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		t.Fatalf("failed to insert event row: %v", err)
	}
}

func TestRecord_RoundTrip(t *testing.T) {
	j := New(setupJournalDB(t))
	ctx := context.Background()

	if err := j.Record(ctx, "/live/song/get/tempo", []any{130.5}, SourceListener); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	events, err := j.Recent(ctx, "", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events length = %d, want 1", len(events))
	}

	e := events[0]
	if e.ID == "" {
		t.Error("event ID is empty, want generated UUID")
	}
	if e.Address != "/live/song/get/tempo" {
		t.Errorf("Address = %q, want /live/song/get/tempo", e.Address)
	}
	if len(e.Args) != 1 || e.Args[0] != 130.5 {
		t.Errorf("Args = %v, want [130.5]", e.Args)
	}
	if e.Source != SourceListener {
		t.Errorf("Source = %q, want %q", e.Source, SourceListener)
	}
	if e.CreatedAt.IsZero() {
		t.Error("CreatedAt is zero")
	}
}

func TestRecord_Defaults(t *testing.T) {
	j := New(setupJournalDB(t))
	ctx := context.Background()

	if err := j.Record(ctx, "/live/song/get/beat", nil, ""); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	events, err := j.Recent(ctx, "", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("events length = %d, want 1", len(events))
	}
	if events[0].Source != SourceListener {
		t.Errorf("Source = %q, want %q", events[0].Source, SourceListener)
	}
	if events[0].Args == nil || len(events[0].Args) != 0 {
		t.Errorf("Args = %v, want empty slice", events[0].Args)
	}
}

func TestRecord_RequiresAddress(t *testing.T) {
	j := New(setupJournalDB(t))

	err := j.Record(context.Background(), "", []any{1}, SourceListener)
	if !errors.Is(err, ErrEmptyAddress) {
		t.Fatalf("Record() error = %v, want ErrEmptyAddress", err)
	}
}

func TestRecent_OrderAndFilter(t *testing.T) {
	db := setupJournalDB(t)
	j := New(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	insertEventRow(t, db, "a", "/live/song/get/tempo", `[120]`, base)
	insertEventRow(t, db, "b", "/live/song/get/beat", `[1]`, base.Add(time.Second))
	insertEventRow(t, db, "c", "/live/song/get/tempo", `[125]`, base.Add(2*time.Second))

	t.Run("newest first", func(t *testing.T) {
		events, err := j.Recent(ctx, "", 10)
		if err != nil {
			t.Fatalf("Recent() error = %v", err)
		}
		if len(events) != 3 {
			t.Fatalf("events length = %d, want 3", len(events))
		}
		if events[0].ID != "c" || events[2].ID != "a" {
			t.Errorf("order = [%s %s %s], want [c b a]",
				events[0].ID, events[1].ID, events[2].ID)
		}
	})

	t.Run("address filter", func(t *testing.T) {
		events, err := j.Recent(ctx, "/live/song/get/tempo", 10)
		if err != nil {
			t.Fatalf("Recent() error = %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("events length = %d, want 2", len(events))
		}
		for _, e := range events {
			if e.Address != "/live/song/get/tempo" {
				t.Errorf("Address = %q, want /live/song/get/tempo", e.Address)
			}
		}
	})

	t.Run("limit applies", func(t *testing.T) {
		events, err := j.Recent(ctx, "", 2)
		if err != nil {
			t.Fatalf("Recent() error = %v", err)
		}
		if len(events) != 2 {
			t.Fatalf("events length = %d, want 2", len(events))
		}
	})
}

func TestPrune(t *testing.T) {
	db := setupJournalDB(t)
	j := New(db)
	ctx := context.Background()

	insertEventRow(t, db, "old", "/live/song/get/tempo", `[120]`, time.Now().UTC().Add(-48*time.Hour))
	insertEventRow(t, db, "new", "/live/song/get/tempo", `[125]`, time.Now().UTC())

	deleted, err := j.Prune(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("Prune() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}

	events, err := j.Recent(ctx, "", 10)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if len(events) != 1 || events[0].ID != "new" {
		t.Errorf("remaining events = %v, want only id new", events)
	}
}

func TestPrune_RejectsNonPositiveRetention(t *testing.T) {
	j := New(setupJournalDB(t))

	if _, err := j.Prune(context.Background(), 0); !errors.Is(err, ErrBadRetention) {
		t.Fatalf("Prune() error = %v, want ErrBadRetention", err)
	}
}
