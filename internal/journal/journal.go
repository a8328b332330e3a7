package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Event source values.
const (
	SourceListener = "listener"
	SourceBeat     = "beat"
	SourceReply    = "reply"
)

// Event is a single recorded notification.
type Event struct {
	// ID is the UUID assigned when the event was recorded.
	ID string `json:"id"`

	// Address is the OSC address the notification was sent on.
	Address string `json:"address"`

	// Args is the argument list as it left the bridge. Numbers come back
	// as float64 after the JSON round trip.
	Args []any `json:"args"`

	// Source identifies what produced the notification (listener, beat, reply).
	Source string `json:"source"`

	// CreatedAt is the emission timestamp (UTC).
	CreatedAt time.Time `json:"created_at"`
}

// Recorder stores and retrieves emitted notifications.
//
// Implementations must be safe for concurrent use.
type Recorder interface {
	// Record persists one notification.
	Record(ctx context.Context, address string, args []any, source string) error

	// Recent returns the newest events, optionally filtered by address.
	// An empty address matches everything.
	Recent(ctx context.Context, address string, limit int) ([]Event, error)
}

// Journal implements Recorder on SQLite. It expects the events table
// created by the embedded migrations.
type Journal struct {
	db *sql.DB
}

// New creates a journal over an open database connection.
func New(db *sql.DB) *Journal {
	return &Journal{db: db}
}

// Record inserts one event row. An empty source defaults to listener.
func (j *Journal) Record(ctx context.Context, address string, args []any, source string) error {
	if address == "" {
		return ErrEmptyAddress
	}
	if source == "" {
		source = SourceListener
	}
	if args == nil {
		args = []any{}
	}

	argsJSON, err := json.Marshal(args)
	if err != nil {
		return fmt.Errorf("journal: marshalling args: %w", err)
	}

	_, err = j.db.ExecContext(ctx,
		"INSERT INTO events (id, address, args, source, created_at) VALUES (?, ?, ?, ?, ?)",
		uuid.NewString(),
		address,
		string(argsJSON),
		source,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("journal: inserting event: %w", err)
	}
	return nil
}

// Recent returns events ordered newest first. The limit defaults to 50 and
// is clamped to 200.
func (j *Journal) Recent(ctx context.Context, address string, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	query := `SELECT id, address, args, source, created_at
		 FROM events`
	queryArgs := []any{}
	if address != "" {
		query += " WHERE address = ?"
		queryArgs = append(queryArgs, address)
	}
	query += " ORDER BY created_at DESC LIMIT ?"
	queryArgs = append(queryArgs, limit)

	rows, err := j.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("journal: querying events: %w", err)
	}
	defer rows.Close()

	events := make([]Event, 0, limit)
	for rows.Next() {
		var e Event
		var argsJSON, createdAt string

		if err := rows.Scan(&e.ID, &e.Address, &argsJSON, &e.Source, &createdAt); err != nil {
			return nil, fmt.Errorf("journal: scanning event: %w", err)
		}
		if err := json.Unmarshal([]byte(argsJSON), &e.Args); err != nil {
			return nil, fmt.Errorf("journal: unmarshalling args: %w", err)
		}
		ts, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("journal: parsing created_at: %w", err)
		}
		e.CreatedAt = ts

		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: iterating events: %w", err)
	}
	return events, nil
}

// Prune deletes events older than the retention window and reports how many
// rows were removed.
func (j *Journal) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, ErrBadRetention
	}

	cutoff := time.Now().UTC().Add(-retention).Format(time.RFC3339Nano)
	result, err := j.db.ExecContext(ctx, "DELETE FROM events WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("journal: deleting events: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("journal: checking rows affected: %w", err)
	}
	return deleted, nil
}
