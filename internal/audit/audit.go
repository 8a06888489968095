// Package audit keeps a SQLite trail of admin logins and record mutations.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	at         DATETIME NOT NULL,
	actor      TEXT NOT NULL DEFAULT '',
	action     TEXT NOT NULL,
	collection TEXT NOT NULL DEFAULT '',
	record_id  TEXT NOT NULL DEFAULT '',
	locale     TEXT NOT NULL DEFAULT '',
	outcome    TEXT NOT NULL,
	remote     TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_events_at ON events(at);
`

// Actions.
const (
	ActionLogin  = "login"
	ActionLogout = "logout"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Event is one audit trail entry.
type Event struct {
	ID         int64     `json:"id"`
	At         time.Time `json:"at"`
	Actor      string    `json:"actor"`
	Action     string    `json:"action"`
	Collection string    `json:"collection,omitempty"`
	RecordID   string    `json:"record_id,omitempty"`
	Locale     string    `json:"locale,omitempty"`
	Outcome    string    `json:"outcome"`
	Remote     string    `json:"remote,omitempty"`
}

// Recorder is implemented by *DB; consumers depend on it so tests can swap
// in Nop.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
	Recent(ctx context.Context, limit int) ([]Event, error)
}

// Verify *DB satisfies Recorder at compile time.
var _ Recorder = (*DB)(nil)

// DB wraps the audit database.
type DB struct {
	conn *sql.DB
	now  func() time.Time
}

// Open opens (or creates) the SQLite database at dsn and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("audit: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("audit: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("audit: apply schema: %w", err)
	}
	return &DB{conn: conn, now: time.Now}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Record appends ev. A zero At is stamped with the current time.
func (db *DB) Record(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = db.now()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO events (at, actor, action, collection, record_id, locale, outcome, remote)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, ev.At.UTC(), ev.Actor, ev.Action, ev.Collection, ev.RecordID, ev.Locale, ev.Outcome, ev.Remote)
	if err != nil {
		return fmt.Errorf("audit: insert: %w", err)
	}
	return nil
}

// Recent returns up to limit events, newest first.
func (db *DB) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, at, actor, action, collection, record_id, locale, outcome, remote
		FROM events
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("audit: query: %w", err)
	}
	defer rows.Close()

	out := []Event{}
	for rows.Next() {
		var ev Event
		if err := rows.Scan(&ev.ID, &ev.At, &ev.Actor, &ev.Action, &ev.Collection,
			&ev.RecordID, &ev.Locale, &ev.Outcome, &ev.Remote); err != nil {
			return nil, fmt.Errorf("audit: scan: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// Nop is a Recorder that keeps nothing.
type Nop struct{}

// Record discards ev.
func (Nop) Record(context.Context, Event) error { return nil }

// Recent returns no events.
func (Nop) Recent(context.Context, int) ([]Event, error) { return []Event{}, nil }
