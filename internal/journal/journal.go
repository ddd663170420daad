// Package journal provides a durable audit trail of console events.
//
// Every identity change and privileged mutation is appended to a SQLite
// event log. The journal is advisory: a failed append is reported via
// the logger and never interrupts the command loop.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Event kinds recorded by the console.
const (
	KindIdentityChanged  = "identity_changed"
	KindIdentityRejected = "identity_rejected"
	KindRecordInserted   = "record_inserted"
	KindStoreWiped       = "store_wiped"
	KindWipeDeclined     = "wipe_declined"
)

// Event is one journal entry.
type Event struct {
	Seq       int64
	SessionID string
	At        time.Time
	Kind      string
	Detail    string
}

// Clock abstracts wall time so tests can inject a deterministic one.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Journal is the SQLite-backed event log.
type Journal struct {
	db    *sql.DB
	clock Clock
}

// Open creates or opens the journal database at path (":memory:" for an
// ephemeral journal). Applies pragmas and the schema; idempotent. A nil
// clock means wall time.
func Open(path string, clock Clock) (*Journal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect journal: %w", err)
	}

	// SQLite supports one writer at a time; a single connection avoids
	// SQLITE_BUSY and keeps :memory: databases coherent.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply journal schema: %w", err)
	}

	if clock == nil {
		clock = systemClock{}
	}
	return &Journal{db: db, clock: clock}, nil
}

// Close closes the journal database.
func (j *Journal) Close() error {
	if j.db == nil {
		return nil
	}
	return j.db.Close()
}

// Record appends one event. The timestamp comes from the journal's
// clock; the sequence number is assigned by the database.
func (j *Journal) Record(ctx context.Context, sessionID, kind, detail string) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO events (session_id, at_unix_ms, kind, detail)
		VALUES (?, ?, ?, ?)
	`, sessionID, j.clock.Now().UnixMilli(), kind, detail)
	if err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

// Tail returns up to limit events, newest first.
func (j *Journal) Tail(ctx context.Context, limit int) ([]Event, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT seq, session_id, at_unix_ms, kind, detail
		FROM events
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("tail events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var e Event
		var ms int64
		if err := rows.Scan(&e.Seq, &e.SessionID, &ms, &e.Kind, &e.Detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		e.At = time.UnixMilli(ms).UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("tail events: %w", err)
	}
	return out, nil
}
