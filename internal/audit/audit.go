// SPDX-License-Identifier: MIT

// Package audit records who changed the video list and when. Every store
// mutation lands in a local sqlite database and is echoed to the structured
// log; the remote document itself keeps no history, so this trail is the only
// way to reconstruct what happened after a bad overwrite.
package audit

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	xlog "github.com/rsvideo/console/internal/log"
)

// Op identifies the audited store operation.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpBatch  Op = "batch_insert"
	OpUpload Op = "document_upload"
)

// Event is one audited mutation.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Op        Op        `json:"op"`
	RecordID  string    `json:"recordId,omitempty"`
	Actor     string    `json:"actor"`  // username or remote address
	Result    string    `json:"result"` // persisted, pending, rejected
	Detail    string    `json:"detail,omitempty"`
}

const schema = `
CREATE TABLE IF NOT EXISTS audit_events (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	ts        TEXT NOT NULL,
	op        TEXT NOT NULL,
	record_id TEXT,
	actor     TEXT NOT NULL,
	result    TEXT NOT NULL,
	detail    TEXT
);
CREATE INDEX IF NOT EXISTS idx_audit_events_ts ON audit_events (ts);
`

// Trail is a sqlite-backed audit log.
type Trail struct {
	db *sql.DB
}

// Open opens (or creates) the audit database at path.
func Open(path string) (*Trail, error) {
	dsn := fmt.Sprintf("file:%s?_busy_timeout=2000", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open audit database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create audit schema: %w", err)
	}
	return &Trail{db: db}, nil
}

// Record stores one event. Audit failures are logged but never block the
// mutation that triggered them.
func (t *Trail) Record(ctx context.Context, ev Event) {
	if ev.Timestamp.IsZero() {
		ev.Timestamp = time.Now()
	}

	logger := xlog.WithComponent("audit")
	logger.Info().
		Str("op", string(ev.Op)).
		Str("record_id", ev.RecordID).
		Str("actor", ev.Actor).
		Str("result", ev.Result).
		Msg("mutation")

	_, err := t.db.ExecContext(ctx,
		`INSERT INTO audit_events (ts, op, record_id, actor, result, detail) VALUES (?, ?, ?, ?, ?, ?)`,
		ev.Timestamp.UTC().Format(time.RFC3339Nano), string(ev.Op), ev.RecordID, ev.Actor, ev.Result, ev.Detail)
	if err != nil {
		logger.Warn().Err(err).Msg("audit insert failed")
	}
}

// Recent returns up to limit events, newest first.
func (t *Trail) Recent(ctx context.Context, limit int) ([]Event, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := t.db.QueryContext(ctx,
		`SELECT ts, op, record_id, actor, result, detail FROM audit_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var ev Event
		var ts, recordID, detail sql.NullString
		var op string
		if err := rows.Scan(&ts, &op, &recordID, &ev.Actor, &ev.Result, &detail); err != nil {
			return nil, fmt.Errorf("scan audit event: %w", err)
		}
		ev.Op = Op(op)
		ev.RecordID = recordID.String
		ev.Detail = detail.String
		if parsed, perr := time.Parse(time.RFC3339Nano, ts.String); perr == nil {
			ev.Timestamp = parsed
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Close releases the database handle.
func (t *Trail) Close() error {
	return t.db.Close()
}
