// Package sqlite provides a SQLite-backed steplog.Recorder.
//
// WAL mode is enabled on Open so readers never block the writer.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jcmexdev/chaos-orders/internal/coordinator/steplog"

	// Pure-Go driver, no CGO.
	_ "modernc.org/sqlite"
)

// schema is append-only: each row is an immutable transition.
const schema = `
CREATE TABLE IF NOT EXISTS step_logs (
    id              INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id        TEXT        NOT NULL,
    state           TEXT        NOT NULL,
    step            TEXT        NOT NULL DEFAULT '',
    payload         TEXT,
    error_messages  TEXT        NOT NULL DEFAULT '[]',
    trace_id        TEXT        NOT NULL DEFAULT '',
    span_id         TEXT        NOT NULL DEFAULT '',
    updated_at      TEXT        NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_step_logs_order_id ON step_logs(order_id, id);
CREATE INDEX IF NOT EXISTS idx_step_logs_trace_id ON step_logs(trace_id);
`

// Repository is the SQLite implementation of steplog.Recorder.
type Repository struct {
	db *sql.DB
}

// Open opens (or creates) the SQLite database at path and applies the schema.
//
//	repo, err := sqlite.Open("./data/steps.db")
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// Single writer connection.
	db.SetMaxOpenConns(1)

	if err := applySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repository{db: db}, nil
}

// Close releases the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Save inserts a new entry. It is safe to call concurrently.
func (r *Repository) Save(ctx context.Context, entry *steplog.Entry) error {
	const q = `
		INSERT INTO step_logs
			(order_id, state, step, payload, error_messages, trace_id, span_id, updated_at)
		VALUES
			(?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		entry.OrderID,
		entry.State,
		entry.Step,
		nullableString(entry.Payload),
		entry.ErrorMessages,
		entry.TraceID,
		entry.SpanID,
		formatTime(entry.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save step log for %q: %w", entry.OrderID, err)
	}
	return nil
}

// List returns every entry for orderID in insertion order.
func (r *Repository) List(ctx context.Context, orderID string) ([]*steplog.Entry, error) {
	const q = `
		SELECT order_id, state, step, COALESCE(payload,''), error_messages,
		       trace_id, span_id, updated_at
		FROM   step_logs
		WHERE  order_id = ?
		ORDER  BY id ASC`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list %q: %w", orderID, err)
	}
	defer rows.Close()

	var out []*steplog.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: list %q: %w", orderID, err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list %q: %w", orderID, err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (*steplog.Entry, error) {
	var entry steplog.Entry
	var updatedAt string
	if err := s.Scan(
		&entry.OrderID,
		&entry.State,
		&entry.Step,
		&entry.Payload,
		&entry.ErrorMessages,
		&entry.TraceID,
		&entry.SpanID,
		&updatedAt,
	); err != nil {
		return nil, err
	}

	t, err := parseTime(updatedAt)
	if err != nil {
		return nil, err
	}
	entry.UpdatedAt = t
	return &entry, nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("sqlite: apply schema: %w", err)
	}
	return nil
}

// nullableString stores NULL instead of an empty payload.
func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
