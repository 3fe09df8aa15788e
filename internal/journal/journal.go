// Package journal records every attempt to replace the FAQ data in SQLite.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Status is the outcome of an update attempt.
type Status string

const (
	StatusApplied   Status = "applied"
	StatusRejected  Status = "rejected"
	StatusUnchanged Status = "unchanged"
)

// Entry is one row of the journal.
type Entry struct {
	ID         string    `json:"id"`
	At         time.Time `json:"at"`
	Source     string    `json:"source"`
	Status     Status    `json:"status"`
	Detail     string    `json:"detail,omitempty"`
	Digest     string    `json:"digest,omitempty"`
	Categories int       `json:"categories"`
	Questions  int       `json:"questions"`
}

// Recorder is the write side used by the updater.
type Recorder interface {
	Record(ctx context.Context, e Entry) error
}

// Nop discards entries. It is used when no journal path is configured.
type Nop struct{}

func (Nop) Record(context.Context, Entry) error { return nil }

const schema = `
CREATE TABLE IF NOT EXISTS updates (
	id TEXT PRIMARY KEY,
	at INTEGER NOT NULL,
	source TEXT NOT NULL,
	status TEXT NOT NULL,
	detail TEXT NOT NULL DEFAULT '',
	digest TEXT NOT NULL DEFAULT '',
	categories INTEGER NOT NULL DEFAULT 0,
	questions INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_updates_at ON updates(at);
`

// Journal is a SQLite-backed Recorder.
type Journal struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Journal{db: db, now: time.Now}, nil
}

func (j *Journal) Close() error {
	return j.db.Close()
}

// Record stores e. A missing ID or timestamp is filled in.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = j.now()
	}
	_, err := j.db.ExecContext(ctx, `
		INSERT INTO updates (id, at, source, status, detail, digest, categories, questions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.At.UnixNano(), e.Source, string(e.Status), e.Detail, e.Digest, e.Categories, e.Questions)
	if err != nil {
		return fmt.Errorf("record update: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT id, at, source, status, detail, digest, categories, questions
		FROM updates ORDER BY at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query updates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var (
			e      Entry
			at     int64
			status string
		)
		if err := rows.Scan(&e.ID, &at, &e.Source, &status, &e.Detail, &e.Digest, &e.Categories, &e.Questions); err != nil {
			return nil, fmt.Errorf("scan update: %w", err)
		}
		e.At = time.Unix(0, at)
		e.Status = Status(status)
		out = append(out, e)
	}
	return out, rows.Err()
}
