// Package history persists finished extraction records so past submissions
// can be listed and exported. It is a presentation-side collaborator: the
// extraction core never reads it.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS extractions (
	id                TEXT PRIMARY KEY,
	kind              TEXT NOT NULL,
	source_name       TEXT NOT NULL,
	detected_language TEXT NOT NULL DEFAULT '',
	transcript        TEXT NOT NULL DEFAULT '',
	record_json       TEXT NOT NULL,
	created_at        TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_extractions_created_at ON extractions(created_at);
`

// Entry is one stored extraction. Kind is "IMAGE" or "AUDIO"; the language
// and transcript columns are empty for image submissions.
type Entry struct {
	ID               string    `json:"id"`
	Kind             string    `json:"kind"`
	SourceName       string    `json:"source_name"`
	DetectedLanguage string    `json:"detected_language,omitempty"`
	Transcript       string    `json:"transcript,omitempty"`
	RecordJSON       string    `json:"record_json"`
	CreatedAt        time.Time `json:"created_at"`
}

// Store wraps a SQLite database of extraction records.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database in dataDir and ensures the schema.
// Pass ":memory:" as dataDir for an in-memory database (used by tests).
func Open(dataDir string) (*Store, error) {
	var dsn string
	if dataDir == ":memory:" {
		dsn = ":memory:"
	} else {
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dsn = filepath.Join(dataDir, "proboutik.db")
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	// Limit to single connection to avoid "database is locked" errors.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Insert stores one extraction. A missing ID or CreatedAt is filled in.
func (s *Store) Insert(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO extractions (id, kind, source_name, detected_language, transcript, record_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Kind, e.SourceName, e.DetectedLanguage, e.Transcript, e.RecordJSON, e.CreatedAt,
	)
	if err != nil {
		return Entry{}, fmt.Errorf("inserting extraction: %w", err)
	}
	return e, nil
}

// List returns the most recent extractions, newest first. limit <= 0 means
// a default page of 100.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, source_name, detected_language, transcript, record_json, created_at
		 FROM extractions ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying extractions: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Kind, &e.SourceName, &e.DetectedLanguage, &e.Transcript, &e.RecordJSON, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning extraction: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) Close() error {
	return s.db.Close()
}
