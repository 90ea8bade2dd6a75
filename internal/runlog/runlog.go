// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runlog persists run history in SQLite so the best-effort
// degradations of the fetch stage leave a durable audit trail.
// See docs/ARCHITECTURE.md § Run Log.
package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paw-tracker/internal/fetch"
)

// Store manages the run-log SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the run-log database at path, creating the parent
// directory and the schema as needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating run-log directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening run-log database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating run-log schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at TEXT NOT NULL,
			window_start TEXT NOT NULL,
			window_end TEXT NOT NULL,
			buckets INTEGER NOT NULL,
			fallbacks INTEGER NOT NULL,
			fetched INTEGER NOT NULL,
			added INTEGER NOT NULL,
			classified INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS slice_failures (
			run_id INTEGER NOT NULL REFERENCES runs(id),
			bucket TEXT NOT NULL,
			pub_year INTEGER NOT NULL,
			kind TEXT NOT NULL,
			message TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_slice_failures_run ON slice_failures(run_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RunSummary is everything one pipeline run reports about itself.
type RunSummary struct {
	StartedAt   time.Time
	WindowStart time.Time
	WindowEnd   time.Time
	Buckets     int
	Fallbacks   int
	Fetched     int
	Added       int
	Classified  int
	Failures    []fetch.SliceFailure
}

const dateFmt = "2006-01-02"

// Record inserts one run and its slice failures in a single transaction.
func (s *Store) Record(ctx context.Context, run RunSummary) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO runs (started_at, window_start, window_end, buckets, fallbacks, fetched, added, classified)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339),
		run.WindowStart.Format(dateFmt),
		run.WindowEnd.Format(dateFmt),
		run.Buckets, run.Fallbacks, run.Fetched, run.Added, run.Classified,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	runID, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading run id: %w", err)
	}

	for _, f := range run.Failures {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO slice_failures (run_id, bucket, pub_year, kind, message)
			 VALUES (?, ?, ?, ?, ?)`,
			runID, f.Bucket.Format(dateFmt), f.PubYear, f.Kind, f.Message,
		)
		if err != nil {
			return fmt.Errorf("inserting slice failure: %w", err)
		}
	}

	return tx.Commit()
}

// RunRow is one persisted run as read back for history listings.
type RunRow struct {
	ID          int64
	StartedAt   string
	WindowStart string
	WindowEnd   string
	Buckets     int
	Fallbacks   int
	Fetched     int
	Added       int
	Classified  int
	Failures    int
}

// Recent returns the newest runs, most recent first, each with its slice
// failure count.
func (s *Store) Recent(ctx context.Context, limit int) ([]RunRow, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.started_at, r.window_start, r.window_end,
		        r.buckets, r.fallbacks, r.fetched, r.added, r.classified,
		        (SELECT COUNT(*) FROM slice_failures f WHERE f.run_id = r.id)
		 FROM runs r ORDER BY r.id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var out []RunRow
	for rows.Next() {
		var r RunRow
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.WindowStart, &r.WindowEnd,
			&r.Buckets, &r.Fallbacks, &r.Fetched, &r.Added, &r.Classified, &r.Failures); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// FailuresFor returns the slice failures recorded for one run.
func (s *Store) FailuresFor(ctx context.Context, runID int64) ([]fetch.SliceFailure, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT bucket, pub_year, kind, message FROM slice_failures WHERE run_id = ?`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying slice failures: %w", err)
	}
	defer rows.Close()

	var out []fetch.SliceFailure
	for rows.Next() {
		var bucket string
		var f fetch.SliceFailure
		if err := rows.Scan(&bucket, &f.PubYear, &f.Kind, &f.Message); err != nil {
			return nil, fmt.Errorf("scanning slice failure: %w", err)
		}
		f.Bucket, _ = time.Parse(dateFmt, bucket)
		out = append(out, f)
	}
	return out, rows.Err()
}
