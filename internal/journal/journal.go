// Package journal persists the outcome of dispatch runs in a SQLite
// database so past batches can be inspected after the fact. The journal is
// an audit trail only: nothing reads it to decide future behavior, and a
// run that cannot be journaled still happened.
package journal

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is bumped when the schema changes; an existing database
// with another version is rejected rather than migrated.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database was created by an incompatible
// version. Delete the journal file to start fresh.
var ErrSchemaMismatch = errors.New("journal schema version mismatch")

// Run is one recorded batch.
type Run struct {
	ID         string
	Operation  string // "place" or "clean"
	Root       string
	StartedAt  time.Time
	FinishedAt time.Time
	Succeeded  int
	Failed     int
	Entries    []EntryRecord
}

// EntryRecord is the outcome of one entry within a run.
type EntryRecord struct {
	Filename    string
	Destination string
	Outcome     string // "ok", "skipped", or "failed"
	FailureKind string
	Detail      string
}

// Store manages journal persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to the journal database at path, creating it (and its
// parent directory) on first use.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("applying pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the journal file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableExists == 0 {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning schema tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
		if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
			return fmt.Errorf("recording schema version: %w", err)
		}
		return tx.Commit()
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to reset)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

// RecordRun persists a run and its per-entry outcomes in one transaction.
// A missing ID is filled in; the generated or provided ID is returned.
func (s *Store) RecordRun(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning run tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, operation, root, started_at, finished_at, succeeded, failed)
         VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.ID,
		run.Operation,
		run.Root,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
		run.Succeeded,
		run.Failed,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for i, entry := range run.Entries {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO run_entries (run_id, position, filename, destination, outcome, failure_kind, detail)
             VALUES (?, ?, ?, ?, ?, ?, ?)`,
			run.ID,
			i,
			entry.Filename,
			entry.Destination,
			entry.Outcome,
			nullableString(entry.FailureKind),
			nullableString(entry.Detail),
		)
		if err != nil {
			return "", fmt.Errorf("inserting run entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return run.ID, nil
}

// ListRuns returns the most recent runs, newest first, without their
// entries. Limit <= 0 means a default of 20.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, operation, root, started_at, finished_at, succeeded, failed
         FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var started, finished string
		if err := rows.Scan(&run.ID, &run.Operation, &run.Root, &started, &finished, &run.Succeeded, &run.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("parsing started_at: %w", err)
		}
		if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
			return nil, fmt.Errorf("parsing finished_at: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// GetRun returns one run with its entries. sql.ErrNoRows if absent.
func (s *Store) GetRun(ctx context.Context, id string) (*Run, error) {
	var run Run
	var started, finished string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, operation, root, started_at, finished_at, succeeded, failed
         FROM runs WHERE id = ?`, id).
		Scan(&run.ID, &run.Operation, &run.Root, &started, &finished, &run.Succeeded, &run.Failed)
	if err != nil {
		return nil, err
	}
	if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("parsing started_at: %w", err)
	}
	if run.FinishedAt, err = time.Parse(time.RFC3339Nano, finished); err != nil {
		return nil, fmt.Errorf("parsing finished_at: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT filename, destination, outcome, failure_kind, detail
         FROM run_entries WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying run entries: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var entry EntryRecord
		var kind, detail sql.NullString
		if err := rows.Scan(&entry.Filename, &entry.Destination, &entry.Outcome, &kind, &detail); err != nil {
			return nil, fmt.Errorf("scanning run entry: %w", err)
		}
		entry.FailureKind = kind.String
		entry.Detail = detail.String
		run.Entries = append(run.Entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &run, nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
