// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrClosed       = errors.New("journal closed")
	ErrInvalidEntry = errors.New("invalid journal entry")
)

// =============================================================================
// ENTRY TYPES
// =============================================================================

// Entry is one applied completion.
type Entry struct {
	ID          string    `json:"id"`
	Controller  string    `json:"controller"`
	Command     string    `json:"command"`
	Input       string    `json:"input"`
	Output      string    `json:"output"`
	Replacement string    `json:"replacement"`
	CreatedAt   time.Time `json:"created_at"`
}

// CommandCount is the number of completions of one command.
type CommandCount struct {
	Command string `json:"command"`
	Count   int    `json:"count"`
}

// =============================================================================
// JOURNAL
// =============================================================================

// Journal persists applied completions in SQLite.
type Journal struct {
	db   *sql.DB
	path string
	mu   sync.RWMutex

	// MaxEntries prunes older entries after each Record (0 = unlimited)
	MaxEntries int
}

// Open opens or creates the journal database at path. ":memory:" opens a
// private in-memory journal.
func Open(path string) (*Journal, error) {
	if path == "" {
		return nil, errors.New("journal path cannot be empty")
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	j := &Journal{db: db, path: path}
	if err := j.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return j, nil
}

// initSchema creates the database schema
func (j *Journal) initSchema() error {
	if _, err := j.db.Exec(Schema); err != nil {
		return err
	}
	_, err := j.db.Exec(InitMetadata)
	return err
}

// Path returns the database path.
func (j *Journal) Path() string { return j.path }

// Close closes the database.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.db == nil {
		return nil
	}
	err := j.db.Close()
	j.db = nil
	return err
}

// conn returns the open database or ErrClosed. Caller holds j.mu.
func (j *Journal) conn() (*sql.DB, error) {
	if j.db == nil {
		return nil, ErrClosed
	}
	return j.db, nil
}

// =============================================================================
// WRITE OPERATIONS
// =============================================================================

// Record appends an entry. Missing IDs and timestamps are filled in.
func (j *Journal) Record(ctx context.Context, e Entry) error {
	if strings.TrimSpace(e.Command) == "" {
		return fmt.Errorf("%w: empty command", ErrInvalidEntry)
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	db, err := j.conn()
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx,
		`INSERT INTO completions (id, controller, command, input, output, replacement, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Controller, e.Command, e.Input, e.Output, e.Replacement, e.CreatedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}

	if j.MaxEntries > 0 {
		if _, err := prune(ctx, db, j.MaxEntries); err != nil {
			return err
		}
	}
	return nil
}

// Prune keeps the newest max entries and returns how many were removed.
func (j *Journal) Prune(ctx context.Context, max int) (int64, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	db, err := j.conn()
	if err != nil {
		return 0, err
	}
	return prune(ctx, db, max)
}

func prune(ctx context.Context, db *sql.DB, max int) (int64, error) {
	if max < 0 {
		max = 0
	}
	res, err := db.ExecContext(ctx,
		`DELETE FROM completions WHERE seq NOT IN (
			SELECT seq FROM completions ORDER BY seq DESC LIMIT ?
		)`, max)
	if err != nil {
		return 0, fmt.Errorf("failed to prune journal: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes every entry.
func (j *Journal) Clear(ctx context.Context) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	db, err := j.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM completions"); err != nil {
		return fmt.Errorf("failed to clear journal: %w", err)
	}
	return nil
}

// =============================================================================
// READ OPERATIONS
// =============================================================================

// Recent returns up to limit entries, newest first. An empty command
// returns entries for every command.
func (j *Journal) Recent(ctx context.Context, command string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	db, err := j.conn()
	if err != nil {
		return nil, err
	}

	query := `SELECT id, controller, command, input, output, replacement, created_at
		FROM completions`
	args := []any{}
	if command != "" {
		query += " WHERE command = ? COLLATE NOCASE"
		args = append(args, command)
	}
	query += " ORDER BY seq DESC LIMIT ?"
	args = append(args, limit)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var created int64
		if err := rows.Scan(&e.ID, &e.Controller, &e.Command, &e.Input, &e.Output, &e.Replacement, &created); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		e.CreatedAt = time.Unix(0, created).UTC()
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Counts returns how often each command was completed, most used first.
func (j *Journal) Counts(ctx context.Context) ([]CommandCount, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	db, err := j.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT command, COUNT(*) FROM completions
		 GROUP BY command ORDER BY COUNT(*) DESC, command ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to count completions: %w", err)
	}
	defer rows.Close()

	var counts []CommandCount
	for rows.Next() {
		var c CommandCount
		if err := rows.Scan(&c.Command, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// Len returns the number of stored entries.
func (j *Journal) Len(ctx context.Context) (int, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	db, err := j.conn()
	if err != nil {
		return 0, err
	}
	var n int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM completions").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
