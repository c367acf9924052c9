// SPDX-FileCopyrightText: 2025 The Bore Authors
// SPDX-License-Identifier: EUPL-1.2

// Package history records every installer download in a SQLite ledger.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/boreapps/bore/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

// timeLayout has fixed width so started_at sorts as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Ledger implements domain.HistoryRecorder on a SQLite database.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger at path.
func Open(path string) (*Ledger, error) {
	// #nosec G301 - State directory
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history %s: %w", path, err)
	}

	// One writer; the sequencer records sequentially anyway.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init history schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close releases the database.
func (l *Ledger) Close() error {
	return l.db.Close()
}

// NewID returns a time-ordered identifier.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}

	return id.String()
}

// Record stores entry, assigning an ID when it has none.
func (l *Ledger) Record(ctx context.Context, entry domain.HistoryEntry) error {
	if entry.ID == "" {
		entry.ID = NewID()
	}

	_, err := l.db.ExecContext(ctx,
		`INSERT INTO downloads (id, run_id, app, mode, url, path, status, error, bytes, started_at, duration_ns)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.RunID, entry.App, string(entry.Mode), entry.URL, entry.Path,
		entry.Status, entry.Error, entry.Bytes,
		entry.StartedAt.UTC().Format(timeLayout), int64(entry.Duration),
	)
	if err != nil {
		return fmt.Errorf("record download of %s: %w", entry.App, err)
	}

	return nil
}

// Recent returns up to limit entries, newest first. A limit <= 0 returns all.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT id, run_id, app, mode, url, path, status, error, bytes, started_at, duration_ns
		 FROM downloads ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}

	defer func() { _ = rows.Close() }()

	var entries []domain.HistoryEntry

	for rows.Next() {
		var (
			entry     domain.HistoryEntry
			mode      string
			startedAt string
			duration  int64
		)

		if err := rows.Scan(&entry.ID, &entry.RunID, &entry.App, &mode, &entry.URL, &entry.Path,
			&entry.Status, &entry.Error, &entry.Bytes, &startedAt, &duration); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}

		entry.Mode = domain.InstallMode(mode)
		entry.Duration = time.Duration(duration)

		if entry.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
			return nil, fmt.Errorf("parse history timestamp %q: %w", startedAt, err)
		}

		entries = append(entries, entry)
	}

	return entries, rows.Err()
}

// MemoryLedger is an in-memory HistoryRecorder for tests.
type MemoryLedger struct {
	mu      sync.Mutex
	entries []domain.HistoryEntry
}

// NewMemoryLedger creates an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

// Record appends entry.
func (m *MemoryLedger) Record(_ context.Context, entry domain.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry.ID == "" {
		entry.ID = NewID()
	}

	m.entries = append(m.entries, entry)

	return nil
}

// Recent returns up to limit entries, newest first.
func (m *MemoryLedger) Recent(_ context.Context, limit int) ([]domain.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entries := slices.Clone(m.entries)
	slices.Reverse(entries)

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}

	return entries, nil
}
