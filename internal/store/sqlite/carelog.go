package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/colonyops/tend/internal/core/carelog"
	"github.com/colonyops/tend/pkg/randid"
)

// CareLogStore implements carelog.Store using SQLite.
type CareLogStore struct {
	db *DB
}

var _ carelog.Store = (*CareLogStore)(nil)

// NewCareLogStore creates a new SQLite-backed care log store.
func NewCareLogStore(db *DB) *CareLogStore {
	return &CareLogStore{db: db}
}

// List returns all entries ordered by applied_at descending, newest first.
func (s *CareLogStore) List(ctx context.Context) ([]carelog.Entry, error) {
	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, label, day, applied_at FROM care_log ORDER BY applied_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list care log: %w", err)
	}
	defer func() { _ = rows.Close() }()

	entries := make([]carelog.Entry, 0)
	for rows.Next() {
		var (
			e         carelog.Entry
			appliedAt int64
		)
		if err := rows.Scan(&e.ID, &e.Label, &e.Day, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan care log entry: %w", err)
		}
		e.AppliedAt = time.Unix(0, appliedAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate care log: %w", err)
	}

	return entries, nil
}

// Append persists a new entry. Generates an id if not set and returns it.
func (s *CareLogStore) Append(ctx context.Context, e carelog.Entry) (string, error) {
	if e.ID == "" {
		e.ID = randid.Generate(8)
	}

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO care_log (id, label, day, applied_at) VALUES (?, ?, ?, ?)`,
		e.ID, e.Label, e.Day, e.AppliedAt.UnixNano())
	if err != nil {
		return "", fmt.Errorf("failed to append care log entry: %w", err)
	}

	return e.ID, nil
}

// LoadTracker returns the label to last-applied mapping.
func (s *CareLogStore) LoadTracker(ctx context.Context) (map[string]time.Time, error) {
	rows, err := s.db.conn.QueryContext(ctx, `SELECT label, applied_at FROM tracker`)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracker: %w", err)
	}
	defer func() { _ = rows.Close() }()

	tracker := make(map[string]time.Time)
	for rows.Next() {
		var (
			label     string
			appliedAt int64
		)
		if err := rows.Scan(&label, &appliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tracker row: %w", err)
		}
		tracker[label] = time.Unix(0, appliedAt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate tracker: %w", err)
	}

	return tracker, nil
}

// SetLastApplied upserts a single tracker entry.
func (s *CareLogStore) SetLastApplied(ctx context.Context, label string, at time.Time) error {
	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO tracker (label, applied_at) VALUES (?, ?)
		 ON CONFLICT (label) DO UPDATE SET applied_at = excluded.applied_at`,
		label, at.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to set last applied for %q: %w", label, err)
	}
	return nil
}

// Clear deletes all log entries and tracker state in one transaction.
func (s *CareLogStore) Clear(ctx context.Context) error {
	return s.db.WithTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM care_log`); err != nil {
			return fmt.Errorf("failed to clear care log: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tracker`); err != nil {
			return fmt.Errorf("failed to clear tracker: %w", err)
		}
		return nil
	})
}
