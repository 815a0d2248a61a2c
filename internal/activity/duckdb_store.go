// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package activity

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/tomtom215/homenav/internal/logging"
)

// DuckDBStore implements Store on the visit_logs and update_logs tables.
type DuckDBStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewDuckDBStore creates a DuckDB-backed activity store.
// Call CreateTable before first use.
func NewDuckDBStore(db *sql.DB) *DuckDBStore {
	return &DuckDBStore{db: db}
}

func tableFor(kind Kind) (string, error) {
	switch kind {
	case KindVisit:
		return "visit_logs", nil
	case KindUpdate:
		return "update_logs", nil
	default:
		return "", fmt.Errorf("unknown activity kind %q", kind)
	}
}

// CreateTable creates both log tables if they don't exist.
func (s *DuckDBStore) CreateTable(ctx context.Context) error {
	query := `
		CREATE SEQUENCE IF NOT EXISTS visit_logs_id_seq START 1;
		CREATE TABLE IF NOT EXISTS visit_logs (
			id BIGINT PRIMARY KEY DEFAULT nextval('visit_logs_id_seq'),
			ip TEXT NOT NULL,
			path TEXT NOT NULL,
			user_agent TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		);

		CREATE SEQUENCE IF NOT EXISTS update_logs_id_seq START 1;
		CREATE TABLE IF NOT EXISTS update_logs (
			id BIGINT PRIMARY KEY DEFAULT nextval('update_logs_id_seq'),
			action TEXT NOT NULL,
			target_type TEXT NOT NULL,
			target_name TEXT NOT NULL,
			details TEXT NOT NULL DEFAULT '',
			username TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP NOT NULL
		);
	`

	statements := strings.Split(query, ";")
	for _, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	logging.Debug().Msg("Activity log tables created/verified")
	return nil
}

// SaveVisit inserts v and sets its ID.
func (s *DuckDBStore) SaveVisit(ctx context.Context, v *Visit) error {
	if v == nil {
		return fmt.Errorf("visit cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO visit_logs (ip, path, user_agent, created_at) VALUES (?, ?, ?, ?) RETURNING id`,
		v.IP, v.Path, v.UserAgent, v.CreatedAt).Scan(&v.ID)
	if err != nil {
		return fmt.Errorf("failed to save visit: %w", err)
	}
	return nil
}

// SaveUpdate inserts u and sets its ID.
func (s *DuckDBStore) SaveUpdate(ctx context.Context, u *Update) error {
	if u == nil {
		return fmt.Errorf("update cannot be nil")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.QueryRowContext(ctx,
		`INSERT INTO update_logs (action, target_type, target_name, details, username, created_at)
		 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
		u.Action, u.TargetType, u.TargetName, u.Details, u.Username, u.CreatedAt).Scan(&u.ID)
	if err != nil {
		return fmt.Errorf("failed to save update: %w", err)
	}
	return nil
}

// Visits returns up to limit visits, newest first.
func (s *DuckDBStore) Visits(ctx context.Context, limit int) ([]Visit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, ip, path, user_agent, created_at FROM visit_logs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits: %w", err)
	}
	defer rows.Close()

	visits := make([]Visit, 0)
	for rows.Next() {
		var v Visit
		if err := rows.Scan(&v.ID, &v.IP, &v.Path, &v.UserAgent, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, v)
	}
	return visits, rows.Err()
}

// Updates returns up to limit updates, newest first.
func (s *DuckDBStore) Updates(ctx context.Context, limit int) ([]Update, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, action, target_type, target_name, details, username, created_at
		 FROM update_logs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query updates: %w", err)
	}
	defer rows.Close()

	updates := make([]Update, 0)
	for rows.Next() {
		var u Update
		if err := rows.Scan(&u.ID, &u.Action, &u.TargetType, &u.TargetName, &u.Details, &u.Username, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan update: %w", err)
		}
		updates = append(updates, u)
	}
	return updates, rows.Err()
}

// Count returns the number of rows of kind.
func (s *DuckDBStore) Count(ctx context.Context, kind Kind) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	//nolint:gosec // table comes from tableFor
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}

// Trim keeps the keep newest rows. IDs come from a sequence, so the highest
// IDs are the newest rows even when timestamps tie.
func (s *DuckDBStore) Trim(ctx context.Context, kind Kind, keep int) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	if keep < 0 {
		keep = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // table comes from tableFor
	query := fmt.Sprintf(`DELETE FROM %[1]s WHERE id NOT IN (SELECT id FROM %[1]s ORDER BY id DESC LIMIT ?)`, table)
	result, err := s.db.ExecContext(ctx, query, keep)
	if err != nil {
		return 0, fmt.Errorf("failed to trim %s: %w", table, err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get trimmed count: %w", err)
	}
	return count, nil
}

// Clear deletes every row of kind.
func (s *DuckDBStore) Clear(ctx context.Context, kind Kind) (int64, error) {
	table, err := tableFor(kind)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	//nolint:gosec // table comes from tableFor
	result, err := s.db.ExecContext(ctx, "DELETE FROM "+table)
	if err != nil {
		return 0, fmt.Errorf("failed to clear %s: %w", table, err)
	}
	count, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get deleted count: %w", err)
	}

	if count > 0 {
		logging.Info().Int64("deleted", count).Str("table", table).Msg("Cleared activity log")
	}
	return count, nil
}
