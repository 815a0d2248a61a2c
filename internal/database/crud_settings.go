// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"
)

// GetSettings returns every stored setting.
func (db *DB) GetSettings(ctx context.Context) (values map[string]string, err error) {
	defer func(start time.Time) { observe("select", "settings", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer closeWithLog(rows, "settings rows")

	values = make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		values[k] = v
	}
	return values, rows.Err()
}

// UpsertSettings writes every key in values in one transaction.
func (db *DB) UpsertSettings(ctx context.Context, values map[string]string) (err error) {
	if len(values) == 0 {
		return nil
	}
	defer func(start time.Time) { observe("upsert", "settings", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return db.withTx(ctx, func(tx *sql.Tx) error {
		now := db.now()
		for _, k := range keys {
			if _, execErr := tx.ExecContext(ctx,
				`INSERT INTO settings (key, value, updated_at) VALUES (?, ?, ?)
				 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
				k, values[k], now); execErr != nil {
				return fmt.Errorf("failed to upsert setting %q: %w", k, execErr)
			}
		}
		return nil
	})
}
