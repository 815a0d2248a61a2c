// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/tomtom215/homenav/internal/models"
)

// orderedItem is one row of an ordered sequence: the primary key used for
// updates, the name callers look it up by, and its current sort_order.
type orderedItem struct {
	id        interface{}
	match     string
	sortOrder int
}

// loadOrder reads (id, match, sort_order) rows in display order.
func loadOrder(ctx context.Context, tx *sql.Tx, query string, args ...interface{}) ([]orderedItem, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load order: %w", err)
	}
	defer closeWithLog(rows, "order rows")

	var items []orderedItem
	for rows.Next() {
		var it orderedItem
		if err := rows.Scan(&it.id, &it.match, &it.sortOrder); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func indexOf(items []orderedItem, match string) int {
	for i := range items {
		if items[i].match == match {
			return i
		}
	}
	return -1
}

// swapWithNeighbor exchanges the sort_order of items[i] and the neighbor in
// dir. It reports false at either boundary. When the two share a sort_order
// (possible after a batch reorder over a partial list) the sequence is
// renumbered 1..n first so the swap is visible.
func swapWithNeighbor(ctx context.Context, tx *sql.Tx, table string, items []orderedItem, i int, dir models.Direction, now time.Time) (bool, error) {
	j := i - 1
	if dir == models.DirectionDown {
		j = i + 1
	}
	if j < 0 || j >= len(items) {
		return false, nil
	}

	//nolint:gosec // table is one of two package constants
	update := fmt.Sprintf(`UPDATE %s SET sort_order = ?, updated_at = ? WHERE id = ?`, table)

	if items[i].sortOrder == items[j].sortOrder {
		for k := range items {
			if items[k].sortOrder == k+1 {
				continue
			}
			if _, err := tx.ExecContext(ctx, update, k+1, now, items[k].id); err != nil {
				return false, fmt.Errorf("failed to renumber %s: %w", table, err)
			}
			items[k].sortOrder = k + 1
		}
	}

	a, b := items[i], items[j]
	if _, err := tx.ExecContext(ctx, update, b.sortOrder, now, a.id); err != nil {
		return false, fmt.Errorf("failed to swap %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, update, a.sortOrder, now, b.id); err != nil {
		return false, fmt.Errorf("failed to swap %s: %w", table, err)
	}
	return true, nil
}
