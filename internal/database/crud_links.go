// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/homenav/internal/models"
)

const linkColumns = `id, category_id, title, url, icon, sort_order, created_at, updated_at`

func scanLink(row rowScanner) (*models.Link, error) {
	var (
		l    models.Link
		icon sql.NullString
	)
	if err := row.Scan(&l.ID, &l.CategoryID, &l.Title, &l.URL, &icon, &l.SortOrder, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	if icon.Valid {
		s := icon.String
		l.Icon = &s
	}
	return &l, nil
}

func getLinkByID(ctx context.Context, q querier, id string) (*models.Link, error) {
	l, err := scanLink(q.QueryRowContext(ctx, `SELECT `+linkColumns+` FROM links WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("link %q: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get link: %w", err)
	}
	return l, nil
}

func nextLinkOrder(ctx context.Context, q querier, categoryID int64) (int, error) {
	var next int
	err := q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order), 0) + 1 FROM links WHERE category_id = ?`, categoryID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("failed to read max link order: %w", err)
	}
	return next, nil
}

func nullableIcon(icon *string) interface{} {
	if icon == nil || *icon == "" {
		return nil
	}
	return *icon
}

// GetLink returns the link with id.
func (db *DB) GetLink(ctx context.Context, id string) (*models.Link, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return getLinkByID(ctx, db.conn, id)
}

// ListLinks returns every link ordered by category, then sort_order.
func (db *DB) ListLinks(ctx context.Context) (links []models.Link, err error) {
	defer func(start time.Time) { observe("select", "links", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+linkColumns+` FROM links ORDER BY category_id, sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer closeWithLog(rows, "link rows")

	for rows.Next() {
		l, scanErr := scanLink(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan link: %w", scanErr)
		}
		links = append(links, *l)
	}
	return links, rows.Err()
}

// AddLink appends a link to categoryName, creating the category (public)
// when it does not exist. in.ID is used when set; otherwise a UUID is
// generated. A taken ID returns ErrLinkIDConflict and nothing is written.
func (db *DB) AddLink(ctx context.Context, categoryName string, in *models.LinkInput) (added *models.Link, err error) {
	defer func(start time.Time) { observe("insert", "links", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		added = nil
		now := db.now()

		category, getErr := getCategoryByName(ctx, tx, categoryName)
		if errors.Is(getErr, models.ErrNotFound) {
			category, getErr = insertCategory(ctx, tx, categoryName, false, now)
		}
		if getErr != nil {
			return getErr
		}

		id := in.ID
		if id == "" {
			id = uuid.NewString()
		} else if _, existsErr := getLinkByID(ctx, tx, id); existsErr == nil {
			return fmt.Errorf("link %q: %w", id, ErrLinkIDConflict)
		} else if !errors.Is(existsErr, models.ErrNotFound) {
			return existsErr
		}

		next, orderErr := nextLinkOrder(ctx, tx, category.ID)
		if orderErr != nil {
			return orderErr
		}

		_, execErr := tx.ExecContext(ctx,
			`INSERT INTO links (id, category_id, title, url, icon, sort_order, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			id, category.ID, in.Title, in.URL, nullableIcon(in.Icon), next, now, now)
		if execErr != nil {
			if isUniqueConstraintError(execErr) {
				return fmt.Errorf("link %q: %w", id, ErrLinkIDConflict)
			}
			return fmt.Errorf("failed to insert link: %w", execErr)
		}

		l, getErr := getLinkByID(ctx, tx, id)
		if getErr != nil {
			return getErr
		}
		added = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// UpdateLink replaces the link's title, URL and icon. When upd.Category
// names a different existing category the link moves to the end of it; an
// unknown destination leaves the link where it is and still applies the
// other fields.
func (db *DB) UpdateLink(ctx context.Context, id string, upd *models.LinkUpdate) (updated *models.Link, err error) {
	defer func(start time.Time) { observe("update", "links", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		updated = nil
		current, getErr := getLinkByID(ctx, tx, id)
		if getErr != nil {
			return getErr
		}

		categoryID := current.CategoryID
		sortOrder := current.SortOrder
		if upd.Category != "" {
			dest, destErr := getCategoryByName(ctx, tx, upd.Category)
			switch {
			case errors.Is(destErr, models.ErrNotFound):
				dest = nil
			case destErr != nil:
				return destErr
			}
			if dest != nil && dest.ID != current.CategoryID {
				next, orderErr := nextLinkOrder(ctx, tx, dest.ID)
				if orderErr != nil {
					return orderErr
				}
				categoryID = dest.ID
				sortOrder = next
			}
		}

		if _, execErr := tx.ExecContext(ctx,
			`UPDATE links SET category_id = ?, title = ?, url = ?, icon = ?, sort_order = ?, updated_at = ?
			 WHERE id = ?`,
			categoryID, upd.Title, upd.URL, nullableIcon(upd.Icon), sortOrder, db.now(), id); execErr != nil {
			return fmt.Errorf("failed to update link: %w", execErr)
		}

		l, getErr := getLinkByID(ctx, tx, id)
		if getErr != nil {
			return getErr
		}
		updated = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteLink removes the link. It reports false when no such link exists.
func (db *DB) DeleteLink(ctx context.Context, id string) (deleted bool, err error) {
	defer func(start time.Time) { observe("delete", "links", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	result, err := db.conn.ExecContext(ctx, `DELETE FROM links WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete link: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// ReorderLink swaps the link with its neighbor in dir within its own
// category. It reports false when the link is missing or at the boundary.
func (db *DB) ReorderLink(ctx context.Context, id string, dir models.Direction) (moved bool, err error) {
	defer func(start time.Time) { observe("reorder", "links", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		moved = false
		link, getErr := getLinkByID(ctx, tx, id)
		if errors.Is(getErr, models.ErrNotFound) {
			return nil
		}
		if getErr != nil {
			return getErr
		}

		items, loadErr := loadOrder(ctx, tx,
			`SELECT id, id, sort_order FROM links WHERE category_id = ? ORDER BY sort_order, id`,
			link.CategoryID)
		if loadErr != nil {
			return loadErr
		}
		idx := indexOf(items, id)
		if idx < 0 {
			return nil
		}
		ok, swapErr := swapWithNeighbor(ctx, tx, "links", items, idx, dir, db.now())
		if swapErr != nil {
			return swapErr
		}
		moved = ok
		return nil
	})
	return moved, err
}

// ReorderLinks sets sort_order to each ID's index in ids, regardless of
// category. Unknown IDs are skipped. An empty list reports false.
func (db *DB) ReorderLinks(ctx context.Context, ids []string) (ok bool, err error) {
	if len(ids) == 0 {
		return false, nil
	}
	defer func(start time.Time) { observe("batch_reorder", "links", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		now := db.now()
		for i, id := range ids {
			if _, execErr := tx.ExecContext(ctx,
				`UPDATE links SET sort_order = ?, updated_at = ? WHERE id = ?`,
				i, now, id); execErr != nil {
				return fmt.Errorf("failed to reorder link %q: %w", id, execErr)
			}
		}
		return nil
	})
	return err == nil, err
}
