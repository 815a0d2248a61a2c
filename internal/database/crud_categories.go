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

	"github.com/tomtom215/homenav/internal/models"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

const categoryColumns = `id, name, auth_required, sort_order, created_at, updated_at`

func scanCategory(row rowScanner) (*models.Category, error) {
	var c models.Category
	if err := row.Scan(&c.ID, &c.Name, &c.AuthRequired, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

func getCategoryByName(ctx context.Context, q querier, name string) (*models.Category, error) {
	c, err := scanCategory(q.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE name = ?`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %q: %w", name, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

func getCategoryByID(ctx context.Context, q querier, id int64) (*models.Category, error) {
	c, err := scanCategory(q.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("category %d: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

// insertCategory appends a category after the current last one.
func insertCategory(ctx context.Context, q querier, name string, authRequired bool, now time.Time) (*models.Category, error) {
	var next int
	if err := q.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(sort_order), 0) + 1 FROM categories`).Scan(&next); err != nil {
		return nil, fmt.Errorf("failed to read max category order: %w", err)
	}

	c := &models.Category{
		Name:         name,
		AuthRequired: authRequired,
		SortOrder:    next,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := q.QueryRowContext(ctx,
		`INSERT INTO categories (name, auth_required, sort_order, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		name, authRequired, next, now, now).Scan(&c.ID)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, fmt.Errorf("category %q: %w", name, models.ErrDuplicateName)
		}
		return nil, fmt.Errorf("failed to insert category: %w", err)
	}
	return c, nil
}

// CreateCategory adds a category at the end of the order. An existing name
// is rejected with models.ErrDuplicateName; the UNIQUE constraint closes the
// race between the check and the insert.
func (db *DB) CreateCategory(ctx context.Context, name string, authRequired bool) (created *models.Category, err error) {
	defer func(start time.Time) { observe("insert", "categories", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		created = nil
		if _, getErr := getCategoryByName(ctx, tx, name); getErr == nil {
			return fmt.Errorf("category %q: %w", name, models.ErrDuplicateName)
		} else if !errors.Is(getErr, models.ErrNotFound) {
			return getErr
		}

		c, insErr := insertCategory(ctx, tx, name, authRequired, db.now())
		if insErr != nil {
			return insErr
		}
		created = c
		return nil
	})
	if err != nil {
		if lostCreateRace(err) && db.categoryExists(ctx, name) {
			return nil, fmt.Errorf("category %q: %w", name, models.ErrDuplicateName)
		}
		return nil, err
	}
	return created, nil
}

// lostCreateRace reports a commit-time unique violation or a write conflict
// that outlived its retries.
func lostCreateRace(err error) bool {
	if errors.Is(err, models.ErrDuplicateName) {
		return false
	}
	return isUniqueConstraintError(err) || isTransactionConflict(err)
}

func (db *DB) categoryExists(ctx context.Context, name string) bool {
	_, err := getCategoryByName(ctx, db.conn, name)
	return err == nil
}

// GetCategory returns the category called name.
func (db *DB) GetCategory(ctx context.Context, name string) (*models.Category, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return getCategoryByName(ctx, db.conn, name)
}

// ListCategories returns every category in display order.
func (db *DB) ListCategories(ctx context.Context) (categories []models.Category, err error) {
	defer func(start time.Time) { observe("select", "categories", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY sort_order, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer closeWithLog(rows, "category rows")

	for rows.Next() {
		c, scanErr := scanCategory(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan category: %w", scanErr)
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

// UpdateCategory renames the category oldName and sets its visibility.
// Renaming onto another category's name returns models.ErrDuplicateName.
func (db *DB) UpdateCategory(ctx context.Context, oldName, newName string, authRequired bool) (updated *models.Category, err error) {
	defer func(start time.Time) { observe("update", "categories", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		updated = nil
		current, getErr := getCategoryByName(ctx, tx, oldName)
		if getErr != nil {
			return getErr
		}
		now := db.now()

		if newName == oldName {
			if _, execErr := tx.ExecContext(ctx,
				`UPDATE categories SET auth_required = ?, updated_at = ? WHERE id = ?`,
				authRequired, now, current.ID); execErr != nil {
				return fmt.Errorf("failed to update category: %w", execErr)
			}
		} else {
			if _, dupErr := getCategoryByName(ctx, tx, newName); dupErr == nil {
				return fmt.Errorf("category %q: %w", newName, models.ErrDuplicateName)
			} else if !errors.Is(dupErr, models.ErrNotFound) {
				return dupErr
			}
			if _, execErr := tx.ExecContext(ctx,
				`UPDATE categories SET name = ?, auth_required = ?, updated_at = ? WHERE id = ?`,
				newName, authRequired, now, current.ID); execErr != nil {
				if isUniqueConstraintError(execErr) {
					return fmt.Errorf("category %q: %w", newName, models.ErrDuplicateName)
				}
				return fmt.Errorf("failed to rename category: %w", execErr)
			}
		}

		c, getErr := getCategoryByID(ctx, tx, current.ID)
		if getErr != nil {
			return getErr
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteCategory removes the category and every link it owns in one
// transaction. It reports false when no such category exists.
func (db *DB) DeleteCategory(ctx context.Context, name string) (deleted bool, err error) {
	defer func(start time.Time) { observe("delete", "categories", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		deleted = false
		c, getErr := getCategoryByName(ctx, tx, name)
		if errors.Is(getErr, models.ErrNotFound) {
			return nil
		}
		if getErr != nil {
			return getErr
		}

		if _, execErr := tx.ExecContext(ctx, `DELETE FROM links WHERE category_id = ?`, c.ID); execErr != nil {
			return fmt.Errorf("failed to delete category links: %w", execErr)
		}
		if _, execErr := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, c.ID); execErr != nil {
			return fmt.Errorf("failed to delete category: %w", execErr)
		}
		deleted = true
		return nil
	})
	return deleted, err
}

// ReorderCategory swaps the category with its neighbor in dir. It reports
// false when the category is missing or already first (up) or last (down).
func (db *DB) ReorderCategory(ctx context.Context, name string, dir models.Direction) (moved bool, err error) {
	defer func(start time.Time) { observe("reorder", "categories", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		moved = false
		items, loadErr := loadOrder(ctx, tx,
			`SELECT id, name, sort_order FROM categories ORDER BY sort_order, id`)
		if loadErr != nil {
			return loadErr
		}
		idx := indexOf(items, name)
		if idx < 0 {
			return nil
		}
		ok, swapErr := swapWithNeighbor(ctx, tx, "categories", items, idx, dir, db.now())
		if swapErr != nil {
			return swapErr
		}
		moved = ok
		return nil
	})
	return moved, err
}

// ReorderCategories sets sort_order to each name's index in names. Names
// that do not exist are skipped. An empty list changes nothing and reports
// false.
func (db *DB) ReorderCategories(ctx context.Context, names []string) (ok bool, err error) {
	if len(names) == 0 {
		return false, nil
	}
	defer func(start time.Time) { observe("batch_reorder", "categories", start, err) }(time.Now())

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err = db.withTx(ctx, func(tx *sql.Tx) error {
		now := db.now()
		for i, name := range names {
			if _, execErr := tx.ExecContext(ctx,
				`UPDATE categories SET sort_order = ?, updated_at = ? WHERE name = ?`,
				i, now, name); execErr != nil {
				return fmt.Errorf("failed to reorder category %q: %w", name, execErr)
			}
		}
		return nil
	})
	return err == nil, err
}
