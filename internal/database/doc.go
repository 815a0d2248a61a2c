// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

// Package database is the DuckDB store behind HomeNav's categories, links
// and site settings.
//
// # Overview
//
// The store is the single source of truth for navigation data. The legacy
// links.json file is read only by cmd/migrate, which feeds it through the
// navigation import path.
//
// # Architecture
//
//   - database.go: lifecycle (open, initialize, checkpoint on close)
//   - database_connection.go: pool configuration and the withTx helper
//   - database_schema.go: table creation
//   - migrations.go: versioned migrations tracked in schema_migrations
//   - crud_categories.go, crud_links.go: the ordered collection
//   - ordering.go: pairwise swap shared by categories and links
//   - crud_settings.go: key/value site settings
//
// # Ordering
//
// Categories are ordered globally and links within their category by
// sort_order, with id breaking ties. New rows get max+1. ReorderCategory and
// ReorderLink swap with one neighbor; ReorderCategories and ReorderLinks
// assign sort_order = index for a supplied list. Each runs in one
// transaction.
//
// Mixing the two under concurrent admin sessions is the one place order can
// drift: a batch over a partial list may leave equal sort_order values, which
// the next swap renumbers.
//
// # Errors
//
// Lookups that miss return models.ErrNotFound. A category name collision,
// on create or rename, returns models.ErrDuplicateName. An explicit link ID
// that is taken returns ErrLinkIDConflict.
//
// # Thread Safety
//
// DB is safe for concurrent use. Access goes through database/sql with a
// bounded pool.
package database
