// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

// Package settings exposes the site-wide key/value settings as a typed
// struct. Values live in the DuckDB settings table; reads are cached under
// cache.KeySettings and every update drops that key.
package settings
