// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package models

import "errors"

// Domain errors shared across packages. Wrap with fmt.Errorf("...: %w", err)
// and match with errors.Is; the API layer maps each to a status code.
var (
	// ErrNotFound: the category, link, or article does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateName: a category with that name already exists.
	ErrDuplicateName = errors.New("duplicate name")

	// ErrForbidden: a path escaped its root directory.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation: malformed URL, payload, or direction.
	ErrValidation = errors.New("validation error")

	// ErrUpstreamUnavailable: an outbound fetch failed. Never surfaced as a 5xx.
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
