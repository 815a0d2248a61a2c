// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package auth

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks a startup configuration problem. Fatal.
	ErrConfig = errors.New("auth configuration error")

	// ErrUnauthenticated covers wrong credentials and any invalid token.
	// Callers never learn which check failed.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrRateLimited is returned while a client IP is locked out.
	ErrRateLimited = errors.New("too many failed login attempts")

	// ErrLedgerClosed is returned by a revocation ledger after Close.
	ErrLedgerClosed = errors.New("revocation ledger is closed")
)

// RateLimitError carries the lockout remainder for a RateLimited login.
type RateLimitError struct {
	RetryAfter int // seconds
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("%s, retry after %ds", ErrRateLimited.Error(), e.RetryAfter)
}

// Unwrap lets errors.Is(err, ErrRateLimited) match.
func (e *RateLimitError) Unwrap() error {
	return ErrRateLimited
}

func configError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}
