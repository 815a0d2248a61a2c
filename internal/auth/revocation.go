// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/homenav/internal/config"
)

// RevokedToken is one entry in the revocation ledger.
type RevokedToken struct {
	JTI       string    `json:"jti"`
	Username  string    `json:"username"`
	RevokedAt time.Time `json:"revoked_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Reason    string    `json:"reason,omitempty"`
}

// RevocationLedger records token IDs that must be rejected before their
// natural expiry.
type RevocationLedger interface {
	// Revoke stores entry. Revoking an already revoked jti overwrites it.
	Revoke(ctx context.Context, entry *RevokedToken) error

	// IsRevoked reports whether jti has been revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)

	// PruneExpired deletes entries whose ExpiresAt is in the past and
	// returns how many were deleted.
	PruneExpired(ctx context.Context) (int, error)

	// Size returns the number of stored entries.
	Size(ctx context.Context) (int, error)

	// Close releases the ledger. Further calls return ErrLedgerClosed.
	Close() error
}

// MemoryRevocationLedger keeps revocations in a map. Entries are lost on
// restart, which is acceptable for tests and single-shot deployments.
type MemoryRevocationLedger struct {
	mu      sync.RWMutex
	entries map[string]*RevokedToken
	closed  bool
	now     func() time.Time
}

// NewMemoryRevocationLedger creates an empty in-memory ledger.
func NewMemoryRevocationLedger() *MemoryRevocationLedger {
	return &MemoryRevocationLedger{
		entries: make(map[string]*RevokedToken),
		now:     time.Now,
	}
}

func (l *MemoryRevocationLedger) Revoke(ctx context.Context, entry *RevokedToken) error {
	if entry == nil || entry.JTI == "" {
		return fmt.Errorf("revoke: jti is required")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return ErrLedgerClosed
	}

	stored := *entry
	if stored.RevokedAt.IsZero() {
		stored.RevokedAt = l.now()
	}
	l.entries[entry.JTI] = &stored
	return nil
}

func (l *MemoryRevocationLedger) IsRevoked(ctx context.Context, jti string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return false, ErrLedgerClosed
	}
	_, ok := l.entries[jti]
	return ok, nil
}

func (l *MemoryRevocationLedger) PruneExpired(ctx context.Context) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return 0, ErrLedgerClosed
	}

	now := l.now()
	count := 0
	for jti, entry := range l.entries {
		if entry.ExpiresAt.Before(now) {
			delete(l.entries, jti)
			count++
		}
	}
	return count, nil
}

func (l *MemoryRevocationLedger) Size(ctx context.Context) (int, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return 0, ErrLedgerClosed
	}
	return len(l.entries), nil
}

func (l *MemoryRevocationLedger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	l.entries = nil
	return nil
}

// NewRevocationLedger builds the ledger selected by cfg.RevocationStore.
func NewRevocationLedger(cfg *config.SecurityConfig) (RevocationLedger, error) {
	switch strings.ToLower(cfg.RevocationStore) {
	case "", "memory":
		return NewMemoryRevocationLedger(), nil
	case "badger":
		if cfg.RevocationStorePath == "" {
			return nil, fmt.Errorf("revocation store path is required for badger")
		}
		return OpenBadgerRevocationLedger(cfg.RevocationStorePath)
	default:
		return nil, fmt.Errorf("unknown revocation store %q (use memory or badger)", cfg.RevocationStore)
	}
}

var (
	_ RevocationLedger = (*MemoryRevocationLedger)(nil)
	_ RevocationLedger = (*BadgerRevocationLedger)(nil)
)
