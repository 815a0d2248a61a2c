// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/tomtom215/homenav/internal/config"
)

func newInMemoryBadger(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// ledgerFactories runs the same contract against both implementations.
func ledgerFactories(t *testing.T, clock *testClock) map[string]func() RevocationLedger {
	return map[string]func() RevocationLedger{
		"memory": func() RevocationLedger {
			l := NewMemoryRevocationLedger()
			l.now = clock.Now
			return l
		},
		"badger": func() RevocationLedger {
			l := NewBadgerRevocationLedger(newInMemoryBadger(t))
			l.now = clock.Now
			return l
		},
	}
}

func TestRevocationLedger_Contract(t *testing.T) {
	clock := newTestClock()

	for name, factory := range ledgerFactories(t, clock) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ledger := factory()
			defer ledger.Close()

			revoked, err := ledger.IsRevoked(ctx, "jti-1")
			if err != nil || revoked {
				t.Fatalf("IsRevoked(unknown) = (%v, %v), want (false, nil)", revoked, err)
			}

			entry := &RevokedToken{JTI: "jti-1", Username: "admin", ExpiresAt: clock.Now().Add(time.Hour)}
			if err := ledger.Revoke(ctx, entry); err != nil {
				t.Fatalf("Revoke() error = %v", err)
			}
			if err := ledger.Revoke(ctx, entry); err != nil {
				t.Fatalf("second Revoke() error = %v", err)
			}

			if revoked, _ := ledger.IsRevoked(ctx, "jti-1"); !revoked {
				t.Error("IsRevoked(jti-1) = false after Revoke")
			}
			if n, _ := ledger.Size(ctx); n != 1 {
				t.Errorf("Size() = %d after idempotent revoke, want 1", n)
			}

			if err := ledger.Revoke(ctx, &RevokedToken{}); err == nil {
				t.Error("Revoke without jti should fail")
			}
		})
	}
}

func TestRevocationLedger_PruneExpired(t *testing.T) {
	clock := newTestClock()

	for name, factory := range ledgerFactories(t, clock) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ledger := factory()
			defer ledger.Close()

			now := clock.Now()
			for _, e := range []*RevokedToken{
				{JTI: "past-1", ExpiresAt: now.Add(-time.Hour)},
				{JTI: "past-2", ExpiresAt: now.Add(-time.Second)},
				{JTI: "future", ExpiresAt: now.Add(time.Hour)},
			} {
				if err := ledger.Revoke(ctx, e); err != nil {
					t.Fatalf("Revoke(%s) error = %v", e.JTI, err)
				}
			}

			n, err := ledger.PruneExpired(ctx)
			if err != nil {
				t.Fatalf("PruneExpired() error = %v", err)
			}
			if n != 2 {
				t.Errorf("PruneExpired() = %d, want 2", n)
			}
			if revoked, _ := ledger.IsRevoked(ctx, "future"); !revoked {
				t.Error("unexpired entry was pruned")
			}
			if revoked, _ := ledger.IsRevoked(ctx, "past-1"); revoked {
				t.Error("expired entry survived prune")
			}

			if n, _ := ledger.PruneExpired(ctx); n != 0 {
				t.Errorf("second PruneExpired() = %d, want 0", n)
			}
		})
	}
}

func TestRevocationLedger_Closed(t *testing.T) {
	clock := newTestClock()

	for name, factory := range ledgerFactories(t, clock) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ledger := factory()
			if err := ledger.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}
			if _, err := ledger.IsRevoked(ctx, "x"); !errors.Is(err, ErrLedgerClosed) {
				t.Errorf("IsRevoked after Close error = %v, want ErrLedgerClosed", err)
			}
			if err := ledger.Revoke(ctx, &RevokedToken{JTI: "x"}); !errors.Is(err, ErrLedgerClosed) {
				t.Errorf("Revoke after Close error = %v, want ErrLedgerClosed", err)
			}
			if _, err := ledger.PruneExpired(ctx); !errors.Is(err, ErrLedgerClosed) {
				t.Errorf("PruneExpired after Close error = %v, want ErrLedgerClosed", err)
			}
		})
	}
}

func TestBadgerRevocationLedger_SurvivesReopen(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "revocations")
	ctx := context.Background()

	ledger, err := OpenBadgerRevocationLedger(dir)
	if err != nil {
		t.Fatalf("OpenBadgerRevocationLedger() error = %v", err)
	}
	if err := ledger.Revoke(ctx, &RevokedToken{JTI: "persisted", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if err := ledger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenBadgerRevocationLedger(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	if revoked, _ := reopened.IsRevoked(ctx, "persisted"); !revoked {
		t.Error("revocation lost across restart")
	}
}

func TestNewRevocationLedger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.SecurityConfig
		wantErr bool
	}{
		{name: "default memory", cfg: config.SecurityConfig{}},
		{name: "memory", cfg: config.SecurityConfig{RevocationStore: "memory"}},
		{name: "badger", cfg: config.SecurityConfig{RevocationStore: "badger", RevocationStorePath: t.TempDir()}},
		{name: "badger without path", cfg: config.SecurityConfig{RevocationStore: "badger"}, wantErr: true},
		{name: "unknown", cfg: config.SecurityConfig{RevocationStore: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			ledger, err := NewRevocationLedger(&cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			_ = ledger.Close()
		})
	}
}
