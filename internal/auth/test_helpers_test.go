// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package auth

import (
	"sync"
	"testing"
	"time"

	"github.com/tomtom215/homenav/internal/config"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSecret   = "0123456789abcdef-test-secret"
	testUsername = "admin"
	testPassword = "correct horse battery staple"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func newTestClock() *testClock {
	return &testClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func testHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func testSecurityConfig(t *testing.T) *config.SecurityConfig {
	t.Helper()
	return &config.SecurityConfig{
		JWTSecret:         testSecret,
		AdminUsername:     testUsername,
		AdminPasswordHash: testHash(t, testPassword),
		TokenTTL:          time.Hour,
		LoginMaxAttempts:  5,
		LoginWindow:       900 * time.Second,
	}
}

// newTestService wires a service on a memory ledger with every clock
// pointing at clock.
func newTestService(t *testing.T, clock *testClock) (*Service, *MemoryRevocationLedger) {
	t.Helper()
	cfg := testSecurityConfig(t)
	ledger := NewMemoryRevocationLedger()
	ledger.now = clock.Now
	t.Cleanup(func() { _ = ledger.Close() })

	creds := NewCredentialStore(cfg)
	tokens := NewTokenManager(creds.Secret(), cfg.TokenTTL, ledger, WithTokenClock(clock.Now))
	limiter := NewLoginLimiter(cfg.LoginMaxAttempts, cfg.LoginWindow, WithLimiterClock(clock.Now))

	svc := NewService(creds, limiter, tokens, ledger)
	svc.now = clock.Now
	return svc, ledger
}
