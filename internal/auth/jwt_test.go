// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type failingLedger struct {
	*MemoryRevocationLedger
}

func (f *failingLedger) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return false, errors.New("store unavailable")
}

func newTestTokenManager(clock *testClock, ledger RevocationLedger) *TokenManager {
	return NewTokenManager([]byte(testSecret), time.Hour, ledger, WithTokenClock(clock.Now))
}

func TestTokenManager_IssueClaims(t *testing.T) {
	clock := newTestClock()
	m := newTestTokenManager(clock, NewMemoryRevocationLedger())

	token, err := m.Issue("admin")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := m.Inspect(token)
	if err != nil {
		t.Fatalf("Inspect() error = %v", err)
	}
	if claims.Subject != "admin" {
		t.Errorf("sub = %q, want admin", claims.Subject)
	}
	if _, err := uuid.Parse(claims.ID); err != nil {
		t.Errorf("jti %q is not a uuid: %v", claims.ID, err)
	}
	if !claims.IssuedAt.Time.Equal(clock.Now()) {
		t.Errorf("iat = %v, want %v", claims.IssuedAt.Time, clock.Now())
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Errorf("exp - iat = %v, want 1h", got)
	}

	other, _ := m.Issue("admin")
	otherClaims, _ := m.Inspect(other)
	if otherClaims.ID == claims.ID {
		t.Error("two tokens share a jti")
	}
}

func TestTokenManager_Verify(t *testing.T) {
	clock := newTestClock()
	ledger := NewMemoryRevocationLedger()
	m := newTestTokenManager(clock, ledger)
	ctx := context.Background()

	token, _ := m.Issue("admin")
	if sub, ok := m.Verify(ctx, token); !ok || sub != "admin" {
		t.Fatalf("Verify() = (%q, %v), want (admin, true)", sub, ok)
	}

	t.Run("expired", func(t *testing.T) {
		short, _ := m.IssueWithTTL("admin", time.Minute)
		clock.Advance(2 * time.Minute)
		defer clock.Advance(-2 * time.Minute)
		if _, ok := m.Verify(ctx, short); ok {
			t.Error("expired token accepted")
		}
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewTokenManager([]byte("another-secret-of-enough-length"), time.Hour, ledger, WithTokenClock(clock.Now))
		forged, _ := other.Issue("admin")
		if _, ok := m.Verify(ctx, forged); ok {
			t.Error("token signed with another secret accepted")
		}
	})

	t.Run("tampered", func(t *testing.T) {
		parts := strings.Split(token, ".")
		tampered := parts[0] + "." + parts[1] + "x." + parts[2]
		if _, ok := m.Verify(ctx, tampered); ok {
			t.Error("tampered token accepted")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, ok := m.Verify(ctx, "not-a-token"); ok {
			t.Error("garbage accepted")
		}
	})

	t.Run("revoked", func(t *testing.T) {
		revoked, _ := m.Issue("admin")
		claims, _ := m.Inspect(revoked)
		if err := ledger.Revoke(ctx, &RevokedToken{JTI: claims.ID, ExpiresAt: claims.ExpiresAt.Time}); err != nil {
			t.Fatalf("Revoke() error = %v", err)
		}
		if _, ok := m.Verify(ctx, revoked); ok {
			t.Error("revoked token accepted")
		}
	})
}

func TestTokenManager_RejectsOtherAlgorithms(t *testing.T) {
	clock := newTestClock()
	m := newTestTokenManager(clock, NewMemoryRevocationLedger())

	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   "admin",
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(clock.Now()),
		ExpiresAt: jwt.NewNumericDate(clock.Now().Add(time.Hour)),
	}}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign HS512: %v", err)
	}
	if _, ok := m.Verify(context.Background(), hs512); ok {
		t.Error("HS512 token accepted")
	}

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, ok := m.Verify(context.Background(), none); ok {
		t.Error("alg=none token accepted")
	}
}

func TestTokenManager_RequiresExpiry(t *testing.T) {
	clock := newTestClock()
	m := newTestTokenManager(clock, NewMemoryRevocationLedger())

	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject: "admin",
		ID:      uuid.NewString(),
	}}
	token, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	if _, ok := m.Verify(context.Background(), token); ok {
		t.Error("token without exp accepted")
	}
}

func TestTokenManager_LedgerErrorFailsClosed(t *testing.T) {
	clock := newTestClock()
	ledger := &failingLedger{MemoryRevocationLedger: NewMemoryRevocationLedger()}
	m := newTestTokenManager(clock, ledger)

	token, _ := m.Issue("admin")
	if _, ok := m.Verify(context.Background(), token); ok {
		t.Error("token accepted although the ledger lookup failed")
	}
}

func TestTokenManager_InspectExpired(t *testing.T) {
	clock := newTestClock()
	m := newTestTokenManager(clock, NewMemoryRevocationLedger())

	token, _ := m.IssueWithTTL("admin", time.Second)
	clock.Advance(time.Hour)

	claims, err := m.Inspect(token)
	if err != nil {
		t.Fatalf("Inspect() on expired token error = %v", err)
	}
	if claims.Subject != "admin" {
		t.Errorf("sub = %q", claims.Subject)
	}
}

func TestNewTokenManager_DefaultTTL(t *testing.T) {
	m := NewTokenManager([]byte(testSecret), 0, NewMemoryRevocationLedger())
	if m.TTL() != DefaultTokenTTL {
		t.Errorf("TTL() = %v, want %v", m.TTL(), DefaultTokenTTL)
	}
}
