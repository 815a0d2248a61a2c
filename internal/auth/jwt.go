// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/tomtom215/homenav/internal/logging"
)

// DefaultTokenTTL is used when the manager is built with a non-positive TTL.
const DefaultTokenTTL = 60 * time.Minute

// Claims are the registered claims carried by a session token: sub, jti,
// iat and exp.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager issues and verifies HS256 session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
	ledger RevocationLedger
	now    func() time.Time
}

// TokenOption configures a TokenManager.
type TokenOption func(*TokenManager)

// WithTokenClock replaces time.Now for issuing and verifying.
func WithTokenClock(now func() time.Time) TokenOption {
	return func(m *TokenManager) { m.now = now }
}

// NewTokenManager creates a manager signing with secret. Every Verify
// consults ledger, which must not be nil.
func NewTokenManager(secret []byte, ttl time.Duration, ledger RevocationLedger, opts ...TokenOption) *TokenManager {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	m := &TokenManager{
		secret: secret,
		ttl:    ttl,
		ledger: ledger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns the default token lifetime.
func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}

// Issue creates a token for username with the default TTL.
func (m *TokenManager) Issue(username string) (string, error) {
	return m.IssueWithTTL(username, m.ttl)
}

// IssueWithTTL creates a token for username valid for ttl. Every token gets
// a fresh random jti.
func (m *TokenManager) IssueWithTTL(username string, ttl time.Duration) (string, error) {
	now := m.now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify returns the subject of a valid, unexpired, unrevoked token. Any
// failure, including a ledger lookup error, yields ("", false).
func (m *TokenManager) Verify(ctx context.Context, tokenString string) (string, bool) {
	claims, err := m.parse(tokenString, true)
	if err != nil {
		return "", false
	}
	if claims.Subject == "" || claims.ID == "" {
		return "", false
	}

	revoked, err := m.ledger.IsRevoked(ctx, claims.ID)
	if err != nil {
		logging.Warn().Err(err).Str("jti", claims.ID).Msg("Revocation lookup failed, rejecting token")
		return "", false
	}
	if revoked {
		return "", false
	}
	return claims.Subject, true
}

// Inspect returns the claims of a token whose signature is valid, without
// checking expiry or revocation. Logout uses it to find the jti.
func (m *TokenManager) Inspect(tokenString string) (*Claims, error) {
	return m.parse(tokenString, false)
}

func (m *TokenManager) parse(tokenString string, validate bool) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(m.now),
	}
	if validate {
		opts = append(opts, jwt.WithExpirationRequired())
	} else {
		opts = append(opts, jwt.WithoutClaimsValidation())
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
