// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/homenav/internal/logging"
	"github.com/tomtom215/homenav/internal/metrics"
)

// Login outcomes recorded in homenav_login_attempts_total.
const (
	outcomeSuccess     = "success"
	outcomeFailure     = "failure"
	outcomeRateLimited = "rate_limited"
)

// Service ties the credential store, login limiter, token manager and
// revocation ledger together. All collaborators are injected; none are
// package globals.
type Service struct {
	creds   *CredentialStore
	limiter *LoginLimiter
	tokens  *TokenManager
	ledger  RevocationLedger
	audit   *logging.SecurityLogger
	now     func() time.Time
}

// NewService creates an auth service. tokens must have been built over the
// same ledger.
func NewService(creds *CredentialStore, limiter *LoginLimiter, tokens *TokenManager, ledger RevocationLedger) *Service {
	return &Service{
		creds:   creds,
		limiter: limiter,
		tokens:  tokens,
		ledger:  ledger,
		audit:   logging.NewSecurityLogger(),
		now:     time.Now,
	}
}

// SetAuditLogger replaces the security logger.
func (s *Service) SetAuditLogger(l *logging.SecurityLogger) {
	s.audit = l
}

// Login checks the limiter for ip, then the credentials. A locked-out IP
// gets a *RateLimitError without the credentials being looked at. A wrong
// username or password records a failure and returns ErrUnauthenticated.
// Success clears the IP's failures and returns a fresh token.
func (s *Service) Login(ctx context.Context, ip, username, password string) (string, error) {
	if allowed, retryAfter := s.limiter.Check(ip); !allowed {
		metrics.RecordLogin(outcomeRateLimited)
		s.audit.LogLockout(ip, retryAfter)
		return "", &RateLimitError{RetryAfter: retryAfter}
	}

	if !s.creds.Authenticate(username, password) {
		s.limiter.RecordFailure(ip)
		metrics.RecordLogin(outcomeFailure)
		s.audit.LogLoginFailure(username, ip, "invalid credentials")
		return "", ErrUnauthenticated
	}

	s.limiter.Clear(ip)
	token, err := s.tokens.Issue(s.creds.Username())
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}

	metrics.RecordLogin(outcomeSuccess)
	s.audit.LogLoginSuccess(username, ip)
	return token, nil
}

// Verify returns the username carried by a valid token.
func (s *Service) Verify(ctx context.Context, token string) (string, bool) {
	return s.tokens.Verify(ctx, token)
}

// Logout revokes token until its natural expiry. It never fails: a token
// that cannot be parsed or is already expired is ignored, and a ledger
// error is logged and swallowed.
func (s *Service) Logout(ctx context.Context, ip, token string) {
	if token == "" {
		return
	}

	claims, err := s.tokens.Inspect(token)
	if err != nil || claims.ID == "" || claims.ExpiresAt == nil {
		logging.Debug().Str("ip", ip).Msg("Logout with unusable token, nothing to revoke")
		return
	}

	expiresAt := claims.ExpiresAt.Time
	if !expiresAt.After(s.now()) {
		return
	}

	entry := &RevokedToken{
		JTI:       claims.ID,
		Username:  claims.Subject,
		RevokedAt: s.now(),
		ExpiresAt: expiresAt,
		Reason:    "logout",
	}
	if err := s.ledger.Revoke(ctx, entry); err != nil {
		metrics.RecordRevocation(false)
		logging.Warn().Err(err).Str("jti", logging.SanitizeToken(claims.ID)).Msg("Failed to revoke token on logout")
		s.audit.LogLogout(claims.Subject, claims.ID, ip, false, err.Error())
		return
	}

	metrics.RecordRevocation(true)
	s.audit.LogLogout(claims.Subject, claims.ID, ip, true, "")
}

// CleanupTokens prunes expired ledger entries and returns the count.
func (s *Service) CleanupTokens(ctx context.Context) (int, error) {
	n, err := s.ledger.PruneExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("prune revoked tokens: %w", err)
	}
	metrics.RecordPruned(n)
	s.audit.LogTokensPruned(n)
	return n, nil
}

// Limiter exposes the login limiter for the supervisor's cleanup loop.
func (s *Service) Limiter() *LoginLimiter {
	return s.limiter
}
