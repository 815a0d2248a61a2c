// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package auth

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/tomtom215/homenav/internal/logging"
	"github.com/tomtom215/homenav/internal/models"
)

type contextKey string

const usernameContextKey contextKey = "username"

// ContextWithUsername stores an authenticated username in ctx.
func ContextWithUsername(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameContextKey, username)
}

// UsernameFromContext returns the authenticated username, or "" for an
// anonymous request.
func UsernameFromContext(ctx context.Context) string {
	if u, ok := ctx.Value(usernameContextKey).(string); ok {
		return u
	}
	return ""
}

// IsAuthenticated reports whether ctx carries a verified username.
func IsAuthenticated(ctx context.Context) bool {
	return UsernameFromContext(ctx) != ""
}

// RequireAuth rejects requests without a valid bearer token with 401.
func (s *Service) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := BearerToken(r)
		if !ok {
			writeUnauthenticated(w, "missing bearer token")
			return
		}
		username, ok := s.Verify(r.Context(), token)
		if !ok {
			writeUnauthenticated(w, "invalid or expired token")
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUsername(r.Context(), username)))
	})
}

// OptionalAuth attaches the username when a valid token is present and
// otherwise serves the request anonymously. An invalid token is not an
// error here.
func (s *Service) OptionalAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := BearerToken(r); ok {
			if username, ok := s.Verify(r.Context(), token); ok {
				r = r.WithContext(ContextWithUsername(r.Context(), username))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func BearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

// ClientIP returns the host part of r.RemoteAddr. Forwarded headers only
// count when middleware.TrustedRealIP has rewritten RemoteAddr for a
// request from a configured trusted proxy.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeUnauthenticated(w http.ResponseWriter, message string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "UNAUTHENTICATED", message, nil)
}

func writeError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	writeJSON(w, status, &models.APIResponse{
		Status: "error",
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Error().Err(err).Msg("Failed to encode auth response")
	}
}
