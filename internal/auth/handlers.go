// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package auth

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/tomtom215/homenav/internal/logging"
)

// LoginRequest is the login body. Form-encoded bodies with the same field
// names are accepted too.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by a successful login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Handlers exposes the auth service over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates the auth HTTP handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// Login exchanges credentials for a bearer token.
// POST /api/auth/login
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLogin(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invalid login request", nil)
		return
	}

	ip := ClientIP(r)
	token, err := h.service.Login(r.Context(), ip, req.Username, req.Password)

	var rateLimited *RateLimitError
	switch {
	case errors.As(err, &rateLimited):
		w.Header().Set("Retry-After", strconv.Itoa(rateLimited.RetryAfter))
		writeError(w, http.StatusTooManyRequests, "RATE_LIMITED",
			"too many failed login attempts, try again later",
			map[string]interface{}{"retry_after_secs": rateLimited.RetryAfter})
		return
	case errors.Is(err, ErrUnauthenticated):
		writeUnauthenticated(w, "incorrect username or password")
		return
	case err != nil:
		logging.Error().Err(err).Msg("Login failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "login failed", nil)
		return
	}

	writeSuccess(w, &TokenResponse{AccessToken: token, TokenType: "bearer"})
}

// Logout revokes the presented token. It always responds 200.
// POST /api/auth/logout
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := BearerToken(r)
	h.service.Logout(r.Context(), ClientIP(r), token)
	writeSuccess(w, map[string]string{"message": "logged out"})
}

// Me returns the authenticated username.
// GET /api/auth/me
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, map[string]string{"username": UsernameFromContext(r.Context())})
}

// CleanupTokens prunes expired revocations.
// POST /api/auth/cleanup-tokens
func (h *Handlers) CleanupTokens(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.CleanupTokens(r.Context())
	if err != nil {
		logging.Error().Err(err).Msg("Revoked token cleanup failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "token cleanup failed", nil)
		return
	}
	writeSuccess(w, map[string]int{"deleted_count": n})
}

func decodeLogin(w http.ResponseWriter, r *http.Request) (*LoginRequest, error) {
	var req LoginRequest
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
		return &req, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, err
	}
	return &req, nil
}
