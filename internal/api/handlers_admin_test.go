// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/homenav/internal/activity"
	"github.com/tomtom215/homenav/internal/favicon"
	"github.com/tomtom215/homenav/internal/models"
	"github.com/tomtom215/homenav/internal/settings"
)

func TestAPI_Health(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var health models.HealthStatus
	decodeData(t, rec, &health)
	assert.Equal(t, "healthy", health.Status)
	assert.True(t, health.DatabaseConnected)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestAPI_Metrics(t *testing.T) {
	s := newTestServer(t)
	s.do(http.MethodGet, "/health", "", nil)

	rec := s.do(http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "homenav_api_requests_total")
}

func TestAPI_UnknownRoute(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
}

func TestAPI_LoginLockout(t *testing.T) {
	s := newTestServer(t)

	for i := 0; i < 5; i++ {
		rec := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": testUsername, "password": "wrong"})
		require.Equal(t, http.StatusUnauthorized, rec.Code, "attempt %d", i+1)
	}

	rec := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{"username": testUsername, "password": testPassword})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "RATE_LIMITED", errorCode(t, rec))
}

func TestAPI_LoginLockout_IgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	s := newTestServer(t)
	bad := map[string]string{"username": testUsername, "password": "wrong"}

	for i := 1; i <= 8; i++ {
		req := s.newRequest(http.MethodPost, "/api/auth/login", "", bad)
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("203.0.113.%d", i))
		rec := s.send(req)

		if i <= 5 {
			require.Equal(t, http.StatusUnauthorized, rec.Code, "attempt %d", i)
			continue
		}
		require.Equal(t, http.StatusTooManyRequests, rec.Code, "attempt %d", i)
		assert.Equal(t, "RATE_LIMITED", errorCode(t, rec))
	}
}

func TestAPI_LoginLockout_TrustedProxyKeysOnForwardedClient(t *testing.T) {
	s := newTestServerWithProxies(t, []string{"192.0.2.0/24"})
	bad := map[string]string{"username": testUsername, "password": "wrong"}

	attempt := func(client string, creds map[string]string) int {
		req := s.newRequest(http.MethodPost, "/api/auth/login", "", creds)
		req.Header.Set("X-Forwarded-For", client)
		return s.send(req).Code
	}

	for i := 0; i < 5; i++ {
		require.Equal(t, http.StatusUnauthorized, attempt("203.0.113.1", bad))
	}
	assert.Equal(t, http.StatusTooManyRequests, attempt("203.0.113.1", bad))

	good := map[string]string{"username": testUsername, "password": testPassword}
	assert.Equal(t, http.StatusOK, attempt("203.0.113.2", good))
}

func TestAPI_LogoutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token := s.login()

	require.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/auth/me", token, nil).Code)
	require.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/auth/logout", token, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/auth/me", token, nil).Code)

	// Logout without a token still answers 200.
	assert.Equal(t, http.StatusOK, s.do(http.MethodPost, "/api/auth/logout", "", nil).Code)
}

func TestAPI_Settings(t *testing.T) {
	s := newTestServer(t)
	token := s.login()

	var got settings.SiteSettings
	decodeData(t, s.do(http.MethodGet, "/api/settings", "", nil), &got)
	assert.Equal(t, settings.Defaults(), got)

	rec := s.do(http.MethodPut, "/api/settings", token, map[string]interface{}{
		"site_title":              "My Links",
		"link_size":               "large",
		"protected_article_paths": []string{"private"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	decodeData(t, s.do(http.MethodGet, "/api/settings", "", nil), &got)
	assert.Equal(t, "My Links", got.SiteTitle)
	assert.Equal(t, "large", got.LinkSize)
	assert.Equal(t, "Articles", got.ArticlePageTitle, "omitted fields fall back to defaults")
	assert.Equal(t, []string{"private"}, got.ProtectedArticlePaths)

	rec = s.do(http.MethodPut, "/api/settings", token, map[string]string{"link_size": "huge"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, rec))
}

func TestAPI_Logs(t *testing.T) {
	s := newTestServer(t)
	token := s.login()

	for i := 0; i < 3; i++ {
		s.do(http.MethodGet, "/api/v1/links", "", nil)
	}
	s.do(http.MethodPost, "/api/v1/categories", token, map[string]string{"name": "Dev"})

	var visits activity.VisitPage
	decodeData(t, s.do(http.MethodGet, "/api/v1/logs/visits?limit=2", token, nil), &visits)
	assert.EqualValues(t, 3, visits.Total)
	assert.Len(t, visits.Visits, 2)

	var updates activity.UpdatePage
	decodeData(t, s.do(http.MethodGet, "/api/v1/logs/updates", token, nil), &updates)
	require.Len(t, updates.Updates, 1)
	assert.Equal(t, "private: no", updates.Updates[0].Details)

	var cleared struct {
		DeletedCount int64 `json:"deleted_count"`
	}
	decodeData(t, s.do(http.MethodDelete, "/api/v1/logs/visits", token, nil), &cleared)
	assert.EqualValues(t, 3, cleared.DeletedCount)

	decodeData(t, s.do(http.MethodGet, "/api/v1/logs/visits", token, nil), &visits)
	assert.EqualValues(t, 0, visits.Total)
}

func TestAPI_FetchFavicon(t *testing.T) {
	s := newTestServer(t)
	token := s.login()

	tests := []struct {
		name     string
		result   *favicon.Result
		err      error
		wantCode int
		wantIcon *string
	}{
		{
			name:     "saved",
			result:   &favicon.Result{Icon: "example_com.png", SourceURL: "https://example.com/favicon.png", Message: "icon saved"},
			wantCode: http.StatusOK,
			wantIcon: strPtr(IconsURLPrefix + "example_com.png"),
		},
		{
			name:     "upstream failure degrades",
			err:      fmt.Errorf("%w: no icon found", models.ErrUpstreamUnavailable),
			wantCode: http.StatusOK,
		},
		{
			name:     "blocked address",
			err:      fmt.Errorf("%w: address not allowed", models.ErrValidation),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.icons.result, s.icons.err = tt.result, tt.err

			rec := s.do(http.MethodPost, "/api/v1/favicon/fetch", token, map[string]string{"url": "example.com"})
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode != http.StatusOK {
				return
			}
			var res FaviconResponse
			decodeData(t, rec, &res)
			assert.Equal(t, tt.wantIcon, res.Icon)
		})
	}

	rec := s.do(http.MethodPost, "/api/v1/favicon/fetch", token, map[string]string{"url": ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "empty url")
}

func strPtr(s string) *string { return &s }
