// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/homenav/internal/activity"
	"github.com/tomtom215/homenav/internal/articles"
	"github.com/tomtom215/homenav/internal/auth"
	"github.com/tomtom215/homenav/internal/cache"
	"github.com/tomtom215/homenav/internal/config"
	"github.com/tomtom215/homenav/internal/database"
	"github.com/tomtom215/homenav/internal/favicon"
	"github.com/tomtom215/homenav/internal/navigation"
	"github.com/tomtom215/homenav/internal/settings"
)

const (
	testUsername = "admin"
	testPassword = "correct horse battery staple"
	testPeer     = "192.0.2.44:40000"
)

// DuckDB is opened one test at a time.
var testDBSemaphore = make(chan struct{}, 1)

type envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
	Error  *struct {
		Code    string                 `json:"code"`
		Message string                 `json:"message"`
		Details map[string]interface{} `json:"details"`
	} `json:"error"`
}

// fakeIcons returns a canned favicon result.
type fakeIcons struct {
	result *favicon.Result
	err    error
	calls  []string
}

func (f *fakeIcons) Fetch(_ context.Context, rawURL string) (*favicon.Result, error) {
	f.calls = append(f.calls, rawURL)
	return f.result, f.err
}

type testServer struct {
	t        *testing.T
	handler  http.Handler
	activity *activity.Service
	articles *articles.Store
	icons    *fakeIcons
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	return newTestServerWithProxies(t, nil)
}

// newTestServerWithProxies builds a server whose RealIP middleware trusts
// the given proxy addresses.
func newTestServerWithProxies(t *testing.T, trustedProxies []string) *testServer {
	t.Helper()

	testDBSemaphore <- struct{}{}
	t.Cleanup(func() { <-testDBSemaphore })

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "1GB"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	c := cache.New(time.Minute, cache.WithName("api-test"))
	t.Cleanup(c.Stop)

	store := activity.NewDuckDBStore(db.Conn())
	require.NoError(t, store.CreateTable(context.Background()))
	activitySvc := activity.NewService(store, config.LogsConfig{MaxVisitRecords: 100, MaxUpdateRecords: 100})

	articleStore, err := articles.NewStore(t.TempDir())
	require.NoError(t, err)

	icons := &fakeIcons{}
	handler := NewHandler(HandlerDeps{
		Navigation: navigation.NewService(db, c, c),
		Settings:   settings.NewService(db, c),
		Activity:   activitySvc,
		Icons:      icons,
		Articles:   articleStore,
		DB:         db,
	})

	mw := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		CORSAllowedMethods: []string{"GET", "POST", "PUT", "DELETE"},
		RateLimitDisabled:  true,
		TrustedProxies:     trustedProxies,
	})
	router := NewRouter(handler, newTestAuth(t), mw, t.TempDir())

	return &testServer{
		t:        t,
		handler:  router.Setup(),
		activity: activitySvc,
		articles: articleStore,
		icons:    icons,
	}
}

func newTestAuth(t *testing.T) *auth.Service {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.SecurityConfig{
		JWTSecret:         "0123456789abcdef-api-test",
		AdminUsername:     testUsername,
		AdminPasswordHash: string(hash),
		TokenTTL:          time.Hour,
		LoginMaxAttempts:  5,
		LoginWindow:       15 * time.Minute,
	}
	ledger := auth.NewMemoryRevocationLedger()
	t.Cleanup(func() { _ = ledger.Close() })

	creds := auth.NewCredentialStore(cfg)
	require.Empty(t, creds.Validate())
	return auth.NewService(
		creds,
		auth.NewLoginLimiter(cfg.LoginMaxAttempts, cfg.LoginWindow),
		auth.NewTokenManager(creds.Secret(), cfg.TokenTTL, ledger),
		ledger,
	)
}

// do sends a request. body may be nil, a string, or a value to marshal.
func (s *testServer) do(method, target, token string, body interface{}) *httptest.ResponseRecorder {
	s.t.Helper()
	return s.send(s.newRequest(method, target, token, body))
}

// newRequest builds a request from testPeer without sending it.
func (s *testServer) newRequest(method, target, token string, body interface{}) *http.Request {
	s.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(s.t, err)
		reader = strings.NewReader(string(data))
	}

	req := httptest.NewRequest(method, target, reader)
	req.RemoteAddr = testPeer
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func (s *testServer) send(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login() string {
	s.t.Helper()
	rec := s.do(http.MethodPost, "/api/auth/login", "", map[string]string{
		"username": testUsername,
		"password": testPassword,
	})
	require.Equal(s.t, http.StatusOK, rec.Code, rec.Body.String())

	var tok auth.TokenResponse
	decodeData(s.t, rec, &tok)
	require.NotEmpty(s.t, tok.AccessToken)
	return tok.AccessToken
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.Equal(t, "success", env.Status, rec.Body.String())
	require.NoError(t, json.Unmarshal(env.Data, v))
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.NotNil(t, env.Error, rec.Body.String())
	return env.Error.Code
}
