// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package favicon

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/homenav/internal/config"
	"github.com/tomtom215/homenav/internal/logging"
	"github.com/tomtom215/homenav/internal/metrics"
	"github.com/tomtom215/homenav/internal/models"
)

const (
	breakerName = "favicon"
	userAgent   = "Mozilla/5.0 (compatible; HomeNav favicon fetcher)"

	// minIconBytes rejects placeholder and error bodies.
	minIconBytes = 100
	maxIconBytes = 1 << 20
	maxPageBytes = 512 << 10
)

var fallbackPaths = []string{"/favicon.ico", "/favicon.png", "/apple-touch-icon.png"}

// errBadStatus marks a non-200 answer. It does not count against the breaker.
var errBadStatus = errors.New("unexpected status")

// Result is a saved icon. Icon is the file name under the icons directory.
type Result struct {
	Icon      string `json:"icon"`
	SourceURL string `json:"source_url"`
	Message   string `json:"message"`
}

// Fetcher downloads site icons into a directory.
type Fetcher struct {
	cfg     config.FaviconConfig
	guard   *Guard
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[[]byte]
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithGuard replaces the default SSRF guard.
func WithGuard(g *Guard) Option {
	return func(f *Fetcher) { f.guard = g }
}

// NewFetcher creates a fetcher writing into cfg.IconsDir.
func NewFetcher(cfg config.FaviconConfig, opts ...Option) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 4
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 2
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 4
	}

	f := &Fetcher{
		cfg:     cfg,
		guard:   NewGuard(),
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}
	for _, opt := range opts {
		opt(f)
	}

	dialer := &net.Dialer{Timeout: cfg.Timeout, Control: f.guard.dialControl}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	f.client = &http.Client{
		Transport: transport,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 5 {
				return errors.New("too many redirects")
			}
			return f.guard.Check(req.Context(), req.URL)
		},
	}

	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)
	f.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errBadStatus) || errors.Is(err, models.ErrValidation)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})
	return f
}

// Fetch finds an icon for rawURL and saves it. A URL that fails the SSRF
// guard returns models.ErrValidation; every other failure returns
// models.ErrUpstreamUnavailable.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	rawURL = strings.TrimSpace(rawURL)
	if !strings.Contains(rawURL, "://") {
		rawURL = "https://" + rawURL
	}
	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid url: %v", models.ErrValidation, err)
	}
	if err := f.guard.Check(ctx, target); err != nil {
		metrics.FaviconFetches.WithLabelValues("blocked").Inc()
		return nil, err
	}

	base := &url.URL{Scheme: target.Scheme, Host: target.Host, Path: "/"}
	attempts := 0

	candidates := make([]string, 0, len(fallbackPaths)+2)
	page, err := f.get(ctx, target.String())
	attempts++
	if err == nil {
		candidates = append(candidates, parseIconLinks(bytes.NewReader(page), target)...)
	} else {
		logging.Debug().Err(err).Str("url", target.String()).Msg("Favicon page fetch failed")
	}
	for _, p := range fallbackPaths {
		candidates = append(candidates, base.ResolveReference(&url.URL{Path: p}).String())
	}

	for _, candidate := range dedupe(candidates) {
		if attempts >= f.cfg.MaxAttempts {
			break
		}
		cu, err := url.Parse(candidate)
		if err != nil || f.guard.Check(ctx, cu) != nil {
			continue
		}
		attempts++
		body, contentType, err := f.download(ctx, candidate)
		if err != nil {
			logging.Debug().Err(err).Str("candidate", candidate).Msg("Favicon candidate failed")
			continue
		}
		if len(body) <= minIconBytes {
			continue
		}

		name := iconFileName(target.Host, candidate, contentType)
		if err := f.save(name, body); err != nil {
			logging.Warn().Err(err).Str("file", name).Msg("Failed to save favicon")
			metrics.FaviconFetches.WithLabelValues("error").Inc()
			return nil, fmt.Errorf("%w: save icon: %v", models.ErrUpstreamUnavailable, err)
		}
		metrics.FaviconFetches.WithLabelValues("saved").Inc()
		return &Result{Icon: name, SourceURL: candidate, Message: "icon saved"}, nil
	}

	metrics.FaviconFetches.WithLabelValues("not_found").Inc()
	return nil, fmt.Errorf("%w: no icon found for %s", models.ErrUpstreamUnavailable, target.Host)
}

func (f *Fetcher) get(ctx context.Context, rawURL string) ([]byte, error) {
	body, _, err := f.fetch(ctx, rawURL, maxPageBytes)
	return body, err
}

func (f *Fetcher) download(ctx context.Context, rawURL string) ([]byte, string, error) {
	return f.fetch(ctx, rawURL, maxIconBytes)
}

// fetch performs one rate-limited, breaker-guarded GET with its own timeout.
func (f *Fetcher) fetch(ctx context.Context, rawURL string, limit int64) ([]byte, string, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.cfg.Timeout)
	defer cancel()

	if err := f.limiter.Wait(attemptCtx); err != nil {
		return nil, "", err
	}

	var contentType string
	body, err := f.breaker.Execute(func() ([]byte, error) {
		req, err := http.NewRequestWithContext(attemptCtx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
			return nil, fmt.Errorf("%w: %d", errBadStatus, resp.StatusCode)
		}
		contentType = resp.Header.Get("Content-Type")
		return io.ReadAll(io.LimitReader(resp.Body, limit))
	})
	if err != nil {
		result := "failure"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			result = "rejected"
		}
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, result).Inc()
		return nil, "", err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	return body, contentType, nil
}

func (f *Fetcher) save(name string, body []byte) error {
	if err := os.MkdirAll(f.cfg.IconsDir, 0o750); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(f.cfg.IconsDir, ".icon-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(body); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), filepath.Join(f.cfg.IconsDir, name))
}

// iconFileName is the host with dots and colons replaced, plus an extension
// from the content type or the URL path.
func iconFileName(host, iconURL, contentType string) string {
	name := strings.NewReplacer(".", "_", ":", "_").Replace(strings.ToLower(host))
	return name + iconExt(iconURL, contentType)
}

func iconExt(iconURL, contentType string) string {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	switch {
	case strings.Contains(mediaType, "png"):
		return ".png"
	case strings.Contains(mediaType, "svg"):
		return ".svg"
	case strings.Contains(mediaType, "jpeg"), strings.Contains(mediaType, "jpg"):
		return ".jpg"
	case strings.Contains(mediaType, "webp"):
		return ".webp"
	}
	if u, err := url.Parse(iconURL); err == nil {
		switch strings.ToLower(path.Ext(u.Path)) {
		case ".png":
			return ".png"
		case ".svg":
			return ".svg"
		case ".jpg", ".jpeg":
			return ".jpg"
		}
	}
	return ".ico"
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
