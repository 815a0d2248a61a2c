// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"
)

// Validate checks every section and returns all problems joined together,
// so an operator sees the whole list in one run. Admin credential checks are
// done by the auth credential store, not here.
func (c *Config) Validate() error {
	var errs []error
	errs = append(errs, c.validateServer()...)
	errs = append(errs, c.validateDatabase()...)
	errs = append(errs, c.validateSecurity()...)
	errs = append(errs, c.validateCache()...)
	errs = append(errs, c.validateLogs()...)
	errs = append(errs, c.validateFavicon()...)
	errs = append(errs, c.validateLogging()...)
	return errors.Join(errs...)
}

func (c *Config) validateServer() []error {
	var errs []error
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout))
	}
	if c.Server.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive, got %s", c.Server.ShutdownTimeout))
	}
	return errs
}

func (c *Config) validateDatabase() []error {
	var errs []error
	if strings.TrimSpace(c.Database.Path) == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required"))
	}
	if c.Database.Threads < 0 {
		errs = append(errs, fmt.Errorf("DATABASE_THREADS must not be negative, got %d", c.Database.Threads))
	}
	return errs
}

func (c *Config) validateSecurity() []error {
	s := c.Security
	var errs []error
	if s.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must be positive, got %s", s.TokenTTL))
	}
	if s.LoginMaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("LOGIN_MAX_ATTEMPTS must be at least 1, got %d", s.LoginMaxAttempts))
	}
	if s.LoginWindow < time.Second {
		errs = append(errs, fmt.Errorf("LOGIN_WINDOW must be at least 1s, got %s", s.LoginWindow))
	}
	if s.LimiterCleanupInterval <= 0 {
		errs = append(errs, fmt.Errorf("security.limiter_cleanup_interval must be positive, got %s", s.LimiterCleanupInterval))
	}
	switch s.RevocationStore {
	case "memory":
	case "badger":
		if strings.TrimSpace(s.RevocationStorePath) == "" {
			errs = append(errs, errors.New("REVOCATION_STORE_PATH is required when REVOCATION_STORE=badger"))
		}
	default:
		errs = append(errs, fmt.Errorf("REVOCATION_STORE must be memory or badger, got %q", s.RevocationStore))
	}
	if s.RevocationPruneInterval < 0 {
		errs = append(errs, fmt.Errorf("REVOCATION_PRUNE_INTERVAL must not be negative, got %s", s.RevocationPruneInterval))
	}
	if !s.RateLimitDisabled {
		if s.RateLimitReqs < 1 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1, got %d", s.RateLimitReqs))
		}
		if s.RateLimitWindow <= 0 {
			errs = append(errs, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", s.RateLimitWindow))
		}
	}
	for _, proxy := range s.TrustedProxies {
		if !validProxyEntry(proxy) {
			errs = append(errs, fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP or CIDR", proxy))
		}
	}
	return errs
}

func (c *Config) validateCache() []error {
	var errs []error
	if c.Cache.TTL <= 0 {
		errs = append(errs, fmt.Errorf("CACHE_TTL must be positive, got %s", c.Cache.TTL))
	}
	if c.Cache.CleanupInterval <= 0 {
		errs = append(errs, fmt.Errorf("cache.cleanup_interval must be positive, got %s", c.Cache.CleanupInterval))
	}
	return errs
}

func (c *Config) validateLogs() []error {
	var errs []error
	if c.Logs.MaxVisitRecords < 1 {
		errs = append(errs, fmt.Errorf("MAX_VISIT_RECORDS must be at least 1, got %d", c.Logs.MaxVisitRecords))
	}
	if c.Logs.MaxUpdateRecords < 1 {
		errs = append(errs, fmt.Errorf("MAX_UPDATE_RECORDS must be at least 1, got %d", c.Logs.MaxUpdateRecords))
	}
	return errs
}

func (c *Config) validateFavicon() []error {
	f := c.Favicon
	var errs []error
	if strings.TrimSpace(f.IconsDir) == "" {
		errs = append(errs, errors.New("ICONS_DIR is required"))
	}
	if f.Timeout <= 0 || f.Timeout > 30*time.Second {
		errs = append(errs, fmt.Errorf("FAVICON_TIMEOUT must be in (0s, 30s], got %s", f.Timeout))
	}
	if f.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("FAVICON_MAX_ATTEMPTS must be at least 1, got %d", f.MaxAttempts))
	}
	if f.RequestsPerSecond <= 0 {
		errs = append(errs, fmt.Errorf("favicon.requests_per_second must be positive, got %v", f.RequestsPerSecond))
	}
	if f.Burst < 1 {
		errs = append(errs, fmt.Errorf("favicon.burst must be at least 1, got %d", f.Burst))
	}
	return errs
}

func (c *Config) validateLogging() []error {
	var errs []error
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format))
	}
	return errs
}

func validProxyEntry(entry string) bool {
	entry = strings.TrimSpace(entry)
	if _, err := netip.ParseAddr(entry); err == nil {
		return true
	}
	_, err := netip.ParsePrefix(entry)
	return err == nil
}
