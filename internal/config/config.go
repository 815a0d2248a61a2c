// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package config

import "time"

// Config is the complete application configuration.
//
// It is built by Load from three layers: struct defaults, an optional YAML
// file, then an allow-listed set of environment variables. Config is
// immutable after Load and safe for concurrent reads.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Cache    CacheConfig    `koanf:"cache"`
	Logs     LogsConfig     `koanf:"logs"`
	Favicon  FaviconConfig  `koanf:"favicon"`
	Articles ArticlesConfig `koanf:"articles"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"` // 0 = DuckDB default
}

// SecurityConfig holds the admin identity, token and login-limiter settings.
//
// Environment Variables:
//   - SECRET_KEY or JWT_SECRET: HS256 signing secret, at least 16 characters
//   - ADMIN_USERNAME: the single admin account
//   - ADMIN_PASSWORD: plaintext, hashed once with bcrypt at startup
//   - ADMIN_PASSWORD_HASH: a bcrypt hash ($2a$, $2b$, $2y$), takes precedence
//   - TOKEN_TTL: session token lifetime (default: 60m)
//   - LOGIN_MAX_ATTEMPTS / LOGIN_WINDOW: failed-login lockout (default: 5 per 15m)
//   - REVOCATION_STORE: memory or badger (default: badger)
type SecurityConfig struct {
	JWTSecret         string        `koanf:"jwt_secret"`
	AdminUsername     string        `koanf:"admin_username"`
	AdminPassword     string        `koanf:"admin_password"`
	AdminPasswordHash string        `koanf:"admin_password_hash"`
	TokenTTL          time.Duration `koanf:"token_ttl"`

	LoginMaxAttempts       int           `koanf:"login_max_attempts"`
	LoginWindow            time.Duration `koanf:"login_window"`
	LimiterCleanupInterval time.Duration `koanf:"limiter_cleanup_interval"`

	RevocationStore         string        `koanf:"revocation_store"`
	RevocationStorePath     string        `koanf:"revocation_store_path"`
	RevocationPruneInterval time.Duration `koanf:"revocation_prune_interval"` // 0 disables the background prune

	// Request-level throttling applied by httprate on top of the login limiter.
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	CORSOrigins []string `koanf:"cors_origins"`

	// Peers allowed to set X-Forwarded-For/X-Real-IP. Empty trusts nobody.
	TrustedProxies []string `koanf:"trusted_proxies"`
}

// CacheConfig holds read-through cache settings.
type CacheConfig struct {
	TTL             time.Duration `koanf:"ttl"`
	CleanupInterval time.Duration `koanf:"cleanup_interval"`
}

// LogsConfig bounds the visit and update log tables.
type LogsConfig struct {
	MaxVisitRecords  int `koanf:"max_visit_records"`
	MaxUpdateRecords int `koanf:"max_update_records"`
}

// FaviconConfig holds outbound icon fetch settings.
type FaviconConfig struct {
	IconsDir          string        `koanf:"icons_dir"`
	Timeout           time.Duration `koanf:"timeout"` // per attempt
	MaxAttempts       int           `koanf:"max_attempts"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
}

// ArticlesConfig locates the Markdown article tree.
type ArticlesConfig struct {
	Dir string `koanf:"dir"`
}

// LoggingConfig holds logging settings.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from defaults, config file and environment, then
// validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// Addr returns the host:port the HTTP server binds to.
func (s ServerConfig) Addr() string {
	return joinHostPort(s.Host, s.Port)
}
