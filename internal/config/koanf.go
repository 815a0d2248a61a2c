// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the config file locations searched in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/homenav/config.yaml",
	"/etc/homenav/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:      "/data/homenav.duckdb",
			MaxMemory: "256MB",
			Threads:   0,
		},
		Security: SecurityConfig{
			JWTSecret:               "",
			AdminUsername:           "",
			AdminPassword:           "",
			AdminPasswordHash:       "",
			TokenTTL:                60 * time.Minute,
			LoginMaxAttempts:        5,
			LoginWindow:             900 * time.Second,
			LimiterCleanupInterval:  5 * time.Minute,
			RevocationStore:         "badger",
			RevocationStorePath:     "/data/revocations",
			RevocationPruneInterval: 0,
			RateLimitReqs:           100,
			RateLimitWindow:         time.Minute,
			RateLimitDisabled:       false,
			CORSOrigins:             []string{"*"},
			TrustedProxies:          []string{},
		},
		Cache: CacheConfig{
			TTL:             60 * time.Second,
			CleanupInterval: 5 * time.Minute,
		},
		Logs: LogsConfig{
			MaxVisitRecords:  1000,
			MaxUpdateRecords: 500,
		},
		Favicon: FaviconConfig{
			IconsDir:          "/data/icons",
			Timeout:           10 * time.Second,
			MaxAttempts:       4,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Articles: ArticlesConfig{
			Dir: "/data/articles",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration in layers, lowest priority first:
//  1. Struct defaults
//  2. Config file (CONFIG_PATH or DefaultConfigPaths)
//  3. Allow-listed environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are keys that accept a comma-separated string from env.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"security.trusted_proxies",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings is the allow-list of environment variables. Anything not listed
// is ignored so unrelated variables never leak into the config tree.
var envMappings = map[string]string{
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",

	"database_path":       "database.path",
	"database_max_memory": "database.max_memory",
	"database_threads":    "database.threads",

	"secret_key":                "security.jwt_secret",
	"jwt_secret":                "security.jwt_secret",
	"admin_username":            "security.admin_username",
	"admin_password":            "security.admin_password",
	"admin_password_hash":       "security.admin_password_hash",
	"token_ttl":                 "security.token_ttl",
	"login_max_attempts":        "security.login_max_attempts",
	"login_window":              "security.login_window",
	"revocation_store":          "security.revocation_store",
	"revocation_store_path":     "security.revocation_store_path",
	"revocation_prune_interval": "security.revocation_prune_interval",
	"rate_limit_requests":       "security.rate_limit_reqs",
	"rate_limit_window":         "security.rate_limit_window",
	"disable_rate_limit":        "security.rate_limit_disabled",
	"cors_origins":              "security.cors_origins",
	"trusted_proxies":           "security.trusted_proxies",

	"cache_ttl": "cache.ttl",

	"max_visit_records":  "logs.max_visit_records",
	"max_update_records": "logs.max_update_records",

	"icons_dir":            "favicon.icons_dir",
	"favicon_timeout":      "favicon.timeout",
	"favicon_max_attempts": "favicon.max_attempts",

	"articles_dir": "articles.dir",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
