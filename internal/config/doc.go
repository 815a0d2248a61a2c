// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

/*
Package config loads and validates HomeNav configuration.

# Sources

Configuration is layered with koanf, lowest priority first:

 1. Struct defaults (defaultConfig)
 2. A YAML file: CONFIG_PATH, or the first of DefaultConfigPaths that exists
 3. Environment variables from an explicit allow-list (envMappings)

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default: 0.0.0.0:8000), HTTP_TIMEOUT, SHUTDOWN_TIMEOUT

Storage:
  - DATABASE_PATH: DuckDB file (default: /data/homenav.duckdb)
  - REVOCATION_STORE, REVOCATION_STORE_PATH: revoked-token ledger backend

Security:
  - SECRET_KEY or JWT_SECRET, ADMIN_USERNAME, ADMIN_PASSWORD, ADMIN_PASSWORD_HASH
  - TOKEN_TTL, LOGIN_MAX_ATTEMPTS, LOGIN_WINDOW, CORS_ORIGINS (comma-separated)
  - TRUSTED_PROXIES: comma-separated proxy IPs/CIDRs whose X-Forwarded-For is honored

Content:
  - ARTICLES_DIR, ICONS_DIR, FAVICON_TIMEOUT, FAVICON_MAX_ATTEMPTS
  - MAX_VISIT_RECORDS, MAX_UPDATE_RECORDS, CACHE_TTL

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Example config.yaml

	server:
	  port: 8000
	security:
	  admin_username: admin
	  token_ttl: 60m
	  revocation_store: badger
	  revocation_store_path: /data/revocations
	logs:
	  max_visit_records: 1000

Validate reports every invalid field at once using errors.Join.
*/
package config
