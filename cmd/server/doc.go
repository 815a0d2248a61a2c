// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

/*
Package main is the entry point for the HomeNav server.

HomeNav serves a personal start page: ordered categories of links, site
settings, a Markdown article tree and an admin activity log, all behind a
single-admin JWT login.

# Application Architecture

	RootSupervisor ("homenav")
	├── MaintenanceSupervisor ("maintenance-layer")
	│   ├── login-limiter-sweep
	│   └── revocation-prune (if REVOCATION_PRUNE_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, with an slog adapter for suture events
 3. Credentials: refuses to start on a weak secret or missing admin
 4. Database: DuckDB with schema and versioned migrations
 5. Services: auth, navigation, settings, activity, favicon, articles
 6. HTTP: chi router with CORS, httprate and Prometheus middleware
 7. Supervisor tree: runs until SIGINT or SIGTERM

# Example

	export JWT_SECRET=$(openssl rand -base64 32)
	export ADMIN_USERNAME=admin
	export ADMIN_PASSWORD=change-me-please
	export DATABASE_PATH=./homenav.duckdb
	./homenav
*/
package main
