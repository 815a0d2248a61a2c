// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

/*
Package api provides the HTTP REST API layer for HomeNav.

Every JSON endpoint answers with the models.APIResponse envelope. Domain
errors are mapped to status codes in one place (writeServiceError), so
handlers only decide what to call and what to log.

Route Groups:

 1. Auth (/api/auth): login, logout, me, cleanup-tokens
 2. Navigation (/api/v1): links, categories, reorder, import/export
 3. Admin (/api/v1): logs, favicon fetch, article folders
 4. Settings (/api/settings): public read, admin write
 5. Articles (/api/articles): optional auth for reads, admin for writes
 6. Operations: /health and /metrics

Middleware Stack (global, in order):

  - middleware.RequestID: X-Request-ID and logging correlation
  - chi RealIP and Recoverer
  - go-chi/cors
  - middleware.PrometheusMetrics
  - chi Compress for JSON responses

Per group, go-chi/httprate applies IP rate limits and APISecurityHeaders sets
the usual security headers. Public reads of the navigation and of articles
are recorded in the visit log.

Usage Example:

	handler := api.NewHandler(api.HandlerDeps{
	    Navigation: navSvc,
	    Settings:   settingsSvc,
	    Activity:   activitySvc,
	    Icons:      fetcher,
	    Articles:   articleStore,
	    DB:         db,
	})
	router := api.NewRouter(handler, authSvc, api.NewChiMiddlewareFromConfig(&cfg.Security), cfg.Favicon.IconsDir)
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.Setup()}
*/
package api
