// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

/*
Package middleware provides chi-compatible HTTP middleware shared by the API
router.

Key Components:

  - RequestID: X-Request-ID propagation into the logging context
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern so path parameters do not explode cardinality
  - RecordVisits: appends a visit log entry for each successful public read
  - TrustedRealIP: honors X-Forwarded-For/X-Real-IP only from trusted proxies

Typical stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.TrustedRealIP(trustedProxies))
	r.Use(middleware.PrometheusMetrics)
	r.With(middleware.RecordVisits(activitySvc)).Get("/api/v1/links", h.ListLinks)
*/
package middleware
