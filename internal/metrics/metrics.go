// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homenav_db_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homenav_db_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homenav_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "homenav_api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 15},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "homenav_api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homenav_api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Authentication Metrics
	LoginAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homenav_login_attempts_total",
			Help: "Login attempts by outcome",
		},
		[]string{"outcome"}, // success, failure, locked
	)

	TokensRevoked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homenav_tokens_revoked_total",
			Help: "Token revocations by result",
		},
		[]string{"result"}, // stored, failed
	)

	RevokedTokensPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "homenav_revoked_tokens_pruned_total",
			Help: "Expired revocation entries removed",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homenav_cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homenav_cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "homenav_cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homenav_cache_invalidations_total",
			Help: "Entries dropped by prefix invalidation",
		},
		[]string{"cache_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "homenav_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homenav_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // success, failure, rejected
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homenav_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Favicon Metrics
	FaviconFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homenav_favicon_fetches_total",
			Help: "Favicon fetch operations by result",
		},
		[]string{"result"}, // saved, not_found, blocked
	)

	// Activity Log Metrics
	ActivityRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homenav_activity_records_total",
			Help: "Activity log rows written",
		},
		[]string{"kind"}, // visit, update
	)

	ActivityTrimmed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homenav_activity_trimmed_total",
			Help: "Activity log rows evicted by trimming",
		},
		[]string{"kind"},
	)

	// Navigation Metrics
	NavigationMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "homenav_navigation_mutations_total",
			Help: "Category and link writes by operation",
		},
		[]string{"operation"},
	)
)

// RecordDBQuery records a database query metric.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks in-flight API requests.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordLogin records a login attempt outcome.
func RecordLogin(outcome string) {
	LoginAttempts.WithLabelValues(outcome).Inc()
}

// RecordRevocation records whether a revocation was persisted.
func RecordRevocation(stored bool) {
	if stored {
		TokensRevoked.WithLabelValues("stored").Inc()
		return
	}
	TokensRevoked.WithLabelValues("failed").Inc()
}

// RecordPruned adds n pruned revocation entries.
func RecordPruned(n int) {
	if n > 0 {
		RevokedTokensPruned.Add(float64(n))
	}
}

// RecordActivity records a written log row and the number of rows trimmed after it.
func RecordActivity(kind string, trimmed int64) {
	ActivityRecords.WithLabelValues(kind).Inc()
	if trimmed > 0 {
		ActivityTrimmed.WithLabelValues(kind).Add(float64(trimmed))
	}
}

// RecordMutation counts a navigation write.
func RecordMutation(operation string) {
	NavigationMutations.WithLabelValues(operation).Inc()
}
