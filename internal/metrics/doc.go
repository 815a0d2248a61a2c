// HomeNav - Personal Homepage and Link Navigation Manager
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/homenav

/*
Package metrics defines HomeNav's Prometheus metrics.

All metrics are registered with promauto on the default registry and exposed
at /metrics by promhttp.Handler:

	curl http://localhost:8000/metrics

# Available Metrics

HTTP:
  - homenav_api_requests_total{method, endpoint, status_code}
  - homenav_api_request_duration_seconds{method, endpoint}
  - homenav_api_active_requests
  - homenav_api_rate_limit_hits_total{endpoint}

Authentication:
  - homenav_login_attempts_total{outcome}: success, failure, locked
  - homenav_tokens_revoked_total{result}: stored, failed
  - homenav_revoked_tokens_pruned_total

Storage and cache:
  - homenav_db_query_duration_seconds{operation, table}
  - homenav_cache_hits_total, homenav_cache_misses_total, homenav_cache_entries{cache_type}
  - homenav_navigation_mutations_total{operation}
  - homenav_activity_records_total{kind}, homenav_activity_trimmed_total{kind}

Favicon fetcher:
  - homenav_circuit_breaker_state{name}: 0=closed, 1=half-open, 2=open
  - homenav_circuit_breaker_requests_total{name, result}
  - homenav_favicon_fetches_total{result}
*/
package metrics
