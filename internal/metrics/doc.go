// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

/*
Package metrics provides Prometheus metrics for Streamrank.

All collectors are registered with the default registry through promauto
and exposed at /metrics:

	curl http://localhost:8080/metrics

Ranking:
  - streamrank_strategy_duration_seconds{domain,strategy}
  - streamrank_strategy_failures_total{domain,strategy}
  - streamrank_recommendations_total{domain,personalized}
  - streamrank_recommendation_cache_total{result}

Data fetching:
  - streamrank_fetcher_breaker_state{name} (0=closed, 1=half-open, 2=open)
  - streamrank_fetcher_breaker_requests_total{name,result}
  - streamrank_fetcher_breaker_transitions_total{name,from_state,to_state}

Batch and ingest:
  - streamrank_digest_runs_total{status}
  - streamrank_digest_users_total{status}
  - streamrank_ingest_messages_total{status}

HTTP:
  - streamrank_http_requests_total{method,endpoint,status_code}
  - streamrank_http_request_duration_seconds{method,endpoint}

Record* helpers wrap the label handling so callers never build label
values by hand.
*/
package metrics
