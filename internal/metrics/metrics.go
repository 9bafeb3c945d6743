// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Ranking Metrics
	StrategyDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamrank_strategy_duration_seconds",
			Help:    "Duration of a single ranking strategy in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"domain", "strategy"},
	)

	StrategyFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamrank_strategy_failures_total",
			Help: "Total number of ranking strategies that failed, timed out or panicked",
		},
		[]string{"domain", "strategy"},
	)

	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamrank_recommendations_total",
			Help: "Total number of recommendation lists produced",
		},
		[]string{"domain", "personalized"},
	)

	RecommendationCache = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamrank_recommendation_cache_total",
			Help: "Recommendation cache lookups by result",
		},
		[]string{"result"}, // "hit", "miss"
	)

	RecommendationCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamrank_recommendation_cache_entries",
			Help: "Current number of cached recommendation lists",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "streamrank_fetcher_breaker_state",
			Help: "Fetcher circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamrank_fetcher_breaker_requests_total",
			Help: "Total number of fetcher calls through the circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamrank_fetcher_breaker_transitions_total",
			Help: "Total number of fetcher circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Digest Metrics
	DigestRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamrank_digest_runs_total",
			Help: "Total number of digest runs by status",
		},
		[]string{"status"}, // "success", "failure", "skipped"
	)

	DigestUsers = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamrank_digest_users_total",
			Help: "Total number of users processed by the digest",
		},
		[]string{"status"}, // "success", "failure"
	)

	DigestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "streamrank_digest_duration_seconds",
			Help:    "Duration of a full digest run in seconds",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600, 1800},
		},
	)

	// Ingest Metrics
	IngestMessages = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamrank_ingest_messages_total",
			Help: "Total number of interaction messages consumed",
		},
		[]string{"status"}, // "stored", "invalid", "failed"
	)

	IngestPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "streamrank_ingest_published_total",
			Help: "Total number of interaction messages published",
		},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "streamrank_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "streamrank_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "streamrank_http_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// RecordStrategy records the outcome of one ranking strategy.
func RecordStrategy(domain, strategy string, duration time.Duration, err error) {
	StrategyDuration.WithLabelValues(domain, strategy).Observe(duration.Seconds())
	if err != nil {
		StrategyFailures.WithLabelValues(domain, strategy).Inc()
	}
}

// RecordRecommendations counts a produced recommendation list.
func RecordRecommendations(domain string, personalized bool) {
	RecommendationsTotal.WithLabelValues(domain, strconv.FormatBool(personalized)).Inc()
}

// RecordCacheLookup counts a recommendation cache hit or miss.
func RecordCacheLookup(hit bool) {
	if hit {
		RecommendationCache.WithLabelValues("hit").Inc()
		return
	}
	RecommendationCache.WithLabelValues("miss").Inc()
}

// RecordDigestRun records a finished digest run.
func RecordDigestRun(status string, duration time.Duration) {
	DigestRuns.WithLabelValues(status).Inc()
	if status != "skipped" {
		DigestDuration.Observe(duration.Seconds())
	}
}

// RecordDigestUser records the outcome for one user in a digest run.
func RecordDigestUser(err error) {
	if err != nil {
		DigestUsers.WithLabelValues("failure").Inc()
		return
	}
	DigestUsers.WithLabelValues("success").Inc()
}

// RecordIngest counts a consumed interaction message.
func RecordIngest(status string) {
	IngestMessages.WithLabelValues(status).Inc()
}

// RecordAPIRequest records HTTP request metrics.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest increments or decrements the active request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
