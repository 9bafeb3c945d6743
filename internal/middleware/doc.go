// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

/*
Package middleware provides the HTTP infrastructure middleware shared by all
API routes.

Key Components:

  - RequestID: X-Request-ID propagation plus a fresh correlation ID in the
    request context, so every log line of a request can be joined
  - PrometheusMetrics: request count, latency and in-flight gauge, labelled
    by chi route pattern rather than raw path to keep cardinality bounded
  - AccessLog: one structured log line per request, at warn level when the
    request is slower than the configured threshold

Middleware Stack:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog(500 * time.Millisecond))
	r.Use(middleware.PrometheusMetrics)

Authentication lives in package auth and CORS and rate limiting are applied
by the router in package api.
*/
package middleware
