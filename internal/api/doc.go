// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

/*
Package api serves recommendations, digest feeds and interaction ingest over
HTTP using the Chi router.

Routes:

	GET  /api/v1/health                      liveness plus component pings
	GET  /metrics                            Prometheus exposition
	GET  /api/v1/recommendations/{domain}    optional auth, ?limit=
	GET  /api/v1/feed/{domain}               auth required
	POST /api/v1/interactions                auth required, 202 Accepted

Every JSON body is a models.APIResponse. Errors carry a machine-readable
code:

	VALIDATION_ERROR      400  bad domain, limit or body
	AUTHENTICATION_ERROR  401  missing, invalid or expired token
	USER_NOT_FOUND        404  jobs requested without a known user
	NOT_FOUND             404  no digest feed yet
	RATE_LIMIT_EXCEEDED   429
	UPSTREAM_UNAVAILABLE  503  data source failed or circuit open
	INTERNAL_ERROR        500

Recommendations are cached per (user, domain, limit). Ingest drops a user's
entries when one of their interactions is stored.
*/
package api
