// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package middleware

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/streamrank/internal/logging"
)

// DefaultSlowRequestThreshold is used when AccessLog gets a threshold <= 0.
const DefaultSlowRequestThreshold = 500 * time.Millisecond

// AccessLog logs each request once it completes: debug for normal requests,
// warn for slow ones and 5xx responses.
func AccessLog(slowThreshold time.Duration) func(http.Handler) http.Handler {
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowRequestThreshold
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapper := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapper, r)

			duration := time.Since(start)
			level := zerolog.DebugLevel
			if duration >= slowThreshold || wrapper.statusCode >= http.StatusInternalServerError {
				level = zerolog.WarnLevel
			}

			logging.Ctx(r.Context()).WithLevel(level).
				Str("method", r.Method).
				Str("route", routePattern(r)).
				Int("status", wrapper.statusCode).
				Dur("duration", duration).
				Bool("slow", duration >= slowThreshold).
				Msg("HTTP request")
		})
	}
}
