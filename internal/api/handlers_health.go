// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package api

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/tomtom215/streamrank/internal/models"
)

const healthCheckTimeout = 2 * time.Second

// Health handles GET /api/v1/health. It answers 200 when every component
// check passes and 503 otherwise, with per-component status in both cases.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	names := make([]string, 0, len(h.health))
	for name := range h.health {
		names = append(names, name)
	}
	sort.Strings(names)

	status := models.HealthStatus{
		Status:     "healthy",
		Version:    h.version,
		Components: make(map[string]string, len(names)),
	}
	code := http.StatusOK
	for _, name := range names {
		if err := h.health[name](ctx); err != nil {
			status.Components[name] = "unhealthy: " + err.Error()
			status.Status = "degraded"
			code = http.StatusServiceUnavailable
			continue
		}
		status.Components[name] = "healthy"
	}

	respondJSON(w, code, &models.APIResponse{
		Status: "success",
		Data:   &status,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// HealthLive handles GET /api/v1/health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
