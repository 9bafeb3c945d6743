// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/streamrank/internal/auth"
	"github.com/tomtom215/streamrank/internal/feed"
	"github.com/tomtom215/streamrank/internal/models"
)

// Feed handles GET /api/v1/feed/{domain}: the caller's list from the most
// recent digest run.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.feed == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeUpstream, "Digest feed is disabled", nil)
		return
	}
	domain, err := parseDomain(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	ids, generatedAt, err := h.feed.Latest(r.Context(), auth.UserID(r.Context()), domain)
	if errors.Is(err, feed.ErrNoFeed) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "No digest has been generated yet", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeUpstream, "Digest feed is temporarily unavailable", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	respondSuccess(w, http.StatusOK, &models.FeedResponse{
		Domain:      domain,
		GeneratedAt: generatedAt,
		Items:       ids,
	}, start, false)
}
