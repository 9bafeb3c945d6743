// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/streamrank/internal/auth"
	"github.com/tomtom215/streamrank/internal/cache"
	"github.com/tomtom215/streamrank/internal/logging"
	"github.com/tomtom215/streamrank/internal/models"
	"github.com/tomtom215/streamrank/internal/recommend"
)

// errInvalidLimit is reported for non-numeric or non-positive limits.
var errInvalidLimit = errors.New("limit must be a positive integer")

// parseLimit applies the default for an empty value and clamps to the
// maximum.
func (h *Handler) parseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return h.defaultLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, errInvalidLimit
	}
	if n > h.maxLimit {
		n = h.maxLimit
	}
	return n, nil
}

// parseDomain reads the {domain} URL parameter.
func parseDomain(r *http.Request) (models.Domain, error) {
	return models.ParseDomain(chi.URLParam(r, "domain"))
}

// Recommendations handles GET /api/v1/recommendations/{domain}.
//
// Anonymous callers get the baseline ordering for events and sparks. Jobs
// need a known user.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	domain, err := parseDomain(r)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}
	limit, err := h.parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
		return
	}

	ctx := r.Context()
	userID := auth.UserID(ctx)

	if h.cache != nil {
		if res, ok := h.cache.Get(userID, domain, limit); ok {
			respondSuccess(w, http.StatusOK, &models.RecommendationsResponse{
				Domain:       domain,
				Items:        res.IDs,
				Limit:        limit,
				Personalized: res.Personalized,
			}, start, true)
			return
		}
	}

	svc, err := recommend.Create(ctx, domain, h.fetchers(userID), h.engine, h.logger)
	if err != nil {
		h.respondServiceError(w, r, domain, err)
		return
	}
	ids, err := svc.GetRecommendations(ctx, limit)
	if err != nil {
		h.respondServiceError(w, r, domain, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}

	if h.cache != nil {
		h.cache.Put(userID, domain, limit, cache.Result{IDs: ids, Personalized: svc.Personalized()})
	}

	logging.Ctx(ctx).Debug().
		Str("domain", string(domain)).
		Int("limit", limit).
		Int("count", len(ids)).
		Bool("personalized", svc.Personalized()).
		Msg("Recommendations served")

	respondSuccess(w, http.StatusOK, &models.RecommendationsResponse{
		Domain:       domain,
		Items:        ids,
		Limit:        limit,
		Personalized: svc.Personalized(),
	}, start, false)
}

func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, domain models.Domain, err error) {
	switch {
	case errors.Is(err, recommend.ErrUserNotFound):
		respondError(w, r, http.StatusNotFound, ErrCodeUserNotFound,
			fmt.Sprintf("%s recommendations need a known user", domain), nil)
	case errors.Is(err, recommend.ErrUnknownDomain):
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
	default:
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeUpstream,
			"Recommendations are temporarily unavailable", err)
	}
}
