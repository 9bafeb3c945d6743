// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamrank/internal/auth"
	"github.com/tomtom215/streamrank/internal/ingest"
	"github.com/tomtom215/streamrank/internal/models"
)

// maxInteractionBody bounds the request body.
const maxInteractionBody = 4 << 10

// InteractionRequest is the body of POST /api/v1/interactions. The user is
// always the authenticated caller.
type InteractionRequest struct {
	ItemID string                 `json:"item_id"`
	Domain models.Domain          `json:"domain"`
	Kind   models.InteractionKind `json:"kind"`
	At     time.Time              `json:"at"`
}

// InteractionAccepted is returned with 202.
type InteractionAccepted struct {
	MessageID string `json:"message_id"`
}

// Interactions handles POST /api/v1/interactions.
func (h *Handler) Interactions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if h.publisher == nil {
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeUpstream, "Interaction ingest is disabled", nil)
		return
	}

	var req InteractionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxInteractionBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		respondError(w, r, http.StatusBadRequest, ErrCodeValidation, "Invalid JSON body", nil)
		return
	}

	msg := &ingest.InteractionMessage{
		UserID: auth.UserID(r.Context()),
		ItemID: req.ItemID,
		Domain: req.Domain,
		Kind:   req.Kind,
		At:     req.At,
	}
	id, err := h.publisher.Publish(r.Context(), msg)
	if err != nil {
		var invalid *ingest.InvalidError
		if errors.As(err, &invalid) && invalid.Validation != nil {
			respondValidation(w, invalid.Validation)
			return
		}
		if errors.Is(err, ingest.ErrInvalidMessage) {
			respondError(w, r, http.StatusBadRequest, ErrCodeValidation, err.Error(), nil)
			return
		}
		respondError(w, r, http.StatusServiceUnavailable, ErrCodeUpstream, "Interaction ingest is temporarily unavailable", err)
		return
	}

	respondSuccess(w, http.StatusAccepted, &InteractionAccepted{MessageID: id}, start, false)
}
