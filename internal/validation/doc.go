// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

// Package validation provides struct validation using go-playground/validator v10.
// It provides a thread-safe singleton validator instance with custom validators
// for Streamrank's identifiers.
//
// Features:
//   - Singleton validator instance (thread-safe, caches struct info)
//   - Fields are reported by their JSON names
//   - Custom tags: domain, interaction_kind, record_id
//   - Error translation to the API's VALIDATION_ERROR format
//
// Example usage:
//
//	type InteractionRequest struct {
//	    ItemID string        `json:"item_id" validate:"required,record_id"`
//	    Domain models.Domain `json:"domain" validate:"required,domain"`
//	}
//
//	if err := validation.ValidateStruct(&req); err != nil {
//	    apiErr := err.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
package validation
