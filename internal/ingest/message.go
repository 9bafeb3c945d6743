// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package ingest

import (
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/streamrank/internal/models"
	"github.com/tomtom215/streamrank/internal/validation"
)

// DefaultTopic is the topic interactions are published on.
const DefaultTopic = "interactions"

// ErrInvalidMessage wraps decode and validation failures.
var ErrInvalidMessage = errors.New("invalid interaction message")

// InteractionMessage is the wire format of one interaction.
type InteractionMessage struct {
	UserID string                 `json:"user_id" validate:"required,record_id"`
	ItemID string                 `json:"item_id" validate:"required,record_id"`
	Domain models.Domain          `json:"domain" validate:"required,domain"`
	Kind   models.InteractionKind `json:"kind" validate:"required,interaction_kind"`
	At     time.Time              `json:"at"`
}

// Interaction converts the message to the stored form.
func (m *InteractionMessage) Interaction() models.Interaction {
	return models.Interaction{
		UserID: m.UserID,
		ItemID: m.ItemID,
		Domain: m.Domain,
		Kind:   m.Kind,
		At:     m.At,
	}
}

// Validate checks the message. Failures wrap ErrInvalidMessage and carry the
// field errors.
func (m *InteractionMessage) Validate() error {
	if verr := validation.ValidateStruct(m); verr != nil {
		return &InvalidError{Validation: verr}
	}
	return nil
}

// InvalidError describes why a message was rejected.
type InvalidError struct {
	Validation *validation.RequestValidationError
	Cause      error
}

func (e *InvalidError) Error() string {
	if e.Validation != nil {
		return fmt.Sprintf("%s: %s", ErrInvalidMessage, e.Validation.Error())
	}
	return fmt.Sprintf("%s: %v", ErrInvalidMessage, e.Cause)
}

func (e *InvalidError) Unwrap() error { return ErrInvalidMessage }

// Encode serializes m.
func Encode(m *InteractionMessage) ([]byte, error) {
	return json.Marshal(m)
}

// Decode parses and validates a payload.
func Decode(payload []byte) (*InteractionMessage, error) {
	var m InteractionMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, &InvalidError{Cause: err}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}
