// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/streamrank/internal/logging"
	"github.com/tomtom215/streamrank/internal/metrics"
	"github.com/tomtom215/streamrank/internal/models"
	"github.com/tomtom215/streamrank/internal/store"
)

// Ingest outcomes, used as the status label of the ingest counter.
const (
	StatusStored  = "stored"
	StatusInvalid = "invalid"
	StatusFailed  = "failed"
)

// Appender persists interactions. *store.Store satisfies it.
type Appender interface {
	AppendInteraction(ctx context.Context, ix models.Interaction) error
}

// Invalidator drops cached recommendations of a user.
// *cache.Recommendations satisfies it.
type Invalidator interface {
	InvalidateUser(userID string) int
}

// Consumer stores interactions delivered by the router.
type Consumer struct {
	store       Appender
	invalidator Invalidator
	logger      zerolog.Logger
}

// NewConsumer creates a consumer. invalidator may be nil.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewConsumer(appender Appender, invalidator Invalidator, logger zerolog.Logger) *Consumer {
	return &Consumer{
		store:       appender,
		invalidator: invalidator,
		logger:      logger.With().Str("component", "ingest_consumer").Logger(),
	}
}

// Handle is a message.NoPublishHandlerFunc. A nil return acks the message;
// an error nacks it for retry.
func (c *Consumer) Handle(msg *message.Message) error {
	ctx := msg.Context()
	if cid := msg.Metadata.Get(CorrelationIDKey); cid != "" {
		ctx = logging.ContextWithCorrelationID(ctx, cid)
	}

	m, err := Decode(msg.Payload)
	if err != nil {
		metrics.RecordIngest(StatusInvalid)
		c.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping invalid interaction")
		return nil
	}

	if err := c.store.AppendInteraction(ctx, m.Interaction()); err != nil {
		if errors.Is(err, store.ErrInvalidID) {
			metrics.RecordIngest(StatusInvalid)
			c.logger.Warn().Err(err).Str("message_id", msg.UUID).Msg("Dropping interaction with invalid id")
			return nil
		}
		metrics.RecordIngest(StatusFailed)
		return fmt.Errorf("store interaction %s: %w", msg.UUID, err)
	}

	metrics.RecordIngest(StatusStored)
	if c.invalidator != nil {
		c.invalidator.InvalidateUser(m.UserID)
	}
	logging.Ctx(ctx).Debug().
		Str("user_id", m.UserID).
		Str("item_id", m.ItemID).
		Str("domain", string(m.Domain)).
		Str("kind", string(m.Kind)).
		Msg("Interaction stored")
	return nil
}
