// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/streamrank/internal/logging"
	"github.com/tomtom215/streamrank/internal/metrics"
)

// CorrelationIDKey is the metadata key carrying the request correlation ID.
const CorrelationIDKey = "correlation_id"

// Publisher validates interactions and publishes them on the topic.
type Publisher struct {
	pub   message.Publisher
	topic string
	now   func() time.Time
}

// NewPublisher wraps pub. An empty topic means DefaultTopic.
func NewPublisher(pub message.Publisher, topic string) *Publisher {
	if topic == "" {
		topic = DefaultTopic
	}
	return &Publisher{pub: pub, topic: topic, now: time.Now}
}

// Publish validates m and publishes it. A zero At is stamped with the
// current time. Validation failures wrap ErrInvalidMessage and nothing is
// published.
func (p *Publisher) Publish(ctx context.Context, m *InteractionMessage) (string, error) {
	if m == nil {
		return "", &InvalidError{Cause: fmt.Errorf("nil message")}
	}
	if err := m.Validate(); err != nil {
		return "", err
	}
	if m.At.IsZero() {
		m.At = p.now().UTC()
	}

	data, err := Encode(m)
	if err != nil {
		return "", fmt.Errorf("encode interaction: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	// JetStream deduplicates on the message ID header.
	msg.Metadata.Set(natsgo.MsgIdHdr, msg.UUID)
	if cid := logging.CorrelationIDFromContext(ctx); cid != "" {
		msg.Metadata.Set(CorrelationIDKey, cid)
	}

	if err := p.pub.Publish(p.topic, msg); err != nil {
		return "", fmt.Errorf("publish interaction: %w", err)
	}
	metrics.IngestPublished.Inc()
	return msg.UUID, nil
}
