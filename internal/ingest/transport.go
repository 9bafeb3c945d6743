// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package ingest

import (
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// TransportConfig selects and configures the pub/sub transport.
type TransportConfig struct {
	// NATS switches from the in-process channel to JetStream.
	NATS bool

	URL              string
	QueueGroup       string
	SubscribersCount int

	MaxReconnects int
	ReconnectWait time.Duration
	AckWait       time.Duration

	// ChannelBuffer is the output buffer of the in-process transport.
	ChannelBuffer int64
}

// Transport is a publisher and subscriber pair over one backend.
type Transport struct {
	Publisher  message.Publisher
	Subscriber message.Subscriber
	Kind       string
}

// NewTransport connects the configured backend.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewTransport(cfg TransportConfig, zlog zerolog.Logger) (*Transport, error) {
	logger := NewLoggerAdapter(zlog.With().Str("component", "watermill").Logger())
	if !cfg.NATS {
		return newChannelTransport(cfg, logger), nil
	}
	return newNATSTransport(cfg, zlog, logger)
}

func newChannelTransport(cfg TransportConfig, logger watermill.LoggerAdapter) *Transport {
	buf := cfg.ChannelBuffer
	if buf <= 0 {
		buf = 1024
	}
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: buf,
		Persistent:          false,
	}, logger)
	return &Transport{Publisher: ch, Subscriber: ch, Kind: "gochannel"}
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newNATSTransport(cfg TransportConfig, zlog zerolog.Logger, logger watermill.LoggerAdapter) (*Transport, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("nats transport: empty url")
	}
	if cfg.MaxReconnects == 0 {
		cfg.MaxReconnects = -1
	}
	if cfg.ReconnectWait <= 0 {
		cfg.ReconnectWait = 2 * time.Second
	}
	if cfg.AckWait <= 0 {
		cfg.AckWait = 30 * time.Second
	}
	if cfg.SubscribersCount <= 0 {
		cfg.SubscribersCount = 1
	}

	natsOpts := []natsgo.Option{
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				zlog.Warn().Err(err).Msg("NATS disconnected")
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			zlog.Info().Str("url", nc.ConnectedUrl()).Msg("NATS reconnected")
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         cfg.URL,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: true,
			TrackMsgId:    true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create nats publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              cfg.URL,
		QueueGroupPrefix: cfg.QueueGroup,
		SubscribersCount: cfg.SubscribersCount,
		AckWaitTimeout:   cfg.AckWait,
		CloseTimeout:     30 * time.Second,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			Disabled:      false,
			AutoProvision: true,
			DurablePrefix: cfg.QueueGroup,
			SubscribeOptions: []natsgo.SubOpt{
				natsgo.AckExplicit(),
				natsgo.DeliverAll(),
			},
		},
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("create nats subscriber: %w", err)
	}

	return &Transport{Publisher: pub, Subscriber: sub, Kind: "nats"}, nil
}

// Close closes both sides. The channel transport shares one object, so it
// is closed once.
func (t *Transport) Close() error {
	var errs []error
	if err := t.Publisher.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close publisher: %w", err))
	}
	if t.Kind != "gochannel" {
		if err := t.Subscriber.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close subscriber: %w", err))
		}
	}
	return errors.Join(errs...)
}
