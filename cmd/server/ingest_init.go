// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/streamrank/internal/cache"
	"github.com/tomtom215/streamrank/internal/config"
	"github.com/tomtom215/streamrank/internal/ingest"
	"github.com/tomtom215/streamrank/internal/logging"
	"github.com/tomtom215/streamrank/internal/store"
	"github.com/tomtom215/streamrank/internal/supervisor/services"
)

// ingestComponents holds the interaction pipeline: one transport shared by
// the API publisher and the supervised router.
type ingestComponents struct {
	server    *ingest.EmbeddedServer
	transport *ingest.Transport
	consumer  *ingest.Consumer
	publisher *ingest.Publisher
	routerCfg ingest.RouterConfig
	logger    zerolog.Logger
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newIngest(cfg *config.Config, st *store.Store, recCache *cache.Recommendations, logger zerolog.Logger) (*ingestComponents, error) {
	url := cfg.NATS.URL
	var embedded *ingest.EmbeddedServer
	if cfg.NATS.Enabled && cfg.NATS.Embedded {
		srvCfg := ingest.DefaultServerConfig()
		srvCfg.Port = cfg.NATS.EmbeddedPort
		srvCfg.StoreDir = cfg.NATS.EmbeddedStoreDir

		var err error
		embedded, err = ingest.NewEmbeddedServer(srvCfg)
		if err != nil {
			return nil, fmt.Errorf("embedded nats: %w", err)
		}
		url = embedded.ClientURL()
		logger.Info().Str("url", url).Str("store_dir", srvCfg.StoreDir).Msg("Embedded NATS server started")
	}

	transport, err := ingest.NewTransport(ingest.TransportConfig{
		NATS:             cfg.NATS.Enabled,
		URL:              url,
		QueueGroup:       cfg.NATS.QueueGroup,
		SubscribersCount: cfg.NATS.SubscribersCount,
	}, logger)
	if err != nil {
		if embedded != nil {
			shutdownEmbedded(embedded)
		}
		return nil, fmt.Errorf("ingest transport: %w", err)
	}

	routerCfg := ingest.DefaultRouterConfig()
	routerCfg.Topic = cfg.NATS.Topic
	routerCfg.RetryMaxRetries = cfg.NATS.RouterRetryCount
	if cfg.NATS.RouterRetryInitialInterval > 0 {
		routerCfg.RetryInitialInterval = cfg.NATS.RouterRetryInitialInterval
	}
	if cfg.NATS.RouterCloseTimeout > 0 {
		routerCfg.CloseTimeout = cfg.NATS.RouterCloseTimeout
	}
	routerCfg.PoisonTopic = cfg.NATS.Topic + "_poison"

	logger.Info().
		Str("transport", transport.Kind).
		Str("topic", routerCfg.Topic).
		Msg("Interaction ingest initialized")

	return &ingestComponents{
		server:    embedded,
		transport: transport,
		consumer:  ingest.NewConsumer(st, recCache, logger),
		publisher: ingest.NewPublisher(transport.Publisher, routerCfg.Topic),
		routerCfg: routerCfg,
		logger:    logger,
	}, nil
}

// routerFactory builds a fresh router on every supervised start.
func (c *ingestComponents) routerFactory() services.IngestRouterFactory {
	adapter := ingest.NewLoggerAdapter(c.logger.With().Str("component", "ingest-router").Logger())
	return func() (services.IngestRouter, error) {
		return ingest.NewRouter(c.routerCfg, c.transport.Subscriber, c.transport.Publisher, c.consumer, adapter)
	}
}

// Close closes the transport, then the embedded server if one was started.
func (c *ingestComponents) Close() error {
	err := c.transport.Close()
	if c.server != nil {
		shutdownEmbedded(c.server)
	}
	return err
}

func shutdownEmbedded(srv *ingest.EmbeddedServer) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn().Err(err).Msg("Embedded NATS shutdown failed")
	}
}
