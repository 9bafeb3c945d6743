// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package ingest

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
)

// RouterConfig holds router settings.
type RouterConfig struct {
	Topic string

	// CloseTimeout is how long Close waits for in-flight handlers.
	CloseTimeout time.Duration

	RetryMaxRetries      int
	RetryInitialInterval time.Duration
	RetryMaxInterval     time.Duration

	// PoisonTopic receives messages that failed every retry. Empty
	// disables the poison queue and failed messages are nacked.
	PoisonTopic string
}

// DefaultRouterConfig returns production defaults.
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		Topic:                DefaultTopic,
		CloseTimeout:         30 * time.Second,
		RetryMaxRetries:      3,
		RetryInitialInterval: 100 * time.Millisecond,
		RetryMaxInterval:     5 * time.Second,
		PoisonTopic:          DefaultTopic + "_poison",
	}
}

// Router consumes the interaction topic.
type Router struct {
	router  *message.Router
	config  RouterConfig
	running atomic.Bool
}

// NewRouter wires consumer to the topic on sub. Poison messages are
// published on pub when both pub and cfg.PoisonTopic are set.
//
// Middleware runs outer to inner:
//  1. PoisonQueue catches what survives every retry
//  2. Recoverer turns panics into errors
//  3. Retry retries with exponential backoff
func NewRouter(cfg RouterConfig, sub message.Subscriber, pub message.Publisher, consumer *Consumer, logger watermill.LoggerAdapter) (*Router, error) {
	if sub == nil {
		return nil, fmt.Errorf("ingest router: nil subscriber")
	}
	if consumer == nil {
		return nil, fmt.Errorf("ingest router: nil consumer")
	}
	if logger == nil {
		logger = watermill.NopLogger{}
	}
	if cfg.Topic == "" {
		cfg.Topic = DefaultTopic
	}

	wmRouter, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	if pub != nil && cfg.PoisonTopic != "" {
		poison, err := middleware.PoisonQueue(pub, cfg.PoisonTopic)
		if err != nil {
			return nil, fmt.Errorf("create poison queue middleware: %w", err)
		}
		wmRouter.AddMiddleware(poison)
	}

	wmRouter.AddMiddleware(middleware.Recoverer)

	retry := middleware.Retry{
		MaxRetries:      cfg.RetryMaxRetries,
		InitialInterval: cfg.RetryInitialInterval,
		MaxInterval:     cfg.RetryMaxInterval,
		Multiplier:      2,
		Logger:          logger,
	}
	wmRouter.AddMiddleware(retry.Middleware)

	wmRouter.AddConsumerHandler("interactions_store", cfg.Topic, sub, consumer.Handle)

	return &Router{router: wmRouter, config: cfg}, nil
}

// Run blocks until ctx is cancelled or Close is called.
func (r *Router) Run(ctx context.Context) error {
	r.running.Store(true)
	defer r.running.Store(false)
	return r.router.Run(ctx)
}

// Running closes once every handler is subscribed.
func (r *Router) Running() <-chan struct{} {
	return r.router.Running()
}

// IsRunning reports whether Run is in progress.
func (r *Router) IsRunning() bool {
	return r.running.Load()
}

// Close stops the router, waiting up to CloseTimeout for in-flight messages.
func (r *Router) Close() error {
	return r.router.Close()
}
