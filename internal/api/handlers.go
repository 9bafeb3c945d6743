// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package api

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/streamrank/internal/cache"
	"github.com/tomtom215/streamrank/internal/ingest"
	"github.com/tomtom215/streamrank/internal/models"
	"github.com/tomtom215/streamrank/internal/recommend"
)

// Limit bounds applied when Deps leaves them unset.
const (
	DefaultLimit = 10
	MaxLimit     = 30
)

// FetcherFactory returns the data fetcher for one request. userID is ""
// for anonymous callers.
type FetcherFactory func(userID string) recommend.DataFetcher

// FeedReader reads the newest digest list. *feed.Feed satisfies it.
type FeedReader interface {
	Latest(ctx context.Context, userID string, domain models.Domain) ([]string, time.Time, error)
}

// InteractionPublisher hands interactions to ingest. *ingest.Publisher
// satisfies it.
type InteractionPublisher interface {
	Publish(ctx context.Context, m *ingest.InteractionMessage) (string, error)
}

// HealthCheck reports whether a component can serve.
type HealthCheck func(ctx context.Context) error

// Deps are the handler dependencies. Fetchers is required; the rest are
// optional and disable their routes with 503 when nil.
type Deps struct {
	Fetchers  FetcherFactory
	Engine    *recommend.Config
	Cache     *cache.Recommendations
	Feed      FeedReader
	Publisher InteractionPublisher
	Health    map[string]HealthCheck

	DefaultLimit int
	MaxLimit     int

	Version string
	Logger  zerolog.Logger
}

// Handler serves the API endpoints.
type Handler struct {
	fetchers  FetcherFactory
	engine    *recommend.Config
	cache     *cache.Recommendations
	feed      FeedReader
	publisher InteractionPublisher
	health    map[string]HealthCheck

	defaultLimit int
	maxLimit     int

	version   string
	logger    zerolog.Logger
	startTime time.Time
}

// NewHandler validates deps and builds the handler.
func NewHandler(deps Deps) (*Handler, error) {
	if deps.Fetchers == nil {
		return nil, errors.New("api: fetcher factory is required")
	}
	engine := deps.Engine
	if engine == nil {
		engine = recommend.DefaultConfig()
	}
	if err := engine.Validate(); err != nil {
		return nil, err
	}

	h := &Handler{
		fetchers:     deps.Fetchers,
		engine:       engine,
		cache:        deps.Cache,
		feed:         deps.Feed,
		publisher:    deps.Publisher,
		health:       deps.Health,
		defaultLimit: deps.DefaultLimit,
		maxLimit:     deps.MaxLimit,
		version:      deps.Version,
		logger:       deps.Logger.With().Str("component", "api").Logger(),
		startTime:    time.Now(),
	}
	if h.maxLimit <= 0 {
		h.maxLimit = MaxLimit
	}
	if h.defaultLimit <= 0 {
		h.defaultLimit = DefaultLimit
	}
	if h.defaultLimit > h.maxLimit {
		h.defaultLimit = h.maxLimit
	}
	return h, nil
}
