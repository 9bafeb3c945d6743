// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

// IngestRouter is satisfied by *ingest.Router.
type IngestRouter interface {
	Run(ctx context.Context) error
	Close() error
}

// IngestRouterFactory builds a router bound to the transport's subscriber.
// A Watermill router cannot be run twice, so every Serve builds a new one.
type IngestRouterFactory func() (IngestRouter, error)

// IngestRouterService consumes interaction messages.
type IngestRouterService struct {
	factory IngestRouterFactory
	logger  zerolog.Logger
	name    string
}

// NewIngestRouterService wraps factory.
func NewIngestRouterService(factory IngestRouterFactory, logger zerolog.Logger) *IngestRouterService {
	return &IngestRouterService{
		factory: factory,
		logger:  logger.With().Str("service", "ingest-router").Logger(),
		name:    "ingest-router",
	}
}

// Serve implements suture.Service.
func (s *IngestRouterService) Serve(ctx context.Context) error {
	router, err := s.factory()
	if err != nil {
		return fmt.Errorf("build ingest router: %w", err)
	}
	defer func() {
		if cerr := router.Close(); cerr != nil {
			s.logger.Warn().Err(cerr).Msg("ingest router close failed")
		}
	}()

	err = router.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err == nil {
		// Closed from outside while ctx is still live; let suture restart it.
		return errors.New("ingest router stopped unexpectedly")
	}
	return fmt.Errorf("ingest router: %w", err)
}

// String implements fmt.Stringer for suture logs.
func (s *IngestRouterService) String() string {
	return s.name
}
