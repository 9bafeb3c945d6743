// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ExpiringCache is satisfied by *cache.Recommendations.
type ExpiringCache interface {
	CleanupExpired() int
}

// FeedPruner is satisfied by *feed.Feed.
type FeedPruner interface {
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}

// MaintenanceConfig controls the housekeeping loop.
type MaintenanceConfig struct {
	// Interval between sweeps. Default: 5m
	Interval time.Duration

	// FeedRetention is how long feed runs are kept. Zero disables pruning.
	FeedRetention time.Duration
}

// MaintenanceService periodically drops expired cache entries and prunes
// old feed runs. Either dependency may be nil.
type MaintenanceService struct {
	cache  ExpiringCache
	feed   FeedPruner
	config MaintenanceConfig
	logger zerolog.Logger
	now    func() time.Time
	name   string
}

// NewMaintenanceService builds the service.
func NewMaintenanceService(c ExpiringCache, f FeedPruner, config MaintenanceConfig, logger zerolog.Logger) *MaintenanceService {
	if config.Interval <= 0 {
		config.Interval = 5 * time.Minute
	}
	return &MaintenanceService{
		cache:  c,
		feed:   f,
		config: config,
		logger: logger.With().Str("service", "maintenance").Logger(),
		now:    time.Now,
		name:   "maintenance",
	}
}

// Serve implements suture.Service.
func (s *MaintenanceService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.logger.Info().
		Dur("interval", s.config.Interval).
		Dur("feed_retention", s.config.FeedRetention).
		Msg("maintenance service started")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("maintenance service stopping")
			return ctx.Err()
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep runs one housekeeping pass. Failures are logged and retried on the
// next tick.
func (s *MaintenanceService) sweep(ctx context.Context) {
	if s.cache != nil {
		if n := s.cache.CleanupExpired(); n > 0 {
			s.logger.Debug().Int("removed", n).Msg("expired cache entries removed")
		}
	}

	if s.feed == nil || s.config.FeedRetention <= 0 {
		return
	}
	cutoff := s.now().Add(-s.config.FeedRetention)
	n, err := s.feed.Prune(ctx, cutoff)
	if err != nil {
		s.logger.Warn().Err(err).Time("cutoff", cutoff).Msg("feed prune failed")
		return
	}
	if n > 0 {
		s.logger.Info().Int64("rows", n).Time("cutoff", cutoff).Msg("old feed runs pruned")
	}
}

// String implements fmt.Stringer for suture logs.
func (s *MaintenanceService) String() string {
	return s.name
}
