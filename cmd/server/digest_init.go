// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package main

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/streamrank/internal/config"
	"github.com/tomtom215/streamrank/internal/digest"
	"github.com/tomtom215/streamrank/internal/feed"
	"github.com/tomtom215/streamrank/internal/recommend"
	"github.com/tomtom215/streamrank/internal/store"
)

// newDigestScheduler wires the digest runner to the store snapshot and the
// feed database, and schedules it with the configured cron expression.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func newDigestScheduler(cfg *config.Config, st *store.Store, fd *feed.Feed, engine *recommend.Config, logger zerolog.Logger) (*digest.Scheduler, error) {
	loc, err := cfg.Digest.Location()
	if err != nil {
		return nil, fmt.Errorf("digest timezone %q: %w", cfg.Digest.Timezone, err)
	}

	runner := digest.NewRunner(st, fd, digest.Config{
		Limit:         cfg.Digest.Limit,
		Workers:       cfg.Digest.Workers,
		RatePerSecond: cfg.Digest.RatePerSecond,
		Burst:         cfg.Digest.Burst,
		Timeout:       cfg.Digest.Timeout,
		Location:      loc,
		Engine:        engine,
	}, logger)

	scheduler, err := digest.NewScheduler(cfg.Digest.Schedule, loc, runner, logger)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("schedule", cfg.Digest.Schedule).
		Str("timezone", loc.String()).
		Int("workers", cfg.Digest.Workers).
		Msg("Digest scheduler initialized")
	return scheduler, nil
}
