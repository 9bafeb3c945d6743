// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/streamrank/internal/config"
	"github.com/tomtom215/streamrank/internal/datafetch"
	"github.com/tomtom215/streamrank/internal/feed"
	"github.com/tomtom215/streamrank/internal/store"
)

// openStore opens the Badger store and imports the seed bundle when the
// store is empty.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func openStore(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*store.Store, error) {
	st, err := store.Open(store.Options{
		Path:     cfg.Store.Path,
		InMemory: cfg.Store.InMemory,
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	if err := seedStore(ctx, st, cfg.Store.SeedPath, logger); err != nil {
		_ = st.Close()
		return nil, err
	}

	logger.Info().
		Str("path", cfg.Store.Path).
		Bool("in_memory", cfg.Store.InMemory).
		Msg("Store opened")
	return st, nil
}

// seedStore imports the bundle at path into an empty store. A non-empty
// store is never overwritten.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func seedStore(ctx context.Context, st *store.Store, path string, logger zerolog.Logger) error {
	if path == "" {
		return nil
	}
	empty, err := st.Empty()
	if err != nil {
		return fmt.Errorf("check store: %w", err)
	}
	if !empty {
		logger.Info().Str("seed_path", path).Msg("Store already populated, seed skipped")
		return nil
	}

	bundle, err := datafetch.LoadBundle(path)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}
	n, err := st.Import(ctx, bundle)
	if err != nil {
		return fmt.Errorf("import seed: %w", err)
	}
	logger.Info().Str("seed_path", path).Int("records", n).Msg("Store seeded")
	return nil
}

//nolint:gocritic // zerolog.Logger is designed to be passed by value
func openFeed(cfg *config.Config, logger zerolog.Logger) (*feed.Feed, error) {
	fd, err := feed.Open(feed.Options{Path: cfg.Feed.Path, Logger: logger})
	if err != nil {
		return nil, err
	}
	logger.Info().Str("path", cfg.Feed.Path).Msg("Feed database opened")
	return fd, nil
}
