// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/streamrank/internal/api"
	"github.com/tomtom215/streamrank/internal/auth"
	"github.com/tomtom215/streamrank/internal/cache"
	"github.com/tomtom215/streamrank/internal/config"
	"github.com/tomtom215/streamrank/internal/datafetch"
	"github.com/tomtom215/streamrank/internal/logging"
	"github.com/tomtom215/streamrank/internal/recommend"
	"github.com/tomtom215/streamrank/internal/supervisor"
	"github.com/tomtom215/streamrank/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Bool("auth_enabled", cfg.Security.AuthEnabled()).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Bool("digest_enabled", cfg.Digest.Enabled).
		Msg("Starting Streamrank")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing store")
		}
	}()

	fd, err := openFeed(cfg, logger)
	if err != nil {
		_ = st.Close()
		logging.Fatal().Err(err).Msg("Failed to open feed database")
	}
	defer func() {
		if err := fd.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing feed database")
		}
	}()

	engine := cfg.Recommend.Engine()
	if err := engine.Validate(); err != nil {
		logging.Fatal().Err(err).Msg("Invalid ranking configuration")
	}

	recCache := cache.NewRecommendations(cfg.Recommend.CacheSize, cfg.Recommend.CacheTTL)
	breaker := datafetch.NewBreaker(datafetch.BreakerSettings{
		Name:    "store",
		Timeout: cfg.Recommend.BreakerTimeout,
	}, logger)
	fetchers := func(userID string) recommend.DataFetcher {
		return breaker.Wrap(datafetch.NewLive(st, userID))
	}

	ing, err := newIngest(cfg, st, recCache, logger)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize interaction ingest")
	}
	defer func() {
		if err := ing.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing ingest transport")
		}
	}()

	var authMW *auth.Middleware
	if cfg.Security.AuthEnabled() {
		jwtManager, err := auth.NewJWTManager(cfg.Security)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize JWT manager")
		}
		authMW = auth.NewMiddleware(jwtManager)
		logging.Info().Msg("JWT authentication enabled")
	} else {
		authMW = auth.NewMiddleware(nil)
		logging.Warn().Msg("JWT_SECRET is not set: every request is anonymous and feed and interaction endpoints reject all callers")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	handler, err := api.NewHandler(api.Deps{
		Fetchers:  fetchers,
		Engine:    engine,
		Cache:     recCache,
		Feed:      fd,
		Publisher: ing.publisher,
		Health: map[string]api.HealthCheck{
			"store": func(context.Context) error { return st.Ping() },
			"feed":  fd.Ping,
		},
		DefaultLimit: cfg.Recommend.DefaultLimit,
		MaxLimit:     cfg.Recommend.MaxLimit,
		Version:      version,
		Logger:       logger,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create API handler")
	}

	router := api.NewRouter(handler, authMW, &api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSMaxAge:         300,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadTimeout:       cfg.Server.Timeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	// Bridge zerolog to slog for sutureslog.
	tree, err := supervisor.NewTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddBackgroundService(services.NewIngestRouterService(ing.routerFactory(), logger))
	tree.AddBackgroundService(services.NewMaintenanceService(recCache, fd, services.MaintenanceConfig{
		Interval:      cfg.Feed.MaintenanceInterval,
		FeedRetention: cfg.Feed.Retention,
	}, logger))

	if cfg.Digest.Enabled {
		scheduler, err := newDigestScheduler(cfg, st, fd, engine, logger)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize digest scheduler")
		}
		tree.AddBackgroundService(services.NewDigestSchedulerService(scheduler))
	} else {
		logging.Info().Msg("Digest scheduler disabled (DIGEST_ENABLED=false)")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	logging.Info().Str("addr", server.Addr).Msg("Supervisor tree starting")

	errCh := tree.ServeBackground(ctx)
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree stopped with error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service did not stop within timeout")
		}
	}

	logging.Info().Msg("Streamrank stopped")
}
