// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

/*
Package config loads Streamrank configuration with koanf.

Sources are layered, later ones winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file: CONFIG_PATH, else config.yaml or
    /etc/streamrank/config.yaml
 3. Environment variables, mapped explicitly by envTransformFunc

# Sections

  - server: listen address, timeouts, environment
  - security: JWT secret, rate limiting, CORS origins
  - store: Badger directory, optional seed bundle
  - feed: DuckDB file holding digest output
  - nats: interaction ingest transport
  - recommend: ranking weights, limits, result cache, circuit breaker
  - digest: cron schedule, timezone, pacing
  - logging: level and format

# Environment Variables

Common variables:

  - HTTP_PORT (default 3857), HTTP_HOST, ENVIRONMENT
  - JWT_SECRET: at least 32 characters; required in production
  - STORE_PATH, STORE_IN_MEMORY, STORE_SEED_PATH, FEED_DB_PATH
  - FEED_RETENTION (default 720h), MAINTENANCE_INTERVAL (default 5m)
  - NATS_ENABLED, NATS_URL, NATS_TOPIC (default interactions)
  - NATS_EMBEDDED, NATS_EMBEDDED_PORT, NATS_EMBEDDED_STORE_DIR
  - RECOMMEND_DEFAULT_LIMIT (10), RECOMMEND_MAX_LIMIT (30),
    RECOMMEND_SEEN_PENALTY, RECOMMEND_TRIAL_PLAN_BOOST
  - DIGEST_ENABLED, DIGEST_SCHEDULE (default "0 3 * * *"), DIGEST_TIMEZONE
  - LOG_LEVEL, LOG_FORMAT

CORS_ORIGINS accepts a comma-separated list.

# Usage

	cfg, err := config.LoadWithKoanf()
	if err != nil {
	    logging.Fatal().Err(err).Msg("failed to load configuration")
	}
*/
package config
