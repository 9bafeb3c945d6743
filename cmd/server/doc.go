// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

/*
Package main is the entry point for the Streamrank server.

Streamrank ranks livestream Events, Sparks and Jobs for a user. Each domain
combines several ranking strategies (interest matches, followed groups,
recency and popularity fallbacks) and serves the result over a JSON API.
A daily digest precomputes per-user feeds into DuckDB.

# Application Architecture

	RootSupervisor ("streamrank")
	├── BackgroundSupervisor ("background-layer")
	│   ├── Ingest router (Watermill, in-process channel or NATS JetStream)
	│   ├── Digest scheduler (cron, optional)
	│   └── Maintenance (cache expiry and feed retention)
	└── APISupervisor ("api-layer")
	    └── HTTP Server (chi)

Component initialization order:

 1. Configuration: Koanf v2 with environment variables and config file
 2. Logging: zerolog with JSON/console output modes
 3. Store: BadgerDB document store, optionally seeded from a bundle file
 4. Feed: DuckDB digest tables
 5. Cache, circuit breaker and per-request fetchers
 6. Ingest transport, consumer and publisher
 7. Digest runner and scheduler
 8. HTTP API with JWT authentication when JWT_SECRET is set
 9. Supervisor tree, served until SIGINT or SIGTERM

# Configuration

Priority: Environment variables > Config file > Defaults

	HTTP_PORT=3857
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	JWT_SECRET=<32+ chars>       # empty disables authentication
	STORE_PATH=/data/store
	STORE_SEED_PATH=/data/seed.yaml
	FEED_DB_PATH=/data/feed.duckdb

	NATS_ENABLED=false
	NATS_URL=nats://127.0.0.1:4222

	DIGEST_ENABLED=true
	DIGEST_SCHEDULE="0 3 * * *"
	DIGEST_TIMEZONE=Europe/Berlin

# Signal Handling

SIGINT and SIGTERM cancel the root context. The supervisor stops every
service, the HTTP server drains in-flight requests, and the store and feed
are closed on the way out.
*/
package main
