// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

/*
Package supervisor runs the long-lived parts of the server under a suture v4
supervisor tree.

	streamrank (root)
	├── background-layer
	│   ├── ingest-router      (Watermill consumer)
	│   ├── digest-scheduler   (cron)
	│   └── maintenance        (cache and feed housekeeping)
	└── api-layer
	    └── http-server

A crash in the background layer restarts only that service with backoff;
the API keeps serving. Supervisor events are logged through sutureslog,
which receives a slog.Logger backed by zerolog (logging.NewSlogLogger).

The service wrappers live in package services.
*/
package supervisor
