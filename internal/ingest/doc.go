// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

/*
Package ingest moves user interactions from the API into the store through a
Watermill pub/sub topic.

	POST /api/v1/interactions -> Publisher -> topic "interactions"
	    -> Router -> Consumer -> store.AppendInteraction + cache invalidation

The transport is NATS JetStream when enabled, and an in-process gochannel
otherwise. Both carry the same JSON InteractionMessage.

# Failure handling

  - Payloads that cannot be decoded or fail validation are acked and counted
    as "invalid". Redelivering them cannot help.
  - Store errors are returned to the router, which retries with exponential
    backoff. Messages that still fail are moved to the poison topic
    ("<topic>_poison") and acked.
  - Panics in the handler are recovered and treated as errors.

Every outcome is counted in streamrank_ingest_messages_total{status}.
*/
package ingest
