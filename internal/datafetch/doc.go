// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

/*
Package datafetch provides the recommend.DataFetcher implementations used by
the HTTP API and the nightly digest.

Two fetchers exist, and both produce identically shaped data:

  - Live reads the Badger store on every call. The API creates one per
    request, bound to the authenticated user (or to nobody).
  - Snapshot holds a models.Bundle indexed in memory. The digest takes one
    snapshot per run and hands out per-user views with ForUser, so a run of
    thousands of users never touches the store again.

Both apply the same horizon rules (see InHorizon):

	events  future: starts after now            past: started at or before now
	sparks  future: scheduled after now         past: published at or before now
	jobs    future: open for applications       past: closed or expired

Hidden and unpublished items never appear in a pool.

Breaker wraps any fetcher in a sony/gobreaker circuit breaker. One Breaker is
shared by every request so that a failing store trips the circuit for all of
them; rejected calls return ErrCircuitOpen.

Bundles are read and written with LoadBundle and WriteBundle. The format
follows the file extension: .json (goccy/go-json) or .yaml/.yml (yaml.v3).
*/
package datafetch
