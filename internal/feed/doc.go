// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

// Package feed persists the precomputed recommendation lists written by the
// nightly digest. Each list a run produced has a header row, and its items
// have one row per position:
//
//	feed_lists(run_id, user_id, domain, item_count, generated_at)
//	feed_entries(run_id, user_id, domain, item_rank, item_id, generated_at)
//
// A run is written in a single transaction, so readers see either all of a
// run or none of it. Latest serves the newest run that covered a user and
// domain, even when that list is empty. Queries are built with squirrel.
package feed
