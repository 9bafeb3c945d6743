// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

/*
Package digest precomputes recommendation lists for every subscribed user.

A run:
 1. takes one snapshot of the store,
 2. ranks every domain for each subscribed user against that snapshot,
 3. writes all lists to the feed in a single transaction.

Users are processed by a bounded pool of workers and paced by a token bucket
limiter. A failure for one user is logged and counted; it never aborts the
run, and that user's lists are left out of the run as a whole.

# Dispatch guard

The Runner remembers the calendar day (in the configured location) of its
last run. A second Run on the same day is skipped unless it is forced. The
guard lives in process memory and resets on restart. A failed run releases
the day so that it can be retried.

# Scheduling

Scheduler triggers Run from a standard five-field cron expression using
robfig/cron, evaluated in the configured location:

	sched, err := digest.NewScheduler("0 3 * * *", time.UTC, runner, logger)
	go sched.Run(ctx) // blocks until ctx is done
*/
package digest
