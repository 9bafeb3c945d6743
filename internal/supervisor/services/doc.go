// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

// Package services adapts streamrank components to suture.Service.
//
// Each wrapper's Serve blocks until its context is cancelled. Returning
// ctx.Err() (or nil) on cancellation tells suture the stop was requested;
// any other error counts as a failure and triggers a restart with backoff.
// Wrappers that own non-restartable resources build a fresh instance on
// every Serve call.
package services
