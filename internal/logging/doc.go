// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

// Package logging provides the process-wide zerolog logger for Streamrank.
//
// JSON output is the default; console output is meant for local development.
// Request-scoped fields (correlation ID, request ID, user ID) travel in the
// context and are attached by Ctx:
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("addr", addr).Msg("server starting")
//	logging.Ctx(ctx).Warn().Err(err).Msg("ranking strategy failed")
//
// Components that need their own logger take a zerolog.Logger by value,
// usually derived with WithComponent. Libraries that speak log/slog (the
// suture supervisor via sutureslog) get an slog.Logger backed by the same
// zerolog instance through NewSlogLogger.
//
// Always terminate event chains with Msg or Send; an unterminated chain
// emits nothing.
package logging
