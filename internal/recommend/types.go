// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package recommend

import (
	"context"
	"errors"

	"github.com/tomtom215/streamrank/internal/models"
)

var (
	// ErrUserNotFound is returned when a domain that requires a user is
	// hydrated without one.
	ErrUserNotFound = errors.New("user not found")

	// ErrUnknownDomain is returned for a domain with no registered service.
	ErrUnknownDomain = errors.New("unknown domain")
)

// DataFetcher supplies everything a ranking pass reads. A fetcher is bound
// to one user (or to nobody, for anonymous requests).
//
// Implementations back onto the live store or a precomputed snapshot and
// must return identically shaped data.
type DataFetcher interface {
	// GetUser returns the bound user, or nil with no error when the caller
	// is anonymous or the user does not exist.
	GetUser(ctx context.Context) (*models.User, error)

	// GetCandidatePool returns the candidates of a domain on one side of now.
	GetCandidatePool(ctx context.Context, domain models.Domain, horizon models.Horizon) ([]models.Candidate, error)

	// GetUserInteractions returns the bound user's most recent interactions of
	// the given kind across all domains, newest first.
	GetUserInteractions(ctx context.Context, kind models.InteractionKind) ([]models.Interaction, error)
}

// Service ranks one domain for one user.
type Service interface {
	// Domain returns the domain this service ranks.
	Domain() models.Domain

	// Personalized reports whether a user profile was available.
	Personalized() bool

	// GetRecommendations returns at most limit candidate IDs, best first.
	// Strategy failures are logged and never fail the call.
	GetRecommendations(ctx context.Context, limit int) ([]string, error)
}

// Strategy is one independent scoring pass.
type Strategy struct {
	// Name identifies the strategy in logs and metrics.
	Name string

	// Run produces the strategy's ranked items. It must not mutate shared
	// inputs.
	Run func(ctx context.Context) ([]RankedItem, error)
}
