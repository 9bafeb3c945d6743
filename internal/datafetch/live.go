// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package datafetch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/streamrank/internal/models"
	"github.com/tomtom215/streamrank/internal/recommend"
	"github.com/tomtom215/streamrank/internal/store"
)

// DefaultInteractionLimit bounds how many interactions of one kind are read
// per domain and request. The engine keeps only the newest few per domain.
const DefaultInteractionLimit = 500

// Source is the subset of *store.Store the live fetcher reads.
type Source interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
	ListCandidates(ctx context.Context, domain models.Domain) ([]models.Candidate, error)
	ListInteractions(ctx context.Context, userID string, domain models.Domain, kind models.InteractionKind, limit int) ([]models.Interaction, error)
}

// Live is a per-request fetcher over the store, bound to one user ID. An
// empty user ID is an anonymous request.
type Live struct {
	src              Source
	userID           string
	interactionLimit int
	now              func() time.Time
}

var _ recommend.DataFetcher = (*Live)(nil)

// LiveOption configures a Live fetcher.
type LiveOption func(*Live)

// WithNow sets the clock used for horizon filtering.
func WithNow(now func() time.Time) LiveOption {
	return func(l *Live) {
		if now != nil {
			l.now = now
		}
	}
}

// WithInteractionLimit caps the interactions read per kind and domain.
// Non-positive values keep the default.
func WithInteractionLimit(n int) LiveOption {
	return func(l *Live) {
		if n > 0 {
			l.interactionLimit = n
		}
	}
}

// NewLive creates a fetcher for userID over src.
func NewLive(src Source, userID string, opts ...LiveOption) *Live {
	l := &Live{
		src:              src,
		userID:           userID,
		interactionLimit: DefaultInteractionLimit,
		now:              time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// GetUser returns the bound user. Anonymous and unknown users yield nil.
func (l *Live) GetUser(ctx context.Context) (*models.User, error) {
	if l.userID == "" {
		return nil, nil
	}
	u, err := l.src.GetUser(ctx, l.userID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch user %s: %w", l.userID, err)
	}
	return u, nil
}

// GetCandidatePool returns the domain's candidates on horizon, in store order.
func (l *Live) GetCandidatePool(ctx context.Context, domain models.Domain, horizon models.Horizon) ([]models.Candidate, error) {
	if err := validHorizon(horizon); err != nil {
		return nil, err
	}
	all, err := l.src.ListCandidates(ctx, domain)
	if err != nil {
		return nil, fmt.Errorf("fetch %s pool: %w", domain, err)
	}
	return filterHorizon(all, horizon, l.now()), nil
}

// GetUserInteractions returns the bound user's interactions of kind across
// all domains, newest first. Each domain is read separately so a busy domain
// cannot crowd another out of the limit. Anonymous requests have none.
func (l *Live) GetUserInteractions(ctx context.Context, kind models.InteractionKind) ([]models.Interaction, error) {
	if l.userID == "" {
		return nil, nil
	}
	var all []models.Interaction
	for _, domain := range models.Domains {
		ix, err := l.src.ListInteractions(ctx, l.userID, domain, kind, l.interactionLimit)
		if err != nil {
			return nil, fmt.Errorf("fetch %s %s interactions: %w", domain, kind, err)
		}
		all = append(all, ix...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].At.After(all[j].At)
	})
	return all, nil
}
