// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package recommend

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/streamrank/internal/models"
)

var sparkInteractionKinds = []models.InteractionKind{
	models.InteractionLiked,
	models.InteractionShared,
	models.InteractionSeen,
}

// SparksService ranks published Spark videos. Anonymous callers get the
// public feed: newest first, adjusted by trial-plan and freshness boosts.
type SparksService struct {
	*ranker
}

// CreateSparks hydrates a SparksService over already published sparks.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func CreateSparks(ctx context.Context, fetcher DataFetcher, cfg *Config, logger zerolog.Logger, opts ...Option) (*SparksService, error) {
	in, err := hydrate(ctx, fetcher, models.DomainSparks,
		[]models.Horizon{models.HorizonPast}, sparkInteractionKinds)
	if err != nil {
		return nil, err
	}

	published := dedupeCandidates(in.pools[models.HorizonPast])
	sort.SliceStable(published, func(i, j int) bool {
		return sparkPublished(published[i]).After(sparkPublished(published[j]))
	})

	r, err := newRanker(models.DomainSparks, cfg, logger, in, published, published, opts)
	if err != nil {
		return nil, err
	}
	return &SparksService{ranker: r}, nil
}

// GetRecommendations returns at most limit spark IDs, best first.
func (s *SparksService) GetRecommendations(ctx context.Context, limit int) ([]string, error) {
	return s.rank(ctx, limit, s.strategies())
}

func (s *SparksService) strategies() []Strategy {
	out := []Strategy{
		s.trialPlanStrategy(),
		s.freshnessStrategy(s.cfg.Freshness.Sparks, sinceSparkPublished),
	}
	if s.user == nil {
		return out
	}

	refs := s.refs(models.InteractionLiked, models.InteractionShared)
	return append(out,
		s.profileStrategy(models.AttrTag, models.AttrCategory),
		s.actionStrategy(refs, func(b Builder) Builder {
			return b.MostCommonCategory().
				MostCommonIndustries().
				MostCommonTags()
		}),
		s.seenStrategy(),
	)
}

func sparkPublished(c models.Candidate) time.Time {
	if s, ok := c.(*models.Spark); ok {
		return s.PublishedAt
	}
	return time.Time{}
}

// sinceSparkPublished measures a spark's age.
func sinceSparkPublished(c models.Candidate, now time.Time) (time.Duration, bool) {
	published := sparkPublished(c)
	if published.IsZero() {
		return 0, false
	}
	return now.Sub(published), true
}
