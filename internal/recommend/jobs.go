// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package recommend

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/streamrank/internal/models"
)

var jobInteractionKinds = []models.InteractionKind{
	models.InteractionApplied,
	models.InteractionLiked,
	models.InteractionSeen,
}

// JobsService ranks open job postings. It requires a user.
type JobsService struct {
	*ranker
}

// CreateJobs hydrates a JobsService. It returns ErrUserNotFound when the
// fetcher has no user. The pool keeps the fetcher's order as its baseline.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func CreateJobs(ctx context.Context, fetcher DataFetcher, cfg *Config, logger zerolog.Logger, opts ...Option) (*JobsService, error) {
	in, err := hydrate(ctx, fetcher, models.DomainJobs,
		[]models.Horizon{models.HorizonFuture}, jobInteractionKinds)
	if err != nil {
		return nil, err
	}
	if in.user == nil {
		return nil, ErrUserNotFound
	}

	open := dedupeCandidates(in.pools[models.HorizonFuture])

	r, err := newRanker(models.DomainJobs, cfg, logger, in, open, open, opts)
	if err != nil {
		return nil, err
	}
	return &JobsService{ranker: r}, nil
}

// GetRecommendations returns at most limit job IDs, best first.
func (s *JobsService) GetRecommendations(ctx context.Context, limit int) ([]string, error) {
	return s.rank(ctx, limit, s.strategies())
}

func (s *JobsService) strategies() []Strategy {
	refs := s.refs(models.InteractionApplied, models.InteractionLiked)
	return []Strategy{
		s.profileStrategy(models.AttrTag, models.AttrFieldOfStudy, models.AttrCountry),
		s.actionStrategy(refs, func(b Builder) Builder {
			return b.MostCommonIndustries().
				MostCommonCompanySizes().
				MostCommonFieldsOfStudy().
				MostCommonCountries()
		}),
		s.seenStrategy(),
		s.followedStrategy(),
		s.trialPlanStrategy(),
		s.freshnessStrategy(s.cfg.Freshness.Jobs, sinceJobPosted),
	}
}

// sinceJobPosted measures a job's age.
func sinceJobPosted(c models.Candidate, now time.Time) (time.Duration, bool) {
	j, ok := c.(*models.Job)
	if !ok || j.PostedAt.IsZero() {
		return 0, false
	}
	return now.Sub(j.PostedAt), true
}
