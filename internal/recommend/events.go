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

var eventInteractionKinds = []models.InteractionKind{
	models.InteractionRegistered,
	models.InteractionAttended,
	models.InteractionLiked,
	models.InteractionSeen,
}

// EventsService ranks upcoming livestream events.
//
// Anonymous callers get upcoming events soonest first, adjusted by the
// trial-plan and freshness boosts.
type EventsService struct {
	*ranker
}

// CreateEvents hydrates an EventsService. The eligible pool is the future
// events; past events only serve as references for the user's history.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func CreateEvents(ctx context.Context, fetcher DataFetcher, cfg *Config, logger zerolog.Logger, opts ...Option) (*EventsService, error) {
	in, err := hydrate(ctx, fetcher, models.DomainEvents,
		[]models.Horizon{models.HorizonFuture, models.HorizonPast}, eventInteractionKinds)
	if err != nil {
		return nil, err
	}

	future := dedupeCandidates(in.pools[models.HorizonFuture])
	sort.SliceStable(future, func(i, j int) bool {
		return eventStart(future[i]).Before(eventStart(future[j]))
	})
	reference := dedupeCandidates(in.pools[models.HorizonFuture], in.pools[models.HorizonPast])

	r, err := newRanker(models.DomainEvents, cfg, logger, in, future, reference, opts)
	if err != nil {
		return nil, err
	}
	return &EventsService{ranker: r}, nil
}

// GetRecommendations returns at most limit event IDs, best first.
func (s *EventsService) GetRecommendations(ctx context.Context, limit int) ([]string, error) {
	return s.rank(ctx, limit, s.strategies())
}

func (s *EventsService) strategies() []Strategy {
	out := []Strategy{
		s.trialPlanStrategy(),
		s.freshnessStrategy(s.cfg.Freshness.Events, untilEventStart),
	}
	if s.user == nil {
		return out
	}

	refs := s.refs(models.InteractionRegistered, models.InteractionAttended, models.InteractionLiked)
	return append(out,
		s.profileStrategy(models.AttrTag, models.AttrIndustry, models.AttrCountry),
		s.actionStrategy(refs, func(b Builder) Builder {
			return b.MostCommonIndustries().
				MostCommonCountries().
				MostCommonCompanySizes().
				MostCommonCategory()
		}),
		s.seenStrategy(),
		s.followedStrategy(),
	)
}

func eventStart(c models.Candidate) time.Time {
	if e, ok := c.(*models.Event); ok {
		return e.StartsAt
	}
	return time.Time{}
}

// untilEventStart measures how soon an event begins.
func untilEventStart(c models.Candidate, now time.Time) (time.Duration, bool) {
	start := eventStart(c)
	if start.IsZero() {
		return 0, false
	}
	return start.Sub(now), true
}
