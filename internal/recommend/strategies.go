// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package recommend

import (
	"context"
	"time"

	"github.com/tomtom215/streamrank/internal/models"
)

// Strategy names, used in logs and metric labels.
const (
	StrategyProfile   = "profile"
	StrategyAction    = "action"
	StrategySeen      = "seen-penalty"
	StrategyTrialPlan = "trial-plan"
	StrategyFollowed  = "followed-groups"
	StrategyFreshness = "freshness"
)

// matchLimit covers the whole eligible pool. A tighter cap would drop
// matching items to zero points, below unmatched items earlier in the pool.
func (r *ranker) matchLimit() int {
	return len(r.eligible.Pool())
}

// profileStrategy matches the user's static attributes against the pool.
// Each attribute is an independent match query; an item matching on two
// attributes collects points from both.
func (r *ranker) profileStrategy(attrs ...models.Attribute) Strategy {
	return Strategy{
		Name: StrategyProfile,
		Run: func(ctx context.Context) ([]RankedItem, error) {
			lists := make([][]RankedItem, 0, len(attrs))
			for _, attr := range attrs {
				if err := ctx.Err(); err != nil {
					return nil, err
				}
				lists = append(lists, r.eligible.GetItemsMatching(attr, r.user.Tags(attr), r.matchLimit()))
			}
			return Merge(lists...), nil
		},
	}
}

// actionStrategy infers preferred attribute values from the items the user
// interacted with and scores the pool against them through a Builder chain.
func (r *ranker) actionStrategy(refs []models.Candidate, chain func(Builder) Builder) Strategy {
	return Strategy{
		Name: StrategyAction,
		Run: func(ctx context.Context) ([]RankedItem, error) {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			return chain(NewBuilder(r.matchLimit(), refs, r.eligible)).Get(), nil
		},
	}
}

// seenStrategy penalises items the user has already seen without excluding them.
func (r *ranker) seenStrategy() Strategy {
	return Strategy{
		Name: StrategySeen,
		Run: func(context.Context) ([]RankedItem, error) {
			return r.eligible.DeductSeenItems(r.history[models.InteractionSeen]), nil
		},
	}
}

// trialPlanStrategy boosts items of groups on an active trial plan.
func (r *ranker) trialPlanStrategy() Strategy {
	return Strategy{
		Name: StrategyTrialPlan,
		Run: func(context.Context) ([]RankedItem, error) {
			return NewBuilder(r.matchLimit(), nil, r.eligible).TrialPlanItems().Get(), nil
		},
	}
}

// followedStrategy boosts items owned by groups the user follows.
func (r *ranker) followedStrategy() Strategy {
	return Strategy{
		Name: StrategyFollowed,
		Run: func(context.Context) ([]RankedItem, error) {
			return r.eligible.GetItemsOwnedBy(r.user.FollowedGroups), nil
		},
	}
}

// freshnessStrategy awards recency buckets using age to measure each item.
func (r *ranker) freshnessStrategy(buckets []RecencyBucket, age func(models.Candidate, time.Time) (time.Duration, bool)) Strategy {
	return Strategy{
		Name: StrategyFreshness,
		Run: func(context.Context) ([]RankedItem, error) {
			return r.eligible.GetFreshItems(buckets, age), nil
		},
	}
}
