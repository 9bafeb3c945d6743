// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the ranking pipeline.
type Config struct {
	// Weights holds the fixed point values of the boost and penalty strategies.
	Weights WeightsConfig `json:"weights"`

	// Freshness holds per-domain recency buckets.
	Freshness FreshnessConfig `json:"freshness"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`
}

// WeightsConfig defines the points contributed by fixed-value strategies.
// Match strategies score by match count and are not weighted.
type WeightsConfig struct {
	// SeenPenalty is subtracted once from every item the user has already seen.
	// Default: 1.
	SeenPenalty float64 `json:"seen_penalty"`

	// TrialPlanBoost is added to items whose group is on an active trial.
	// Default: 1.
	TrialPlanBoost float64 `json:"trial_plan_boost"`

	// FollowedGroupBoost is added to items owned by a group the user follows.
	// Default: 1.
	FollowedGroupBoost float64 `json:"followed_group_boost"`
}

// RecencyBucket awards Points to items whose reference time lies within
// Within of now. Only the first matching bucket applies.
type RecencyBucket struct {
	Within time.Duration `json:"within"`
	Points float64       `json:"points"`
}

// FreshnessConfig contains the recency buckets used by the freshness strategy.
// Buckets must be ordered by ascending Within.
type FreshnessConfig struct {
	// Events buckets apply to the time until an event starts.
	// Default: 48h => 2, 7d => 1.
	Events []RecencyBucket `json:"events"`

	// Sparks buckets apply to the time since a spark was published.
	// Default: 24h => 2, 7d => 1.
	Sparks []RecencyBucket `json:"sparks"`

	// Jobs buckets apply to the time since a job was posted.
	// Default: none.
	Jobs []RecencyBucket `json:"jobs"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// StrategyTimeout bounds a single strategy. A strategy that exceeds it is
	// logged and contributes nothing.
	// Default: 2s.
	StrategyTimeout time.Duration `json:"strategy_timeout"`

	// HistoryWindow is the number of most recent interactions per kind used
	// as reference items.
	// Default: 20.
	HistoryWindow int `json:"history_window"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights: WeightsConfig{
			SeenPenalty:        1,
			TrialPlanBoost:     1,
			FollowedGroupBoost: 1,
		},
		Freshness: FreshnessConfig{
			Events: []RecencyBucket{
				{Within: 48 * time.Hour, Points: 2},
				{Within: 7 * 24 * time.Hour, Points: 1},
			},
			Sparks: []RecencyBucket{
				{Within: 24 * time.Hour, Points: 2},
				{Within: 7 * 24 * time.Hour, Points: 1},
			},
		},
		Limits: LimitsConfig{
			StrategyTimeout: 2 * time.Second,
			HistoryWindow:   20,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Weights.SeenPenalty < 0 {
		return fmt.Errorf("weights.seen_penalty must be non-negative, got %f", c.Weights.SeenPenalty)
	}
	if c.Weights.TrialPlanBoost < 0 {
		return fmt.Errorf("weights.trial_plan_boost must be non-negative, got %f", c.Weights.TrialPlanBoost)
	}
	if c.Weights.FollowedGroupBoost < 0 {
		return fmt.Errorf("weights.followed_group_boost must be non-negative, got %f", c.Weights.FollowedGroupBoost)
	}

	for name, buckets := range map[string][]RecencyBucket{
		"events": c.Freshness.Events,
		"sparks": c.Freshness.Sparks,
		"jobs":   c.Freshness.Jobs,
	} {
		if err := validateBuckets(buckets); err != nil {
			return fmt.Errorf("freshness.%s: %w", name, err)
		}
	}

	if c.Limits.StrategyTimeout <= 0 {
		return fmt.Errorf("limits.strategy_timeout must be positive, got %v", c.Limits.StrategyTimeout)
	}
	if c.Limits.HistoryWindow < 1 {
		return fmt.Errorf("limits.history_window must be positive, got %d", c.Limits.HistoryWindow)
	}

	return nil
}

func validateBuckets(buckets []RecencyBucket) error {
	var prev time.Duration
	for i, b := range buckets {
		if b.Within <= 0 {
			return fmt.Errorf("bucket %d: within must be positive, got %v", i, b.Within)
		}
		if b.Within <= prev {
			return fmt.Errorf("bucket %d: within must be ascending, got %v after %v", i, b.Within, prev)
		}
		prev = b.Within
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := &Config{
		Weights: c.Weights,
		Limits:  c.Limits,
	}
	clone.Freshness.Events = append([]RecencyBucket(nil), c.Freshness.Events...)
	clone.Freshness.Sparks = append([]RecencyBucket(nil), c.Freshness.Sparks...)
	clone.Freshness.Jobs = append([]RecencyBucket(nil), c.Freshness.Jobs...)
	return clone
}
