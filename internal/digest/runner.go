// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package digest

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/streamrank/internal/datafetch"
	"github.com/tomtom215/streamrank/internal/feed"
	"github.com/tomtom215/streamrank/internal/metrics"
	"github.com/tomtom215/streamrank/internal/models"
	"github.com/tomtom215/streamrank/internal/recommend"
)

// ErrRunInProgress is returned when Run is called while another run of the
// same Runner has not finished.
var ErrRunInProgress = errors.New("digest run already in progress")

// SnapshotSource produces a full copy of the ranking inputs.
type SnapshotSource interface {
	Snapshot(ctx context.Context) (*models.Bundle, error)
}

// FeedWriter persists a finished run.
type FeedWriter interface {
	Write(ctx context.Context, run *feed.Run) error
}

// Config holds the runner settings.
type Config struct {
	// Limit is the number of IDs written per user and domain.
	Limit int

	// Workers bounds how many users are ranked concurrently.
	Workers int

	// RatePerSecond paces user dispatch. Zero or less disables pacing.
	RatePerSecond float64
	Burst         int

	// Timeout bounds a whole run.
	Timeout time.Duration

	// Location decides the calendar day for the dispatch guard.
	Location *time.Location

	// Domains ranked per user. Empty means every domain.
	Domains []models.Domain

	// Engine tunes the ranking. Nil uses recommend.DefaultConfig.
	Engine *recommend.Config
}

// Report summarizes a run.
type Report struct {
	RunID    string        `json:"run_id,omitempty"`
	Skipped  bool          `json:"skipped"`
	Users    int           `json:"users"`
	Failed   int           `json:"failed"`
	Entries  int           `json:"entries"`
	Duration time.Duration `json:"duration"`
}

// Runner executes digest runs.
type Runner struct {
	source SnapshotSource
	sink   FeedWriter
	cfg    Config
	logger zerolog.Logger
	now    func() time.Time
	guard  *dayGuard

	rank func(ctx context.Context, snap *datafetch.Snapshot, u *models.User, now time.Time) ([]feed.Entry, error)
}

// NewRunner creates a runner. Zero config values take defaults.
func NewRunner(source SnapshotSource, sink FeedWriter, cfg Config, logger zerolog.Logger) *Runner {
	if cfg.Limit <= 0 {
		cfg.Limit = 10
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if len(cfg.Domains) == 0 {
		cfg.Domains = models.Domains
	}
	if cfg.Engine == nil {
		cfg.Engine = recommend.DefaultConfig()
	}

	r := &Runner{
		source: source,
		sink:   sink,
		cfg:    cfg,
		logger: logger.With().Str("component", "digest").Logger(),
		now:    time.Now,
		guard:  newDayGuard(cfg.Location),
	}
	r.rank = r.rankUser
	return r
}

// SetClock replaces the runner's clock. Intended for tests.
func (r *Runner) SetClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// LastRunDay returns the calendar day of the last dispatched run as
// YYYY-MM-DD, or "" if none ran since startup.
func (r *Runner) LastRunDay() string {
	return r.guard.last()
}

// Run executes a run unless one already ran today.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	return r.run(ctx, false)
}

// RunForced executes a run regardless of the dispatch guard.
func (r *Runner) RunForced(ctx context.Context) (*Report, error) {
	return r.run(ctx, true)
}

func (r *Runner) run(ctx context.Context, force bool) (*Report, error) {
	startTime := r.now()

	prev, ok, busy := r.guard.acquire(startTime, force)
	if busy {
		return nil, ErrRunInProgress
	}
	if !ok {
		r.logger.Info().Str("day", r.guard.day(startTime)).Msg("digest already ran today, skipping")
		metrics.RecordDigestRun("skipped", 0)
		return &Report{Skipped: true}, nil
	}

	report, err := r.execute(ctx, startTime)
	r.guard.finish(prev, err == nil)

	report.Duration = time.Since(startTime)
	if err != nil {
		metrics.RecordDigestRun("failure", report.Duration)
		r.logger.Error().Err(err).Str("run_id", report.RunID).Msg("digest run failed")
		return report, err
	}

	metrics.RecordDigestRun("success", report.Duration)
	r.logger.Info().
		Str("run_id", report.RunID).
		Int("users", report.Users).
		Int("failed", report.Failed).
		Int("entries", report.Entries).
		Dur("duration", report.Duration).
		Msg("digest run completed")
	return report, nil
}

func (r *Runner) execute(ctx context.Context, startTime time.Time) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}

	ctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	bundle, err := r.source.Snapshot(ctx)
	if err != nil {
		return report, fmt.Errorf("snapshot: %w", err)
	}
	// All users of a run are ranked against the same instant.
	snap := datafetch.NewSnapshot(bundle, func() time.Time { return startTime })
	users := snap.Subscribers()

	r.logger.Info().
		Str("run_id", report.RunID).
		Int("subscribers", len(users)).
		Int("workers", r.cfg.Workers).
		Msg("starting digest run")

	limiter := rate.NewLimiter(rate.Inf, r.cfg.Burst)
	if r.cfg.RatePerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.cfg.RatePerSecond), r.cfg.Burst)
	}

	var (
		mu      sync.Mutex
		entries []feed.Entry
		wg      sync.WaitGroup
	)
	sem := make(chan struct{}, r.cfg.Workers)

	for _, u := range users {
		if err := limiter.Wait(ctx); err != nil {
			break
		}
		report.Users++

		wg.Add(1)
		sem <- struct{}{}

		go func(u *models.User) {
			defer wg.Done()
			defer func() { <-sem }()

			userEntries, err := r.rank(ctx, snap, u, startTime)
			metrics.RecordDigestUser(err)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				report.Failed++
				r.logger.Warn().Err(err).Str("user_id", u.ID).Msg("digest failed for user")
				return
			}
			entries = append(entries, userEntries...)
		}(u)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil && report.Users < len(users) {
		return report, fmt.Errorf("run interrupted after %d of %d users: %w", report.Users, len(users), err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].UserID < entries[j].UserID
	})
	for _, e := range entries {
		report.Entries += len(e.IDs)
	}
	run := &feed.Run{ID: report.RunID, GeneratedAt: startTime, Entries: entries}
	if err := r.sink.Write(ctx, run); err != nil {
		return report, fmt.Errorf("write feed: %w", err)
	}
	return report, nil
}

// rankUser produces the user's lists for every configured domain. Any domain
// failing fails the user.
func (r *Runner) rankUser(ctx context.Context, snap *datafetch.Snapshot, u *models.User, now time.Time) ([]feed.Entry, error) {
	fetcher := snap.ForUser(u.ID)
	logger := r.logger.With().Str("user_id", u.ID).Logger()

	out := make([]feed.Entry, 0, len(r.cfg.Domains))
	for _, domain := range r.cfg.Domains {
		svc, err := recommend.Create(ctx, domain, fetcher, r.cfg.Engine, logger, recommend.WithClock(func() time.Time { return now }))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", domain, err)
		}
		ids, err := svc.GetRecommendations(ctx, r.cfg.Limit)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", domain, err)
		}
		out = append(out, feed.Entry{UserID: u.ID, Domain: domain, IDs: ids})
	}
	return out, nil
}
