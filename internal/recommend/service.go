// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/streamrank/internal/metrics"
	"github.com/tomtom215/streamrank/internal/models"
)

// Option customises service construction.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the clock used for trial plans and freshness.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// Create hydrates the service for domain through fetcher.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func Create(ctx context.Context, domain models.Domain, fetcher DataFetcher, cfg *Config, logger zerolog.Logger, opts ...Option) (Service, error) {
	var (
		svc Service
		err error
	)
	switch domain {
	case models.DomainEvents:
		svc, err = CreateEvents(ctx, fetcher, cfg, logger, opts...)
	case models.DomainSparks:
		svc, err = CreateSparks(ctx, fetcher, cfg, logger, opts...)
	case models.DomainJobs:
		svc, err = CreateJobs(ctx, fetcher, cfg, logger, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDomain, domain)
	}
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// ranker holds the hydrated, read-only inputs of one ranking pass and the
// pipeline shared by every domain.
type ranker struct {
	domain models.Domain
	cfg    *Config
	logger zerolog.Logger
	now    func() time.Time

	user *models.User

	// eligible is the authoritative pool, in baseline order.
	eligible    *Repository
	eligibleSet map[string]struct{}

	// reference resolves interaction history to candidates. It may be wider
	// than eligible (e.g. past events the user attended).
	reference *Repository

	// history maps an interaction kind to item IDs in this domain, newest first.
	history map[models.InteractionKind][]string
}

// Domain returns the domain this service ranks.
func (r *ranker) Domain() models.Domain {
	return r.domain
}

// Personalized reports whether a user profile was loaded.
func (r *ranker) Personalized() bool {
	return r.user != nil
}

// rank runs strategies and turns their merged output into at most limit IDs.
func (r *ranker) rank(ctx context.Context, limit int, strategies []Strategy) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pool := r.eligible.Pool()
	if limit <= 0 || len(pool) == 0 {
		return []string{}, nil
	}

	// Every eligible item enters with zero points so unscored items still
	// rank, and encounter order is fixed by the pool rather than by whichever
	// strategy finished first.
	baseline := make([]RankedItem, len(pool))
	for i, c := range pool {
		baseline[i] = RankedItem{ID: c.CandidateID()}
	}

	results, failures := JoinAllObserved(ctx, r.cfg.Limits.StrategyTimeout, strategies, r.observe)
	for _, f := range failures {
		r.logger.Warn().
			Str("strategy", f.Strategy).
			Err(f.Err).
			Msg("ranking strategy failed")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := Merge(append([][]RankedItem{baseline}, results...)...)
	merged = FilterEligible(merged, r.eligibleSet)
	SortStable(merged)

	ids := IDs(merged, limit)
	metrics.RecordRecommendations(r.domain.String(), r.Personalized())

	r.logger.Debug().
		Int("limit", limit).
		Int("pool", len(pool)).
		Int("strategies", len(strategies)).
		Int("failed", len(failures)).
		Int("returned", len(ids)).
		Msg("ranking complete")

	return ids, nil
}

// observe reports a strategy's final outcome, timeouts and panics included.
func (r *ranker) observe(strategy string, elapsed time.Duration, err error) {
	metrics.RecordStrategy(r.domain.String(), strategy, elapsed, err)
}

// refs resolves the user's history of the given kinds to reference
// candidates, most recent first, without duplicates.
func (r *ranker) refs(kinds ...models.InteractionKind) []models.Candidate {
	var ids []string
	for _, k := range kinds {
		ids = append(ids, r.history[k]...)
	}
	return r.reference.Lookup(ids)
}

// inputs is everything hydrate loads for one service.
type inputs struct {
	user         *models.User
	pools        map[models.Horizon][]models.Candidate
	interactions map[models.InteractionKind][]models.Interaction
}

// hydrate loads the user, pools and interactions concurrently. Any fetch
// error fails the whole hydration; the core does not retry.
func hydrate(ctx context.Context, f DataFetcher, domain models.Domain, horizons []models.Horizon, kinds []models.InteractionKind) (*inputs, error) {
	in := &inputs{
		pools:        make(map[models.Horizon][]models.Candidate, len(horizons)),
		interactions: make(map[models.InteractionKind][]models.Interaction, len(kinds)),
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	fail := func(err error) {
		mu.Lock()
		errs = append(errs, err)
		mu.Unlock()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		u, err := f.GetUser(ctx)
		if err != nil {
			fail(fmt.Errorf("get user: %w", err))
			return
		}
		mu.Lock()
		in.user = u
		mu.Unlock()
	}()

	for _, h := range horizons {
		wg.Add(1)
		go func(h models.Horizon) {
			defer wg.Done()
			pool, err := f.GetCandidatePool(ctx, domain, h)
			if err != nil {
				fail(fmt.Errorf("get %s %s pool: %w", h, domain, err))
				return
			}
			mu.Lock()
			in.pools[h] = pool
			mu.Unlock()
		}(h)
	}

	for _, k := range kinds {
		wg.Add(1)
		go func(k models.InteractionKind) {
			defer wg.Done()
			ix, err := f.GetUserInteractions(ctx, k)
			if err != nil {
				fail(fmt.Errorf("get %s interactions: %w", k, err))
				return
			}
			mu.Lock()
			in.interactions[k] = ix
			mu.Unlock()
		}(k)
	}

	wg.Wait()

	if len(errs) > 0 {
		return nil, fmt.Errorf("hydrate %s: %w", domain, errors.Join(errs...))
	}
	return in, nil
}

// newRanker builds the shared state from hydrated inputs. eligible must
// already be in baseline order.
//
//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func newRanker(domain models.Domain, cfg *Config, logger zerolog.Logger, in *inputs, eligible, reference []models.Candidate, opts []Option) (*ranker, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	r := &ranker{
		domain:    domain,
		cfg:       cfg,
		logger:    logger.With().Str("component", "recommend").Str("domain", domain.String()).Logger(),
		now:       o.now,
		user:      in.user,
		eligible:  NewRepository(eligible, cfg.Weights, o.now),
		reference: NewRepository(reference, cfg.Weights, o.now),
		history:   make(map[models.InteractionKind][]string, len(in.interactions)),
	}

	r.eligibleSet = make(map[string]struct{}, len(r.eligible.Pool()))
	for _, c := range r.eligible.Pool() {
		r.eligibleSet[c.CandidateID()] = struct{}{}
	}

	// Interaction history only counts for a known user.
	if r.user != nil {
		for kind, ix := range in.interactions {
			r.history[kind] = historyIDs(ix, domain, cfg.Limits.HistoryWindow)
		}
	}

	return r, nil
}

// historyIDs keeps the first window interactions of domain, in order.
func historyIDs(ix []models.Interaction, domain models.Domain, window int) []string {
	out := make([]string, 0, window)
	for _, i := range ix {
		if i.Domain != domain || i.ItemID == "" {
			continue
		}
		out = append(out, i.ItemID)
		if len(out) == window {
			break
		}
	}
	return out
}
