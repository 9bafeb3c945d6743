// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package datafetch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/streamrank/internal/metrics"
	"github.com/tomtom215/streamrank/internal/models"
	"github.com/tomtom215/streamrank/internal/recommend"
)

// ErrCircuitOpen is returned while the breaker rejects calls.
var ErrCircuitOpen = errors.New("fetcher circuit open")

// BreakerSettings tunes a Breaker. Zero values take the defaults.
type BreakerSettings struct {
	// Name labels the breaker in logs and metrics.
	Name string

	// Timeout is how long the circuit stays open before probing again.
	Timeout time.Duration

	// Interval resets the counts while closed.
	Interval time.Duration

	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32
}

// Breaker guards fetchers with a shared circuit breaker.
//
// The circuit opens once at least 10 calls were made in the current interval
// and 60% or more of them failed. Context cancellation is the caller giving
// up, not the store failing, so it never counts against the circuit.
type Breaker struct {
	cb     *gobreaker.CircuitBreaker[interface{}]
	name   string
	logger zerolog.Logger
}

// NewBreaker creates a breaker.
func NewBreaker(settings BreakerSettings, logger zerolog.Logger) *Breaker {
	if settings.Name == "" {
		settings.Name = "store"
	}
	if settings.Timeout <= 0 {
		settings.Timeout = 30 * time.Second
	}
	if settings.Interval <= 0 {
		settings.Interval = time.Minute
	}
	if settings.MaxRequests == 0 {
		settings.MaxRequests = 3
	}

	b := &Breaker{
		name:   settings.Name,
		logger: logger.With().Str("breaker", settings.Name).Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(b.name).Set(0)

	b.cb = gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        settings.Name,
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				b.logger.Warn().
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("opening fetcher circuit")
			}
			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			b.logger.Info().Str("from", fromStr).Str("to", toStr).Msg("fetcher circuit state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
	})
	return b
}

// State returns the current circuit state.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}

// Wrap returns f guarded by the breaker.
func (b *Breaker) Wrap(f recommend.DataFetcher) recommend.DataFetcher {
	return &guarded{next: f, b: b}
}

func (b *Breaker) execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
			return nil, fmt.Errorf("%w: %w", ErrCircuitOpen, err)
		}
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		return nil, err
	}
	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
	return result, nil
}

// castResult type-asserts a breaker result. A nil interface is the zero value.
func castResult[T any](result interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

type guarded struct {
	next recommend.DataFetcher
	b    *Breaker
}

func (g *guarded) GetUser(ctx context.Context) (*models.User, error) {
	return castResult[*models.User](g.b.execute(func() (interface{}, error) {
		return g.next.GetUser(ctx)
	}))
}

func (g *guarded) GetCandidatePool(ctx context.Context, domain models.Domain, horizon models.Horizon) ([]models.Candidate, error) {
	return castResult[[]models.Candidate](g.b.execute(func() (interface{}, error) {
		return g.next.GetCandidatePool(ctx, domain, horizon)
	}))
}

func (g *guarded) GetUserInteractions(ctx context.Context, kind models.InteractionKind) ([]models.Interaction, error) {
	return castResult[[]models.Interaction](g.b.execute(func() (interface{}, error) {
		return g.next.GetUserInteractions(ctx, kind)
	}))
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
