// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package recommend

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// StrategyError reports a strategy that failed, timed out or panicked.
type StrategyError struct {
	Strategy string
	Err      error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy %s: %v", e.Strategy, e.Err)
}

func (e *StrategyError) Unwrap() error {
	return e.Err
}

// JoinAllTolerant runs every strategy concurrently and waits for all of them.
// Each strategy is bounded by timeout (no bound when timeout <= 0). Failed
// strategies do not affect the others; their errors are returned separately.
//
// results holds the output of each successful strategy in the order the
// strategies were given, so the caller's merge is independent of which
// goroutine finished first.
func JoinAllTolerant(ctx context.Context, timeout time.Duration, strategies []Strategy) (results [][]RankedItem, errs []*StrategyError) {
	return JoinAllObserved(ctx, timeout, strategies, nil)
}

// JoinObserver receives the final outcome of one strategy: the error is the
// one JoinAllObserved reports, including timeouts and recovered panics.
type JoinObserver func(strategy string, elapsed time.Duration, err error)

// JoinAllObserved is JoinAllTolerant with observe called once per strategy
// after its outcome is decided. observe may be nil.
func JoinAllObserved(ctx context.Context, timeout time.Duration, strategies []Strategy, observe JoinObserver) (results [][]RankedItem, errs []*StrategyError) {
	type slot struct {
		items []RankedItem
		err   error
	}
	slots := make([]slot, len(strategies))

	var wg sync.WaitGroup
	for i, s := range strategies {
		wg.Add(1)
		go func(idx int, s Strategy) {
			defer wg.Done()
			start := time.Now()
			items, err := runTolerant(ctx, timeout, s)
			if observe != nil {
				observe(s.Name, time.Since(start), err)
			}
			slots[idx] = slot{items: items, err: err}
		}(i, s)
	}
	wg.Wait()

	for i, s := range slots {
		if s.err != nil {
			errs = append(errs, &StrategyError{Strategy: strategies[i].Name, Err: s.err})
			continue
		}
		results = append(results, s.items)
	}
	return results, errs
}

// runTolerant runs one strategy, converting panics to errors and abandoning
// it once its context expires.
func runTolerant(ctx context.Context, timeout time.Duration, s Strategy) ([]RankedItem, error) {
	if s.Run == nil {
		return nil, fmt.Errorf("no run function")
	}

	sctx, cancel := ctx, context.CancelFunc(func() {})
	if timeout > 0 {
		sctx, cancel = context.WithTimeout(ctx, timeout)
	}
	defer cancel()

	type outcome struct {
		items []RankedItem
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: fmt.Errorf("panic: %v", r)}
			}
		}()
		items, err := s.Run(sctx)
		done <- outcome{items: items, err: err}
	}()

	select {
	case o := <-done:
		return o.items, o.err
	case <-sctx.Done():
		return nil, sctx.Err()
	}
}
