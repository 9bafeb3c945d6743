// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package digest

import (
	"sync"
	"time"
)

// dayGuard admits at most one dispatch per calendar day.
type dayGuard struct {
	mu      sync.Mutex
	loc     *time.Location
	lastDay string
	running bool
}

func newDayGuard(loc *time.Location) *dayGuard {
	if loc == nil {
		loc = time.UTC
	}
	return &dayGuard{loc: loc}
}

func (g *dayGuard) day(t time.Time) string {
	return t.In(g.loc).Format(time.DateOnly)
}

// acquire claims the day of now. It fails when a run is in progress, or when
// the day was already claimed and force is not set. The previous day is
// returned so that release can restore it.
func (g *dayGuard) acquire(now time.Time, force bool) (prev string, ok bool, busy bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.running {
		return "", false, true
	}
	today := g.day(now)
	if g.lastDay == today && !force {
		return "", false, false
	}
	prev = g.lastDay
	g.lastDay = today
	g.running = true
	return prev, true, false
}

// finish ends a run. When keep is false the day is handed back.
func (g *dayGuard) finish(prev string, keep bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.running = false
	if !keep {
		g.lastDay = prev
	}
}

// last returns the last claimed day, or "" if none.
func (g *dayGuard) last() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastDay
}
