// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package recommend

import (
	"sort"
	"time"

	"github.com/tomtom215/streamrank/internal/models"
)

// Repository answers match queries over an in-memory candidate pool.
// It never mutates the pool and is safe for concurrent use.
type Repository struct {
	pool    []models.Candidate
	index   map[string]models.Candidate
	weights WeightsConfig
	now     func() time.Time
}

// NewRepository creates a repository over pool. Duplicate IDs keep their
// first occurrence. A nil clock defaults to time.Now.
//
//nolint:gocritic // hugeParam: weights is copied once at construction
func NewRepository(pool []models.Candidate, weights WeightsConfig, now func() time.Time) *Repository {
	if now == nil {
		now = time.Now
	}
	deduped := dedupeCandidates(pool)
	index := make(map[string]models.Candidate, len(deduped))
	for _, c := range deduped {
		index[c.CandidateID()] = c
	}
	return &Repository{
		pool:    deduped,
		index:   index,
		weights: weights,
		now:     now,
	}
}

// Pool returns the deduplicated pool. Callers must not modify it.
func (r *Repository) Pool() []models.Candidate {
	return r.pool
}

// IDs returns the pool's IDs in pool order.
func (r *Repository) IDs() []string {
	ids := make([]string, len(r.pool))
	for i, c := range r.pool {
		ids[i] = c.CandidateID()
	}
	return ids
}

// Lookup resolves ids against the pool, skipping unknown and repeated IDs.
func (r *Repository) Lookup(ids []string) []models.Candidate {
	out := make([]models.Candidate, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if c, ok := r.index[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// GetItemsMatching scores every pool item by how many of values appear in
// its attr tags. Items with no match are omitted. At most limit items are
// returned, highest score first, pool order breaking ties. An empty values
// list matches nothing.
func (r *Repository) GetItemsMatching(attr models.Attribute, values []string, limit int) []RankedItem {
	wanted := make(map[string]struct{}, len(values))
	for _, v := range values {
		if v != "" {
			wanted[v] = struct{}{}
		}
	}
	if len(wanted) == 0 || limit <= 0 {
		return nil
	}

	var out []RankedItem
	for _, c := range r.pool {
		var matches int
		for _, tag := range c.Tags(attr) {
			if _, ok := wanted[tag]; ok {
				matches++
			}
		}
		if matches > 0 {
			out = append(out, RankedItem{ID: c.CandidateID(), Points: float64(matches)})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// DeductSeenItems returns a penalty entry for every distinct ID in seenIDs.
// IDs outside the pool are included; the pipeline's eligibility filter
// removes them later.
func (r *Repository) DeductSeenItems(seenIDs []string) []RankedItem {
	if len(seenIDs) == 0 || r.weights.SeenPenalty == 0 {
		return nil
	}
	out := make([]RankedItem, 0, len(seenIDs))
	seen := make(map[string]struct{}, len(seenIDs))
	for _, id := range seenIDs {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, RankedItem{ID: id, Points: r.weights.SeenPenalty, DeductPoints: true})
	}
	return out
}

// GetItemsBasedOnTrialPlan boosts the given pool items whose group is on a
// Trial plan that has not yet expired.
func (r *Repository) GetItemsBasedOnTrialPlan(ids []string) []RankedItem {
	if r.weights.TrialPlanBoost == 0 {
		return nil
	}
	now := r.now()
	var out []RankedItem
	for _, c := range r.Lookup(ids) {
		if c.Owner().IsActiveTrial(now) {
			out = append(out, RankedItem{ID: c.CandidateID(), Points: r.weights.TrialPlanBoost})
		}
	}
	return out
}

// GetItemsOwnedBy boosts pool items owned by any of groupIDs.
func (r *Repository) GetItemsOwnedBy(groupIDs []string) []RankedItem {
	if len(groupIDs) == 0 || r.weights.FollowedGroupBoost == 0 {
		return nil
	}
	groups := make(map[string]struct{}, len(groupIDs))
	for _, g := range groupIDs {
		if g != "" {
			groups[g] = struct{}{}
		}
	}

	var out []RankedItem
	for _, c := range r.pool {
		if _, ok := groups[c.Owner().GroupID()]; ok {
			out = append(out, RankedItem{ID: c.CandidateID(), Points: r.weights.FollowedGroupBoost})
		}
	}
	return out
}

// GetFreshItems awards the first matching bucket to each pool item, using
// age to compute the item's distance from now. Items for which age reports
// false are skipped.
func (r *Repository) GetFreshItems(buckets []RecencyBucket, age func(c models.Candidate, now time.Time) (time.Duration, bool)) []RankedItem {
	if len(buckets) == 0 {
		return nil
	}
	now := r.now()
	var out []RankedItem
	for _, c := range r.pool {
		d, ok := age(c, now)
		if !ok || d < 0 {
			continue
		}
		for _, b := range buckets {
			if d <= b.Within {
				out = append(out, RankedItem{ID: c.CandidateID(), Points: b.Points})
				break
			}
		}
	}
	return out
}

// dedupeCandidates collapses repeated IDs, keeping the first occurrence.
// Nil candidates are dropped.
func dedupeCandidates(pools ...[]models.Candidate) []models.Candidate {
	var n int
	for _, p := range pools {
		n += len(p)
	}
	out := make([]models.Candidate, 0, n)
	seen := make(map[string]struct{}, n)
	for _, p := range pools {
		for _, c := range p {
			if c == nil {
				continue
			}
			id := c.CandidateID()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}
