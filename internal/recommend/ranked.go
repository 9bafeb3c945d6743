// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package recommend

import (
	"sort"

	"github.com/tomtom215/streamrank/internal/models"
)

// RankedItem is a scored reference to a candidate ID.
type RankedItem struct {
	// ID is the candidate ID.
	ID string `json:"id"`

	// Points is the magnitude contributed by the producing strategy.
	Points float64 `json:"points"`

	// DeductPoints makes Points count against the item instead of for it.
	DeductPoints bool `json:"deduct_points,omitempty"`
}

// Score returns the signed contribution of the item.
//
//nolint:gocritic // hugeParam: value receiver keeps RankedItem immutable
func (r RankedItem) Score() float64 {
	if r.DeductPoints {
		return -r.Points
	}
	return r.Points
}

// Merge combines ranked lists by ID. The result holds one entry per ID with
// the signed sum of every contribution, in first-encounter order across the
// lists as given.
func Merge(lists ...[]RankedItem) []RankedItem {
	var n int
	for _, l := range lists {
		n += len(l)
	}
	if n == 0 {
		return []RankedItem{}
	}

	index := make(map[string]int, n)
	out := make([]RankedItem, 0, n)
	for _, l := range lists {
		for _, item := range l {
			if i, ok := index[item.ID]; ok {
				out[i].Points += item.Score()
				continue
			}
			index[item.ID] = len(out)
			out = append(out, RankedItem{ID: item.ID, Points: item.Score()})
		}
	}
	return out
}

// MostCommon returns every value of attr that occurs with the highest
// frequency across items, in first-encounter order. Ties are all included.
// Items with no value for attr are skipped.
func MostCommon[T models.Taggable](items []T, attr models.Attribute) []string {
	counts := make(map[string]int)
	var order []string
	maxCount := 0

	for _, item := range items {
		for _, v := range item.Tags(attr) {
			if v == "" {
				continue
			}
			if counts[v] == 0 {
				order = append(order, v)
			}
			counts[v]++
			if counts[v] > maxCount {
				maxCount = counts[v]
			}
		}
	}

	if maxCount == 0 {
		return nil
	}

	out := make([]string, 0, len(order))
	for _, v := range order {
		if counts[v] == maxCount {
			out = append(out, v)
		}
	}
	return out
}

// SortStable orders items by descending score in place. Equal scores keep
// their relative order.
func SortStable(items []RankedItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score() > items[j].Score()
	})
}

// FilterEligible drops items whose ID is not in eligible.
func FilterEligible(items []RankedItem, eligible map[string]struct{}) []RankedItem {
	out := make([]RankedItem, 0, len(items))
	for _, item := range items {
		if _, ok := eligible[item.ID]; ok {
			out = append(out, item)
		}
	}
	return out
}

// IDs returns the IDs of at most limit items, in order.
func IDs(items []RankedItem, limit int) []string {
	if limit < 0 {
		limit = 0
	}
	if limit > len(items) {
		limit = len(items)
	}
	out := make([]string, limit)
	for i := 0; i < limit; i++ {
		out[i] = items[i].ID
	}
	return out
}
