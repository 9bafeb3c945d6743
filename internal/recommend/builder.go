// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package recommend

import (
	"github.com/tomtom215/streamrank/internal/models"
)

// Builder accumulates the contributions of one action-based pass over a set
// of reference items (things the user has already interacted with).
//
// Builder is immutable: every step returns a new Builder and leaves the
// receiver untouched, so partial chains can be shared safely.
//
//	items := NewBuilder(limit, attended, repo).
//		MostCommonIndustries().
//		MostCommonCountries().
//		DeductSeenItems().
//		Get()
type Builder struct {
	limit int
	refs  []models.Candidate
	repo  *Repository
	acc   []RankedItem
}

// NewBuilder creates an empty builder. limit bounds each match query.
func NewBuilder(limit int, refs []models.Candidate, repo *Repository) Builder {
	return Builder{limit: limit, refs: refs, repo: repo}
}

// MostCommonIndustries scores pool items against the reference items' most
// common industries.
func (b Builder) MostCommonIndustries() Builder {
	return b.mostCommon(models.AttrIndustry)
}

// MostCommonCountries scores pool items against the most common countries.
func (b Builder) MostCommonCountries() Builder {
	return b.mostCommon(models.AttrCountry)
}

// MostCommonCompanySizes scores pool items against the most common company sizes.
func (b Builder) MostCommonCompanySizes() Builder {
	return b.mostCommon(models.AttrCompanySize)
}

// MostCommonFieldsOfStudy scores pool items against the most common fields of study.
func (b Builder) MostCommonFieldsOfStudy() Builder {
	return b.mostCommon(models.AttrFieldOfStudy)
}

// MostCommonCategory scores pool items against the most common categories.
func (b Builder) MostCommonCategory() Builder {
	return b.mostCommon(models.AttrCategory)
}

// MostCommonTags scores pool items against the most common topic tags.
func (b Builder) MostCommonTags() Builder {
	return b.mostCommon(models.AttrTag)
}

// DeductSeenItems penalises the reference items themselves.
func (b Builder) DeductSeenItems() Builder {
	if len(b.refs) == 0 {
		return b
	}
	ids := make([]string, len(b.refs))
	for i, c := range b.refs {
		ids[i] = c.CandidateID()
	}
	return b.with(b.repo.DeductSeenItems(ids))
}

// TrialPlanItems boosts every pool item whose group is on an active trial.
// It does not depend on the reference items.
func (b Builder) TrialPlanItems() Builder {
	return b.with(b.repo.GetItemsBasedOnTrialPlan(b.repo.IDs()))
}

// Get returns the accumulated items, merged by ID and unsorted.
func (b Builder) Get() []RankedItem {
	out := make([]RankedItem, len(b.acc))
	copy(out, b.acc)
	return out
}

func (b Builder) mostCommon(attr models.Attribute) Builder {
	if len(b.refs) == 0 {
		return b
	}
	values := MostCommon(b.refs, attr)
	return b.with(b.repo.GetItemsMatching(attr, values, b.limit))
}

// with returns a copy of b with items merged into the accumulator.
func (b Builder) with(items []RankedItem) Builder {
	if len(items) == 0 {
		return b
	}
	next := b
	next.acc = Merge(b.acc, items)
	return next
}
