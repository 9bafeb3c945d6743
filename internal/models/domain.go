// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package models

import (
	"fmt"
	"strings"
)

// Domain identifies a family of recommendable content.
type Domain string

const (
	// DomainEvents covers livestream events.
	DomainEvents Domain = "events"

	// DomainSparks covers Spark short videos.
	DomainSparks Domain = "sparks"

	// DomainJobs covers job postings.
	DomainJobs Domain = "jobs"
)

// Domains lists every supported domain in a stable order.
var Domains = []Domain{DomainEvents, DomainSparks, DomainJobs}

// String returns the domain name.
func (d Domain) String() string {
	return string(d)
}

// Valid reports whether d is a known domain.
func (d Domain) Valid() bool {
	switch d {
	case DomainEvents, DomainSparks, DomainJobs:
		return true
	default:
		return false
	}
}

// ParseDomain converts a case-insensitive name to a Domain.
func ParseDomain(s string) (Domain, error) {
	d := Domain(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("unknown domain %q", s)
	}
	return d, nil
}

// Attribute names a classification dimension carried by candidates and users.
type Attribute string

const (
	AttrTag          Attribute = "tag"
	AttrIndustry     Attribute = "industry"
	AttrCountry      Attribute = "country"
	AttrCompanySize  Attribute = "company_size"
	AttrFieldOfStudy Attribute = "field_of_study"
	AttrCategory     Attribute = "category"
)

// Taggable is implemented by anything that exposes classification values
// per attribute. Implementations never return empty strings.
type Taggable interface {
	Tags(attr Attribute) []string
}

// Horizon selects which side of "now" a candidate pool is drawn from.
type Horizon string

const (
	HorizonFuture Horizon = "future"
	HorizonPast   Horizon = "past"
)

// InteractionKind is the type of action a user took on an item.
type InteractionKind string

const (
	InteractionLiked      InteractionKind = "liked"
	InteractionSeen       InteractionKind = "seen"
	InteractionShared     InteractionKind = "shared"
	InteractionRegistered InteractionKind = "registered"
	InteractionAttended   InteractionKind = "attended"
	InteractionApplied    InteractionKind = "applied"
)

// Valid reports whether k is a known interaction kind.
func (k InteractionKind) Valid() bool {
	switch k {
	case InteractionLiked, InteractionSeen, InteractionShared,
		InteractionRegistered, InteractionAttended, InteractionApplied:
		return true
	default:
		return false
	}
}

// normalizeTags drops empty values and duplicates while keeping order.
func normalizeTags(lists ...[]string) []string {
	var n int
	for _, l := range lists {
		n += len(l)
	}
	if n == 0 {
		return nil
	}

	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for _, l := range lists {
		for _, v := range l {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if _, dup := seen[v]; dup {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// single wraps a scalar attribute so it can be merged like a list.
func single(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}
