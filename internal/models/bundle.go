// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package models

// Bundle is a complete, self-contained copy of the ranking inputs. It is the
// on-disk format for seed and snapshot files and the input of batch digests.
type Bundle struct {
	Users        []*User       `json:"users" yaml:"users"`
	Events       []*Event      `json:"events" yaml:"events"`
	Sparks       []*Spark      `json:"sparks" yaml:"sparks"`
	Jobs         []*Job        `json:"jobs" yaml:"jobs"`
	Interactions []Interaction `json:"interactions" yaml:"interactions"`
}

// Candidates returns the bundle's candidates of one domain, in bundle order.
func (b *Bundle) Candidates(domain Domain) []Candidate {
	if b == nil {
		return nil
	}
	var out []Candidate
	switch domain {
	case DomainEvents:
		out = make([]Candidate, 0, len(b.Events))
		for _, e := range b.Events {
			if e != nil {
				out = append(out, e)
			}
		}
	case DomainSparks:
		out = make([]Candidate, 0, len(b.Sparks))
		for _, s := range b.Sparks {
			if s != nil {
				out = append(out, s)
			}
		}
	case DomainJobs:
		out = make([]Candidate, 0, len(b.Jobs))
		for _, j := range b.Jobs {
			if j != nil {
				out = append(out, j)
			}
		}
	}
	return out
}

// Size returns the total number of records in the bundle.
func (b *Bundle) Size() int {
	if b == nil {
		return 0
	}
	return len(b.Users) + len(b.Events) + len(b.Sparks) + len(b.Jobs) + len(b.Interactions)
}
