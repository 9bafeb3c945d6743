// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package models

import "time"

// Candidate is a recommendable item. The concrete variants are *Event,
// *Spark and *Job; callers switch on the type when they need
// domain-specific fields.
//
// Candidates are treated as immutable once fetched for a ranking pass.
type Candidate interface {
	Taggable

	// CandidateID returns the item's unique ID within its domain.
	CandidateID() string

	// Domain returns the domain this candidate belongs to.
	Domain() Domain

	// Owner returns the owning group, which may be nil.
	Owner() *Group

	sealed()
}

// Event is a livestream event.
type Event struct {
	ID         string    `json:"id" yaml:"id"`
	Title      string    `json:"title" yaml:"title"`
	Topics     []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Categories []string  `json:"categories,omitempty" yaml:"categories,omitempty"`
	Industries []string  `json:"industries,omitempty" yaml:"industries,omitempty"`
	Countries  []string  `json:"countries,omitempty" yaml:"countries,omitempty"`
	StartsAt   time.Time `json:"starts_at" yaml:"starts_at"`
	EndsAt     time.Time `json:"ends_at,omitempty" yaml:"ends_at,omitempty"`
	Published  bool      `json:"published" yaml:"published"`
	Hidden     bool      `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Group      *Group    `json:"group,omitempty" yaml:"group,omitempty"`
}

func (e *Event) CandidateID() string { return e.ID }
func (e *Event) Domain() Domain      { return DomainEvents }
func (e *Event) Owner() *Group       { return e.Group }
func (e *Event) sealed()             {}

// Tags implements Taggable. Industry and country merge the event's own
// values with its group's.
func (e *Event) Tags(attr Attribute) []string {
	switch attr {
	case AttrTag:
		return normalizeTags(e.Topics)
	case AttrCategory:
		return normalizeTags(e.Categories)
	case AttrIndustry:
		return normalizeTags(e.Industries, e.Group.industries())
	case AttrCountry:
		return normalizeTags(e.Countries, e.Group.countries())
	case AttrCompanySize:
		return single(e.Group.companySize())
	default:
		return nil
	}
}

// Spark is a short video.
type Spark struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Topics      []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	Categories  []string  `json:"categories,omitempty" yaml:"categories,omitempty"`
	Industries  []string  `json:"industries,omitempty" yaml:"industries,omitempty"`
	PublishedAt time.Time `json:"published_at" yaml:"published_at"`
	Hidden      bool      `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Group       *Group    `json:"group,omitempty" yaml:"group,omitempty"`
}

func (s *Spark) CandidateID() string { return s.ID }
func (s *Spark) Domain() Domain      { return DomainSparks }
func (s *Spark) Owner() *Group       { return s.Group }
func (s *Spark) sealed()             {}

// Tags implements Taggable.
func (s *Spark) Tags(attr Attribute) []string {
	switch attr {
	case AttrTag:
		return normalizeTags(s.Topics)
	case AttrCategory:
		return normalizeTags(s.Categories)
	case AttrIndustry:
		return normalizeTags(s.Industries, s.Group.industries())
	case AttrCountry:
		return normalizeTags(s.Group.countries())
	case AttrCompanySize:
		return single(s.Group.companySize())
	default:
		return nil
	}
}

// Job is a job posting.
type Job struct {
	ID            string    `json:"id" yaml:"id"`
	Title         string    `json:"title" yaml:"title"`
	Topics        []string  `json:"tags,omitempty" yaml:"tags,omitempty"`
	FieldsOfStudy []string  `json:"fields_of_study,omitempty" yaml:"fields_of_study,omitempty"`
	Countries     []string  `json:"countries,omitempty" yaml:"countries,omitempty"`
	CompanySize   string    `json:"company_size,omitempty" yaml:"company_size,omitempty"`
	PostedAt      time.Time `json:"posted_at,omitempty" yaml:"posted_at,omitempty"`
	ExpiresAt     time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Published     bool      `json:"published" yaml:"published"`
	Group         *Group    `json:"group,omitempty" yaml:"group,omitempty"`
}

func (j *Job) CandidateID() string { return j.ID }
func (j *Job) Domain() Domain      { return DomainJobs }
func (j *Job) Owner() *Group       { return j.Group }
func (j *Job) sealed()             {}

// Tags implements Taggable. A job's own company size wins over its group's.
func (j *Job) Tags(attr Attribute) []string {
	switch attr {
	case AttrTag:
		return normalizeTags(j.Topics)
	case AttrFieldOfStudy:
		return normalizeTags(j.FieldsOfStudy)
	case AttrCountry:
		return normalizeTags(j.Countries, j.Group.countries())
	case AttrIndustry:
		return normalizeTags(j.Group.industries())
	case AttrCompanySize:
		if j.CompanySize != "" {
			return single(j.CompanySize)
		}
		return single(j.Group.companySize())
	default:
		return nil
	}
}

// IsOpen reports whether the job accepts applications at now.
func (j *Job) IsOpen(now time.Time) bool {
	if !j.Published {
		return false
	}
	return j.ExpiresAt.IsZero() || j.ExpiresAt.After(now)
}
