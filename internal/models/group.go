// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package models

import "time"

// PlanType is the subscription tier of a Group.
type PlanType string

const (
	PlanFree  PlanType = "free"
	PlanTrial PlanType = "trial"
	PlanPro   PlanType = "pro"
)

// Plan is a Group's subscription state.
type Plan struct {
	Type PlanType `json:"type" yaml:"type"`

	// ExpiresAt is when the plan lapses. Zero means no expiry.
	ExpiresAt time.Time `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
}

// Group is the company or university that owns a candidate.
type Group struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Industries  []string `json:"industries,omitempty" yaml:"industries,omitempty"`
	Countries   []string `json:"countries,omitempty" yaml:"countries,omitempty"`
	CompanySize string   `json:"company_size,omitempty" yaml:"company_size,omitempty"`
	Plan        Plan     `json:"plan" yaml:"plan"`
}

// IsActiveTrial reports whether the group is on a Trial plan that has not
// expired at now. A trial with no expiry never counts as active.
func (g *Group) IsActiveTrial(now time.Time) bool {
	if g == nil || g.Plan.Type != PlanTrial {
		return false
	}
	return g.Plan.ExpiresAt.After(now)
}

func (g *Group) industries() []string {
	if g == nil {
		return nil
	}
	return g.Industries
}

func (g *Group) countries() []string {
	if g == nil {
		return nil
	}
	return g.Countries
}

func (g *Group) companySize() string {
	if g == nil {
		return ""
	}
	return g.CompanySize
}

// GroupID returns the group's ID or "" for a nil group.
func (g *Group) GroupID() string {
	if g == nil {
		return ""
	}
	return g.ID
}
