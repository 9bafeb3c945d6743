// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package models

import (
	"reflect"
	"testing"
	"time"
)

func TestParseDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    Domain
		wantErr bool
	}{
		{"events", DomainEvents, false},
		{" Sparks ", DomainSparks, false},
		{"JOBS", DomainJobs, false},
		{"videos", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseDomain(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDomain(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDomain(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEventTags_MergesGroupValues(t *testing.T) {
	t.Parallel()

	ev := &Event{
		ID:         "ev1",
		Industries: []string{"Tech", "", "Finance"},
		Countries:  []string{"DE"},
		Group: &Group{
			ID:          "g1",
			Industries:  []string{"Finance", "Media"},
			Countries:   []string{"DE", "FR"},
			CompanySize: "51-200",
		},
	}

	if got, want := ev.Tags(AttrIndustry), []string{"Tech", "Finance", "Media"}; !reflect.DeepEqual(got, want) {
		t.Errorf("industry tags = %v, want %v", got, want)
	}
	if got, want := ev.Tags(AttrCountry), []string{"DE", "FR"}; !reflect.DeepEqual(got, want) {
		t.Errorf("country tags = %v, want %v", got, want)
	}
	if got, want := ev.Tags(AttrCompanySize), []string{"51-200"}; !reflect.DeepEqual(got, want) {
		t.Errorf("company size tags = %v, want %v", got, want)
	}
	if got := ev.Tags(AttrFieldOfStudy); got != nil {
		t.Errorf("field of study tags = %v, want nil", got)
	}
}

func TestTags_NilGroup(t *testing.T) {
	t.Parallel()

	candidates := []Candidate{
		&Event{ID: "e"},
		&Spark{ID: "s"},
		&Job{ID: "j"},
	}
	for _, c := range candidates {
		for _, attr := range []Attribute{AttrTag, AttrIndustry, AttrCountry, AttrCompanySize, AttrFieldOfStudy, AttrCategory} {
			if got := c.Tags(attr); len(got) != 0 {
				t.Errorf("%s %s: Tags(%s) = %v, want empty", c.Domain(), c.CandidateID(), attr, got)
			}
		}
		if c.Owner() != nil {
			t.Errorf("%s: Owner() should be nil", c.CandidateID())
		}
	}
}

func TestJobTags_CompanySizePrecedence(t *testing.T) {
	t.Parallel()

	j := &Job{ID: "j1", CompanySize: "1-10", Group: &Group{CompanySize: "1000+"}}
	if got := j.Tags(AttrCompanySize); !reflect.DeepEqual(got, []string{"1-10"}) {
		t.Errorf("job company size = %v, want [1-10]", got)
	}

	j.CompanySize = ""
	if got := j.Tags(AttrCompanySize); !reflect.DeepEqual(got, []string{"1000+"}) {
		t.Errorf("job company size fallback = %v, want [1000+]", got)
	}
}

func TestGroup_IsActiveTrial(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		group *Group
		want  bool
	}{
		{"nil group", nil, false},
		{"free plan", &Group{Plan: Plan{Type: PlanFree, ExpiresAt: now.Add(time.Hour)}}, false},
		{"active trial", &Group{Plan: Plan{Type: PlanTrial, ExpiresAt: now.Add(time.Hour)}}, true},
		{"expired trial", &Group{Plan: Plan{Type: PlanTrial, ExpiresAt: now.Add(-time.Hour)}}, false},
		{"trial expiring now", &Group{Plan: Plan{Type: PlanTrial, ExpiresAt: now}}, false},
		{"trial without expiry", &Group{Plan: Plan{Type: PlanTrial}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.group.IsActiveTrial(now); got != tt.want {
				t.Errorf("IsActiveTrial() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJob_IsOpen(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	if (&Job{Published: false}).IsOpen(now) {
		t.Error("unpublished job should not be open")
	}
	if !(&Job{Published: true}).IsOpen(now) {
		t.Error("published job without expiry should be open")
	}
	if (&Job{Published: true, ExpiresAt: now.Add(-time.Minute)}).IsOpen(now) {
		t.Error("expired job should not be open")
	}
}

func TestUser_TagsAndFollows(t *testing.T) {
	t.Parallel()

	u := &User{
		ID:             "u1",
		Interests:      []string{"go", "go", "rust"},
		Country:        "US",
		FollowedGroups: []string{"g1"},
	}

	if got := u.Tags(AttrTag); !reflect.DeepEqual(got, []string{"go", "rust"}) {
		t.Errorf("Tags(tag) = %v", got)
	}
	if got := u.Tags(AttrCountry); !reflect.DeepEqual(got, []string{"US"}) {
		t.Errorf("Tags(country) = %v", got)
	}
	if !u.Follows("g1") || u.Follows("g2") || u.Follows("") {
		t.Error("Follows returned unexpected result")
	}

	var nilUser *User
	if nilUser.Tags(AttrTag) != nil || nilUser.Follows("g1") {
		t.Error("nil user should have no tags and follow nothing")
	}
}

func TestInteractionKind_Valid(t *testing.T) {
	t.Parallel()

	for _, k := range []InteractionKind{InteractionLiked, InteractionSeen, InteractionShared, InteractionRegistered, InteractionAttended, InteractionApplied} {
		if !k.Valid() {
			t.Errorf("%q should be valid", k)
		}
	}
	if InteractionKind("clicked").Valid() {
		t.Error("clicked should not be valid")
	}
}
