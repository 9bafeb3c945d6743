// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package models

import "time"

// User is the requesting user's static profile.
type User struct {
	ID             string   `json:"id" yaml:"id" validate:"required"`
	Email          string   `json:"email,omitempty" yaml:"email,omitempty" validate:"omitempty,email"`
	Interests      []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	FieldsOfStudy  []string `json:"fields_of_study,omitempty" yaml:"fields_of_study,omitempty"`
	Industries     []string `json:"industries,omitempty" yaml:"industries,omitempty"`
	Country        string   `json:"country,omitempty" yaml:"country,omitempty"`
	FollowedGroups []string `json:"followed_groups,omitempty" yaml:"followed_groups,omitempty"`

	// DigestSubscribed opts the user into the nightly digest run.
	DigestSubscribed bool `json:"digest_subscribed" yaml:"digest_subscribed"`
}

// Tags implements Taggable so a profile can be matched like an item.
func (u *User) Tags(attr Attribute) []string {
	if u == nil {
		return nil
	}
	switch attr {
	case AttrTag, AttrCategory:
		return normalizeTags(u.Interests)
	case AttrFieldOfStudy:
		return normalizeTags(u.FieldsOfStudy)
	case AttrIndustry:
		return normalizeTags(u.Industries)
	case AttrCountry:
		return single(u.Country)
	default:
		return nil
	}
}

// Follows reports whether the user follows the given group.
func (u *User) Follows(groupID string) bool {
	if u == nil || groupID == "" {
		return false
	}
	for _, g := range u.FollowedGroups {
		if g == groupID {
			return true
		}
	}
	return false
}

// Interaction records a single user action on an item.
type Interaction struct {
	UserID string          `json:"user_id" yaml:"user_id" validate:"required"`
	ItemID string          `json:"item_id" yaml:"item_id" validate:"required"`
	Domain Domain          `json:"domain" yaml:"domain" validate:"required,oneof=events sparks jobs"`
	Kind   InteractionKind `json:"kind" yaml:"kind" validate:"required,oneof=liked seen shared registered attended applied"`
	At     time.Time       `json:"at" yaml:"at"`
}
