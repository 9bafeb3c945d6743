// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package datafetch

import (
	"context"
	"sort"
	"time"

	"github.com/tomtom215/streamrank/internal/models"
	"github.com/tomtom215/streamrank/internal/recommend"
)

type interactionKey struct {
	user string
	kind models.InteractionKind
}

// Snapshot is an immutable, indexed copy of a Bundle. It is safe for
// concurrent use by any number of per-user views.
type Snapshot struct {
	users        map[string]*models.User
	order        []*models.User
	pools        map[models.Domain][]models.Candidate
	interactions map[interactionKey][]models.Interaction
	now          func() time.Time
}

// NewSnapshot indexes b. Pools are filtered by horizon at fetch time, so a
// snapshot taken before midnight still answers correctly after it. A nil
// clock defaults to time.Now.
func NewSnapshot(b *models.Bundle, now func() time.Time) *Snapshot {
	if now == nil {
		now = time.Now
	}
	s := &Snapshot{
		users:        make(map[string]*models.User),
		pools:        make(map[models.Domain][]models.Candidate, len(models.Domains)),
		interactions: make(map[interactionKey][]models.Interaction),
		now:          now,
	}
	if b == nil {
		return s
	}

	for _, u := range b.Users {
		if u == nil || u.ID == "" {
			continue
		}
		if _, dup := s.users[u.ID]; dup {
			continue
		}
		s.users[u.ID] = u
		s.order = append(s.order, u)
	}
	for _, d := range models.Domains {
		s.pools[d] = b.Candidates(d)
	}
	for _, ix := range b.Interactions {
		k := interactionKey{user: ix.UserID, kind: ix.Kind}
		s.interactions[k] = append(s.interactions[k], ix)
	}
	for k := range s.interactions {
		list := s.interactions[k]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].At.After(list[j].At)
		})
	}
	return s
}

// Users returns every user in bundle order, first occurrence winning.
func (s *Snapshot) Users() []*models.User {
	return s.order
}

// Subscribers returns the users opted into the digest, in bundle order.
func (s *Snapshot) Subscribers() []*models.User {
	var out []*models.User
	for _, u := range s.order {
		if u.DigestSubscribed {
			out = append(out, u)
		}
	}
	return out
}

// ForUser returns a fetcher bound to userID. An empty or unknown ID behaves
// like an anonymous request.
func (s *Snapshot) ForUser(userID string) recommend.DataFetcher {
	return &snapshotView{snap: s, userID: userID}
}

type snapshotView struct {
	snap   *Snapshot
	userID string
}

func (v *snapshotView) GetUser(ctx context.Context) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v.snap.users[v.userID], nil
}

func (v *snapshotView) GetCandidatePool(ctx context.Context, domain models.Domain, horizon models.Horizon) ([]models.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validHorizon(horizon); err != nil {
		return nil, err
	}
	return filterHorizon(v.snap.pools[domain], horizon, v.snap.now()), nil
}

func (v *snapshotView) GetUserInteractions(ctx context.Context, kind models.InteractionKind) ([]models.Interaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if v.userID == "" {
		return nil, nil
	}
	list := v.snap.interactions[interactionKey{user: v.userID, kind: kind}]
	out := make([]models.Interaction, len(list))
	copy(out, list)
	return out, nil
}
