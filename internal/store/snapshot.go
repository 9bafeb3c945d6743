// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package store

import (
	"context"
	"fmt"

	"github.com/tomtom215/streamrank/internal/models"
)

// Snapshot copies the whole store into a Bundle. Records are read in
// separate transactions, so writes racing the snapshot may or may not be
// included.
func (s *Store) Snapshot(ctx context.Context) (*models.Bundle, error) {
	b := &models.Bundle{}

	users, err := s.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	b.Users = users

	for _, d := range models.Domains {
		cands, err := s.ListCandidates(ctx, d)
		if err != nil {
			return nil, fmt.Errorf("snapshot: %w", err)
		}
		for _, c := range cands {
			switch v := c.(type) {
			case *models.Event:
				b.Events = append(b.Events, v)
			case *models.Spark:
				b.Sparks = append(b.Sparks, v)
			case *models.Job:
				b.Jobs = append(b.Jobs, v)
			}
		}
	}

	ix, err := s.ListAllInteractions(ctx)
	if err != nil {
		return nil, fmt.Errorf("snapshot: %w", err)
	}
	b.Interactions = ix

	return b, nil
}

// Import writes every record of b into the store and returns how many were
// written. Existing records with the same keys are replaced.
func (s *Store) Import(ctx context.Context, b *models.Bundle) (int, error) {
	if b == nil {
		return 0, nil
	}
	n := 0
	for _, u := range b.Users {
		if err := s.PutUser(ctx, u); err != nil {
			return n, fmt.Errorf("import user: %w", err)
		}
		n++
	}
	for _, d := range models.Domains {
		for _, c := range b.Candidates(d) {
			if err := s.PutCandidate(ctx, c); err != nil {
				return n, fmt.Errorf("import %s: %w", d, err)
			}
			n++
		}
	}
	for _, ix := range b.Interactions {
		if err := s.AppendInteraction(ctx, ix); err != nil {
			return n, fmt.Errorf("import interaction: %w", err)
		}
		n++
	}
	return n, nil
}

// Empty reports whether the store holds no users and no candidates.
func (s *Store) Empty() (bool, error) {
	users, err := s.countPrefix(userKeyPrefix)
	if err != nil {
		return false, err
	}
	cands, err := s.countPrefix(candidateKeyPrefix)
	if err != nil {
		return false, err
	}
	return users == 0 && cands == 0, nil
}
