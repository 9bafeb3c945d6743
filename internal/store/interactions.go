// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package store

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/streamrank/internal/models"
)

// interactionKey orders a user's interactions of one domain and kind newest
// first. Repeating the same (item, time) pair overwrites rather than
// duplicates.
func interactionKey(ix *models.Interaction) []byte {
	nanos := ix.At.UnixNano()
	if nanos < 0 {
		nanos = 0
	}
	inverted := math.MaxInt64 - nanos
	return []byte(fmt.Sprintf("%s%s:%s:%s:%019d:%s",
		interactionKeyPrefix, ix.UserID, ix.Domain, ix.Kind, inverted, ix.ItemID))
}

func interactionPrefix(userID string, domain models.Domain, kind models.InteractionKind) []byte {
	return []byte(interactionKeyPrefix + userID + ":" + string(domain) + ":" + string(kind) + ":")
}

// AppendInteraction records one interaction. A zero At is stamped with the
// current time.
func (s *Store) AppendInteraction(ctx context.Context, ix models.Interaction) error {
	if err := validID(ix.UserID); err != nil {
		return fmt.Errorf("append interaction: user: %w", err)
	}
	if ix.ItemID == "" {
		return fmt.Errorf("append interaction: %w: empty item id", ErrInvalidID)
	}
	if !ix.Domain.Valid() {
		return fmt.Errorf("append interaction: unknown domain %q", ix.Domain)
	}
	if !ix.Kind.Valid() {
		return fmt.Errorf("append interaction: unknown kind %q", ix.Kind)
	}
	if ix.At.IsZero() {
		ix.At = time.Now().UTC()
	}

	data, err := json.Marshal(&ix)
	if err != nil {
		return fmt.Errorf("marshal interaction: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(interactionKey(&ix), data)
	})
}

// ListInteractions returns a user's interactions of one kind, newest first,
// at most limit of them (limit <= 0 means no limit). An empty domain lists
// all domains.
func (s *Store) ListInteractions(ctx context.Context, userID string, domain models.Domain, kind models.InteractionKind, limit int) ([]models.Interaction, error) {
	if domain != "" {
		return s.scanInteractions(ctx, interactionPrefix(userID, domain, kind), limit)
	}

	var all []models.Interaction
	for _, d := range models.Domains {
		part, err := s.scanInteractions(ctx, interactionPrefix(userID, d, kind), limit)
		if err != nil {
			return nil, err
		}
		all = append(all, part...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].At.After(all[j].At)
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// ListAllInteractions returns every stored interaction in key order.
func (s *Store) ListAllInteractions(ctx context.Context) ([]models.Interaction, error) {
	return s.scanInteractions(ctx, []byte(interactionKeyPrefix), 0)
}

// CountInteractions returns the number of stored interactions.
func (s *Store) CountInteractions() (int, error) {
	return s.countPrefix(interactionKeyPrefix)
}

func (s *Store) scanInteractions(ctx context.Context, prefix []byte, limit int) ([]models.Interaction, error) {
	var out []models.Interaction
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var ix models.Interaction
			if err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &ix)
			}); err != nil {
				return fmt.Errorf("decode interaction %s: %w", it.Item().Key(), err)
			}
			out = append(out, ix)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list interactions: %w", err)
	}
	return out, nil
}
