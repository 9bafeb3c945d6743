// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/streamrank/internal/models"
)

func candidateKey(domain models.Domain, id string) []byte {
	return []byte(candidateKeyPrefix + string(domain) + ":" + id)
}

// PutCandidate creates or replaces a candidate under its own domain.
func (s *Store) PutCandidate(ctx context.Context, c models.Candidate) error {
	if c == nil {
		return fmt.Errorf("put candidate: nil candidate")
	}
	if err := validID(c.CandidateID()); err != nil {
		return fmt.Errorf("put candidate: %w", err)
	}
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal candidate: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(candidateKey(c.Domain(), c.CandidateID()), data)
	})
}

// GetCandidate returns one candidate, or ErrNotFound.
func (s *Store) GetCandidate(ctx context.Context, domain models.Domain, id string) (models.Candidate, error) {
	var c models.Candidate
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(candidateKey(domain, id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get candidate: %w", err)
		}
		return item.Value(func(val []byte) error {
			var derr error
			c, derr = decodeCandidate(domain, val)
			return derr
		})
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// DeleteCandidate removes a candidate. Deleting a missing candidate is not
// an error.
func (s *Store) DeleteCandidate(ctx context.Context, domain models.Domain, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete(candidateKey(domain, id)); err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete candidate: %w", err)
		}
		return nil
	})
}

// ListCandidates returns every candidate of a domain ordered by ID.
func (s *Store) ListCandidates(ctx context.Context, domain models.Domain) ([]models.Candidate, error) {
	if !domain.Valid() {
		return nil, fmt.Errorf("list candidates: unknown domain %q", domain)
	}

	var out []models.Candidate
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(candidateKeyPrefix + string(domain) + ":")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			err := it.Item().Value(func(val []byte) error {
				c, err := decodeCandidate(domain, val)
				if err != nil {
					return err
				}
				out = append(out, c)
				return nil
			})
			if err != nil {
				return fmt.Errorf("decode candidate %s: %w", it.Item().Key(), err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s candidates: %w", domain, err)
	}
	return out, nil
}

// decodeCandidate unmarshals a stored candidate into its concrete type.
func decodeCandidate(domain models.Domain, data []byte) (models.Candidate, error) {
	switch domain {
	case models.DomainEvents:
		var e models.Event
		if err := json.Unmarshal(data, &e); err != nil {
			return nil, err
		}
		return &e, nil
	case models.DomainSparks:
		var sp models.Spark
		if err := json.Unmarshal(data, &sp); err != nil {
			return nil, err
		}
		return &sp, nil
	case models.DomainJobs:
		var j models.Job
		if err := json.Unmarshal(data, &j); err != nil {
			return nil, err
		}
		return &j, nil
	default:
		return nil, fmt.Errorf("unknown domain %q", domain)
	}
}
