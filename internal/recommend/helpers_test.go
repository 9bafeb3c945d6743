// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package recommend

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/streamrank/internal/models"
)

// testNow is the fixed clock used by ranking tests.
var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testClock() time.Time { return testNow }

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testConfig() *Config {
	cfg := DefaultConfig()
	cfg.Limits.StrategyTimeout = 200 * time.Millisecond
	return cfg
}

// mockFetcher implements DataFetcher for testing.
type mockFetcher struct {
	user         *models.User
	pools        map[models.Domain]map[models.Horizon][]models.Candidate
	interactions map[models.InteractionKind][]models.Interaction

	userErr        error
	poolErr        error
	interactionErr error

	userCalls int32
	poolCalls int32
}

func newMockFetcher(user *models.User) *mockFetcher {
	return &mockFetcher{
		user:         user,
		pools:        make(map[models.Domain]map[models.Horizon][]models.Candidate),
		interactions: make(map[models.InteractionKind][]models.Interaction),
	}
}

func (m *mockFetcher) withPool(domain models.Domain, horizon models.Horizon, items ...models.Candidate) *mockFetcher {
	if m.pools[domain] == nil {
		m.pools[domain] = make(map[models.Horizon][]models.Candidate)
	}
	m.pools[domain][horizon] = append(m.pools[domain][horizon], items...)
	return m
}

func (m *mockFetcher) withInteraction(domain models.Domain, kind models.InteractionKind, itemIDs ...string) *mockFetcher {
	for _, id := range itemIDs {
		m.interactions[kind] = append(m.interactions[kind], models.Interaction{
			UserID: m.user.ID,
			ItemID: id,
			Domain: domain,
			Kind:   kind,
			At:     testNow,
		})
	}
	return m
}

func (m *mockFetcher) GetUser(ctx context.Context) (*models.User, error) {
	atomic.AddInt32(&m.userCalls, 1)
	if m.userErr != nil {
		return nil, m.userErr
	}
	return m.user, nil
}

func (m *mockFetcher) GetCandidatePool(ctx context.Context, domain models.Domain, horizon models.Horizon) ([]models.Candidate, error) {
	atomic.AddInt32(&m.poolCalls, 1)
	if m.poolErr != nil {
		return nil, m.poolErr
	}
	return m.pools[domain][horizon], nil
}

func (m *mockFetcher) GetUserInteractions(ctx context.Context, kind models.InteractionKind) ([]models.Interaction, error) {
	if m.interactionErr != nil {
		return nil, m.interactionErr
	}
	return m.interactions[kind], nil
}

// --- Fixture builders ---

func job(id string, tags ...string) *models.Job {
	return &models.Job{ID: id, Topics: tags, Published: true}
}

func event(id string, startsIn time.Duration, industries ...string) *models.Event {
	return &models.Event{ID: id, StartsAt: testNow.Add(startsIn), Industries: industries, Published: true}
}

func spark(id string, age time.Duration, categories ...string) *models.Spark {
	return &models.Spark{ID: id, PublishedAt: testNow.Add(-age), Categories: categories}
}

func trialGroup(id string, expiresIn time.Duration) *models.Group {
	return &models.Group{ID: id, Plan: models.Plan{Type: models.PlanTrial, ExpiresAt: testNow.Add(expiresIn)}}
}

func candidates[T models.Candidate](items ...T) []models.Candidate {
	out := make([]models.Candidate, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out
}

func pointsByID(items []RankedItem) map[string]float64 {
	out := make(map[string]float64, len(items))
	for _, it := range items {
		out[it.ID] += it.Score()
	}
	return out
}

func hasDuplicates(ids []string) bool {
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return true
		}
		seen[id] = struct{}{}
	}
	return false
}
