// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package recommend

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/streamrank/internal/metrics"
	"github.com/tomtom215/streamrank/internal/models"
)

// --- Test: Jobs ---

func TestJobs_TagOverlapScenario(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1", Interests: []string{"A"}}
	fetcher := newMockFetcher(user).withPool(models.DomainJobs, models.HorizonFuture,
		job("job1", "A"),
		job("job2", "B"),
		job("job3", "A", "B"),
	)

	svc, err := CreateJobs(context.Background(), fetcher, testConfig(), testLogger(), WithClock(testClock))
	if err != nil {
		t.Fatalf("CreateJobs() error = %v", err)
	}

	got, err := svc.GetRecommendations(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	want := []string{"job1", "job3", "job2"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetRecommendations() = %v, want %v", got, want)
	}
}

func TestJobs_RequiresUser(t *testing.T) {
	t.Parallel()

	fetcher := newMockFetcher(nil).withPool(models.DomainJobs, models.HorizonFuture, job("job1"))

	_, err := CreateJobs(context.Background(), fetcher, testConfig(), testLogger())
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("CreateJobs() error = %v, want ErrUserNotFound", err)
	}

	svc, err := Create(context.Background(), models.DomainJobs, fetcher, testConfig(), testLogger())
	if !errors.Is(err, ErrUserNotFound) || svc != nil {
		t.Fatalf("Create(jobs) = (%v, %v), want (nil, ErrUserNotFound)", svc, err)
	}
}

func TestJobs_ActionAndFollowedStrategies(t *testing.T) {
	t.Parallel()

	fintech := &models.Group{ID: "fintech", Industries: []string{"Finance"}, CompanySize: "11-50"}
	hospital := &models.Group{ID: "hospital", Industries: []string{"Health"}, CompanySize: "1000+"}

	applied := &models.Job{ID: "applied", Group: fintech, Published: true}
	similar := &models.Job{ID: "similar", Group: &models.Group{ID: "bank", Industries: []string{"Finance"}, CompanySize: "11-50"}, Published: true}
	followed := &models.Job{ID: "followed", Group: hospital, Published: true}
	other := &models.Job{ID: "other", Published: true}

	user := &models.User{ID: "u1", FollowedGroups: []string{"hospital"}}
	fetcher := newMockFetcher(user).
		withPool(models.DomainJobs, models.HorizonFuture, other, followed, similar, applied).
		withInteraction(models.DomainJobs, models.InteractionApplied, "applied").
		withInteraction(models.DomainJobs, models.InteractionSeen, "applied")

	svc, err := CreateJobs(context.Background(), fetcher, testConfig(), testLogger(), WithClock(testClock))
	if err != nil {
		t.Fatalf("CreateJobs() error = %v", err)
	}
	got, err := svc.GetRecommendations(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}

	// similar: industry +1, company size +1 = 2
	// applied: industry +1, company size +1, seen -1 = 1
	// followed: followed group +1 = 1 (ahead of applied in pool order)
	// other: 0
	want := []string{"similar", "followed", "applied", "other"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetRecommendations() = %v, want %v", got, want)
	}
}

// --- Test: Events ---

func TestEvents_AnonymousBaseline(t *testing.T) {
	t.Parallel()

	fetcher := newMockFetcher(nil).withPool(models.DomainEvents, models.HorizonFuture,
		event("later", 30*24*time.Hour),
		event("soon", 20*24*time.Hour),
		event("latest", 40*24*time.Hour),
	)

	svc, err := CreateEvents(context.Background(), fetcher, testConfig(), testLogger(), WithClock(testClock))
	if err != nil {
		t.Fatalf("CreateEvents() error = %v", err)
	}
	if svc.Personalized() {
		t.Error("anonymous service reported as personalized")
	}

	got, err := svc.GetRecommendations(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	want := []string{"soon", "later", "latest"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("anonymous baseline = %v, want %v", got, want)
	}
}

func TestEvents_AnonymousStillGetsBoosts(t *testing.T) {
	t.Parallel()

	promoted := event("promoted", 30*24*time.Hour)
	promoted.Group = trialGroup("g", 24*time.Hour)

	fetcher := newMockFetcher(nil).withPool(models.DomainEvents, models.HorizonFuture,
		event("plain", 20*24*time.Hour),
		promoted,
		event("tomorrow", 24*time.Hour),
	)

	svc, err := CreateEvents(context.Background(), fetcher, testConfig(), testLogger(), WithClock(testClock))
	if err != nil {
		t.Fatalf("CreateEvents() error = %v", err)
	}
	got, err := svc.GetRecommendations(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}

	// tomorrow: freshness +2; promoted: trial +1; plain: 0.
	want := []string{"tomorrow", "promoted", "plain"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetRecommendations() = %v, want %v", got, want)
	}
}

func TestEvents_HistoryFromPastEventsScoresFuture(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1"}
	fetcher := newMockFetcher(user).
		withPool(models.DomainEvents, models.HorizonPast,
			event("past-tech", -10*24*time.Hour, "Tech"),
		).
		withPool(models.DomainEvents, models.HorizonFuture,
			event("health", 20*24*time.Hour, "Health"),
			event("tech", 30*24*time.Hour, "Tech"),
		).
		withInteraction(models.DomainEvents, models.InteractionAttended, "past-tech")

	svc, err := CreateEvents(context.Background(), fetcher, testConfig(), testLogger(), WithClock(testClock))
	if err != nil {
		t.Fatalf("CreateEvents() error = %v", err)
	}
	got, err := svc.GetRecommendations(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}

	want := []string{"tech", "health"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetRecommendations() = %v, want %v", got, want)
	}
	for _, id := range got {
		if id == "past-tech" {
			t.Error("past event leaked into results")
		}
	}
}

func TestEvents_SeenPenaltyDoesNotExclude(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1", Interests: []string{"go", "k8s"}}
	strong := event("strong", 20*24*time.Hour)
	strong.Topics = []string{"go", "k8s"}
	weak := event("weak", 21*24*time.Hour)
	weak.Topics = []string{"go"}

	fetcher := newMockFetcher(user).
		withPool(models.DomainEvents, models.HorizonFuture, strong, weak, event("none", 22*24*time.Hour)).
		withInteraction(models.DomainEvents, models.InteractionSeen, "strong", "none")

	svc, err := CreateEvents(context.Background(), fetcher, testConfig(), testLogger(), WithClock(testClock))
	if err != nil {
		t.Fatalf("CreateEvents() error = %v", err)
	}
	got, err := svc.GetRecommendations(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}

	// strong: +2 -1 = 1 ties weak at 1 and keeps its earlier start.
	// none: -1 ranks last but is not removed.
	want := []string{"strong", "weak", "none"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("GetRecommendations() = %v, want %v", got, want)
	}
}

// --- Test: Sparks ---

func TestSparks_AnonymousNewestFirst(t *testing.T) {
	t.Parallel()

	fetcher := newMockFetcher(nil).withPool(models.DomainSparks, models.HorizonPast,
		spark("old", 60*24*time.Hour),
		spark("new", 20*24*time.Hour),
		spark("mid", 40*24*time.Hour),
	)

	svc, err := CreateSparks(context.Background(), fetcher, testConfig(), testLogger(), WithClock(testClock))
	if err != nil {
		t.Fatalf("CreateSparks() error = %v", err)
	}
	got, err := svc.GetRecommendations(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	if want := []string{"new", "mid", "old"}; !reflect.DeepEqual(got, want) {
		t.Errorf("GetRecommendations() = %v, want %v", got, want)
	}
}

func TestSparks_LikedCategoriesLeadRanking(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1"}
	fetcher := newMockFetcher(user).
		withPool(models.DomainSparks, models.HorizonPast,
			spark("cooking", 20*24*time.Hour, "Cooking"),
			spark("career", 30*24*time.Hour, "Career"),
			spark("liked", 40*24*time.Hour, "Career"),
		).
		withInteraction(models.DomainSparks, models.InteractionLiked, "liked")

	svc, err := CreateSparks(context.Background(), fetcher, testConfig(), testLogger(), WithClock(testClock))
	if err != nil {
		t.Fatalf("CreateSparks() error = %v", err)
	}
	got, err := svc.GetRecommendations(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	if want := []string{"career", "liked"}; !reflect.DeepEqual(got, want) {
		t.Errorf("GetRecommendations() = %v, want %v", got, want)
	}
}

// --- Test: Shared pipeline properties ---

func TestGetRecommendations_EmptyPool(t *testing.T) {
	t.Parallel()

	for _, domain := range models.Domains {
		domain := domain
		t.Run(domain.String(), func(t *testing.T) {
			t.Parallel()
			fetcher := newMockFetcher(&models.User{ID: "u1", Interests: []string{"x"}})

			svc, err := Create(context.Background(), domain, fetcher, testConfig(), testLogger())
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			got, err := svc.GetRecommendations(context.Background(), 10)
			if err != nil {
				t.Fatalf("GetRecommendations() error = %v", err)
			}
			if got == nil || len(got) != 0 {
				t.Errorf("GetRecommendations() = %#v, want empty non-nil slice", got)
			}
		})
	}
}

func TestGetRecommendations_LimitAndDuplicates(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1", Interests: []string{"A"}}
	fetcher := newMockFetcher(user).withPool(models.DomainJobs, models.HorizonFuture,
		job("a", "A"), job("b"), job("a", "A"), job("c", "A"), job("b"),
	)

	svc, err := CreateJobs(context.Background(), fetcher, testConfig(), testLogger())
	if err != nil {
		t.Fatalf("CreateJobs() error = %v", err)
	}

	for _, limit := range []int{0, 1, 2, 3, 30} {
		got, err := svc.GetRecommendations(context.Background(), limit)
		if err != nil {
			t.Fatalf("GetRecommendations(%d) error = %v", limit, err)
		}
		if len(got) > limit {
			t.Errorf("limit %d: got %d items", limit, len(got))
		}
		if hasDuplicates(got) {
			t.Errorf("limit %d: duplicate IDs in %v", limit, got)
		}
		if limit >= 3 && len(got) != 3 {
			t.Errorf("limit %d: got %v, want all 3 distinct jobs", limit, got)
		}
	}
}

func TestGetRecommendations_Deterministic(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1", Interests: []string{"go"}, Country: "DE"}
	var pool []models.Candidate
	for i, tags := range [][]string{{"go"}, {}, {"go", "rust"}, {"rust"}, {}, {"go"}} {
		j := job(string(rune('a'+i)), tags...)
		if i%2 == 0 {
			j.Countries = []string{"DE"}
		}
		pool = append(pool, j)
	}
	fetcher := newMockFetcher(user).withPool(models.DomainJobs, models.HorizonFuture, pool...)

	svc, err := CreateJobs(context.Background(), fetcher, testConfig(), testLogger(), WithClock(testClock))
	if err != nil {
		t.Fatalf("CreateJobs() error = %v", err)
	}

	first, err := svc.GetRecommendations(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	for i := 0; i < 25; i++ {
		got, err := svc.GetRecommendations(context.Background(), 10)
		if err != nil {
			t.Fatalf("run %d: error = %v", i, err)
		}
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("run %d: %v differs from %v", i, got, first)
		}
	}
}

func TestRank_PartialStrategyFailure(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Limits.StrategyTimeout = 30 * time.Millisecond
	pool := candidates(job("job1"), job("job2"), job("job3"))

	r, err := newRanker(models.DomainJobs, cfg, testLogger(), &inputs{user: &models.User{ID: "u1"}}, pool, pool, nil)
	if err != nil {
		t.Fatalf("newRanker() error = %v", err)
	}

	got, err := r.rank(context.Background(), 10, []Strategy{
		staticStrategy("ok", RankedItem{ID: "job2", Points: 5}),
		{Name: "fails", Run: func(context.Context) ([]RankedItem, error) {
			return nil, errors.New("backend down")
		}},
		{Name: "panics", Run: func(context.Context) ([]RankedItem, error) {
			panic("unexpected nil")
		}},
		{Name: "hangs", Run: func(context.Context) ([]RankedItem, error) {
			time.Sleep(500 * time.Millisecond)
			return []RankedItem{{ID: "job3", Points: 100}}, nil
		}},
	})
	if err != nil {
		t.Fatalf("rank() error = %v", err)
	}

	want := []string{"job2", "job1", "job3"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rank() = %v, want %v", got, want)
	}
}

func TestRank_IneligibleItemsNeverAppear(t *testing.T) {
	t.Parallel()

	pool := candidates(job("job1"))
	r, err := newRanker(models.DomainJobs, testConfig(), testLogger(), &inputs{user: &models.User{ID: "u1"}}, pool, pool, nil)
	if err != nil {
		t.Fatalf("newRanker() error = %v", err)
	}

	got, err := r.rank(context.Background(), 10, []Strategy{
		staticStrategy("fabricates", RankedItem{ID: "ghost", Points: 10}),
	})
	if err != nil {
		t.Fatalf("rank() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"job1"}) {
		t.Errorf("rank() = %v, want [job1]", got)
	}
}

func TestGetRecommendations_CancelledContext(t *testing.T) {
	t.Parallel()

	fetcher := newMockFetcher(&models.User{ID: "u1"}).withPool(models.DomainJobs, models.HorizonFuture, job("a"))
	svc, err := CreateJobs(context.Background(), fetcher, testConfig(), testLogger())
	if err != nil {
		t.Fatalf("CreateJobs() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.GetRecommendations(ctx, 10); !errors.Is(err, context.Canceled) {
		t.Errorf("GetRecommendations() error = %v, want context.Canceled", err)
	}
}

// --- Test: Create ---

func TestCreate_FetchErrorsPropagate(t *testing.T) {
	t.Parallel()

	errDB := errors.New("database unavailable")

	tests := []struct {
		name    string
		fetcher *mockFetcher
	}{
		{"user", &mockFetcher{userErr: errDB}},
		{"pool", &mockFetcher{user: &models.User{ID: "u1"}, poolErr: errDB}},
		{"interactions", &mockFetcher{user: &models.User{ID: "u1"}, interactionErr: errDB}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			for _, domain := range models.Domains {
				_, err := Create(context.Background(), domain, tt.fetcher, testConfig(), testLogger())
				if !errors.Is(err, errDB) {
					t.Errorf("%s: Create() error = %v, want %v", domain, err, errDB)
				}
			}
		})
	}
}

func TestCreate_HydratesConcurrentlyOnce(t *testing.T) {
	t.Parallel()

	fetcher := newMockFetcher(&models.User{ID: "u1"})
	if _, err := CreateEvents(context.Background(), fetcher, testConfig(), testLogger()); err != nil {
		t.Fatalf("CreateEvents() error = %v", err)
	}
	if fetcher.userCalls != 1 {
		t.Errorf("GetUser called %d times, want 1", fetcher.userCalls)
	}
	if fetcher.poolCalls != 2 {
		t.Errorf("GetCandidatePool called %d times, want 2 (future and past)", fetcher.poolCalls)
	}
}

func TestCreate_UnknownDomain(t *testing.T) {
	t.Parallel()

	_, err := Create(context.Background(), models.Domain("podcasts"), newMockFetcher(nil), testConfig(), testLogger())
	if !errors.Is(err, ErrUnknownDomain) {
		t.Errorf("Create() error = %v, want ErrUnknownDomain", err)
	}
}

func TestCreate_InvalidConfig(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.Limits.HistoryWindow = 0
	_, err := CreateSparks(context.Background(), newMockFetcher(nil), cfg, testLogger())
	if err == nil {
		t.Error("expected error for invalid config")
	}
}

// --- Test: Strategy metrics ---

func TestRank_CountsPanicsAndTimeoutsAsFailures(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1"}
	fetcher := newMockFetcher(user).withPool(models.DomainJobs, models.HorizonFuture, job("job1"))

	svc, err := CreateJobs(context.Background(), fetcher, testConfig(), testLogger(), WithClock(testClock))
	if err != nil {
		t.Fatalf("CreateJobs() error = %v", err)
	}

	failures := func(name string) float64 {
		return testutil.ToFloat64(metrics.StrategyFailures.WithLabelValues(models.DomainJobs.String(), name))
	}
	beforePanic := failures("rank-test-panic")
	beforeSlow := failures("rank-test-slow")
	beforeOK := failures("rank-test-ok")

	got, err := svc.rank(context.Background(), 10, []Strategy{
		{
			Name: "rank-test-panic",
			Run: func(context.Context) ([]RankedItem, error) {
				panic("boom")
			},
		},
		{
			// Ignores its context and finishes after the join gave up on it.
			Name: "rank-test-slow",
			Run: func(context.Context) ([]RankedItem, error) {
				time.Sleep(3 * testConfig().Limits.StrategyTimeout)
				return []RankedItem{{ID: "job1", Points: 1}}, nil
			},
		},
		staticStrategy("rank-test-ok", RankedItem{ID: "job1", Points: 1}),
	})
	if err != nil {
		t.Fatalf("rank() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"job1"}) {
		t.Errorf("rank() = %v, want [job1]", got)
	}

	if d := failures("rank-test-panic") - beforePanic; d != 1 {
		t.Errorf("panic failures delta = %v, want 1", d)
	}
	if d := failures("rank-test-slow") - beforeSlow; d != 1 {
		t.Errorf("timeout failures delta = %v, want 1", d)
	}

	// The abandoned goroutine must not record a late outcome.
	time.Sleep(4 * testConfig().Limits.StrategyTimeout)
	if d := failures("rank-test-slow") - beforeSlow; d != 1 {
		t.Errorf("timeout failures delta after late finish = %v, want 1", d)
	}
	if d := failures("rank-test-ok") - beforeOK; d != 0 {
		t.Errorf("success failures delta = %v, want 0", d)
	}
}

func TestEvents_LikedEventsFeedActionStrategy(t *testing.T) {
	t.Parallel()

	user := &models.User{ID: "u1"}
	fetcher := newMockFetcher(user).
		withPool(models.DomainEvents, models.HorizonPast,
			event("past-media", -3*24*time.Hour, "Media"),
		).
		withPool(models.DomainEvents, models.HorizonFuture,
			event("tech", 20*24*time.Hour, "Tech"),
			event("media", 30*24*time.Hour, "Media"),
		).
		withInteraction(models.DomainEvents, models.InteractionLiked, "past-media")

	svc, err := CreateEvents(context.Background(), fetcher, testConfig(), testLogger(), WithClock(testClock))
	if err != nil {
		t.Fatalf("CreateEvents() error = %v", err)
	}
	got, err := svc.GetRecommendations(context.Background(), 10)
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	if want := []string{"media", "tech"}; !reflect.DeepEqual(got, want) {
		t.Errorf("GetRecommendations() = %v, want %v", got, want)
	}
}

func TestJobs_FreshnessOnlyWhenConfigured(t *testing.T) {
	t.Parallel()

	stale := &models.Job{ID: "stale", Published: true, PostedAt: testNow.Add(-10 * 24 * time.Hour)}
	fresh := &models.Job{ID: "fresh", Published: true, PostedAt: testNow.Add(-time.Hour)}

	tests := []struct {
		name    string
		buckets []RecencyBucket
		want    []string
	}{
		{name: "no default buckets", want: []string{"stale", "fresh"}},
		{name: "configured buckets", buckets: []RecencyBucket{{Within: 24 * time.Hour, Points: 2}}, want: []string{"fresh", "stale"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := testConfig()
			cfg.Freshness.Jobs = tt.buckets
			fetcher := newMockFetcher(&models.User{ID: "u1"}).
				withPool(models.DomainJobs, models.HorizonFuture, stale, fresh)

			svc, err := CreateJobs(context.Background(), fetcher, cfg, testLogger(), WithClock(testClock))
			if err != nil {
				t.Fatalf("CreateJobs() error = %v", err)
			}
			got, err := svc.GetRecommendations(context.Background(), 10)
			if err != nil {
				t.Fatalf("GetRecommendations() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GetRecommendations() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJobs_EveryMatchOutranksNonMatches(t *testing.T) {
	t.Parallel()

	// More matching items than any fixed per-query cap would keep.
	pool := []models.Candidate{job("plain", "B")}
	for i := 0; i < 150; i++ {
		pool = append(pool, job(fmt.Sprintf("match-%03d", i), "A"))
	}

	fetcher := newMockFetcher(&models.User{ID: "u1", Interests: []string{"A"}}).
		withPool(models.DomainJobs, models.HorizonFuture, pool...)

	svc, err := CreateJobs(context.Background(), fetcher, testConfig(), testLogger(), WithClock(testClock))
	if err != nil {
		t.Fatalf("CreateJobs() error = %v", err)
	}
	got, err := svc.GetRecommendations(context.Background(), len(pool))
	if err != nil {
		t.Fatalf("GetRecommendations() error = %v", err)
	}
	if len(got) != len(pool) {
		t.Fatalf("got %d IDs, want %d", len(got), len(pool))
	}
	if got[len(got)-1] != "plain" {
		t.Errorf("last = %q, want the non-matching item after every match", got[len(got)-1])
	}
	if got[0] != "match-000" || got[len(got)-2] != "match-149" {
		t.Errorf("matches out of pool order: first %q, last %q", got[0], got[len(got)-2])
	}
}
