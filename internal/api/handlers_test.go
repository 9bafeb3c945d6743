// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/streamrank/internal/auth"
	"github.com/tomtom215/streamrank/internal/cache"
	"github.com/tomtom215/streamrank/internal/config"
	"github.com/tomtom215/streamrank/internal/datafetch"
	"github.com/tomtom215/streamrank/internal/feed"
	"github.com/tomtom215/streamrank/internal/ingest"
	"github.com/tomtom215/streamrank/internal/models"
	"github.com/tomtom215/streamrank/internal/recommend"
	"github.com/tomtom215/streamrank/internal/store"
)

const testSecret = "api_test_secret_with_more_than_32_characters"

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

type mockFeed struct {
	ids []string
	at  time.Time
	err error

	mu       sync.Mutex
	lastUser string
}

func (m *mockFeed) Latest(_ context.Context, userID string, _ models.Domain) ([]string, time.Time, error) {
	m.mu.Lock()
	m.lastUser = userID
	m.mu.Unlock()
	return m.ids, m.at, m.err
}

type mockPublisher struct {
	err error

	mu  sync.Mutex
	got []*ingest.InteractionMessage
}

func (m *mockPublisher) Publish(_ context.Context, msg *ingest.InteractionMessage) (string, error) {
	if err := msg.Validate(); err != nil {
		return "", err
	}
	if m.err != nil {
		return "", m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.got = append(m.got, msg)
	return "msg-1", nil
}

type failingFetcher struct{}

func (failingFetcher) GetUser(context.Context) (*models.User, error) {
	return nil, errors.New("store offline")
}

func (failingFetcher) GetCandidatePool(context.Context, models.Domain, models.Horizon) ([]models.Candidate, error) {
	return nil, errors.New("store offline")
}

func (failingFetcher) GetUserInteractions(context.Context, models.InteractionKind) ([]models.Interaction, error) {
	return nil, errors.New("store offline")
}

type testServer struct {
	handler   http.Handler
	jwt       *auth.JWTManager
	cache     *cache.Recommendations
	feed      *mockFeed
	publisher *mockPublisher
}

func seedStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.Open(store.Options{InMemory: true, Logger: zerolog.Nop()})
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { st.Close() })

	soon := time.Now().Add(48 * time.Hour)
	bundle := &models.Bundle{
		Users: []*models.User{{ID: "alice", Interests: []string{"A"}}},
		Events: []*models.Event{
			{ID: "ev1", StartsAt: soon, Published: true},
			{ID: "ev2", StartsAt: soon.Add(time.Hour), Published: true},
		},
		Jobs: []*models.Job{
			{ID: "job1", Topics: []string{"A"}, Published: true},
			{ID: "job2", Topics: []string{"B"}, Published: true},
			{ID: "job3", Topics: []string{"A", "B"}, Published: true},
		},
	}
	if _, err := st.Import(context.Background(), bundle); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	return st
}

func newTestServer(t *testing.T, fetchers FetcherFactory) *testServer {
	t.Helper()

	if fetchers == nil {
		st := seedStore(t)
		breaker := datafetch.NewBreaker(datafetch.BreakerSettings{Name: "api-test"}, zerolog.Nop())
		fetchers = func(userID string) recommend.DataFetcher {
			return breaker.Wrap(datafetch.NewLive(st, userID))
		}
	}

	jwtManager, err := auth.NewJWTManager(config.SecurityConfig{JWTSecret: testSecret})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}

	ts := &testServer{
		jwt:       jwtManager,
		cache:     cache.NewRecommendations(100, time.Minute),
		feed:      &mockFeed{ids: []string{"job3", "job1"}, at: time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)},
		publisher: &mockPublisher{},
	}

	h, err := NewHandler(Deps{
		Fetchers:  fetchers,
		Cache:     ts.cache,
		Feed:      ts.feed,
		Publisher: ts.publisher,
		Health: map[string]HealthCheck{
			"store": func(context.Context) error { return nil },
		},
		Version: "test",
		Logger:  zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}

	cfg := DefaultChiMiddlewareConfig()
	cfg.RateLimitDisabled = true
	ts.handler = NewRouter(h, auth.NewMiddleware(jwtManager), cfg).Setup()
	return ts
}

func (ts *testServer) token(t *testing.T, userID string) string {
	t.Helper()
	tok, err := ts.jwt.GenerateToken(userID, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	return tok
}

func (ts *testServer) do(t *testing.T, method, target, token string, body []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, target, bytes.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)

	var env envelope
	if strings.HasPrefix(rec.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, env
}

func decodeRecommendations(t *testing.T, env envelope) models.RecommendationsResponse {
	t.Helper()
	var resp models.RecommendationsResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	return resp
}

func TestRecommendations(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	alice := ts.token(t, "alice")

	tests := []struct {
		name             string
		target           string
		token            string
		wantStatus       int
		wantCode         string
		wantItems        []string
		wantLimit        int
		wantPersonalized bool
	}{
		{
			name:             "jobs for alice",
			target:           "/api/v1/recommendations/jobs",
			token:            alice,
			wantStatus:       http.StatusOK,
			wantItems:        []string{"job1", "job3", "job2"},
			wantLimit:        DefaultLimit,
			wantPersonalized: true,
		},
		{
			name:             "limit truncates",
			target:           "/api/v1/recommendations/jobs?limit=2",
			token:            alice,
			wantStatus:       http.StatusOK,
			wantItems:        []string{"job1", "job3"},
			wantLimit:        2,
			wantPersonalized: true,
		},
		{
			name:             "limit is clamped",
			target:           "/api/v1/recommendations/jobs?limit=500",
			token:            alice,
			wantStatus:       http.StatusOK,
			wantItems:        []string{"job1", "job3", "job2"},
			wantLimit:        MaxLimit,
			wantPersonalized: true,
		},
		{
			name:       "domain is case insensitive",
			target:     "/api/v1/recommendations/JOBS?limit=1",
			token:      alice,
			wantStatus: http.StatusOK,
			wantItems:  []string{"job1"},
			wantLimit:  1,

			wantPersonalized: true,
		},
		{name: "jobs anonymous", target: "/api/v1/recommendations/jobs", wantStatus: http.StatusNotFound, wantCode: ErrCodeUserNotFound},
		{name: "jobs unknown user", target: "/api/v1/recommendations/jobs", token: ts.token(t, "mallory"), wantStatus: http.StatusNotFound, wantCode: ErrCodeUserNotFound},
		{name: "unknown domain", target: "/api/v1/recommendations/podcasts", wantStatus: http.StatusBadRequest, wantCode: ErrCodeValidation},
		{name: "zero limit", target: "/api/v1/recommendations/events?limit=0", wantStatus: http.StatusBadRequest, wantCode: ErrCodeValidation},
		{name: "negative limit", target: "/api/v1/recommendations/events?limit=-3", wantStatus: http.StatusBadRequest, wantCode: ErrCodeValidation},
		{name: "non-numeric limit", target: "/api/v1/recommendations/events?limit=ten", wantStatus: http.StatusBadRequest, wantCode: ErrCodeValidation},
		{name: "invalid token", target: "/api/v1/recommendations/events", token: "garbage", wantStatus: http.StatusUnauthorized, wantCode: "AUTHENTICATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec, env := ts.do(t, http.MethodGet, tt.target, tt.token, nil)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if env.Status != "error" || env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
				}
				return
			}

			resp := decodeRecommendations(t, env)
			if !reflect.DeepEqual(resp.Items, tt.wantItems) {
				t.Errorf("items = %v, want %v", resp.Items, tt.wantItems)
			}
			if resp.Limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", resp.Limit, tt.wantLimit)
			}
			if resp.Personalized != tt.wantPersonalized {
				t.Errorf("personalized = %v, want %v", resp.Personalized, tt.wantPersonalized)
			}
		})
	}
}

func TestRecommendations_AnonymousBaseline(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	rec, env := ts.do(t, http.MethodGet, "/api/v1/recommendations/events", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	resp := decodeRecommendations(t, env)
	if resp.Personalized {
		t.Error("anonymous list marked personalized")
	}
	if len(resp.Items) != 2 {
		t.Errorf("items = %v, want both upcoming events", resp.Items)
	}
	if resp.Domain != models.DomainEvents {
		t.Errorf("domain = %q", resp.Domain)
	}
}

func TestRecommendations_Cache(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	alice := ts.token(t, "alice")

	_, first := ts.do(t, http.MethodGet, "/api/v1/recommendations/jobs?limit=2", alice, nil)
	if first.Metadata.Cached {
		t.Error("first response should not be cached")
	}
	_, second := ts.do(t, http.MethodGet, "/api/v1/recommendations/jobs?limit=2", alice, nil)
	if !second.Metadata.Cached {
		t.Error("second response should come from cache")
	}
	if !reflect.DeepEqual(decodeRecommendations(t, first).Items, decodeRecommendations(t, second).Items) {
		t.Error("cached items differ")
	}

	if n := ts.cache.InvalidateUser("alice"); n != 1 {
		t.Errorf("InvalidateUser() = %d, want 1", n)
	}
	_, third := ts.do(t, http.MethodGet, "/api/v1/recommendations/jobs?limit=2", alice, nil)
	if third.Metadata.Cached {
		t.Error("response after invalidation should not be cached")
	}
}

func TestRecommendations_UpstreamFailure(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, func(string) recommend.DataFetcher { return failingFetcher{} })
	rec, env := ts.do(t, http.MethodGet, "/api/v1/recommendations/sparks", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if env.Error == nil || env.Error.Code != ErrCodeUpstream {
		t.Errorf("error = %+v", env.Error)
	}
	if strings.Contains(rec.Body.String(), "store offline") {
		t.Error("internal error leaked to client")
	}
}

func TestRecommendations_CircuitOpen(t *testing.T) {
	t.Parallel()

	breaker := datafetch.NewBreaker(datafetch.BreakerSettings{Name: "api-open-test", Timeout: time.Hour}, zerolog.Nop())
	ts := newTestServer(t, func(string) recommend.DataFetcher { return breaker.Wrap(failingFetcher{}) })

	for i := 0; i < 10; i++ {
		ts.do(t, http.MethodGet, "/api/v1/recommendations/events", "", nil)
	}
	rec, env := ts.do(t, http.MethodGet, "/api/v1/recommendations/events", "", nil)
	if rec.Code != http.StatusServiceUnavailable || env.Error == nil || env.Error.Code != ErrCodeUpstream {
		t.Errorf("status = %d, error = %+v, want 503 while open", rec.Code, env.Error)
	}
}

func TestFeed(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/feed/jobs", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous status = %d, want 401 (%+v)", rec.Code, env.Error)
	}

	rec, env = ts.do(t, http.MethodGet, "/api/v1/feed/jobs", ts.token(t, "alice"), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var resp models.FeedResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !reflect.DeepEqual(resp.Items, []string{"job3", "job1"}) || !resp.GeneratedAt.Equal(ts.feed.at) {
		t.Errorf("feed = %+v", resp)
	}
	if ts.feed.lastUser != "alice" {
		t.Errorf("feed read for %q, want alice", ts.feed.lastUser)
	}

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/feed/podcasts", ts.token(t, "alice"), nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown domain status = %d, want 400", rec.Code)
	}
}

func TestFeed_NotGenerated(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	ts.feed.err = feed.ErrNoFeed

	rec, env := ts.do(t, http.MethodGet, "/api/v1/feed/events", ts.token(t, "alice"), nil)
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestInteractions(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	alice := ts.token(t, "alice")

	rec, env := ts.do(t, http.MethodPost, "/api/v1/interactions", alice,
		[]byte(`{"item_id":"job2","domain":"jobs","kind":"applied"}`))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	var accepted InteractionAccepted
	if err := json.Unmarshal(env.Data, &accepted); err != nil || accepted.MessageID != "msg-1" {
		t.Errorf("accepted = %+v, %v", accepted, err)
	}
	if len(ts.publisher.got) != 1 || ts.publisher.got[0].UserID != "alice" || ts.publisher.got[0].ItemID != "job2" {
		t.Errorf("published = %+v", ts.publisher.got)
	}

	tests := []struct {
		name       string
		token      string
		body       string
		wantStatus int
		wantCode   string
	}{
		{"anonymous", "", `{"item_id":"job2","domain":"jobs","kind":"applied"}`, http.StatusUnauthorized, "AUTHENTICATION_ERROR"},
		{"malformed", alice, `{"item_id":`, http.StatusBadRequest, ErrCodeValidation},
		{"unknown field", alice, `{"item_id":"x","domain":"jobs","kind":"seen","user_id":"bob"}`, http.StatusBadRequest, ErrCodeValidation},
		{"bad domain", alice, `{"item_id":"x","domain":"podcasts","kind":"seen"}`, http.StatusBadRequest, ErrCodeValidation},
		{"bad kind", alice, `{"item_id":"x","domain":"jobs","kind":"clicked"}`, http.StatusBadRequest, ErrCodeValidation},
		{"missing item", alice, `{"domain":"jobs","kind":"seen"}`, http.StatusBadRequest, ErrCodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := ts.do(t, http.MethodPost, "/api/v1/interactions", tt.token, []byte(tt.body))
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestInteractions_PublishFailure(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	ts.publisher.err = errors.New("nats down")

	rec, env := ts.do(t, http.MethodPost, "/api/v1/interactions", ts.token(t, "alice"),
		[]byte(`{"item_id":"job2","domain":"jobs","kind":"applied"}`))
	if rec.Code != http.StatusServiceUnavailable || env.Error == nil || env.Error.Code != ErrCodeUpstream {
		t.Errorf("status = %d, error = %+v", rec.Code, env.Error)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)
	rec, env := ts.do(t, http.MethodGet, "/api/v1/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var status models.HealthStatus
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if status.Status != "healthy" || status.Components["store"] != "healthy" || status.Version != "test" {
		t.Errorf("health = %+v", status)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID")
	}

	rec, _ = ts.do(t, http.MethodGet, "/api/v1/health/live", "", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("live status = %d", rec.Code)
	}
}

func TestHealth_Degraded(t *testing.T) {
	t.Parallel()

	h, err := NewHandler(Deps{
		Fetchers: func(string) recommend.DataFetcher { return failingFetcher{} },
		Health: map[string]HealthCheck{
			"feed":  func(context.Context) error { return errors.New("duckdb closed") },
			"store": func(context.Context) error { return nil },
		},
		Logger: zerolog.Nop(),
	})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "degraded") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestRouter_NotFoundAndMetrics(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, nil)

	rec, env := ts.do(t, http.MethodGet, "/api/v1/nope", "", nil)
	if rec.Code != http.StatusNotFound || env.Error == nil || env.Error.Code != ErrCodeNotFound {
		t.Errorf("status = %d, error = %+v", rec.Code, env.Error)
	}

	// Generate at least one recorded request first.
	ts.do(t, http.MethodGet, "/api/v1/recommendations/events", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	mrec := httptest.NewRecorder()
	ts.handler.ServeHTTP(mrec, req)
	if mrec.Code != http.StatusOK || !strings.Contains(mrec.Body.String(), "streamrank_http_requests_total") {
		t.Errorf("metrics status = %d", mrec.Code)
	}
}

func TestNewHandler_Validation(t *testing.T) {
	t.Parallel()

	if _, err := NewHandler(Deps{}); err == nil {
		t.Error("expected error without fetcher factory")
	}

	h, err := NewHandler(Deps{
		Fetchers:     func(string) recommend.DataFetcher { return failingFetcher{} },
		DefaultLimit: 50,
		MaxLimit:     20,
	})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	if h.defaultLimit != 20 {
		t.Errorf("defaultLimit = %d, want clamped to 20", h.defaultLimit)
	}
}
