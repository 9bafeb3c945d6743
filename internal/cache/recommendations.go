// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package cache

import (
	"strconv"
	"time"

	"github.com/tomtom215/streamrank/internal/metrics"
	"github.com/tomtom215/streamrank/internal/models"
)

// Result is a cached recommendation list.
type Result struct {
	IDs          []string
	Personalized bool
}

// Recommendations caches ranked ID lists per user, domain and limit.
type Recommendations struct {
	lru *LRU[Result]
}

// NewRecommendations creates a result cache.
func NewRecommendations(capacity int, ttl time.Duration) *Recommendations {
	return &Recommendations{lru: NewLRU[Result](capacity, ttl)}
}

// Key builds the cache key for one request. userID is empty for anonymous
// callers.
func Key(userID string, domain models.Domain, limit int) string {
	return userID + "|" + string(domain) + "|" + strconv.Itoa(limit)
}

// Get returns a cached result and records the lookup.
func (r *Recommendations) Get(userID string, domain models.Domain, limit int) (Result, bool) {
	res, ok := r.lru.Get(Key(userID, domain, limit))
	metrics.RecordCacheLookup(ok)
	if !ok {
		return Result{}, false
	}
	ids := make([]string, len(res.IDs))
	copy(ids, res.IDs)
	return Result{IDs: ids, Personalized: res.Personalized}, true
}

// Put stores a result. The ID slice is copied.
func (r *Recommendations) Put(userID string, domain models.Domain, limit int, res Result) {
	ids := make([]string, len(res.IDs))
	copy(ids, res.IDs)
	r.lru.Add(Key(userID, domain, limit), Result{IDs: ids, Personalized: res.Personalized})
	r.reportSize()
}

// InvalidateUser drops every cached list of userID. Anonymous entries are
// never invalidated this way.
func (r *Recommendations) InvalidateUser(userID string) int {
	if userID == "" {
		return 0
	}
	n := r.lru.RemovePrefix(userID + "|")
	r.reportSize()
	return n
}

// CleanupExpired sweeps expired entries.
func (r *Recommendations) CleanupExpired() int {
	n := r.lru.CleanupExpired()
	r.reportSize()
	return n
}

func (r *Recommendations) reportSize() {
	metrics.RecommendationCacheSize.Set(float64(r.lru.Len()))
}

// Len returns the number of cached lists.
func (r *Recommendations) Len() int {
	return r.lru.Len()
}

// Stats returns hit and miss counts and the current size.
func (r *Recommendations) Stats() (hits, misses int64, size int) {
	return r.lru.Stats()
}
