// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

/*
Package cache provides a thread-safe LRU cache with TTL support and the
recommendation result cache built on it.

# LRU

LRU is a generic least-recently-used cache. It keeps a doubly-linked list for
ordering and a map for lookups, so Get, Add and Remove are O(1). Entries
expire lazily on Get; CleanupExpired sweeps them eagerly.

	c := cache.NewLRU[[]string](10000, time.Minute)
	c.Add("jobs|u1|10", ids)
	if ids, ok := c.Get("jobs|u1|10"); ok {
	    // serve from cache
	}

RemovePrefix drops every key sharing a prefix. It is O(n) and meant for
invalidation, not the hot path.

# Recommendations

Recommendations wraps an LRU of ranked ID lists keyed by user, domain and
limit. Keys start with the user ID so that a new interaction can invalidate
every cached list of that user in one call:

	u1|jobs|10
	u1|events|5
	|sparks|10      (anonymous)

Anonymous results are shared by every anonymous caller and are only dropped
by expiry.
*/
package cache
