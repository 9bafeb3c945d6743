// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

// Package recommend ranks livestream events, Spark videos and jobs for a user.
//
// # Architecture
//
// A ranking pass has two phases. Create* hydrates a service through a
// DataFetcher: the user, the candidate pools and the interaction history
// are fetched concurrently and then frozen. GetRecommendations is pure:
//
//  1. Every eligible item enters with zero points, in baseline order.
//  2. Independent strategies run concurrently (JoinAllTolerant). A failed,
//     slow or panicking strategy is logged and contributes nothing.
//  3. Results merge by ID with points summed; deductions subtract.
//  4. Items outside the eligible pool are dropped.
//  5. A stable sort orders by points; ties keep baseline order.
//  6. The list is truncated to the requested limit.
//
// # Strategies
//
//   - profile: the user's static attributes matched against the pool
//   - action: the most common attribute values among items the user
//     interacted with, scored through the immutable Builder
//   - seen-penalty: a fixed deduction for items already seen
//   - trial-plan: a fixed boost for groups on an active trial
//   - followed-groups: a fixed boost for groups the user follows
//   - freshness: recency buckets on start, publish or posting time
//
// Match strategies score by match count, so an item sharing three values
// with the query never ranks below one sharing a single value.
//
// # Anonymous callers
//
// Events and Sparks degrade to a non-personalized baseline when the fetcher
// has no user. Jobs return ErrUserNotFound.
//
// # Usage
//
//	svc, err := recommend.Create(ctx, models.DomainEvents, fetcher, recommend.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	ids, err := svc.GetRecommendations(ctx, 10)
package recommend
