// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package services

import (
	"context"
	"errors"
)

// Scheduler is satisfied by *digest.Scheduler.
type Scheduler interface {
	Run(ctx context.Context) error
}

// DigestSchedulerService runs the daily digest cron loop.
type DigestSchedulerService struct {
	scheduler Scheduler
	name      string
}

// NewDigestSchedulerService wraps scheduler.
func NewDigestSchedulerService(scheduler Scheduler) *DigestSchedulerService {
	return &DigestSchedulerService{scheduler: scheduler, name: "digest-scheduler"}
}

// Serve implements suture.Service.
func (s *DigestSchedulerService) Serve(ctx context.Context) error {
	err := s.scheduler.Run(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ctx.Err()
	}
	return err
}

// String implements fmt.Stringer for suture logs.
func (s *DigestSchedulerService) String() string {
	return s.name
}
