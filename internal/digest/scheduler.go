// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package digest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Job is what the scheduler triggers.
type Job interface {
	Run(ctx context.Context) (*Report, error)
}

// Scheduler triggers a Job on a cron schedule.
type Scheduler struct {
	cron   *cron.Cron
	spec   string
	loc    *time.Location
	job    Job
	logger zerolog.Logger

	mu      sync.Mutex
	ctx     context.Context
	entryID cron.EntryID
}

// NewScheduler parses spec (standard five fields) and prepares a scheduler
// evaluated in loc.
func NewScheduler(spec string, loc *time.Location, job Job, logger zerolog.Logger) (*Scheduler, error) {
	if loc == nil {
		loc = time.UTC
	}
	s := &Scheduler{
		spec:   spec,
		loc:    loc,
		job:    job,
		logger: logger.With().Str("component", "digest-scheduler").Logger(),
		ctx:    context.Background(),
	}

	cl := cronLogger{logger: s.logger}
	s.cron = cron.New(
		cron.WithLocation(loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	id, err := s.cron.AddFunc(spec, s.trigger)
	if err != nil {
		return nil, fmt.Errorf("adding cron entry %q: %w", spec, err)
	}
	s.entryID = id
	return s, nil
}

func (s *Scheduler) trigger() {
	s.mu.Lock()
	ctx := s.ctx
	s.mu.Unlock()

	if _, err := s.job.Run(ctx); err != nil {
		s.logger.Error().Err(err).Msg("scheduled digest failed")
	}
}

// Next returns the next scheduled trigger, or the zero time when the
// scheduler is not running.
func (s *Scheduler) Next() time.Time {
	return s.cron.Entry(s.entryID).Next
}

// Run starts the cron loop and blocks until ctx is done. Triggered jobs
// receive ctx, and Run waits for a running job before returning.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	s.cron.Start()
	s.logger.Info().
		Str("schedule", s.spec).
		Str("timezone", s.loc.String()).
		Time("next", s.Next()).
		Msg("digest scheduler started")

	<-ctx.Done()

	<-s.cron.Stop().Done()
	s.logger.Info().Msg("digest scheduler stopped")
	return ctx.Err()
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
