// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package feed

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/rs/zerolog"

	"github.com/tomtom215/streamrank/internal/models"
)

// ErrNoFeed is returned by Latest when no run recorded a list for the user
// and domain.
var ErrNoFeed = errors.New("no feed")

// insertBatchSize bounds the rows per INSERT statement.
const insertBatchSize = 500

var schema = []string{
	`CREATE TABLE IF NOT EXISTS feed_entries (
		run_id       VARCHAR NOT NULL,
		user_id      VARCHAR NOT NULL,
		domain       VARCHAR NOT NULL,
		item_rank    INTEGER NOT NULL,
		item_id      VARCHAR NOT NULL,
		generated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (run_id, user_id, domain, item_rank)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_feed_entries_user ON feed_entries (user_id, domain, generated_at)`,
	// One row per list a run produced, empty lists included, so an empty
	// newer run supersedes older entries.
	`CREATE TABLE IF NOT EXISTS feed_lists (
		run_id       VARCHAR NOT NULL,
		user_id      VARCHAR NOT NULL,
		domain       VARCHAR NOT NULL,
		item_count   INTEGER NOT NULL,
		generated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (run_id, user_id, domain)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_feed_lists_user ON feed_lists (user_id, domain, generated_at)`,
}

// Entry is one user's list for one domain.
type Entry struct {
	UserID string
	Domain models.Domain
	IDs    []string
}

// Run is the output of one digest run.
type Run struct {
	ID          string
	GeneratedAt time.Time
	Entries     []Entry
}

// RunSummary describes a stored run.
type RunSummary struct {
	ID          string    `json:"id"`
	GeneratedAt time.Time `json:"generated_at"`
	Users       int       `json:"users"`
	Items       int       `json:"items"`
}

// Options configures Open.
type Options struct {
	// Path is the DuckDB file. Empty or ":memory:" opens an in-memory
	// database.
	Path   string
	Logger zerolog.Logger
}

// Feed is the DuckDB-backed feed store.
type Feed struct {
	conn   *sql.DB
	logger zerolog.Logger
}

// Open opens (creating if needed) the feed database and its schema.
func Open(opts Options) (*Feed, error) {
	path := opts.Path
	if path == "" {
		path = ":memory:"
	}
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create feed directory %s: %w", dir, err)
			}
		}
	}

	// Extensions are never needed; auto-install would hang without network.
	connStr := path + "?autoinstall_known_extensions=false&autoload_known_extensions=false"
	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open feed database: %w", err)
	}

	f := &Feed{
		conn:   conn,
		logger: opts.Logger.With().Str("component", "feed").Logger(),
	}
	for _, stmt := range schema {
		if _, err := conn.Exec(stmt); err != nil {
			_ = conn.Close()
			return nil, fmt.Errorf("failed to create feed schema: %w", err)
		}
	}
	f.logger.Info().Str("path", path).Msg("feed database opened")
	return f, nil
}

// Close closes the database.
func (f *Feed) Close() error {
	return f.conn.Close()
}

// Ping checks the database connection.
func (f *Feed) Ping(ctx context.Context) error {
	return f.conn.PingContext(ctx)
}

// Write stores every entry of run in one transaction. An entry with no IDs
// is recorded as an empty list.
func (f *Feed) Write(ctx context.Context, run *Run) (err error) {
	if run == nil || run.ID == "" {
		return fmt.Errorf("write feed: run id required")
	}
	generatedAt := run.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}
	generatedAt = generatedAt.UTC()

	tx, err := f.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin feed transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	lists := newBatch(tx, "feed_lists", "run_id", "user_id", "domain", "item_count", "generated_at")
	entries := newBatch(tx, "feed_entries", "run_id", "user_id", "domain", "item_rank", "item_id", "generated_at")

	rows := 0
	for _, e := range run.Entries {
		if err = lists.add(ctx, run.ID, e.UserID, string(e.Domain), len(e.IDs), generatedAt); err != nil {
			return err
		}
		for rank, id := range e.IDs {
			if err = entries.add(ctx, run.ID, e.UserID, string(e.Domain), rank, id, generatedAt); err != nil {
				return err
			}
			rows++
		}
	}
	if err = lists.flush(ctx); err != nil {
		return err
	}
	if err = entries.flush(ctx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit feed run: %w", err)
	}

	f.logger.Debug().
		Str("run_id", run.ID).
		Int("lists", len(run.Entries)).
		Int("rows", rows).
		Msg("feed run written")
	return nil
}

// batch accumulates multi-row INSERTs of up to insertBatchSize rows.
type batch struct {
	tx      *sql.Tx
	table   string
	columns []string
	builder sq.InsertBuilder
	pending int
}

func newBatch(tx *sql.Tx, table string, columns ...string) *batch {
	b := &batch{tx: tx, table: table, columns: columns}
	b.reset()
	return b
}

func (b *batch) reset() {
	b.builder = sq.Insert(b.table).Columns(b.columns...)
	b.pending = 0
}

func (b *batch) add(ctx context.Context, values ...interface{}) error {
	b.builder = b.builder.Values(values...)
	b.pending++
	if b.pending == insertBatchSize {
		return b.flush(ctx)
	}
	return nil
}

func (b *batch) flush(ctx context.Context) error {
	if b.pending == 0 {
		return nil
	}
	query, args, err := b.builder.ToSql()
	if err != nil {
		return fmt.Errorf("build %s insert: %w", b.table, err)
	}
	if _, err := b.tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert %s: %w", b.table, err)
	}
	b.reset()
	return nil
}

// Latest returns the list of the newest run that covered user and domain,
// and when it was generated. The list is empty, not nil, when that run
// produced nothing. It returns ErrNoFeed if no run covered them.
func (f *Feed) Latest(ctx context.Context, userID string, domain models.Domain) ([]string, time.Time, error) {
	where := sq.Eq{"user_id": userID, "domain": string(domain)}

	query, args, err := sq.Select("run_id", "item_count", "generated_at").
		From("feed_lists").
		Where(where).
		OrderBy("generated_at DESC", "run_id DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("build latest query: %w", err)
	}

	var (
		runID       string
		count       int
		generatedAt time.Time
	)
	err = f.conn.QueryRowContext(ctx, query, args...).Scan(&runID, &count, &generatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, ErrNoFeed
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("find latest run: %w", err)
	}
	if count == 0 {
		return []string{}, generatedAt, nil
	}

	query, args, err = sq.Select("item_id").
		From("feed_entries").
		Where(where).
		Where(sq.Eq{"run_id": runID}).
		OrderBy("item_rank").
		ToSql()
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("build feed query: %w", err)
	}

	rows, err := f.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("query feed: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0, count)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, time.Time{}, fmt.Errorf("scan feed row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, time.Time{}, fmt.Errorf("iterate feed rows: %w", err)
	}
	return ids, generatedAt, nil
}

// Runs lists the most recent runs, newest first.
func (f *Feed) Runs(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = 10
	}
	query, args, err := sq.Select(
		"run_id",
		"MAX(generated_at) AS generated_at",
		"COUNT(DISTINCT user_id) AS users",
		"CAST(SUM(item_count) AS BIGINT) AS items",
	).
		From("feed_lists").
		GroupBy("run_id").
		OrderBy("generated_at DESC", "run_id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build runs query: %w", err)
	}

	rows, err := f.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.GeneratedAt, &r.Users, &r.Items); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Prune deletes every list and entry generated before cutoff and returns
// the number of entries removed.
func (f *Feed) Prune(ctx context.Context, cutoff time.Time) (n int64, err error) {
	cutoff = cutoff.UTC()

	tx, err := f.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin prune transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"feed_entries", "feed_lists"} {
		query, args, qerr := sq.Delete(table).
			Where(sq.Lt{"generated_at": cutoff}).
			ToSql()
		if qerr != nil {
			return 0, fmt.Errorf("build prune query: %w", qerr)
		}
		res, qerr := tx.ExecContext(ctx, query, args...)
		if qerr != nil {
			return 0, fmt.Errorf("prune %s: %w", table, qerr)
		}
		if table == "feed_entries" {
			if n, err = res.RowsAffected(); err != nil {
				return 0, fmt.Errorf("prune feed: %w", err)
			}
		}
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit prune: %w", err)
	}

	if n > 0 {
		f.logger.Info().Int64("rows", n).Time("cutoff", cutoff).Msg("pruned feed entries")
	}
	return n, nil
}
