// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tomtom215/streamrank/internal/recommend"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Store     StoreConfig     `koanf:"store"`
	Feed      FeedConfig      `koanf:"feed"`
	NATS      NATSConfig      `koanf:"nats"`
	Recommend RecommendConfig `koanf:"recommend"`
	Digest    DigestConfig    `koanf:"digest"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // development, staging, production
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SecurityConfig holds authentication and request-limiting settings.
type SecurityConfig struct {
	// JWTSecret verifies HS256 bearer tokens. Empty disables authentication:
	// every caller is anonymous.
	JWTSecret string `koanf:"jwt_secret"`

	// JWTIssuer, when set, must match the token's iss claim.
	JWTIssuer string `koanf:"jwt_issuer"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// AuthEnabled reports whether bearer tokens are verified.
func (s SecurityConfig) AuthEnabled() bool {
	return s.JWTSecret != ""
}

// StoreConfig holds the Badger document store location.
type StoreConfig struct {
	// Path is the Badger directory.
	Path string `koanf:"path"`

	// InMemory runs Badger without persistence. Intended for demos and tests.
	InMemory bool `koanf:"in_memory"`

	// SeedPath optionally names a JSON or YAML bundle imported on startup
	// when the store is empty.
	SeedPath string `koanf:"seed_path"`
}

// FeedConfig holds the DuckDB feed database location.
type FeedConfig struct {
	// Path is the DuckDB file. ":memory:" keeps feeds in memory.
	Path string `koanf:"path"`

	// Retention is how long digest runs are kept. Zero keeps them forever.
	Retention time.Duration `koanf:"retention"`

	// MaintenanceInterval is how often expired cache entries and old feed
	// runs are swept.
	MaintenanceInterval time.Duration `koanf:"maintenance_interval"`
}

// NATSConfig holds interaction ingest settings.
type NATSConfig struct {
	// Enabled connects the ingest router to NATS. When false an in-process
	// channel transport is used and interactions do not survive a restart.
	Enabled bool `koanf:"enabled"`

	// Embedded starts an in-process NATS server with JetStream and
	// connects to it instead of URL.
	Embedded         bool   `koanf:"embedded"`
	EmbeddedPort     int    `koanf:"embedded_port"`
	EmbeddedStoreDir string `koanf:"embedded_store_dir"`

	URL        string `koanf:"url"`
	Topic      string `koanf:"topic"`
	QueueGroup string `koanf:"queue_group"`

	SubscribersCount int `koanf:"subscribers_count"`

	RouterRetryCount           int           `koanf:"router_retry_count"`
	RouterRetryInitialInterval time.Duration `koanf:"router_retry_initial_interval"`
	RouterCloseTimeout         time.Duration `koanf:"router_close_timeout"`
}

// RecommendConfig holds ranking and serving settings.
type RecommendConfig struct {
	SeenPenalty        float64 `koanf:"seen_penalty"`
	TrialPlanBoost     float64 `koanf:"trial_plan_boost"`
	FollowedGroupBoost float64 `koanf:"followed_group_boost"`

	StrategyTimeout time.Duration `koanf:"strategy_timeout"`
	HistoryWindow   int           `koanf:"history_window"`

	// DefaultLimit applies when a request has no limit parameter.
	DefaultLimit int `koanf:"default_limit"`

	// MaxLimit clamps the limit parameter.
	MaxLimit int `koanf:"max_limit"`

	CacheTTL  time.Duration `koanf:"cache_ttl"`
	CacheSize int           `koanf:"cache_size"`

	// BreakerTimeout is how long the fetcher circuit breaker stays open.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// Engine builds the ranking configuration. Freshness buckets keep their
// built-in defaults.
func (r RecommendConfig) Engine() *recommend.Config {
	cfg := recommend.DefaultConfig()
	cfg.Weights.SeenPenalty = r.SeenPenalty
	cfg.Weights.TrialPlanBoost = r.TrialPlanBoost
	cfg.Weights.FollowedGroupBoost = r.FollowedGroupBoost
	cfg.Limits.StrategyTimeout = r.StrategyTimeout
	cfg.Limits.HistoryWindow = r.HistoryWindow
	return cfg
}

// DigestConfig holds the batch digest settings.
type DigestConfig struct {
	Enabled bool `koanf:"enabled"`

	// Schedule is a standard five-field cron expression.
	Schedule string `koanf:"schedule"`

	// Timezone is an IANA location name used to evaluate Schedule and the
	// once-per-day guard.
	Timezone string `koanf:"timezone"`

	// Limit is the number of items written per user and domain.
	Limit int `koanf:"limit"`

	Workers       int           `koanf:"workers"`
	RatePerSecond float64       `koanf:"rate_per_second"`
	Burst         int           `koanf:"burst"`
	Timeout       time.Duration `koanf:"timeout"`
}

// Location resolves Timezone.
func (d DigestConfig) Location() (*time.Location, error) {
	if d.Timezone == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(d.Timezone)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateStorage(); err != nil {
		return err
	}
	if err := c.validateNATS(); err != nil {
		return err
	}
	if err := c.validateRecommend(); err != nil {
		return err
	}
	if err := c.validateDigest(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %v", c.Server.Timeout)
	}
	switch c.Server.Environment {
	case "development", "staging", "production":
	default:
		return fmt.Errorf("ENVIRONMENT must be development, staging or production, got %q", c.Server.Environment)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	s := c.Security
	if s.JWTSecret != "" && len(s.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.Server.Environment == "production" && s.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if !s.RateLimitDisabled {
		if s.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQUESTS must be positive, got %d", s.RateLimitReqs)
		}
		if s.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %v", s.RateLimitWindow)
		}
	}
	for _, origin := range s.CORSOrigins {
		if origin == "*" {
			if c.Server.Environment == "production" {
				return fmt.Errorf("CORS_ORIGINS must not contain * in production")
			}
			continue
		}
		if err := validateHTTPURL(origin, "CORS_ORIGINS"); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateStorage() error {
	if !c.Store.InMemory && c.Store.Path == "" {
		return fmt.Errorf("STORE_PATH is required unless STORE_IN_MEMORY=true")
	}
	if c.Feed.Path == "" {
		return fmt.Errorf("FEED_DB_PATH is required")
	}
	if c.Feed.Retention < 0 {
		return fmt.Errorf("FEED_RETENTION must not be negative, got %v", c.Feed.Retention)
	}
	return nil
}

func (c *Config) validateNATS() error {
	if c.NATS.Topic == "" {
		return fmt.Errorf("NATS_TOPIC is required")
	}
	if !c.NATS.Enabled {
		return nil
	}
	// The topic doubles as the JetStream stream name.
	if strings.ContainsAny(c.NATS.Topic, ".*> \t") {
		return fmt.Errorf("NATS_TOPIC must not contain '.', '*', '>' or whitespace, got %q", c.NATS.Topic)
	}
	if c.NATS.Embedded {
		if c.NATS.EmbeddedPort < -1 || c.NATS.EmbeddedPort > 65535 {
			return fmt.Errorf("NATS_EMBEDDED_PORT must be between -1 and 65535, got %d", c.NATS.EmbeddedPort)
		}
	} else if !strings.HasPrefix(c.NATS.URL, "nats://") && !strings.HasPrefix(c.NATS.URL, "tls://") {
		return fmt.Errorf("NATS_URL must start with nats:// or tls://, got %q", c.NATS.URL)
	}
	if c.NATS.SubscribersCount < 1 {
		return fmt.Errorf("NATS_SUBSCRIBERS must be positive, got %d", c.NATS.SubscribersCount)
	}
	if c.NATS.RouterRetryCount < 0 {
		return fmt.Errorf("NATS_ROUTER_RETRY_COUNT must be non-negative, got %d", c.NATS.RouterRetryCount)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	r := c.Recommend
	if err := r.Engine().Validate(); err != nil {
		return fmt.Errorf("recommend: %w", err)
	}
	if r.MaxLimit < 1 {
		return fmt.Errorf("RECOMMEND_MAX_LIMIT must be positive, got %d", r.MaxLimit)
	}
	if r.DefaultLimit < 1 || r.DefaultLimit > r.MaxLimit {
		return fmt.Errorf("RECOMMEND_DEFAULT_LIMIT must be between 1 and %d, got %d", r.MaxLimit, r.DefaultLimit)
	}
	if r.CacheSize < 0 {
		return fmt.Errorf("RECOMMEND_CACHE_SIZE must be non-negative, got %d", r.CacheSize)
	}
	if r.BreakerTimeout <= 0 {
		return fmt.Errorf("RECOMMEND_BREAKER_TIMEOUT must be positive, got %v", r.BreakerTimeout)
	}
	return nil
}

func (c *Config) validateDigest() error {
	d := c.Digest
	if !d.Enabled {
		return nil
	}
	if _, err := cron.ParseStandard(d.Schedule); err != nil {
		return fmt.Errorf("DIGEST_SCHEDULE is invalid: %w", err)
	}
	if _, err := d.Location(); err != nil {
		return fmt.Errorf("DIGEST_TIMEZONE is invalid: %w", err)
	}
	if d.Limit < 1 {
		return fmt.Errorf("DIGEST_LIMIT must be positive, got %d", d.Limit)
	}
	if d.Workers < 1 {
		return fmt.Errorf("DIGEST_WORKERS must be positive, got %d", d.Workers)
	}
	if d.RatePerSecond <= 0 {
		return fmt.Errorf("DIGEST_RATE must be positive, got %f", d.RatePerSecond)
	}
	if d.Burst < 1 {
		return fmt.Errorf("DIGEST_BURST must be positive, got %d", d.Burst)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL is invalid: %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL checks that rawURL is an http(s) origin without a path.
func validateHTTPURL(rawURL, fieldName string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %s", fieldName, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsed.Path != "" && parsed.Path != "/" {
		return fmt.Errorf("%s should be an origin only, remove path: %s", fieldName, parsed.Path)
	}
	return nil
}
