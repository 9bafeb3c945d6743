// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/streamrank/internal/recommend"
)

// DefaultConfigPaths lists the paths searched for a config file, in order.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/streamrank/config.yaml",
	"/etc/streamrank/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns the built-in defaults. They are applied first and
// then overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3857,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			JWTSecret:       "",
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Store: StoreConfig{
			Path: "/data/store",
		},
		Feed: FeedConfig{
			Path:                "/data/feed.duckdb",
			Retention:           30 * 24 * time.Hour,
			MaintenanceInterval: 5 * time.Minute,
		},
		NATS: NATSConfig{
			Enabled:                    false,
			Embedded:                   false,
			EmbeddedPort:               4222,
			EmbeddedStoreDir:           "/data/nats/jetstream",
			URL:                        "nats://127.0.0.1:4222",
			Topic:                      "interactions",
			QueueGroup:                 "streamrank-ingest",
			SubscribersCount:           2,
			RouterRetryCount:           3,
			RouterRetryInitialInterval: 100 * time.Millisecond,
			RouterCloseTimeout:         30 * time.Second,
		},
		Recommend: DefaultRecommend(),
		Digest: DigestConfig{
			Enabled:       false,
			Schedule:      "0 3 * * *",
			Timezone:      "UTC",
			Limit:         10,
			Workers:       4,
			RatePerSecond: 50,
			Burst:         10,
			Timeout:       30 * time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// DefaultRecommend returns the ranking defaults, mirroring
// recommend.DefaultConfig plus the serving limits.
func DefaultRecommend() RecommendConfig {
	def := recommend.DefaultConfig()
	return RecommendConfig{
		SeenPenalty:        def.Weights.SeenPenalty,
		TrialPlanBoost:     def.Weights.TrialPlanBoost,
		FollowedGroupBoost: def.Weights.FollowedGroupBoost,
		StrategyTimeout:    def.Limits.StrategyTimeout,
		HistoryWindow:      def.Limits.HistoryWindow,
		DefaultLimit:       10,
		MaxLimit:           30,
		CacheTTL:           time.Minute,
		CacheSize:          10000,
		BreakerTimeout:     30 * time.Second,
	}
}

// LoadWithKoanf loads configuration from three layers, later ones winning:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns CONFIG_PATH when it exists, else the first existing
// default path, else "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated env values into slices for
// the known slice fields. Values that are already slices (from YAML) are
// left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Security
	"jwt_secret":          "security.jwt_secret",
	"jwt_issuer":          "security.jwt_issuer",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Store and feed
	"store_path":           "store.path",
	"store_in_memory":      "store.in_memory",
	"store_seed_path":      "store.seed_path",
	"feed_db_path":         "feed.path",
	"feed_retention":       "feed.retention",
	"maintenance_interval": "feed.maintenance_interval",

	// NATS ingest
	"nats_enabled":               "nats.enabled",
	"nats_embedded":              "nats.embedded",
	"nats_embedded_port":         "nats.embedded_port",
	"nats_embedded_store_dir":    "nats.embedded_store_dir",
	"nats_url":                   "nats.url",
	"nats_topic":                 "nats.topic",
	"nats_queue_group":           "nats.queue_group",
	"nats_subscribers":           "nats.subscribers_count",
	"nats_router_retry_count":    "nats.router_retry_count",
	"nats_router_retry_interval": "nats.router_retry_initial_interval",
	"nats_router_close_timeout":  "nats.router_close_timeout",

	// Ranking
	"recommend_seen_penalty":         "recommend.seen_penalty",
	"recommend_trial_plan_boost":     "recommend.trial_plan_boost",
	"recommend_followed_group_boost": "recommend.followed_group_boost",
	"recommend_strategy_timeout":     "recommend.strategy_timeout",
	"recommend_history_window":       "recommend.history_window",
	"recommend_default_limit":        "recommend.default_limit",
	"recommend_max_limit":            "recommend.max_limit",
	"recommend_cache_ttl":            "recommend.cache_ttl",
	"recommend_cache_size":           "recommend.cache_size",
	"recommend_breaker_timeout":      "recommend.breaker_timeout",

	// Digest
	"digest_enabled":  "digest.enabled",
	"digest_schedule": "digest.schedule",
	"digest_timezone": "digest.timezone",
	"digest_limit":    "digest.limit",
	"digest_workers":  "digest.workers",
	"digest_rate":     "digest.rate_per_second",
	"digest_burst":    "digest.burst",
	"digest_timeout":  "digest.timeout",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped variables return "" and are skipped so unrelated environment
// does not leak into the config.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DIGEST_SCHEDULE -> digest.schedule
//   - RECOMMEND_MAX_LIMIT -> recommend.max_limit
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
