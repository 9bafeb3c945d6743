// Streamrank - Livestream, Spark and Job Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/streamrank

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string // empty means valid
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "HTTP_PORT",
		},
		{
			name:    "unknown environment",
			mutate:  func(c *Config) { c.Server.Environment = "qa" },
			wantErr: "ENVIRONMENT",
		},
		{
			name:    "short jwt secret",
			mutate:  func(c *Config) { c.Security.JWTSecret = "short" },
			wantErr: "JWT_SECRET",
		},
		{
			name: "production requires secret",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Security.CORSOrigins = []string{"https://app.example.com"}
			},
			wantErr: "JWT_SECRET is required",
		},
		{
			name: "production rejects wildcard cors",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Security.JWTSecret = strings.Repeat("s", 32)
			},
			wantErr: "CORS_ORIGINS",
		},
		{
			name: "valid production",
			mutate: func(c *Config) {
				c.Server.Environment = "production"
				c.Security.JWTSecret = strings.Repeat("s", 32)
				c.Security.CORSOrigins = []string{"https://app.example.com"}
			},
		},
		{
			name:    "cors origin with path",
			mutate:  func(c *Config) { c.Security.CORSOrigins = []string{"https://app.example.com/x"} },
			wantErr: "CORS_ORIGINS",
		},
		{
			name:    "rate limit disabled skips checks",
			mutate:  func(c *Config) { c.Security.RateLimitDisabled = true; c.Security.RateLimitReqs = 0 },
			wantErr: "",
		},
		{
			name:    "store path required",
			mutate:  func(c *Config) { c.Store.Path = "" },
			wantErr: "STORE_PATH",
		},
		{
			name:   "in-memory store needs no path",
			mutate: func(c *Config) { c.Store.Path = ""; c.Store.InMemory = true },
		},
		{
			name:    "nats url scheme",
			mutate:  func(c *Config) { c.NATS.Enabled = true; c.NATS.URL = "http://localhost:4222" },
			wantErr: "NATS_URL",
		},
		{
			name:    "nats topic with subject token",
			mutate:  func(c *Config) { c.NATS.Enabled = true; c.NATS.Topic = "interactions.v1" },
			wantErr: "NATS_TOPIC",
		},
		{
			name:   "embedded nats ignores url",
			mutate: func(c *Config) { c.NATS.Enabled = true; c.NATS.Embedded = true; c.NATS.URL = "" },
		},
		{
			name:    "negative feed retention",
			mutate:  func(c *Config) { c.Feed.Retention = -time.Hour },
			wantErr: "FEED_RETENTION",
		},
		{
			name:    "default limit above max",
			mutate:  func(c *Config) { c.Recommend.DefaultLimit = 31 },
			wantErr: "RECOMMEND_DEFAULT_LIMIT",
		},
		{
			name:    "engine validation surfaces",
			mutate:  func(c *Config) { c.Recommend.HistoryWindow = 0 },
			wantErr: "history_window",
		},
		{
			name:    "bad cron expression",
			mutate:  func(c *Config) { c.Digest.Enabled = true; c.Digest.Schedule = "every day" },
			wantErr: "DIGEST_SCHEDULE",
		},
		{
			name:    "bad timezone",
			mutate:  func(c *Config) { c.Digest.Enabled = true; c.Digest.Timezone = "Mars/Olympus" },
			wantErr: "DIGEST_TIMEZONE",
		},
		{
			name:   "disabled digest is not validated",
			mutate: func(c *Config) { c.Digest.Schedule = "" },
		},
		{
			name:    "log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			wantErr: "LOG_FORMAT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestServerConfig_Addr(t *testing.T) {
	t.Parallel()

	s := ServerConfig{Host: "127.0.0.1", Port: 8080}
	if got := s.Addr(); got != "127.0.0.1:8080" {
		t.Errorf("Addr() = %q", got)
	}
}

func TestDigestConfig_Location(t *testing.T) {
	t.Parallel()

	loc, err := DigestConfig{}.Location()
	if err != nil || loc != time.UTC {
		t.Errorf("empty timezone = (%v, %v), want UTC", loc, err)
	}
	if _, err := (DigestConfig{Timezone: "Nowhere/Land"}).Location(); err == nil {
		t.Error("expected error for unknown timezone")
	}
}
