// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

package config

import (
	"testing"
	"time"
)

func TestDefaultsAreValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default configuration must validate: %v", err)
	}
	if cfg.Data.CacheTTL != 30*time.Second {
		t.Errorf("CacheTTL = %v, want 30s", cfg.Data.CacheTTL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero cache ttl", func(c *Config) { c.Data.CacheTTL = 0 }},
		{"zero lock timeout", func(c *Config) { c.Engine.LockTimeout = 0 }},
		{"empty data dir", func(c *Config) { c.Data.Dir = "" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }},
		{"zero rate limit", func(c *Config) { c.Ops.RequestsPerMinute = 0 }},
		{"empty topic", func(c *Config) { c.Notify.ReviewTopic = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"DOBROHUB_DATA_CACHE_TTL", "data.cache_ttl"},
		{"DOBROHUB_ENGINE_LOCK_TIMEOUT", "engine.lock_timeout"},
		{"DOBROHUB_OPS_ADDR", "ops.addr"},
		{"DOBROHUB_LOG_LEVEL", "log.level"},
	}

	for _, tt := range tests {
		if got := envTransform(tt.input); got != tt.want {
			t.Errorf("envTransform(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestPathHelpers(t *testing.T) {
	cfg := defaultConfig()
	cfg.Data.Dir = "/var/lib/dobrohub"
	if got := cfg.UsersPath(); got != "/var/lib/dobrohub/users.json" {
		t.Errorf("UsersPath = %q", got)
	}
	if got := cfg.ProjectsPath(); got != "/var/lib/dobrohub/projects.json" {
		t.Errorf("ProjectsPath = %q", got)
	}
}
