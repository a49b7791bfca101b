// Dobrohub - Volunteer Project Coordination Backend
// Copyright 2026 Dobrohub Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/dobrohub/dobrohub

// Package config loads Dobrohub configuration with Koanf v2 from layered
// sources, highest priority last:
//
//  1. Built-in defaults (structs provider)
//  2. Optional YAML config file (file provider)
//  3. Environment variables with the DOBROHUB_ prefix (env provider)
//
// DOBROHUB_DATA_CACHE_TTL=45s maps to data.cache_ttl, and so on.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/dobrohub/config.yaml",
	"/etc/dobrohub/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "DOBROHUB_CONFIG_PATH"

// envPrefix is stripped from environment variables before mapping them to
// koanf paths.
const envPrefix = "DOBROHUB_"

// Config is the root configuration for the server.
type Config struct {
	Data      DataConfig      `koanf:"data"`
	Engine    EngineConfig    `koanf:"engine"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Notify    NotifyConfig    `koanf:"notify"`
	Ops       OpsConfig       `koanf:"ops"`
	Log       LogConfig       `koanf:"log"`
}

// DataConfig controls the durable store and its cached reader.
type DataConfig struct {
	// Dir holds the two backing JSON documents.
	Dir string `koanf:"dir" validate:"required"`

	// UsersFile and ProjectsFile are file names relative to Dir.
	UsersFile    string `koanf:"users_file" validate:"required"`
	ProjectsFile string `koanf:"projects_file" validate:"required"`

	// CacheTTL is the staleness ceiling for cached collection snapshots.
	CacheTTL time.Duration `koanf:"cache_ttl" validate:"gt=0"`
}

// EngineConfig controls membership engine behavior.
type EngineConfig struct {
	// LockTimeout bounds how long a mutation waits for its collection lock
	// before failing as retryable.
	LockTimeout time.Duration `koanf:"lock_timeout" validate:"gt=0"`

	// HiddenPrefix marks project names excluded from normal listings.
	// The default is a zero-width space, matching the legacy data.
	HiddenPrefix string `koanf:"hidden_prefix"`

	// LeaderboardSize is the default number of entries rendered for the
	// leaderboard view.
	LeaderboardSize int `koanf:"leaderboard_size" validate:"gt=0"`
}

// SchedulerConfig controls the lifecycle scheduler cadences.
type SchedulerConfig struct {
	// CompletionInterval is the cadence of the due-date scan that moves
	// active projects to completing.
	CompletionInterval time.Duration `koanf:"completion_interval" validate:"gt=0"`

	// ReviewInterval is the cadence of the scan that surfaces completing
	// projects to moderators.
	ReviewInterval time.Duration `koanf:"review_interval" validate:"gt=0"`
}

// NotifyConfig names the moderator notification topics.
type NotifyConfig struct {
	JoinRequestTopic string `koanf:"topic_join_requests" validate:"required"`
	ReviewTopic      string `koanf:"topic_project_review" validate:"required"`
	EnrollmentTopic  string `koanf:"topic_enrollment" validate:"required"`
}

// OpsConfig controls the operational HTTP surface.
type OpsConfig struct {
	Addr string `koanf:"addr" validate:"required"`

	// RequestsPerMinute rate-limits the ops endpoints per client IP.
	RequestsPerMinute int `koanf:"requests_per_minute" validate:"gt=0"`
}

// LogConfig controls logging output.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// defaultConfig returns the built-in defaults, applied before file and
// environment layers.
func defaultConfig() *Config {
	return &Config{
		Data: DataConfig{
			Dir:          "data",
			UsersFile:    "users.json",
			ProjectsFile: "projects.json",
			CacheTTL:     30 * time.Second,
		},
		Engine: EngineConfig{
			LockTimeout:     3 * time.Second,
			HiddenPrefix:    "​",
			LeaderboardSize: 10,
		},
		Scheduler: SchedulerConfig{
			CompletionInterval: time.Hour,
			ReviewInterval:     time.Hour,
		},
		Notify: NotifyConfig{
			JoinRequestTopic: "moderation.join_requests",
			ReviewTopic:      "moderation.project_review",
			EnrollmentTopic:  "moderation.enrollment",
		},
		Ops: OpsConfig{
			Addr:              ":8314",
			RequestsPerMinute: 120,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, an optional YAML file and
// environment variables, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", envTransform)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	return validator.New().Struct(c)
}

// UsersPath returns the absolute-ish path of the users document.
func (c *Config) UsersPath() string {
	return filepath.Join(c.Data.Dir, c.Data.UsersFile)
}

// ProjectsPath returns the path of the projects document.
func (c *Config) ProjectsPath() string {
	return filepath.Join(c.Data.Dir, c.Data.ProjectsFile)
}

// envTransform maps DOBROHUB_SECTION_SOME_KEY to "section.some_key".
// Only the first underscore becomes a section separator; the rest stay in
// the key name (cache_ttl, lock_timeout, ...).
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(s, "_", 2)
	if len(parts) == 1 {
		return parts[0]
	}
	return parts[0] + "." + parts[1]
}

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
