// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

/*
Package config handles application-wide settings.

Two sources feed the [Config] struct:

  - OS environment variables (parsed with 'caarlos0/env') for the process
    surface: where the config file lives, the admin port, debug logging.
  - A JSON settings file shared with the scraper fleet, carrying the
    database endpoint and the ingestion/retry tuning keys.

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, server, engine) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/gwngames/persister/internal/platform/constants"
	"github.com/gwngames/persister/internal/platform/validate"
	"github.com/gwngames/persister/internal/store"
)

// # Configuration Schema

// Env is the environment-variable surface of the process.
type Env struct {
	// ConfigPath locates the shared JSON settings file.
	ConfigPath string `env:"CONFIG_PATH" envDefault:"config.json"`

	// AdminAddr is the bind address of the ops health server.
	AdminAddr string `env:"ADMIN_ADDR" envDefault:":9090"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	Debug bool `env:"DEBUG" envDefault:"false"`
}

// File is the JSON settings document shared with the scraper fleet.
type File struct {
	// Relational database endpoint.
	DBURL      string `json:"db_url"`
	DBPort     int    `json:"db_port"`
	DBName     string `json:"db_name"`
	DBUser     string `json:"db_user"`
	DBPassword string `json:"db_password"`

	// Ingestion server.
	Host                      string `json:"host"`
	Port                      int    `json:"port"`
	MaxConnections            int    `json:"max_connections"`
	MaxUnactiveConnectionSecs int    `json:"max_unactive_connection_seconds"`
	UnactiveConnListenSecs    int    `json:"unactive_conn_listen_seconds"`

	// Dispatch retry policy.
	MaxRetries int     `json:"max_retries"`
	DelaySecs  float64 `json:"delay_secs"`

	// Optional extras.
	RedisURL       string            `json:"redis_url"`
	DeadLetterPath string            `json:"dead_letter_path"`
	Similarity     *store.Similarity `json:"similarity"`
}

// Config is the merged runtime configuration.
type Config struct {
	Env
	File
}

// # Configuration Loading

// Load parses the environment surface, then reads and validates the JSON
// settings file it points at.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := env.Parse(&cfg.Env); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	raw, err := os.ReadFile(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", cfg.ConfigPath, err)
	}
	if err := json.Unmarshal(raw, &cfg.File); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", cfg.ConfigPath, err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Host == "" {
		c.Host = "0.0.0.0"
	}
	if c.Port == 0 {
		c.Port = 5151
	}
	if c.DeadLetterPath == "" {
		c.DeadLetterPath = constants.DefaultDeadLetterPath
	}
}

// Validate checks the required settings-file keys.
func (c *Config) Validate() error {
	v := &validate.Validator{}

	v.Required("db_url", c.DBURL).
		Required("db_name", c.DBName).
		Required("db_user", c.DBUser).
		Custom("db_port", c.DBPort <= 0, "Must be a positive port number").
		Custom("max_connections", c.MaxConnections <= 0, "Must be positive").
		Custom("max_unactive_connection_seconds", c.MaxUnactiveConnectionSecs <= 0, "Must be positive").
		Custom("unactive_conn_listen_seconds", c.UnactiveConnListenSecs <= 0, "Must be positive").
		Custom("max_retries", c.MaxRetries <= 0, "Must be positive").
		Custom("delay_secs", c.DelaySecs < 0, "Must not be negative")

	return v.Err()
}

// # Derived Values

// DatabaseURL assembles the postgres:// DSN from the settings-file parts.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s",
		c.DBUser, c.DBPassword, c.DBURL, c.DBPort, c.DBName)
}

// IdleTimeout is the reaper's idle-connection threshold.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.MaxUnactiveConnectionSecs) * time.Second
}

// ReaperInterval is the reaper tick.
func (c *Config) ReaperInterval() time.Duration {
	return time.Duration(c.UnactiveConnListenSecs) * time.Second
}

// RetryDelay is the base back-off between dispatch attempts.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.DelaySecs * float64(time.Second))
}

// SimilarityThresholds returns the configured thresholds, falling back to
// the canonical defaults.
func (c *Config) SimilarityThresholds() store.Similarity {
	if c.Similarity == nil {
		return store.DefaultSimilarity()
	}
	return *c.Similarity
}
