// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

// Package config provides layered configuration loading for Heliostat
// using Koanf v2: struct defaults, an optional YAML file, then
// environment variables (highest priority).
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the Heliostat server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	State    StateConfig    `koanf:"state"`
	Engine   EngineConfig   `koanf:"engine"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port" validate:"gte=1,lte=65535"`
	Timeout time.Duration `koanf:"timeout"`
}

// DatabaseConfig holds DuckDB result-store settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file. ":memory:" keeps results
	// in-process, which is only useful for tests.
	Path string `koanf:"path" validate:"required"`

	// MaxMemory caps DuckDB memory usage (e.g. "2GB").
	MaxMemory string `koanf:"max_memory"`

	// Threads is the DuckDB thread count; 0 uses runtime.NumCPU().
	Threads int `koanf:"threads"`
}

// StateConfig holds BadgerDB run-state store settings.
type StateConfig struct {
	// Path is the Badger directory for durable RunState records.
	Path string `koanf:"path" validate:"required"`
}

// EngineConfig holds radiation engine settings.
type EngineConfig struct {
	// Preset is the default precision preset label for runs that do
	// not specify one.
	Preset string `koanf:"preset" validate:"oneof=hourly daily-peak monthly-average yearly-average"`

	// Workers bounds the per-element worker pool; 0 uses runtime.NumCPU().
	Workers int `koanf:"workers" validate:"gte=0"`

	// HeartbeatInterval is how often a running batch persists its
	// heartbeat.
	HeartbeatInterval time.Duration `koanf:"heartbeat_interval"`

	// HeartbeatTimeout is the staleness threshold after which the
	// watchdog considers a run abandoned.
	HeartbeatTimeout time.Duration `koanf:"heartbeat_timeout"`

	// HardTimeout is the absolute run duration limit.
	HardTimeout time.Duration `koanf:"hard_timeout"`

	// WatchdogInterval is how often the watchdog scans run states.
	WatchdogInterval time.Duration `koanf:"watchdog_interval"`
}

// APIConfig holds API behavior settings.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size" validate:"gte=1"`
	MaxPageSize     int `koanf:"max_page_size" validate:"gte=1"`
}

// SecurityConfig holds CORS and rate-limit settings.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.Engine.HeartbeatTimeout <= c.Engine.HeartbeatInterval {
		return fmt.Errorf("engine.heartbeat_timeout (%s) must exceed engine.heartbeat_interval (%s)",
			c.Engine.HeartbeatTimeout, c.Engine.HeartbeatInterval)
	}
	if c.Engine.HardTimeout <= c.Engine.HeartbeatTimeout {
		return fmt.Errorf("engine.hard_timeout (%s) must exceed engine.heartbeat_timeout (%s)",
			c.Engine.HardTimeout, c.Engine.HeartbeatTimeout)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("api.max_page_size (%d) must be >= api.default_page_size (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	return nil
}
