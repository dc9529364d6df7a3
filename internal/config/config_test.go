// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 8475 {
		t.Errorf("Server.Port = %d, want 8475", cfg.Server.Port)
	}
	if cfg.Engine.Preset != "hourly" {
		t.Errorf("Engine.Preset = %q, want hourly", cfg.Engine.Preset)
	}
	if cfg.Engine.HeartbeatTimeout != 120*time.Second {
		t.Errorf("Engine.HeartbeatTimeout = %v, want 120s", cfg.Engine.HeartbeatTimeout)
	}
	if cfg.Engine.HardTimeout != 30*time.Minute {
		t.Errorf("Engine.HardTimeout = %v, want 30m", cfg.Engine.HardTimeout)
	}
	if cfg.Engine.WatchdogInterval != 15*time.Second {
		t.Errorf("Engine.WatchdogInterval = %v, want 15s", cfg.Engine.WatchdogInterval)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HELIOSTAT_SERVER_PORT", "9000")
	t.Setenv("HELIOSTAT_ENGINE_PRESET", "monthly-average")
	t.Setenv("HELIOSTAT_ENGINE_HEARTBEAT_TIMEOUT", "90s")
	t.Setenv("HELIOSTAT_SECURITY_CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Engine.Preset != "monthly-average" {
		t.Errorf("Engine.Preset = %q, want monthly-average", cfg.Engine.Preset)
	}
	if cfg.Engine.HeartbeatTimeout != 90*time.Second {
		t.Errorf("Engine.HeartbeatTimeout = %v, want 90s", cfg.Engine.HeartbeatTimeout)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	for i, origin := range want {
		if cfg.Security.CORSOrigins[i] != origin {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], origin)
		}
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := strings.Join([]string{
		"server:",
		"  port: 8123",
		"engine:",
		"  preset: daily-peak",
		"  workers: 4",
	}, "\n")
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8123 {
		t.Errorf("Server.Port = %d, want 8123", cfg.Server.Port)
	}
	if cfg.Engine.Preset != "daily-peak" {
		t.Errorf("Engine.Preset = %q, want daily-peak", cfg.Engine.Preset)
	}
	if cfg.Engine.Workers != 4 {
		t.Errorf("Engine.Workers = %d, want 4", cfg.Engine.Workers)
	}
}

func TestLoadEnvBeatsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 8123\n"), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HELIOSTAT_SERVER_PORT", "9321")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9321 {
		t.Errorf("Server.Port = %d, want 9321 (env over file)", cfg.Server.Port)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Run("unknown preset", func(t *testing.T) {
		t.Setenv("HELIOSTAT_ENGINE_PRESET", "weekly")
		if _, err := Load(); err == nil {
			t.Error("expected validation error for unknown preset")
		}
	})

	t.Run("port out of range", func(t *testing.T) {
		t.Setenv("HELIOSTAT_SERVER_PORT", "70000")
		if _, err := Load(); err == nil {
			t.Error("expected validation error for out-of-range port")
		}
	})

	t.Run("heartbeat timeout below interval", func(t *testing.T) {
		t.Setenv("HELIOSTAT_ENGINE_HEARTBEAT_INTERVAL", "10s")
		t.Setenv("HELIOSTAT_ENGINE_HEARTBEAT_TIMEOUT", "5s")
		if _, err := Load(); err == nil {
			t.Error("expected validation error for timeout below interval")
		}
	})

	t.Run("hard timeout below heartbeat timeout", func(t *testing.T) {
		t.Setenv("HELIOSTAT_ENGINE_HARD_TIMEOUT", "60s")
		if _, err := Load(); err == nil {
			t.Error("expected validation error for hard timeout below heartbeat timeout")
		}
	})
}
