// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package engine

import (
	"context"
	"time"

	"github.com/tomtom215/heliostat/internal/config"
	"github.com/tomtom215/heliostat/internal/logging"
	"github.com/tomtom215/heliostat/internal/metrics"
	"github.com/tomtom215/heliostat/internal/models"
	"github.com/tomtom215/heliostat/internal/state"
)

// Watchdog scans persisted run states and resets abandoned runs to
// IDLE. A run is abandoned when its status is RUNNING but the
// heartbeat has gone stale, or its total age exceeds the hard limit.
// Recovery is not an error to any caller; it is what turns a dead
// orchestrator process into a lock a fresh start can take over.
//
// Watchdog implements suture.Service and runs independently of the
// orchestrator's own goroutines.
type Watchdog struct {
	cfg  *config.EngineConfig
	runs *state.Store
}

// NewWatchdog creates a watchdog over the run-state store.
func NewWatchdog(cfg *config.EngineConfig, runs *state.Store) *Watchdog {
	return &Watchdog{cfg: cfg, runs: runs}
}

// Serve implements suture.Service. It scans on every tick until the
// context is cancelled.
func (w *Watchdog) Serve(ctx context.Context) error {
	interval := w.cfg.WatchdogInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logging.Info().
		Str("component", "watchdog").
		Dur("interval", interval).
		Dur("heartbeat_timeout", w.cfg.HeartbeatTimeout).
		Dur("hard_timeout", w.cfg.HardTimeout).
		Msg("Liveness watchdog started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.CheckOnce(ctx, time.Now().UTC())
		}
	}
}

// String implements fmt.Stringer for supervisor logging.
func (w *Watchdog) String() string {
	return "liveness-watchdog"
}

// CheckOnce performs a single scan over all persisted run states,
// resetting every stale RUNNING entry to IDLE.
func (w *Watchdog) CheckOnce(ctx context.Context, now time.Time) {
	states, err := w.runs.List(ctx)
	if err != nil {
		logging.Error().Err(err).
			Str("component", "watchdog").
			Msg("Failed to scan run states")
		return
	}

	for i := range states {
		rs := &states[i]
		if rs.Status != models.RunStatusRunning {
			continue
		}
		if !w.isStale(rs, now) {
			continue
		}

		rs.Status = models.RunStatusIdle
		rs.FinishedAt = now
		if err := w.runs.Save(ctx, rs); err != nil {
			logging.Error().Err(err).
				Str("component", "watchdog").
				Str("project_id", rs.ProjectID).
				Msg("Failed to reset stale run")
			continue
		}

		metrics.WatchdogRecoveries.Inc()
		logging.Warn().
			Str("component", "watchdog").
			Str("project_id", rs.ProjectID).
			Str("run_id", rs.RunID.String()).
			Time("last_heartbeat_at", rs.LastHeartbeatAt).
			Time("started_at", rs.StartedAt).
			Msg("Stale run recovered, reset to IDLE")
	}
}

// isStale reports whether a RUNNING state has lost liveness.
func (w *Watchdog) isStale(rs *models.RunState, now time.Time) bool {
	if !rs.HeartbeatFresh(now, w.cfg.HeartbeatTimeout) {
		return true
	}
	return now.Sub(rs.StartedAt) > w.cfg.HardTimeout
}
