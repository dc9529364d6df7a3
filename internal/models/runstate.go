// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package models

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the lifecycle state of one project's radiation analysis.
type RunStatus string

const (
	RunStatusIdle      RunStatus = "IDLE"
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusPaused    RunStatus = "PAUSED"
	RunStatusCompleted RunStatus = "COMPLETED"
	RunStatusFailed    RunStatus = "FAILED"
)

// RunState is the durable liveness record for one project's analysis.
// It survives process restarts so that an abandoned run can be detected
// by heartbeat staleness instead of leaving a permanently stuck lock.
type RunState struct {
	ProjectID string    `json:"project_id"`
	RunID     uuid.UUID `json:"run_id"`
	Status    RunStatus `json:"status"`

	// Preset is the precision preset label fixed for this run.
	Preset string `json:"preset,omitempty"`

	StartedAt       time.Time `json:"started_at,omitempty"`
	LastHeartbeatAt time.Time `json:"last_heartbeat_at,omitempty"`
	FinishedAt      time.Time `json:"finished_at,omitempty"`

	// Processed and Total track batch progress. Processed counts
	// committed elements including failures.
	Processed int `json:"processed"`
	Total     int `json:"total"`
}

// HeartbeatFresh reports whether the run proved liveness within the
// given timeout.
func (s *RunState) HeartbeatFresh(now time.Time, timeout time.Duration) bool {
	return now.Sub(s.LastHeartbeatAt) <= timeout
}

// Progress is the user-visible progress snapshot of a run.
type Progress struct {
	ProjectID string    `json:"project_id"`
	Status    RunStatus `json:"status"`
	Processed int       `json:"processed"`
	Total     int       `json:"total"`
}
