// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package engine

import "errors"

var (
	// ErrAlreadyRunning is the concurrency-conflict condition: a run
	// for the project is RUNNING with a fresh heartbeat. Surfaced to
	// the caller, never retried automatically.
	ErrAlreadyRunning = errors.New("analysis already running for project")

	// ErrProjectNotFound indicates no inputs were ingested for the
	// project.
	ErrProjectNotFound = errors.New("project inputs not found")

	// ErrNoElements indicates the project has no elements left after
	// validation and deduplication.
	ErrNoElements = errors.New("project has no elements to analyze")

	// ErrNotRunning indicates a cancel request for a project with no
	// active run.
	ErrNotRunning = errors.New("no active analysis for project")
)
