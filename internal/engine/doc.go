// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

// Package engine orchestrates per-project radiation analysis runs.
//
// A run walks every deduplicated building element of a project,
// computes its annual plane-of-array irradiance for the selected
// precision preset, and commits each result to the DuckDB store with
// an idempotent upsert. Liveness is tracked in a durable RunState
// record: the orchestrator heartbeats it while working and the
// watchdog resets it to IDLE when the heartbeat goes stale, so a
// crashed process never leaves a permanently stuck lock.
//
// Element results are order-independent. The only mutable state shared
// between workers is the progress counter and the heartbeat; resuming
// a run consults the result store, not process memory, for the set of
// already-finished elements.
package engine
