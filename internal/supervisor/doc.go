// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

// Package supervisor provides the suture-based supervision tree that
// keeps Heliostat's long-running components alive.
//
// The tree is organized into three layers for failure isolation:
//
//   - engine: the liveness watchdog that recovers stale runs
//   - messaging: the WebSocket hub broadcasting run transitions
//   - api: the HTTP server
//
// A crash in the messaging layer restarts only the hub; the API layer
// keeps serving stored results, and the engine layer keeps recovering
// abandoned runs.
package supervisor
