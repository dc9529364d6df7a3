// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

// Package solar implements the physical model of the radiation engine:
// sun position, plane-of-array irradiance, and the precision presets
// that control time-sampling density.
//
// All functions in this package are pure and deterministic. Sun
// positions for a shared timestamp may be computed once and read
// concurrently by the orchestrator's worker pool.
package solar
