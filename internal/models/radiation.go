// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package models

import "time"

// RadiationStatus indicates the outcome of one element's computation.
type RadiationStatus string

const (
	// RadiationStatusOK marks a successfully computed record.
	RadiationStatusOK RadiationStatus = "OK"

	// RadiationStatusSkipped marks an element excluded before computation.
	RadiationStatusSkipped RadiationStatus = "SKIPPED"

	// RadiationStatusFailed marks a per-element computation failure.
	// Failed elements carry a Reason and do not abort the batch.
	RadiationStatusFailed RadiationStatus = "FAILED"
)

// RadiationRecord is the durable per-element result of the radiation
// analysis. At most one live record exists per (ProjectID, ElementID);
// the uniqueness is enforced by the result store, and re-runs supersede
// rather than append.
type RadiationRecord struct {
	ProjectID string `json:"project_id"`
	ElementID string `json:"element_id"`

	// AnnualIrradiance is the plane-of-array total in kWh/m²/yr.
	AnnualIrradiance float64 `json:"annual_irradiance_kwh_m2"`

	// SampleCount is the number of time samples evaluated.
	SampleCount int `json:"sample_count"`

	// Preset is the precision preset label the run used.
	Preset string `json:"preset"`

	Status RadiationStatus `json:"status"`

	// Reason explains SKIPPED or FAILED status; empty for OK.
	Reason string `json:"reason,omitempty"`

	ComputedAt time.Time `json:"computed_at"`
}

// RadiationSummary holds store-computed aggregate statistics over the
// OK records of one project.
type RadiationSummary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
}
