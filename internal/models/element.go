// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package models

// BuildingElement is one glazed facade element delivered by the
// facade-extraction collaborator. Elements are read-only inputs to the
// radiation engine; they are never mutated after ingestion.
type BuildingElement struct {
	// ProjectID identifies the project the element belongs to.
	ProjectID string `json:"project_id" validate:"required"`

	// ElementID uniquely identifies the element within a project.
	// May be empty on ingestion; the deduplicator assigns a synthetic
	// key derived from HostWallID before orchestration begins.
	ElementID string `json:"element_id,omitempty"`

	// HostWallID references the wall hosting this element.
	HostWallID string `json:"host_wall_id"`

	// GlassAreaM2 is the glazed area in square meters. Must be > 0.
	GlassAreaM2 float64 `json:"glass_area_m2" validate:"gt=0"`

	// OrientationAzimuthDeg is the surface azimuth in degrees
	// (0 = north, 90 = east, 180 = south, 270 = west).
	OrientationAzimuthDeg float64 `json:"orientation_azimuth_deg" validate:"gte=0,lt=360"`

	// TiltDeg is the surface tilt from horizontal in degrees.
	// Vertical glazing is 90.
	TiltDeg float64 `json:"tilt_deg" validate:"gte=0,lte=180"`

	// Level is the building level hosting the element.
	Level int `json:"level,omitempty"`

	// ShadingFactor combines environmental shading effects in [0,1].
	// Supplied by the shading collaborator; 1.0 when unavailable.
	ShadingFactor float64 `json:"shading_factor,omitempty"`
}

// EffectiveShadingFactor returns the shading factor, defaulting to 1.0
// when the shading collaborator supplied none. A zero value means unset;
// negative and out-of-range values are rejected at input validation.
func (e *BuildingElement) EffectiveShadingFactor() float64 {
	if e.ShadingFactor == 0 {
		return 1.0
	}
	return e.ShadingFactor
}
