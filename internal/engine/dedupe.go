// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package engine

import (
	"fmt"

	"github.com/tomtom215/heliostat/internal/metrics"
	"github.com/tomtom215/heliostat/internal/models"
)

// geometrySignature identifies an element by shape when it carries no
// natural ID. Two records on the same wall with identical geometry are
// the same physical window extracted twice.
type geometrySignature struct {
	area    float64
	azimuth float64
	tilt    float64
	level   int
}

// Deduplicate collapses duplicate building elements before any
// computation is dispatched. Elements lacking a natural element ID are
// assigned a synthetic key "<hostWallID>_<ordinal>", where the ordinal
// indexes distinct geometries within the wall, so a re-extracted copy
// of the same window lands on the same key. Deduplication keeps the
// first occurrence per key.
//
// This runs exactly once, before orchestration begins. Running it per
// element would be too late to prevent double billing of compute.
func Deduplicate(elements []models.BuildingElement) []models.BuildingElement {
	wallGeometries := make(map[string][]geometrySignature)
	seen := make(map[string]struct{}, len(elements))
	unique := make([]models.BuildingElement, 0, len(elements))

	for _, e := range elements {
		if e.ElementID == "" {
			e.ElementID = syntheticKey(&e, wallGeometries)
		}
		if _, dup := seen[e.ElementID]; dup {
			metrics.ElementsDeduplicated.Inc()
			continue
		}
		seen[e.ElementID] = struct{}{}
		unique = append(unique, e)
	}
	return unique
}

// syntheticKey derives a stable identity for an unidentified element
// from its host wall and its geometry ordinal within that wall.
func syntheticKey(e *models.BuildingElement, wallGeometries map[string][]geometrySignature) string {
	sig := geometrySignature{
		area:    e.GlassAreaM2,
		azimuth: e.OrientationAzimuthDeg,
		tilt:    e.TiltDeg,
		level:   e.Level,
	}

	geometries := wallGeometries[e.HostWallID]
	for i, existing := range geometries {
		if existing == sig {
			return fmt.Sprintf("%s_%d", e.HostWallID, i)
		}
	}
	wallGeometries[e.HostWallID] = append(geometries, sig)
	return fmt.Sprintf("%s_%d", e.HostWallID, len(geometries))
}
