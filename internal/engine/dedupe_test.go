// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package engine

import (
	"testing"

	"github.com/tomtom215/heliostat/internal/models"
)

func windowOn(wall string, area float64) models.BuildingElement {
	return models.BuildingElement{
		ProjectID:             "proj-a",
		HostWallID:            wall,
		GlassAreaM2:           area,
		OrientationAzimuthDeg: 180,
		TiltDeg:               90,
	}
}

func TestDeduplicate(t *testing.T) {
	t.Run("explicit IDs keep first occurrence", func(t *testing.T) {
		a := windowOn("wall-01", 2)
		a.ElementID = "win-1"
		b := windowOn("wall-01", 3)
		b.ElementID = "win-1"

		unique := Deduplicate([]models.BuildingElement{a, b})
		if len(unique) != 1 {
			t.Fatalf("unique count = %d, want 1", len(unique))
		}
		if unique[0].GlassAreaM2 != 2 {
			t.Errorf("kept area = %v, want first occurrence (2)", unique[0].GlassAreaM2)
		}
	})

	t.Run("identical unidentified elements on one wall collapse", func(t *testing.T) {
		unique := Deduplicate([]models.BuildingElement{
			windowOn("wall-01", 2),
			windowOn("wall-01", 2),
		})
		if len(unique) != 1 {
			t.Fatalf("unique count = %d, want 1", len(unique))
		}
		if unique[0].ElementID != "wall-01_0" {
			t.Errorf("synthetic key = %q, want wall-01_0", unique[0].ElementID)
		}
	})

	t.Run("distinct geometries on one wall are kept apart", func(t *testing.T) {
		unique := Deduplicate([]models.BuildingElement{
			windowOn("wall-01", 2),
			windowOn("wall-01", 3),
		})
		if len(unique) != 2 {
			t.Fatalf("unique count = %d, want 2", len(unique))
		}
		if unique[0].ElementID != "wall-01_0" || unique[1].ElementID != "wall-01_1" {
			t.Errorf("synthetic keys = %q, %q, want wall-01_0, wall-01_1",
				unique[0].ElementID, unique[1].ElementID)
		}
	})

	t.Run("same geometry on different walls is not a duplicate", func(t *testing.T) {
		unique := Deduplicate([]models.BuildingElement{
			windowOn("wall-01", 2),
			windowOn("wall-02", 2),
		})
		if len(unique) != 2 {
			t.Fatalf("unique count = %d, want 2", len(unique))
		}
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		if got := Deduplicate(nil); len(got) != 0 {
			t.Errorf("unique count = %d, want 0", len(got))
		}
	})
}
