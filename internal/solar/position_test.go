// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package solar

import (
	"errors"
	"testing"
	"time"
)

func TestPositionValidation(t *testing.T) {
	valid := time.Date(2023, 6, 21, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		lat     float64
		lon     float64
		ts      time.Time
		wantErr error
	}{
		{"latitude too high", 91, 0, valid, ErrLatitudeRange},
		{"latitude too low", -90.5, 0, valid, ErrLatitudeRange},
		{"longitude too high", 0, 181, valid, ErrLongitudeRange},
		{"longitude too low", 0, -180.1, valid, ErrLongitudeRange},
		{"zero timestamp", 47, 8, time.Time{}, ErrInvalidTimestamp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Position(tt.lat, tt.lon, tt.ts)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Position() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPositionDeterminism(t *testing.T) {
	ts := time.Date(2023, 3, 21, 10, 30, 0, 0, time.UTC)

	first, err := Position(47.37, 8.54, ts)
	if err != nil {
		t.Fatalf("Position() error = %v", err)
	}
	second, err := Position(47.37, 8.54, ts)
	if err != nil {
		t.Fatalf("Position() error = %v", err)
	}

	if first != second {
		t.Errorf("Position() not deterministic: %+v != %+v", first, second)
	}
}

func TestPositionGeometry(t *testing.T) {
	t.Run("summer noon at mid-latitude is high in the southern sky", func(t *testing.T) {
		// Zurich, June 21st, close to solar noon in UTC terms.
		ts := time.Date(2023, 6, 21, 11, 30, 0, 0, time.UTC)
		pos, err := Position(47.37, 8.54, ts)
		if err != nil {
			t.Fatalf("Position() error = %v", err)
		}
		if pos.Zenith < 0 || pos.Zenith > 45 {
			t.Errorf("Zenith = %f, want summer noon zenith below 45", pos.Zenith)
		}
		if pos.Azimuth < 90 || pos.Azimuth > 270 {
			t.Errorf("Azimuth = %f, want southern half of the sky", pos.Azimuth)
		}
	})

	t.Run("morning sun is east, afternoon sun is west", func(t *testing.T) {
		morning := time.Date(2023, 3, 21, 7, 0, 0, 0, time.UTC)
		afternoon := time.Date(2023, 3, 21, 16, 0, 0, 0, time.UTC)

		m, err := Position(47.37, 8.54, morning)
		if err != nil {
			t.Fatalf("Position() error = %v", err)
		}
		a, err := Position(47.37, 8.54, afternoon)
		if err != nil {
			t.Fatalf("Position() error = %v", err)
		}

		if m.Azimuth >= 180 {
			t.Errorf("morning Azimuth = %f, want < 180 (east)", m.Azimuth)
		}
		if a.Azimuth <= 180 {
			t.Errorf("afternoon Azimuth = %f, want > 180 (west)", a.Azimuth)
		}
	})

	t.Run("winter night sun is below horizon", func(t *testing.T) {
		ts := time.Date(2023, 12, 21, 0, 30, 0, 0, time.UTC)
		pos, err := Position(47.37, 8.54, ts)
		if err != nil {
			t.Fatalf("Position() error = %v", err)
		}
		if pos.Zenith <= 90 {
			t.Errorf("Zenith = %f, want > 90 at midnight", pos.Zenith)
		}
	})
}
