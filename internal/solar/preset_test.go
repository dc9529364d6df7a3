// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package solar

import (
	"errors"
	"testing"
)

func TestParsePreset(t *testing.T) {
	for _, label := range []string{"hourly", "daily-peak", "monthly-average", "yearly-average"} {
		if _, err := ParsePreset(label); err != nil {
			t.Errorf("ParsePreset(%q) error = %v", label, err)
		}
	}

	if _, err := ParsePreset("weekly"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("ParsePreset(weekly) error = %v, want ErrUnknownPreset", err)
	}
}

func TestPresetSampleCounts(t *testing.T) {
	tests := []struct {
		preset Preset
		want   int
	}{
		{PresetHourly, 4015},
		{PresetDailyPeak, 365},
		{PresetMonthlyAverage, 12},
		{PresetYearlyAverage, 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			samples := tt.preset.Samples()
			if len(samples) != tt.want {
				t.Errorf("Samples() len = %d, want %d", len(samples), tt.want)
			}
			for _, s := range samples {
				if s.DayOfYear < 1 || s.DayOfYear > 365 {
					t.Fatalf("sample day %d out of range", s.DayOfYear)
				}
				if s.Hour < 0 || s.Hour > 23 {
					t.Fatalf("sample hour %d out of range", s.Hour)
				}
			}
		})
	}
}

func TestPresetScalingFactors(t *testing.T) {
	tests := []struct {
		preset Preset
		want   float64
	}{
		{PresetHourly, 8760.0 / 4015},
		{PresetDailyPeak, 24.0 / 0.15},
		{PresetMonthlyAverage, 365.0 / 12},
		{PresetYearlyAverage, 365.0 / 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.preset), func(t *testing.T) {
			if got := tt.preset.ScalingFactor(); !almostEqual(got, tt.want, 1e-9) {
				t.Errorf("ScalingFactor() = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestPresetAnnualIrradiance(t *testing.T) {
	t.Run("constant sample irradiance scales to the annual total", func(t *testing.T) {
		// With a constant 100 W/m² at every sample, the annual total is
		// fully determined by the sample count and scaling factor.
		for _, preset := range []Preset{PresetHourly, PresetDailyPeak, PresetMonthlyAverage, PresetYearlyAverage} {
			n := float64(len(preset.Samples()))
			sum := n * 100
			want := sum * preset.ScalingFactor() / 1000
			if got := preset.AnnualIrradiance(sum); !almostEqual(got, want, 1e-9) {
				t.Errorf("%s: AnnualIrradiance(%f) = %f, want %f", preset, sum, got, want)
			}
		}
	})

	t.Run("monthly and yearly presets agree for constant irradiance", func(t *testing.T) {
		// Both scale a single-hour sample to 365 day-equivalents, so a
		// constant-irradiance series must yield identical annual totals.
		const poa = 250.0
		monthly := PresetMonthlyAverage.AnnualIrradiance(float64(len(PresetMonthlyAverage.Samples())) * poa)
		yearly := PresetYearlyAverage.AnnualIrradiance(float64(len(PresetYearlyAverage.Samples())) * poa)
		if !almostEqual(monthly, yearly, 1e-9) {
			t.Errorf("monthly = %f, yearly = %f, want equal", monthly, yearly)
		}
	})
}
