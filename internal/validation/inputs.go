// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package validation

import (
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/heliostat/internal/models"
)

// Input validation errors for the radiation engine. Element errors make
// the individual element FAILED; weather errors reject the whole run
// before any element is touched.
var (
	ErrZeroGlassArea      = errors.New("glass area must be positive")
	ErrShadingFactorRange = errors.New("shading factor must be within [0,1]")
	ErrSeriesIncomplete   = errors.New("weather series must cover a full representative year")
	ErrSeriesNotMonotonic = errors.New("weather series timestamps must be strictly increasing")
	ErrSeriesCadence      = errors.New("weather series samples must be exactly one hour apart")
	ErrSeriesMisaligned   = errors.New("weather series must start at hour 0 of day 1")
	ErrNegativeIrradiance = errors.New("irradiance components must be non-negative")
	ErrStationCoordinates = errors.New("weather station coordinates out of range")
)

// ValidateElement checks one building element before computation.
// Struct tags cover the geometric ranges; the shading factor needs a
// manual check because zero is the legitimate "unset" encoding.
func ValidateElement(e *models.BuildingElement) error {
	if e.GlassAreaM2 <= 0 {
		return fmt.Errorf("%w: element %s has area %.3f m²", ErrZeroGlassArea, e.ElementID, e.GlassAreaM2)
	}
	if e.ShadingFactor < 0 || e.ShadingFactor > 1 {
		return fmt.Errorf("%w: element %s has factor %.3f", ErrShadingFactorRange, e.ElementID, e.ShadingFactor)
	}
	if verr := ValidateStruct(e); verr != nil {
		return fmt.Errorf("element %s: %w", e.ElementID, verr)
	}
	return nil
}

// ValidateWeatherSeries checks a representative weather year before a
// run starts. The hour-indexed lookup in the engine maps (day, hour)
// straight to a slice offset, so the series must hold exactly
// HoursPerYear samples, one per hour, starting at hour 0 of day 1.
func ValidateWeatherSeries(w *models.WeatherSeries) error {
	if w.Latitude < -90 || w.Latitude > 90 || w.Longitude < -180 || w.Longitude > 180 {
		return fmt.Errorf("%w: lat=%.4f lon=%.4f", ErrStationCoordinates, w.Latitude, w.Longitude)
	}
	if len(w.Samples) != models.HoursPerYear {
		return fmt.Errorf("%w: got %d samples, want %d", ErrSeriesIncomplete, len(w.Samples), models.HoursPerYear)
	}
	if first := w.Samples[0].Timestamp.UTC(); first.YearDay() != 1 || first.Hour() != 0 {
		return fmt.Errorf("%w: first sample at %s", ErrSeriesMisaligned,
			first.Format("2006-01-02T15:04:05Z07:00"))
	}
	for i, sample := range w.Samples {
		if sample.GHI < 0 || sample.DNI < 0 || sample.DHI < 0 {
			return fmt.Errorf("%w: sample %d (ghi=%.1f dni=%.1f dhi=%.1f)",
				ErrNegativeIrradiance, i, sample.GHI, sample.DNI, sample.DHI)
		}
		if i == 0 {
			continue
		}
		step := sample.Timestamp.Sub(w.Samples[i-1].Timestamp)
		if step <= 0 {
			return fmt.Errorf("%w: sample %d at %s does not follow sample %d",
				ErrSeriesNotMonotonic, i, sample.Timestamp.Format("2006-01-02T15:04:05Z07:00"), i-1)
		}
		if step != time.Hour {
			return fmt.Errorf("%w: gap of %s between samples %d and %d",
				ErrSeriesCadence, step, i-1, i)
		}
	}
	return nil
}
