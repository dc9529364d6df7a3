// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package models

import "time"

// HoursPerYear is the expected length of a representative weather year.
const HoursPerYear = 8760

// WeatherSample is one hourly observation of the three standard
// irradiance components, in W/m².
type WeatherSample struct {
	Timestamp time.Time `json:"timestamp"`

	// GHI is global horizontal irradiance.
	GHI float64 `json:"ghi"`

	// DNI is direct normal irradiance.
	DNI float64 `json:"dni"`

	// DHI is diffuse horizontal irradiance.
	DHI float64 `json:"dhi"`
}

// WeatherSeries is a representative year of hourly irradiance data for
// one station, supplied by the weather collaborator. Read-only input.
type WeatherSeries struct {
	// Latitude of the station in degrees, positive north.
	Latitude float64 `json:"latitude"`

	// Longitude of the station in degrees, positive east.
	Longitude float64 `json:"longitude"`

	// Samples holds exactly HoursPerYear hourly points with
	// monotonically increasing timestamps.
	Samples []WeatherSample `json:"samples"`
}

// At returns the sample for the given day of year (1-365) and hour (0-23).
// The bounds are checked by the precision preset, which only generates
// in-range samples.
func (w *WeatherSeries) At(dayOfYear, hour int) WeatherSample {
	return w.Samples[(dayOfYear-1)*24+hour]
}
