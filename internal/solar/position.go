// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package solar

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Position calculation errors.
var (
	// ErrLatitudeRange indicates a latitude outside [-90, 90] degrees.
	ErrLatitudeRange = errors.New("latitude out of range [-90, 90]")

	// ErrLongitudeRange indicates a longitude outside [-180, 180] degrees.
	ErrLongitudeRange = errors.New("longitude out of range [-180, 180]")

	// ErrInvalidTimestamp indicates a zero or unusable timestamp.
	ErrInvalidTimestamp = errors.New("invalid timestamp")
)

// SunPosition describes the sun's location in the sky in degrees.
// Zenith is measured from vertical (0 = overhead, 90 = horizon);
// Azimuth is measured clockwise from north (90 = east, 180 = south).
type SunPosition struct {
	Zenith  float64
	Azimuth float64
}

const degToRad = math.Pi / 180

// Position computes the sun's zenith and azimuth for the given location
// and instant using a standard astronomical approximation (declination
// from day of year, equation of time, hour angle from true solar time).
// The result is deterministic and cheap enough to evaluate once per
// timestamp and share across all elements.
func Position(lat, lon float64, t time.Time) (SunPosition, error) {
	if lat < -90 || lat > 90 || math.IsNaN(lat) {
		return SunPosition{}, fmt.Errorf("%w: %v", ErrLatitudeRange, lat)
	}
	if lon < -180 || lon > 180 || math.IsNaN(lon) {
		return SunPosition{}, fmt.Errorf("%w: %v", ErrLongitudeRange, lon)
	}
	if t.IsZero() {
		return SunPosition{}, ErrInvalidTimestamp
	}

	utc := t.UTC()
	day := float64(utc.YearDay())
	hourUTC := float64(utc.Hour()) + float64(utc.Minute())/60 + float64(utc.Second())/3600

	// Solar declination (degrees), Spencer-style approximation.
	decl := math.Asin(0.39785*math.Sin((278.97+0.9856*day+
		1.9165*math.Sin((356.6+0.9856*day)*degToRad))*degToRad)) / degToRad

	// Equation of time (minutes).
	b := 2 * math.Pi * (day - 81) / 365
	eqt := 9.87*math.Sin(2*b) - 7.53*math.Cos(b) - 1.5*math.Sin(b)

	// True solar time (hours), from UTC and station longitude.
	solarTime := hourUTC + lon/15 + eqt/60

	// Hour angle (degrees), zero at solar noon, positive afternoon.
	hourAngle := 15 * (solarTime - 12)

	latR := lat * degToRad
	declR := decl * degToRad
	haR := hourAngle * degToRad

	cosZenith := math.Sin(latR)*math.Sin(declR) +
		math.Cos(latR)*math.Cos(declR)*math.Cos(haR)
	cosZenith = clamp(cosZenith, -1, 1)
	zenithR := math.Acos(cosZenith)
	zenith := zenithR / degToRad

	// Azimuth from north, clockwise. Guard the division near the poles
	// and at solar noon where sin(zenith) approaches zero.
	var azimuth float64
	sinZenith := math.Sin(zenithR)
	if sinZenith > 1e-9 {
		cosAz := (math.Sin(declR) - math.Sin(latR)*cosZenith) /
			(math.Cos(latR) * sinZenith)
		cosAz = clamp(cosAz, -1, 1)
		azimuth = math.Acos(cosAz) / degToRad
		if hourAngle > 0 {
			azimuth = 360 - azimuth
		}
	} else {
		// Sun effectively overhead; azimuth is undefined, use south.
		azimuth = 180
	}

	return SunPosition{Zenith: zenith, Azimuth: azimuth}, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
