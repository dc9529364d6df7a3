// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package solar

import "math"

// Albedo is the fixed ground reflectance used by the ground-reflected
// irradiance term.
const Albedo = 0.20

// PlaneOfArrayIrradiance computes the irradiance incident on a tilted,
// oriented surface for one instant.
//
// The model combines three terms:
//   - beam: DNI projected onto the surface, clamped at zero when the
//     sun is behind the surface (never negative-added)
//   - diffuse: isotropic sky diffuse from DHI
//   - ground: GHI reflected off the ground with fixed Albedo
//
// shadingFactor in [0,1] is an opaque multiplicative input from the
// shading collaborator. Angles are in degrees; irradiance components
// share whatever unit the caller supplies.
func PlaneOfArrayIrradiance(ghi, dni, dhi float64, pos SunPosition, tiltDeg, surfaceAzimuthDeg, shadingFactor float64) float64 {
	tiltR := tiltDeg * degToRad
	zenithR := pos.Zenith * degToRad

	cosIncidence := math.Cos(tiltR)*math.Cos(zenithR) +
		math.Sin(tiltR)*math.Sin(zenithR)*
			math.Cos((pos.Azimuth-surfaceAzimuthDeg)*degToRad)

	beam := dni * math.Max(cosIncidence, 0)
	diffuse := dhi * (1 + math.Cos(tiltR)) / 2
	ground := ghi * Albedo * (1 - math.Cos(tiltR)) / 2

	return (beam + diffuse + ground) * shadingFactor
}
