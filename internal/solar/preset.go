// Heliostat - Building Facade Solar Radiation Analysis
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/heliostat

package solar

import (
	"errors"
	"fmt"
)

// ErrUnknownPreset indicates a preset label outside the four fixed variants.
var ErrUnknownPreset = errors.New("unknown precision preset")

// Preset selects the time-sampling density of a run. The preset is
// fixed for an entire run; results computed under different presets are
// comparable in expectation because each preset's scaling factor
// compensates for its reduced sampling density.
type Preset string

const (
	// PresetHourly samples 11 daytime hours on every day of the year
	// (4015 samples). Highest accuracy, highest cost.
	PresetHourly Preset = "hourly"

	// PresetDailyPeak samples the solar-noon hour of every day
	// (365 samples).
	PresetDailyPeak Preset = "daily-peak"

	// PresetMonthlyAverage samples noon on one representative day per
	// month (12 samples).
	PresetMonthlyAverage Preset = "monthly-average"

	// PresetYearlyAverage samples noon on the solstice and equinox
	// days (4 samples). Cheapest, highest variance.
	PresetYearlyAverage Preset = "yearly-average"
)

// TimeSample is one (day-of-year, hour) evaluation point.
type TimeSample struct {
	DayOfYear int // 1-365
	Hour      int // 0-23
}

// hourly sampling window: 11 hours centered on solar noon.
const (
	hourlyFirstHour = 7
	hourlyLastHour  = 17
	noonHour        = 12
)

// Representative day of each month (the 15th) as day of year,
// non-leap calendar.
var monthlyRepresentativeDays = [12]int{15, 46, 74, 105, 135, 166, 196, 227, 258, 288, 319, 349}

// Solstice and equinox days as day of year, non-leap calendar:
// Mar 21, Jun 21, Sep 23, Dec 21.
var seasonalDays = [4]int{80, 172, 266, 355}

// ParsePreset validates a preset label.
func ParsePreset(label string) (Preset, error) {
	switch Preset(label) {
	case PresetHourly, PresetDailyPeak, PresetMonthlyAverage, PresetYearlyAverage:
		return Preset(label), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPreset, label)
}

// Samples returns the concrete evaluation points for the preset.
func (p Preset) Samples() []TimeSample {
	switch p {
	case PresetHourly:
		samples := make([]TimeSample, 0, 365*(hourlyLastHour-hourlyFirstHour+1))
		for day := 1; day <= 365; day++ {
			for hour := hourlyFirstHour; hour <= hourlyLastHour; hour++ {
				samples = append(samples, TimeSample{DayOfYear: day, Hour: hour})
			}
		}
		return samples
	case PresetDailyPeak:
		samples := make([]TimeSample, 0, 365)
		for day := 1; day <= 365; day++ {
			samples = append(samples, TimeSample{DayOfYear: day, Hour: noonHour})
		}
		return samples
	case PresetMonthlyAverage:
		samples := make([]TimeSample, 0, len(monthlyRepresentativeDays))
		for _, day := range monthlyRepresentativeDays {
			samples = append(samples, TimeSample{DayOfYear: day, Hour: noonHour})
		}
		return samples
	case PresetYearlyAverage:
		samples := make([]TimeSample, 0, len(seasonalDays))
		for _, day := range seasonalDays {
			samples = append(samples, TimeSample{DayOfYear: day, Hour: noonHour})
		}
		return samples
	}
	return nil
}

// ScalingFactor converts the summed plane-of-array irradiance over the
// preset's samples into an annual total:
//
//	annual_kWh_per_m2 = sum(poa_samples) * ScalingFactor() / 1000
//
// The per-preset rules are fixed empirical constants reproduced from
// the validated reference data; they are deliberately not re-derived.
func (p Preset) ScalingFactor() float64 {
	n := float64(len(p.Samples()))
	switch p {
	case PresetHourly:
		return 8760 / n
	case PresetDailyPeak:
		return (8760 / 365) / 0.15 / (n / 365)
	case PresetMonthlyAverage:
		return 365.0 / 12 / (n / 12)
	case PresetYearlyAverage:
		return 365 / n
	}
	return 0
}

// AnnualIrradiance converts a summed POA over the preset's samples to
// kWh/m²/yr.
func (p Preset) AnnualIrradiance(sumPOA float64) float64 {
	return sumPOA * p.ScalingFactor() / 1000
}
