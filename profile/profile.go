// Package profile implements the Hourly Profile Builder (§4.7): expanding
// a set of 12 monthly totals into an 8760-ish point W series.
package profile

import (
	"time"

	"github.com/devskill-org/pvbess-engine/apperr"
)

// DefaultReferenceYear is the calendar used when a caller does not
// supply one; the source hardcodes 2023 (non-leap), surfaced here as a
// configurable default per the Open Question in §9.
const DefaultReferenceYear = 2023

func daysInMonth(year int, month time.Month) int {
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	lastOfThis := firstOfNext.AddDate(0, 0, -1)
	return lastOfThis.Day()
}

func normalizeShape(shape [24]float64) [24]float64 {
	sum := 0.0
	for _, v := range shape {
		sum += v
	}
	if sum <= 0 {
		return shape
	}
	var out [24]float64
	for i, v := range shape {
		out[i] = v / sum * 100
	}
	return out
}

// expandMonthlyTotals is the shared engine behind BuildLoadProfile and
// BuildSolarProfile: distribute each month's kWh total across its days
// using a 24-value hourly shape (percent of daily energy, summing to
// ~100), producing a W series (kWh/h * 1000).
func expandMonthlyTotals(monthlyKWh [12]float64, shapePercent [24]float64, referenceYear int) []float64 {
	shape := normalizeShape(shapePercent)

	var series []float64
	for m := time.January; m <= time.December; m++ {
		days := daysInMonth(referenceYear, m)
		if days <= 0 {
			continue
		}
		dailyKWh := monthlyKWh[m-1] / float64(days)
		for d := 0; d < days; d++ {
			for h := 0; h < 24; h++ {
				series = append(series, dailyKWh*shape[h]/100*1000)
			}
		}
	}
	return series
}

// BuildLoadProfile expands 12 monthly consumption totals (kWh) and a
// 24-value daily shape (percent, summing to 100±1) into an hourly W
// series (§4.7 Load profile).
func BuildLoadProfile(monthlyKWh [12]float64, shapePercent [24]float64, referenceYear int) ([]float64, error) {
	if referenceYear <= 0 {
		referenceYear = DefaultReferenceYear
	}
	sum := 0.0
	for _, v := range shapePercent {
		sum += v
	}
	if sum < 99 || sum > 101 {
		return nil, apperr.NewValidation("shape_percent", "must sum to 100%% +/-1%%, got %.2f%%", sum)
	}
	return expandMonthlyTotals(monthlyKWh, shapePercent, referenceYear), nil
}
