package weather

import (
	"math"
	"sort"
)

// clip clamps every value in place to [min, max], leaving NaN untouched so
// the gap-fill pass can still find it.
func clip(values []float64, min, max float64) {
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v < min {
			values[i] = min
		} else if v > max {
			values[i] = max
		}
	}
}

// interpolateGaps linearly interpolates runs of consecutive NaN values up
// to maxRun samples long. Longer runs, and runs that touch either edge of
// the series (no bracketing value on one side), are left for the
// median-fill pass.
func interpolateGaps(values []float64, maxRun int) {
	n := len(values)
	i := 0
	for i < n {
		if !math.IsNaN(values[i]) {
			i++
			continue
		}
		start := i
		for i < n && math.IsNaN(values[i]) {
			i++
		}
		runLen := i - start
		if runLen > maxRun || start == 0 || i == n {
			continue // leave untouched: edge run or too long
		}
		before := values[start-1]
		after := values[i]
		for j := 0; j < runLen; j++ {
			frac := float64(j+1) / float64(runLen+1)
			values[start+j] = before + (after-before)*frac
		}
	}
}

// fillRemainingWithMedian replaces any remaining NaN with the median of the
// column's finite values.
func fillRemainingWithMedian(values []float64) {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		for i := range values {
			values[i] = 0
		}
		return
	}
	sort.Float64s(finite)
	median := medianOfSorted(finite)
	for i, v := range values {
		if math.IsNaN(v) {
			values[i] = median
		}
	}
}

func medianOfSorted(sorted []float64) float64 {
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

// normalizeColumn clips to the physical range, interpolates short gaps,
// then fills any remainder with the column median — the full §4.1
// normalisation pipeline for one column.
func normalizeColumn(values []float64, min, max float64) {
	clip(values, min, max)
	interpolateGaps(values, maxInterpolationRunHours)
	fillRemainingWithMedian(values)
}

// Normalize applies the common-schema pipeline to every physical column of
// f in place: range clipping, short-gap interpolation, then median fill for
// anything left. DNI/DHI are left alone here — zeros there are meaningful
// ("missing DNI/DHI may arrive as zero and are regenerated downstream",
// §3) rather than sentinel NaNs requiring repair.
func Normalize(f *Frame) {
	normalizeColumn(f.GHI, ghiMin, ghiMax)
	normalizeColumn(f.TempAir, tempMin, tempMax)
	normalizeColumn(f.WindSpeed, windMin, windMax)
	normalizeColumn(f.Pressure, pressureMin, pressureMax)
	clip(f.DNI, 0, math.MaxFloat64)
	clip(f.DHI, 0, math.MaxFloat64)
}
