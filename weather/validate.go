package weather

import (
	"math"
	"time"

	"github.com/devskill-org/pvbess-engine/apperr"
)

// Validate checks the Weather Frame invariant from §3/§8: a strictly
// increasing 1-hour-step index, equal-length columns, no NaN in the
// required columns, and GHI and air temperature within their clipped
// physical ranges (wind speed and pressure are not range-checked).
func (f *Frame) Validate() error {
	n := f.Len()
	if n == 0 {
		return apperr.NewCalculation("weather.Validate", "empty frame")
	}
	for _, col := range [][]float64{f.GHI, f.DNI, f.DHI, f.TempAir, f.WindSpeed, f.Pressure} {
		if len(col) != n {
			return apperr.NewCalculation("weather.Validate", "column length mismatch: want %d, got %d", n, len(col))
		}
	}
	for i := 1; i < n; i++ {
		if !f.Timestamps[i].After(f.Timestamps[i-1]) {
			return apperr.NewCalculation("weather.Validate", "timestamps not strictly increasing at index %d", i)
		}
		if f.Timestamps[i].Sub(f.Timestamps[i-1]) != time.Hour {
			return apperr.NewCalculation("weather.Validate", "gap at index %d: step is %v, want 1h", i, f.Timestamps[i].Sub(f.Timestamps[i-1]))
		}
	}
	for i := 0; i < n; i++ {
		if math.IsNaN(f.GHI[i]) || math.IsNaN(f.TempAir[i]) || math.IsNaN(f.WindSpeed[i]) || math.IsNaN(f.Pressure[i]) {
			return apperr.NewCalculation("weather.Validate", "NaN in required column at index %d", i)
		}
		if f.GHI[i] < ghiMin || f.GHI[i] > ghiMax {
			return apperr.NewCalculation("weather.Validate", "GHI out of range at index %d: %v", i, f.GHI[i])
		}
		if f.TempAir[i] < tempMin || f.TempAir[i] > tempMax {
			return apperr.NewCalculation("weather.Validate", "temp_air out of range at index %d: %v", i, f.TempAir[i])
		}
	}
	return nil
}
