package weather

import (
	"sort"
	"time"
)

// sortFrameByTime reorders every parallel array by ascending timestamp,
// needed after assembling a frame from a Go map (NASA's per-parameter
// hourly series), whose iteration order is unspecified.
func sortFrameByTime(f *Frame) {
	n := f.Len()
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(i, j int) bool {
		return f.Timestamps[idx[i]].Before(f.Timestamps[idx[j]])
	})

	reorder := func(src []float64) []float64 {
		if src == nil {
			return nil
		}
		out := make([]float64, n)
		for i, srcIdx := range idx {
			out[i] = src[srcIdx]
		}
		return out
	}

	ts := make([]time.Time, n)
	for i, srcIdx := range idx {
		ts[i] = f.Timestamps[srcIdx]
	}
	f.Timestamps = ts
	f.GHI = reorder(f.GHI)
	f.DNI = reorder(f.DNI)
	f.DHI = reorder(f.DHI)
	f.TempAir = reorder(f.TempAir)
	f.WindSpeed = reorder(f.WindSpeed)
	f.Pressure = reorder(f.Pressure)
}
