package weather

import (
	"math"
	"testing"
)

func TestClipClampsOutOfRange(t *testing.T) {
	values := []float64{-10, 0, 800, 2000}
	clip(values, ghiMin, ghiMax)
	want := []float64{0, 0, 800, 1500}
	for i, v := range values {
		if v != want[i] {
			t.Errorf("clip()[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestInterpolateGapsShortRun(t *testing.T) {
	values := []float64{10, math.NaN(), math.NaN(), 40}
	interpolateGaps(values, 24)
	want := []float64{10, 20, 30, 40}
	for i, v := range values {
		if math.Abs(v-want[i]) > 1e-9 {
			t.Errorf("interpolateGaps()[%d] = %v, want %v", i, v, want[i])
		}
	}
}

func TestInterpolateGapsLeavesLongRun(t *testing.T) {
	values := make([]float64, 30)
	values[0] = 1
	for i := 1; i < 29; i++ {
		values[i] = math.NaN()
	}
	values[29] = 1
	interpolateGaps(values, 24)
	nanCount := 0
	for _, v := range values {
		if math.IsNaN(v) {
			nanCount++
		}
	}
	if nanCount != 28 {
		t.Errorf("expected the 28-hour run to survive interpolation, got %d NaNs", nanCount)
	}
}

func TestInterpolateGapsLeavesEdgeRun(t *testing.T) {
	values := []float64{math.NaN(), math.NaN(), 30, 40}
	interpolateGaps(values, 24)
	if !math.IsNaN(values[0]) || !math.IsNaN(values[1]) {
		t.Errorf("expected leading edge run untouched, got %v", values)
	}
}

func TestFillRemainingWithMedian(t *testing.T) {
	values := []float64{1, 3, math.NaN(), 5}
	fillRemainingWithMedian(values)
	if values[2] != 3 {
		t.Errorf("fillRemainingWithMedian filled %v, want 3 (median of 1,3,5)", values[2])
	}
}

func TestNormalizeLeavesNoNaN(t *testing.T) {
	f := &Frame{
		GHI:       []float64{-5, math.NaN(), math.NaN(), 1600},
		TempAir:   []float64{10, math.NaN(), 12, 13},
		WindSpeed: []float64{1, 2, 3, 4},
		Pressure:  []float64{101000, 101000, 101000, 101000},
		DNI:       []float64{0, 0, 0, 0},
		DHI:       []float64{0, 0, 0, 0},
	}
	Normalize(f)
	for _, col := range [][]float64{f.GHI, f.TempAir, f.WindSpeed, f.Pressure} {
		for _, v := range col {
			if math.IsNaN(v) {
				t.Fatalf("Normalize left a NaN: %v", col)
			}
		}
	}
	if f.GHI[0] != 0 || f.GHI[3] != 1500 {
		t.Errorf("Normalize did not clip GHI: %v", f.GHI)
	}
}
