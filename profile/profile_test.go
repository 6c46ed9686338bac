package profile

import (
	"math"
	"testing"
	"time"
)

func flatShape() [24]float64 {
	var shape [24]float64
	for i := range shape {
		shape[i] = 100.0 / 24
	}
	return shape
}

func TestBuildLoadProfileLengthMatchesReferenceYear(t *testing.T) {
	var monthly [12]float64
	for i := range monthly {
		monthly[i] = 300
	}
	series, err := BuildLoadProfile(monthly, flatShape(), 2023)
	if err != nil {
		t.Fatalf("BuildLoadProfile() error = %v", err)
	}
	if len(series) != 8760 {
		t.Errorf("len(series) = %d, want 8760 for non-leap 2023", len(series))
	}

	leapSeries, err := BuildLoadProfile(monthly, flatShape(), 2024)
	if err != nil {
		t.Fatalf("BuildLoadProfile() error = %v", err)
	}
	if len(leapSeries) != 8784 {
		t.Errorf("len(series) = %d, want 8784 for leap 2024", len(leapSeries))
	}
}

func TestBuildLoadProfileRejectsBadShapeSum(t *testing.T) {
	var monthly [12]float64
	badShape := flatShape()
	badShape[0] += 20
	_, err := BuildLoadProfile(monthly, badShape, 2023)
	if err == nil {
		t.Fatal("BuildLoadProfile() error = nil, want shape-sum validation failure")
	}
}

func TestMonthlyRoundTripRecoversInputWithinOnePercent(t *testing.T) {
	// §8 round-trip property: monthly -> hourly -> monthly recovers the
	// input within 1% (day-count arithmetic on a fixed calendar).
	var monthly [12]float64
	for i := range monthly {
		monthly[i] = 400 + float64(i)*10
	}
	series, err := BuildLoadProfile(monthly, flatShape(), 2023)
	if err != nil {
		t.Fatalf("BuildLoadProfile() error = %v", err)
	}

	idx := 0
	for m := 0; m < 12; m++ {
		days := daysInMonth(2023, time.Month(m+1))
		hours := days * 24
		sumW := 0.0
		for h := 0; h < hours; h++ {
			sumW += series[idx]
			idx++
		}
		recoveredKWh := sumW / 1000
		diff := math.Abs(recoveredKWh-monthly[m]) / monthly[m]
		if diff > 0.01 {
			t.Errorf("month %d: recovered %.2f kWh from input %.2f kWh (%.2f%% off)", m, recoveredKWh, monthly[m], diff*100)
		}
	}
}

func TestCanonicalSolarShapeSumsToHundredAndIsZeroAtNight(t *testing.T) {
	shape := CanonicalSolarShape()
	sum := 0.0
	for _, v := range shape {
		sum += v
	}
	if math.Abs(sum-100) > 1e-6 {
		t.Errorf("sum(CanonicalSolarShape()) = %v, want 100", sum)
	}
	for h := 0; h < 6; h++ {
		if shape[h] != 0 {
			t.Errorf("CanonicalSolarShape()[%d] = %v, want 0 (night)", h, shape[h])
		}
	}
	for h := 18; h < 24; h++ {
		if shape[h] != 0 {
			t.Errorf("CanonicalSolarShape()[%d] = %v, want 0 (night)", h, shape[h])
		}
	}
}

func TestBuildSolarProfileDefaultsReferenceYear(t *testing.T) {
	var monthly [12]float64
	monthly[5] = 500
	series := BuildSolarProfile(monthly, 0)
	if len(series) != 8760 {
		t.Errorf("len(series) = %d, want 8760 for default reference year %d", len(series), DefaultReferenceYear)
	}
}
