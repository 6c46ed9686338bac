package pvmodel

import "testing"

// TestPerformanceRatioExcludesEfficiencyFactor pins the Open Question #2
// decision: PR = sum(AC_final) / sum(DC_total), never divided a second
// time by the DC->AC efficiency. A contributor "fixing" PR back to the
// inflated form (dividing by DC_total*efficiency) must fail this test.
func TestPerformanceRatioExcludesEfficiencyFactor(t *testing.T) {
	dc := []float64{1000, 1000, 1000, 1000}
	inv := Inverter{PACO: 10000, DCACEfficiency: 0.90}
	result := AggregateInverter([][]float64{dc}, inv, Losses{}, 1, 4*1000/1000)

	sumDC := 4000.0
	sumACFinal := 0.0
	for _, v := range result.ACFinalSeries {
		sumACFinal += v
	}

	want := sumACFinal / sumDC * 100
	if diffAbs(result.PerformanceRatio, want) > 1e-9 {
		t.Fatalf("PerformanceRatio = %v, want %v (= sum(AC_final)/sum(DC_total), no efficiency in denominator)", result.PerformanceRatio, want)
	}

	// The inflated (wrong) form a contributor might "fix" PR back to.
	inflated := sumACFinal / (sumDC * inv.DCACEfficiency) * 100
	if diffAbs(result.PerformanceRatio, inflated) < 1e-9 {
		t.Fatal("PerformanceRatio matches the inflated form (efficiency in denominator); §4.5 forbids this")
	}
}

func diffAbs(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestAggregateInverterClipsAtPACO(t *testing.T) {
	dc := []float64{20000, 5000}
	inv := Inverter{PACO: 10000, DCACEfficiency: 1.0}
	result := AggregateInverter([][]float64{dc}, inv, Losses{}, 1, 20)

	if result.ACFinalSeries[0] != 10000 {
		t.Errorf("ACFinalSeries[0] = %v, want clipped to 10000", result.ACFinalSeries[0])
	}
	if result.ACFinalSeries[1] != 5000 {
		t.Errorf("ACFinalSeries[1] = %v, want unclipped 5000", result.ACFinalSeries[1])
	}
	if result.ClippingFraction != 0.5 {
		t.Errorf("ClippingFraction = %v, want 0.5", result.ClippingFraction)
	}
}

func TestAggregateInverterSumsPlanes(t *testing.T) {
	planeA := []float64{1000, 1000}
	planeB := []float64{500, 500}
	inv := Inverter{PACO: 100000, DCACEfficiency: 1.0}
	result := AggregateInverter([][]float64{planeA, planeB}, inv, Losses{}, 1, 3)

	if result.DCSeries[0] != 1500 {
		t.Errorf("DCSeries[0] = %v, want 1500 (sum of planes)", result.DCSeries[0])
	}
}

func TestLossesFactorAppliedOnceAtACStage(t *testing.T) {
	dc := []float64{1000}
	inv := Inverter{PACO: 100000, DCACEfficiency: 1.0}
	losses := Losses{SoilingPct: 2, ShadingPct: 3, MismatchPct: 2, WiringPct: 2, OtherPct: 1}
	result := AggregateInverter([][]float64{dc}, inv, losses, 1, 1)

	want := 1000 * losses.Factor()
	if diffAbs(result.ACFinalSeries[0], want) > 1e-9 {
		t.Errorf("ACFinalSeries[0] = %v, want %v", result.ACFinalSeries[0], want)
	}
	if result.DCSeries[0] != 1000 {
		t.Error("losses must not be pre-attenuated into the DC series (§4.4)")
	}
}

func TestValidateInverterResultFlagsOutOfRangePR(t *testing.T) {
	r := InverterResult{PerformanceRatio: 50}
	warnings := validateInverterResult(r, 0)
	if len(warnings) == 0 {
		t.Error("expected a PR warning for PerformanceRatio=50")
	}
}
