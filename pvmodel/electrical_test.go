package pvmodel

import "testing"

func TestDCPowerSeriesZeroAtNight(t *testing.T) {
	module := Module{NameplateWattsSTC: 540, GammaPmp: -0.0035}
	plane := Plane{ModulesPerString: 12, Strings: 1}
	poa := []float64{0, 500}
	tAmbient := []float64{20, 25}
	wind := []float64{1, 2}

	series := DCPowerSeries(poa, tAmbient, wind, module, plane)
	if series[0] != 0 {
		t.Errorf("DCPowerSeries[0] = %v, want 0 at zero POA", series[0])
	}
	if series[1] <= 0 {
		t.Errorf("DCPowerSeries[1] = %v, want > 0", series[1])
	}
}

func TestDCPowerSeriesScalesWithModuleCount(t *testing.T) {
	module := Module{NameplateWattsSTC: 540, GammaPmp: -0.0035}
	poa := []float64{1000}
	tAmbient := []float64{25}
	wind := []float64{1}

	one := DCPowerSeries(poa, tAmbient, wind, module, Plane{ModulesPerString: 1, Strings: 1})
	twelve := DCPowerSeries(poa, tAmbient, wind, module, Plane{ModulesPerString: 12, Strings: 1})

	if diffAbs(twelve[0], one[0]*12) > 1e-6 {
		t.Errorf("DCPowerSeries(12 modules) = %v, want 12x single-module = %v", twelve[0], one[0]*12)
	}
}

func TestCellTemperatureRisesWithPOA(t *testing.T) {
	coeff := FallbackSAPMCoefficients()
	low := CellTemperature(200, 25, 2, coeff)
	high := CellTemperature(900, 25, 2, coeff)
	if high <= low {
		t.Errorf("CellTemperature(900) = %v, want > CellTemperature(200) = %v", high, low)
	}
}

func TestResolveThermalFallsBackWhenUnset(t *testing.T) {
	module := Module{}
	coeff := resolveThermal(module)
	fallback := FallbackSAPMCoefficients()
	if coeff != fallback {
		t.Errorf("resolveThermal(unset) = %+v, want fallback %+v", coeff, fallback)
	}
}

func TestResolveThermalRespectsSuppliedCoefficients(t *testing.T) {
	custom := SAPMThermalCoefficients{A0: -2.5, A1: -0.05, DeltaT: 2}
	module := Module{Thermal: custom}
	if got := resolveThermal(module); got != custom {
		t.Errorf("resolveThermal(custom) = %+v, want %+v", got, custom)
	}
}
