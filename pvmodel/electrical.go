package pvmodel

import "math"

// CellTemperature applies the SAPM cell-temperature model:
//
//	Tm = POA * exp(a0 + a1*wind) + Tambient        (module temperature)
//	Tcell = Tm + (POA/1000) * deltaT                (cell above module)
//
// This is the open-rack SAPM formulation; a2..a4/b0..b5 are accepted in
// SAPMThermalCoefficients for catalogue completeness but the pvwatts-style
// model this engine implements (§4.4) only exercises a0/a1/deltaT.
func CellTemperature(poa, tAmbient, windSpeed float64, coeff SAPMThermalCoefficients) float64 {
	moduleTemp := poa*math.Exp(coeff.A0+coeff.A1*windSpeed) + tAmbient
	return moduleTemp + (poa/1000)*coeff.DeltaT
}

// DCPowerSeries produces the 8760-ish hour DC power series (W, positive)
// for one plane, per §4.4: pvwatts-style DC with a single-diode-style
// linear temperature correction.
//
//	Pdc(t) = nameplate * (POA(t)/1000) * (1 + gammaPmp*(Tcell(t)-25))
//
// Below STC irradiance the output already drops linearly through the
// POA/1000 term; no separate low-light correction is applied, matching
// the "for sub-STC irradiance the power drops linearly" note in §4.4.
func DCPowerSeries(poa, tAmbient, windSpeed []float64, module Module, plane Plane) []float64 {
	n := len(poa)
	out := make([]float64, n)
	coeff := resolveThermal(module)
	nameplate := float64(plane.moduleCount()) * module.NameplateWattsSTC

	for i := 0; i < n; i++ {
		if poa[i] <= 0 {
			out[i] = 0
			continue
		}
		tCell := CellTemperature(poa[i], tAmbient[i], windSpeed[i], coeff)
		tempFactor := 1 + module.GammaPmp*(tCell-25)
		power := nameplate * (poa[i] / 1000) * tempFactor
		if power < 0 {
			power = 0
		}
		out[i] = power
	}
	return out
}
