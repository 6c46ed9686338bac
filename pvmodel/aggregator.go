package pvmodel

// InverterResult is the per-inverter annual metrics block (§4.5, §3
// "Simulation Results").
type InverterResult struct {
	DCSeries     []float64 // W, summed across the inverter's planes
	ACPreSeries  []float64 // W, after DC->AC efficiency, before clipping
	ACFinalSeries []float64 // W, after clipping and system losses

	AnnualEnergyKWh   float64
	PerformanceRatio  float64 // percent
	ClippingFraction  float64 // fraction of hours AC_pre > PACO
	YieldKWhPerKWp    float64
	CapacityFactor    float64
	DCNameplateKW     float64

	Warnings []string
}

// AggregateInverter collapses the DC series of every plane feeding one
// inverter into the inverter's AC series and annual metrics (§4.5).
// dcNameplateKW is the sum of modulesPerString*strings*nameplateW/1000
// across the feeding planes; callers compute it alongside the DC series
// since pvmodel.Plane does not carry the module's wattage.
func AggregateInverter(planeDCSeries [][]float64, inv Inverter, losses Losses, years int, dcNameplateKW float64) InverterResult {
	n := 0
	for _, series := range planeDCSeries {
		if len(series) > n {
			n = len(series)
		}
	}

	dcTotal := make([]float64, n)
	for _, series := range planeDCSeries {
		for i, v := range series {
			dcTotal[i] += v
		}
	}

	efficiency := inv.efficiency()
	lossFactor := losses.Factor()

	acPre := make([]float64, n)
	acFinal := make([]float64, n)
	clippedHours := 0
	var sumDC, sumACPre, sumACFinal float64

	for i := 0; i < n; i++ {
		pre := dcTotal[i] * efficiency
		acPre[i] = pre

		clipped := pre
		if inv.PACO > 0 && clipped > inv.PACO {
			clipped = inv.PACO
			clippedHours++
		}
		final := clipped * lossFactor
		acFinal[i] = final

		sumDC += dcTotal[i]
		sumACPre += pre
		sumACFinal += final
	}

	if years <= 0 {
		years = 1
	}

	annualEnergyKWh := sumACFinal / 1000 / float64(years)

	pr := 0.0
	if sumDC > 0 {
		pr = sumACFinal / sumDC * 100
	}

	clippingFraction := 0.0
	if n > 0 {
		clippingFraction = float64(clippedHours) / float64(n)
	}

	yieldKWhPerKWp := 0.0
	capacityFactor := 0.0
	if dcNameplateKW > 0 {
		yieldKWhPerKWp = annualEnergyKWh / dcNameplateKW
		capacityFactor = annualEnergyKWh / (dcNameplateKW * 8760)
	}

	result := InverterResult{
		DCSeries:         dcTotal,
		ACPreSeries:      acPre,
		ACFinalSeries:    acFinal,
		AnnualEnergyKWh:  annualEnergyKWh,
		PerformanceRatio: pr,
		ClippingFraction: clippingFraction,
		YieldKWhPerKWp:   yieldKWhPerKWp,
		CapacityFactor:   capacityFactor,
		DCNameplateKW:    dcNameplateKW,
	}
	result.Warnings = validateInverterResult(result, 0)
	return result
}

// validateInverterResult implements the §4.5 non-fatal warning rules:
// PR outside [70,95]%, clipping > 20%, or energy-per-module outside
// [300,2000] kWh/year.
func validateInverterResult(r InverterResult, moduleCount int) []string {
	var warnings []string
	if r.PerformanceRatio != 0 && (r.PerformanceRatio < 70 || r.PerformanceRatio > 95) {
		warnings = append(warnings, "performance ratio outside expected 70-95% range")
	}
	if r.ClippingFraction > 0.20 {
		warnings = append(warnings, "clipping exceeds 20% of hours")
	}
	if moduleCount > 0 {
		perModule := r.AnnualEnergyKWh / float64(moduleCount)
		if perModule < 300 || perModule > 2000 {
			warnings = append(warnings, "energy per module outside expected 300-2000 kWh/year range")
		}
	}
	return warnings
}

// ValidateEnergyPerModule re-runs the energy-per-module check once the
// caller knows the total module count across an inverter's planes (the
// aggregator itself only sees bare DC series, not plane geometry).
func ValidateEnergyPerModule(r *InverterResult, moduleCount int) {
	if moduleCount <= 0 {
		return
	}
	perModule := r.AnnualEnergyKWh / float64(moduleCount)
	if perModule < 300 || perModule > 2000 {
		r.Warnings = append(r.Warnings, "energy per module outside expected 300-2000 kWh/year range")
	}
}
