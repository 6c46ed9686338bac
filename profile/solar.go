package profile

import "math"

// CanonicalSolarShape returns the 24 hourly coefficients (percent of
// daily energy) for the hybrid orchestrator's solar profile (§4.7):
// zero at night, bell-shaped between 06:00 and 18:00, normalised so the
// 24 coefficients sum to 100.
func CanonicalSolarShape() [24]float64 {
	var raw [24]float64
	const sunrise, sunset = 6, 18
	span := float64(sunset - sunrise)
	for h := sunrise; h < sunset; h++ {
		// Half a sine lobe over the daylight window peaks at solar noon.
		phase := (float64(h-sunrise) + 0.5) / span
		raw[h] = math.Sin(math.Pi * phase)
	}
	return normalizeShape(raw)
}

// BuildSolarProfile expands 12 monthly PV generation totals (kWh) using
// the canonical solar shape into an hourly W series (§4.7 Solar
// profile), for hybrid-orchestrator consumption only.
func BuildSolarProfile(monthlyKWh [12]float64, referenceYear int) []float64 {
	if referenceYear <= 0 {
		referenceYear = DefaultReferenceYear
	}
	return expandMonthlyTotals(monthlyKWh, CanonicalSolarShape(), referenceYear)
}
