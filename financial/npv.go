package financial

import (
	"math"

	"github.com/devskill-org/pvbess-engine/apperr"
)

// irrFallbackRate is the conservative rate substituted when the root finder
// diverges or returns a non-finite result (§4.9 "IRR computation").
const irrFallbackRate = 0.05

const (
	irrMinRate = -0.99
	irrMaxRate = 5.00
)

// NPV sums each row's discounted flow (§4.9 "NPV is the sum of discounted
// flows").
func NPV(rows []CashFlowRow) float64 {
	total := 0.0
	for _, r := range rows {
		total += r.DiscountedFlow
	}
	return total
}

// npvAtRate evaluates the flow polynomial at a candidate rate, independent
// of the rows' pre-computed discounted flows (used by the IRR root finder).
func npvAtRate(nominalFlows []float64, rate float64) float64 {
	total := 0.0
	for t, flow := range nominalFlows {
		total += flow / math.Pow(1+rate, float64(t))
	}
	return total
}

// IRR finds the rate that zeroes Sigma CF_t/(1+r)^t via a Newton's-method
// pass with a bisection fallback (§4.9 "IRR computation"). If both diverge
// or return a non-finite value, the result falls back to irrFallbackRate and
// wasFallback is true. The result is always clamped to [-99%, 500%].
func IRR(rows []CashFlowRow) (rate float64, wasFallback bool) {
	flows := make([]float64, len(rows))
	for i, r := range rows {
		flows[i] = r.NominalFlow
	}

	if r, ok := irrNewton(flows); ok {
		return clampRate(r), false
	}
	if r, ok := irrBisection(flows); ok {
		return clampRate(r), false
	}
	return irrFallbackRate, true
}

func irrNewton(flows []float64) (float64, bool) {
	rate := 0.10
	for iter := 0; iter < 100; iter++ {
		f := npvAtRate(flows, rate)
		if !isFinite(f) {
			return 0, false
		}
		if math.Abs(f) < 1e-6 {
			if !isFinite(rate) {
				return 0, false
			}
			return rate, true
		}
		// Numerical derivative; a small step avoids a zero-derivative plateau.
		const h = 1e-5
		df := (npvAtRate(flows, rate+h) - f) / h
		if df == 0 || !isFinite(df) {
			return 0, false
		}
		next := rate - f/df
		if !isFinite(next) || next <= irrMinRate {
			return 0, false
		}
		rate = next
	}
	return 0, false
}

func irrBisection(flows []float64) (float64, bool) {
	lo, hi := irrMinRate, irrMaxRate
	fLo := npvAtRate(flows, lo)
	fHi := npvAtRate(flows, hi)
	if !isFinite(fLo) || !isFinite(fHi) || (fLo > 0) == (fHi > 0) {
		return 0, false
	}
	for iter := 0; iter < 200; iter++ {
		mid := (lo + hi) / 2
		fMid := npvAtRate(flows, mid)
		if !isFinite(fMid) {
			return 0, false
		}
		if math.Abs(fMid) < 1e-6 {
			return mid, true
		}
		if (fMid > 0) == (fLo > 0) {
			lo, fLo = mid, fMid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2, true
}

func clampRate(r float64) float64 {
	if r < irrMinRate {
		return irrMinRate
	}
	if r > irrMaxRate {
		return irrMaxRate
	}
	return r
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Payback finds the year in which the cumulative flow first turns
// non-negative, via linear interpolation within that year (§4.9), capped at
// 99 years. usesDiscounted selects cumulative-discounted vs.
// cumulative-nominal.
func Payback(rows []CashFlowRow, usesDiscounted bool) float64 {
	cumulative := func(r CashFlowRow) float64 {
		if usesDiscounted {
			return r.CumulativeDiscounted
		}
		return r.CumulativeNominal
	}
	flow := func(r CashFlowRow) float64 {
		if usesDiscounted {
			return r.DiscountedFlow
		}
		return r.NominalFlow
	}

	for i := 1; i < len(rows); i++ {
		if cumulative(rows[i]) >= 0 {
			prevCumulative := cumulative(rows[i-1])
			thisFlow := flow(rows[i])
			if thisFlow == 0 {
				return float64(rows[i].Year)
			}
			fraction := -prevCumulative / thisFlow
			return float64(rows[i-1].Year) + fraction
		}
	}
	return 99
}

// LCOE is the levelised cost of energy: sum of discounted costs / sum of
// discounted energy generated (§3, §4.9 GLOSSARY).
func LCOE(rows []CashFlowRow, discountRate float64) (float64, error) {
	totalCost := -rows[0].NominalFlow // CAPEX, undiscounted (year 0)
	totalEnergy := 0.0
	for _, r := range rows[1:] {
		discount := math.Pow(1+discountRate, float64(r.Year))
		totalCost += r.OMCost / discount
		totalEnergy += r.EnergyGeneratedKWh / discount
	}
	if totalEnergy <= 0 {
		return 0, apperr.NewCalculation("financial.lcoe", "zero discounted lifetime energy generation")
	}
	return totalCost / totalEnergy, nil
}

// ProfitabilityIndex is the present value of future flows relative to the
// initial investment: (NPV + CAPEX) / CAPEX.
func ProfitabilityIndex(npv, capex float64) float64 {
	if capex == 0 {
		return 0
	}
	return (npv + capex) / capex
}
