package bess

import (
	"math"
	"time"

	"github.com/devskill-org/pvbess-engine/tariff"
)

// Result is the full output of a dispatch simulation (§4.8, §3
// "Simulation Results"): SOC/battery-power/grid-power trajectories,
// per-hour bills with and without the battery, and summary metrics.
type Result struct {
	SOC          []float64 // fraction, one per hour
	BatteryPowerKW []float64 // signed: positive = charging
	GridPowerKW  []float64 // signed: positive = purchase, negative = export
	BillWithBESS []float64 // currency, per hour
	BillNoBESS   []float64 // currency, per hour (battery_power = 0)

	TotalChargedKWh    float64
	TotalDischargedKWh float64
	ObservedRoundtrip  float64
	EquivalentCycles   float64
	UtilizationFrac    float64
}

const socDeadbandFrac = 0.05 // "SOC < SOCmax - 5%" / "SOC > SOCmin + 5%" in §4.8's table

// Dispatch runs the hour-by-hour BESS simulation over genKW (PV
// generation) and loadKW (consumption), both length-8760 (or 8784 in a
// leap reference year) series aligned to timestamps, against tariff tf
// and strategy. A zero-capacity state is a no-op: every hour passes
// through unchanged and all metrics are zero (§8 boundary behaviour).
func Dispatch(timestamps []time.Time, genKW, loadKW []float64, state State, strat Strategy, tf tariff.Tariff, peakShavingLimitKW float64) Result {
	n := len(genKW)
	result := Result{
		SOC:            make([]float64, n),
		BatteryPowerKW: make([]float64, n),
		GridPowerKW:    make([]float64, n),
		BillWithBESS:   make([]float64, n),
		BillNoBESS:     make([]float64, n),
	}

	if state.CapacityKWh <= 0 {
		for i := 0; i < n; i++ {
			grid := loadKW[i] - genKW[i]
			result.GridPowerKW[i] = grid
			bill := billFor(grid, tf.PriceAt(timestamps[i].Hour()))
			result.BillWithBESS[i] = bill
			result.BillNoBESS[i] = bill
		}
		return result
	}

	etaCharge, etaDischarge := state.efficiencies()
	soc := state.SOCInitial
	hoursActive := 0

	// Arbitrage's charge/discharge threshold is the mean of the tariff's
	// peak and off-peak prices (§4.8); computed once since the tariff
	// itself doesn't vary hour to hour beyond its band structure.
	arbitrageThreshold := (tf.PricePeak + tf.PriceOffPeak) / 2

	for i := 0; i < n; i++ {
		hour := timestamps[i].Hour()
		price := tf.PriceAt(hour)
		pv, load := genKW[i], loadKW[i]
		surplus := pv - load

		decision := decide(strat, price, arbitrageThreshold, load, peakShavingLimitKW, surplus, soc, state)

		batteryKW := 0.0
		switch {
		case decision > 0: // charge
			capByPower := state.PowerKW
			capByHeadroom := (state.SOCMax - soc) * state.CapacityKWh / etaCharge
			cap := math.Min(capByPower, capByHeadroom)

			drawn := cap
			if strat != Arbitrage {
				drawn = math.Min(math.Max(surplus, 0), cap)
			}
			if drawn < 0 {
				drawn = 0
			}
			added := drawn * etaCharge
			soc += added / state.CapacityKWh
			if soc > state.SOCMax {
				soc = state.SOCMax
			}
			batteryKW = drawn
			result.TotalChargedKWh += drawn
			if drawn > 0 {
				hoursActive++
			}

		case decision < 0: // discharge
			capByPower := state.PowerKW
			capByHeadroom := (soc - state.SOCMin) * state.CapacityKWh * etaDischarge
			cap := math.Min(capByPower, capByHeadroom)
			if cap < 0 {
				cap = 0
			}
			delivered := cap
			soc -= delivered / etaDischarge / state.CapacityKWh
			if soc < state.SOCMin {
				soc = state.SOCMin
			}
			batteryKW = -delivered
			result.TotalDischargedKWh += delivered
			if delivered > 0 {
				hoursActive++
			}
		}

		result.SOC[i] = soc
		result.BatteryPowerKW[i] = batteryKW

		batteryOut := math.Max(-batteryKW, 0)
		batteryIn := math.Max(batteryKW, 0)
		gridWithBESS := load - pv - batteryOut + batteryIn
		result.GridPowerKW[i] = gridWithBESS
		result.BillWithBESS[i] = billFor(gridWithBESS, price)

		gridNoBESS := load - pv
		result.BillNoBESS[i] = billFor(gridNoBESS, price)
	}

	if result.TotalChargedKWh > 0 {
		result.ObservedRoundtrip = result.TotalDischargedKWh / result.TotalChargedKWh
	}
	if state.CapacityKWh > 0 {
		result.EquivalentCycles = (result.TotalChargedKWh + result.TotalDischargedKWh) / (2 * state.CapacityKWh)
	}
	if n > 0 {
		result.UtilizationFrac = float64(hoursActive) / float64(n)
	}

	return result
}

// billFor prices one hour's grid flow: positive (purchase) at price,
// negative (export) credited at 0.7x price (§4.8).
func billFor(gridKW, price float64) float64 {
	if gridKW >= 0 {
		return gridKW * price
	}
	return gridKW * price * 0.7
}

// decide implements the §4.8 decision table, returning +1 to charge,
// -1 to discharge, 0 to hold.
func decide(strat Strategy, price, arbitrageThreshold, load, peakShavingLimit, surplus, soc float64, state State) int {
	canCharge := soc < state.SOCMax-socDeadbandFrac
	canDischarge := soc > state.SOCMin+socDeadbandFrac

	switch strat {
	case Arbitrage:
		if price < arbitrageThreshold && canCharge {
			return 1
		}
		if price >= arbitrageThreshold && canDischarge {
			return -1
		}
	case PeakShaving:
		if load <= peakShavingLimit && surplus > 0 && canCharge {
			return 1
		}
		if load > peakShavingLimit && canDischarge {
			return -1
		}
	case SelfConsumption:
		if surplus > 0.1 && canCharge {
			return 1
		}
		if surplus < -0.1 && canDischarge {
			return -1
		}
	}
	return 0
}
