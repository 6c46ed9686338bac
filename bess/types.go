// Package bess implements the BESS Dispatcher (§4.8): an hour-by-hour
// state-of-charge simulation under a chosen dispatch strategy.
package bess

import (
	"math"

	"github.com/devskill-org/pvbess-engine/apperr"
)

// Strategy selects the charge/discharge decision policy (§4.8, §9
// "Config objects -> recognised-option enums").
type Strategy string

const (
	Arbitrage        Strategy = "arbitrage"
	PeakShaving      Strategy = "peak_shaving"
	SelfConsumption  Strategy = "self_consumption"
	Custom           Strategy = "custom" // never charges or discharges automatically
)

// ParseStrategy validates a strategy string; unrecognised strings
// resolve to Custom (never charge/discharge) rather than failing, per
// the §4.8 decision table's explicit "Custom/unknown -> never" row.
func ParseStrategy(s string) Strategy {
	switch Strategy(s) {
	case Arbitrage, PeakShaving, SelfConsumption:
		return Strategy(s)
	default:
		return Custom
	}
}

// State is the §3 BESS State data model.
type State struct {
	CapacityKWh  float64
	PowerKW      float64 // max charge/discharge rate
	SOCMin       float64 // fraction [0,1]
	SOCMax       float64 // fraction [0,1]
	EtaCharge    float64 // 0 => derived from EtaRoundtrip
	EtaDischarge float64
	EtaRoundtrip float64 // used only when EtaCharge/EtaDischarge are unset
	SOCInitial   float64
}

// efficiencies resolves charge/discharge efficiencies, splitting
// roundtrip efficiency as sqrt(eta_roundtrip) when not given directly
// (§3 derived invariant: eta_charge * eta_discharge = eta_roundtrip).
func (s State) efficiencies() (charge, discharge float64) {
	if s.EtaCharge > 0 && s.EtaDischarge > 0 {
		return s.EtaCharge, s.EtaDischarge
	}
	roundtrip := s.EtaRoundtrip
	if roundtrip <= 0 {
		roundtrip = 1
	}
	eta := math.Sqrt(roundtrip)
	return eta, eta
}

// Validate checks the structural invariants of a BESS State.
func (s State) Validate() error {
	if s.CapacityKWh < 0 {
		return apperr.NewValidation("bess.capacity_kwh", "must be >= 0")
	}
	if s.SOCMin < 0 || s.SOCMax > 1 || s.SOCMin >= s.SOCMax {
		return apperr.NewValidation("bess.soc_bounds", "require 0 <= soc_min < soc_max <= 1")
	}
	if s.SOCInitial < s.SOCMin || s.SOCInitial > s.SOCMax {
		return apperr.NewValidation("bess.soc_initial", "must lie within [soc_min, soc_max]")
	}
	return nil
}
