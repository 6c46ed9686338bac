package financial

// ScenarioResults holds the base result plus the three perturbed re-runs
// (§4.9 "Scenario analysis").
type ScenarioResults struct {
	Base         *FinancialResult
	Optimistic   *FinancialResult
	Conservative *FinancialResult
	Pessimistic  *FinancialResult
}

// perturb applies a scenario's tariff/discount/CAPEX multipliers to a copy
// of the base input. Tariff fields for both Group B and Group A are scaled
// together; only the mode-relevant fields matter downstream.
func perturb(in CashFlowInput, tariffMultiplier, discountDeltaPP, capexMultiplier float64) CashFlowInput {
	out := in
	out.TariffFlat *= tariffMultiplier
	out.OffPeakPrice *= tariffMultiplier
	out.PeakPrice *= tariffMultiplier
	out.DiscountRate += discountDeltaPP
	out.CAPEX *= capexMultiplier
	return out
}

// RunScenarios produces the base case and the three standard perturbations
// (§4.9): optimistic (tariff x1.10, discount -1pp, CAPEX x0.80), conservative
// (tariff x0.95, discount +1pp), pessimistic (tariff x0.90, discount +2pp,
// CAPEX x1.20).
func RunScenarios(in CashFlowInput) (*ScenarioResults, error) {
	base, err := Run(in)
	if err != nil {
		return nil, err
	}
	optimistic, err := Run(perturb(in, 1.10, -0.01, 0.80))
	if err != nil {
		return nil, err
	}
	conservative, err := Run(perturb(in, 0.95, 0.01, 1.00))
	if err != nil {
		return nil, err
	}
	pessimistic, err := Run(perturb(in, 0.90, 0.02, 1.20))
	if err != nil {
		return nil, err
	}
	return &ScenarioResults{
		Base:         base,
		Optimistic:   optimistic,
		Conservative: conservative,
		Pessimistic:  pessimistic,
	}, nil
}

// SensitivityPoint is one swept parameter value and its resulting NPV.
type SensitivityPoint struct {
	ParameterDelta float64 // the swept delta (fraction for tariff, pp for rates)
	NPV            float64
}

// TariffSensitivity sweeps tariff in [-20%, +20%] step 5% (§4.9).
func TariffSensitivity(in CashFlowInput) ([]SensitivityPoint, error) {
	return sweep(in, -0.20, 0.20, 0.05, func(base CashFlowInput, delta float64) CashFlowInput {
		out := base
		out.TariffFlat *= 1 + delta
		out.OffPeakPrice *= 1 + delta
		out.PeakPrice *= 1 + delta
		return out
	})
}

// InflationSensitivity sweeps energy inflation by +/-2pp step 0.5pp.
func InflationSensitivity(in CashFlowInput) ([]SensitivityPoint, error) {
	return sweep(in, -0.02, 0.02, 0.005, func(base CashFlowInput, delta float64) CashFlowInput {
		out := base
		out.InflationEnergy += delta
		return out
	})
}

// DiscountSensitivity sweeps discount rate by +/-2pp step 0.5pp.
func DiscountSensitivity(in CashFlowInput) ([]SensitivityPoint, error) {
	return sweep(in, -0.02, 0.02, 0.005, func(base CashFlowInput, delta float64) CashFlowInput {
		out := base
		out.DiscountRate += delta
		return out
	})
}

func sweep(in CashFlowInput, from, to, step float64, apply func(CashFlowInput, float64) CashFlowInput) ([]SensitivityPoint, error) {
	var points []SensitivityPoint
	for delta := from; delta <= to+1e-9; delta += step {
		result, err := Run(apply(in, delta))
		if err != nil {
			return nil, err
		}
		points = append(points, SensitivityPoint{ParameterDelta: delta, NPV: result.NPV})
	}
	return points, nil
}
