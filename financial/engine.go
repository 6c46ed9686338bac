package financial

import "github.com/devskill-org/pvbess-engine/apperr"

// FinancialResult is the §3 "Financial Result": NPV, IRR, paybacks, LCOE,
// profitability index, and the full per-year cash flow.
type FinancialResult struct {
	NPV                float64
	IRR                float64
	IRRWasFallback     bool
	SimplePaybackYears float64
	DiscountedPayback  float64
	LCOE               float64
	ProfitabilityIndex float64
	CashFlow           []CashFlowRow
	FinalBank          CreditBank
	Warnings           []string
}

// Run executes the §4.9 shared skeleton for one cash-flow input and derives
// NPV/IRR/payback/LCOE from the resulting rows.
func Run(in CashFlowInput) (*FinancialResult, error) {
	if err := in.FioB.Validate(); err != nil {
		return nil, err
	}
	if err := in.Remote.Validate(); err != nil {
		return nil, err
	}
	if in.Lifetime <= 0 {
		return nil, apperr.NewValidation("cashflow.lifetime", "must be > 0")
	}

	rows, bank := runCashFlow(in)

	npv := NPV(rows)
	irr, wasFallback := IRR(rows)
	// LCOE has no value without generation; a zero-generation run still
	// reports NPV, IRR and paybacks, with LCOE left at 0.
	lcoe := 0.0
	if in.MonthlyGenerationKWh != ([12]float64{}) {
		var err error
		lcoe, err = LCOE(rows, in.DiscountRate)
		if err != nil {
			return nil, err
		}
	}

	result := &FinancialResult{
		NPV:                npv,
		IRR:                irr,
		IRRWasFallback:     wasFallback,
		SimplePaybackYears: Payback(rows, false),
		DiscountedPayback:  Payback(rows, true),
		LCOE:               lcoe,
		ProfitabilityIndex: ProfitabilityIndex(npv, in.CAPEX),
		CashFlow:           rows,
		FinalBank:          bank,
	}
	if wasFallback {
		result.Warnings = append(result.Warnings, "IRR root finder diverged; fell back to the configured conservative rate")
	}
	return result, nil
}
