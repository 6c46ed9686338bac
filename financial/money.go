package financial

import "github.com/shopspring/decimal"

// MoneySummary is the decimal-rounded view of a FinancialResult suitable
// for display or API serialization (pack convention: money crossing a
// presentation boundary is shopspring/decimal, not a bare float). Internal
// cash-flow arithmetic stays in float64 — IRR's root finder and the
// degradation/inflation compounding need math.Pow, which decimal.Decimal
// doesn't provide.
type MoneySummary struct {
	NPV                decimal.Decimal
	SimplePaybackYears decimal.Decimal
	DiscountedPayback  decimal.Decimal
	LCOEPerKWh         decimal.Decimal
}

// Money rounds a FinancialResult's headline figures to 2 decimal places
// (currency) or 4 (LCOE, a per-kWh rate).
func (r *FinancialResult) Money() MoneySummary {
	return MoneySummary{
		NPV:                decimal.NewFromFloat(r.NPV).Round(2),
		SimplePaybackYears: decimal.NewFromFloat(r.SimplePaybackYears).Round(2),
		DiscountedPayback:  decimal.NewFromFloat(r.DiscountedPayback).Round(2),
		LCOEPerKWh:         decimal.NewFromFloat(r.LCOE).Round(4),
	}
}
