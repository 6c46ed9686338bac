package financial

import "math"

// AccountingMode selects which monthly accounting algorithm a cash-flow run
// uses (§4.9).
type AccountingMode int

const (
	GroupB AccountingMode = iota
	GroupA
)

// CashFlowRow is one year's result row (§3 "Cash Flow Row").
type CashFlowRow struct {
	Year                 int
	NominalFlow          float64
	CumulativeNominal    float64
	DiscountedFlow       float64
	CumulativeDiscounted float64
	EnergyGeneratedKWh   float64
	Savings              float64
	OMCost               float64
}

// CashFlowInput is the shared skeleton's configuration (§4.9 "Shared
// skeleton") plus the mode-specific monthly-accounting inputs.
type CashFlowInput struct {
	CAPEX           float64
	OMAnnual        float64
	Lifetime        int
	DiscountRate    float64
	DegradationRate float64
	InflationEnergy float64
	InflationOM     float64
	SalvageValue    float64

	Mode     AccountingMode
	FioB     FioBSchedule
	FioBRate float64
	FSimul   float64
	TERatio  float64 // Group A only

	MonthlyGenerationKWh [12]float64 // year-1 baseline, pre-degradation

	// Group B
	MonthlyLoadKWh [12]float64
	TariffFlat     float64

	// Group A
	MonthlyLoadOffPeakKWh [12]float64
	MonthlyLoadPeakKWh    [12]float64
	OffPeakPrice          float64
	PeakPrice             float64

	Remote RemoteAllocation

	// BESSAnnualSavings is a year-1 baseline currency saving from battery
	// dispatch (bill-without-BESS minus bill-with-BESS), outside the
	// credit-bank accounting above; it escalates with InflationEnergy like
	// every other energy-linked saving. BESSCAPEX is the battery's own
	// capital cost, used only to size the year-10 reposition outflow
	// (§4.9 "Hybrid comparison"): 0.70 x BESSCAPEX when Lifetime > 10.
	BESSAnnualSavings float64
	BESSCAPEX         float64
}

// runCashFlow rolls the year-by-year cash flow of §4.9's shared skeleton and
// returns the per-year rows plus the final credit bank state.
func runCashFlow(in CashFlowInput) ([]CashFlowRow, CreditBank) {
	rows := make([]CashFlowRow, 0, in.Lifetime+1)
	rows = append(rows, CashFlowRow{
		Year:                 0,
		NominalFlow:          -in.CAPEX,
		CumulativeNominal:    -in.CAPEX,
		DiscountedFlow:       -in.CAPEX,
		CumulativeDiscounted: -in.CAPEX,
	})

	bank := CreditBank{}
	cumulativeNominal := -in.CAPEX
	cumulativeDiscounted := -in.CAPEX

	for y := 1; y <= in.Lifetime; y++ {
		degradationFactor := math.Pow(1-in.DegradationRate, float64(y-1))
		energyInflation := math.Pow(1+in.InflationEnergy, float64(y-1))
		omInflation := math.Pow(1+in.InflationOM, float64(y-1))
		calendarYear := in.FioB.CalendarYear(y)
		nonCompFrac := in.FioB.NonCompensatedFraction(calendarYear)

		yearSavings := 0.0
		yearGeneration := 0.0

		for m := 0; m < 12; m++ {
			gen := in.MonthlyGenerationKWh[m] * degradationFactor
			yearGeneration += gen

			switch in.Mode {
			case GroupB:
				tariff := in.TariffFlat * energyInflation
				res := RunGroupBMonth(GroupBMonthInput{
					Month:         m,
					GenerationKWh: gen,
					LoadKWh:       in.MonthlyLoadKWh[m],
					Tariff:        tariff,
					FSimul:        in.FSimul,
					FioBRate:      in.FioBRate,
					NonCompFrac:   nonCompFrac,
					Remote:        in.Remote,
				}, &bank)
				yearSavings += res.TotalSavings

			case GroupA:
				offPeak := in.OffPeakPrice * energyInflation
				peak := in.PeakPrice * energyInflation
				res := RunGroupAMonth(GroupAMonthInput{
					Month:          m,
					GenerationKWh:  gen,
					LoadOffPeakKWh: in.MonthlyLoadOffPeakKWh[m],
					LoadPeakKWh:    in.MonthlyLoadPeakKWh[m],
					OffPeakPrice:   offPeak,
					PeakPrice:      peak,
					FSimul:         in.FSimul,
					TERatio:        in.TERatio,
					FioBRate:       in.FioBRate,
					NonCompFrac:    nonCompFrac,
					Remote:         in.Remote,
				}, &bank)
				yearSavings += res.TotalSavings
			}
		}

		yearSavings += in.BESSAnnualSavings * energyInflation

		omCost := in.OMAnnual * omInflation
		flow := yearSavings - omCost
		if y == in.Lifetime {
			flow += in.SalvageValue
		}
		if y == 10 && in.Lifetime > 10 {
			flow -= 0.70 * in.BESSCAPEX
		}

		cumulativeNominal += flow
		discounted := flow / math.Pow(1+in.DiscountRate, float64(y))
		cumulativeDiscounted += discounted

		rows = append(rows, CashFlowRow{
			Year:                 y,
			NominalFlow:          flow,
			CumulativeNominal:    cumulativeNominal,
			DiscountedFlow:       discounted,
			CumulativeDiscounted: cumulativeDiscounted,
			EnergyGeneratedKWh:   yearGeneration,
			Savings:              yearSavings,
			OMCost:               omCost,
		})
	}

	return rows, bank
}
