package financial

// GroupAMonthInput is one month's inputs to the Group A accounting
// algorithm (§4.9): local consumption split into off-peak/peak, with the
// generator billed on a Green-tariff unit.
type GroupAMonthInput struct {
	Month         int
	GenerationKWh float64
	LoadOffPeakKWh float64
	LoadPeakKWh    float64
	OffPeakPrice   float64
	PeakPrice      float64
	FSimul         float64
	TERatio        float64 // f = TE_peak / TE_off_peak
	FioBRate       float64
	NonCompFrac    float64
	Remote         RemoteAllocation
}

// GroupAMonthResult mirrors GroupBMonthResult; the accounting differs in
// how off-peak vs. peak consumption is abated, not in the shared bank and
// remote-allocation mechanics.
type GroupAMonthResult struct {
	InstantaneousSavings float64
	FioBCharge           float64
	LocalSavings         float64
	RemoteSavings        float64
	TotalSavings         float64
	BankAfter            float64
}

// RunGroupAMonth implements §4.9's Group A monthly accounting.
func RunGroupAMonth(in GroupAMonthInput, bank *CreditBank) GroupAMonthResult {
	// Instantaneous self-consumption abates off-peak local consumption only.
	sim := minF(in.GenerationKWh*in.FSimul, in.LoadOffPeakKWh)
	instantaneousSavings := sim * in.OffPeakPrice

	newCredit := in.GenerationKWh - sim
	remOffPeak := in.LoadOffPeakKWh - sim

	pool := bank.Local + newCredit
	abatedOffPeak, abatedPeak, consumed := abateOffPeakThenPeak(pool, remOffPeak, in.LoadPeakKWh, in.TERatio)

	bank.Local = clampNonNegative(pool - consumed)

	fioBCharge := consumed * in.FioBRate * in.NonCompFrac
	localSavings := abatedOffPeak*in.OffPeakPrice + abatedPeak*in.PeakPrice - fioBCharge + instantaneousSavings

	bankBeforeRemote := bank.Local
	remoteSavings, bankConsumed, _ := in.Remote.allocateRemote(in.Month, bankBeforeRemote)
	bank.Local = clampNonNegative(bankBeforeRemote - bankConsumed)

	return GroupAMonthResult{
		InstantaneousSavings: instantaneousSavings,
		FioBCharge:           fioBCharge,
		LocalSavings:         localSavings,
		RemoteSavings:        remoteSavings,
		TotalSavings:         localSavings + remoteSavings,
		BankAfter:            bank.Local,
	}
}
