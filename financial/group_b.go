package financial

// GroupBMonthInput is one month's inputs to the Group B accounting
// algorithm (§4.9).
type GroupBMonthInput struct {
	Month        int // 0-indexed, for remote-class consumption lookups
	GenerationKWh float64
	LoadKWh       float64
	Tariff        float64
	FSimul        float64 // instantaneous self-consumption factor
	FioBRate      float64
	NonCompFrac   float64
	Remote        RemoteAllocation
}

// GroupBMonthResult is one month's outcome: local savings, the Fio-B
// charge deducted from it, and the credit bank's state after the month.
type GroupBMonthResult struct {
	InstantaneousSavings float64
	FioBCharge           float64
	LocalSavings         float64
	RemoteSavings        float64
	TotalSavings         float64
	BankAfter            float64
}

// RunGroupBMonth implements §4.9's Group B monthly accounting, steps 1-8.
func RunGroupBMonth(in GroupBMonthInput, bank *CreditBank) GroupBMonthResult {
	sim := minF(in.GenerationKWh*in.FSimul, in.LoadKWh)
	instantaneousSavings := sim * in.Tariff

	newCredit := in.GenerationKWh - sim
	remainingLoad := in.LoadKWh - sim

	aNew := minF(newCredit, remainingLoad)
	aBank := minF(bank.Local, remainingLoad-aNew)

	bank.Local = clampNonNegative(bank.Local + (newCredit - aNew) - aBank)

	abated := aNew + aBank
	fioBCharge := abated * in.FioBRate * in.NonCompFrac
	localSavings := abated*in.Tariff - fioBCharge + instantaneousSavings

	bankBeforeRemote := bank.Local
	remoteSavings, bankConsumed, _ := in.Remote.allocateRemote(in.Month, bankBeforeRemote)
	bank.Local = clampNonNegative(bankBeforeRemote - bankConsumed)

	return GroupBMonthResult{
		InstantaneousSavings: instantaneousSavings,
		FioBCharge:           fioBCharge,
		LocalSavings:         localSavings,
		RemoteSavings:        remoteSavings,
		TotalSavings:         localSavings + remoteSavings,
		BankAfter:            bank.Local,
	}
}
