package financial

import "github.com/devskill-org/pvbess-engine/apperr"

// RemoteClassConfig is one of the three remote-consumption allocation
// targets (§3): remote Group B, remote Group A-Green, remote Group A-Blue.
type RemoteClassConfig struct {
	Enabled  bool
	SharePct float64 // percent of local leftover credit this class receives

	// Monthly consumption, kWh. PeakKWh is 0 for the remote-B class (no
	// time-of-use split); both are populated for the A-Green/A-Blue classes.
	OffPeakKWh [12]float64
	PeakKWh    [12]float64

	OffPeakPrice float64
	PeakPrice    float64
	TERatio      float64 // TE_peak / TE_off_peak; unused when PeakKWh is all zero
}

// RemoteClassMonthResult is one month's outcome for one remote class.
type RemoteClassMonthResult struct {
	Savings  float64
	Consumed float64 // kWh of credit actually consumed this month
}

// abateOffPeakThenPeak applies the shared off-peak-first, peak-at-TE-ratio
// credit-abatement rule (§4.9: "abates local off-peak first (1:1), then
// local peak via the f factor") to a pool of available credits.
func abateOffPeakThenPeak(creditsAvailable, offPeakConsumption, peakConsumption, teRatio float64) (abatedOffPeak, abatedPeak, consumed float64) {
	abatedOffPeak = minF(creditsAvailable, offPeakConsumption)
	remaining := creditsAvailable - abatedOffPeak

	if peakConsumption > 0 && teRatio > 0 {
		maxPeakByCredits := remaining / teRatio
		abatedPeak = minF(maxPeakByCredits, peakConsumption)
	}
	consumed = abatedOffPeak + abatedPeak*teRatio
	return abatedOffPeak, abatedPeak, consumed
}

// abateMonth applies the §4.9 remote-allocation rule to one class for one
// month: off-peak consumption is abated 1:1 first, then peak consumption at
// the TE-ratio exchange rate.
func (c RemoteClassConfig) abateMonth(month int, creditsAvailable float64) RemoteClassMonthResult {
	abatedOffPeak, abatedPeak, consumed := abateOffPeakThenPeak(creditsAvailable, c.OffPeakKWh[month], c.PeakKWh[month], c.TERatio)
	savings := abatedOffPeak*c.OffPeakPrice + abatedPeak*c.PeakPrice
	return RemoteClassMonthResult{Savings: savings, Consumed: consumed}
}

func minF(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// RemoteAllocation holds the configured shares for the three remote classes
// plus the local share; the four must sum to 100% +/- 1% (§3 invariant).
type RemoteAllocation struct {
	LocalSharePct float64
	RemoteB       RemoteClassConfig
	RemoteAGreen  RemoteClassConfig
	RemoteABlue   RemoteClassConfig
}

func (r RemoteAllocation) Validate() error {
	total := r.LocalSharePct
	for _, c := range []RemoteClassConfig{r.RemoteB, r.RemoteAGreen, r.RemoteABlue} {
		if c.Enabled {
			total += c.SharePct
		}
	}
	if total < 99 || total > 101 {
		return apperr.NewValidation("remote_allocation.shares", "local + enabled remote shares sum to %.2f%%, want 100%% +/- 1%%", total)
	}
	return nil
}

// allocateRemote snapshots bankBeforeRemote and distributes it across the
// three enabled remote classes simultaneously (§4.9 step 8): every class
// computes its abatement against the same starting snapshot, not against
// each other's results.
func (r RemoteAllocation) allocateRemote(month int, bankBeforeRemote float64) (totalSavings, bankConsumed float64, perClass [3]RemoteClassMonthResult) {
	classes := [3]RemoteClassConfig{r.RemoteB, r.RemoteAGreen, r.RemoteABlue}
	for i, c := range classes {
		if !c.Enabled {
			continue
		}
		share := bankBeforeRemote * c.SharePct / 100
		result := c.abateMonth(month, share)
		perClass[i] = result
		totalSavings += result.Savings
		bankConsumed += result.Consumed
	}
	return totalSavings, bankConsumed, perClass
}
