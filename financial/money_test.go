package financial

import "testing"

func TestMoneyRoundsHeadlineFigures(t *testing.T) {
	result, err := Run(scenario3Input())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	money := result.Money()
	if !money.NPV.Equal(money.NPV.Round(2)) {
		t.Errorf("NPV %v not rounded to 2 decimal places", money.NPV)
	}
	if money.LCOEPerKWh.IsZero() && result.LCOE != 0 {
		t.Errorf("LCOEPerKWh rounded to zero from non-zero LCOE %v", result.LCOE)
	}
}
