package pvmodel

import "testing"

func typicalModule() Module {
	return Module{
		NameplateWattsSTC: 540,
		VocSTC:            49.5,
		IscSTC:            13.9,
		BetaVoc:           -0.27, // %/°C
	}
}

func typicalInverter() Inverter {
	return Inverter{
		PACO:             6000,
		MPPTChannels:     2,
		StringsPerMPPT:   2,
		MaxInputCurrentA: 40,
		VMPPTMax:         550,
		VMPPTMin:         150,
	}
}

func TestSizeMPPTColdestBrazilianCity(t *testing.T) {
	// §8 boundary behaviour: T_min ~= -10C must not push V_oc_cold past
	// V_mppt_max for any inverter in the test catalogue.
	input := MPPTSizingInput{
		Module:      typicalModule(),
		Inverter:    typicalInverter(),
		PFvMaxW:     7200,
		MinAmbientC: -10,
	}
	result, err := SizeMPPT(input)
	if err != nil {
		t.Fatalf("SizeMPPT() error = %v", err)
	}
	if result.VOCCold > input.Inverter.VMPPTMax {
		t.Errorf("VOCCold = %v exceeds VMPPTMax = %v", result.VOCCold, input.Inverter.VMPPTMax)
	}
	if result.ModulesPerStringMax < 1 {
		t.Errorf("ModulesPerStringMax = %d, want >= 1", result.ModulesPerStringMax)
	}
}

func TestSizeMPPTFailsOnExcessiveStringCurrent(t *testing.T) {
	inv := typicalInverter()
	inv.MaxInputCurrentA = 10 // too low for the configured string count at 1.25x safety
	input := MPPTSizingInput{
		Module:      typicalModule(),
		Inverter:    inv,
		PFvMaxW:     7200,
		MinAmbientC: 10,
	}
	_, err := SizeMPPT(input)
	if err == nil {
		t.Fatal("SizeMPPT() error = nil, want current-limit validation failure")
	}
}

func TestSizeMPPTFailsWhenVocColdExceedsVMPPTMax(t *testing.T) {
	inv := typicalInverter()
	inv.VMPPTMax = 40 // below a single module's VocSTC
	input := MPPTSizingInput{
		Module:      typicalModule(),
		Inverter:    inv,
		PFvMaxW:     7200,
		MinAmbientC: 10,
	}
	_, err := SizeMPPT(input)
	if err == nil {
		t.Fatal("SizeMPPT() error = nil, want voltage-bound failure")
	}
}

func TestSizeMPPTFlagsOversizingAdvisory(t *testing.T) {
	input := MPPTSizingInput{
		Module:      typicalModule(),
		Inverter:    typicalInverter(),
		PFvMaxW:     9000, // large enough DC cap to push the ratio above 1.00
		MinAmbientC: 10,
	}
	result, err := SizeMPPT(input)
	if err != nil {
		t.Fatalf("SizeMPPT() error = %v", err)
	}
	if !result.OversizingAdvisory {
		t.Errorf("expected OversizingAdvisory = true, got ratio %v", result.OversizingRatio)
	}
	if result.OversizingRatio <= 1.00 || result.OversizingRatio > 1.50 {
		t.Errorf("OversizingRatio = %v, want within (1.00, 1.50]", result.OversizingRatio)
	}
}

func TestSizeMPPTRejectsUndersizedArray(t *testing.T) {
	inv := typicalInverter()
	inv.PACO = 20000 // far larger than the array PFvMaxW can support
	input := MPPTSizingInput{
		Module:      typicalModule(),
		Inverter:    inv,
		PFvMaxW:     7200,
		MinAmbientC: 10,
	}
	_, err := SizeMPPT(input)
	if err == nil {
		t.Fatal("SizeMPPT() error = nil, want oversizing-ratio failure for an undersized array")
	}
}
