package pvmodel

import (
	"math"

	"github.com/devskill-org/pvbess-engine/apperr"
)

// MPPTSizingInput gathers the module/inverter/site facts needed by
// SizeMPPT (§4.6).
type MPPTSizingInput struct {
	Module       Module
	Inverter     Inverter
	PFvMaxW      float64 // optional DC-side cap; falls back to Inverter.PACO
	MinAmbientC  float64 // T_min, the coldest hourly temperature on record
	SafetyFactor float64 // 1.25 if zero
}

// MPPTSizingResult is the admissible electrical configuration (§4.6).
type MPPTSizingResult struct {
	VOCCold             float64
	ModulesPerMPPTMax   int // total modules admissible per MPPT channel, before dividing by string count
	ModulesPerStringMax int
	StringsPerMPPT      int // echoed from Inverter.StringsPerMPPT
	OversizingRatio     float64
	OversizingAdvisory  bool
	Warnings            []string
}

// SizeMPPT computes admissible modules/string and validates the current
// draw for a candidate module+inverter pairing, per §4.6's six-step
// algorithm.
func SizeMPPT(in MPPTSizingInput) (*MPPTSizingResult, error) {
	safety := in.SafetyFactor
	if safety <= 0 {
		safety = 1.25
	}

	vocCold := in.Module.VocSTC * (1 + (in.Module.BetaVoc/100)*(in.MinAmbientC-25))

	if in.Inverter.VMPPTMax <= 0 {
		return nil, apperr.NewValidation("inverter.vmppt_max", "must be positive")
	}
	voltageBound := int(math.Floor(in.Inverter.VMPPTMax / vocCold))
	if voltageBound < 1 {
		return nil, apperr.NewCalculation("pvmodel.SizeMPPT", "V_oc_cold (%.1f V) exceeds V_mppt_max (%.1f V): no module count is admissible", vocCold, in.Inverter.VMPPTMax)
	}

	pLimit := in.PFvMaxW
	if pLimit <= 0 {
		pLimit = in.Inverter.PACO
	}
	if pLimit <= 0 || in.Module.NameplateWattsSTC <= 0 || in.Inverter.MPPTChannels <= 0 {
		return nil, apperr.NewValidation("pvmodel.SizeMPPT", "pLimit, module nameplate, and MPPT channel count must all be positive")
	}

	totalModuleCap := int(math.Floor(pLimit / in.Module.NameplateWattsSTC))
	powerBoundPerMPPT := totalModuleCap / in.Inverter.MPPTChannels

	modulesPerMPPTMax := powerBoundPerMPPT
	if voltageBound < modulesPerMPPTMax {
		modulesPerMPPTMax = voltageBound
	}
	if modulesPerMPPTMax < 1 {
		return nil, apperr.NewCalculation("pvmodel.SizeMPPT", "no admissible modules-per-MPPT configuration")
	}

	stringsPerMPPT := in.Inverter.StringsPerMPPT
	if stringsPerMPPT < 1 {
		stringsPerMPPT = 1
	}
	modulesPerStringMax := modulesPerMPPTMax / stringsPerMPPT
	if modulesPerStringMax < 1 {
		return nil, apperr.NewCalculation("pvmodel.SizeMPPT", "modules-per-MPPT bound (%d) cannot support %d strings", modulesPerMPPTMax, stringsPerMPPT)
	}

	if in.Inverter.MaxInputCurrentA > 0 {
		requiredCurrent := float64(stringsPerMPPT) * safety * in.Module.IscSTC
		if requiredCurrent > in.Inverter.MaxInputCurrentA {
			return nil, apperr.NewValidation("pvmodel.SizeMPPT", "strings_per_mppt(%d) * %.2f * Isc(%.2fA) = %.2fA exceeds max input current %.2fA", stringsPerMPPT, safety, in.Module.IscSTC, requiredCurrent, in.Inverter.MaxInputCurrentA)
		}
	}

	dcNameplateW := float64(modulesPerStringMax*stringsPerMPPT*in.Inverter.MPPTChannels) * in.Module.NameplateWattsSTC
	oversizing := 0.0
	if in.Inverter.PACO > 0 {
		oversizing = dcNameplateW / in.Inverter.PACO
	}

	result := &MPPTSizingResult{
		VOCCold:             vocCold,
		ModulesPerMPPTMax:   modulesPerMPPTMax,
		ModulesPerStringMax: modulesPerStringMax,
		StringsPerMPPT:      stringsPerMPPT,
		OversizingRatio:     oversizing,
	}

	if oversizing > 0 {
		switch {
		case oversizing > 1.00 && oversizing <= 1.50:
			result.OversizingAdvisory = true
			result.Warnings = append(result.Warnings, "DC/AC oversizing ratio above 1.00; informational only per §4.6")
		default:
			return nil, apperr.NewValidation("pvmodel.SizeMPPT", "DC/AC ratio %.2f outside the admissible (1.00, 1.50] oversizing range", oversizing)
		}
	}

	return result, nil
}
