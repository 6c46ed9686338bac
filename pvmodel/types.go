// Package pvmodel implements the PV Electrical Model (§4.4), Inverter
// Aggregator (§4.5) and MPPT Sizing Check (§4.6): turning plane-of-array
// irradiance into a DC power series per plane, aggregating per inverter
// with AC clipping, and validating module/inverter electrical pairings.
package pvmodel

// Module is a PV module's electrical and thermal specification (§3).
type Module struct {
	NameplateWattsSTC float64 // nominal STC power, W
	VocSTC            float64 // V
	IscSTC            float64 // A
	VmppSTC           float64 // V
	ImppSTC           float64 // A
	AlphaSC           float64 // temp coeff of Isc, A/°C
	BetaVoc           float64 // temp coeff of Voc, %/°C
	GammaPmp          float64 // temp coeff of Pmp, 1/°C (negative)
	CellsInSeries     int

	// Single-diode reference parameters (optional beyond the pvwatts-style
	// approximation below; carried for forward compatibility with a future
	// full single-diode solve).
	ARef    float64
	ILRef   float64
	IoRef   float64
	Rs      float64
	RshRef  float64

	Thermal SAPMThermalCoefficients
}

// SAPMThermalCoefficients are the Sandia Array Performance Model cell
// temperature coefficients (§9: "Monkey-patched defaults in model
// coefficients" — missing values are filled from FallbackSAPMCoefficients).
type SAPMThermalCoefficients struct {
	A0, A1, A2, A3, A4 float64
	B0, B1, B2, B3, B4, B5 float64
	DeltaT float64
}

// HasCoefficients reports whether any of A0-A4 is non-zero; B0-B5 and
// DeltaT are not consulted. A value with A0-A4 all zero is treated as
// "not supplied" so the fallback lookup in coefficients.go can kick in.
func (c SAPMThermalCoefficients) HasCoefficients() bool {
	return c.A0 != 0 || c.A1 != 0 || c.A2 != 0 || c.A3 != 0 || c.A4 != 0
}

// Inverter is the per-inverter electrical spec (§3).
type Inverter struct {
	PACO             float64 // AC nameplate, W
	MaxDCInput       float64 // W, 0 = unbounded; SizeMPPT does not read it (its DC cap is MPPTSizingInput.PFvMaxW)
	MPPTChannels     int
	StringsPerMPPT   int
	MaxInputCurrentA float64
	VMPPTMax         float64
	VMPPTMin         float64
	DCACEfficiency   float64 // default 0.98 if zero
}

func (inv Inverter) efficiency() float64 {
	if inv.DCACEfficiency <= 0 {
		return 0.98
	}
	return inv.DCACEfficiency
}

// Plane is one roof plane's electrical configuration (§3), excluding
// its geometry (tilt/azimuth), which solar.Engine already folded into
// the POA series supplied to DCPowerSeries.
type Plane struct {
	ModulesPerString int
	Strings          int
}

func (p Plane) moduleCount() int {
	return p.ModulesPerString * p.Strings
}

// Losses is the system-loss block applied once at the AC post-clip
// stage (§4.4: "not pre-attenuated... applied once as a single
// multiplicative factor").
type Losses struct {
	SoilingPct   float64
	ShadingPct   float64
	MismatchPct  float64
	WiringPct    float64
	OtherPct     float64
}

// Factor returns (1 - sum(losses)/100), clamped to [0, 1].
func (l Losses) Factor() float64 {
	sum := l.SoilingPct + l.ShadingPct + l.MismatchPct + l.WiringPct + l.OtherPct
	factor := 1 - sum/100
	if factor < 0 {
		return 0
	}
	if factor > 1 {
		return 1
	}
	return factor
}
