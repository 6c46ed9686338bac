package pvmodel

// FallbackSAPMCoefficients is the single lookup point for SAPM thermal
// coefficients missing from a module's catalogue entry (§9: "this is
// *required* behaviour... but must be explicit in one lookup function,
// not scattered through call sites"). Values are the Sandia database's
// "open_rack_glass_polymer" defaults (glass front, polymer backsheet),
// representative of the open-rack modules most Brazilian
// residential/commercial catalogues ship.
func FallbackSAPMCoefficients() SAPMThermalCoefficients {
	return SAPMThermalCoefficients{
		A0: -3.56,
		A1: -0.075,
		A2: 0,
		A3: 0,
		A4: 0,
		B0: 0,
		B1: 0,
		B2: 0,
		B3: 0,
		B4: 0,
		B5: 0,
		DeltaT: 3,
	}
}

// resolveThermal returns m.Thermal if supplied, else the fallback table.
func resolveThermal(m Module) SAPMThermalCoefficients {
	if m.Thermal.HasCoefficients() {
		return m.Thermal
	}
	return FallbackSAPMCoefficients()
}
