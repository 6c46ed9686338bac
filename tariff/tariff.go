// Package tariff implements the Tariff data model (§3) and the
// time-of-use band lookup used by the BESS Dispatcher (§4.8).
package tariff

import "github.com/devskill-org/pvbess-engine/apperr"

// Kind is the tagged Tariff variant (§3, §9 "Config objects ->
// recognised-option enums").
type Kind string

const (
	Conventional Kind = "conventional"
	White        Kind = "white"
	Green        Kind = "green"
	Blue         Kind = "blue"
)

// ParseKind validates a tariff kind string; unknown strings are a
// ValidationError (§9).
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case Conventional, White, Green, Blue:
		return Kind(s), nil
	default:
		return "", apperr.NewValidation("tariff.kind", "unrecognised tariff kind %q", s)
	}
}

// Band is the time-of-use classification a lookup resolves to.
type Band string

const (
	Peak         Band = "peak"
	Intermediate Band = "intermediate"
	OffPeak      Band = "off_peak"
)

// TimeOfDay is an hour-of-day value in [0, 24).
type TimeOfDay int

// Window is an inclusive-start/exclusive-end hour range; it wraps past
// midnight when Start > End.
type Window struct {
	Start, End TimeOfDay
}

func (w Window) contains(hour int) bool {
	if w.Start == w.End {
		return false
	}
	if w.Start < w.End {
		return hour >= int(w.Start) && hour < int(w.End)
	}
	return hour >= int(w.Start) || hour < int(w.End)
}

// DefaultWhiteIntermediateWindows are the White-tariff's fixed
// intermediate bands (§4.8): 16-18 and 21-22.
func DefaultWhiteIntermediateWindows() []Window {
	return []Window{
		{Start: 16, End: 18},
		{Start: 21, End: 22},
	}
}

// Tariff is the §3 data model: energy prices per band, an optional
// demand charge, and the peak-hours window.
type Tariff struct {
	Kind Kind

	PricePeak     float64
	PriceOffPeak  float64
	PriceIntermediate float64

	DemandChargePerKW float64 // 0 = none

	PeakWindow         Window
	IntermediateWindows []Window // White tariff only; DefaultWhiteIntermediateWindows() if empty
}

// BandAt resolves the time-of-use band for a given hour-of-day (§4.8
// Tariff lookup).
//
//	White: peak window -> peak; fixed intermediate windows -> intermediate; else off-peak.
//	Conventional/Green/Blue: off-peak everywhere for dispatch purposes,
//	unless a peak window is separately defined.
func (t Tariff) BandAt(hour int) Band {
	if t.PeakWindow.contains(hour) {
		return Peak
	}
	if t.Kind == White {
		windows := t.IntermediateWindows
		if len(windows) == 0 {
			windows = DefaultWhiteIntermediateWindows()
		}
		for _, w := range windows {
			if w.contains(hour) {
				return Intermediate
			}
		}
	}
	return OffPeak
}

// PriceAt returns the energy price for the band at hour.
func (t Tariff) PriceAt(hour int) float64 {
	switch t.BandAt(hour) {
	case Peak:
		return t.PricePeak
	case Intermediate:
		return t.PriceIntermediate
	default:
		return t.PriceOffPeak
	}
}

// TERatio is the Group A credits-to-peak adjustment factor f =
// TE_peak / TE_off_peak (§4.9), used when abating peak consumption with
// off-peak-priced credits.
func TERatio(tePeak, teOffPeak float64) float64 {
	if teOffPeak == 0 {
		return 1
	}
	return tePeak / teOffPeak
}
