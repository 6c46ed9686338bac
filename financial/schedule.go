// Package financial implements the Financial Engine (§4.9): a 25-year (or
// configurable lifetime) cash-flow roll-up under Law 14.300's Fio-B
// phase-in, Group A/Group B credit-bank accounting, and NPV/IRR/payback/LCOE.
package financial

import "github.com/devskill-org/pvbess-engine/apperr"

// FioBSchedule maps calendar year to the non-compensated fraction charged
// on distributed-generation credits (§3, §4.9). Years past the last mapped
// entry inherit the last value.
type FioBSchedule struct {
	BaseYear  int
	Fractions map[int]float64 // calendar year -> fraction in [0,1]
}

// Validate checks that every scheduled fraction lies in [0,1] and that the
// schedule is non-empty.
func (s FioBSchedule) Validate() error {
	if len(s.Fractions) == 0 {
		return apperr.NewValidation("fiob_schedule.fractions", "must contain at least one entry")
	}
	for year, frac := range s.Fractions {
		if frac < 0 || frac > 1 {
			return apperr.NewValidation("fiob_schedule.fractions", "year %d: fraction %v out of [0,1]", year, frac)
		}
	}
	return nil
}

// NonCompensatedFraction resolves the Fio-B fraction for a calendar year,
// per §4.9: the fraction at or before calendarYear, else 0 before the
// schedule starts, else the last scheduled value past its end.
func (s FioBSchedule) NonCompensatedFraction(calendarYear int) float64 {
	if len(s.Fractions) == 0 {
		return 0
	}
	minYear, maxYear := 0, 0
	first := true
	for year := range s.Fractions {
		if first {
			minYear, maxYear = year, year
			first = false
			continue
		}
		if year < minYear {
			minYear = year
		}
		if year > maxYear {
			maxYear = year
		}
	}
	if calendarYear < minYear {
		return 0
	}
	if calendarYear >= maxYear {
		return s.Fractions[maxYear]
	}
	// Walk backward from calendarYear to the nearest scheduled year at or
	// before it; unscheduled years in between inherit the prior entry.
	for year := calendarYear; year >= minYear; year-- {
		if frac, ok := s.Fractions[year]; ok {
			return frac
		}
	}
	return 0
}

// CalendarYear resolves the calendar year for simulation year y (1-indexed)
// against the schedule's base year: base_year + (y-1). Pinned to calendar
// semantics per Open Question #1.
func (s FioBSchedule) CalendarYear(simulationYear int) int {
	return s.BaseYear + (simulationYear - 1)
}
