package weather

import (
	"fmt"

	"github.com/devskill-org/pvbess-engine/geo"
)

// NoWeatherDataError is returned when both the preferred and fallback
// sources failed.
type NoWeatherDataError struct {
	Coordinate geo.Coordinate
	Primary    error
	Secondary  error
}

func (e *NoWeatherDataError) Error() string {
	return fmt.Sprintf("no weather data available for %v: primary error: %v, fallback error: %v",
		e.Coordinate, e.Primary, e.Secondary)
}

// FallbackDisabledError is returned when the preferred source failed and
// fallback was turned off.
type FallbackDisabledError struct {
	Source Source
	Err    error
}

func (e *FallbackDisabledError) Error() string {
	return fmt.Sprintf("preferred source %s failed and fallback is disabled: %v", e.Source, e.Err)
}

func (e *FallbackDisabledError) Unwrap() error { return e.Err }
