// Package solar implements GHI decomposition and plane-of-array
// transposition (§4.3): turning a horizontal weather frame into the
// irradiance a tilted roof plane actually receives.
package solar

import (
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
)

// Position is solar position in the pvlib convention: zenith measured
// from straight up, azimuth measured from true north, clockwise.
type Position struct {
	ZenithDeg  float64
	AzimuthDeg float64
}

// PositionAt computes the solar position at instant t for (lat, lon).
// suncalc reports azimuth from south, clockwise, in radians; we shift
// it to the north-clockwise convention used by the transposition models
// below.
func PositionAt(t time.Time, lat, lon float64) Position {
	pos := suncalc.GetPosition(t, lat, lon)
	altitudeDeg := pos.Altitude * 180 / math.Pi
	azimuthFromSouth := pos.Azimuth * 180 / math.Pi
	azimuthFromNorth := math.Mod(azimuthFromSouth+180+360, 360)
	return Position{
		ZenithDeg:  90 - altitudeDeg,
		AzimuthDeg: azimuthFromNorth,
	}
}

// PositionSeries computes a Position per timestamp.
func PositionSeries(timestamps []time.Time, lat, lon float64) []Position {
	out := make([]Position, len(timestamps))
	for i, t := range timestamps {
		out[i] = PositionAt(t, lat, lon)
	}
	return out
}

func degToRad(d float64) float64 { return d * math.Pi / 180 }

func cosZenithRad(zenithDeg float64) float64 {
	return math.Cos(degToRad(zenithDeg))
}
