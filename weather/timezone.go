package weather

import "time"

// saoPauloLocation returns the America/Sao_Paulo zone, falling back to a
// fixed UTC-3 offset (Brazil's standard time, DST abolished since 2019) if
// the local tzdata is unavailable — keeps normalisation deterministic in
// minimal container images that ship without a zoneinfo database.
func saoPauloLocation() *time.Location {
	if loc, err := time.LoadLocation("America/Sao_Paulo"); err == nil {
		return loc
	}
	return time.FixedZone("-03", -3*3600)
}
