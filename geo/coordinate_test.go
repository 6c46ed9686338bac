package geo

import "testing"

func TestRounded(t *testing.T) {
	c := Coordinate{Latitude: -23.550512345, Longitude: -46.633309}
	r := c.Rounded()
	if r.Latitude != -23.5505 {
		t.Errorf("Latitude = %v, want -23.5505", r.Latitude)
	}
	if r.Longitude != -46.6333 {
		t.Errorf("Longitude = %v, want -46.6333", r.Longitude)
	}
}

func TestEqual(t *testing.T) {
	a := Coordinate{Latitude: -23.55051, Longitude: -46.63331}
	b := Coordinate{Latitude: -23.55049, Longitude: -46.63329}
	if !a.Equal(b) {
		t.Errorf("expected %v to equal %v after rounding", a, b)
	}
}

func TestHaversineKm(t *testing.T) {
	// Sao Paulo to Rio de Janeiro, roughly 360km apart.
	saoPaulo := Coordinate{Latitude: -23.5505, Longitude: -46.6333}
	rio := Coordinate{Latitude: -22.9068, Longitude: -43.1729}
	d := HaversineKm(saoPaulo, rio)
	if d < 330 || d > 370 {
		t.Errorf("HaversineKm() = %.1f, want roughly 360km", d)
	}
}

func TestHaversineKmZero(t *testing.T) {
	p := Coordinate{Latitude: -23.5505, Longitude: -46.6333}
	if d := HaversineKm(p, p); d != 0 {
		t.Errorf("HaversineKm(p, p) = %v, want 0", d)
	}
}

func TestValid(t *testing.T) {
	cases := []struct {
		c    Coordinate
		want bool
	}{
		{Coordinate{0, 0}, true},
		{Coordinate{90, 180}, true},
		{Coordinate{-90, -180}, true},
		{Coordinate{91, 0}, false},
		{Coordinate{0, 181}, false},
	}
	for _, tc := range cases {
		if got := tc.c.Valid(); got != tc.want {
			t.Errorf("Valid(%v) = %v, want %v", tc.c, got, tc.want)
		}
	}
}
