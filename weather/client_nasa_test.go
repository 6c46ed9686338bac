package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/devskill-org/pvbess-engine/geo"
)

const sampleNASAResponse = `{
  "properties": {
    "parameter": {
      "ALLSKY_SFC_SW_DWN": {"2023010100": 0, "2023010101": 120.5},
      "T2M": {"2023010100": 20.1, "2023010101": 19.8},
      "WS10M": {"2023010100": 2.0, "2023010101": 2.4},
      "PS": {"2023010100": 91.2, "2023010101": 91.1}
    }
  }
}`

func TestNASAFetchAcceptsUpperCaseNames(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleNASAResponse))
	}))
	defer server.Close()

	client := NewNASAClient(server.URL, 0)
	asOf := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	frame, err := client.Fetch(context.Background(), geo.Coordinate{Latitude: -23.55, Longitude: -46.63}, asOf)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if frame.Len() != 2 {
		t.Fatalf("Fetch() returned %d rows, want 2", frame.Len())
	}
	if !frame.Timestamps[0].Before(frame.Timestamps[1]) {
		t.Errorf("frame not sorted ascending: %v", frame.Timestamps)
	}
	if frame.Pressure[0] != 91200 {
		t.Errorf("Pressure[0] = %v, want 91200 (kPa -> Pa)", frame.Pressure[0])
	}
	for _, dni := range frame.DNI {
		if dni != 0 {
			t.Errorf("NASA frame should carry zero DNI for downstream decomposition, got %v", dni)
		}
	}
}
