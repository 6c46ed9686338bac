package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devskill-org/pvbess-engine/geo"
)

const samplePVGISResponse = `{
  "outputs": {
    "hourly": [
      {"time": "20150101:0010", "G(i)": 0, "Gb(n)": 0, "Gd(n)": 0, "T2m": 22.1, "WS10m": 1.2},
      {"time": "20150101:0110", "G(i)": 0, "Gb(n)": 0, "Gd(n)": 0, "T2m": 21.8, "WS10m": 1.1},
      {"time": "not-a-timestamp", "G(i)": 999, "Gb(n)": 0, "Gd(n)": 0, "T2m": 0, "WS10m": 0}
    ]
  }
}`

func TestPVGISFetchParsesAndDropsBadTimestamps(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("startyear"); got != "2015" {
			t.Errorf("startyear = %q, want 2015", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(samplePVGISResponse))
	}))
	defer server.Close()

	client := NewPVGISClient(server.URL, 0)
	frame, err := client.Fetch(context.Background(), geo.Coordinate{Latitude: -15.79, Longitude: -47.88}, 2015, 2020)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if frame.Len() != 2 {
		t.Fatalf("Fetch() returned %d rows, want 2 (bad timestamp dropped)", frame.Len())
	}
	if frame.TempAir[0] != 22.1 {
		t.Errorf("TempAir[0] = %v, want 22.1", frame.TempAir[0])
	}
}

func TestPVGISFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer server.Close()

	client := NewPVGISClient(server.URL, 0)
	_, err := client.Fetch(context.Background(), geo.Coordinate{Latitude: -15.79, Longitude: -47.88}, 2015, 2020)
	if err == nil {
		t.Fatal("Fetch() error = nil, want upstream error")
	}
}
