package config

import (
	"strings"
	"testing"
)

func TestDefaultMatchesSpecDefaults(t *testing.T) {
	c := Default()
	if c.GeohashPrecision != 5 {
		t.Errorf("GeohashPrecision = %d, want 5", c.GeohashPrecision)
	}
	if c.CacheRadiusKM != 15 {
		t.Errorf("CacheRadiusKM = %v, want 15", c.CacheRadiusKM)
	}
	if c.CacheTTLDays != 30 {
		t.Errorf("CacheTTLDays = %d, want 30", c.CacheTTLDays)
	}
	if !c.FallbackEnabled {
		t.Error("FallbackEnabled = false, want true")
	}
	if c.DefaultSource != "pvgis" {
		t.Errorf("DefaultSource = %q, want pvgis", c.DefaultSource)
	}
}

func TestLoadFromReaderOverlaysDefaults(t *testing.T) {
	json := `{"geohash_precision": 7, "default_source": "nasa"}`
	cfg, err := LoadFromReader(strings.NewReader(json))
	if err != nil {
		t.Fatalf("LoadFromReader() error = %v", err)
	}
	if cfg.GeohashPrecision != 7 {
		t.Errorf("GeohashPrecision = %d, want 7 (overridden)", cfg.GeohashPrecision)
	}
	if cfg.CacheTTLDays != 30 {
		t.Errorf("CacheTTLDays = %d, want 30 (left at default)", cfg.CacheTTLDays)
	}
	if cfg.DefaultSource != "nasa" {
		t.Errorf("DefaultSource = %q, want nasa", cfg.DefaultSource)
	}
}

func TestValidateRejectsBadGeohashPrecision(t *testing.T) {
	cfg := Default()
	cfg.GeohashPrecision = 20
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() error = nil, want failure for out-of-range geohash precision")
	}
}

func TestValidateRejectsUnknownDefaultSource(t *testing.T) {
	cfg := Default()
	cfg.DefaultSource = "weatherstation"
	if err := cfg.Validate(); err == nil {
		t.Fatal("Validate() error = nil, want failure for unknown default_source")
	}
}
