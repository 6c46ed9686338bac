// Package config holds the engine's environment-level settings (§6
// "Environment"): cache location and policy, upstream weather timeouts,
// and fallback behaviour.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"
)

// Config is the engine's environment-level configuration.
type Config struct {
	CacheDir         string        `json:"cache_dir"`
	GeohashPrecision int           `json:"geohash_precision"`
	CacheRadiusKM    float64       `json:"cache_radius_km"`
	CacheTTLDays     int           `json:"cache_ttl_days"`
	PVGISBaseURL     string        `json:"pvgis_base_url"`
	PVGISTimeout     time.Duration `json:"pvgis_timeout"`
	NASATimeout      time.Duration `json:"nasa_timeout"`
	FallbackEnabled  bool          `json:"fallback_enabled"`
	DefaultSource    string        `json:"default_source"`
}

// Default returns the configuration described in §6: geohash precision 5,
// cache radius 15km, cache TTL 30 days, PVGIS timeout 120s, NASA timeout
// 60s, fallback enabled, default source pvgis.
func Default() *Config {
	return &Config{
		CacheDir:         "./cache",
		GeohashPrecision: 5,
		CacheRadiusKM:    15,
		CacheTTLDays:     30,
		PVGISBaseURL:     "https://re.jrc.ec.europa.eu/api/v5_2",
		PVGISTimeout:     120 * time.Second,
		NASATimeout:      60 * time.Second,
		FallbackEnabled:  true,
		DefaultSource:    "pvgis",
	}
}

// Load reads a JSON configuration file, overlaying it on Default() so any
// field the file omits keeps its default value.
func Load(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()
	return LoadFromReader(file)
}

// LoadFromReader decodes configuration from an io.Reader, starting from
// Default().
func LoadFromReader(reader io.Reader) (*Config, error) {
	cfg := Default()
	decoder := json.NewDecoder(reader)
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the structural invariants of the configuration.
func (c *Config) Validate() error {
	if c.CacheDir == "" {
		return fmt.Errorf("cache_dir must not be empty")
	}
	if c.GeohashPrecision < 1 || c.GeohashPrecision > 12 {
		return fmt.Errorf("geohash_precision %d out of range [1,12]", c.GeohashPrecision)
	}
	if c.CacheRadiusKM <= 0 {
		return fmt.Errorf("cache_radius_km must be > 0")
	}
	if c.CacheTTLDays <= 0 {
		return fmt.Errorf("cache_ttl_days must be > 0")
	}
	if c.DefaultSource != "pvgis" && c.DefaultSource != "nasa" {
		return fmt.Errorf("default_source %q must be \"pvgis\" or \"nasa\"", c.DefaultSource)
	}
	return nil
}
