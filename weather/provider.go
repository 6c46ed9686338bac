package weather

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/devskill-org/pvbess-engine/geo"
	"github.com/devskill-org/pvbess-engine/geocache"
)

// DefaultPVGISStartYear and DefaultPVGISEndYear bound the historical
// seriescalc window PVGIS is queried over (§4.1).
const (
	DefaultPVGISStartYear = 2015
	DefaultPVGISEndYear   = 2020
)

// Provider implements the Weather Provider contract: fetch(lat, lon,
// preferred_source, allow_fallback) -> (frame, actual_source).
type Provider struct {
	pvgis *PVGISClient
	nasa  *NASAClient
	cache *geocache.Cache // nil disables caching
	logger *log.Logger

	pvgisStartYear, pvgisEndYear int
	now                          func() time.Time
}

// NewProvider builds a Provider. cache may be nil to disable caching
// entirely (every fetch goes upstream).
func NewProvider(pvgis *PVGISClient, nasa *NASAClient, cache *geocache.Cache, logger *log.Logger) *Provider {
	if logger == nil {
		logger = log.New(os.Stderr, "[weather] ", log.LstdFlags)
	}
	return &Provider{
		pvgis:          pvgis,
		nasa:           nasa,
		cache:          cache,
		logger:         logger,
		pvgisStartYear: DefaultPVGISStartYear,
		pvgisEndYear:   DefaultPVGISEndYear,
		now:            time.Now,
	}
}

// WithPVGISYearRange overrides the PVGIS seriescalc query window.
func (p *Provider) WithPVGISYearRange(startYear, endYear int) *Provider {
	p.pvgisStartYear, p.pvgisEndYear = startYear, endYear
	return p
}

// Fetch retrieves a normalised weather frame for coord, trying preferred
// first and, on failure, the other source if allowFallback is true. The
// cache is consulted before any upstream call and populated after a
// successful fetch.
func (p *Provider) Fetch(ctx context.Context, coord geo.Coordinate, preferred Source, allowFallback bool) (*Frame, Source, error) {
	if frame, ok := p.fromCache(coord, preferred); ok {
		return frame, preferred, nil
	}

	frame, primaryErr := p.fetchRaw(ctx, preferred, coord)
	if primaryErr == nil {
		p.finish(coord, preferred, frame)
		return frame, preferred, nil
	}

	if !allowFallback {
		return nil, "", &FallbackDisabledError{Source: preferred, Err: primaryErr}
	}

	fallback := otherSource(preferred)
	if frame, ok := p.fromCache(coord, fallback); ok {
		return frame, fallback, nil
	}

	frame, secondaryErr := p.fetchRaw(ctx, fallback, coord)
	if secondaryErr == nil {
		p.finish(coord, fallback, frame)
		return frame, fallback, nil
	}

	return nil, "", &NoWeatherDataError{Coordinate: coord, Primary: primaryErr, Secondary: secondaryErr}
}

func otherSource(s Source) Source {
	if s == SourcePVGIS {
		return SourceNASA
	}
	return SourcePVGIS
}

func (p *Provider) fetchRaw(ctx context.Context, source Source, coord geo.Coordinate) (*Frame, error) {
	switch source {
	case SourcePVGIS:
		return p.pvgis.Fetch(ctx, coord, p.pvgisStartYear, p.pvgisEndYear)
	case SourceNASA:
		return p.nasa.Fetch(ctx, coord, p.now())
	default:
		return p.pvgis.Fetch(ctx, coord, p.pvgisStartYear, p.pvgisEndYear)
	}
}

func (p *Provider) finish(coord geo.Coordinate, source Source, frame *Frame) {
	Normalize(frame)
	p.store(coord, source, frame)
}

func cacheParams(source Source) map[string]string {
	return map[string]string{"source": string(source), "type": "weather"}
}

func (p *Provider) fromCache(coord geo.Coordinate, source Source) (*Frame, bool) {
	if p.cache == nil {
		return nil, false
	}
	raw, _, ok := p.cache.Get(coord, cacheParams(source))
	if !ok {
		return nil, false
	}
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		p.logger.Printf("discarding corrupt cached frame: %v", err)
		return nil, false
	}
	return &frame, true
}

func (p *Provider) store(coord geo.Coordinate, source Source, frame *Frame) {
	if p.cache == nil {
		return
	}
	payload, err := json.Marshal(frame)
	if err != nil {
		p.logger.Printf("failed to marshal frame for caching: %v", err)
		return
	}
	p.cache.Set(coord, cacheParams(source), payload)
}
