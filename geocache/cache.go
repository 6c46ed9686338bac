// Package geocache implements the spatial-radius file cache described in
// §4.2: weather frames and plane-of-array series are written to a
// configured directory keyed by geohash cell plus a sorted set of params,
// and read back by searching the 3x3 neighbour grid around a query
// coordinate for the nearest stored point within a radius.
//
// The cache never raises: every failure (I/O, corrupt file, missing
// directory) degrades to a cache miss or a failed write, logged and
// swallowed per the CacheError contract in apperr.
package geocache

import (
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mmcloughlin/geohash"

	"github.com/devskill-org/pvbess-engine/apperr"
	"github.com/devskill-org/pvbess-engine/geo"
)

// DefaultPrecision is the default geohash prefix length (~4.9km cell edge).
const DefaultPrecision = 5

// DefaultRadiusKm is the default cache-hit search radius.
const DefaultRadiusKm = 15.0

// DefaultTTL is the default lifetime of a cached weather frame.
const DefaultTTL = 30 * 24 * time.Hour

// Cache is a shared, concurrency-safe spatial file cache. The zero value is
// not usable; construct with New.
type Cache struct {
	dir       string
	precision uint
	radiusKm  float64
	ttl       time.Duration
	logger    *log.Logger
}

// Entry is the self-describing on-disk record written for every cache key,
// matching §6's "files are self-describing" contract.
type Entry struct {
	Lat       float64           `json:"lat"`
	Lon       float64           `json:"lon"`
	Geohash   string            `json:"geohash"`
	Timestamp time.Time         `json:"timestamp"`
	Params    map[string]string `json:"params"`
	Data      json.RawMessage   `json:"data"`
}

// New creates a Cache rooted at dir, creating the directory if it does not
// exist. precision <= 0 and radiusKm <= 0 and ttl <= 0 fall back to the
// package defaults.
func New(dir string, precision uint, radiusKm float64, ttl time.Duration, logger *log.Logger) (*Cache, error) {
	if precision == 0 {
		precision = DefaultPrecision
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[geocache] ", log.LstdFlags)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("geocache: create cache dir %s: %w", dir, err)
	}
	return &Cache{dir: dir, precision: precision, radiusKm: radiusKm, ttl: ttl, logger: logger}, nil
}

// buildKey reproduces the §6 key format: "pvgis:{geohash}:{k1_v1}:{k2_v2}:…"
// with params sorted by key name. The literal "pvgis" prefix is retained
// for every namespace (weather frames and POA series alike) to match the
// on-disk contract named in §6 exactly.
func buildKey(cell string, params map[string]string) string {
	var b strings.Builder
	b.WriteString("pvgis:")
	b.WriteString(cell)
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteString(":")
		b.WriteString(k)
		b.WriteString("_")
		b.WriteString(params[k])
	}
	return b.String()
}

// filenameFor returns the md5-hashed, .pkl-suffixed filename for key. The
// suffix is kept literal to match §6's documented on-disk naming
// (geohash_{md5(key)}.pkl) even though the payload is JSON, not a Python
// pickle — Go has no pickle analogue, and the filename is the only part of
// the format callers or operators ever observe directly.
func filenameFor(key string) string {
	sum := md5.Sum([]byte(key))
	return "geohash_" + hex.EncodeToString(sum[:]) + ".pkl"
}

func (c *Cache) pathFor(key string) string {
	return filepath.Join(c.dir, filenameFor(key))
}

// neighborCells returns the 9 cells (centre + 8 neighbours) around coord at
// the cache's configured precision.
func (c *Cache) neighborCells(coord geo.Coordinate) []string {
	center := geohash.EncodeWithPrecision(coord.Latitude, coord.Longitude, c.precision)
	cells := make([]string, 0, 9)
	cells = append(cells, center)
	cells = append(cells, geohash.Neighbors(center)...)
	return cells
}

// Get searches the 3x3 neighbour grid around coord for the nearest stored
// entry (matching params) within the cache radius, and returns its payload
// and the coordinate it was stored at. A miss, an expired entry, or any I/O
// failure all yield ok == false; Get never returns an error.
func (c *Cache) Get(coord geo.Coordinate, params map[string]string) (json.RawMessage, geo.Coordinate, bool) {
	var (
		best     *Entry
		bestDist = c.radiusKm
		found    bool
	)

	for _, cell := range c.neighborCells(coord) {
		key := buildKey(cell, params)
		path := c.pathFor(key)

		raw, err := os.ReadFile(path)
		if err != nil {
			continue // missing file: plain miss for this candidate
		}

		var entry Entry
		if err := json.Unmarshal(raw, &entry); err != nil {
			c.logger.Printf("discarding corrupt cache entry %s: %v", path, err)
			_ = os.Remove(path)
			continue
		}

		if time.Since(entry.Timestamp) > c.ttl {
			_ = os.Remove(path) // expired: delete on discovery, tolerate a racing deleter
			continue
		}

		stored := geo.Coordinate{Latitude: entry.Lat, Longitude: entry.Lon}
		dist := geo.HaversineKm(coord, stored)
		if dist <= bestDist {
			bestDist = dist
			e := entry
			best = &e
			found = true
		}
	}

	if !found {
		return nil, geo.Coordinate{}, false
	}
	return best.Data, geo.Coordinate{Latitude: best.Lat, Longitude: best.Lon}, true
}

// Set writes data under the cell covering coord, combined with params, via
// a write-to-temp-then-rename so that concurrent writers for the same key
// produce one winner and readers never observe a partial file. Any failure
// is logged and swallowed; Set returns whether the write succeeded, but the
// caller must never treat a false return as fatal (§4.2, §7 CacheError).
func (c *Cache) Set(coord geo.Coordinate, params map[string]string, data json.RawMessage) bool {
	cell := geohash.EncodeWithPrecision(coord.Latitude, coord.Longitude, c.precision)
	key := buildKey(cell, params)
	path := c.pathFor(key)

	entry := Entry{
		Lat:       coord.Latitude,
		Lon:       coord.Longitude,
		Geohash:   cell,
		Timestamp: time.Now().UTC(),
		Params:    params,
		Data:      data,
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		c.logger.Print(apperr.NewCache("marshal", err))
		return false
	}

	tmp, err := os.CreateTemp(c.dir, "geohash_*.tmp")
	if err != nil {
		c.logger.Print(apperr.NewCache("create temp file", err))
		return false
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		c.logger.Print(apperr.NewCache("write temp file", err))
		return false
	}
	if err := tmp.Close(); err != nil {
		c.logger.Print(apperr.NewCache("close temp file", err))
		return false
	}
	if err := os.Rename(tmpName, path); err != nil {
		c.logger.Print(apperr.NewCache("rename into place", err))
		return false
	}
	return true
}
