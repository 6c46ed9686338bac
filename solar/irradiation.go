package solar

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/devskill-org/pvbess-engine/apperr"
	"github.com/devskill-org/pvbess-engine/geo"
	"github.com/devskill-org/pvbess-engine/geocache"
)

// Engine transposes horizontal irradiance to a tilted plane, caching
// the POA series alongside the raw weather frames (§4.3).
type Engine struct {
	cache  *geocache.Cache // nil disables POA caching
	logger *log.Logger
}

// NewEngine builds an Engine. cache may be nil.
func NewEngine(cache *geocache.Cache, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(os.Stderr, "[solar] ", log.LstdFlags)
	}
	return &Engine{cache: cache, logger: logger}
}

func poaCacheParams(tiltDeg, azimuthDeg float64, decomposition DecompositionModel, sky SkyModel, source string) map[string]string {
	return map[string]string{
		"tilt":    floatKey(tiltDeg),
		"azimuth": floatKey(azimuthDeg),
		"model":   string(sky),
		"type":    "poa",
		"source":  source,
	}
}

func floatKey(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// PlaneOfArray computes the POA irradiance series for a plane, using
// the decomposition model to synthesise DNI/DHI when the frame's DNI
// is all-zero, and consulting the geohash cache before recomputing.
//
// §8: tilt=0 and azimuth=0 together mean "no tilted plane" — the POA
// branch is skipped entirely and GHI is returned directly.
func (e *Engine) PlaneOfArray(coord geo.Coordinate, timestamps []time.Time, ghi, dni, dhi []float64, tiltDeg, azimuthDeg float64, decomposition DecompositionModel, sky SkyModel, source string) ([]float64, error) {
	if tiltDeg == 0 && azimuthDeg == 0 {
		out := make([]float64, len(ghi))
		copy(out, ghi)
		return out, nil
	}

	params := poaCacheParams(tiltDeg, azimuthDeg, decomposition, sky, source)
	if cached, ok := e.fromCache(coord, params); ok {
		return cached, nil
	}

	positions := PositionSeries(timestamps, coord.Latitude, coord.Longitude)

	workingDNI, workingDHI := dni, dhi
	if sumOf(dni) == 0 {
		zeniths := make([]float64, len(positions))
		for i, p := range positions {
			zeniths[i] = p.ZenithDeg
		}
		decomposedDNI, decomposedDHI, err := Decompose(timestamps, ghi, zeniths, decomposition)
		if err != nil {
			return nil, err
		}
		workingDNI, workingDHI = decomposedDNI, decomposedDHI
	}

	for i := range workingDHI {
		if workingDHI[i] > ghi[i] {
			workingDHI[i] = ghi[i]
		}
		if workingDHI[i] < 0 {
			workingDHI[i] = 0
		}
		if workingDNI[i] < 0 {
			workingDNI[i] = 0
		}
	}

	poa := POASeries(timestamps, positions, workingDNI, ghi, workingDHI, tiltDeg, azimuthDeg, sky)
	for i := range poa {
		if poa[i] < 0 {
			poa[i] = 0
		}
	}

	e.store(coord, params, poa)
	return poa, nil
}

func sumOf(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func (e *Engine) fromCache(coord geo.Coordinate, params map[string]string) ([]float64, bool) {
	if e.cache == nil {
		return nil, false
	}
	raw, _, ok := e.cache.Get(coord, params)
	if !ok {
		return nil, false
	}
	var poa []float64
	if err := json.Unmarshal(raw, &poa); err != nil {
		e.logger.Printf("discarding corrupt cached POA series: %v", err)
		return nil, false
	}
	return poa, true
}

func (e *Engine) store(coord geo.Coordinate, params map[string]string, poa []float64) {
	if e.cache == nil {
		return
	}
	payload, err := json.Marshal(poa)
	if err != nil {
		e.logger.Printf("failed to marshal POA series for caching: %v", err)
		return
	}
	e.cache.Set(coord, params, payload)
}

// MonthNames is used to label IrradiationSummary's monthly breakdown.
var MonthNames = [12]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// IrradiationSummary is the response shape for the irradiation-analysis
// operation (§6): monthly average kWh/m^2/day, seasonal variation,
// max/min month, configuration echo.
type IrradiationSummary struct {
	AnnualAverageKWhM2Day float64            `json:"annual_average_kwh_m2_day"`
	MonthlyKWhM2Day       [12]float64        `json:"monthly_kwh_m2_day"`
	MaxMonth              string             `json:"max_month"`
	MaxValue              float64            `json:"max_value"`
	MinMonth              string             `json:"min_month"`
	MinValue              float64            `json:"min_value"`
	SeasonalVariationPct  float64            `json:"seasonal_variation_pct"`
	UsedTiltedPlane       bool               `json:"used_tilted_plane"`
	TiltDeg               float64            `json:"tilt_deg"`
	AzimuthDeg            float64            `json:"azimuth_deg"`
	DecompositionModel    DecompositionModel `json:"decomposition_model"`
	ActualSource          string             `json:"actual_source"`
	RecordsProcessed      int                `json:"records_processed"`
}

// Summarize builds an IrradiationSummary from an irradiance series
// (either GHI or a POA series) and its parallel timestamps.
func Summarize(timestamps []time.Time, irradiance []float64, tiltDeg, azimuthDeg float64, decomposition DecompositionModel, actualSource string) (*IrradiationSummary, error) {
	if len(timestamps) == 0 || len(timestamps) != len(irradiance) {
		return nil, apperr.NewCalculation("solar.Summarize", "empty or mismatched series")
	}

	dailyKWh := map[string]float64{}
	dailyMonth := map[string]time.Month{}
	for i, t := range timestamps {
		day := t.Format("2006-01-02")
		dailyKWh[day] += irradiance[i] / 1000.0
		dailyMonth[day] = t.Month()
	}

	monthlyTotals := [12]float64{}
	monthlyDays := [12]int{}
	for day, kwh := range dailyKWh {
		m := int(dailyMonth[day]) - 1
		monthlyTotals[m] += kwh
		monthlyDays[m]++
	}

	monthly := [12]float64{}
	for i := 0; i < 12; i++ {
		if monthlyDays[i] > 0 {
			monthly[i] = monthlyTotals[i] / float64(monthlyDays[i])
		}
	}

	annualAvg := 0.0
	for _, v := range monthly {
		annualAvg += v
	}
	annualAvg /= 12

	maxIdx, minIdx := 0, 0
	for i := 1; i < 12; i++ {
		if monthly[i] > monthly[maxIdx] {
			maxIdx = i
		}
		if monthly[i] < monthly[minIdx] {
			minIdx = i
		}
	}

	seasonalVariation := 0.0
	if annualAvg > 0 {
		seasonalVariation = (monthly[maxIdx] - monthly[minIdx]) / annualAvg * 100.0
	}

	return &IrradiationSummary{
		AnnualAverageKWhM2Day: annualAvg,
		MonthlyKWhM2Day:       monthly,
		MaxMonth:              MonthNames[maxIdx],
		MaxValue:              monthly[maxIdx],
		MinMonth:              MonthNames[minIdx],
		MinValue:              monthly[minIdx],
		SeasonalVariationPct:  seasonalVariation,
		UsedTiltedPlane:       tiltDeg > 0 || azimuthDeg != 0,
		TiltDeg:               tiltDeg,
		AzimuthDeg:            azimuthDeg,
		DecompositionModel:    decomposition,
		ActualSource:          actualSource,
		RecordsProcessed:      len(irradiance),
	}, nil
}
