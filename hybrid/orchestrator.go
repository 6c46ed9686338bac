package hybrid

import (
	"context"
	"fmt"
	"log"
	"math"
	"os"
	"time"

	"github.com/devskill-org/pvbess-engine/apperr"
	"github.com/devskill-org/pvbess-engine/bess"
	"github.com/devskill-org/pvbess-engine/financial"
	"github.com/devskill-org/pvbess-engine/geo"
	"github.com/devskill-org/pvbess-engine/profile"
	"github.com/devskill-org/pvbess-engine/pvmodel"
	"github.com/devskill-org/pvbess-engine/solar"
	"github.com/devskill-org/pvbess-engine/tariff"
	"github.com/devskill-org/pvbess-engine/weather"
)

// Orchestrator composes the weather, PV, BESS and financial layers into
// one hybrid dimensioning run (§4.10).
type Orchestrator struct {
	Weather *weather.Provider
	Solar   *solar.Engine
	Logger  *log.Logger
}

// NewOrchestrator builds an Orchestrator. logger may be nil.
func NewOrchestrator(weatherProvider *weather.Provider, solarEngine *solar.Engine, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(os.Stderr, "[hybrid] ", log.LstdFlags)
	}
	return &Orchestrator{Weather: weatherProvider, Solar: solarEngine, Logger: logger}
}

// validate checks the request's structural invariants beyond what the
// sub-packages already validate on their own inputs.
func (req Request) validate() error {
	if len(req.Planes) == 0 {
		return apperr.NewValidation("hybrid.planes", "at least one roof plane is required")
	}
	inverterIDs := make(map[string]bool, len(req.Inverters))
	for _, inv := range req.Inverters {
		inverterIDs[inv.ID] = true
	}
	for _, p := range req.Planes {
		if !inverterIDs[p.InverterID] {
			return apperr.NewValidation("hybrid.planes", "plane references unknown inverter id %q", p.InverterID)
		}
	}
	if req.ConsumptionShapePercent != nil {
		sum := 0.0
		for _, v := range req.ConsumptionShapePercent {
			sum += v
		}
		if sum < 99 || sum > 101 {
			return apperr.NewValidation("hybrid.consumption_shape", "must sum to 100 +/- 1, got %v", sum)
		}
	}
	if err := req.Economic.Remote.Validate(); err != nil {
		return err
	}
	return req.Economic.FioB.Validate()
}

func flatLoadShape() [24]float64 {
	var shape [24]float64
	for i := range shape {
		shape[i] = 100.0 / 24.0
	}
	return shape
}

// firstCalendarYearHours returns the number of leading samples in
// timestamps belonging to its first calendar year: a single
// representative year out of the multi-year weather frame, which is
// what the hourly BESS dispatcher and the per-hour self-sufficiency
// metrics operate over (§4.10: the financial engine then projects that
// year's monthly totals forward with degradation and inflation).
func firstCalendarYearHours(timestamps []time.Time) int {
	if len(timestamps) == 0 {
		return 0
	}
	firstYear := timestamps[0].Year()
	for i, ts := range timestamps {
		if ts.Year() != firstYear {
			return i
		}
	}
	return len(timestamps)
}

func sumSeries(series []float64) float64 {
	total := 0.0
	for _, v := range series {
		total += v
	}
	return total
}

// monthlySumKWh buckets an hourly kW series by calendar month and
// integrates it into kWh (1 hour step, so kW == kWh per sample).
func monthlySumKWh(timestamps []time.Time, kw []float64) [12]float64 {
	var monthly [12]float64
	n := len(timestamps)
	if len(kw) < n {
		n = len(kw)
	}
	for i := 0; i < n; i++ {
		monthly[timestamps[i].Month()-1] += kw[i]
	}
	return monthly
}

// Run executes the full hybrid pipeline: weather -> per-plane POA ->
// per-plane DC power -> per-inverter AC aggregation -> load profile ->
// BESS dispatch -> self-sufficiency metrics -> four-scenario financial
// comparison.
func (o *Orchestrator) Run(ctx context.Context, req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	coord := geo.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}
	frame, source, err := o.Weather.Fetch(ctx, coord, req.SourcePreference, req.AllowFallback)
	if err != nil {
		return nil, fmt.Errorf("fetching weather: %w", err)
	}

	planesByInverter := make(map[string][][]float64)
	nameplateByInverter := make(map[string]float64)

	for _, plane := range req.Planes {
		poa, err := o.Solar.PlaneOfArray(coord, frame.Timestamps, frame.GHI, frame.DNI, frame.DHI,
			plane.TiltDeg, plane.AzimuthDeg, req.Decomposition, req.Sky, string(source))
		if err != nil {
			return nil, fmt.Errorf("plane of array for inverter %s: %w", plane.InverterID, err)
		}
		dc := pvmodel.DCPowerSeries(poa, frame.TempAir, frame.WindSpeed, req.Module, plane.Plane)
		planesByInverter[plane.InverterID] = append(planesByInverter[plane.InverterID], dc)

		moduleCount := plane.Plane.ModulesPerString * plane.Plane.Strings
		nameplateByInverter[plane.InverterID] += float64(moduleCount) * req.Module.NameplateWattsSTC / 1000
	}

	invByID := make(map[string]pvmodel.Inverter, len(req.Inverters))
	for _, inv := range req.Inverters {
		invByID[inv.ID] = inv.Spec
	}

	pvBlock := PVBlock{ByInverter: make(map[string]pvmodel.InverterResult, len(req.Inverters))}
	totalPVSeriesW := make([]float64, len(frame.Timestamps))
	var prWeightedSum, prWeight float64

	moduleCountByInverter := make(map[string]int, len(req.Inverters))
	for _, plane := range req.Planes {
		moduleCountByInverter[plane.InverterID] += plane.Plane.ModulesPerString * plane.Plane.Strings
	}

	for id, series := range planesByInverter {
		inv := invByID[id]
		result := pvmodel.AggregateInverter(series, inv, req.Losses, frame.Years(), nameplateByInverter[id])
		pvmodel.ValidateEnergyPerModule(&result, moduleCountByInverter[id])
		pvBlock.ByInverter[id] = result
		pvBlock.TotalAnnualEnergyKWh += result.AnnualEnergyKWh
		pvBlock.TotalDCNameplateKW += result.DCNameplateKW
		prWeightedSum += result.PerformanceRatio * result.DCNameplateKW
		prWeight += result.DCNameplateKW

		for i, v := range result.ACFinalSeries {
			if i < len(totalPVSeriesW) {
				totalPVSeriesW[i] += v
			}
		}
	}
	if prWeight > 0 {
		pvBlock.OverallPR = prWeightedSum / prWeight
	}

	repHours := firstCalendarYearHours(frame.Timestamps)
	if repHours == 0 {
		repHours = len(frame.Timestamps)
	}
	repTimestamps := frame.Timestamps[:repHours]

	genKW := make([]float64, repHours)
	for i := 0; i < repHours && i < len(totalPVSeriesW); i++ {
		genKW[i] = totalPVSeriesW[i] / 1000
	}

	shape := flatLoadShape()
	if req.ConsumptionShapePercent != nil {
		shape = *req.ConsumptionShapePercent
	}
	loadKW, err := profile.BuildLoadProfile(req.MonthlyConsumptionKWh, shape, repTimestamps[0].Year())
	if err != nil {
		return nil, fmt.Errorf("building load profile: %w", err)
	}
	if len(loadKW) > repHours {
		loadKW = loadKW[:repHours]
	}
	for len(loadKW) < repHours {
		loadKW = append(loadKW, 0)
	}

	result := &Result{PV: pvBlock}

	var bessResult *bess.Result
	var bessOnlyResult bess.Result
	if req.BESS != nil {
		dispatched := bess.Dispatch(repTimestamps, genKW, loadKW, *req.BESS, req.BESSStrategy, req.Tariff, req.PeakShavingLimitKW)
		bessResult = &dispatched

		zeroGen := make([]float64, repHours)
		bessOnlyResult = bess.Dispatch(repTimestamps, zeroGen, loadKW, *req.BESS, req.BESSStrategy, req.Tariff, req.PeakShavingLimitKW)

		result.BESS = &BESSBlock{Result: dispatched, EquivalentCyclesPerYear: dispatched.EquivalentCycles}
	}

	result.Metrics = computeMetrics(genKW, loadKW, bessResult)

	monthlyGen := monthlySumKWh(repTimestamps, genKW)

	solarCAPEX := req.Economic.CAPEXPerKWSolar * pvBlock.TotalDCNameplateKW
	bessCAPEX := 0.0
	if req.BESS != nil {
		bessCAPEX = req.Economic.CAPEXPerKWhBESS*req.BESS.CapacityKWh + req.Economic.CAPEXPerKWBESS*req.BESS.PowerKW
	}

	noSystem, err := o.runScenarioFinancials(req, 0, [12]float64{}, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("no-system scenario: %w", err)
	}
	solarOnly, err := o.runScenarioFinancials(req, solarCAPEX, monthlyGen, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("solar-only scenario: %w", err)
	}

	var bessOnly, hybrid *financial.FinancialResult
	if req.BESS != nil {
		bessOnlySavings := sumSeries(bessOnlyResult.BillNoBESS) - sumSeries(bessOnlyResult.BillWithBESS)
		bessOnly, err = o.runScenarioFinancials(req, bessCAPEX, [12]float64{}, bessOnlySavings, bessCAPEX)
		if err != nil {
			return nil, fmt.Errorf("bess-only scenario: %w", err)
		}

		hybridSavings := sumSeries(bessResult.BillNoBESS) - sumSeries(bessResult.BillWithBESS)
		hybrid, err = o.runScenarioFinancials(req, solarCAPEX+bessCAPEX, monthlyGen, hybridSavings, bessCAPEX)
		if err != nil {
			return nil, fmt.Errorf("hybrid scenario: %w", err)
		}
	} else {
		hybrid = solarOnly
	}

	result.Scenarios = &ScenarioComparison{NoSystem: noSystem, SolarOnly: solarOnly, BESSOnly: bessOnly, Hybrid: hybrid}
	result.Warnings = collectWarnings(result)
	result.Recommendations = recommend(result)

	return result, nil
}

func (o *Orchestrator) runScenarioFinancials(req Request, capex float64, monthlyGen [12]float64, bessSavings, bessCAPEX float64) (*financial.FinancialResult, error) {
	econ := req.Economic
	omAnnual := econ.OMAnnual
	if capex == 0 && bessCAPEX == 0 && monthlyGen == ([12]float64{}) {
		// The no-system baseline installs no equipment, so it carries no O&M.
		omAnnual = 0
	}
	in := financial.CashFlowInput{
		CAPEX:                capex,
		OMAnnual:             omAnnual,
		Lifetime:             econ.Lifetime,
		DiscountRate:         econ.DiscountRate,
		DegradationRate:      econ.DegradationRate,
		InflationEnergy:      econ.InflationEnergy,
		InflationOM:          econ.InflationOM,
		Mode:                 econ.Mode,
		FioB:                 econ.FioB,
		FioBRate:             econ.FioBRate,
		FSimul:               econ.FSimul,
		TERatio:              econ.TERatio,
		MonthlyGenerationKWh: monthlyGen,
		TariffFlat:           econ.TariffFlat,
		OffPeakPrice:         econ.OffPeakPrice,
		PeakPrice:            econ.PeakPrice,
		Remote:               econ.Remote,
		BESSAnnualSavings:    bessSavings,
		BESSCAPEX:            bessCAPEX,
	}
	switch econ.Mode {
	case financial.GroupB:
		for m := 0; m < 12; m++ {
			in.MonthlyLoadKWh[m] = req.MonthlyConsumptionKWh[m]
		}
	case financial.GroupA:
		// Approximate the off-peak/peak split of the consumption profile
		// from the tariff's own peak window, consistent with how the BESS
		// dispatcher prices grid power hour by hour.
		offPeakFrac, peakFrac := loadSplitFractions(req.Tariff)
		for m := 0; m < 12; m++ {
			in.MonthlyLoadOffPeakKWh[m] = req.MonthlyConsumptionKWh[m] * offPeakFrac
			in.MonthlyLoadPeakKWh[m] = req.MonthlyConsumptionKWh[m] * peakFrac
		}
	}
	return financial.Run(in)
}

// loadSplitFractions estimates what share of a day's 24 hours fall in
// the tariff's peak window, used only to split a monthly consumption
// total into Group A's off-peak/peak buckets when no hourly load shape
// distinguishes them explicitly.
func loadSplitFractions(tf tariff.Tariff) (offPeak, peak float64) {
	peakHours := 0
	for h := 0; h < 24; h++ {
		if tf.BandAt(h) == tariff.Peak {
			peakHours++
		}
	}
	peak = float64(peakHours) / 24
	offPeak = 1 - peak
	return offPeak, peak
}

func computeMetrics(genKW, loadKW []float64, bessResult *bess.Result) HybridMetrics {
	n := len(genKW)
	if len(loadKW) < n {
		n = len(loadKW)
	}
	var totalLoad, totalPV, pvToLoad float64
	for i := 0; i < n; i++ {
		totalLoad += loadKW[i]
		totalPV += genKW[i]
		pvToLoad += math.Min(genKW[i], loadKW[i])
	}

	var pvToBESS, bessToLoad float64
	if bessResult != nil {
		pvToBESS = bessResult.TotalChargedKWh
		bessToLoad = bessResult.TotalDischargedKWh
	}

	metrics := HybridMetrics{}
	if totalLoad > 0 {
		metrics.SelfSufficiency = (pvToLoad + bessToLoad) / totalLoad
	}
	if totalPV > 0 {
		metrics.SolarSelfConsumption = (pvToLoad + pvToBESS) / totalPV
	}
	return metrics
}

func collectWarnings(r *Result) []string {
	var warnings []string
	for _, inv := range r.PV.ByInverter {
		warnings = append(warnings, inv.Warnings...)
	}
	for _, fr := range []*financial.FinancialResult{r.Scenarios.SolarOnly, r.Scenarios.BESSOnly, r.Scenarios.Hybrid} {
		if fr != nil {
			warnings = append(warnings, fr.Warnings...)
		}
	}
	return warnings
}

func recommend(r *Result) []string {
	var recs []string
	if r.Metrics.SelfSufficiency > 0.80 {
		recs = append(recs, "high self-sufficiency: consider a smaller BESS or exporting more aggressively")
	}
	if r.Scenarios.Hybrid != nil && r.Scenarios.SolarOnly != nil && r.Scenarios.Hybrid.NPV < r.Scenarios.SolarOnly.NPV {
		recs = append(recs, "battery does not improve NPV over solar-only at current tariffs; consider peak_shaving or a smaller capacity")
	}
	return recs
}

