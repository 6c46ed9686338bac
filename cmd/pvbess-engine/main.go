// Package main provides the PV+BESS energy-calculation engine's CLI entry
// point: load configuration, build the weather/solar/cache handles once,
// and run a hybrid dimensioning request end to end.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/devskill-org/pvbess-engine/bess"
	"github.com/devskill-org/pvbess-engine/config"
	"github.com/devskill-org/pvbess-engine/financial"
	"github.com/devskill-org/pvbess-engine/geocache"
	"github.com/devskill-org/pvbess-engine/hybrid"
	"github.com/devskill-org/pvbess-engine/pvmodel"
	"github.com/devskill-org/pvbess-engine/solar"
	"github.com/devskill-org/pvbess-engine/tariff"
	"github.com/devskill-org/pvbess-engine/weather"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Configuration file path (JSON, overlays on defaults)")
		requestFile = flag.String("request", "", "Hybrid dimensioning request file (JSON); demo scenario runs if omitted")
		historyDSN  = flag.String("history-dsn", "", "Optional Postgres DSN to record this run's financial summary")
		siteKey     = flag.String("site-key", "demo", "Site identifier used when recording to -history-dsn")
		help        = flag.Bool("help", false, "Show help message")
	)
	flag.Parse()

	if *help {
		showHelp()
		return
	}

	cfg := config.Default()
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			fmt.Println("Error loading configuration:", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	logger := log.New(os.Stdout, "[pvbess] ", log.LstdFlags)

	req, err := loadRequest(*requestFile)
	if err != nil {
		fmt.Println("Error loading request:", err)
		os.Exit(1)
	}

	orchestrator, err := buildOrchestrator(cfg, logger)
	if err != nil {
		fmt.Println("Error initialising engine:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	result, err := orchestrator.Run(ctx, req)
	if err != nil {
		logger.Printf("dimensioning run failed: %v", err)
		os.Exit(1)
	}

	printSummary(result)

	if *historyDSN != "" {
		if err := recordHistory(ctx, *historyDSN, *siteKey, result); err != nil {
			logger.Printf("history recording skipped: %v", err)
		}
	}
}

// recordHistory persists the hybrid scenario's financial summary to the
// optional Postgres-backed run history (§11 DOMAIN STACK: lib/pq). Failures
// here are swallowed by the caller (logged, not fatal) per the CacheError
// contract in §7 — a missing or unreachable history database must never
// fail a dimensioning run.
func recordHistory(ctx context.Context, dsn, siteKey string, result *hybrid.Result) error {
	if result.Scenarios == nil || result.Scenarios.Hybrid == nil {
		return nil
	}
	store, err := financial.OpenHistoryStore(ctx, dsn)
	if err != nil {
		return err
	}
	defer store.Close()

	fr := result.Scenarios.Hybrid
	return store.Record(ctx, financial.RunSummary{
		SiteKey:                siteKey,
		RanAt:                  time.Now().UTC(),
		NPV:                    fr.NPV,
		IRR:                    fr.IRR,
		SimplePaybackYears:     fr.SimplePaybackYears,
		DiscountedPaybackYears: fr.DiscountedPayback,
		LCOE:                   fr.LCOE,
	})
}

// buildOrchestrator wires the weather clients, geohash cache, and solar
// engine into one hybrid.Orchestrator, exactly the "construct once, pass
// handles" discipline named in §9 Design Notes.
func buildOrchestrator(cfg *config.Config, logger *log.Logger) (*hybrid.Orchestrator, error) {
	cache, err := geocache.New(cfg.CacheDir, uint(cfg.GeohashPrecision), cfg.CacheRadiusKM,
		time.Duration(cfg.CacheTTLDays)*24*time.Hour, log.New(os.Stdout, "[geocache] ", log.LstdFlags))
	if err != nil {
		return nil, fmt.Errorf("opening geohash cache: %w", err)
	}

	pvgis := weather.NewPVGISClient(cfg.PVGISBaseURL, cfg.PVGISTimeout)
	nasa := weather.NewNASAClient("", cfg.NASATimeout)
	provider := weather.NewProvider(pvgis, nasa, cache, log.New(os.Stdout, "[weather] ", log.LstdFlags))

	solarEngine := solar.NewEngine(cache, log.New(os.Stdout, "[solar] ", log.LstdFlags))

	return hybrid.NewOrchestrator(provider, solarEngine, log.New(os.Stdout, "[hybrid] ", log.LstdFlags)), nil
}

// loadRequest decodes a hybrid.Request from file, or builds the demo
// scenario (§8 literal Scenario 1/2/3) when no file is given.
func loadRequest(path string) (hybrid.Request, error) {
	if path == "" {
		return demoRequest(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return hybrid.Request{}, err
	}
	defer f.Close()
	var req hybrid.Request
	if err := json.NewDecoder(f).Decode(&req); err != nil {
		return hybrid.Request{}, fmt.Errorf("decoding request JSON: %w", err)
	}
	return req, nil
}

// demoRequest reproduces §8 Scenario 1/2: a 6.48 kWp rooftop system at
// (-15.79, -47.88) facing due south (180 deg azimuth clockwise from
// north, 20 deg tilt), a
// White tariff, and a 100 kWh / 50 kW arbitrage battery.
func demoRequest() hybrid.Request {
	module := pvmodel.Module{
		NameplateWattsSTC: 540,
		VocSTC:            49.5,
		IscSTC:            13.9,
		VmppSTC:           41.7,
		ImppSTC:           12.95,
		AlphaSC:           0.0004,
		BetaVoc:           -0.0025,
		GammaPmp:          -0.0035,
		CellsInSeries:     144,
	}

	inverter := pvmodel.Inverter{
		PACO:             5000,
		MaxDCInput:       6800,
		MPPTChannels:     2,
		StringsPerMPPT:   1,
		MaxInputCurrentA: 16,
		VMPPTMax:         550,
		VMPPTMin:         90,
		DCACEfficiency:   0.98,
	}

	plane := hybrid.RoofPlane{
		TiltDeg:     20,
		AzimuthDeg:  180,
		Plane:       pvmodel.Plane{ModulesPerString: 12, Strings: 1},
		InverterID:  "inv-1",
		MPPTChannel: 0,
	}

	fioBSchedule := financial.FioBSchedule{
		BaseYear: 2025,
		Fractions: map[int]float64{
			2025: 0.45,
			2026: 0.60,
			2027: 0.75,
			2028: 0.90,
		},
	}

	return hybrid.Request{
		Latitude:         -15.79,
		Longitude:        -47.88,
		SourcePreference: weather.SourcePVGIS,
		AllowFallback:    true,

		Planes:    []hybrid.RoofPlane{plane},
		Module:    module,
		Inverters: []hybrid.InverterConfig{{ID: "inv-1", Spec: inverter}},
		Losses: pvmodel.Losses{
			SoilingPct:  2,
			ShadingPct:  1,
			MismatchPct: 1,
			WiringPct:   1,
			OtherPct:    1,
		},

		Decomposition: solar.Erbs,
		Sky:           solar.Perez,

		MonthlyConsumptionKWh: [12]float64{500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500, 500},

		Tariff: tariff.Tariff{
			Kind:         tariff.White,
			PricePeak:    1.20,
			PriceOffPeak: 0.50,
			PeakWindow:   tariff.Window{Start: 18, End: 21},
		},

		BESS: &bess.State{
			CapacityKWh:  100,
			PowerKW:      50,
			SOCMin:       0.10,
			SOCMax:       1.00,
			EtaRoundtrip: 0.90,
			SOCInitial:   0.50,
		},
		BESSStrategy: bess.Arbitrage,

		Economic: hybrid.EconomicInput{
			CAPEXPerKWSolar: 4500,
			CAPEXPerKWhBESS: 2500,
			CAPEXPerKWBESS:  1500,
			OMAnnual:        300,
			Lifetime:        25,
			DiscountRate:    0.08,
			DegradationRate: 0.005,
			InflationEnergy: 0.05,
			InflationOM:     0.04,
			FSimul:          0.6,
			FioBRate:        0.25,
			FioB:            fioBSchedule,
			Mode:            financial.GroupB,
			TariffFlat:      0.85,
			Remote:          financial.RemoteAllocation{LocalSharePct: 100},
		},
	}
}

func printSummary(result *hybrid.Result) {
	fmt.Println("========================================")
	fmt.Println("PV + BESS DIMENSIONING RESULT")
	fmt.Println("========================================")
	fmt.Printf("Solar: %.1f kWp DC nameplate, %.0f kWh/year, PR %.1f%%\n",
		result.PV.TotalDCNameplateKW, result.PV.TotalAnnualEnergyKWh, result.PV.OverallPR)

	if result.BESS != nil {
		fmt.Printf("BESS: %.0f cycles/year, roundtrip %.1f%%, utilisation %.1f%%\n",
			result.BESS.EquivalentCyclesPerYear, result.BESS.ObservedRoundtrip*100, result.BESS.UtilizationFrac*100)
	}

	fmt.Printf("Self-sufficiency: %.1f%%  Solar self-consumption: %.1f%%\n",
		result.Metrics.SelfSufficiency*100, result.Metrics.SolarSelfConsumption*100)

	if result.Scenarios != nil && result.Scenarios.Hybrid != nil {
		printCashFlowTable(result.Scenarios.Hybrid)
	}

	for _, w := range result.Warnings {
		fmt.Println("WARNING:", w)
	}
	for _, r := range result.Recommendations {
		fmt.Println("RECOMMENDATION:", r)
	}
}

func printCashFlowTable(fr *financial.FinancialResult) {
	money := fr.Money()
	fmt.Println()
	fmt.Println("┌──────┬──────────────┬──────────────┬──────────────┐")
	fmt.Println("│ Year │  Nominal CF  │ Discounted CF│ Cum. Discnt. │")
	fmt.Println("├──────┼──────────────┼──────────────┼──────────────┤")
	for _, row := range fr.CashFlow {
		fmt.Printf("│ %4d │ %12.2f │ %12.2f │ %12.2f │\n",
			row.Year, row.NominalFlow, row.DiscountedFlow, row.CumulativeDiscounted)
	}
	fmt.Println("└──────┴──────────────┴──────────────┴──────────────┘")
	fmt.Printf("NPV: %s   IRR: %.2f%%   Simple payback: %.1f yr   Discounted payback: %.1f yr   LCOE: %s/kWh\n",
		money.NPV, fr.IRR*100, fr.SimplePaybackYears, fr.DiscountedPayback, money.LCOEPerKWh)
	if fr.IRRWasFallback {
		fmt.Println("WARNING: IRR root-finder diverged, conservative fallback rate used")
	}
}

func showHelp() {
	fmt.Println("pvbess-engine - size and simulate grid-connected PV, BESS, and hybrid installations")
	fmt.Println()
	fmt.Println("DESCRIPTION:")
	fmt.Println("  Turns a site + equipment + tariff description into an hourly energy balance")
	fmt.Println("  and a multi-year financial result under the Brazilian distributed-generation")
	fmt.Println("  regulatory regime (Law 14.300/2022).")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  pvbess-engine [OPTIONS]")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Run the built-in demo scenario with default settings")
	fmt.Println("  pvbess-engine")
	fmt.Println()
	fmt.Println("  # Run a specific dimensioning request with custom cache/timeout settings")
	fmt.Println("  pvbess-engine --config=config.json --request=request.json")
	fmt.Println()
	fmt.Println("  # Show this help")
	fmt.Println("  pvbess-engine -help")
}
