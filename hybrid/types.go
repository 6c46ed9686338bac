// Package hybrid implements the Hybrid Orchestrator (§4.10): it chains the
// Weather Provider, PV production simulator, BESS dispatcher, and
// Financial Engine into one combined dimensioning response.
package hybrid

import (
	"github.com/devskill-org/pvbess-engine/bess"
	"github.com/devskill-org/pvbess-engine/financial"
	"github.com/devskill-org/pvbess-engine/pvmodel"
	"github.com/devskill-org/pvbess-engine/solar"
	"github.com/devskill-org/pvbess-engine/tariff"
	"github.com/devskill-org/pvbess-engine/weather"
)

// RoofPlane is one "Água de Telhado" plane's geometry plus the electrical
// configuration feeding one inverter's MPPT channel (§3).
type RoofPlane struct {
	TiltDeg     float64
	AzimuthDeg  float64
	Plane       pvmodel.Plane
	InverterID  string
	MPPTChannel int
}

// InverterConfig names one inverter instance in the request.
type InverterConfig struct {
	ID   string
	Spec pvmodel.Inverter
}

// EconomicInput is the §6 "economic block": CAPEX rates, lifetime,
// discount rate, and the financial-engine parameters needed to run the
// Group A/B accounting.
type EconomicInput struct {
	CAPEXPerKWSolar   float64 // R$/kW DC nameplate
	CAPEXPerKWhBESS   float64 // R$/kWh capacity
	CAPEXPerKWBESS    float64 // R$/kW power
	OMAnnual          float64
	Lifetime          int
	DiscountRate      float64
	DegradationRate   float64
	InflationEnergy   float64
	InflationOM       float64
	FSimul            float64
	FioBRate          float64
	FioB              financial.FioBSchedule
	Mode              financial.AccountingMode
	TariffFlat        float64 // Group B
	OffPeakPrice      float64 // Group A
	PeakPrice         float64 // Group A
	TERatio           float64 // Group A
	Remote            financial.RemoteAllocation
}

// Request is the §6 "Hybrid dimensioning request".
type Request struct {
	Latitude, Longitude float64
	SourcePreference    weather.Source
	AllowFallback       bool

	Planes    []RoofPlane
	Module    pvmodel.Module
	Inverters []InverterConfig
	Losses    pvmodel.Losses

	Decomposition solar.DecompositionModel
	Sky           solar.SkyModel

	MonthlyConsumptionKWh   [12]float64
	ConsumptionShapePercent *[24]float64 // nil = flat (uniform) shape

	Tariff tariff.Tariff

	BESS               *bess.State // nil = no battery
	BESSStrategy       bess.Strategy
	PeakShavingLimitKW float64

	Economic EconomicInput
}

// PVBlock is the §6 "sistema_solar" response block.
type PVBlock struct {
	ByInverter         map[string]pvmodel.InverterResult
	TotalAnnualEnergyKWh float64
	TotalDCNameplateKW float64
	OverallPR          float64
}

// BESSBlock is the §6 "sistema_bess" response block.
type BESSBlock struct {
	bess.Result
	EquivalentCyclesPerYear float64
}

// HybridMetrics are the §4.10 combined-system energy-flow metrics.
type HybridMetrics struct {
	SelfSufficiency      float64 // (PV-to-load + BESS-to-load) / load
	SolarSelfConsumption float64 // (PV-to-load + PV-to-BESS) / PV-generated
}

// ScenarioComparison is the §4.9 "Hybrid comparison": four independent
// flow series sharing the same tariff/inflation assumptions.
type ScenarioComparison struct {
	NoSystem  *financial.FinancialResult
	SolarOnly *financial.FinancialResult
	BESSOnly  *financial.FinancialResult
	Hybrid    *financial.FinancialResult
}

// Result is the §6 "analise_hibrida" response.
type Result struct {
	PV              PVBlock
	BESS            *BESSBlock
	Metrics         HybridMetrics
	Scenarios       *ScenarioComparison
	Warnings        []string
	Recommendations []string
}
