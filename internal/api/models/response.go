package models

import (
	"time"

	"discount-leverage/internal/analysis"
	"discount-leverage/internal/forecast"
	"discount-leverage/internal/model"
	"discount-leverage/internal/sim"
)

// SimulateResponse represents the response from a simulation run
type SimulateResponse struct {
	ID        string                   `json:"id"`
	CreatedAt time.Time                `json:"created_at"`
	Status    string                   `json:"status"`
	Params    model.Params             `json:"params"`
	Result    model.Result             `json:"result"`
	Waterfall []analysis.WaterfallStep `json:"waterfall"`
	Ledger    []forecast.LedgerRow     `json:"ledger"`
	Display   map[string]string        `json:"display,omitempty"`
}

// LedgerResponse represents a stored run's ledger
type LedgerResponse struct {
	ID     string               `json:"id"`
	Ledger []forecast.LedgerRow `json:"ledger"`
}

// BreakevenResponse represents the required attach rate per discount depth
type BreakevenResponse struct {
	Curve []sim.BreakevenPoint `json:"curve"`
}

// SensitivityResponse represents tornado chart data
type SensitivityResponse struct {
	Step        float64              `json:"step"`
	BaselineNPV float64              `json:"baseline_npv"`
	Bars        []sim.SensitivityBar `json:"bars"`
	Display     map[string]string    `json:"display,omitempty"`
}

// ScenariosResponse compares discount depths side by side
type ScenariosResponse struct {
	Labels    []string            `json:"labels"` // waterfall labels shared by all scenarios
	Scenarios []analysis.Scenario `json:"scenarios"`
	BestNPV   string              `json:"best_npv,omitempty"` // label of the highest-NPV scenario
	Cohorts   []analysis.Cohort   `json:"cohorts"`
}

// PresetInfo represents a preset parameter file
type PresetInfo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	File        string  `json:"file"`
	PriceA      float64 `json:"price_a"`
	DiscountPct float64 `json:"discount_pct"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
