package models

import "discount-leverage/internal/format"

// ParamsInput mirrors the YAML params block. Zero fields fall back to the preset.
type ParamsInput struct {
	Name            string    `json:"name,omitempty"`
	PriceA          float64   `json:"price_a"`
	NewPriceA       float64   `json:"new_price_a"`
	DiscountPct     float64   `json:"discount_pct,omitempty"` // alternative to new_price_a
	QtyA            float64   `json:"qty_a"`
	MarginATotal    float64   `json:"margin_a_total"`
	Elasticity      float64   `json:"elasticity"`
	DeltaAOverride  *float64  `json:"delta_a_override,omitempty"`
	MarginBUnit     float64   `json:"margin_b_unit"`
	AttachRates     []float64 `json:"attach_rates,omitempty" binding:"omitempty,len=4"`
	DiscountRatePct float64   `json:"discount_rate_pct"`
}

// ParamsRequest is the common part of every simulation request.
type ParamsRequest struct {
	PresetID string          `json:"preset_id,omitempty"` // file name in the preset dir, without .yaml
	Params   ParamsInput     `json:"params"`
	Format   *format.Options `json:"format,omitempty"` // adds display strings when set
}

// SimulateRequest is the body of POST /api/v1/simulate.
type SimulateRequest struct {
	ParamsRequest
}

// BreakevenRequest is the body of POST /api/v1/breakeven.
type BreakevenRequest struct {
	ParamsRequest
	DiscountPcts []float64 `json:"discount_pcts,omitempty"` // default: 0..20
}

// SensitivityRequest is the body of POST /api/v1/sensitivity.
type SensitivityRequest struct {
	ParamsRequest
	Step *float64 `json:"step,omitempty" binding:"omitempty,gt=0,lt=1"` // default: 0.1
}

// ScenariosRequest is the body of POST /api/v1/scenarios.
type ScenariosRequest struct {
	ParamsRequest
	Discounts    []float64 `json:"discounts,omitempty"`                                    // default: 3, 7, 12
	CohortShares []float64 `json:"cohort_shares,omitempty" binding:"omitempty,dive,gte=0"` // default: .45/.35/.20
}
