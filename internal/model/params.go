package model

import (
	"errors"
	"fmt"
	"math"
)

// Horizon is the number of forecast years (N, N+1, N+2, N+3).
const Horizon = 4

// Years holds one value per forecast year, index 0 = year N.
type Years [Horizon]float64

// Sum returns the plain (undiscounted) total.
func (y Years) Sum() float64 {
	s := 0.0
	for _, v := range y {
		s += v
	}
	return s
}

// YearLabel returns the display label of forecast year i ("N", "N+1", ...).
func YearLabel(i int) string {
	if i == 0 {
		return "N"
	}
	return fmt.Sprintf("N+%d", i)
}

// Params describes a discount on product A and the attach economics of product B.
// Units:
// - PriceA, NewPriceA, MarginBUnit: currency per unit
// - QtyA: units sold in year N at PriceA
// - MarginATotal: currency, total margin on A at QtyA
// - AttachRates, DiscountRatePct: percent (20 = 20%)
type Params struct {
	PriceA       float64 `json:"price_a" yaml:"price_a"`
	NewPriceA    float64 `json:"new_price_a" yaml:"new_price_a"`
	QtyA         float64 `json:"qty_a" yaml:"qty_a"`
	MarginATotal float64 `json:"margin_a_total" yaml:"margin_a_total"`
	Elasticity   float64 `json:"elasticity" yaml:"elasticity"`

	// DeltaAOverride replaces the elasticity-derived volume shift when set.
	// nil means absent; a pointer to 0 is a legitimate override.
	DeltaAOverride *float64 `json:"delta_a_override,omitempty" yaml:"delta_a_override,omitempty"`

	MarginBUnit     float64 `json:"margin_b_unit" yaml:"margin_b_unit"`
	AttachRates     Years   `json:"attach_rates" yaml:"attach_rates"`
	DiscountRatePct float64 `json:"discount_rate_pct" yaml:"discount_rate_pct"`
}

// WithNewPriceA returns a copy of p with NewPriceA replaced.
func (p Params) WithNewPriceA(price float64) Params {
	p.NewPriceA = price
	return p
}

// WithDiscount returns a copy of p where NewPriceA is PriceA reduced by discountPct percent.
func (p Params) WithDiscount(discountPct float64) Params {
	return p.WithNewPriceA(p.PriceA * (1 - discountPct/100))
}

// DiscountPct is the discount of NewPriceA relative to PriceA, in percent.
func (p Params) DiscountPct() float64 {
	return (1 - p.NewPriceA/p.PriceA) * 100
}

// Validate checks the input invariants. The simulation itself accepts any
// input; callers at the edges (config files, API requests) use this to reject
// records that would only produce degenerate results.
func (p Params) Validate() error {
	for name, v := range map[string]float64{
		"price_a":           p.PriceA,
		"new_price_a":       p.NewPriceA,
		"qty_a":             p.QtyA,
		"margin_a_total":    p.MarginATotal,
		"elasticity":        p.Elasticity,
		"margin_b_unit":     p.MarginBUnit,
		"discount_rate_pct": p.DiscountRatePct,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be finite", name)
		}
	}
	if p.PriceA <= 0 {
		return errors.New("price_a must be > 0")
	}
	if p.NewPriceA < 0 {
		return errors.New("new_price_a must be >= 0")
	}
	if p.QtyA < 0 {
		return errors.New("qty_a must be >= 0")
	}
	if p.DiscountRatePct <= -100 {
		return errors.New("discount_rate_pct must be > -100")
	}
	if p.DeltaAOverride != nil && (math.IsNaN(*p.DeltaAOverride) || math.IsInf(*p.DeltaAOverride, 0)) {
		return errors.New("delta_a_override must be finite")
	}
	for i, a := range p.AttachRates {
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return fmt.Errorf("attach_rates[%d] must be finite", i)
		}
	}
	return nil
}
