package model

import "math"

// Result is the outcome of one simulation run.
type Result struct {
	// DeltaAUnits is the unit-volume shift of A caused by the discount.
	DeltaAUnits float64 `json:"delta_a_units"`
	// DMarginA is the change in A's total margin (realized in year N only).
	DMarginA float64 `json:"d_margin_a"`
	// DMarginB is the incremental B margin per forecast year.
	DMarginB Years `json:"d_margin_b"`
	// Yearly is the cashflow per forecast year: DMarginA+DMarginB[0], then DMarginB[1..].
	Yearly Years `json:"yearly"`
	// Cum is the undiscounted sum of Yearly.
	Cum float64 `json:"cum"`
	// NPV is Yearly discounted at the params' discount rate.
	NPV float64 `json:"npv"`
	// BreakevenPct is the year-N attach rate (percent) that offsets DMarginA.
	BreakevenPct float64 `json:"breakeven_pct"`
}

// Finite reports whether every field holds a finite number.
// Degenerate inputs (e.g. PriceA == 0) yield NaN/Inf fields that callers filter.
func (r Result) Finite() bool {
	vals := []float64{r.DeltaAUnits, r.DMarginA, r.Cum, r.NPV, r.BreakevenPct}
	vals = append(vals, r.DMarginB[:]...)
	vals = append(vals, r.Yearly[:]...)
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
