package forecast

import (
	"discount-leverage/internal/model"
	"discount-leverage/internal/sim"
)

// LedgerRow is one forecast year of a simulation.
// This is the primary artifact for "where the value comes from".
type LedgerRow struct {
	Index int    `json:"index"`
	Year  string `json:"year"`

	AttachRatePct float64 `json:"attach_rate_pct"`

	// MarginA is A's margin impact; non-zero in year N only.
	MarginA float64 `json:"margin_a"`
	MarginB float64 `json:"margin_b"`

	Cashflow       float64 `json:"cashflow"`
	DiscountFactor float64 `json:"discount_factor"`
	PresentValue   float64 `json:"present_value"`

	CumCashflow     float64 `json:"cum_cashflow"`
	CumPresentValue float64 `json:"cum_present_value"`
}

// BuildLedger lays r out per forecast year using the discount rate of p.
func BuildLedger(p model.Params, r model.Result) []LedgerRow {
	rows := make([]LedgerRow, 0, model.Horizon)
	cum, cumPV := 0.0, 0.0
	for i := 0; i < model.Horizon; i++ {
		df := sim.DiscountFactor(p.DiscountRatePct, i)
		pv := r.Yearly[i] * df
		cum += r.Yearly[i]
		cumPV += pv

		row := LedgerRow{
			Index:          i,
			Year:           model.YearLabel(i),
			AttachRatePct:  p.AttachRates[i],
			MarginB:        r.DMarginB[i],
			Cashflow:       r.Yearly[i],
			DiscountFactor: df,
			PresentValue:   pv,

			CumCashflow:     cum,
			CumPresentValue: cumPV,
		}
		if i == 0 {
			row.MarginA = r.DMarginA
		}
		rows = append(rows, row)
	}
	return rows
}
