package sim

import (
	"math"

	"discount-leverage/internal/model"
)

// Simulate computes the margin impact of discounting A and the B margin the
// extra A volume pulls in over the forecast horizon.
//
// It never rejects input. PriceA == 0 makes the elasticity term non-finite and
// the result carries NaN/Inf; QtyA == 0 yields a zero implied unit cost.
func Simulate(p model.Params) model.Result {
	// Implied unit cost keeps the model consistent with the reported aggregate margin.
	unitCostA := 0.0
	if p.QtyA > 0 {
		unitCostA = (p.PriceA*p.QtyA - p.MarginATotal) / p.QtyA
	}
	baselineMarginPerUnit := p.PriceA - unitCostA
	newMarginPerUnit := p.NewPriceA - unitCostA

	var deltaAUnits float64
	if p.DeltaAOverride != nil {
		deltaAUnits = *p.DeltaAOverride
	} else {
		// A price cut with negative elasticity gives a positive shift.
		deltaAUnits = p.QtyA * p.Elasticity * ((p.NewPriceA - p.PriceA) / p.PriceA)
	}
	newQtyA := p.QtyA + deltaAUnits

	dMarginA := newMarginPerUnit*newQtyA - baselineMarginPerUnit*p.QtyA

	// The same incremental A volume drives every year; only the attach rate varies.
	var dMarginB model.Years
	for i, attach := range p.AttachRates {
		dMarginB[i] = deltaAUnits * (attach / 100) * p.MarginBUnit
	}

	yearly := dMarginB
	yearly[0] = dMarginA + dMarginB[0]

	breakevenPct := 0.0
	if deltaAUnits > 0 {
		breakevenPct = math.Max(0, (-dMarginA/(deltaAUnits*p.MarginBUnit))*100)
	}

	return model.Result{
		DeltaAUnits:  deltaAUnits,
		DMarginA:     dMarginA,
		DMarginB:     dMarginB,
		Yearly:       yearly,
		Cum:          yearly.Sum(),
		NPV:          DiscountCashflows(yearly[:], p.DiscountRatePct),
		BreakevenPct: breakevenPct,
	}
}
