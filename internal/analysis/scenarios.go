package analysis

import (
	"fmt"
	"sort"

	"discount-leverage/internal/model"
	"discount-leverage/internal/sim"
)

// DefaultScenarioDiscounts are the discount depths compared side by side.
var DefaultScenarioDiscounts = []float64{3, 7, 12}

// Scenario is a full simulation at one discount depth.
type Scenario struct {
	Label       string       `json:"label"`
	DiscountPct float64      `json:"discount_pct"`
	NewPriceA   float64      `json:"new_price_a"`
	Result      model.Result `json:"result"`
	Waterfall   []float64    `json:"waterfall"`
}

// CompareDiscounts simulates p at each discount depth, in input order.
func CompareDiscounts(p model.Params, discounts []float64) []Scenario {
	out := make([]Scenario, 0, len(discounts))
	for _, d := range discounts {
		variant := p.WithDiscount(d)
		res := sim.Simulate(variant)
		out = append(out, Scenario{
			Label:       fmt.Sprintf("-%g %%", d),
			DiscountPct: d,
			NewPriceA:   variant.NewPriceA,
			Result:      res,
			Waterfall:   WaterfallValues(res),
		})
	}
	return out
}

// RankByNPV returns a copy of scenarios sorted by descending NPV.
func RankByNPV(scenarios []Scenario) []Scenario {
	out := append([]Scenario(nil), scenarios...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Result.NPV > out[j].Result.NPV
	})
	return out
}

// DefaultCurveDiscounts returns 0..20 percent in one-point steps.
func DefaultCurveDiscounts() []float64 {
	out := make([]float64, 21)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}
