package sim

import "discount-leverage/internal/model"

// BreakevenPoint is the year-N attach rate needed to offset A's margin loss at one discount depth.
type BreakevenPoint struct {
	DiscountPct    float64 `json:"discount_pct"`
	AttachRequired float64 `json:"attach_required"`
}

// BreakevenCurve sweeps discount percentages through Simulate, holding every
// other parameter fixed. Output order matches discountPcts.
func BreakevenCurve(p model.Params, discountPcts []float64) []BreakevenPoint {
	out := make([]BreakevenPoint, 0, len(discountPcts))
	for _, d := range discountPcts {
		res := Simulate(p.WithDiscount(d))
		out = append(out, BreakevenPoint{
			DiscountPct:    d,
			AttachRequired: res.BreakevenPct,
		})
	}
	return out
}
