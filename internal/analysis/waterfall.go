package analysis

import "discount-leverage/internal/model"

// WaterfallStep is one bar of a margin waterfall.
// Offset is where the bar starts; Total bars always start at 0.
type WaterfallStep struct {
	Label  string  `json:"label"`
	Value  float64 `json:"value"`
	Offset float64 `json:"offset"`
	Total  bool    `json:"total"`
}

// WaterfallValues returns the sequential contributions of a result:
// A's margin impact, each year's B impact, then the cumulative total.
func WaterfallValues(r model.Result) []float64 {
	vals := make([]float64, 0, model.Horizon+2)
	vals = append(vals, r.DMarginA)
	vals = append(vals, r.DMarginB[:]...)
	return append(vals, r.Cum)
}

// WaterfallLabels matches WaterfallValues.
func WaterfallLabels() []string {
	labels := make([]string, 0, model.Horizon+2)
	labels = append(labels, "Δ margin A")
	for i := 0; i < model.Horizon; i++ {
		labels = append(labels, "B "+model.YearLabel(i))
	}
	return append(labels, "Total")
}

// Waterfall stacks the contributions of r. Negative bars hang below the
// running total; the final bar is the total itself.
func Waterfall(r model.Result) []WaterfallStep {
	return BuildWaterfall(WaterfallLabels(), WaterfallValues(r))
}

// BuildWaterfall computes offsets for arbitrary values; the last value is the total.
func BuildWaterfall(labels []string, values []float64) []WaterfallStep {
	out := make([]WaterfallStep, len(values))
	cum := 0.0
	for i, v := range values {
		step := WaterfallStep{Value: v}
		if i < len(labels) {
			step.Label = labels[i]
		}
		if i == len(values)-1 {
			step.Total = true
			out[i] = step
			continue
		}
		if v >= 0 {
			step.Offset = cum
		} else {
			step.Offset = cum + v
		}
		cum += v
		out[i] = step
	}
	return out
}
