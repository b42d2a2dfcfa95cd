package sim

import "math"

// DiscountCashflows present-values cashflows at an annual rate given in percent.
// Period 0 is the first forecast year and is not discounted.
func DiscountCashflows(cashflows []float64, discountRatePct float64) float64 {
	rate := discountRatePct / 100
	total := 0.0
	for i, cf := range cashflows {
		total += cf / math.Pow(1+rate, float64(i))
	}
	return total
}

// DiscountFactor is the multiplier applied to a cashflow in period i.
func DiscountFactor(discountRatePct float64, period int) float64 {
	return 1 / math.Pow(1+discountRatePct/100, float64(period))
}
