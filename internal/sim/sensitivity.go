package sim

import (
	"math"

	"discount-leverage/internal/model"
)

// DefaultSensitivityStep is the ± fraction applied to each driver.
const DefaultSensitivityStep = 0.1

// Driver identifies one input perturbed by the tornado analysis.
// Keep these values stable; API clients key chart rows on them.
type Driver string

const (
	DriverElasticity   Driver = "elasticity"
	DriverMarginBUnit  Driver = "margin_b_unit"
	DriverAttachRateN  Driver = "attach_rate_n"
	DriverDiscountRate Driver = "discount_rate"
)

// DriverInfo describes a tornado driver for listing endpoints.
type DriverInfo struct {
	Driver      Driver `json:"driver"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type driverRule struct {
	DriverInfo
	mutate func(p model.Params, factor float64) model.Params
}

// drivers is the fixed tornado order. Only the discount rate is floored at 0.
var drivers = []driverRule{
	{
		DriverInfo: DriverInfo{DriverElasticity, "Elasticity", "Price elasticity of demand for A"},
		mutate: func(p model.Params, factor float64) model.Params {
			p.Elasticity *= factor
			return p
		},
	},
	{
		DriverInfo: DriverInfo{DriverMarginBUnit, "B unit margin", "Margin per attached unit of B"},
		mutate: func(p model.Params, factor float64) model.Params {
			p.MarginBUnit *= factor
			return p
		},
	},
	{
		DriverInfo: DriverInfo{DriverAttachRateN, "Attach rate N", "Attach rate of B in year N"},
		mutate: func(p model.Params, factor float64) model.Params {
			p.AttachRates[0] *= factor
			return p
		},
	},
	{
		DriverInfo: DriverInfo{DriverDiscountRate, "Discount rate", "Annual rate used for the NPV"},
		mutate: func(p model.Params, factor float64) model.Params {
			p.DiscountRatePct = math.Max(0, p.DiscountRatePct*factor)
			return p
		},
	},
}

// Drivers lists the tornado drivers in output order.
func Drivers() []DriverInfo {
	out := make([]DriverInfo, len(drivers))
	for i, d := range drivers {
		out[i] = d.DriverInfo
	}
	return out
}

// SensitivityBar is one row of a tornado chart: NPV deltas versus baseline.
// Minus is not forced negative; it follows the model's response.
type SensitivityBar struct {
	Driver Driver  `json:"driver"`
	Name   string  `json:"name"`
	Plus   float64 `json:"plus"`
	Minus  float64 `json:"minus"`
}

// Sensitivity perturbs each driver by ±step (0.1 = 10%) and reports the NPV swing.
// The result always has one entry per driver, in Drivers() order.
func Sensitivity(p model.Params, step float64) []SensitivityBar {
	baseline := Simulate(p).NPV
	out := make([]SensitivityBar, 0, len(drivers))
	for _, d := range drivers {
		minus := Simulate(d.mutate(p, 1-step)).NPV
		plus := Simulate(d.mutate(p, 1+step)).NPV
		out = append(out, SensitivityBar{
			Driver: d.Driver,
			Name:   d.Name,
			Plus:   plus - baseline,
			Minus:  minus - baseline,
		})
	}
	return out
}
