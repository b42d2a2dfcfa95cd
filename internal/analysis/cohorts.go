package analysis

import (
	"errors"
	"fmt"
	"math"

	"discount-leverage/internal/model"
)

// DefaultCohortShares splits incremental A buyers into three acquisition cohorts.
var DefaultCohortShares = []float64{0.45, 0.35, 0.20}

// ValidateCohortShares checks that shares are non-negative and sum to 1.
func ValidateCohortShares(shares []float64) error {
	sum := 0.0
	for _, s := range shares {
		if s < 0 || math.IsNaN(s) {
			return errors.New("cohort_shares must be >= 0")
		}
		sum += s
	}
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("cohort_shares must sum to 1, got %g", sum)
	}
	return nil
}

// Cohort is the B margin contributed by one share of the incremental A buyers.
type Cohort struct {
	Name   string      `json:"name"`
	Share  float64     `json:"share"`
	Values model.Years `json:"values"`
}

// Cohorts breaks the B margin of r down by buyer cohort.
// Only volume growth creates cohorts; a negative shift counts as zero buyers.
func Cohorts(p model.Params, r model.Result, shares []float64) []Cohort {
	base := math.Max(0, r.DeltaAUnits)
	out := make([]Cohort, 0, len(shares))
	for i, share := range shares {
		c := Cohort{
			Name:  fmt.Sprintf("Cohort %d", i+1),
			Share: share,
		}
		for y, attach := range p.AttachRates {
			c.Values[y] = base * share * (attach / 100) * p.MarginBUnit
		}
		out = append(out, c)
	}
	return out
}
