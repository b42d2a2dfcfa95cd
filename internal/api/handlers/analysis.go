package handlers

import (
	"fmt"
	"net/http"

	"discount-leverage/internal/analysis"
	"discount-leverage/internal/api/models"
	"discount-leverage/internal/sim"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// AnalysisHandler handles sweeps built on top of the simulation
type AnalysisHandler struct {
	presetDir string
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(presetDir string) *AnalysisHandler {
	return &AnalysisHandler{presetDir: presetDir}
}

// Breakeven handles POST /api/v1/breakeven
func (h *AnalysisHandler) Breakeven(c *gin.Context) {
	var req models.BreakevenRequest
	p, ok := bindParams(c, h.presetDir, &req, func() models.ParamsRequest { return req.ParamsRequest })
	if !ok {
		return
	}

	pcts := req.DiscountPcts
	if len(pcts) == 0 {
		pcts = analysis.DefaultCurveDiscounts()
	}
	curve := sim.BreakevenCurve(p, pcts)
	for i, pt := range curve {
		if !allFinite(pt.AttachRequired) {
			writeNonFinite(c, fmt.Sprintf("curve[%d].attach_required", i))
			return
		}
	}

	log.Debug().Int("points", len(curve)).Msg("breakeven curve computed")
	c.JSON(http.StatusOK, models.BreakevenResponse{Curve: curve})
}

// Sensitivity handles POST /api/v1/sensitivity
func (h *AnalysisHandler) Sensitivity(c *gin.Context) {
	var req models.SensitivityRequest
	p, ok := bindParams(c, h.presetDir, &req, func() models.ParamsRequest { return req.ParamsRequest })
	if !ok {
		return
	}

	step := sim.DefaultSensitivityStep
	if req.Step != nil {
		step = *req.Step
	}
	baseline := sim.Simulate(p).NPV
	bars := sim.Sensitivity(p, step)
	if !allFinite(baseline) {
		writeNonFinite(c, "baseline_npv")
		return
	}
	for _, b := range bars {
		if !allFinite(b.Plus, b.Minus) {
			writeNonFinite(c, "bars."+string(b.Driver))
			return
		}
	}

	c.JSON(http.StatusOK, models.SensitivityResponse{
		Step:        step,
		BaselineNPV: baseline,
		Bars:        bars,
		Display:     display(req.Format, map[string]float64{"baseline_npv": baseline}),
	})
}

// Scenarios handles POST /api/v1/scenarios
func (h *AnalysisHandler) Scenarios(c *gin.Context) {
	var req models.ScenariosRequest
	p, ok := bindParams(c, h.presetDir, &req, func() models.ParamsRequest { return req.ParamsRequest })
	if !ok {
		return
	}

	discounts := req.Discounts
	if len(discounts) == 0 {
		discounts = analysis.DefaultScenarioDiscounts
	}
	shares := req.CohortShares
	if len(shares) == 0 {
		shares = analysis.DefaultCohortShares
	} else if err := analysis.ValidateCohortShares(shares); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return
	}

	scenarios := analysis.CompareDiscounts(p, discounts)
	for _, s := range scenarios {
		if !s.Result.Finite() {
			writeNonFinite(c, "scenario "+s.Label)
			return
		}
	}

	base := sim.Simulate(p)
	if !base.Finite() {
		writeNonFinite(c, "result")
		return
	}

	resp := models.ScenariosResponse{
		Labels:    analysis.WaterfallLabels(),
		Scenarios: scenarios,
		Cohorts:   analysis.Cohorts(p, base, shares),
	}
	if ranked := analysis.RankByNPV(scenarios); len(ranked) > 0 {
		resp.BestNPV = ranked[0].Label
	}
	c.JSON(http.StatusOK, resp)
}

// ListDrivers handles GET /api/v1/drivers
func ListDrivers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"drivers": sim.Drivers()})
}
