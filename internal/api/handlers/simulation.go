package handlers

import (
	"net/http"

	"discount-leverage/internal/analysis"
	"discount-leverage/internal/api/models"
	"discount-leverage/internal/data"
	"discount-leverage/internal/forecast"
	"discount-leverage/internal/sim"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SimulationHandler handles simulation runs and their stored ledgers
type SimulationHandler struct {
	presetDir string
	runs      *data.ResultCache
}

// NewSimulationHandler creates a new simulation handler
func NewSimulationHandler(presetDir string, runs *data.ResultCache) *SimulationHandler {
	return &SimulationHandler{presetDir: presetDir, runs: runs}
}

// Simulate handles POST /api/v1/simulate
func (h *SimulationHandler) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	p, ok := bindParams(c, h.presetDir, &req, func() models.ParamsRequest { return req.ParamsRequest })
	if !ok {
		return
	}

	res := sim.Simulate(p)
	if !res.Finite() {
		writeNonFinite(c, "result")
		return
	}

	run := h.runs.Put(data.Run{
		Params: p,
		Result: res,
		Ledger: forecast.BuildLedger(p, res),
	})
	log.Debug().Str("id", run.ID).Float64("npv", res.NPV).Msg("simulation stored")

	c.JSON(http.StatusOK, models.SimulateResponse{
		ID:        run.ID,
		CreatedAt: run.CreatedAt,
		Status:    "completed",
		Params:    p,
		Result:    res,
		Waterfall: analysis.Waterfall(res),
		Ledger:    run.Ledger,
		Display: display(req.Format, map[string]float64{
			"d_margin_a": res.DMarginA,
			"cum":        res.Cum,
			"npv":        res.NPV,
		}),
	})
}

// GetLedger handles GET /api/v1/simulations/:id/ledger
// Use ?format=csv for a CSV download.
func (h *SimulationHandler) GetLedger(c *gin.Context) {
	id := c.Param("id")
	run, ok := h.runs.Get(id)
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "simulation not found or expired", map[string]interface{}{
			"id": id,
		})
		return
	}

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="ledger-`+run.ID+`.csv"`)
		c.Status(http.StatusOK)
		if err := forecast.WriteLedgerCSV(c.Writer, run.Ledger); err != nil {
			log.Error().Err(err).Str("id", id).Msg("write ledger csv")
		}
		return
	}

	c.JSON(http.StatusOK, models.LedgerResponse{ID: run.ID, Ledger: run.Ledger})
}
