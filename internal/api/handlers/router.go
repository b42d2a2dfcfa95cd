package handlers

import (
	"net/http"

	"discount-leverage/internal/api/middleware"
	"discount-leverage/internal/data"

	"github.com/gin-gonic/gin"
)

// NewRouter wires every route. runs stores simulations for ledger retrieval.
func NewRouter(presetDir string, runs *data.ResultCache) *gin.Engine {
	router := gin.New()

	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())

	simulationHandler := NewSimulationHandler(presetDir, runs)
	analysisHandler := NewAnalysisHandler(presetDir)
	presetHandler := NewPresetHandler(presetDir)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.POST("/simulate", simulationHandler.Simulate)
		api.GET("/simulations/:id/ledger", simulationHandler.GetLedger)

		api.POST("/breakeven", analysisHandler.Breakeven)
		api.POST("/sensitivity", analysisHandler.Sensitivity)
		api.POST("/scenarios", analysisHandler.Scenarios)

		api.GET("/presets", presetHandler.ListPresets)
		api.GET("/drivers", ListDrivers)
	}

	router.NoRoute(func(c *gin.Context) {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Not found", nil)
	})

	return router
}
