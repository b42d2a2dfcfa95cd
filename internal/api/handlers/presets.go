package handlers

import (
	"net/http"

	"discount-leverage/internal/api/models"
	"discount-leverage/internal/data"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// PresetHandler lists preset parameter files
type PresetHandler struct {
	presetDir string
}

// NewPresetHandler creates a new preset handler
func NewPresetHandler(presetDir string) *PresetHandler {
	log.Info().Str("dir", presetDir).Msg("using preset directory")
	return &PresetHandler{presetDir: presetDir}
}

// ListPresets handles GET /api/v1/presets
func (h *PresetHandler) ListPresets(c *gin.Context) {
	presets := []models.PresetInfo{}

	loaded, skipped, err := data.LoadPresets(h.presetDir)
	if err != nil {
		// A missing directory just means no presets.
		log.Warn().Err(err).Str("dir", h.presetDir).Msg("failed to read preset directory")
		c.JSON(http.StatusOK, gin.H{"presets": presets})
		return
	}
	for name, err := range skipped {
		log.Warn().Err(err).Str("file", name).Msg("skipping invalid preset")
	}

	for _, p := range loaded {
		mp := p.Params.ToModelParams()
		info := models.PresetInfo{
			ID:     p.ID,
			Name:   p.Name,
			File:   p.File,
			PriceA: mp.PriceA,
		}
		if mp.PriceA > 0 {
			info.DiscountPct = mp.DiscountPct()
		}
		presets = append(presets, info)
	}

	c.JSON(http.StatusOK, gin.H{"presets": presets})
}
