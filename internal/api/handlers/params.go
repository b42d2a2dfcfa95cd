package handlers

import (
	"errors"
	"fmt"
	"math"
	"net/http"

	"discount-leverage/internal/api/models"
	"discount-leverage/internal/config"
	"discount-leverage/internal/data"
	"discount-leverage/internal/format"
	"discount-leverage/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

var errPresetNotFound = errors.New("preset not found")

// resolveParams merges the request params onto the referenced preset (if any)
// and validates the result.
func resolveParams(presetDir string, req models.ParamsRequest) (model.Params, error) {
	override := config.ParamsConfig{
		Name:            req.Params.Name,
		PriceA:          req.Params.PriceA,
		NewPriceA:       req.Params.NewPriceA,
		DiscountPct:     req.Params.DiscountPct,
		QtyA:            req.Params.QtyA,
		MarginATotal:    req.Params.MarginATotal,
		Elasticity:      req.Params.Elasticity,
		DeltaAOverride:  req.Params.DeltaAOverride,
		MarginBUnit:     req.Params.MarginBUnit,
		DiscountRatePct: req.Params.DiscountRatePct,
	}
	copy(override.AttachRates[:], req.Params.AttachRates)

	merged := override
	if req.PresetID != "" {
		path, ok := data.PresetPath(presetDir, req.PresetID)
		if !ok {
			return model.Params{}, fmt.Errorf("%w: %q", errPresetNotFound, req.PresetID)
		}
		preset, err := data.LoadPreset(path)
		if err != nil {
			log.Warn().Err(err).Str("preset", req.PresetID).Msg("failed to load preset")
			return model.Params{}, fmt.Errorf("%w: %q", errPresetNotFound, req.PresetID)
		}
		merged = config.MergeParams(preset.Params, override)
	}

	p := merged.ToModelParams()
	if err := p.Validate(); err != nil {
		return model.Params{}, err
	}
	return p, nil
}

// bindParams binds the JSON body into req and resolves its params, writing
// the error response itself. It reports whether the handler should continue.
func bindParams(c *gin.Context, presetDir string, req interface{}, common func() models.ParamsRequest) (model.Params, bool) {
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error(), nil)
		return model.Params{}, false
	}
	pr := common()
	if pr.Format != nil {
		if err := pr.Format.Validate(); err != nil {
			writeError(c, http.StatusBadRequest, "INVALID_FORMAT", err.Error(), nil)
			return model.Params{}, false
		}
	}
	p, err := resolveParams(presetDir, pr)
	if err != nil {
		if errors.Is(err, errPresetNotFound) {
			writeError(c, http.StatusNotFound, "PRESET_NOT_FOUND", err.Error(), map[string]interface{}{
				"preset_id": pr.PresetID,
			})
			return model.Params{}, false
		}
		log.Warn().Err(err).Str("path", c.FullPath()).Msg("rejected params")
		writeError(c, http.StatusBadRequest, "INVALID_PARAMS", err.Error(), nil)
		return model.Params{}, false
	}
	return p, true
}

func writeError(c *gin.Context, status int, code, message string, details map[string]interface{}) {
	c.JSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// writeNonFinite rejects results that cannot be encoded as JSON numbers.
func writeNonFinite(c *gin.Context, field string) {
	writeError(c, http.StatusUnprocessableEntity, "NON_FINITE_RESULT",
		"simulation produced a non-finite value; check price_a, qty_a and margin_b_unit",
		map[string]interface{}{"field": field})
}

func allFinite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// display formats the named values with opts. Values that fail to format are omitted.
func display(opts *format.Options, vals map[string]float64) map[string]string {
	if opts == nil {
		return nil
	}
	out := make(map[string]string, len(vals))
	for k, v := range vals {
		s, err := opts.Apply(v)
		if err != nil {
			continue
		}
		out[k] = s
	}
	return out
}
