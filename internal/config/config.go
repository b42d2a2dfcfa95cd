package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"discount-leverage/internal/analysis"
	"discount-leverage/internal/format"
	"discount-leverage/internal/model"
	"discount-leverage/internal/sim"

	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration shape (YAML).
type Config struct {
	// Optional: load params from a preset YAML (e.g. examples/presets/*.yaml).
	// If both PresetFile and Params are provided, Params overrides PresetFile.
	PresetFile string         `yaml:"preset_file"`
	Params     ParamsConfig   `yaml:"params"`
	Analysis   AnalysisConfig `yaml:"analysis"`
	Display    format.Options `yaml:"display"`
}

type ParamsConfig struct {
	Name            string     `yaml:"name"`
	PriceA          float64    `yaml:"price_a"`
	NewPriceA       float64    `yaml:"new_price_a"`
	DiscountPct     float64    `yaml:"discount_pct"` // alternative to new_price_a
	QtyA            float64    `yaml:"qty_a"`
	MarginATotal    float64    `yaml:"margin_a_total"`
	Elasticity      float64    `yaml:"elasticity"`
	DeltaAOverride  *float64   `yaml:"delta_a_override"`
	MarginBUnit     float64    `yaml:"margin_b_unit"`
	AttachRates     [4]float64 `yaml:"attach_rates"`
	DiscountRatePct float64    `yaml:"discount_rate_pct"`
}

type AnalysisConfig struct {
	SensitivityStep   float64   `yaml:"sensitivity_step"`
	CurveDiscounts    []float64 `yaml:"curve_discounts"`
	ScenarioDiscounts []float64 `yaml:"scenario_discounts"`
	CohortShares      []float64 `yaml:"cohort_shares"`
}

func Load(path string) (*Config, error) {
	c, err := LoadUnchecked(path)
	if err != nil {
		return nil, err
	}
	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadUnchecked loads and merges config, but does not default or validate it.
func LoadUnchecked(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if c.PresetFile != "" {
		presetPath := c.PresetFile
		if !filepath.IsAbs(presetPath) {
			// Prefer paths relative to the config file, fall back to cwd.
			cand := filepath.Join(filepath.Dir(path), presetPath)
			if _, err := os.Stat(cand); err == nil {
				presetPath = cand
			}
		}
		loaded, err := LoadPresetFile(presetPath)
		if err != nil {
			return nil, err
		}
		c.Params = MergeParams(loaded, c.Params)
	}
	return &c, nil
}

// ApplyDefaults fills analysis and display settings left empty.
func (c *Config) ApplyDefaults() {
	if c.Analysis.SensitivityStep == 0 {
		c.Analysis.SensitivityStep = sim.DefaultSensitivityStep
	}
	if len(c.Analysis.CurveDiscounts) == 0 {
		c.Analysis.CurveDiscounts = analysis.DefaultCurveDiscounts()
	}
	if len(c.Analysis.ScenarioDiscounts) == 0 {
		c.Analysis.ScenarioDiscounts = append([]float64(nil), analysis.DefaultScenarioDiscounts...)
	}
	if len(c.Analysis.CohortShares) == 0 {
		c.Analysis.CohortShares = append([]float64(nil), analysis.DefaultCohortShares...)
	}
	def := format.DefaultOptions()
	if c.Display.Locale == "" {
		c.Display.Locale = def.Locale
	}
	if c.Display.Currency == "" {
		c.Display.Currency = def.Currency
	}
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if err := c.Params.ToModelParams().Validate(); err != nil {
		return fmt.Errorf("params invalid: %w", err)
	}
	if s := c.Analysis.SensitivityStep; s <= 0 || s >= 1 {
		return errors.New("analysis.sensitivity_step must be in (0, 1)")
	}
	if err := analysis.ValidateCohortShares(c.Analysis.CohortShares); err != nil {
		return fmt.Errorf("analysis.%w", err)
	}
	if err := c.Display.Validate(); err != nil {
		return fmt.Errorf("display invalid: %w", err)
	}
	return nil
}

// ToModelParams converts the config block; discount_pct is used when new_price_a is unset.
func (p ParamsConfig) ToModelParams() model.Params {
	out := model.Params{
		PriceA:          p.PriceA,
		NewPriceA:       p.NewPriceA,
		QtyA:            p.QtyA,
		MarginATotal:    p.MarginATotal,
		Elasticity:      p.Elasticity,
		MarginBUnit:     p.MarginBUnit,
		AttachRates:     model.Years(p.AttachRates),
		DiscountRatePct: p.DiscountRatePct,
	}
	if p.DeltaAOverride != nil {
		v := *p.DeltaAOverride
		out.DeltaAOverride = &v
	}
	if p.NewPriceA == 0 && p.DiscountPct != 0 {
		out = out.WithDiscount(p.DiscountPct)
	}
	return out
}

type presetFileWrapper struct {
	Params ParamsConfig `yaml:"params"`
}

// LoadPresetFile reads the params block of a preset YAML.
func LoadPresetFile(path string) (ParamsConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return ParamsConfig{}, err
	}
	var w presetFileWrapper
	if err := yaml.Unmarshal(raw, &w); err != nil {
		return ParamsConfig{}, fmt.Errorf("parse preset %s: %w", path, err)
	}
	return w.Params, nil
}

// MergeParams overlays non-zero fields from override onto base.
// Attach rates are replaced as a whole when any override entry is non-zero.
func MergeParams(base, override ParamsConfig) ParamsConfig {
	out := base
	if override.Name != "" {
		out.Name = override.Name
	}
	if override.PriceA != 0 {
		out.PriceA = override.PriceA
	}
	if override.NewPriceA != 0 {
		out.NewPriceA = override.NewPriceA
		out.DiscountPct = 0
	}
	if override.DiscountPct != 0 {
		out.DiscountPct = override.DiscountPct
		out.NewPriceA = 0
	}
	if override.QtyA != 0 {
		out.QtyA = override.QtyA
	}
	if override.MarginATotal != 0 {
		out.MarginATotal = override.MarginATotal
	}
	if override.Elasticity != 0 {
		out.Elasticity = override.Elasticity
	}
	// A present override wins, even when it is 0.
	if override.DeltaAOverride != nil {
		v := *override.DeltaAOverride
		out.DeltaAOverride = &v
	}
	if override.MarginBUnit != 0 {
		out.MarginBUnit = override.MarginBUnit
	}
	if override.AttachRates != ([4]float64{}) {
		out.AttachRates = override.AttachRates
	}
	// Note: a 0% discount rate cannot be expressed as an override.
	if override.DiscountRatePct != 0 {
		out.DiscountRatePct = override.DiscountRatePct
	}
	return out
}
