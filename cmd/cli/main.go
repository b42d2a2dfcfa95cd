package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"discount-leverage/internal/analysis"
	"discount-leverage/internal/config"
	"discount-leverage/internal/format"
	"discount-leverage/internal/forecast"
	"discount-leverage/internal/logging"
	"discount-leverage/internal/model"
	"discount-leverage/internal/sim"

	"github.com/rs/zerolog/log"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	if err := logging.Setup(os.Stderr, envOr("LOG_LEVEL", "warn"), false); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	switch os.Args[1] {
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "breakeven":
		cmdBreakeven(os.Args[2:])
	case "tornado":
		cmdTornado(os.Args[2:])
	case "scenarios":
		cmdScenarios(os.Args[2:])
	case "cohorts":
		cmdCohorts(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli simulate  --config examples/config.yaml [--out results/ledger.csv]")
	fmt.Println("  cli breakeven --config examples/config.yaml [--discounts 0,5,10,15,20]")
	fmt.Println("  cli tornado   --config examples/config.yaml [--step 0.1]")
	fmt.Println("  cli scenarios --config examples/config.yaml [--discounts 3,7,12]")
	fmt.Println("  cli cohorts   --config examples/config.yaml")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - simulate prints the yearly ledger and optionally writes it as CSV")
	fmt.Println("  - tornado perturbs each driver by ±step and reports the NPV swing")
}

func loadConfig(fs *flag.FlagSet, args []string) *config.Config {
	cfgPath := fs.String("config", "", "Path to YAML config")
	_ = fs.Parse(args)
	if *cfgPath == "" {
		fmt.Println("--config is required")
		os.Exit(2)
	}
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *cfgPath).Msg("load config")
	}
	return cfg
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	outPath := fs.String("out", "", "Optional: write the ledger as CSV to this path")
	cfg := loadConfig(fs, args)

	p := cfg.Params.ToModelParams()
	res := sim.Simulate(p)
	ledger := forecast.BuildLedger(p, res)
	money := moneyFormatter(cfg.Display)

	if cfg.Params.Name != "" {
		fmt.Printf("%s\n\n", cfg.Params.Name)
	}
	fmt.Printf("%-6s %-10s %-16s %-16s %-16s %-16s\n", "year", "attach%", "margin A", "margin B", "cashflow", "present value")
	for _, row := range ledger {
		fmt.Printf("%-6s %-10.2f %-16s %-16s %-16s %-16s\n",
			row.Year, row.AttachRatePct,
			money(row.MarginA), money(row.MarginB), money(row.Cashflow), money(row.PresentValue))
	}
	fmt.Println("")
	fmt.Printf("Δ units A      %s\n", units(res.DeltaAUnits, cfg.Display.Locale))
	fmt.Printf("Cumulative     %s\n", money(res.Cum))
	fmt.Printf("NPV @ %-6g%%  %s\n", p.DiscountRatePct, money(res.NPV))
	fmt.Printf("Breakeven N    %.2f %%\n", res.BreakevenPct)

	if *outPath != "" {
		if err := forecast.WriteLedgerCSVFile(*outPath, ledger); err != nil {
			log.Fatal().Err(err).Str("path", *outPath).Msg("write ledger")
		}
		fmt.Printf("\nWrote %d rows to %s\n", len(ledger), *outPath)
	}
}

func cmdBreakeven(args []string) {
	fs := flag.NewFlagSet("breakeven", flag.ExitOnError)
	discounts := fs.String("discounts", "", "Comma-separated discount percentages (default: analysis.curve_discounts)")
	cfg := loadConfig(fs, args)

	pcts := cfg.Analysis.CurveDiscounts
	if *discounts != "" {
		pcts = mustFloats(*discounts)
	}
	fmt.Printf("%-10s %-14s\n", "discount%", "attach N req%")
	for _, pt := range sim.BreakevenCurve(cfg.Params.ToModelParams(), pcts) {
		fmt.Printf("%-10g %-14.2f\n", pt.DiscountPct, pt.AttachRequired)
	}
}

func cmdTornado(args []string) {
	fs := flag.NewFlagSet("tornado", flag.ExitOnError)
	step := fs.Float64("step", 0, "Relative perturbation, e.g. 0.1 for ±10% (default: analysis.sensitivity_step)")
	cfg := loadConfig(fs, args)

	s := cfg.Analysis.SensitivityStep
	if *step != 0 {
		if *step <= 0 || *step >= 1 {
			fmt.Println("--step must be in (0, 1)")
			os.Exit(2)
		}
		s = *step
	}
	money := moneyFormatter(cfg.Display)
	fmt.Printf("%-16s %-16s %-16s\n", "driver", "-"+pct(s), "+"+pct(s))
	for _, b := range sim.Sensitivity(cfg.Params.ToModelParams(), s) {
		fmt.Printf("%-16s %-16s %-16s\n", b.Name, money(b.Minus), money(b.Plus))
	}
}

func cmdScenarios(args []string) {
	fs := flag.NewFlagSet("scenarios", flag.ExitOnError)
	discounts := fs.String("discounts", "", "Comma-separated discount percentages (default: analysis.scenario_discounts)")
	cfg := loadConfig(fs, args)

	pcts := cfg.Analysis.ScenarioDiscounts
	if *discounts != "" {
		pcts = mustFloats(*discounts)
	}
	money := moneyFormatter(cfg.Display)
	scenarios := analysis.CompareDiscounts(cfg.Params.ToModelParams(), pcts)
	fmt.Printf("%-4s %-10s %-12s %-16s %-16s %-10s\n", "rank", "discount", "price A", "cumulative", "NPV", "breakeven%")
	for i, s := range analysis.RankByNPV(scenarios) {
		fmt.Printf("%-4d %-10s %-12.2f %-16s %-16s %-10.2f\n",
			i+1, s.Label, s.NewPriceA, money(s.Result.Cum), money(s.Result.NPV), s.Result.BreakevenPct)
	}
}

func cmdCohorts(args []string) {
	fs := flag.NewFlagSet("cohorts", flag.ExitOnError)
	cfg := loadConfig(fs, args)

	p := cfg.Params.ToModelParams()
	res := sim.Simulate(p)
	money := moneyFormatter(cfg.Display)

	fmt.Printf("%-10s %-6s", "cohort", "share")
	for y := 0; y < model.Horizon; y++ {
		fmt.Printf(" %-14s", model.YearLabel(y))
	}
	fmt.Println("")
	for _, c := range analysis.Cohorts(p, res, cfg.Analysis.CohortShares) {
		fmt.Printf("%-10s %-6s", c.Name, pct(c.Share))
		for _, v := range c.Values {
			fmt.Printf(" %-14s", money(v))
		}
		fmt.Println("")
	}
}

// moneyFormatter falls back to plain numbers if the display options cannot render.
func moneyFormatter(o format.Options) func(float64) string {
	return func(v float64) string {
		s, err := o.Apply(v)
		if err != nil {
			return strconv.FormatFloat(v, 'f', 2, 64)
		}
		return s
	}
}

func units(v float64, locale string) string {
	s, err := format.Number(v, locale, 0)
	if err != nil {
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	return s
}

func pct(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'g', -1, 64) + "%"
}

func mustFloats(s string) []float64 {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			log.Fatal().Err(err).Str("value", p).Msg("parse discount list")
		}
		out = append(out, v)
	}
	return out
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
