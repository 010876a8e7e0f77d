// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 15th 2026
// Project: Model Selection with Probabilistic PCA and Factor Analysis
// Class: 02-613 at Caregie Mellon University

package main

import (
	"flag"
	"fmt"
	"runtime"
)

// DefaultConfig returns the reference configuration:
// 1000 samples, 50 features, true rank 10, unit noise.
func DefaultConfig() Config {
	sigma := 1.0
	return Config{
		Samples:  1000,
		Features: 50,
		Rank:     10,

		Sigma:      sigma,
		HeteroLow:  sigma / 2,
		HeteroHigh: sigma/2 + sigma,

		Seed: 42,

		Folds:    5,
		GridStep: 5,

		ShrinkageCandidates: 30,
		ShrinkageLow:        0.01,
		ShrinkageHigh:       1,

		Workers: runtime.NumCPU(),

		OutDir:      "../Files/Output",
		ChartFormat: "png",
		ChartWidth:  8,
		ChartHeight: 5,
	}
}

// Validate checks the configuration before anything is computed.
func (c Config) Validate() error {
	if c.Samples <= 0 || c.Features <= 0 {
		return fmt.Errorf("samples and features must be > 0, got %d x %d", c.Samples, c.Features)
	}
	if c.Rank <= 0 || c.Rank > c.Features {
		return fmt.Errorf("rank must be in [1, %d], got %d", c.Features, c.Rank)
	}
	if c.Sigma <= 0 {
		return fmt.Errorf("sigma must be > 0, got %v", c.Sigma)
	}
	if c.HeteroLow < 0 || c.HeteroHigh <= c.HeteroLow {
		return fmt.Errorf("invalid heteroscedastic range [%v, %v)", c.HeteroLow, c.HeteroHigh)
	}
	if c.Folds < 2 {
		return fmt.Errorf("folds must be >= 2, got %d", c.Folds)
	}
	if c.Folds > c.Samples {
		return fmt.Errorf("cannot have %d folds with %d samples", c.Folds, c.Samples)
	}
	if c.GridStep < 1 {
		return fmt.Errorf("grid step must be >= 1, got %d", c.GridStep)
	}
	if c.ShrinkageCandidates < 1 || c.ShrinkageLow <= 0 || c.ShrinkageHigh < c.ShrinkageLow || c.ShrinkageHigh > 1 {
		return fmt.Errorf("invalid shrinkage grid: %d points in [%v, %v]",
			c.ShrinkageCandidates, c.ShrinkageLow, c.ShrinkageHigh)
	}
	switch c.ChartFormat {
	case "png", "svg", "pdf":
	default:
		return fmt.Errorf("unsupported chart format %q (png, svg, pdf)", c.ChartFormat)
	}
	return nil
}

// ParseFlags overlays command-line flags on DefaultConfig.
func ParseFlags(args []string) (Config, error) {
	cfg := DefaultConfig()

	fs := flag.NewFlagSet("pcafa", flag.ContinueOnError)
	fs.IntVar(&cfg.Samples, "samples", cfg.Samples, "number of samples")
	fs.IntVar(&cfg.Features, "features", cfg.Features, "number of features")
	fs.IntVar(&cfg.Rank, "rank", cfg.Rank, "rank of the synthetic signal")
	fs.Float64Var(&cfg.Sigma, "sigma", cfg.Sigma, "homoscedastic noise sd")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed")
	fs.IntVar(&cfg.Folds, "folds", cfg.Folds, "cross-validation folds")
	fs.IntVar(&cfg.GridStep, "step", cfg.GridStep, "component grid step")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "parallel workers for the component sweep")
	fs.StringVar(&cfg.OutDir, "out", cfg.OutDir, "output directory for charts and CSVs")
	fs.BoolVar(&cfg.ExportData, "export", cfg.ExportData, "write the synthesized datasets as CSV")
	fs.StringVar(&cfg.ChartFormat, "format", cfg.ChartFormat, "chart format: png, svg or pdf")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	// hetero range is always derived from sigma
	cfg.HeteroLow = cfg.Sigma / 2
	cfg.HeteroHigh = cfg.Sigma/2 + cfg.Sigma

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
