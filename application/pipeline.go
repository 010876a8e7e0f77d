// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 15th 2026
// Project: Model Selection with Probabilistic PCA and Factor Analysis
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"log/slog"
)

// Run executes the full model selection for one configuration:
// synthesize both datasets, then sweep, baseline and auto-rank each of them.
// It has no side effects besides logging; rendering is left to the caller.
func Run(cfg Config) (*Report, error) {
	data, err := Synthesize(cfg)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	grid, err := ComponentGrid(cfg.Features, cfg.GridStep)
	if err != nil {
		return nil, err
	}
	folds, err := KFold(cfg.Samples, cfg.Folds)
	if err != nil {
		return nil, err
	}

	homo, err := analyzeDataset(data.Homo, grid, folds, cfg)
	if err != nil {
		return nil, err
	}
	hetero, err := analyzeDataset(data.Hetero, grid, folds, cfg)
	if err != nil {
		return nil, err
	}

	return &Report{
		Config:   cfg,
		TrueRank: cfg.Rank,
		Homo:     homo,
		Hetero:   hetero,
	}, nil
}

// analyzeDataset runs the three scoring stages on one dataset.
func analyzeDataset(ds *Dataset, grid []int, folds []Fold, cfg Config) (*DatasetReport, error) {
	slog.Info("analyzing dataset", "dataset", ds.Name)

	scores, err := SweepScores(ds, grid, folds, cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}

	bestPCA, err := BestComponents(scores.Grid, scores.PCA)
	if err != nil {
		return nil, err
	}
	bestFA, err := BestComponents(scores.Grid, scores.FA)
	if err != nil {
		return nil, err
	}

	baselines, err := BaselineScores(ds, cfg, folds)
	if err != nil {
		return nil, fmt.Errorf("baselines: %w", err)
	}

	mleRank, err := AutoRank(ds)
	if err != nil {
		return nil, fmt.Errorf("auto rank: %w", err)
	}

	slog.Info("dataset done",
		"dataset", ds.Name, "best_pca", bestPCA, "best_fa", bestFA, "mle", mleRank)

	return &DatasetReport{
		Name:        ds.Name,
		Fingerprint: Fingerprint(ds.X),
		Scores:      scores,
		BestPCA:     bestPCA,
		BestFA:      bestFA,
		MLERank:     mleRank,
		Baselines:   baselines,
	}, nil
}
