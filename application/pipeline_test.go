// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 15th 2026
// Project: Model Selection with Probabilistic PCA and Factor Analysis
// Class: 02-613 at Caregie Mellon University

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunDeterministic(t *testing.T) {
	cfg := smallConfig()

	first, err := Run(cfg)
	require.NoError(t, err)
	second, err := Run(cfg)
	require.NoError(t, err)

	for i, r := range first.Datasets() {
		other := second.Datasets()[i]
		assert.Equal(t, r.Fingerprint, other.Fingerprint, r.Name)
		assert.Equal(t, r.Scores, other.Scores, r.Name)
		assert.Equal(t, r.BestPCA, other.BestPCA, r.Name)
		assert.Equal(t, r.BestFA, other.BestFA, r.Name)
		assert.Equal(t, r.MLERank, other.MLERank, r.Name)
		assert.Equal(t, r.Baselines.ShrunkScore, other.Baselines.ShrunkScore, r.Name)
		assert.Equal(t, r.Baselines.LedoitWolf, other.Baselines.LedoitWolf, r.Name)
	}
}

func TestRunReportShape(t *testing.T) {
	cfg := smallConfig()
	report, err := Run(cfg)
	require.NoError(t, err)

	assert.Equal(t, cfg.Rank, report.TrueRank)
	require.Len(t, report.Datasets(), 2)
	assert.Equal(t, "homoscedastic", report.Homo.Name)
	assert.Equal(t, "heteroscedastic", report.Hetero.Name)
	assert.NotEqual(t, report.Homo.Fingerprint, report.Hetero.Fingerprint)

	// both model families and both datasets share one grid
	assert.Equal(t, report.Homo.Scores.Grid, report.Hetero.Scores.Grid)
	for _, r := range report.Datasets() {
		assert.Len(t, r.Scores.PCA, len(r.Scores.Grid), r.Name)
		assert.Len(t, r.Scores.FA, len(r.Scores.Grid), r.Name)
		assert.Contains(t, r.Scores.Grid, r.BestPCA, r.Name)
		assert.Contains(t, r.Scores.Grid, r.BestFA, r.Name)
		assert.GreaterOrEqual(t, r.MLERank, 1, r.Name)
		require.NotNil(t, r.Baselines, r.Name)
	}
}

func TestRunInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Folds = 1
	_, err := Run(cfg)
	assert.Error(t, err)
}

// TestReferenceConfiguration runs the full 1000 x 50, rank 10 experiment.
// Under homoscedastic noise every method finds the true rank; under
// heteroscedastic noise only Factor Analysis does, PCA overestimates it.
func TestReferenceConfiguration(t *testing.T) {
	if testing.Short() {
		t.Skip("full reference run skipped in -short mode")
	}

	cfg := DefaultConfig()
	report, err := Run(cfg)
	require.NoError(t, err)

	assert.Equal(t, []int{0, 5, 10, 15, 20, 25, 30, 35, 40, 45}, report.Homo.Scores.Grid)

	assert.Equal(t, 10, report.Homo.BestPCA)
	assert.Equal(t, 10, report.Homo.BestFA)
	assert.Equal(t, 10, report.Homo.MLERank)

	assert.Equal(t, 10, report.Hetero.BestFA)
	assert.Greater(t, report.Hetero.BestPCA, 10)
	assert.Greater(t, report.Hetero.MLERank, 10)
}
