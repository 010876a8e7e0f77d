// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 15th 2026
// Project: Model Selection with Probabilistic PCA and Factor Analysis
// Class: 02-613 at Caregie Mellon University

package main

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// probeEstimator records how many rows it was fit on and scores by a
// user supplied function of its parameter.
type probeEstimator struct {
	param   float64
	nTrain  int
	fitErr  error
	scoreFn func(p *probeEstimator, X mat.Matrix) float64
}

func (p *probeEstimator) Name() string { return "probe" }

func (p *probeEstimator) Covariance() *mat.SymDense { return nil }

func (p *probeEstimator) Fit(X mat.Matrix) error {
	if p.fitErr != nil {
		return p.fitErr
	}
	p.nTrain, _ = X.Dims()
	return nil
}

func (p *probeEstimator) Score(X mat.Matrix) (float64, error) {
	return p.scoreFn(p, X), nil
}

func TestCrossValScoreAverages(t *testing.T) {
	X := mat.NewDense(10, 2, nil)
	folds, err := KFold(10, 3)
	require.NoError(t, err)

	mean, perFold, err := CrossValScore(func() Estimator {
		return &probeEstimator{scoreFn: func(p *probeEstimator, _ mat.Matrix) float64 {
			return float64(p.nTrain)
		}}
	}, X, folds)
	require.NoError(t, err)

	// test folds of 4, 3, 3 rows leave 6, 7, 7 for training
	assert.Equal(t, []float64{6, 7, 7}, perFold)
	assert.InDelta(t, 20.0/3.0, mean, 1e-12)
}

func TestCrossValScoreFitError(t *testing.T) {
	X := mat.NewDense(10, 2, nil)
	folds, err := KFold(10, 2)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, _, err = CrossValScore(func() Estimator {
		return &probeEstimator{fitErr: boom}
	}, X, folds)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestGridSearchPicksBest(t *testing.T) {
	X := mat.NewDense(20, 2, nil)
	folds, err := KFold(20, 4)
	require.NoError(t, err)

	candidates := []float64{0.1, 0.2, 0.3, 0.4, 0.5}
	res, err := GridSearch(candidates, func(a float64) Estimator {
		return &probeEstimator{param: a, scoreFn: func(p *probeEstimator, _ mat.Matrix) float64 {
			return -math.Abs(p.param - 0.31)
		}}
	}, X, folds)
	require.NoError(t, err)

	assert.Equal(t, 2, res.BestIndex)
	assert.Equal(t, 0.3, res.Best)
	assert.Len(t, res.Scores, len(candidates))
	require.NotNil(t, res.BestModel)
	assert.Equal(t, 20, res.BestModel.(*probeEstimator).nTrain)

	_, err = GridSearch(nil, nil, X, folds)
	assert.Error(t, err)
}

func TestShrinkageGrid(t *testing.T) {
	grid := ShrinkageGrid(30, 0.01, 1)
	require.Len(t, grid, 30)
	assert.InDelta(t, 0.01, grid[0], 1e-12)
	assert.InDelta(t, 1.0, grid[29], 1e-12)

	// constant ratio between neighbours
	ratio := grid[1] / grid[0]
	for i := 2; i < len(grid); i++ {
		assert.InDelta(t, ratio, grid[i]/grid[i-1], 1e-9)
	}

	assert.Equal(t, []float64{0.5}, ShrinkageGrid(1, 0.5, 1))
}

func TestSweepScoresAligned(t *testing.T) {
	cfg := smallConfig()
	data, err := Synthesize(cfg)
	require.NoError(t, err)
	grid, err := ComponentGrid(cfg.Features, cfg.GridStep)
	require.NoError(t, err)
	folds, err := KFold(cfg.Samples, cfg.Folds)
	require.NoError(t, err)

	table, err := SweepScores(data.Homo, grid, folds, cfg.Workers)
	require.NoError(t, err)

	assert.Equal(t, grid, table.Grid)
	assert.Len(t, table.PCA, len(grid))
	assert.Len(t, table.FA, len(grid))
	for i := range grid {
		assert.False(t, math.IsNaN(table.PCA[i]), "pca %d", grid[i])
		assert.False(t, math.IsNaN(table.FA[i]), "fa %d", grid[i])
	}

	// zero components is the weakest PCA model on low-rank data
	for i := 1; i < len(grid); i++ {
		assert.Greater(t, table.PCA[i], table.PCA[0])
	}
	assert.Greater(t, table.FA[1], table.FA[0])
}

func TestSweepScoresIndependentOfWorkers(t *testing.T) {
	cfg := smallConfig()
	data, err := Synthesize(cfg)
	require.NoError(t, err)
	grid, err := ComponentGrid(cfg.Features, cfg.GridStep)
	require.NoError(t, err)
	folds, err := KFold(cfg.Samples, cfg.Folds)
	require.NoError(t, err)

	serial, err := SweepScores(data.Hetero, grid, folds, 1)
	require.NoError(t, err)
	parallel, err := SweepScores(data.Hetero, grid, folds, 8)
	require.NoError(t, err)

	assert.Equal(t, serial, parallel)
}

func TestSweepScoresInvalidGrid(t *testing.T) {
	cfg := smallConfig()
	data, err := Synthesize(cfg)
	require.NoError(t, err)
	folds, err := KFold(cfg.Samples, cfg.Folds)
	require.NoError(t, err)

	_, err = SweepScores(data.Homo, []int{0, cfg.Features + 1}, folds, 2)
	assert.Error(t, err)

	_, err = SweepScores(data.Homo, nil, folds, 2)
	assert.Error(t, err)
}

func TestBaselineScores(t *testing.T) {
	cfg := smallConfig()
	data, err := Synthesize(cfg)
	require.NoError(t, err)
	folds, err := KFold(cfg.Samples, cfg.Folds)
	require.NoError(t, err)

	b, err := BaselineScores(data.Homo, cfg, folds)
	require.NoError(t, err)

	require.NotNil(t, b.ShrinkageGrid)
	assert.Contains(t, b.ShrinkageGrid.Candidates, b.Shrinkage)
	// re-scoring the winner on the same folds reproduces its search score
	assert.InDelta(t, b.ShrinkageGrid.Scores[b.ShrinkageGrid.BestIndex], b.ShrunkScore, 1e-12)
	for _, s := range b.ShrinkageGrid.Scores {
		assert.LessOrEqual(t, s, b.ShrunkScore)
	}
	assert.GreaterOrEqual(t, b.LWShrinkage, 0.0)
	assert.LessOrEqual(t, b.LWShrinkage, 1.0)
	assert.False(t, math.IsNaN(b.LedoitWolf))
}

// ============================================================================
// MLE RANK
// ============================================================================

func TestAssessDimensionInvalidRank(t *testing.T) {
	spectrum := []float64{3, 2, 1}
	_, err := AssessDimension(spectrum, 0, 100)
	assert.Error(t, err)
	_, err = AssessDimension(spectrum, 3, 100)
	assert.Error(t, err)

	ll, err := AssessDimension([]float64{1, 0, 0}, 2, 100)
	require.NoError(t, err)
	assert.True(t, math.IsInf(ll, -1))
}

func TestInferDimensionDegenerate(t *testing.T) {
	_, err := InferDimension([]float64{1}, 10)
	assert.Error(t, err)

	_, err = InferDimension([]float64{0, 0, 0}, 10)
	assert.Error(t, err)
}

func TestAutoRankRecoversRank(t *testing.T) {
	cfg := smallConfig()
	cfg.Samples = 2000
	cfg.Sigma = 0.5
	cfg.HeteroLow, cfg.HeteroHigh = 0.25, 0.75
	data, err := Synthesize(cfg)
	require.NoError(t, err)

	k, err := AutoRank(data.Homo)
	require.NoError(t, err)
	assert.Equal(t, cfg.Rank, k)

	k, err = AutoRank(data.Hetero)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, k, 1)
	assert.Less(t, k, cfg.Features)
}
