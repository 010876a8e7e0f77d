// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 15th 2026
// Project: Model Selection with Probabilistic PCA and Factor Analysis
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Fold is one train/test split of the row indices.
type Fold struct {
	Train []int
	Test  []int
}

// KFold splits 0..n-1 into k contiguous, unshuffled test folds. The first
// n%k folds get one extra row. Each fold trains on every other row.
func KFold(n, k int) ([]Fold, error) {
	if k < 2 {
		return nil, fmt.Errorf("k-fold needs k >= 2, got %d", k)
	}
	if k > n {
		return nil, fmt.Errorf("cannot split %d samples into %d folds", n, k)
	}

	folds := make([]Fold, k)
	start := 0
	for f := 0; f < k; f++ {
		size := n / k
		if f < n%k {
			size++
		}
		stop := start + size

		test := make([]int, 0, size)
		train := make([]int, 0, n-size)
		for i := 0; i < n; i++ {
			if i >= start && i < stop {
				test = append(test, i)
			} else {
				train = append(train, i)
			}
		}
		folds[f] = Fold{Train: train, Test: test}
		start = stop
	}
	return folds, nil
}

// selectRows copies the given rows of X into a new matrix.
func selectRows(X *mat.Dense, rows []int) *mat.Dense {
	_, F := X.Dims()
	out := mat.NewDense(len(rows), F, nil)
	for i, r := range rows {
		out.SetRow(i, X.RawRowView(r))
	}
	return out
}

// CrossValScore fits a fresh estimator on each training split and scores it
// on the held-out rows. It returns the mean score and the per-fold scores.
func CrossValScore(newEst func() Estimator, X *mat.Dense, folds []Fold) (float64, []float64, error) {
	if len(folds) == 0 {
		return 0, nil, fmt.Errorf("no folds given")
	}

	scores := make([]float64, len(folds))
	for f, fold := range folds {
		est := newEst()
		if err := est.Fit(selectRows(X, fold.Train)); err != nil {
			return 0, nil, fmt.Errorf("fold %d: fit %s: %w", f, est.Name(), err)
		}
		s, err := est.Score(selectRows(X, fold.Test))
		if err != nil {
			return 0, nil, fmt.Errorf("fold %d: score %s: %w", f, est.Name(), err)
		}
		scores[f] = s
	}
	return floats.Sum(scores) / float64(len(scores)), scores, nil
}

// ComponentGrid returns 0, step, 2*step, ... strictly below features.
func ComponentGrid(features, step int) ([]int, error) {
	if features <= 0 {
		return nil, fmt.Errorf("features must be > 0, got %d", features)
	}
	if step < 1 {
		return nil, fmt.Errorf("step must be >= 1, got %d", step)
	}
	grid := make([]int, 0, (features+step-1)/step)
	for k := 0; k < features; k += step {
		grid = append(grid, k)
	}
	return grid, nil
}

// sweepResult is the outcome of one grid point.
type sweepResult struct {
	Index int
	PCA   float64
	FA    float64
	Err   error
}

// SweepScores computes the mean cross-validated log-likelihood of PCA and
// Factor Analysis at every grid point. Grid points run on a worker pool;
// each result is stored at its grid index, so the output does not depend
// on scheduling.
func SweepScores(ds *Dataset, grid []int, folds []Fold, workers int) (*ScoreTable, error) {
	if ds == nil || ds.X == nil {
		return nil, fmt.Errorf("dataset not provided")
	}
	if len(grid) == 0 {
		return nil, fmt.Errorf("empty component grid")
	}

	start := time.Now()

	numWorkers := workers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	if numWorkers > len(grid) {
		numWorkers = len(grid)
	}

	jobs := make(chan int)
	resultsCh := make(chan sweepResult, len(grid))

	var wg sync.WaitGroup
	wg.Add(numWorkers)

	worker := func() {
		defer wg.Done()

		for idx := range jobs {
			k := grid[idx]
			res := sweepResult{Index: idx}

			res.PCA, _, res.Err = CrossValScore(func() Estimator {
				return &PCA{Components: k}
			}, ds.X, folds)
			if res.Err == nil {
				res.FA, _, res.Err = CrossValScore(func() Estimator {
					return &FactorAnalysis{Components: k}
				}, ds.X, folds)
			}
			if res.Err != nil {
				res.Err = fmt.Errorf("%s, n_components=%d: %w", ds.Name, k, res.Err)
			}

			slog.Debug("grid point scored",
				"dataset", ds.Name, "components", k, "pca", res.PCA, "fa", res.FA)
			resultsCh <- res
		}
	}

	for w := 0; w < numWorkers; w++ {
		go worker()
	}

	go func() {
		for i := range grid {
			jobs <- i
		}
		close(jobs)
	}()

	table := &ScoreTable{
		Grid: append([]int(nil), grid...),
		PCA:  make([]float64, len(grid)),
		FA:   make([]float64, len(grid)),
	}

	// Keep the error of the lowest grid index so failures are reproducible
	var firstErr error
	errIdx := len(grid)
	for i := 0; i < len(grid); i++ {
		res := <-resultsCh
		if res.Err != nil {
			if res.Index < errIdx {
				firstErr, errIdx = res.Err, res.Index
			}
			continue
		}
		table.PCA[res.Index] = res.PCA
		table.FA[res.Index] = res.FA
	}

	wg.Wait()
	close(resultsCh)

	if firstErr != nil {
		return nil, firstErr
	}

	slog.Info("component sweep finished",
		"dataset", ds.Name, "points", len(grid), "workers", numWorkers,
		"elapsed", time.Since(start).Round(time.Millisecond))
	return table, nil
}

// BestComponents returns the grid value with the highest score.
// Ties go to the smaller component count.
func BestComponents(grid []int, scores []float64) (int, error) {
	if len(grid) == 0 || len(grid) != len(scores) {
		return 0, fmt.Errorf("grid (%d) and scores (%d) must be non-empty and aligned",
			len(grid), len(scores))
	}
	return grid[floats.MaxIdx(scores)], nil
}

// ShrinkageGrid returns n log-spaced values between low and high inclusive.
func ShrinkageGrid(n int, low, high float64) []float64 {
	if n == 1 {
		return []float64{low}
	}
	return floats.LogSpan(make([]float64, n), low, high)
}

// GridSearch scores every candidate by cross-validation and refits the best
// one on all of X. The first maximum wins.
func GridSearch(candidates []float64, newEst func(float64) Estimator, X *mat.Dense, folds []Fold) (*GridSearchResult, error) {
	if len(candidates) == 0 {
		return nil, fmt.Errorf("no candidates to search")
	}

	scores := make([]float64, len(candidates))
	for i, c := range candidates {
		mean, _, err := CrossValScore(func() Estimator { return newEst(c) }, X, folds)
		if err != nil {
			return nil, fmt.Errorf("candidate %v: %w", c, err)
		}
		scores[i] = mean
	}

	best := floats.MaxIdx(scores)
	model := newEst(candidates[best])
	if err := model.Fit(X); err != nil {
		return nil, fmt.Errorf("refit best candidate %v: %w", candidates[best], err)
	}

	return &GridSearchResult{
		Candidates: append([]float64(nil), candidates...),
		Scores:     scores,
		BestIndex:  best,
		Best:       candidates[best],
		BestModel:  model,
	}, nil
}

// BaselineScores picks the ShrunkCovariance shrinkage by grid search,
// re-scores the winner by cross-validation, and scores LedoitWolf the same way.
func BaselineScores(ds *Dataset, cfg Config, folds []Fold) (*Baselines, error) {
	if ds == nil || ds.X == nil {
		return nil, fmt.Errorf("dataset not provided")
	}

	candidates := ShrinkageGrid(cfg.ShrinkageCandidates, cfg.ShrinkageLow, cfg.ShrinkageHigh)
	search, err := GridSearch(candidates, func(a float64) Estimator {
		return &ShrunkCovariance{Shrinkage: a}
	}, ds.X, folds)
	if err != nil {
		return nil, fmt.Errorf("%s: shrinkage search: %w", ds.Name, err)
	}

	shrunk, _, err := CrossValScore(func() Estimator {
		return &ShrunkCovariance{Shrinkage: search.Best}
	}, ds.X, folds)
	if err != nil {
		return nil, fmt.Errorf("%s: shrunk covariance: %w", ds.Name, err)
	}

	lwScore, _, err := CrossValScore(func() Estimator { return &LedoitWolf{} }, ds.X, folds)
	if err != nil {
		return nil, fmt.Errorf("%s: ledoit-wolf: %w", ds.Name, err)
	}

	lw := &LedoitWolf{}
	if err := lw.Fit(ds.X); err != nil {
		return nil, fmt.Errorf("%s: ledoit-wolf: %w", ds.Name, err)
	}

	return &Baselines{
		Shrinkage:     search.Best,
		ShrunkScore:   shrunk,
		LedoitWolf:    lwScore,
		LWShrinkage:   lw.Shrinkage,
		ShrinkageGrid: search,
	}, nil
}

// AutoRank fits PCA on the whole dataset with Minka's MLE rule and
// returns the selected number of components.
func AutoRank(ds *Dataset) (int, error) {
	if ds == nil || ds.X == nil {
		return 0, fmt.Errorf("dataset not provided")
	}
	pca := &PCA{MLE: true}
	if err := pca.Fit(ds.X); err != nil {
		return 0, fmt.Errorf("%s: %w", ds.Name, err)
	}
	return pca.NComponents, nil
}
