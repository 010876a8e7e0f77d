// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 15th 2026
// Project: Model Selection with Probabilistic PCA and Factor Analysis
// Class: 02-613 at Caregie Mellon University

package main

import (
	"gonum.org/v1/gonum/mat"
)

// Config holds every knob of a single model selection run.
type Config struct {
	// Synthetic data shape
	Samples  int
	Features int
	Rank     int

	// Homoscedastic noise standard deviation
	Sigma float64
	// Heteroscedastic per-feature sd is drawn from [HeteroLow, HeteroHigh)
	HeteroLow  float64
	HeteroHigh float64

	// RNG seed, the whole run is a function of this value
	Seed int64

	// Number of cross-validation folds
	Folds int
	// Step of the component-count grid
	GridStep int

	// Shrinkage grid: ShrinkageCandidates points log-spaced in [ShrinkageLow, ShrinkageHigh]
	ShrinkageCandidates int
	ShrinkageLow        float64
	ShrinkageHigh       float64

	// Goroutines used for the component sweep
	Workers int

	// Where charts and CSVs go
	OutDir      string
	ExportData  bool   // also write the synthesized datasets as CSV
	ChartFormat string // png, svg or pdf
	ChartWidth  float64
	ChartHeight float64 // inches
}

// Dataset is one named N x F data matrix.
type Dataset struct {
	Name string
	X    *mat.Dense
}

// Datasets is everything the synthesizer produces for one seed.
type Datasets struct {
	// Noise-free low-rank signal (N x F)
	Signal *Dataset
	// Signal plus noise with one sd for all features
	Homo *Dataset
	// Signal plus noise with per-feature sd
	Hetero *Dataset

	// Per-feature sd used for Hetero
	NoiseSD []float64
	// F x F random orthogonal matrix, the first Rank columns span the signal
	Basis *mat.Dense
}

// Estimator is a covariance model that can be fit on training rows and
// scored on held-out rows by average Gaussian log-likelihood.
type Estimator interface {
	// Returns a short model name used in logs and charts
	Name() string
	// Estimates the model from an n x F matrix
	Fit(X mat.Matrix) error
	// Mean per-sample log-likelihood of X under the fitted model
	Score(X mat.Matrix) (float64, error)
	// Model covariance (F x F), nil before Fit
	Covariance() *mat.SymDense
}

// PCA is probabilistic PCA (Tipping & Bishop) with an optional
// maximum-likelihood choice of the number of components.
type PCA struct {
	// Number of components to keep; ignored when MLE is set
	Components int
	// Choose the number of components with Minka's rule
	MLE bool

	// Fitted values
	Mean              []float64
	ComponentsMat     *mat.Dense // k x F, rows are principal axes
	ExplainedVariance []float64  // full spectrum, descending
	NoiseVariance     float64
	NComponents       int // k actually used

	cov *mat.SymDense
}

// FactorAnalysis is a Gaussian latent factor model fit by iterated SVD.
type FactorAnalysis struct {
	Components int
	// Stopping tolerance on the log-likelihood gain
	Tol float64
	// Maximum number of iterations
	MaxIter int

	// Fitted values
	Mean          []float64
	Loadings      *mat.Dense // k x F
	NoiseVariance []float64  // psi, length F
	LogLike       []float64  // log-likelihood per iteration
	NIter         int
	Converged     bool

	cov *mat.SymDense
}

// ShrunkCovariance blends the empirical covariance with a scaled identity.
type ShrunkCovariance struct {
	// Shrinkage intensity in [0, 1]
	Shrinkage float64

	Mean []float64
	cov  *mat.SymDense
}

// LedoitWolf is ShrunkCovariance with the closed-form optimal shrinkage.
type LedoitWolf struct {
	// Estimated shrinkage, set by Fit
	Shrinkage float64

	Mean []float64
	cov  *mat.SymDense
}

// ScoreTable holds the cross-validated scores of both model families over
// the shared component grid. PCA[i] and FA[i] are the scores at Grid[i].
type ScoreTable struct {
	Grid []int
	PCA  []float64
	FA   []float64
}

// GridSearchResult is the outcome of an exhaustive hyperparameter search.
type GridSearchResult struct {
	Candidates []float64
	Scores     []float64 // mean CV score per candidate
	BestIndex  int
	Best       float64
	BestModel  Estimator // refit on the full data
}

// Baselines are the single-number covariance baselines for one dataset.
type Baselines struct {
	Shrinkage     float64 // selected shrinkage intensity
	ShrunkScore   float64 // CV score of the selected ShrunkCovariance
	LedoitWolf    float64 // CV score of LedoitWolf
	LWShrinkage   float64 // shrinkage LedoitWolf chose on the full data
	ShrinkageGrid *GridSearchResult
}

// DatasetReport collects every number computed for one dataset.
type DatasetReport struct {
	Name        string
	Fingerprint uint64
	Scores      *ScoreTable

	// Arg-max of the CV scores (first maximum wins)
	BestPCA int
	BestFA  int
	// Rank chosen by Minka's MLE
	MLERank int

	Baselines *Baselines
}

// Report is the output of a full run.
type Report struct {
	Config   Config
	TrueRank int
	Homo     *DatasetReport
	Hetero   *DatasetReport
}

// Datasets returns the per-dataset reports in display order.
func (r *Report) Datasets() []*DatasetReport {
	return []*DatasetReport{r.Homo, r.Hetero}
}
