// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 15th 2026
// Project: Model Selection with Probabilistic PCA and Factor Analysis
// Class: 02-613 at Caregie Mellon University

package main

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Floor for noise variances and scaled spectra
const small = 1e-12

// Default stopping rule for Factor Analysis
const (
	defaultFATol     = 1e-2
	defaultFAMaxIter = 1000
)

// ============================================================================
// SHARED HELPERS
// ============================================================================

// columnMeans returns the mean of every column of X.
func columnMeans(X mat.Matrix) []float64 {
	n, F := X.Dims()
	means := make([]float64, F)
	col := make([]float64, n)
	for j := 0; j < F; j++ {
		mat.Col(col, j, X)
		means[j] = stat.Mean(col, nil)
	}
	return means
}

// empiricalCovariance returns the column means and covariance of X.
// biased divides by n (maximum likelihood), otherwise by n-1.
func empiricalCovariance(X mat.Matrix, biased bool) ([]float64, *mat.SymDense, error) {
	n, F := X.Dims()
	if n < 2 {
		return nil, nil, fmt.Errorf("need at least 2 samples to estimate a covariance, got %d", n)
	}

	cov := mat.NewSymDense(F, nil)
	stat.CovarianceMatrix(cov, X, nil)
	if biased {
		cov.ScaleSym(float64(n-1)/float64(n), cov)
	}
	return columnMeans(X), cov, nil
}

// shrink returns (1-alpha)*S + alpha*mu*I, where mu = trace(S)/F.
func shrink(S *mat.SymDense, alpha float64) *mat.SymDense {
	F := S.SymmetricDim()
	mu := mat.Trace(S) / float64(F)

	out := mat.NewSymDense(F, nil)
	out.ScaleSym(1-alpha, S)
	for i := 0; i < F; i++ {
		out.SetSym(i, i, out.At(i, i)+alpha*mu)
	}
	return out
}

// gaussianScore returns the average log-likelihood of the rows of X under
// N(mean, cov). The covariance must be positive definite.
func gaussianScore(X mat.Matrix, mean []float64, cov *mat.SymDense) (float64, error) {
	if cov == nil {
		return 0, fmt.Errorf("model not fitted")
	}
	n, F := X.Dims()
	if F != len(mean) {
		return 0, fmt.Errorf("feature mismatch: model has %d, data has %d", len(mean), F)
	}
	if n == 0 {
		return 0, fmt.Errorf("no samples to score")
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(cov); !ok {
		return 0, fmt.Errorf("covariance matrix is not positive definite")
	}
	// An ill-conditioned but positive definite covariance still gets a score
	var prec mat.SymDense
	if err := chol.InverseTo(&prec); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return 0, fmt.Errorf("invert covariance: %w", err)
		}
	}

	// Centered data Xc and Xc * precision
	Xc := mat.DenseCopyOf(X)
	for i := 0; i < n; i++ {
		floats.Sub(Xc.RawRowView(i), mean)
	}
	var XP mat.Dense
	XP.Mul(Xc, &prec)

	// sum of Mahalanobis distances over all rows
	quad := 0.0
	for i := 0; i < n; i++ {
		quad += floats.Dot(Xc.RawRowView(i), XP.RawRowView(i))
	}

	logDet := chol.LogDet()
	perSample := -0.5 * (float64(F)*math.Log(2*math.Pi) + logDet)
	return perSample - 0.5*quad/float64(n), nil
}

// ============================================================================
// PROBABILISTIC PCA
// ============================================================================

func (p *PCA) Name() string { return "PCA" }

func (p *PCA) Covariance() *mat.SymDense { return p.cov }

// Fit computes the principal axes from the eigendecomposition of the sample
// covariance. The discarded spectrum is averaged into an isotropic noise
// variance, giving the covariance W W^T + sigma^2 I of the probabilistic model.
func (p *PCA) Fit(X mat.Matrix) error {
	n, F := X.Dims()
	if !p.MLE && (p.Components < 0 || p.Components > F) {
		return fmt.Errorf("PCA: n_components=%d must be between 0 and %d", p.Components, F)
	}

	mean, S, err := empiricalCovariance(X, false)
	if err != nil {
		return fmt.Errorf("PCA: %w", err)
	}

	vals, vecs, err := descendingEigen(S)
	if err != nil {
		return fmt.Errorf("PCA: %w", err)
	}

	// SVD of centered data has min(n, F) singular values
	m := min(n, F)
	spectrum := vals[:m]

	k := p.Components
	if p.MLE {
		k, err = InferDimension(spectrum, n)
		if err != nil {
			return fmt.Errorf("PCA: %w", err)
		}
	}

	noise := 0.0
	if k < m {
		noise = stat.Mean(spectrum[k:], nil)
	}

	// cov = sum_i max(lambda_i - noise, 0) v_i v_i^T + noise * I
	cov := mat.NewSymDense(F, nil)
	v := make([]float64, F)
	for i := 0; i < k && i < m; i++ {
		w := math.Max(spectrum[i]-noise, 0)
		if w == 0 {
			continue
		}
		mat.Col(v, i, vecs)
		cov.SymRankOne(cov, w, mat.NewVecDense(F, v))
	}
	for i := 0; i < F; i++ {
		cov.SetSym(i, i, cov.At(i, i)+noise)
	}

	var components *mat.Dense
	if k > 0 {
		components = mat.DenseCopyOf(vecs.Slice(0, F, 0, k).T())
	}

	p.Mean = mean
	p.ComponentsMat = components
	p.ExplainedVariance = spectrum
	p.NoiseVariance = noise
	p.NComponents = k
	p.cov = cov
	return nil
}

// Score returns the mean log-likelihood of X under the fitted model.
func (p *PCA) Score(X mat.Matrix) (float64, error) {
	return gaussianScore(X, p.Mean, p.cov)
}

// descendingEigen returns eigenvalues of S sorted largest first (negative
// round-off clamped to 0) and the matching eigenvectors as columns.
func descendingEigen(S mat.Symmetric) ([]float64, *mat.Dense, error) {
	var es mat.EigenSym
	if ok := es.Factorize(S, true); !ok {
		return nil, nil, fmt.Errorf("eigendecomposition failed")
	}
	asc := es.Values(nil)
	var ascVecs mat.Dense
	es.VectorsTo(&ascVecs)

	F := len(asc)
	vals := make([]float64, F)
	vecs := mat.NewDense(F, F, nil)
	col := make([]float64, F)
	for i := 0; i < F; i++ {
		src := F - 1 - i
		vals[i] = math.Max(asc[src], 0)
		mat.Col(col, src, &ascVecs)
		vecs.SetCol(i, col)
	}
	return vals, vecs, nil
}

// ============================================================================
// FACTOR ANALYSIS
// ============================================================================

func (fa *FactorAnalysis) Name() string { return "FactorAnalysis" }

func (fa *FactorAnalysis) Covariance() *mat.SymDense { return fa.cov }

// Fit estimates loadings W (k x F) and diagonal noise psi by maximum likelihood.
// Each iteration takes the top k eigenpairs of Psi^{-1/2} S Psi^{-1/2}, which
// are the squared singular values and right singular vectors of the scaled data
// X / (sqrt(psi) * sqrt(n)), so the data matrix is only touched once through S.
func (fa *FactorAnalysis) Fit(X mat.Matrix) error {
	n, F := X.Dims()
	k := fa.Components
	if k < 0 || k > F {
		return fmt.Errorf("FactorAnalysis: n_components=%d must be between 0 and %d", k, F)
	}

	tol := fa.Tol
	if tol <= 0 {
		tol = defaultFATol
	}
	maxIter := fa.MaxIter
	if maxIter <= 0 {
		maxIter = defaultFAMaxIter
	}

	mean, S, err := empiricalCovariance(X, true)
	if err != nil {
		return fmt.Errorf("FactorAnalysis: %w", err)
	}

	variance := make([]float64, F)
	for j := 0; j < F; j++ {
		variance[j] = S.At(j, j)
	}

	psi := make([]float64, F)
	for j := range psi {
		psi[j] = 1
	}

	llConst := float64(F)*math.Log(2*math.Pi) + float64(k)
	oldLL := math.Inf(-1)
	loglike := make([]float64, 0, 32)

	sqrtPsi := make([]float64, F)
	scaled := mat.NewSymDense(F, nil)
	var W *mat.Dense
	if k > 0 {
		W = mat.NewDense(k, F, nil)
	}

	converged := false
	iter := 0
	for iter < maxIter {
		iter++

		for j := range psi {
			sqrtPsi[j] = math.Sqrt(psi[j]) + small
		}
		for i := 0; i < F; i++ {
			for j := i; j < F; j++ {
				scaled.SetSym(i, j, S.At(i, j)/(sqrtPsi[i]*sqrtPsi[j]))
			}
		}

		s, V, err := descendingEigen(scaled)
		if err != nil {
			return fmt.Errorf("FactorAnalysis: iteration %d: %w", iter, err)
		}

		// W = sqrt(max(s - 1, 0)) * V^T * sqrt(psi)
		for i := 0; i < k; i++ {
			scale := math.Sqrt(math.Max(s[i]-1, 0))
			for j := 0; j < F; j++ {
				W.Set(i, j, scale*V.At(j, i)*sqrtPsi[j])
			}
		}

		ll := llConst
		for i := 0; i < k; i++ {
			ll += math.Log(s[i])
		}
		ll += floats.Sum(s[k:])
		for _, v := range psi {
			ll += math.Log(v)
		}
		ll *= -float64(n) / 2
		loglike = append(loglike, ll)

		if ll-oldLL < tol {
			converged = true
			break
		}
		oldLL = ll

		for j := 0; j < F; j++ {
			sq := 0.0
			for i := 0; i < k; i++ {
				sq += W.At(i, j) * W.At(i, j)
			}
			psi[j] = math.Max(variance[j]-sq, small)
		}
	}

	// cov = W^T W + diag(psi)
	cov := mat.NewSymDense(F, nil)
	if k > 0 {
		cov.SymOuterK(1, W.T())
	}
	for j := 0; j < F; j++ {
		cov.SetSym(j, j, cov.At(j, j)+psi[j])
	}

	fa.Mean = mean
	fa.Loadings = W
	fa.NoiseVariance = psi
	fa.LogLike = loglike
	fa.NIter = iter
	fa.Converged = converged
	fa.cov = cov
	return nil
}

// Score returns the mean log-likelihood of X under the fitted model.
func (fa *FactorAnalysis) Score(X mat.Matrix) (float64, error) {
	return gaussianScore(X, fa.Mean, fa.cov)
}

// ============================================================================
// SHRINKAGE COVARIANCE ESTIMATORS
// ============================================================================

func (sc *ShrunkCovariance) Name() string { return "ShrunkCovariance" }

func (sc *ShrunkCovariance) Covariance() *mat.SymDense { return sc.cov }

// Fit blends the maximum-likelihood covariance with mu*I using Shrinkage.
func (sc *ShrunkCovariance) Fit(X mat.Matrix) error {
	if sc.Shrinkage < 0 || sc.Shrinkage > 1 {
		return fmt.Errorf("ShrunkCovariance: shrinkage %v must be in [0, 1]", sc.Shrinkage)
	}
	mean, S, err := empiricalCovariance(X, true)
	if err != nil {
		return fmt.Errorf("ShrunkCovariance: %w", err)
	}
	sc.Mean = mean
	sc.cov = shrink(S, sc.Shrinkage)
	return nil
}

func (sc *ShrunkCovariance) Score(X mat.Matrix) (float64, error) {
	return gaussianScore(X, sc.Mean, sc.cov)
}

func (lw *LedoitWolf) Name() string { return "LedoitWolf" }

func (lw *LedoitWolf) Covariance() *mat.SymDense { return lw.cov }

// Fit estimates the shrinkage intensity in closed form (Ledoit & Wolf, 2004)
// and applies it to the maximum-likelihood covariance.
func (lw *LedoitWolf) Fit(X mat.Matrix) error {
	mean, S, err := empiricalCovariance(X, true)
	if err != nil {
		return fmt.Errorf("LedoitWolf: %w", err)
	}

	n, _ := X.Dims()
	Xc := mat.DenseCopyOf(X)
	for i := 0; i < n; i++ {
		floats.Sub(Xc.RawRowView(i), mean)
	}

	lw.Shrinkage = ledoitWolfShrinkage(Xc)
	lw.Mean = mean
	lw.cov = shrink(S, lw.Shrinkage)
	return nil
}

func (lw *LedoitWolf) Score(X mat.Matrix) (float64, error) {
	return gaussianScore(X, lw.Mean, lw.cov)
}

// ledoitWolfShrinkage returns the optimal shrinkage for centered data Xc.
// The result is clamped to [0, 1] by construction (beta <= delta).
func ledoitWolfShrinkage(Xc *mat.Dense) float64 {
	n, F := Xc.Dims()
	nf := float64(n)

	// X2 = Xc .* Xc
	X2 := mat.NewDense(n, F, nil)
	X2.MulElem(Xc, Xc)

	// trace of the empirical covariance, per feature
	traceCols := make([]float64, F)
	col := make([]float64, n)
	for j := 0; j < F; j++ {
		mat.Col(col, j, X2)
		traceCols[j] = floats.Sum(col) / nf
	}
	mu := floats.Sum(traceCols) / float64(F)

	var x2tx2 mat.Dense
	x2tx2.Mul(X2.T(), X2)
	betaRaw := mat.Sum(&x2tx2)

	var xtx mat.Dense
	xtx.Mul(Xc.T(), Xc)
	xtx.MulElem(&xtx, &xtx)
	deltaRaw := mat.Sum(&xtx) / (nf * nf)

	beta := (betaRaw/nf - deltaRaw) / (float64(F) * nf)
	delta := (deltaRaw - 2*mu*floats.Sum(traceCols) + float64(F)*mu*mu) / float64(F)
	beta = math.Min(beta, delta)

	if beta == 0 {
		return 0
	}
	return beta / delta
}
