// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 15th 2026
// Project: Model Selection with Probabilistic PCA and Factor Analysis
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Relative spacing of float64 around 1
const machineEps = 2.220446049250313e-16

// AssessDimension returns the log-likelihood of a PCA rank given the
// covariance spectrum (descending) and the number of samples, following
// Minka (2000) "Automatic choice of dimensionality for PCA".
// rank must be in [1, len(spectrum)-1].
func AssessDimension(spectrum []float64, rank int, nSamples int) (float64, error) {
	F := len(spectrum)
	if rank < 1 || rank >= F {
		return 0, fmt.Errorf("rank must be in [1, %d), got %d", F, rank)
	}
	if spectrum[rank-1] < 1e-15 {
		// no signal left in the kept directions
		return math.Inf(-1), nil
	}

	n := float64(nSamples)
	r := float64(rank)

	// prior on the subspace (uniform over the Stiefel manifold)
	pu := -r * math.Log(2)
	for i := 1; i <= rank; i++ {
		lg, _ := math.Lgamma(float64(F-i+1) / 2)
		pu += lg - math.Log(math.Pi)*float64(F-i+1)/2
	}

	// kept eigenvalues
	pl := 0.0
	for i := 0; i < rank; i++ {
		pl += math.Log(spectrum[i])
	}
	pl = -pl * n / 2

	// discarded eigenvalues are replaced by their mean v
	v := math.Max(machineEps, floats.Sum(spectrum[rank:])/float64(F-rank))
	pv := -math.Log(v) * n * float64(F-rank) / 2

	m := float64(F)*r - r*(r+1)/2
	pp := math.Log(2*math.Pi) * (m + r) / 2

	// log-determinant of the Hessian (Laplace approximation)
	pa := 0.0
	adj := make([]float64, F)
	copy(adj, spectrum)
	for i := rank; i < F; i++ {
		adj[i] = v
	}
	for i := 0; i < rank; i++ {
		for j := i + 1; j < F; j++ {
			pa += math.Log((spectrum[i]-spectrum[j])*(1/adj[j]-1/adj[i])) + math.Log(n)
		}
	}

	return pu + pl + pv + pp - pa/2 - r*math.Log(n)/2, nil
}

// InferDimension returns the rank in [1, len(spectrum)-1] with the highest
// Minka log-likelihood. Rank 0 is never selected.
func InferDimension(spectrum []float64, nSamples int) (int, error) {
	F := len(spectrum)
	if F < 2 {
		return 0, fmt.Errorf("MLE rank selection needs at least 2 eigenvalues, got %d", F)
	}

	ll := make([]float64, F)
	ll[0] = math.Inf(-1)
	for rank := 1; rank < F; rank++ {
		v, err := AssessDimension(spectrum, rank, nSamples)
		if err != nil {
			return 0, err
		}
		ll[rank] = v
	}

	best := floats.MaxIdx(ll)
	if best == 0 {
		// every rank was -Inf
		return 0, fmt.Errorf("MLE rank selection failed: degenerate spectrum")
	}
	return best, nil
}
