// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 15th 2026
// Project: Model Selection with Probabilistic PCA and Factor Analysis
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Synthesize builds the low-rank signal and its two noisy variants.
// All randomness comes from one source seeded with cfg.Seed and is drawn
// in a fixed order, so the same config always gives bit-identical data:
//  1. F x F Gaussian matrix -> left singular vectors U (random orthogonal basis)
//  2. N x R Gaussian latent matrix, signal = latent * U[:, :R]^T
//  3. N x F Gaussian noise scaled by Sigma -> homoscedastic data
//  4. F per-feature sds from Uniform[HeteroLow, HeteroHigh)
//  5. N x F Gaussian noise scaled per feature -> heteroscedastic data
func Synthesize(cfg Config) (*Datasets, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	N, F, R := cfg.Samples, cfg.Features, cfg.Rank
	rng := rand.New(rand.NewSource(cfg.Seed))

	// 1. Random orthogonal basis
	basis, err := randomOrthogonal(rng, F)
	if err != nil {
		return nil, err
	}

	// 2. Low-rank signal
	latent := gaussianMatrix(rng, N, R, 1)
	signal := mat.NewDense(N, F, nil)
	signal.Mul(latent, basis.Slice(0, F, 0, R).T())

	// 3. Homoscedastic noise
	homo := gaussianMatrix(rng, N, F, cfg.Sigma)
	homo.Add(homo, signal)

	// 4. Per-feature noise levels
	sds := make([]float64, F)
	span := cfg.HeteroHigh - cfg.HeteroLow
	for j := range sds {
		sds[j] = cfg.HeteroLow + span*rng.Float64()
	}

	// 5. Heteroscedastic noise
	hetero := gaussianMatrix(rng, N, F, 1)
	for i := 0; i < N; i++ {
		row := hetero.RawRowView(i)
		for j := range row {
			row[j] = row[j]*sds[j] + signal.At(i, j)
		}
	}

	return &Datasets{
		Signal:  &Dataset{Name: "signal", X: signal},
		Homo:    &Dataset{Name: "homoscedastic", X: homo},
		Hetero:  &Dataset{Name: "heteroscedastic", X: hetero},
		NoiseSD: sds,
		Basis:   basis,
	}, nil
}

// gaussianMatrix fills an r x c matrix row by row with N(0, sd^2) draws.
func gaussianMatrix(rng *rand.Rand, r, c int, sd float64) *mat.Dense {
	data := make([]float64, r*c)
	for i := range data {
		data[i] = sd * rng.NormFloat64()
	}
	return mat.NewDense(r, c, data)
}

// randomOrthogonal returns the left singular vectors of an n x n Gaussian matrix.
func randomOrthogonal(rng *rand.Rand, n int) (*mat.Dense, error) {
	g := gaussianMatrix(rng, n, n, 1)

	var svd mat.SVD
	if ok := svd.Factorize(g, mat.SVDFull); !ok {
		return nil, fmt.Errorf("SVD of random %dx%d matrix failed", n, n)
	}
	var U mat.Dense
	svd.UTo(&U)
	return &U, nil
}
