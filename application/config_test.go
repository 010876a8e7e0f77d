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

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 1000, cfg.Samples)
	assert.Equal(t, 50, cfg.Features)
	assert.Equal(t, 10, cfg.Rank)
	assert.Equal(t, 0.5, cfg.HeteroLow)
	assert.Equal(t, 1.5, cfg.HeteroHigh)
	assert.Equal(t, 5, cfg.Folds)
	assert.Equal(t, 30, cfg.ShrinkageCandidates)
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"no samples":      func(c *Config) { c.Samples = 0 },
		"rank too large":  func(c *Config) { c.Rank = c.Features + 1 },
		"zero rank":       func(c *Config) { c.Rank = 0 },
		"negative sigma":  func(c *Config) { c.Sigma = -1 },
		"inverted hetero": func(c *Config) { c.HeteroLow, c.HeteroHigh = 2, 1 },
		"one fold":        func(c *Config) { c.Folds = 1 },
		"too many folds":  func(c *Config) { c.Folds = c.Samples + 1 },
		"zero step":       func(c *Config) { c.GridStep = 0 },
		"bad shrinkage":   func(c *Config) { c.ShrinkageHigh = 2 },
		"bad format":      func(c *Config) { c.ChartFormat = "gif" },
	}
	for name, mutate := range cases {
		cfg := DefaultConfig()
		mutate(&cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}

func TestParseFlags(t *testing.T) {
	cfg, err := ParseFlags([]string{"-samples", "300", "-features", "20", "-rank", "4",
		"-sigma", "2", "-seed", "9", "-format", "svg", "-export"})
	require.NoError(t, err)

	assert.Equal(t, 300, cfg.Samples)
	assert.Equal(t, 20, cfg.Features)
	assert.Equal(t, 4, cfg.Rank)
	assert.Equal(t, int64(9), cfg.Seed)
	assert.Equal(t, "svg", cfg.ChartFormat)
	assert.True(t, cfg.ExportData)
	assert.Equal(t, 1.0, cfg.HeteroLow)
	assert.Equal(t, 3.0, cfg.HeteroHigh)

	_, err = ParseFlags([]string{"-rank", "100"})
	assert.Error(t, err)
}
