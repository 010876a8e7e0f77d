// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 15th 2026
// Project: Model Selection with Probabilistic PCA and Factor Analysis
// Class: 02-613 at Caregie Mellon University

package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// Line styles used on the charts
type lineStyle int

const (
	styleSolid lineStyle = iota
	styleDashed
	styleDashDot
)

var (
	colorBlue    = color.RGBA{B: 255, A: 255}
	colorRed     = color.RGBA{R: 255, A: 255}
	colorGreen   = color.RGBA{G: 128, A: 255}
	colorMagenta = color.RGBA{R: 255, B: 255, A: 255}
	colorViolet  = color.RGBA{R: 238, G: 130, B: 238, A: 255}
	colorOrange  = color.RGBA{R: 255, G: 165, A: 255}
)

// chartSeries is one labelled polyline on a chart.
type chartSeries struct {
	Label string
	XYs   plotter.XYs
	Color color.Color
	Style lineStyle
}

// verticalSpan returns the y extent of the vertical reference lines:
// min(PCA) - 1 to max(FA) + 1.
func verticalSpan(t *ScoreTable) (float64, float64) {
	return floats.Min(t.PCA) - 1, floats.Max(t.FA) + 1
}

// chartSeriesFor lays out every line of a dataset chart: both score curves,
// one vertical marker per notable rank and one horizontal marker per baseline.
func chartSeriesFor(r *DatasetReport, truth int) ([]chartSeries, error) {
	if r == nil || r.Scores == nil || len(r.Scores.Grid) == 0 {
		return nil, fmt.Errorf("no scores to chart")
	}
	t := r.Scores
	if len(t.PCA) != len(t.Grid) || len(t.FA) != len(t.Grid) {
		return nil, fmt.Errorf("score series are not aligned with the grid")
	}

	pcaXY := make(plotter.XYs, len(t.Grid))
	faXY := make(plotter.XYs, len(t.Grid))
	for i, k := range t.Grid {
		pcaXY[i] = plotter.XY{X: float64(k), Y: t.PCA[i]}
		faXY[i] = plotter.XY{X: float64(k), Y: t.FA[i]}
	}

	lo, hi := verticalSpan(t)
	vline := func(x int) plotter.XYs {
		return plotter.XYs{{X: float64(x), Y: lo}, {X: float64(x), Y: hi}}
	}

	xMin, xMax := float64(t.Grid[0]), float64(t.Grid[len(t.Grid)-1])
	hline := func(y float64) plotter.XYs {
		return plotter.XYs{{X: xMin, Y: y}, {X: xMax, Y: y}}
	}

	series := []chartSeries{
		{Label: "PCA scores", XYs: pcaXY, Color: colorBlue, Style: styleSolid},
		{Label: "FA scores", XYs: faXY, Color: colorRed, Style: styleSolid},
		{Label: fmt.Sprintf("TRUTH: %d", truth), XYs: vline(truth), Color: colorGreen, Style: styleDashed},
		{Label: fmt.Sprintf("PCA CV: %d", r.BestPCA), XYs: vline(r.BestPCA), Color: colorBlue, Style: styleDashed},
		{Label: fmt.Sprintf("FactorAnalysis CV: %d", r.BestFA), XYs: vline(r.BestFA), Color: colorRed, Style: styleDashed},
		{Label: fmt.Sprintf("PCA MLE: %d", r.MLERank), XYs: vline(r.MLERank), Color: colorMagenta, Style: styleDashed},
	}
	if b := r.Baselines; b != nil {
		series = append(series,
			chartSeries{Label: "Shrunk Covariance MLE", XYs: hline(b.ShrunkScore), Color: colorViolet, Style: styleDashDot},
			chartSeries{Label: "LedoitWolf MLE", XYs: hline(b.LedoitWolf), Color: colorOrange, Style: styleDashDot},
		)
	}
	return series, nil
}

// RenderChart draws the model selection chart of one dataset.
func RenderChart(r *DatasetReport, truth int) (*plot.Plot, error) {
	if r == nil {
		return nil, fmt.Errorf("dataset report not provided")
	}
	series, err := chartSeriesFor(r, truth)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", r.Name, err)
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Model selection, %s noise", r.Name)
	p.X.Label.Text = "nb of components"
	p.Y.Label.Text = "CV scores"
	p.Legend.Top = false
	p.Legend.Left = false

	for _, s := range series {
		l, err := plotter.NewLine(s.XYs)
		if err != nil {
			return nil, fmt.Errorf("%s: line %q: %w", r.Name, s.Label, err)
		}
		l.Color = s.Color
		l.Width = vg.Points(1.5)
		switch s.Style {
		case styleDashed:
			l.Dashes = []vg.Length{vg.Points(6), vg.Points(4)}
		case styleDashDot:
			l.Dashes = []vg.Length{vg.Points(6), vg.Points(3), vg.Points(1), vg.Points(3)}
		}
		p.Add(l)
		p.Legend.Add(s.Label, l)
	}
	return p, nil
}

// SaveCharts renders one chart per dataset into cfg.OutDir and returns the
// written paths.
func SaveCharts(report *Report, cfg Config) ([]string, error) {
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", cfg.OutDir, err)
	}

	var paths []string
	for _, r := range report.Datasets() {
		p, err := RenderChart(r, report.TrueRank)
		if err != nil {
			return nil, err
		}
		path := filepath.Join(cfg.OutDir, r.Name+"_model_selection."+cfg.ChartFormat)
		if err := p.Save(vg.Length(cfg.ChartWidth)*vg.Inch, vg.Length(cfg.ChartHeight)*vg.Inch, path); err != nil {
			return nil, fmt.Errorf("save %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
