// Authors: Rohan Adla, Arrio Gonsalves, Shreyan Nalwad, Dylan Setiawan
// Date: Oct 15th 2026
// Project: Model Selection with Probabilistic PCA and Factor Analysis
// Class: 02-613 at Caregie Mellon University

package main

import (
	"encoding/binary"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"gonum.org/v1/gonum/mat"
)

// Fingerprint hashes the exact IEEE-754 bits of X in row-major order.
// Two matrices share a fingerprint only if they are bit-identical
// (up to hash collisions).
func Fingerprint(X *mat.Dense) uint64 {
	r, c := X.Dims()
	h := xxhash.New()

	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(r))
	h.Write(buf[:])
	binary.LittleEndian.PutUint64(buf[:], uint64(c))
	h.Write(buf[:])

	for i := 0; i < r; i++ {
		for _, v := range X.RawRowView(i) {
			binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
			h.Write(buf[:])
		}
	}
	return h.Sum64()
}

// LoadCSVToDataset loads a numeric CSV file with a header row into a Dataset.
func LoadCSVToDataset(path, name string) (*Dataset, error) {
	// 1. Open file
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	// 2. Make CSV reader
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	// 3. Read header row
	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("empty header in %s", path)
	}
	F := len(header)

	var (
		data []float64
		row  int
	)

	// 4. Read each data row
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", row+2, err) // +2 for header + 1-based
		}
		if len(record) != F {
			return nil, fmt.Errorf("row %d: expected %d columns, got %d", row+2, F, len(record))
		}
		for j, s := range record {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("parse float at row %d col %d (%q): %w", row+2, j+1, s, err)
			}
			data = append(data, v)
		}
		row++
	}

	if row == 0 {
		return nil, fmt.Errorf("no data rows in %s", path)
	}

	return &Dataset{Name: name, X: mat.NewDense(row, F, data)}, nil
}

// OutputDatasetToCSV writes the data matrix with a f0..f(F-1) header.
// Values use the shortest representation that round-trips exactly.
func OutputDatasetToCSV(path string, ds *Dataset) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	n, F := ds.X.Dims()
	header := make([]string, F)
	for j := range header {
		header[j] = fmt.Sprintf("f%d", j)
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	record := make([]string, F)
	for i := 0; i < n; i++ {
		for j, v := range ds.X.RawRowView(i) {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// OutputScoresToCSV writes the aligned score table of one dataset.
// Columns: Components, PCA, FactorAnalysis
func OutputScoresToCSV(path string, r *DatasetReport) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"Components", "PCA", "FactorAnalysis"}); err != nil {
		return err
	}
	t := r.Scores
	for i, k := range t.Grid {
		record := []string{
			strconv.Itoa(k),
			fmt.Sprintf("%f", t.PCA[i]),
			fmt.Sprintf("%f", t.FA[i]),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// OutputBaselinesToCSV writes one row of selected ranks and baseline scores
// per dataset.
func OutputBaselinesToCSV(path string, report *Report) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := []string{"Dataset", "TrueRank", "BestPCA", "BestFA", "MLERank",
		"Shrinkage", "ShrunkScore", "LWShrinkage", "LedoitWolfScore", "Fingerprint"}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range report.Datasets() {
		b := r.Baselines
		record := []string{
			r.Name,
			strconv.Itoa(report.TrueRank),
			strconv.Itoa(r.BestPCA),
			strconv.Itoa(r.BestFA),
			strconv.Itoa(r.MLERank),
			fmt.Sprintf("%f", b.Shrinkage),
			fmt.Sprintf("%f", b.ShrunkScore),
			fmt.Sprintf("%f", b.LWShrinkage),
			fmt.Sprintf("%f", b.LedoitWolf),
			fmt.Sprintf("%016x", r.Fingerprint),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// PrintScores prints the score table of one dataset.
func PrintScores(r *DatasetReport) {
	fmt.Printf("\n=== CV scores: %s ===\n", r.Name)
	fmt.Printf("%-12s %14s %14s\n", "Components", "PCA", "FactorAnalysis")
	t := r.Scores
	for i, k := range t.Grid {
		fmt.Printf("%-12d %14.6f %14.6f\n", k, t.PCA[i], t.FA[i])
	}
}

// PrintSummary prints the selected ranks and baselines for every dataset.
func PrintSummary(report *Report) {
	fmt.Println("\n      Model Selection Summary      ")
	fmt.Printf("True rank: %d\n", report.TrueRank)

	for _, r := range report.Datasets() {
		fmt.Printf("\n--- %s (fingerprint %016x) ---\n", r.Name, r.Fingerprint)
		fmt.Printf("best n_components by PCA CV = %d\n", r.BestPCA)
		fmt.Printf("best n_components by FactorAnalysis CV = %d\n", r.BestFA)
		fmt.Printf("best n_components by PCA MLE = %d\n", r.MLERank)

		if b := r.Baselines; b != nil {
			fmt.Printf("Shrunk covariance: shrinkage=%.4f  CV score=%.6f\n", b.Shrinkage, b.ShrunkScore)
			fmt.Printf("Ledoit-Wolf:       shrinkage=%.4f  CV score=%.6f\n", b.LWShrinkage, b.LedoitWolf)
		}
	}
	fmt.Println("=======================================")
}
