// Package discover computes pairwise relationships between the numeric
// columns of a normalized table. The output is analysis metadata for
// callers; the normalization core does not depend on it.
package discover

import (
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"sheetsense/domain/table"
)

// minPairedSamples is the smallest number of complete pairs for which a
// correlation is worth reporting.
const minPairedSamples = 3

// Relationship is one correlated column pair.
type Relationship struct {
	ColumnA    string  `json:"column_a"`
	ColumnB    string  `json:"column_b"`
	Pearson    float64 `json:"pearson"`
	SampleSize int     `json:"sample_size"`
}

// Correlations returns the Pearson correlation for every numeric column
// pair with enough complete observations. Pairs with undefined
// correlation (zero variance) are skipped.
func Correlations(t *table.NormalizedTable, types table.ColumnTypeMap) []Relationship {
	numericCols := make([]int, 0, len(t.Columns))
	for i, name := range t.Columns {
		if types[name] == table.TypeNumeric {
			numericCols = append(numericCols, i)
		}
	}

	var relationships []Relationship
	for a := 0; a < len(numericCols); a++ {
		for b := a + 1; b < len(numericCols); b++ {
			colA, colB := numericCols[a], numericCols[b]
			x, y := pairedSeries(t, colA, colB)
			if len(x) < minPairedSamples {
				continue
			}

			r := stat.Correlation(x, y, nil)
			if math.IsNaN(r) || math.IsInf(r, 0) {
				continue
			}

			relationships = append(relationships, Relationship{
				ColumnA:    t.Columns[colA],
				ColumnB:    t.Columns[colB],
				Pearson:    r,
				SampleSize: len(x),
			})
		}
	}
	return relationships
}

// pairedSeries extracts rows where both columns hold parseable numbers.
func pairedSeries(t *table.NormalizedTable, colA, colB int) ([]float64, []float64) {
	var x, y []float64
	for _, row := range t.Rows {
		if colA >= len(row) || colB >= len(row) {
			continue
		}
		va, okA := parseNumber(row[colA])
		vb, okB := parseNumber(row[colB])
		if okA && okB {
			x = append(x, va)
			y = append(y, vb)
		}
	}
	return x, y
}

func parseNumber(c table.Cell) (float64, bool) {
	if c.IsEmpty() {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(c.Raw), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
