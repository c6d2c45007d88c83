package normalize

import (
	"context"
	"fmt"
	"sort"

	"sheetsense/domain/table"
	"sheetsense/internal/logging"
	"sheetsense/ports"
)

// DefaultSampleSize is how many leading merge-resolved rows are handed to
// the row classifier.
const DefaultSampleSize = 10

// Normalizer runs the full sheet-normalization pipeline: merge
// resolution, row classification, label removal, header fusion,
// structural cleanup and type inference. One invocation owns its grid
// exclusively; instances are safe to share across goroutines because all
// state lives in the call.
type Normalizer struct {
	classifier ports.RowClassifier
	sampleSize int
	logger     *logging.Logger
}

// NewNormalizer creates a pipeline around the given row classifier. A nil
// classifier always takes the deterministic fallback path.
func NewNormalizer(classifier ports.RowClassifier) *Normalizer {
	return &Normalizer{
		classifier: classifier,
		sampleSize: DefaultSampleSize,
		logger:     logging.Default.WithComponent("Normalizer"),
	}
}

// WithSampleSize overrides how many leading rows are sampled for
// classification.
func (n *Normalizer) WithSampleSize(size int) *Normalizer {
	if size > 0 {
		n.sampleSize = size
	}
	return n
}

// Normalize transforms a raw grid plus its merged-range metadata into a
// normalized table with metadata. A degenerate input produces a valid
// zero-row, zero-column table, never an error.
func (n *Normalizer) Normalize(ctx context.Context, grid table.Grid, ranges []table.MergedRange, sheetName string) (*table.Result, error) {
	grid = grid.Padded()

	resolved, warnings := ResolveMerges(grid, ranges)
	for _, w := range warnings {
		n.logger.Warn("%s: %s", sheetName, w)
	}

	sample := resolved.Sample(n.sampleSize)
	classification := n.classify(ctx, sample, sheetName)
	n.logger.Debug("%s: classification labels=%v header=%v", sheetName, classification.LabelRows, classification.HeaderRows)

	labelRows, labelWarnings := boundedIndices(classification.LabelRows, len(sample))
	headerRows, headerWarnings := boundedIndices(classification.HeaderRows, len(sample))
	warnings = append(warnings, labelWarnings...)
	warnings = append(warnings, headerWarnings...)

	labelFree, removed := removeLabelRows(resolved, labelRows)

	// Header indices point at physical sample rows; once label rows are
	// gone those positions shift. Recompute each surviving index against
	// the label-free grid so the merger selects the rows the classifier
	// actually meant.
	headerRows = reinterpretHeaderRows(headerRows, removed)

	columns, data, headerRowCount := MergeHeaders(labelFree, headerRows)
	columns, data = Cleanup(columns, data)

	normalized := &table.NormalizedTable{Columns: columns, Rows: data}
	types := InferColumnTypes(columns, data)
	profiles := ProfileColumns(normalized, types)

	n.logger.Info("%s: normalized %d rows x %d columns (%d header rows fused)",
		sheetName, len(data), len(columns), headerRowCount)

	return &table.Result{
		Table: normalized,
		Types: types,
		Header: table.HeaderMetadata{
			HeaderRowCount: headerRowCount,
			ColumnCount:    len(columns),
			Columns:        columns,
		},
		Profiles: profiles,
		Warnings: warnings,
	}, nil
}

// classify calls the row classifier once. Any error or malformed result
// degrades immediately to the deterministic default: no label rows, the
// first sample row as the sole header row.
func (n *Normalizer) classify(ctx context.Context, sample [][]string, sheetName string) table.RowClassification {
	if len(sample) == 0 {
		return table.RowClassification{}
	}
	if n.classifier == nil {
		return fallbackClassification()
	}

	classification, err := n.classifier.Classify(ctx, sample, sheetName)
	if err != nil {
		n.logger.Warn("%s: classifier failed, using fallback: %v", sheetName, err)
		return fallbackClassification()
	}
	if classification.LabelRows == nil || classification.HeaderRows == nil {
		n.logger.Warn("%s: classifier returned incomplete result, using fallback", sheetName)
		return fallbackClassification()
	}
	return classification
}

func fallbackClassification() table.RowClassification {
	return table.RowClassification{
		LabelRows:  []int{},
		HeaderRows: []int{1},
	}
}

// boundedIndices keeps indices within [1, limit], sorted and
// deduplicated. Out-of-range entries produce a warning, not an error.
func boundedIndices(indices []int, limit int) ([]int, []string) {
	seen := make(map[int]bool, len(indices))
	var kept []int
	var warnings []string
	for _, idx := range indices {
		if idx < 1 || idx > limit {
			warnings = append(warnings, fmt.Sprintf("ignored out-of-range row index %d", idx))
			continue
		}
		if !seen[idx] {
			seen[idx] = true
			kept = append(kept, idx)
		}
	}
	sort.Ints(kept)
	return kept, warnings
}

// removeLabelRows drops the given 1-based rows and returns the surviving
// grid plus the indices actually removed.
func removeLabelRows(grid table.Grid, labelRows []int) (table.Grid, []int) {
	if len(labelRows) == 0 {
		return grid, nil
	}

	drop := make(map[int]bool, len(labelRows))
	var removed []int
	for _, idx := range labelRows {
		if idx >= 1 && idx <= len(grid) && !drop[idx] {
			drop[idx] = true
			removed = append(removed, idx)
		}
	}
	sort.Ints(removed)

	out := make(table.Grid, 0, len(grid)-len(removed))
	for i := range grid {
		if !drop[i+1] {
			out = append(out, grid[i])
		}
	}
	return out, removed
}

// reinterpretHeaderRows shifts header indices down by the number of
// removed label rows that preceded them. A header index that was itself
// removed as a label is dropped.
func reinterpretHeaderRows(headerRows, removedLabels []int) []int {
	if len(removedLabels) == 0 {
		return headerRows
	}

	removed := make(map[int]bool, len(removedLabels))
	for _, idx := range removedLabels {
		removed[idx] = true
	}

	var out []int
	for _, h := range headerRows {
		if removed[h] {
			continue
		}
		shift := 0
		for _, l := range removedLabels {
			if l < h {
				shift++
			}
		}
		out = append(out, h-shift)
	}
	return out
}
