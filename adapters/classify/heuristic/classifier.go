// Package heuristic provides a deterministic, rule-based row classifier.
// It serves as the default when no model-backed classifier is configured
// and as the degradation target when one fails.
package heuristic

import (
	"context"
	"strconv"
	"strings"

	"sheetsense/domain/table"
)

// maxHeaderRows caps how many physical rows the heuristic will treat as
// one multi-level header.
const maxHeaderRows = 3

// Classifier classifies sample rows with fixed structural rules: leading
// rows that are blank or hold a single value across a multi-column sheet
// are labels; the header starts at the first substantial row and extends
// over following all-text rows.
type Classifier struct{}

// NewClassifier creates a rule-based row classifier.
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify implements ports.RowClassifier.
func (c *Classifier) Classify(ctx context.Context, sample [][]string, sheetName string) (table.RowClassification, error) {
	labels := []int{}
	headers := []int{}
	if len(sample) == 0 {
		return table.RowClassification{LabelRows: labels, HeaderRows: headers}, nil
	}

	width := 0
	for _, row := range sample {
		if len(row) > width {
			width = len(row)
		}
	}

	// Only clearly sparse leading rows are treated as labels. A repeated
	// value across every column is ambiguous (decorative caption or a
	// merge-resolved parent header), so it is left for the header rules.
	row := 0
	for row < len(sample) {
		filled := nonEmptyCount(sample[row])
		if filled == 0 || (width >= 2 && filled == 1) {
			labels = append(labels, row+1)
			row++
			continue
		}
		break
	}

	for row < len(sample) && len(headers) < maxHeaderRows {
		if nonEmptyCount(sample[row]) == 0 {
			break
		}
		if len(headers) > 0 && hasNumericCell(sample[row]) {
			break
		}
		headers = append(headers, row+1)
		row++
	}

	return table.RowClassification{LabelRows: labels, HeaderRows: headers}, nil
}

func nonEmptyCount(row []string) int {
	count := 0
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			count++
		}
	}
	return count
}

func hasNumericCell(row []string) bool {
	for _, v := range row {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
				return true
			}
		}
	}
	return false
}
