package normalize

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"sheetsense/domain/table"
)

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	disallowed     = regexp.MustCompile(`[^\w\s-]`)
)

// MergeHeaders fuses the selected header rows into one unique name per
// column and splits off the data region.
//
// With an empty header set the grid's first row becomes the header. With
// a non-empty set, each column's name is the `_`-join of that column's
// non-empty trimmed values across the selected rows in top-to-bottom
// order; a column with no header value anywhere becomes Column_<n>. Data
// rows are everything strictly after the highest selected header index;
// rows between non-contiguous header indices are not data.
//
// Header indices are 1-based into the supplied grid. Out-of-range
// indices are dropped; if none survive, the first row is used.
func MergeHeaders(grid table.Grid, headerRows []int) (columns []string, data table.Grid, headerRowCount int) {
	if len(grid) == 0 {
		return nil, nil, 0
	}

	selected := make([]int, 0, len(headerRows))
	for _, idx := range headerRows {
		if idx >= 1 && idx <= len(grid) {
			selected = append(selected, idx)
		}
	}
	sort.Ints(selected)

	if len(selected) == 0 {
		selected = []int{1}
	}

	width := grid.Width()
	columns = make([]string, width)
	for col := 0; col < width; col++ {
		var parts []string
		for _, rowIdx := range selected {
			cell := grid[rowIdx-1][col]
			if trimmed := strings.TrimSpace(cell.Raw); trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) == 0 {
			columns[col] = fmt.Sprintf("Column_%d", col+1)
		} else {
			columns[col] = strings.Join(parts, "_")
		}
	}

	for i, name := range columns {
		columns[i] = CleanColumnName(name)
	}
	columns = uniqueColumnNames(columns)

	lastHeader := selected[len(selected)-1]
	if lastHeader < len(grid) {
		data = grid[lastHeader:].Clone()
	} else {
		data = table.Grid{}
	}

	return columns, data, len(selected)
}

// CleanColumnName normalizes a fused header name: whitespace runs become
// single underscores, characters outside word/space/hyphen classes are
// stripped, leading and trailing underscores are trimmed, and an empty
// result becomes "Unnamed".
func CleanColumnName(name string) string {
	name = whitespaceRuns.ReplaceAllString(strings.TrimSpace(name), "_")
	name = disallowed.ReplaceAllString(name, "")
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.Trim(name, "_")
	if name == "" {
		return "Unnamed"
	}
	return name
}

// uniqueColumnNames enforces left-to-right uniqueness. The first
// occurrence keeps the canonical name; repeats get _1, _2, ... suffixes.
// A suffixed candidate is itself checked, so a generated name never
// collides with a literal one appearing elsewhere in the row.
func uniqueColumnNames(names []string) []string {
	counts := make(map[string]int, len(names))
	assigned := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, name := range names {
		candidate := name
		for assigned[candidate] {
			counts[name]++
			candidate = fmt.Sprintf("%s_%d", name, counts[name])
		}
		out[i] = candidate
		assigned[candidate] = true
	}
	return out
}
