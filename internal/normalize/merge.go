package normalize

import (
	"fmt"

	"sheetsense/domain/table"
)

// ResolveMerges produces a plain rectangular grid in which every cell
// that lies inside a former merged range and held no value now holds the
// range's authoritative value. Cells outside any range, and cells that
// already held a value, are unchanged.
//
// This step must run before any row sampling: a parent header spanning
// several columns only becomes visible under each child column once its
// value has been propagated.
func ResolveMerges(grid table.Grid, ranges []table.MergedRange) (table.Grid, []string) {
	out := grid.Clone()
	var warnings []string

	for _, mr := range ranges {
		if !validRange(mr) {
			warnings = append(warnings, fmt.Sprintf(
				"skipped invalid merged range (rows %d-%d, cols %d-%d)",
				mr.MinRow, mr.MaxRow, mr.MinCol, mr.MaxCol))
			continue
		}
		if mr.Value.IsEmpty() {
			continue
		}

		for row := mr.MinRow; row <= mr.MaxRow; row++ {
			if row > len(out) {
				break
			}
			for col := mr.MinCol; col <= mr.MaxCol; col++ {
				if col > len(out[row-1]) {
					break
				}
				if out[row-1][col-1].IsEmpty() {
					out[row-1][col-1] = mr.Value
				}
			}
		}
	}

	return out, warnings
}

// validRange rejects ranges with undefined bounds. Coordinates are
// 1-based, so a zero or negative bound was never set.
func validRange(mr table.MergedRange) bool {
	if mr.MinRow < 1 || mr.MinCol < 1 {
		return false
	}
	if mr.MaxRow < mr.MinRow || mr.MaxCol < mr.MinCol {
		return false
	}
	return true
}
