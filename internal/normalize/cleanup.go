package normalize

import "sheetsense/domain/table"

// Cleanup drops rows that are empty in every column, then columns that
// are empty in every retained row, keeping the column name list in step.
// Running it twice yields the same table as running it once.
func Cleanup(columns []string, rows table.Grid) ([]string, table.Grid) {
	kept := make(table.Grid, 0, len(rows))
	for i := range rows {
		if !rows.RowIsEmpty(i) {
			kept = append(kept, rows[i])
		}
	}

	emptyCol := make([]bool, len(columns))
	for col := range columns {
		emptyCol[col] = true
		for _, row := range kept {
			if col < len(row) && !row[col].IsEmpty() {
				emptyCol[col] = false
				break
			}
		}
	}

	outColumns := make([]string, 0, len(columns))
	for col, name := range columns {
		if !emptyCol[col] {
			outColumns = append(outColumns, name)
		}
	}

	outRows := make(table.Grid, len(kept))
	for i, row := range kept {
		outRow := make([]table.Cell, 0, len(outColumns))
		for col := range columns {
			if emptyCol[col] {
				continue
			}
			if col < len(row) {
				outRow = append(outRow, row[col])
			} else {
				outRow = append(outRow, table.Cell{})
			}
		}
		outRows[i] = outRow
	}

	return outColumns, outRows
}
