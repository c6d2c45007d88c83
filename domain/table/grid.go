package table

// GridFromStrings builds a grid from raw string rows. Non-empty values
// become text cells; kind tagging beyond that is the loader's job.
func GridFromStrings(rows [][]string) Grid {
	grid := make(Grid, len(rows))
	for i, row := range rows {
		cells := make([]Cell, len(row))
		for j, raw := range row {
			if raw != "" {
				cells[j] = Cell{Raw: raw, Kind: KindText}
			}
		}
		grid[i] = cells
	}
	return grid
}

// Width returns the widest row length in the grid.
func (g Grid) Width() int {
	width := 0
	for _, row := range g {
		if len(row) > width {
			width = len(row)
		}
	}
	return width
}

// Padded returns a copy of the grid with every row extended to the grid's
// maximum width using empty cells. Rows may differ in length as read from
// a workbook; all processing assumes a rectangular grid.
func (g Grid) Padded() Grid {
	width := g.Width()
	out := make(Grid, len(g))
	for i, row := range g {
		padded := make([]Cell, width)
		copy(padded, row)
		out[i] = padded
	}
	return out
}

// Clone returns a deep copy of the grid. Each processing invocation owns
// its grid exclusively, so transforms copy rather than alias.
func (g Grid) Clone() Grid {
	out := make(Grid, len(g))
	for i, row := range g {
		out[i] = make([]Cell, len(row))
		copy(out[i], row)
	}
	return out
}

// RowIsEmpty reports whether every cell of row i is empty.
func (g Grid) RowIsEmpty(i int) bool {
	for _, c := range g[i] {
		if !c.IsEmpty() {
			return false
		}
	}
	return true
}

// Sample returns the first n rows as raw string values, for the row
// classifier. Returns fewer rows when the grid is shorter.
func (g Grid) Sample(n int) [][]string {
	if n > len(g) {
		n = len(g)
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(g[i]))
		for j, c := range g[i] {
			row[j] = c.Raw
		}
		out[i] = row
	}
	return out
}
