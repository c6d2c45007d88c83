package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetsense/domain/table"
)

func TestMergeHeaders_TwoLevelHeader(t *testing.T) {
	// Merge-resolved grid: "Region" was a parent header spanning both
	// columns, so it repeats under each child column.
	grid := table.GridFromStrings([][]string{
		{"Region", "Region"},
		{"North", "Sales"},
		{"North", "100"},
		{"South", "200"},
	})

	columns, data, headerRowCount := MergeHeaders(grid, []int{1, 2})

	assert.Equal(t, []string{"Region_North", "Region_Sales"}, columns)
	assert.Equal(t, 2, headerRowCount)
	require.Len(t, data, 2)
	assert.Equal(t, "North", data[0][0].Raw)
	assert.Equal(t, "100", data[0][1].Raw)
	assert.Equal(t, "South", data[1][0].Raw)
	assert.Equal(t, "200", data[1][1].Raw)
}

func TestMergeHeaders_EmptyHeaderSetUsesFirstRow(t *testing.T) {
	grid := table.GridFromStrings([][]string{
		{"Name", "Age"},
		{"Ada", "36"},
	})

	columns, data, headerRowCount := MergeHeaders(grid, nil)

	assert.Equal(t, []string{"Name", "Age"}, columns)
	assert.Equal(t, 1, headerRowCount)
	require.Len(t, data, 1)
	assert.Equal(t, "Ada", data[0][0].Raw)
}

func TestMergeHeaders_SynthesizesColumnNames(t *testing.T) {
	grid := table.GridFromStrings([][]string{
		{"Name", "", ""},
		{"1", "2", "3"},
	})

	columns, _, _ := MergeHeaders(grid, []int{1})

	assert.Equal(t, []string{"Name", "Column_2", "Column_3"}, columns)
}

func TestMergeHeaders_GapRowsAreNotData(t *testing.T) {
	// Rows between non-contiguous header indices never join the data
	// region; data starts strictly after the highest header index.
	grid := table.GridFromStrings([][]string{
		{"A", "B"},
		{"skipped", "skipped"},
		{"C", "D"},
		{"1", "2"},
	})

	columns, data, headerRowCount := MergeHeaders(grid, []int{1, 3})

	assert.Equal(t, []string{"A_C", "B_D"}, columns)
	assert.Equal(t, 2, headerRowCount)
	require.Len(t, data, 1)
	assert.Equal(t, "1", data[0][0].Raw)
}

func TestMergeHeaders_OutOfRangeIndicesFallBackToFirstRow(t *testing.T) {
	grid := table.GridFromStrings([][]string{
		{"Only", "Header"},
		{"a", "b"},
	})

	columns, data, headerRowCount := MergeHeaders(grid, []int{7, 9})

	assert.Equal(t, []string{"Only", "Header"}, columns)
	assert.Equal(t, 1, headerRowCount)
	assert.Len(t, data, 1)
}

func TestMergeHeaders_EmptyGrid(t *testing.T) {
	columns, data, headerRowCount := MergeHeaders(table.Grid{}, nil)

	assert.Empty(t, columns)
	assert.Empty(t, data)
	assert.Zero(t, headerRowCount)
}

func TestMergeHeaders_HeaderOnLastRowLeavesNoData(t *testing.T) {
	grid := table.GridFromStrings([][]string{
		{"A", "B"},
	})

	columns, data, _ := MergeHeaders(grid, []int{1})

	assert.Equal(t, []string{"A", "B"}, columns)
	assert.Empty(t, data)
}

func TestCleanColumnName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"whitespace runs collapse", "Total   Amount", "Total_Amount"},
		{"special characters stripped", "Price ($)", "Price"},
		{"leading trailing underscores trimmed", "__x__", "x"},
		{"hyphen kept", "year-end", "year-end"},
		{"tabs and newlines", "a\t b\nc", "a_b_c"},
		{"empty becomes Unnamed", "%!", "Unnamed"},
		{"blank becomes Unnamed", "   ", "Unnamed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanColumnName(tt.in))
		})
	}
}

func TestMergeHeaders_UniqueNames(t *testing.T) {
	grid := table.GridFromStrings([][]string{
		{"Value", "Value", "Value"},
		{"1", "2", "3"},
	})

	columns, _, _ := MergeHeaders(grid, []int{1})

	assert.Equal(t, []string{"Value", "Value_1", "Value_2"}, columns)

	seen := map[string]bool{}
	for _, c := range columns {
		assert.False(t, seen[c], "duplicate column %s", c)
		seen[c] = true
	}
}

func TestMergeHeaders_SuffixSkipsLiteralCollision(t *testing.T) {
	// A generated suffix must not land on a name that already exists
	// literally in the header row.
	grid := table.GridFromStrings([][]string{
		{"A", "A", "A_1"},
		{"1", "2", "3"},
	})

	columns, _, _ := MergeHeaders(grid, []int{1})

	assert.Equal(t, []string{"A", "A_1", "A_1_1"}, columns)

	seen := map[string]bool{}
	for _, c := range columns {
		assert.False(t, seen[c], "duplicate column %s", c)
		seen[c] = true
	}
}
