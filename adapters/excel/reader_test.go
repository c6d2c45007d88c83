package excel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"sheetsense/domain/table"
	apperrors "sheetsense/internal/errors"
)

// writeFixture builds a small workbook with a merged header cell and a
// numeric column so grid typing and merge extraction are both exercised.
func writeFixture(t *testing.T) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellStr(f.GetSheetName(0), "A1", "Region"))
	require.NoError(t, f.MergeCell(sheet, "A1", "B1"))
	require.NoError(t, f.SetCellStr(sheet, "A2", "North"))
	require.NoError(t, f.SetCellStr(sheet, "B2", "Sales"))
	require.NoError(t, f.SetCellStr(sheet, "A3", "North"))
	require.NoError(t, f.SetCellValue(sheet, "B3", 100))
	require.NoError(t, f.SetCellStr(sheet, "A4", "South"))
	require.NoError(t, f.SetCellValue(sheet, "B4", 200))

	_, err := f.NewSheet("Empty")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "fixture.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestWorkbookReader_SheetNames(t *testing.T) {
	reader := NewWorkbookReader(writeFixture(t))

	names, err := reader.SheetNames()
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Contains(t, names, "Empty")
}

func TestWorkbookReader_LoadSheet(t *testing.T) {
	path := writeFixture(t)
	reader := NewWorkbookReader(path)

	names, err := reader.SheetNames()
	require.NoError(t, err)

	grid, ranges, warnings, err := reader.LoadSheet(names[0])
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.Len(t, grid, 4)
	width := grid.Width()
	for i, row := range grid {
		assert.Len(t, row, width, "row %d", i)
	}
	assert.Equal(t, "Region", grid[0][0].Raw)
	assert.Equal(t, "100", grid[2][1].Raw)
	assert.Equal(t, table.KindNumber, grid[2][1].Kind)
	assert.Equal(t, table.KindText, grid[1][0].Kind)

	require.Len(t, ranges, 1)
	assert.Equal(t, 1, ranges[0].MinRow)
	assert.Equal(t, 1, ranges[0].MaxRow)
	assert.Equal(t, 1, ranges[0].MinCol)
	assert.Equal(t, 2, ranges[0].MaxCol)
	assert.Equal(t, "Region", ranges[0].Value.Raw)
}

func TestWorkbookReader_EmptySheet(t *testing.T) {
	reader := NewWorkbookReader(writeFixture(t))

	grid, ranges, warnings, err := reader.LoadSheet("Empty")
	require.NoError(t, err)
	assert.Empty(t, grid)
	assert.Empty(t, ranges)
	assert.Empty(t, warnings)
}

func TestWorkbookReader_SheetNotFound(t *testing.T) {
	reader := NewWorkbookReader(writeFixture(t))

	_, _, _, err := reader.LoadSheet("NoSuchSheet")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeSheetNotFound, apperrors.GetCode(err))
}

func TestWorkbookReader_MissingFile(t *testing.T) {
	reader := NewWorkbookReader(filepath.Join(t.TempDir(), "missing.xlsx"))

	_, err := reader.SheetNames()
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeWorkbookError, apperrors.GetCode(err))
}
