package excel

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"sheetsense/domain/table"
	apperrors "sheetsense/internal/errors"
)

// WorkbookReader loads one sheet of a workbook into a raw cell grid plus
// its merged-range metadata. Cell values are the last computed results
// stored in the file, never formula text. The workbook handle is opened
// and released inside each call.
type WorkbookReader struct {
	filePath string
}

// NewWorkbookReader creates a reader for the given workbook path.
func NewWorkbookReader(filePath string) *WorkbookReader {
	return &WorkbookReader{filePath: filePath}
}

// SheetNames returns the sheet names in the workbook, in workbook order.
func (r *WorkbookReader) SheetNames() ([]string, error) {
	f, err := r.open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return f.GetSheetList(), nil
}

// LoadSheet reads the named sheet into a width-padded grid and extracts
// every merged-cell range. Ranges with undefined bounds are skipped with
// a recorded warning rather than failing the sheet.
func (r *WorkbookReader) LoadSheet(sheetName string) (table.Grid, []table.MergedRange, []string, error) {
	startTime := time.Now()
	f, err := r.open()
	if err != nil {
		return nil, nil, nil, err
	}
	defer f.Close()
	log.Printf("[WorkbookReader] Workbook opened in %.2fms: %s",
		float64(time.Since(startTime).Nanoseconds())/1e6, r.filePath)

	if idx, err := f.GetSheetIndex(sheetName); err != nil || idx < 0 {
		return nil, nil, nil, apperrors.SheetNotFound(sheetName)
	}

	readStart := time.Now()
	rawRows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, nil, nil, apperrors.Wrapf(err, "failed to read sheet %q", sheetName)
	}
	log.Printf("[WorkbookReader] Sheet %q read in %.2fms (%d rows)",
		sheetName, float64(time.Since(readStart).Nanoseconds())/1e6, len(rawRows))

	grid := r.buildGrid(f, sheetName, rawRows)

	ranges, warnings := r.readMergedRanges(f, sheetName)
	log.Printf("[WorkbookReader] Sheet %q: %d merged ranges, %d warnings",
		sheetName, len(ranges), len(warnings))

	return grid, ranges, warnings, nil
}

func (r *WorkbookReader) open() (*excelize.File, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, apperrors.WorkbookError(r.filePath, err)
	}
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, apperrors.WorkbookError(r.filePath, err)
	}
	return f, nil
}

// buildGrid converts raw string rows into typed cells, tagging each cell
// with the workbook's native cell type where one is recorded.
func (r *WorkbookReader) buildGrid(f *excelize.File, sheetName string, rawRows [][]string) table.Grid {
	grid := make(table.Grid, len(rawRows))
	for i, row := range rawRows {
		cells := make([]table.Cell, len(row))
		for j, raw := range row {
			cells[j] = r.buildCell(f, sheetName, i+1, j+1, raw)
		}
		grid[i] = cells
	}
	return grid.Padded()
}

func (r *WorkbookReader) buildCell(f *excelize.File, sheetName string, row, col int, raw string) table.Cell {
	if raw == "" {
		return table.Cell{}
	}

	cell := table.Cell{Raw: raw, Kind: table.KindText}
	axis, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return cell
	}

	cellType, err := f.GetCellType(sheetName, axis)
	if err != nil {
		return cell
	}

	switch cellType {
	case excelize.CellTypeDate:
		cell.Kind = table.KindDateTime
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		// Plain numeric cells carry no explicit type marker, so both
		// cases are checked against the formatted value.
		if _, perr := strconv.ParseFloat(raw, 64); perr == nil {
			cell.Kind = table.KindNumber
		}
	}
	return cell
}

// readMergedRanges extracts merged-cell regions with the authoritative
// top-left value. Any range whose bounds cannot be resolved is recorded
// as a warning and skipped.
func (r *WorkbookReader) readMergedRanges(f *excelize.File, sheetName string) ([]table.MergedRange, []string) {
	mergeCells, err := f.GetMergeCells(sheetName)
	if err != nil {
		return nil, []string{fmt.Sprintf("could not read merged cells: %v", err)}
	}

	var ranges []table.MergedRange
	var warnings []string
	for _, mc := range mergeCells {
		minCol, minRow, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped merged range %q: invalid start bound", mc.GetStartAxis()))
			continue
		}
		maxCol, maxRow, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("skipped merged range %q: invalid end bound", mc.GetEndAxis()))
			continue
		}

		value := table.Cell{}
		if raw := mc.GetCellValue(); raw != "" {
			value = r.buildCell(f, sheetName, minRow, minCol, raw)
		}

		ranges = append(ranges, table.MergedRange{
			MinRow: minRow,
			MaxRow: maxRow,
			MinCol: minCol,
			MaxCol: maxCol,
			Value:  value,
		})
	}
	return ranges, warnings
}
