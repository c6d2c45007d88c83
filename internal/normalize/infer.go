package normalize

import (
	"strconv"
	"strings"
	"time"

	"sheetsense/domain/table"
)

// dateLayouts are tried in order when probing string values for dates.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"01-02-2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"January 2, 2006",
}

// dateProbeLimit caps how many leading non-empty values are parsed when
// deciding whether a text column is actually a date column.
const dateProbeLimit = 10

// InferColumnTypes assigns one type per column, in priority order: a
// column with no non-empty values is empty; one where every value parses
// as a number is numeric; one carrying native date/time cells is
// datetime; one whose first values all parse as dates is datetime;
// anything else is categorical.
func InferColumnTypes(columns []string, rows table.Grid) table.ColumnTypeMap {
	types := make(table.ColumnTypeMap, len(columns))
	for col, name := range columns {
		types[name] = inferColumn(rows, col)
	}
	return types
}

func inferColumn(rows table.Grid, col int) table.ColumnType {
	var values []table.Cell
	for _, row := range rows {
		if col < len(row) && !row[col].IsEmpty() {
			values = append(values, row[col])
		}
	}

	if len(values) == 0 {
		return table.TypeEmpty
	}

	allNumeric := true
	for _, v := range values {
		if !isNumeric(v) {
			allNumeric = false
			break
		}
	}
	if allNumeric {
		return table.TypeNumeric
	}

	allNativeDates := true
	for _, v := range values {
		if v.Kind != table.KindDateTime {
			allNativeDates = false
			break
		}
	}
	if allNativeDates {
		return table.TypeDateTime
	}

	probe := values
	if len(probe) > dateProbeLimit {
		probe = probe[:dateProbeLimit]
	}
	allDates := true
	for _, v := range probe {
		if !parsesAsDate(v.Raw) {
			allDates = false
			break
		}
	}
	if allDates {
		return table.TypeDateTime
	}

	return table.TypeCategorical
}

func isNumeric(c table.Cell) bool {
	if c.Kind == table.KindNumber {
		return true
	}
	_, err := strconv.ParseFloat(strings.TrimSpace(c.Raw), 64)
	return err == nil
}

func parsesAsDate(raw string) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, raw); err == nil {
			return true
		}
	}
	return false
}
