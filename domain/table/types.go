package table

import "time"

// ValueKind describes what a raw cell value carries.
type ValueKind int

const (
	KindEmpty ValueKind = iota
	KindText
	KindNumber
	KindDateTime
)

// Cell is a single raw cell value as read from a sheet.
type Cell struct {
	Raw  string
	Kind ValueKind
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == KindEmpty || c.Raw == ""
}

// Grid is the rectangular array of raw cell values for one sheet.
// Rows are padded to a uniform width before any processing.
type Grid [][]Cell

// MergedRange is a rectangular merged-cell region with the authoritative
// value taken from its top-left cell. Bounds are 1-based and inclusive.
type MergedRange struct {
	MinRow int
	MaxRow int
	MinCol int
	MaxCol int
	Value  Cell
}

// RowClassification holds the row-classifier verdict for a sample of
// leading rows. Indices are 1-based positions within the sample.
type RowClassification struct {
	LabelRows  []int `json:"labels"`
	HeaderRows []int `json:"header"`
}

// ColumnType is the inferred type of a normalized column.
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeDateTime    ColumnType = "datetime"
	TypeCategorical ColumnType = "categorical"
	TypeEmpty       ColumnType = "empty"
)

// ColumnTypeMap maps column name to inferred type, one entry per column.
type ColumnTypeMap map[string]ColumnType

// NormalizedTable is the pipeline output: unique non-empty column names
// and rows that each hold exactly len(Columns) values.
type NormalizedTable struct {
	Columns []string
	Rows    [][]Cell
}

// RowStrings returns row i as raw string values.
func (t *NormalizedTable) RowStrings(i int) []string {
	out := make([]string, len(t.Rows[i]))
	for j, c := range t.Rows[i] {
		out[j] = c.Raw
	}
	return out
}

// ColumnIndex returns the position of a named column, or -1.
func (t *NormalizedTable) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HeaderMetadata records how the final header was produced, retained for
// lineage and explanation by downstream consumers.
type HeaderMetadata struct {
	HeaderRowCount int      `json:"original_header_rows"`
	ColumnCount    int      `json:"column_count"`
	Columns        []string `json:"column_names"`
}

// ColumnProfile holds summary statistics for a numeric column.
type ColumnProfile struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Median float64 `json:"median"`
}

// Result bundles a normalized table with everything the pipeline learned
// about it.
type Result struct {
	Table    *NormalizedTable
	Types    ColumnTypeMap
	Header   HeaderMetadata
	Profiles map[string]ColumnProfile
	Warnings []string
}

// TableInfo is the registry entry for one processed sheet.
type TableInfo struct {
	ID        string                   `json:"id"`
	Name      string                   `json:"name"`
	FileName  string                   `json:"file_name"`
	SheetName string                   `json:"sheet_name"`
	Columns   []string                 `json:"columns"`
	Types     ColumnTypeMap            `json:"column_types"`
	Header    HeaderMetadata           `json:"header"`
	Profiles  map[string]ColumnProfile `json:"profiles,omitempty"`
	RowCount  int                      `json:"row_count"`
	Warnings  []string                 `json:"warnings,omitempty"`
	CreatedAt time.Time                `json:"created_at"`

	Table *NormalizedTable `json:"-"`
}
