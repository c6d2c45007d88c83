package normalize

import (
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"sheetsense/domain/table"
)

// ProfileColumns computes summary statistics for every numeric column.
// Columns of other types are skipped; profiling failures on a column are
// skipped rather than failing the table.
func ProfileColumns(t *table.NormalizedTable, types table.ColumnTypeMap) map[string]table.ColumnProfile {
	profiles := make(map[string]table.ColumnProfile)

	for col, name := range t.Columns {
		if types[name] != table.TypeNumeric {
			continue
		}

		var data []float64
		for _, row := range t.Rows {
			if col >= len(row) || row[col].IsEmpty() {
				continue
			}
			if v, err := strconv.ParseFloat(strings.TrimSpace(row[col].Raw), 64); err == nil {
				data = append(data, v)
			}
		}
		if len(data) == 0 {
			continue
		}

		profile, err := profileSeries(data)
		if err != nil {
			continue
		}
		profiles[name] = profile
	}

	return profiles
}

func profileSeries(data []float64) (table.ColumnProfile, error) {
	mean, err := stats.Mean(data)
	if err != nil {
		return table.ColumnProfile{}, err
	}
	stdDev, err := stats.StandardDeviation(data)
	if err != nil {
		return table.ColumnProfile{}, err
	}
	min, err := stats.Min(data)
	if err != nil {
		return table.ColumnProfile{}, err
	}
	max, err := stats.Max(data)
	if err != nil {
		return table.ColumnProfile{}, err
	}
	median, err := stats.Median(data)
	if err != nil {
		return table.ColumnProfile{}, err
	}

	return table.ColumnProfile{
		Count:  len(data),
		Mean:   mean,
		StdDev: stdDev,
		Min:    min,
		Max:    max,
		Median: median,
	}, nil
}
