package ports

import (
	"context"

	"sheetsense/domain/table"
)

// RowClassifier decides which leading rows of a sheet are decorative
// labels and which jointly compose the header. Indices in the returned
// classification are 1-based positions within the supplied sample.
//
// Implementations may be rule-based or backed by a remote model; the
// pipeline treats a single failed call as unavailable and degrades to a
// deterministic default without retrying.
type RowClassifier interface {
	Classify(ctx context.Context, sample [][]string, sheetName string) (table.RowClassification, error)
}
