package heuristic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify_SimpleHeader(t *testing.T) {
	sample := [][]string{
		{"Name", "Age"},
		{"Ada", "36"},
		{"Bob", "41"},
	}

	result, err := NewClassifier().Classify(context.Background(), sample, "Sheet1")
	require.NoError(t, err)

	assert.Empty(t, result.LabelRows)
	assert.Equal(t, []int{1}, result.HeaderRows)
}

func TestClassify_CaptionThenHeader(t *testing.T) {
	sample := [][]string{
		{"Quarterly Report", ""},
		{"", ""},
		{"Name", "Age"},
		{"Ada", "36"},
	}

	result, err := NewClassifier().Classify(context.Background(), sample, "Sheet1")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2}, result.LabelRows)
	assert.Equal(t, []int{3}, result.HeaderRows)
}

func TestClassify_MultiLevelHeader(t *testing.T) {
	sample := [][]string{
		{"Region", "Region"},
		{"North", "Sales"},
		{"North", "100"},
	}

	result, err := NewClassifier().Classify(context.Background(), sample, "Sheet1")
	require.NoError(t, err)

	assert.Empty(t, result.LabelRows)
	assert.Equal(t, []int{1, 2}, result.HeaderRows)
}

func TestClassify_HeaderCappedAtThreeRows(t *testing.T) {
	sample := [][]string{
		{"a", "b"},
		{"c", "d"},
		{"e", "f"},
		{"g", "h"},
		{"i", "j"},
	}

	result, err := NewClassifier().Classify(context.Background(), sample, "Sheet1")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, result.HeaderRows)
}

func TestClassify_SingleColumnSheetHasNoLabelRows(t *testing.T) {
	sample := [][]string{
		{"value"},
		{"10"},
	}

	result, err := NewClassifier().Classify(context.Background(), sample, "Sheet1")
	require.NoError(t, err)

	assert.Empty(t, result.LabelRows)
	assert.Equal(t, []int{1}, result.HeaderRows)
}

func TestClassify_EmptySample(t *testing.T) {
	result, err := NewClassifier().Classify(context.Background(), nil, "Sheet1")
	require.NoError(t, err)

	// Both sets are present but empty so callers can distinguish "no
	// rows" from "classifier gave no answer".
	assert.NotNil(t, result.LabelRows)
	assert.NotNil(t, result.HeaderRows)
	assert.Empty(t, result.LabelRows)
	assert.Empty(t, result.HeaderRows)
}
