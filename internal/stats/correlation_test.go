package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courseval/internal/dataset"
)

func TestPearsonSelfCorrelation(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5, 4, 3, 2}
	c := Pearson(xs, xs)

	require.True(t, c.Defined)
	assert.InDelta(t, 1.0, c.Coefficient, 1e-9)
	assert.Equal(t, len(xs), c.N)
}

func TestPearsonPerfectInverse(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	ys := []float64{4, 3, 2, 1}
	c := Pearson(xs, ys)

	require.True(t, c.Defined)
	assert.InDelta(t, -1.0, c.Coefficient, 1e-9)
}

func TestPearsonInsufficientSample(t *testing.T) {
	c := Pearson([]float64{1}, []float64{2})
	assert.False(t, c.Defined)
	assert.Equal(t, 1, c.N)
	assert.Equal(t, "undefined", c.String())
}

func TestPearsonPairwiseDeletion(t *testing.T) {
	xs := []float64{1, math.NaN(), 3, 4}
	ys := []float64{2, 5, math.NaN(), 8}
	c := Pearson(xs, ys)

	require.True(t, c.Defined)
	assert.Equal(t, 2, c.N, "only fully observed pairs count")
}

func TestPearsonConstantSeriesUndefined(t *testing.T) {
	c := Pearson([]float64{3, 3, 3}, []float64{1, 2, 3})
	assert.False(t, c.Defined)
}

func TestInterItemMatrixDiagonal(t *testing.T) {
	records := []dataset.EvaluationRecord{
		{Scores: []float64{1, 5}},
		{Scores: []float64{2, 4}},
		{Scores: []float64{3, 3}},
	}

	matrix := InterItemMatrix(records, 2)
	require.Len(t, matrix, 2)
	assert.InDelta(t, 1.0, matrix[0][0].Coefficient, 1e-9)
	assert.InDelta(t, 1.0, matrix[1][1].Coefficient, 1e-9)
	assert.InDelta(t, -1.0, matrix[0][1].Coefficient, 1e-9)
	assert.Equal(t, matrix[0][1].Coefficient, matrix[1][0].Coefficient)
}

func TestItemTotal(t *testing.T) {
	records := []dataset.EvaluationRecord{
		{Scores: []float64{1, 1, 1}},
		{Scores: []float64{3, 3, 3}},
		{Scores: []float64{5, 5, 5}},
	}

	itemTotal := ItemTotal(records, 3)
	require.Len(t, itemTotal, 3)
	for q, c := range itemTotal {
		require.True(t, c.Defined, "question %d", q)
		assert.InDelta(t, 1.0, c.Coefficient, 1e-9)
	}
}

func TestSplitHalf(t *testing.T) {
	records := []dataset.EvaluationRecord{
		{Scores: []float64{1, 1, 2, 2}},
		{Scores: []float64{4, 4, 5, 5}},
		{Scores: []float64{2, 3, 3, 4}},
	}

	c := SplitHalf(records, 4)
	require.True(t, c.Defined)
	assert.Greater(t, c.Coefficient, 0.9)
}

func TestQuestionSeriesAlignment(t *testing.T) {
	records := []dataset.EvaluationRecord{
		{Scores: []float64{1, 2}},
		{Scores: []float64{math.NaN(), 4}},
	}

	xs := QuestionSeries(records, 0)
	require.Len(t, xs, 2)
	assert.Equal(t, 1.0, xs[0])
	assert.True(t, math.IsNaN(xs[1]))
}
