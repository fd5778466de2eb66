package stats

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"courseval/internal/dataset"
)

// Correlation is a Pearson coefficient over paired observations. Defined is
// false when fewer than two valid pairs exist or either series is constant;
// callers render such results as "undefined" instead of a spurious value.
type Correlation struct {
	Coefficient float64
	N           int
	Defined     bool
}

func (c Correlation) String() string {
	if !c.Defined {
		return "undefined"
	}
	return fmt.Sprintf("%.4f", c.Coefficient)
}

// Pearson computes the correlation between two equal-length series after
// removing pairs where either value is NaN. The coefficient is clamped to
// [-1, 1].
func Pearson(xs, ys []float64) Correlation {
	n := len(xs)
	if len(ys) < n {
		n = len(ys)
	}

	px := make([]float64, 0, n)
	py := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			continue
		}
		px = append(px, xs[i])
		py = append(py, ys[i])
	}

	if len(px) < 2 {
		return Correlation{N: len(px)}
	}

	r := stat.Correlation(px, py, nil)
	if math.IsNaN(r) {
		// Constant series.
		return Correlation{N: len(px)}
	}
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return Correlation{Coefficient: r, N: len(px), Defined: true}
}

// QuestionSeries extracts one survey column across all records, NaN for
// missing answers, index-aligned with the input.
func QuestionSeries(records []dataset.EvaluationRecord, q int) []float64 {
	xs := make([]float64, len(records))
	for i, rec := range records {
		xs[i] = rec.Score(q)
	}
	return xs
}

// CombinedSeries extracts the per-respondent combined score column.
func CombinedSeries(records []dataset.EvaluationRecord) []float64 {
	xs := make([]float64, len(records))
	for i, rec := range records {
		xs[i] = rec.Combined()
	}
	return xs
}

// GPASeries extracts the GPA-equivalent column.
func GPASeries(records []dataset.EvaluationRecord) []float64 {
	xs := make([]float64, len(records))
	for i, rec := range records {
		xs[i] = GPAEquivalent(rec)
	}
	return xs
}

// ItemTotal correlates each survey question with the mean of the remaining
// questions, one Correlation per item.
func ItemTotal(records []dataset.EvaluationRecord, surveyCount int) []Correlation {
	result := make([]Correlation, surveyCount)
	for q := 0; q < surveyCount; q++ {
		rest := make([]float64, len(records))
		for i, rec := range records {
			sum := 0.0
			n := 0
			for j := 0; j < surveyCount; j++ {
				if j == q {
					continue
				}
				if s := rec.Score(j); !math.IsNaN(s) {
					sum += s
					n++
				}
			}
			if n == 0 {
				rest[i] = math.NaN()
			} else {
				rest[i] = sum / float64(n)
			}
		}
		result[q] = Pearson(QuestionSeries(records, q), rest)
	}
	return result
}

// SplitHalf correlates the mean of the first half of the survey items with
// the mean of the second half, a cheap reliability estimate.
func SplitHalf(records []dataset.EvaluationRecord, surveyCount int) Correlation {
	half := surveyCount / 2
	first := make([]float64, len(records))
	second := make([]float64, len(records))
	for i, rec := range records {
		first[i] = meanRange(rec, 0, half)
		second[i] = meanRange(rec, half, surveyCount)
	}
	return Pearson(first, second)
}

func meanRange(rec dataset.EvaluationRecord, from, to int) float64 {
	sum := 0.0
	n := 0
	for q := from; q < to; q++ {
		if s := rec.Score(q); !math.IsNaN(s) {
			sum += s
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// InterItemMatrix computes pairwise correlations between every survey
// question. The diagonal correlates a question with itself and is 1 wherever
// the question has two or more answers.
func InterItemMatrix(records []dataset.EvaluationRecord, surveyCount int) [][]Correlation {
	series := make([][]float64, surveyCount)
	for q := 0; q < surveyCount; q++ {
		series[q] = QuestionSeries(records, q)
	}

	matrix := make([][]Correlation, surveyCount)
	for i := 0; i < surveyCount; i++ {
		matrix[i] = make([]Correlation, surveyCount)
		for j := 0; j < surveyCount; j++ {
			matrix[i][j] = Pearson(series[i], series[j])
		}
	}
	return matrix
}
