// Package stats computes grouped descriptive statistics and correlations over
// evaluation records. All results are derived values owned by one pipeline
// run; empty groups are omitted rather than emitted with NaN fields.
package stats

import (
	"log/slog"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"courseval/internal/dataset"
)

// gpaConversion maps the 1-5 satisfaction scale onto a 4.5-point GPA scale.
const gpaConversion = 4.5 / 5.0

// Score distribution band cut points.
const (
	bandHigh = 4.5
	bandLow  = 3.0
)

// Aggregator computes per-group statistics for each survey question and for
// the derived combined score.
type Aggregator struct {
	logger *slog.Logger
}

func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// Aggregate groups records along each requested dimension and computes
// statistics per survey question plus the combined column. Output is sorted
// by group key, then question, for deterministic rendering.
func (a *Aggregator) Aggregate(records []dataset.EvaluationRecord, dims []Dimension, surveyCount int) map[Dimension][]GroupStatistic {
	out := make(map[Dimension][]GroupStatistic, len(dims))
	for _, dim := range dims {
		out[dim] = a.aggregateDimension(records, dim, surveyCount)
	}
	return out
}

func (a *Aggregator) aggregateDimension(records []dataset.EvaluationRecord, dim Dimension, surveyCount int) []GroupStatistic {
	questions := questionColumns(surveyCount)

	// values[key][question] collects only valid (non-NaN) scores, so a group
	// with zero valid rows for a question simply never appears.
	values := make(map[string]map[string][]float64)
	for _, rec := range records {
		key := dim.KeyOf(rec)
		if key == "" {
			continue
		}
		byQ := values[key]
		if byQ == nil {
			byQ = make(map[string][]float64, len(questions))
			values[key] = byQ
		}
		for q := 0; q < surveyCount; q++ {
			if s := rec.Score(q); !math.IsNaN(s) {
				name := QuestionName(q)
				byQ[name] = append(byQ[name], s)
			}
		}
		if c := rec.Combined(); !math.IsNaN(c) {
			byQ[CombinedQuestion] = append(byQ[CombinedQuestion], c)
		}
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var result []GroupStatistic
	for _, key := range keys {
		for _, question := range questions {
			xs := values[key][question]
			if len(xs) == 0 {
				a.logger.Warn("empty group omitted",
					"dimension", string(dim), "group", key, "question", question)
				continue
			}
			gs := Describe(xs)
			gs.Dimension = dim
			gs.Key = key
			gs.Question = question
			result = append(result, gs)
		}
	}
	return result
}

// Overall computes ungrouped per-question statistics including response rates.
func (a *Aggregator) Overall(records []dataset.EvaluationRecord, surveyCount int) []QuestionStat {
	total := len(records)
	result := make([]QuestionStat, 0, surveyCount+1)
	nan := math.NaN()
	for _, question := range questionColumns(surveyCount) {
		xs := collectColumn(records, question, surveyCount)
		// Statistic fields stay NaN for unanswered questions so renderers
		// blank them instead of showing zeros.
		qs := QuestionStat{
			Question: question,
			Total:    total,
			Mean:     nan,
			Std:      nan,
			CV:       nan,
			Median:   nan,
			Q1:       nan,
			Q3:       nan,
			Skewness: nan,
			Kurtosis: nan,
			Min:      nan,
			Max:      nan,
		}
		if len(xs) > 0 {
			d := Describe(xs)
			qs.N = d.N
			qs.Mean = d.Mean
			qs.Std = d.Std
			qs.CV = d.CV
			qs.Median = d.Median
			qs.Q1 = d.Q1
			qs.Q3 = d.Q3
			qs.Skewness = d.Skewness
			qs.Kurtosis = d.Kurtosis
			qs.Min = d.Min
			qs.Max = d.Max
		}
		if total > 0 {
			qs.ResponseRate = float64(qs.N) / float64(total) * 100
		}
		result = append(result, qs)
	}
	return result
}

// Distribution computes the high/medium/low score bands over every answered
// survey cell in the dataset.
func Distribution(records []dataset.EvaluationRecord, surveyCount int) Bands {
	var high, medium, low, n int
	for _, rec := range records {
		for q := 0; q < surveyCount; q++ {
			s := rec.Score(q)
			if math.IsNaN(s) {
				continue
			}
			n++
			switch {
			case s >= bandHigh:
				high++
			case s >= bandLow:
				medium++
			default:
				low++
			}
		}
	}
	if n == 0 {
		return Bands{}
	}
	return Bands{
		HighPct:   float64(high) / float64(n) * 100,
		MediumPct: float64(medium) / float64(n) * 100,
		LowPct:    float64(low) / float64(n) * 100,
	}
}

// GPAEquivalent converts a record's combined satisfaction score to the
// 4.5-point scale, NaN when the combined score is missing.
func GPAEquivalent(r dataset.EvaluationRecord) float64 {
	return r.Combined() * gpaConversion
}

// GPAByDimension aggregates the GPA-equivalent metric along one dimension.
func (a *Aggregator) GPAByDimension(records []dataset.EvaluationRecord, dim Dimension) []GroupStatistic {
	values := make(map[string][]float64)
	for _, rec := range records {
		key := dim.KeyOf(rec)
		if key == "" {
			continue
		}
		if g := GPAEquivalent(rec); !math.IsNaN(g) {
			values[key] = append(values[key], g)
		}
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make([]GroupStatistic, 0, len(keys))
	for _, key := range keys {
		gs := Describe(values[key])
		gs.Dimension = dim
		gs.Key = key
		gs.Question = "GPA"
		result = append(result, gs)
	}
	return result
}

// ClassSizes buckets each course section by respondent count: 0-15 Small,
// 16-30 Medium, 31-75 Large, above Very Large. Output is sorted by GroupCode.
func ClassSizes(records []dataset.EvaluationRecord) []ClassSize {
	counts := make(map[string]int)
	for _, rec := range records {
		if rec.GroupCode != "" {
			counts[rec.GroupCode]++
		}
	}

	codes := make([]string, 0, len(counts))
	for code := range counts {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	result := make([]ClassSize, 0, len(codes))
	for _, code := range codes {
		n := counts[code]
		result = append(result, ClassSize{
			GroupCode: code,
			Students:  n,
			Category:  sizeCategory(n),
		})
	}
	return result
}

func sizeCategory(n int) string {
	switch {
	case n <= 15:
		return SizeCategories[0]
	case n <= 30:
		return SizeCategories[1]
	case n <= 75:
		return SizeCategories[2]
	default:
		return SizeCategories[3]
	}
}

func questionColumns(surveyCount int) []string {
	cols := make([]string, 0, surveyCount+1)
	for q := 0; q < surveyCount; q++ {
		cols = append(cols, QuestionName(q))
	}
	return append(cols, CombinedQuestion)
}

func collectColumn(records []dataset.EvaluationRecord, question string, surveyCount int) []float64 {
	var xs []float64
	for _, rec := range records {
		var v float64
		if question == CombinedQuestion {
			v = rec.Combined()
		} else {
			v = rec.Score(questionIndex(question, surveyCount))
		}
		if !math.IsNaN(v) {
			xs = append(xs, v)
		}
	}
	return xs
}

func questionIndex(question string, surveyCount int) int {
	for q := 0; q < surveyCount; q++ {
		if QuestionName(q) == question {
			return q
		}
	}
	return -1
}

// Describe computes the full descriptive block for a non-empty sample.
// Shape statistics need at least three points and are NaN below that.
func Describe(xs []float64) GroupStatistic {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	mean := stat.Mean(sorted, nil)
	std := stat.PopStdDev(sorted, nil)

	gs := GroupStatistic{
		N:        len(sorted),
		Mean:     mean,
		Std:      std,
		Median:   stat.Quantile(0.5, stat.Empirical, sorted, nil),
		Q1:       stat.Quantile(0.25, stat.Empirical, sorted, nil),
		Q3:       stat.Quantile(0.75, stat.Empirical, sorted, nil),
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
		Skewness: math.NaN(),
		Kurtosis: math.NaN(),
	}
	if mean != 0 {
		gs.CV = std / mean
	}
	if len(sorted) >= 3 && std > 0 {
		gs.Skewness = stat.Skew(sorted, nil)
		gs.Kurtosis = stat.ExKurtosis(sorted, nil)
	}
	return gs
}
