package dataset

import "math"

// EvaluationRecord is one student response row from the evaluation CSV.
// Scores holds one entry per survey item; missing or invalid answers are NaN.
type EvaluationRecord struct {
	Year          int
	Semester      string
	Campus        string
	College       string
	CourseNumber  string
	CourseCode    string
	CourseName    string
	ProfessorName string
	ProfessorID   string
	GroupCode     string
	Department    string
	Scores        []float64
}

// Combined returns the mean of the respondent's non-missing survey scores,
// or NaN when every item is missing.
func (r EvaluationRecord) Combined() float64 {
	sum := 0.0
	n := 0
	for _, s := range r.Scores {
		if !math.IsNaN(s) {
			sum += s
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Score returns the value for a zero-based survey question index,
// or NaN when the index is out of range.
func (r EvaluationRecord) Score(q int) float64 {
	if q < 0 || q >= len(r.Scores) {
		return math.NaN()
	}
	return r.Scores[q]
}
