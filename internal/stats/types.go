package stats

import (
	"fmt"

	"courseval/internal/dataset"
)

// Dimension is a grouping key over evaluation records.
type Dimension string

const (
	DimCollege    Dimension = "College"
	DimCampus     Dimension = "Campus"
	DimDepartment Dimension = "Department"
	DimCourse     Dimension = "Course"
	DimGroup      Dimension = "Group"
)

// KeyOf extracts the grouping value for a record. Records with an empty key
// do not belong to any group for that dimension.
func (d Dimension) KeyOf(r dataset.EvaluationRecord) string {
	switch d {
	case DimCollege:
		return r.College
	case DimCampus:
		return r.Campus
	case DimDepartment:
		return r.Department
	case DimCourse:
		return r.CourseName
	case DimGroup:
		return r.GroupCode
	}
	return ""
}

// CombinedQuestion names the derived mean-across-items column.
const CombinedQuestion = "Combined"

// QuestionName returns the column name for a zero-based question index.
func QuestionName(q int) string {
	return fmt.Sprintf("Survey%d", q+1)
}

// GroupStatistic holds descriptive statistics for one (group, question) pair.
// Std is the population standard deviation and CV the coefficient of
// variation (std/mean). Derived values are never recomputed after a run.
type GroupStatistic struct {
	Dimension Dimension
	Key       string
	Question  string
	N         int
	Mean      float64
	Std       float64
	CV        float64
	Median    float64
	Q1        float64
	Q3        float64
	Skewness  float64
	Kurtosis  float64
	Min       float64
	Max       float64
}

// QuestionStat holds ungrouped statistics for one survey question, including
// how many of the loaded rows actually answered it.
type QuestionStat struct {
	Question     string
	N            int
	Total        int
	ResponseRate float64 // percent of rows with a valid answer
	Mean         float64
	Std          float64
	CV           float64
	Median       float64
	Q1           float64
	Q3           float64
	Skewness     float64
	Kurtosis     float64
	Min          float64
	Max          float64
}

// Bands is the share of all answered survey cells falling into fixed score
// ranges: high >= 4.5, medium in [3, 4.5), low < 3.
type Bands struct {
	HighPct   float64
	MediumPct float64
	LowPct    float64
}

// ClassSize categorizes one course section by respondent count.
type ClassSize struct {
	GroupCode string
	Students  int
	Category  string
}

// Class size bucket names, in ascending order.
var SizeCategories = []string{"Small", "Medium", "Large", "Very Large"}
