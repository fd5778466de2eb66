package report

import (
	"time"

	"courseval/internal/rank"
	"courseval/internal/stats"
)

// Summary is everything the renderer needs to produce the full report set.
// It is assembled once by the pipeline; rendering performs no computation
// beyond formatting.
type Summary struct {
	GeneratedAt  time.Time
	SourceFile   string
	TotalRecords int
	DroppedRows  int
	SurveyCount  int

	Questions    []QuestionPage
	Overall      []stats.QuestionStat
	Bands        stats.Bands
	Demographics Demographics
	Performance  Performance
	Evaluation   Evaluation
	Keywords     []rank.Keyword
	Findings     []string
}

// QuestionPage backs one per-question report page.
type QuestionPage struct {
	Question    string // column name, e.g. "Survey3"
	Title       string
	Page        string // output file name
	Chart       string // chart file name, empty when charts are disabled
	Overall     stats.QuestionStat
	ByCollege   []stats.GroupStatistic
	TopColleges []rank.RankedEntity
	TopCourses  []rank.RankedEntity
}

// Demographics backs the demographics page.
type Demographics struct {
	Colleges         []CollegeProfile
	Campuses         []CampusProfile
	SizeDistribution []SizeBucket
	ClassSizes       []stats.ClassSize
}

// CollegeProfile counts the footprint of one college in the dataset.
type CollegeProfile struct {
	College   string
	Sections  int // distinct group codes
	Courses   int // distinct course codes
	Responses int
}

// CampusProfile counts responses per campus.
type CampusProfile struct {
	Campus    string
	Responses int
}

// SizeBucket counts sections per class-size category.
type SizeBucket struct {
	Category string
	Sections int
}

// Performance backs the performance page (GPA-equivalent analytics).
type Performance struct {
	GPAMean           float64
	GPAStd            float64
	ByCollege         []stats.GroupStatistic
	TopCourses        []rank.RankedEntity
	GPAvsSatisfaction stats.Correlation
	SizeVsScore       stats.Correlation // section size vs mean combined score
}

// Evaluation backs the evaluation page: question-level statistics and the
// correlation structure between survey items.
type Evaluation struct {
	QuestionNames []string
	InterItem     [][]stats.Correlation
	ItemTotal     []stats.Correlation
	SplitHalf     stats.Correlation
}
