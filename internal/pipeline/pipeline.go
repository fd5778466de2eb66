// Package pipeline runs one full report generation: load, aggregate, rank,
// correlate, render. Output is staged and published atomically so an aborted
// run never leaves a partial report set behind.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	"courseval/internal/config"
	"courseval/internal/dataset"
	"courseval/internal/exporter"
	"courseval/internal/rank"
	"courseval/internal/report"
	"courseval/internal/stats"
)

// WorkbookName is the Excel export file name inside the output directory.
const WorkbookName = "survey_analysis.xlsx"

// Result summarizes one completed run for the CLI.
type Result struct {
	Records     int
	Dropped     int
	SurveyCount int
	Groups      map[stats.Dimension]int
	Pages       []string
	Charts      int
	Workbook    string
	Duration    time.Duration
}

// Run executes the whole pipeline against cfg.Input and publishes the report
// set into cfg.OutputDir.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Result, error) {
	start := time.Now()
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	loader := dataset.NewLoader(cfg.ScaleMin, cfg.ScaleMax, logger)
	loaded, err := loader.Load(cfg.Input)
	if err != nil {
		return nil, err
	}
	if len(loaded.Records) == 0 {
		return nil, fmt.Errorf("dataset %s has no data rows", cfg.Input)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dims := []stats.Dimension{stats.DimCollege, stats.DimCampus, stats.DimCourse}
	if loaded.HasDepartment {
		dims = append(dims, stats.DimDepartment)
	}

	agg := stats.NewAggregator(logger)
	aggregates := agg.Aggregate(loaded.Records, dims, loaded.SurveyCount)
	overall := agg.Overall(loaded.Records, loaded.SurveyCount)

	summary := buildSummary(cfg, loaded, aggregates, overall, agg)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Stage everything next to the output directory, publish only when the
	// full set rendered.
	parent := filepath.Dir(filepath.Clean(cfg.OutputDir))
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, fmt.Errorf("create output parent: %w", err)
	}
	staging, err := os.MkdirTemp(parent, ".courseval-stage-")
	if err != nil {
		return nil, fmt.Errorf("create staging dir: %w", err)
	}
	defer os.RemoveAll(staging)

	charts := 0
	if cfg.Charts {
		for i := range summary.Questions {
			q := &summary.Questions[i]
			name, err := report.RenderQuestionChart(staging, q, cfg.ScaleMax)
			if err != nil {
				return nil, err
			}
			if name != "" {
				q.Chart = name
				charts++
			}
		}
		if _, err := report.RenderMeansChart(staging, overall, cfg.ScaleMax); err != nil {
			return nil, err
		}
		charts++
		if name, err := report.RenderKeywordChart(staging, summary.Keywords); err != nil {
			return nil, err
		} else if name != "" {
			charts++
		}
	}

	renderer, err := report.NewRenderer(logger)
	if err != nil {
		return nil, err
	}
	pages, err := renderer.Render(staging, summary)
	if err != nil {
		return nil, err
	}

	workbook := ""
	if cfg.Excel {
		if err := exporter.NewWorkbook(logger).Write(filepath.Join(staging, WorkbookName), dims, aggregates, overall); err != nil {
			return nil, err
		}
		workbook = filepath.Join(cfg.OutputDir, WorkbookName)
	}

	if err := publish(staging, cfg.OutputDir); err != nil {
		return nil, err
	}

	groups := make(map[stats.Dimension]int, len(dims))
	for _, dim := range dims {
		seen := make(map[string]bool)
		for _, g := range aggregates[dim] {
			seen[g.Key] = true
		}
		groups[dim] = len(seen)
	}

	result := &Result{
		Records:     len(loaded.Records),
		Dropped:     loaded.Dropped,
		SurveyCount: loaded.SurveyCount,
		Groups:      groups,
		Pages:       pages,
		Charts:      charts,
		Workbook:    workbook,
		Duration:    time.Since(start),
	}
	logger.Info("pipeline complete",
		"records", result.Records,
		"dropped", result.Dropped,
		"pages", len(result.Pages),
		"duration", result.Duration)
	return result, nil
}

func buildSummary(cfg *config.Config, loaded *dataset.LoadResult, aggregates map[stats.Dimension][]stats.GroupStatistic, overall []stats.QuestionStat, agg *stats.Aggregator) *report.Summary {
	records := loaded.Records
	surveyCount := loaded.SurveyCount

	summary := &report.Summary{
		GeneratedAt:  time.Now(),
		SourceFile:   filepath.Base(cfg.Input),
		TotalRecords: len(records),
		DroppedRows:  loaded.Dropped,
		SurveyCount:  surveyCount,
		Overall:      overall,
		Bands:        stats.Distribution(records, surveyCount),
	}

	for q := 0; q < surveyCount; q++ {
		question := stats.QuestionName(q)
		page := report.QuestionPage{
			Question:    question,
			Title:       fmt.Sprintf("Survey Question %d", q+1),
			Page:        fmt.Sprintf("question_%d.html", q+1),
			Overall:     overall[q],
			ByCollege:   filterQuestion(aggregates[stats.DimCollege], question),
			TopColleges: rank.ForQuestion(aggregates[stats.DimCollege], question, cfg.TopN),
			TopCourses:  rank.ForQuestion(aggregates[stats.DimCourse], question, cfg.TopN),
		}
		summary.Questions = append(summary.Questions, page)
	}

	summary.Demographics = buildDemographics(records)

	gpaByCollege := agg.GPAByDimension(records, stats.DimCollege)
	gpaMean, gpaStd := math.NaN(), math.NaN()
	if gpaValues := validValues(stats.GPASeries(records)); len(gpaValues) > 0 {
		gpaOverall := stats.Describe(gpaValues)
		gpaMean, gpaStd = gpaOverall.Mean, gpaOverall.Std
	}
	summary.Performance = report.Performance{
		GPAMean:           gpaMean,
		GPAStd:            gpaStd,
		ByCollege:         gpaByCollege,
		TopCourses:        rank.ForQuestion(aggregates[stats.DimCourse], stats.CombinedQuestion, cfg.TopN),
		GPAvsSatisfaction: stats.Pearson(stats.GPASeries(records), stats.CombinedSeries(records)),
		SizeVsScore:       sizeVsScore(records),
	}

	names := make([]string, surveyCount)
	for q := 0; q < surveyCount; q++ {
		names[q] = stats.QuestionName(q)
	}
	summary.Evaluation = report.Evaluation{
		QuestionNames: names,
		InterItem:     stats.InterItemMatrix(records, surveyCount),
		ItemTotal:     stats.ItemTotal(records, surveyCount),
		SplitHalf:     stats.SplitHalf(records, surveyCount),
	}

	courseNames := make([]string, 0, len(records))
	for _, rec := range records {
		if rec.CourseName != "" {
			courseNames = append(courseNames, rec.CourseName)
		}
	}
	summary.Keywords = rank.Keywords(courseNames, cfg.StopWords, cfg.TopN)

	summary.Findings = buildFindings(summary)
	return summary
}

func buildDemographics(records []dataset.EvaluationRecord) report.Demographics {
	type collegeTally struct {
		sections  map[string]bool
		courses   map[string]bool
		responses int
	}
	colleges := make(map[string]*collegeTally)
	campuses := make(map[string]int)
	for _, rec := range records {
		if rec.College != "" {
			t := colleges[rec.College]
			if t == nil {
				t = &collegeTally{sections: make(map[string]bool), courses: make(map[string]bool)}
				colleges[rec.College] = t
			}
			t.sections[rec.GroupCode] = true
			t.courses[rec.CourseCode] = true
			t.responses++
		}
		if rec.Campus != "" {
			campuses[rec.Campus]++
		}
	}

	demo := report.Demographics{ClassSizes: stats.ClassSizes(records)}

	for _, name := range sortedKeys(colleges) {
		t := colleges[name]
		demo.Colleges = append(demo.Colleges, report.CollegeProfile{
			College:   name,
			Sections:  len(t.sections),
			Courses:   len(t.courses),
			Responses: t.responses,
		})
	}
	for _, name := range sortedKeys(campuses) {
		demo.Campuses = append(demo.Campuses, report.CampusProfile{Campus: name, Responses: campuses[name]})
	}

	buckets := make(map[string]int)
	for _, cs := range demo.ClassSizes {
		buckets[cs.Category]++
	}
	for _, category := range stats.SizeCategories {
		if n := buckets[category]; n > 0 {
			demo.SizeDistribution = append(demo.SizeDistribution, report.SizeBucket{Category: category, Sections: n})
		}
	}
	return demo
}

// sizeVsScore pairs each section's respondent count with its mean combined
// score.
func sizeVsScore(records []dataset.EvaluationRecord) stats.Correlation {
	counts := make(map[string]int)
	sums := make(map[string]float64)
	valid := make(map[string]int)
	for _, rec := range records {
		code := stats.DimGroup.KeyOf(rec)
		if code == "" {
			continue
		}
		counts[code]++
		if c := rec.Combined(); !math.IsNaN(c) {
			sums[code] += c
			valid[code]++
		}
	}

	var sizes, scores []float64
	for _, code := range sortedKeys(counts) {
		if valid[code] == 0 {
			continue
		}
		sizes = append(sizes, float64(counts[code]))
		scores = append(scores, sums[code]/float64(valid[code]))
	}
	return stats.Pearson(sizes, scores)
}

func buildFindings(s *report.Summary) []string {
	var findings []string

	best, worst := bestWorstQuestion(s.Overall)
	if best != nil && worst != nil && best.Question != worst.Question {
		findings = append(findings,
			fmt.Sprintf("%s scored highest on average (%.2f); %s scored lowest (%.2f).",
				best.Question, best.Mean, worst.Question, worst.Mean))
	}
	if len(s.Questions) > 0 && len(s.Questions[0].TopColleges) > 0 {
		findings = append(findings,
			fmt.Sprintf("%s leads %s with a mean of %.2f.",
				s.Questions[0].TopColleges[0].Name, s.Questions[0].Question,
				s.Questions[0].TopColleges[0].Score))
	}
	findings = append(findings,
		fmt.Sprintf("%.1f%% of all answers fall in the high band (4.5 and above), %.1f%% in the low band (below 3).",
			s.Bands.HighPct, s.Bands.LowPct))
	if s.Evaluation.SplitHalf.Defined {
		findings = append(findings,
			fmt.Sprintf("Split-half reliability of the survey is %.3f over %d responses.",
				s.Evaluation.SplitHalf.Coefficient, s.Evaluation.SplitHalf.N))
	}
	if s.Performance.SizeVsScore.Defined {
		direction := "larger"
		if s.Performance.SizeVsScore.Coefficient < 0 {
			direction = "smaller"
		}
		findings = append(findings,
			fmt.Sprintf("Section size correlates with mean score at r=%.3f: %s sections rate somewhat higher.",
				s.Performance.SizeVsScore.Coefficient, direction))
	}
	if s.DroppedRows > 0 {
		findings = append(findings,
			fmt.Sprintf("%d rows carried invalid survey scores and were excluded from the affected questions.",
				s.DroppedRows))
	}
	return findings
}

func bestWorstQuestion(overall []stats.QuestionStat) (best, worst *stats.QuestionStat) {
	for i := range overall {
		qs := &overall[i]
		if qs.Question == stats.CombinedQuestion || qs.N == 0 {
			continue
		}
		if best == nil || qs.Mean > best.Mean {
			best = qs
		}
		if worst == nil || qs.Mean < worst.Mean {
			worst = qs
		}
	}
	return best, worst
}

func filterQuestion(groups []stats.GroupStatistic, question string) []stats.GroupStatistic {
	var out []stats.GroupStatistic
	for _, g := range groups {
		if g.Question == question {
			out = append(out, g)
		}
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func validValues(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, v := range xs {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// publish moves every staged file into the output directory.
func publish(staging, out string) error {
	if err := os.MkdirAll(out, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	entries, err := os.ReadDir(staging)
	if err != nil {
		return fmt.Errorf("read staging dir: %w", err)
	}
	for _, entry := range entries {
		src := filepath.Join(staging, entry.Name())
		dst := filepath.Join(out, entry.Name())
		if err := os.Rename(src, dst); err != nil {
			return fmt.Errorf("publish %s: %w", entry.Name(), err)
		}
	}
	return nil
}
