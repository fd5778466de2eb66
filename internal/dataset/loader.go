// Package dataset loads course-evaluation responses from a flat CSV file into
// memory, validating the schema and coercing survey answers to numeric scores.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
)

// Required survey items. Survey8 is read when the dataset carries it.
const (
	MinSurveyCount = 7
	MaxSurveyCount = 8
)

var requiredColumns = []string{
	"Year", "Semester", "Campus", "College", "CourseNumber", "CourseCode",
	"CourseName", "ProfessorName", "ProfessorID", "GroupCode",
	"Survey1", "Survey2", "Survey3", "Survey4", "Survey5", "Survey6", "Survey7",
}

// MissingColumnError reports a required column absent from the CSV header.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing required column: %s", e.Column)
}

// LoadResult is the outcome of parsing one dataset.
type LoadResult struct {
	Records       []EvaluationRecord
	Dropped       int // rows with at least one unparsable or out-of-scale score
	SurveyCount   int
	HasDepartment bool
}

// Loader parses evaluation CSV files. Scores outside [ScaleMin, ScaleMax] are
// treated the same as unparsable text: the cell becomes missing and the row is
// counted in the dropped tally.
type Loader struct {
	logger   *slog.Logger
	scaleMin float64
	scaleMax float64
}

// NewLoader creates a loader for the given survey scale bounds.
func NewLoader(scaleMin, scaleMax float64, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, scaleMin: scaleMin, scaleMax: scaleMax}
}

// Load opens and parses the CSV file at path.
func (l *Loader) Load(path string) (*LoadResult, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()
	return l.Parse(file)
}

// Parse reads the full dataset from r. The first row must be a header naming
// every required column; rows with the wrong field count are counted as dropped.
func (l *Loader) Parse(r io.Reader) (*LoadResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\uFEFF"))
		cols[name] = i
	}

	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, &MissingColumnError{Column: name}
		}
	}

	surveyCount := MinSurveyCount
	if _, ok := cols["Survey8"]; ok {
		surveyCount = MaxSurveyCount
	}
	_, hasDepartment := cols["Department"]
	if !hasDepartment {
		l.logger.Warn("optional column missing, department analytics skipped",
			"column", "Department")
	}

	result := &LoadResult{
		SurveyCount:   surveyCount,
		HasDepartment: hasDepartment,
	}

	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", line+1, err)
		}
		line++

		if len(row) < len(header) {
			result.Dropped++
			l.logger.Warn("row has too few fields, dropped",
				"line", line, "fields", len(row), "expected", len(header))
			continue
		}

		rec, invalid := l.parseRow(row, cols, surveyCount, hasDepartment)
		if invalid {
			result.Dropped++
			l.logger.Warn("row has invalid survey score", "line", line,
				"group_code", rec.GroupCode)
		}
		result.Records = append(result.Records, rec)
	}

	l.logger.Info("dataset loaded",
		"records", len(result.Records),
		"dropped", result.Dropped,
		"survey_items", surveyCount,
		"has_department", hasDepartment)

	return result, nil
}

// parseRow builds one record. invalid reports whether any survey cell held a
// non-numeric or out-of-scale value; such cells become NaN while the rest of
// the row stays usable.
func (l *Loader) parseRow(row []string, cols map[string]int, surveyCount int, hasDepartment bool) (EvaluationRecord, bool) {
	field := func(name string) string {
		return strings.TrimSpace(row[cols[name]])
	}

	rec := EvaluationRecord{
		Semester:      field("Semester"),
		Campus:        field("Campus"),
		College:       field("College"),
		CourseNumber:  field("CourseNumber"),
		CourseCode:    field("CourseCode"),
		CourseName:    field("CourseName"),
		ProfessorName: field("ProfessorName"),
		ProfessorID:   field("ProfessorID"),
		GroupCode:     field("GroupCode"),
		Scores:        make([]float64, surveyCount),
	}
	if year, err := strconv.Atoi(field("Year")); err == nil {
		rec.Year = year
	}
	if hasDepartment {
		rec.Department = field("Department")
	}

	invalid := false
	for q := 0; q < surveyCount; q++ {
		raw := field(fmt.Sprintf("Survey%d", q+1))
		if raw == "" {
			rec.Scores[q] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < l.scaleMin || v > l.scaleMax {
			rec.Scores[q] = math.NaN()
			invalid = true
			continue
		}
		rec.Scores[q] = v
	}
	return rec, invalid
}
