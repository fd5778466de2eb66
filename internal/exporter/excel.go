// Package exporter writes aggregated statistics to an Excel workbook with
// one sheet per aggregation level plus a summary sheet.
package exporter

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/xuri/excelize/v2"

	"courseval/internal/stats"
)

// Workbook builds the spreadsheet export for one pipeline run.
type Workbook struct {
	logger *slog.Logger
}

func NewWorkbook(logger *slog.Logger) *Workbook {
	if logger == nil {
		logger = slog.Default()
	}
	return &Workbook{logger: logger}
}

var groupHeaders = []string{"Group", "Question", "Count", "Mean", "Std", "CV", "Median", "Q1", "Q3", "Min", "Max"}

// Write saves the workbook to path. Sheet order follows dims; aggregates
// missing a dimension are skipped.
func (w *Workbook) Write(path string, dims []stats.Dimension, aggregates map[stats.Dimension][]stats.GroupStatistic, overall []stats.QuestionStat) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", "Summary")
	w.writeSummary(f, overall)

	for _, dim := range dims {
		groups, ok := aggregates[dim]
		if !ok {
			continue
		}
		sheet := fmt.Sprintf("By_%s", dim)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("create sheet %s: %w", sheet, err)
		}
		w.writeGroups(f, sheet, groups)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	w.logger.Info("workbook written", "path", path, "sheets", len(dims)+1)
	return nil
}

func (w *Workbook) writeSummary(f *excelize.File, overall []stats.QuestionStat) {
	headers := []string{"Question", "Count", "Total", "Response Rate (%)", "Mean", "Std", "CV", "Median", "Q1", "Q3", "Skewness", "Kurtosis"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue("Summary", cell, header)
		f.SetColWidth("Summary", cell, cell, 16)
	}
	for i, qs := range overall {
		row := i + 2
		f.SetCellValue("Summary", fmt.Sprintf("A%d", row), qs.Question)
		f.SetCellValue("Summary", fmt.Sprintf("B%d", row), qs.N)
		f.SetCellValue("Summary", fmt.Sprintf("C%d", row), qs.Total)
		f.SetCellValue("Summary", fmt.Sprintf("D%d", row), round3(qs.ResponseRate))
		f.SetCellValue("Summary", fmt.Sprintf("E%d", row), round3(qs.Mean))
		f.SetCellValue("Summary", fmt.Sprintf("F%d", row), round3(qs.Std))
		f.SetCellValue("Summary", fmt.Sprintf("G%d", row), round3(qs.CV))
		f.SetCellValue("Summary", fmt.Sprintf("H%d", row), round3(qs.Median))
		f.SetCellValue("Summary", fmt.Sprintf("I%d", row), round3(qs.Q1))
		f.SetCellValue("Summary", fmt.Sprintf("J%d", row), round3(qs.Q3))
		f.SetCellValue("Summary", fmt.Sprintf("K%d", row), round3(qs.Skewness))
		f.SetCellValue("Summary", fmt.Sprintf("L%d", row), round3(qs.Kurtosis))
	}
}

func (w *Workbook) writeGroups(f *excelize.File, sheet string, groups []stats.GroupStatistic) {
	for i, header := range groupHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetColWidth(sheet, cell, cell, 16)
	}
	for i, g := range groups {
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), g.Key)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), g.Question)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), g.N)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), round3(g.Mean))
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), round3(g.Std))
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), round3(g.CV))
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), round3(g.Median))
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), round3(g.Q1))
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), round3(g.Q3))
		f.SetCellValue(sheet, fmt.Sprintf("J%d", row), round3(g.Min))
		f.SetCellValue(sheet, fmt.Sprintf("K%d", row), round3(g.Max))
	}
}

// round3 rounds to three decimals; NaN shape statistics become an empty
// string so the cell stays blank instead of holding a bogus number.
func round3(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return ""
	}
	return math.Round(v*1000) / 1000
}
