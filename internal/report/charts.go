package report

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"courseval/internal/rank"
	"courseval/internal/stats"
)

var barColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}

// RenderQuestionChart draws a bar chart of the top-ranked colleges for one
// survey question and saves it as a PNG next to the pages. Returns the chart
// file name.
func RenderQuestionChart(dir string, q *QuestionPage, scaleMax float64) (string, error) {
	if len(q.TopColleges) == 0 {
		return "", nil
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: Top Colleges by Mean Score", q.Question)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "College"
	p.Y.Label.Text = "Mean score"

	values := make(plotter.Values, len(q.TopColleges))
	labels := make([]string, len(q.TopColleges))
	for i, e := range q.TopColleges {
		values[i] = e.Score
		labels[i] = e.Name
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return "", fmt.Errorf("bar chart %s: %w", q.Question, err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XCenter
	p.Y.Min = 0
	p.Y.Max = scaleMax * 1.05

	name := fmt.Sprintf("%s_top_colleges.png", q.Page[:len(q.Page)-len(".html")])
	if err := p.Save(10*vg.Inch, 6*vg.Inch, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("save chart %s: %w", name, err)
	}
	return name, nil
}

// RenderMeansChart draws the overall mean per survey question.
func RenderMeansChart(dir string, overall []stats.QuestionStat, scaleMax float64) (string, error) {
	p := plot.New()
	p.Title.Text = "Mean Score per Survey Question"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Question"
	p.Y.Label.Text = "Mean score"

	values := make(plotter.Values, len(overall))
	labels := make([]string, len(overall))
	for i, qs := range overall {
		values[i] = qs.Mean
		labels[i] = qs.Question
	}

	bars, err := plotter.NewBarChart(values, vg.Points(24))
	if err != nil {
		return "", fmt.Errorf("means chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.Add(plotter.NewGrid())

	p.NominalX(labels...)
	p.Y.Min = 0
	p.Y.Max = scaleMax * 1.05

	const name = "question_means.png"
	if err := p.Save(10*vg.Inch, 6*vg.Inch, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("save chart %s: %w", name, err)
	}
	return name, nil
}

// RenderKeywordChart draws course-name keyword frequencies.
func RenderKeywordChart(dir string, keywords []rank.Keyword) (string, error) {
	if len(keywords) == 0 {
		return "", nil
	}

	p := plot.New()
	p.Title.Text = "Most Frequent Course Name Keywords"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.Y.Label.Text = "Courses"

	values := make(plotter.Values, len(keywords))
	labels := make([]string, len(keywords))
	for i, kw := range keywords {
		values[i] = float64(kw.Count)
		labels[i] = kw.Token
	}

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return "", fmt.Errorf("keyword chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 3
	p.X.Tick.Label.YAlign = draw.YCenter
	p.X.Tick.Label.XAlign = draw.XCenter
	p.Y.Min = 0

	const name = "course_keywords.png"
	if err := p.Save(10*vg.Inch, 6*vg.Inch, filepath.Join(dir, name)); err != nil {
		return "", fmt.Errorf("save chart %s: %w", name, err)
	}
	return name, nil
}
