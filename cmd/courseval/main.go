// Command courseval generates static HTML analytics pages, charts, and an
// optional Excel workbook from a course-evaluation CSV dataset.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"courseval/internal/config"
	"courseval/internal/infrastructure"
	"courseval/internal/pipeline"
	"courseval/internal/stats"
)

// cliFlags holds the command-line flag values for one invocation.
type cliFlags struct {
	input      *string
	out        *string
	configFile *string
	excel      *bool
	charts     *bool
	logLevel   *string
}

func registerFlags(fs *flag.FlagSet) *cliFlags {
	return &cliFlags{
		input:      fs.String("input", "", "path to the evaluation CSV dataset"),
		out:        fs.String("out", "", "output directory for the report set"),
		configFile: fs.String("config", "", "optional YAML config file"),
		excel:      fs.Bool("xlsx", false, "also write the Excel workbook"),
		charts:     fs.Bool("charts", true, "render PNG charts"),
		logLevel:   fs.String("log-level", "", "log level (debug, info, warn, error)"),
	}
}

// apply overrides cfg with the flags the user actually passed, so a boolean
// can be forced in either direction regardless of the environment.
func (f *cliFlags) apply(cfg *config.Config, fs *flag.FlagSet) {
	fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "input":
			cfg.Input = *f.input
		case "out":
			cfg.OutputDir = *f.out
		case "xlsx":
			cfg.Excel = *f.excel
		case "charts":
			cfg.Charts = *f.charts
		case "log-level":
			cfg.Logging.Level = *f.logLevel
		}
	})
}

func main() {
	flags := registerFlags(flag.CommandLine)
	flag.Parse()

	// .env is optional; missing file is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load(*flags.configFile)
	if err != nil {
		color.Red("configuration error: %v", err)
		os.Exit(1)
	}
	flags.apply(cfg, flag.CommandLine)

	logger := infrastructure.NewLogger(cfg.Logging)

	color.Cyan("Course Evaluation Report Generator")
	result, err := pipeline.Run(context.Background(), cfg, logger)
	if err != nil {
		color.Red("run failed: %v", err)
		os.Exit(1)
	}

	printSummary(result)
	color.Green("Report written to %s", cfg.OutputDir)
}

func printSummary(result *pipeline.Result) {
	color.Yellow("\nRun Summary")
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.Append([]string{"Responses", fmt.Sprintf("%d", result.Records)})
	table.Append([]string{"Rows with invalid scores", fmt.Sprintf("%d", result.Dropped)})
	table.Append([]string{"Survey items", fmt.Sprintf("%d", result.SurveyCount)})
	dims := make([]string, 0, len(result.Groups))
	for dim := range result.Groups {
		dims = append(dims, string(dim))
	}
	sort.Strings(dims)
	for _, dim := range dims {
		table.Append([]string{fmt.Sprintf("%s groups", dim), fmt.Sprintf("%d", result.Groups[stats.Dimension(dim)])})
	}
	table.Append([]string{"Pages", fmt.Sprintf("%d", len(result.Pages))})
	table.Append([]string{"Charts", fmt.Sprintf("%d", result.Charts)})
	if result.Workbook != "" {
		table.Append([]string{"Workbook", result.Workbook})
	}
	table.Append([]string{"Duration", result.Duration.Round(time.Millisecond).String()})
	table.Render()
}
