package backtest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/martingale-lab/internal/models"
)

// Supported export formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatHTML = "html"
)

// Table is a rendered report section shared by every export format
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
	Data    interface{}
}

// GenerateConsoleReport formats team summaries for terminal output
func GenerateConsoleReport(policy models.Policy, params models.StakeParams, summaries []models.TeamSummary) string {
	var builder strings.Builder
	builder.WriteString("Season Report\n")
	builder.WriteString("=============\n")
	builder.WriteString(fmt.Sprintf("Policy: %s\n", policy))
	builder.WriteString(fmt.Sprintf("Base Bet: %g  Start Balance: %g  Refill: %g\n", params.BaseBet, params.StartBalance, params.Refill))
	builder.WriteString(fmt.Sprintf("Team-seasons: %d\n\n", len(summaries)))
	builder.WriteString(fmt.Sprintf("%-8s %5s %12s\n", "Name", "Wins", "Earnings"))

	positive := 0
	for _, summary := range summaries {
		if summary.Earnings > 0 {
			positive++
		}
		builder.WriteString(fmt.Sprintf("%-8s %5d %12.2f\n", summary.Name, summary.Wins, summary.Earnings))
	}

	if len(summaries) > 0 {
		builder.WriteString(fmt.Sprintf("\nPositive: %d/%d (%.2f%%)\n", positive, len(summaries), float64(100*positive)/float64(len(summaries))))
	}
	return builder.String()
}

// GenerateSweepConsoleReport formats season sweep rows for terminal output
func GenerateSweepConsoleReport(result *SeasonSweepResult) string {
	var builder strings.Builder
	builder.WriteString("Grid Search Report\n")
	builder.WriteString("==================\n")
	builder.WriteString(fmt.Sprintf("Run: %s\n", result.Run.ID))
	builder.WriteString(fmt.Sprintf("Combinations: %d  Failures: %d\n\n", result.Run.Combinations, len(result.Failures)))
	builder.WriteString(fmt.Sprintf("%8s %13s %7s %9s %9s %8s %9s\n",
		"base_bet", "start_balance", "refill", "earn_avg", "earn_sd", "pct_pos", "test_stat"))
	for _, row := range result.Rows {
		builder.WriteString(fmt.Sprintf("%8g %13g %7g %9.2f %9.2f %8.2f %9.2f\n",
			row.BaseBet, row.StartBalance, row.Refill, row.EarnAvg, row.EarnSD, row.PctPos, row.TestStat))
	}
	if best, ok := result.Best(); ok {
		builder.WriteString(fmt.Sprintf("\nBest: base_bet=%g start_balance=%g refill=%g test_stat=%.2f\n",
			best.BaseBet, best.StartBalance, best.Refill, best.TestStat))
	}
	for _, failure := range result.Failures {
		builder.WriteString(fmt.Sprintf("Failed: %s\n", failure.Error()))
	}
	for _, failure := range result.SeasonFailures {
		builder.WriteString(fmt.Sprintf("Skipped: %s\n", failure.Error()))
	}
	return builder.String()
}

// SeasonTable renders every game of one season
func SeasonTable(result *models.SeasonResult) Table {
	table := Table{
		Title:   "Season " + result.ID,
		Columns: []string{"game", "result", "line", "bet", "payout", "balance", "earnings", "refilled"},
		Data:    result,
	}
	for _, row := range result.Rows {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(row.Order),
			string(row.Result),
			strconv.Itoa(row.Line),
			formatFloat(row.Bet),
			formatFloat(row.Payout),
			formatFloat(row.Balance),
			formatFloat(row.Earnings),
			strconv.FormatBool(row.Refilled),
		})
	}
	return table
}

// SummaryTable renders team summaries
func SummaryTable(summaries []models.TeamSummary) Table {
	table := Table{
		Title:   "Team summaries",
		Columns: []string{"name", "league", "wins", "earnings"},
		Data:    ScatterPoints(summaries),
	}
	for _, point := range ScatterPoints(summaries) {
		table.Rows = append(table.Rows, []string{
			point.Name, string(point.League), strconv.Itoa(point.Wins), formatFloat(point.Earnings),
		})
	}
	return table
}

// GridSearchTable renders per-team sweep rows
func GridSearchTable(rows []models.GridSearchRow) Table {
	table := Table{
		Title: "Grid search by team",
		Columns: []string{models.ColumnName, models.ColumnWins, models.ColumnBaseBet,
			models.ColumnStartBalance, models.ColumnRefill, models.ColumnEarnings},
		Data: rows,
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.Name, strconv.Itoa(row.Wins), formatFloat(row.BaseBet),
			formatFloat(row.StartBalance), formatFloat(row.Refill), formatFloat(row.Earnings),
		})
	}
	return table
}

// GridStatsTable renders per-season sweep rows
func GridStatsTable(rows []models.GridStatsRow) Table {
	table := Table{
		Title: "Grid search by season",
		Columns: []string{models.ColumnBaseBet, models.ColumnStartBalance, models.ColumnRefill,
			models.ColumnEarnAvg, models.ColumnEarnSD, models.ColumnPctPos, models.ColumnTestStat},
		Data: rows,
	}
	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			formatFloat(row.BaseBet), formatFloat(row.StartBalance), formatFloat(row.Refill),
			formatFloat(row.EarnAvg), formatFloat(row.EarnSD), formatFloat(row.PctPos), formatFloat(row.TestStat),
		})
	}
	return table
}

// BoxPlotTable renders box plot statistics
func BoxPlotTable(x, y string, stats []BoxStats) Table {
	table := Table{
		Title:   fmt.Sprintf("%s by %s", y, x),
		Columns: []string{x, "count", "min", "whisker_low", "q1", "median", "q3", "whisker_high", "max", "outliers"},
		Data:    stats,
	}
	for _, box := range stats {
		outliers := make([]string, 0, len(box.Outliers))
		for _, v := range box.Outliers {
			outliers = append(outliers, formatFloat(v))
		}
		table.Rows = append(table.Rows, []string{
			formatFloat(box.Level), strconv.Itoa(box.Count), formatFloat(box.Min), formatFloat(box.WhiskerLow),
			formatFloat(box.Q1), formatFloat(box.Median), formatFloat(box.Q3), formatFloat(box.WhiskerHigh),
			formatFloat(box.Max), strings.Join(outliers, " "),
		})
	}
	return table
}

// Exporter writes report tables to an output directory in the configured formats
type Exporter struct {
	dir     string
	formats []string
	logger  *logrus.Logger
}

// NewExporter creates an exporter. An empty format list defaults to CSV.
func NewExporter(dir string, formats []string, logger *logrus.Logger) *Exporter {
	if logger == nil {
		logger = logrus.New()
	}
	if len(formats) == 0 {
		formats = []string{FormatCSV}
	}
	return &Exporter{dir: dir, formats: formats, logger: logger}
}

// Export writes table as <name>.<format> for each format and returns the paths written
func (e *Exporter) Export(name string, table Table) ([]string, error) {
	if err := os.MkdirAll(e.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	paths := make([]string, 0, len(e.formats))
	for _, format := range e.formats {
		path := filepath.Join(e.dir, name+"."+format)
		var err error
		switch format {
		case FormatCSV:
			err = GenerateCSVExport(table, path)
		case FormatJSON:
			err = GenerateJSONExport(table, path)
		case FormatHTML:
			err = GenerateHTMLReport(table, path)
		default:
			err = fmt.Errorf("unsupported export format: %s", format)
		}
		if err != nil {
			return paths, fmt.Errorf("failed to export %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	e.logger.WithFields(logrus.Fields{
		"report": name,
		"rows":   len(table.Rows),
		"files":  len(paths),
	}).Info("Report exported")
	return paths, nil
}

// GenerateCSVExport writes a table as CSV
func GenerateCSVExport(table Table, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(table.Columns); err != nil {
		return err
	}
	if err := w.WriteAll(table.Rows); err != nil {
		return err
	}
	return f.Close()
}

// GenerateJSONExport writes the typed data behind a table as indented JSON
func GenerateJSONExport(table Table, outputPath string) error {
	data, err := json.MarshalIndent(table.Data, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

var htmlReport = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<table border="1">
<tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range .Rows}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</table>
</body>
</html>
`))

// GenerateHTMLReport creates a simple HTML report
func GenerateHTMLReport(table Table, outputPath string) error {
	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := htmlReport.Execute(f, table); err != nil {
		return err
	}
	return f.Close()
}
