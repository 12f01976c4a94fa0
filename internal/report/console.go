package report

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// ConsoleFormatter renders run results as terminal tables.
type ConsoleFormatter struct {
	writer io.Writer

	green  *color.Color
	red    *color.Color
	yellow *color.Color
	gray   *color.Color
}

// NewConsoleFormatter creates a console formatter writing to w.
func NewConsoleFormatter(w io.Writer) *ConsoleFormatter {
	return &ConsoleFormatter{
		writer: w,
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		gray:   color.New(color.FgHiBlack),
	}
}

// PrintResults prints one row per scenario.
func (f *ConsoleFormatter) PrintResults(results []ScenarioResult) {
	if len(results) == 0 {
		fmt.Fprintln(f.writer, "No scenarios executed")
		return
	}

	table := tablewriter.NewWriter(f.writer)
	table.SetHeader([]string{"Scenario", "Status", "Attempts", "Duration", "Details"})
	f.styleTable(table)

	for _, result := range results {
		details := ""

		switch result.Status {
		case StatusFailed:
			msg := result.ErrorMessage
			if len(msg) > 60 {
				msg = msg[:57] + "..."
			}
			details = f.gray.Sprint(msg)
		case StatusFlaky:
			details = f.yellow.Sprintf("passed on attempt %d", result.Attempts)
		case StatusSkipped:
			details = f.gray.Sprint(result.SkipReason)
		}

		table.Append([]string{
			result.Name,
			f.formatStatus(result.Status),
			fmt.Sprintf("%d", result.Attempts),
			formatDuration(result.Duration),
			details,
		})
	}

	table.Render()
}

// PrintSummary prints the aggregate statistics table.
func (f *ConsoleFormatter) PrintSummary(summary Summary) {
	table := tablewriter.NewWriter(f.writer)
	table.SetHeader([]string{"Metric", "Value"})
	f.styleTable(table)

	passedValue := fmt.Sprintf("%d", summary.Passed)
	if summary.Passed > 0 && summary.Failed == 0 {
		passedValue = f.green.Sprint(passedValue)
	}

	failedValue := fmt.Sprintf("%d", summary.Failed)
	if summary.Failed > 0 {
		failedValue = f.red.Sprint(failedValue)
	} else {
		failedValue = f.green.Sprint(failedValue)
	}

	flakyValue := fmt.Sprintf("%d", summary.Flaky)
	if summary.Flaky > 0 {
		flakyValue = f.yellow.Sprint(flakyValue)
	}

	table.Append([]string{"Total scenarios", fmt.Sprintf("%d", summary.Total)})
	table.Append([]string{"Passed", passedValue})
	table.Append([]string{"Flaky", flakyValue})
	table.Append([]string{"Failed", failedValue})
	table.Append([]string{"Skipped", fmt.Sprintf("%d", summary.Skipped)})
	table.Append([]string{"Pass rate", fmt.Sprintf("%.1f%%", summary.PassRate)})
	table.Append([]string{"Duration", formatDuration(summary.TotalDuration)})

	if summary.SlowestScenario != "" {
		table.Append([]string{"Slowest", fmt.Sprintf("%s (%s)", summary.SlowestScenario, formatDuration(summary.SlowestDuration))})
	}

	table.Render()
}

func (f *ConsoleFormatter) formatStatus(status Status) string {
	switch status {
	case StatusPassed:
		return f.green.Sprint("PASS")
	case StatusFlaky:
		return f.yellow.Sprint("FLAKY")
	case StatusFailed:
		return f.red.Sprint("FAIL")
	case StatusSkipped:
		return f.gray.Sprint("SKIP")
	default:
		return string(status)
	}
}

func (f *ConsoleFormatter) styleTable(table *tablewriter.Table) {
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("│")
	table.SetRowSeparator("─")
	table.SetHeaderLine(true)
	table.SetBorder(true)
	table.SetTablePadding(" ")
}
