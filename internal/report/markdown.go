package report

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// statusBadges maps statuses to the markers used in the markdown summary.
var statusBadges = map[Status]string{
	StatusPassed:  "✅",
	StatusFlaky:   "⚠️",
	StatusFailed:  "❌",
	StatusSkipped: "⏭️",
}

// RenderMarkdown produces the human-readable run summary.
func RenderMarkdown(summary Summary, results []ScenarioResult) string {
	var b strings.Builder

	b.WriteString("# Melosys e2e test summary\n\n")
	fmt.Fprintf(&b, "Run `%s` started %s, finished in %s.\n\n",
		summary.RunID,
		summary.Started.Format(time.RFC3339),
		formatDuration(summary.TotalDuration))

	if summary.Total == 0 {
		b.WriteString("No scenarios executed.\n")
		return b.String()
	}

	b.WriteString("| | Count |\n|---|---|\n")
	fmt.Fprintf(&b, "| Total | %d |\n", summary.Total)
	fmt.Fprintf(&b, "| Passed | %d |\n", summary.Passed)
	fmt.Fprintf(&b, "| Flaky | %d |\n", summary.Flaky)
	fmt.Fprintf(&b, "| Failed | %d |\n", summary.Failed)
	fmt.Fprintf(&b, "| Skipped | %d |\n", summary.Skipped)
	fmt.Fprintf(&b, "| Pass rate | %.1f%% |\n\n", summary.PassRate)

	if summary.SlowestScenario != "" {
		fmt.Fprintf(&b, "Slowest scenario: `%s` (%s).\n\n",
			summary.SlowestScenario, formatDuration(summary.SlowestDuration))
	}

	b.WriteString("## Scenarios\n\n")
	b.WriteString("| Scenario | Status | Attempts | Duration | API calls |\n")
	b.WriteString("|---|---|---|---|---|\n")

	ordered := make([]ScenarioResult, len(results))
	copy(ordered, results)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Name < ordered[j].Name
	})

	for _, result := range ordered {
		apiInfo := fmt.Sprintf("%d", result.APICalls)
		if result.APIFailures > 0 {
			apiInfo = fmt.Sprintf("%d (%d failed)", result.APICalls, result.APIFailures)
		}

		fmt.Fprintf(&b, "| %s | %s %s | %d | %s | %s |\n",
			result.Name,
			statusBadges[result.Status],
			result.Status,
			result.Attempts,
			formatDuration(result.Duration),
			apiInfo)
	}

	failed := make([]ScenarioResult, 0)
	flaky := make([]ScenarioResult, 0)

	for _, result := range ordered {
		switch result.Status {
		case StatusFailed:
			failed = append(failed, result)
		case StatusFlaky:
			flaky = append(flaky, result)
		}
	}

	if len(failed) > 0 {
		b.WriteString("\n## Failures\n")

		for _, result := range failed {
			fmt.Fprintf(&b, "\n### %s\n\n", result.Name)

			if result.FailedStep != "" {
				fmt.Fprintf(&b, "Failed at step: `%s`\n\n", result.FailedStep)
			}

			if result.ErrorMessage != "" {
				fmt.Fprintf(&b, "```\n%s\n```\n", result.ErrorMessage)
			}

			if result.TracePath != "" {
				fmt.Fprintf(&b, "\nAPI trace: `%s`\n", result.TracePath)
			}

			if result.FailureTracePath != "" {
				fmt.Fprintf(&b, "\nAPI calls around the failure: `%s`\n", result.FailureTracePath)
			}
		}
	}

	if len(flaky) > 0 {
		b.WriteString("\n## Flaky scenarios\n\n")

		for _, result := range flaky {
			fmt.Fprintf(&b, "- `%s` passed on attempt %d\n", result.Name, result.Attempts)
		}
	}

	return b.String()
}

// WriteMarkdown renders the summary and writes it to path.
func WriteMarkdown(path string, summary Summary, results []ScenarioResult) error {
	content := RenderMarkdown(summary, results)

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil { //nolint:gosec // G306: report artifact
		return fmt.Errorf("writing markdown report: %w", err)
	}

	return nil
}

// formatDuration formats duration in human-readable format
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}
