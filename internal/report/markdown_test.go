package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSummary() Summary {
	return Summary{
		RunID:           "1b4e28ba-2fa1-11ec-8d3d-0242ac130003",
		Started:         time.Date(2026, 3, 12, 9, 30, 0, 0, time.UTC),
		TotalDuration:   5 * time.Minute,
		Total:           3,
		Passed:          1,
		Flaky:           1,
		Failed:          1,
		PassRate:        66.7,
		SlowestScenario: "fatte-vedtak",
		SlowestDuration: 90 * time.Second,
	}
}

func testResults() []ScenarioResult {
	return []ScenarioResult{
		{
			Name:     "journalfoer-dokument",
			Status:   StatusPassed,
			Attempts: 1,
			Duration: 40 * time.Second,
			APICalls: 25,
		},
		{
			Name:             "avslaa-soknad",
			Status:           StatusFailed,
			Attempts:         3,
			Duration:         60 * time.Second,
			ErrorMessage:     `finding "button[data-testid=\"fatt-vedtak\"]": context deadline exceeded`,
			FailedStep:       "fatt vedtak",
			TracePath:        "test-results/traces/avslaa-soknad.jsonl",
			FailureTracePath: "test-results/traces/avslaa-soknad-failure.jsonl",
			APICalls:         31,
			APIFailures:      2,
		},
		{
			Name:     "fatte-vedtak",
			Status:   StatusFlaky,
			Attempts: 2,
			Duration: 90 * time.Second,
			APICalls: 48,
		},
	}
}

func TestRenderMarkdown(t *testing.T) {
	out := RenderMarkdown(testSummary(), testResults())

	assert.Contains(t, out, "# Melosys e2e test summary")
	assert.Contains(t, out, "| Pass rate | 66.7% |")
	assert.Contains(t, out, "Slowest scenario: `fatte-vedtak`")

	// Scenario rows are sorted by name.
	avslaa := strings.Index(out, "| avslaa-soknad |")
	fatte := strings.Index(out, "| fatte-vedtak |")
	journalfoer := strings.Index(out, "| journalfoer-dokument |")
	require.Positive(t, avslaa)
	assert.Less(t, avslaa, fatte)
	assert.Less(t, fatte, journalfoer)

	// Failure detail section.
	assert.Contains(t, out, "## Failures")
	assert.Contains(t, out, "### avslaa-soknad")
	assert.Contains(t, out, "Failed at step: `fatt vedtak`")
	assert.Contains(t, out, "context deadline exceeded")
	assert.Contains(t, out, "test-results/traces/avslaa-soknad.jsonl")
	assert.Contains(t, out, "API calls around the failure: `test-results/traces/avslaa-soknad-failure.jsonl`")

	// Flaky section.
	assert.Contains(t, out, "## Flaky scenarios")
	assert.Contains(t, out, "`fatte-vedtak` passed on attempt 2")

	// API failure counts make it into the table.
	assert.Contains(t, out, "31 (2 failed)")
}

func TestRenderMarkdownEmptyRun(t *testing.T) {
	out := RenderMarkdown(Summary{RunID: "x", Started: time.Now()}, nil)

	assert.Contains(t, out, "No scenarios executed.")
	assert.NotContains(t, out, "## Failures")
}

func TestWriteMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "SUMMARY.md")

	require.NoError(t, WriteMarkdown(path, testSummary(), testResults()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# Melosys e2e test summary")
}

func TestJSONRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, WriteJSON(path, 1, testSummary(), testResults()))

	doc, err := LoadJSON(path)
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Version)
	assert.Equal(t, 3, doc.Summary.Total)
	require.Len(t, doc.Results, 3)
	assert.Equal(t, StatusFailed, doc.Results[1].Status)
	assert.Equal(t, 2, doc.Results[1].APIFailures)
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{name: "millis", d: 250 * time.Millisecond, want: "250ms"},
		{name: "seconds", d: 2500 * time.Millisecond, want: "2.5s"},
		{name: "minutes", d: 90 * time.Second, want: "1.5m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.d))
		})
	}
}
