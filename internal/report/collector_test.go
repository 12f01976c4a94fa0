package report

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() logrus.FieldLogger {
	log := logrus.New()
	log.SetLevel(logrus.DebugLevel)
	log.SetOutput(os.Stderr)

	return log
}

func result(name string, status Status, attempts int, duration time.Duration) *ScenarioResult {
	return &ScenarioResult{
		Name:      name,
		Status:    status,
		Attempts:  attempts,
		Duration:  duration,
		Timestamp: time.Now(),
	}
}

func TestCollectorSummary(t *testing.T) {
	collector := NewCollector(newTestLogger())
	require.NoError(t, collector.Start(context.Background()))

	collector.Record(result("journalfoer-dokument", StatusPassed, 1, 40*time.Second))
	collector.Record(result("fatte-vedtak", StatusFlaky, 2, 90*time.Second))
	collector.Record(result("avslaa-soknad", StatusFailed, 3, 60*time.Second))
	collector.Record(result("trygdeavtale-usa", StatusSkipped, 0, 0))

	summary := collector.GetSummary()

	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.Passed)
	assert.Equal(t, 1, summary.Flaky)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Skipped)
	assert.InDelta(t, 66.7, summary.PassRate, 0.1, "pass rate over executed scenarios, flaky counts as pass")
	assert.Equal(t, "fatte-vedtak", summary.SlowestScenario)
	assert.NotEmpty(t, summary.RunID)
}

func TestCollectorEmptySummary(t *testing.T) {
	collector := NewCollector(newTestLogger())
	require.NoError(t, collector.Start(context.Background()))

	summary := collector.GetSummary()

	assert.Equal(t, 0, summary.Total)
	assert.Equal(t, 0.0, summary.PassRate)
}

func TestCollectorResultsAreCopied(t *testing.T) {
	collector := NewCollector(newTestLogger())
	require.NoError(t, collector.Start(context.Background()))

	collector.Record(result("a", StatusPassed, 1, time.Second))

	first := collector.GetResults()
	first[0].Name = "mutated"

	second := collector.GetResults()
	assert.Equal(t, "a", second[0].Name)
}

func TestSkippedNeverSlowest(t *testing.T) {
	collector := NewCollector(newTestLogger())
	require.NoError(t, collector.Start(context.Background()))

	skipped := result("skipped-one", StatusSkipped, 0, time.Hour)
	collector.Record(skipped)
	collector.Record(result("real-one", StatusPassed, 1, time.Second))

	summary := collector.GetSummary()
	assert.Equal(t, "real-one", summary.SlowestScenario)
}
