// Package report aggregates scenario results and renders them as console
// tables, markdown, and a machine-readable JSON document.
package report

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Status is the outcome of a scenario.
type Status string

const (
	// StatusPassed means the scenario passed on the first attempt.
	StatusPassed Status = "passed"
	// StatusFlaky means the scenario passed after at least one retry.
	StatusFlaky Status = "flaky"
	// StatusFailed means the scenario failed on every attempt.
	StatusFailed Status = "failed"
	// StatusSkipped means the scenario was not executed.
	StatusSkipped Status = "skipped"
)

// ScenarioResult captures one scenario's outcome.
type ScenarioResult struct {
	Name         string        `json:"name"`
	Description  string        `json:"description,omitempty"`
	Status       Status        `json:"status"`
	Attempts     int           `json:"attempts"`
	Duration     time.Duration `json:"duration_ns"`
	ErrorMessage string        `json:"error,omitempty"`
	FailedStep   string        `json:"failed_step,omitempty"`
	SkipReason   string        `json:"skip_reason,omitempty"`
	TracePath    string        `json:"trace_path,omitempty"`
	// FailureTracePath points at the API calls around the failure
	// instant, cut from the full trace.
	FailureTracePath string    `json:"failure_trace_path,omitempty"`
	APICalls         int       `json:"api_calls"`
	APIFailures      int       `json:"api_failures"`
	Timestamp        time.Time `json:"timestamp"`
}

// Summary provides aggregate statistics across a run.
type Summary struct {
	RunID           string        `json:"run_id"`
	Started         time.Time     `json:"started"`
	TotalDuration   time.Duration `json:"total_duration_ns"`
	Total           int           `json:"total"`
	Passed          int           `json:"passed"`
	Flaky           int           `json:"flaky"`
	Failed          int           `json:"failed"`
	Skipped         int           `json:"skipped"`
	PassRate        float64       `json:"pass_rate"` // percentage over executed scenarios
	SlowestScenario string        `json:"slowest_scenario,omitempty"`
	SlowestDuration time.Duration `json:"slowest_duration_ns,omitempty"`
}

// Collector accumulates scenario results.
type Collector interface {
	Start(ctx context.Context) error
	Stop() error
	Record(result *ScenarioResult)
	RunID() string
	GetResults() []ScenarioResult
	GetSummary() Summary
}

type collector struct {
	log logrus.FieldLogger

	mu        sync.RWMutex
	runID     string
	startTime time.Time
	results   []ScenarioResult
}

// NewCollector creates a new result collector.
func NewCollector(log logrus.FieldLogger) Collector {
	return &collector{
		log:     log.WithField("component", "report_collector"),
		runID:   uuid.NewString(),
		results: make([]ScenarioResult, 0, 32),
	}
}

func (c *collector) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startTime = time.Now()

	c.log.WithField("run_id", c.runID).Debug("report collector started")

	return nil
}

func (c *collector) Stop() error {
	c.log.Debug("report collector stopped")

	return nil
}

func (c *collector) Record(result *ScenarioResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.results = append(c.results, *result)
}

func (c *collector) RunID() string {
	return c.runID
}

func (c *collector) GetResults() []ScenarioResult {
	c.mu.RLock()
	defer c.mu.RUnlock()

	// Return copy to avoid race conditions
	result := make([]ScenarioResult, len(c.results))
	copy(result, c.results)

	return result
}

func (c *collector) GetSummary() Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()

	summary := Summary{
		RunID:         c.runID,
		Started:       c.startTime,
		TotalDuration: time.Since(c.startTime),
		Total:         len(c.results),
	}

	for _, result := range c.results {
		switch result.Status {
		case StatusPassed:
			summary.Passed++
		case StatusFlaky:
			summary.Flaky++
		case StatusFailed:
			summary.Failed++
		case StatusSkipped:
			summary.Skipped++
		}

		if result.Status != StatusSkipped && result.Duration > summary.SlowestDuration {
			summary.SlowestDuration = result.Duration
			summary.SlowestScenario = result.Name
		}
	}

	if executed := summary.Total - summary.Skipped; executed > 0 {
		summary.PassRate = float64(summary.Passed+summary.Flaky) / float64(executed) * 100.0
	}

	return summary
}

// Compile-time interface compliance check
var _ Collector = (*collector)(nil)
