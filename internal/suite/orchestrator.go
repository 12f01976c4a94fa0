package suite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-rod/rod"
	"github.com/sirupsen/logrus"

	"github.com/navikt/melosys-e2e/internal/browser"
	"github.com/navikt/melosys-e2e/internal/config"
	"github.com/navikt/melosys-e2e/internal/database"
	"github.com/navikt/melosys-e2e/internal/metrics"
	"github.com/navikt/melosys-e2e/internal/mock"
	"github.com/navikt/melosys-e2e/internal/pages"
	"github.com/navikt/melosys-e2e/internal/report"
	"github.com/navikt/melosys-e2e/internal/trace"
)

// dedupWindow collapses identical request bursts in saved traces.
const dedupWindow = 250 * time.Millisecond

// failureWindowRadius bounds the focused trace saved around the moment a
// scenario failed, on both sides.
const failureWindowRadius = 5 * time.Second

// TraceRecorder is the recorder surface the orchestrator needs.
type TraceRecorder interface {
	Attach(ctx context.Context, page *rod.Page, scenario string)
	Detach()
	Entries() []trace.Entry
}

// OrchestratorConfig contains the components the orchestrator wires together.
type OrchestratorConfig struct {
	Logger    logrus.FieldLogger
	Config    *config.Config
	Session   browser.Session
	DB        database.Client
	Mock      mock.Client
	Scraper   metrics.Scraper
	Recorder  TraceRecorder
	Collector report.Collector
	Registry  *Registry
}

// Orchestrator runs scenarios sequentially against one browser session,
// with per-scenario fixture reset, trace recording and retries.
type Orchestrator struct {
	cfg       *config.Config
	session   browser.Session
	db        database.Client
	mock      mock.Client
	scraper   metrics.Scraper
	recorder  TraceRecorder
	collector report.Collector
	registry  *Registry
	log       logrus.FieldLogger
}

// NewOrchestrator creates a new test orchestrator.
func NewOrchestrator(cfg *OrchestratorConfig) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg.Config,
		session:   cfg.Session,
		db:        cfg.DB,
		mock:      cfg.Mock,
		scraper:   cfg.Scraper,
		recorder:  cfg.Recorder,
		collector: cfg.Collector,
		registry:  cfg.Registry,
		log:       cfg.Logger.WithField("component", "orchestrator"),
	}
}

// Start initializes the orchestrator and all its components.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.log.Debug("starting orchestrator")

	if err := o.collector.Start(ctx); err != nil {
		return fmt.Errorf("starting report collector: %w", err)
	}

	if err := o.db.Start(ctx); err != nil {
		return fmt.Errorf("starting database client: %w", err)
	}

	if err := o.session.Start(ctx); err != nil {
		return fmt.Errorf("starting browser session: %w", err)
	}

	o.log.Info("orchestrator started")

	return nil
}

// Stop cleans up all orchestrator resources in reverse order of start.
func (o *Orchestrator) Stop() error {
	o.log.Debug("stopping orchestrator")

	var errs []error

	if err := o.session.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stopping browser session: %w", err))
	}

	if err := o.db.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stopping database client: %w", err))
	}

	if err := o.collector.Stop(); err != nil {
		errs = append(errs, fmt.Errorf("stopping report collector: %w", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors stopping orchestrator: %v", errs) //nolint:err113 // Include error list for debugging
	}

	return nil
}

// RunPlan resolves and runs a plan, recording skipped scenarios as such.
func (o *Orchestrator) RunPlan(ctx context.Context, plan *Plan) error {
	selected, skipReasons, err := plan.Resolve(o.registry)
	if err != nil {
		return fmt.Errorf("resolving plan: %w", err)
	}

	attempts := plan.RetryAttempts
	if attempts <= 0 {
		attempts = o.cfg.RetryAttempts
	}

	o.log.WithFields(logrus.Fields{
		"plan":      plan.Name,
		"scenarios": len(selected),
		"attempts":  attempts,
	}).Info("running plan")

	for _, scenario := range selected {
		if reason, skip := skipReasons[scenario.Name]; skip {
			o.log.WithField("scenario", scenario.Name).WithField("reason", reason).Info("skipping scenario")
			o.collector.Record(&report.ScenarioResult{
				Name:        scenario.Name,
				Description: scenario.Description,
				Status:      report.StatusSkipped,
				SkipReason:  reason,
				Timestamp:   time.Now(),
			})

			continue
		}

		result := o.runScenario(ctx, scenario, attempts)
		o.collector.Record(result)

		if result.Status == report.StatusFailed {
			o.log.WithField("scenario", scenario.Name).Error("scenario failed")
		}
	}

	return nil
}

// RunScenarios runs the named scenarios with the configured retry count.
func (o *Orchestrator) RunScenarios(ctx context.Context, names []string) error {
	for _, name := range names {
		scenario, ok := o.registry.Get(name)
		if !ok {
			return fmt.Errorf("%w: %s", errUnknownScenario, name)
		}

		result := o.runScenario(ctx, scenario, o.cfg.RetryAttempts)
		o.collector.Record(result)
	}

	return nil
}

// WriteArtifacts writes the markdown and JSON reports under the artifact dir.
func (o *Orchestrator) WriteArtifacts() error {
	if err := os.MkdirAll(o.cfg.ArtifactDir, 0o755); err != nil {
		return fmt.Errorf("creating artifact dir: %w", err)
	}

	summary := o.collector.GetSummary()
	results := o.collector.GetResults()

	markdownPath := filepath.Join(o.cfg.ArtifactDir, config.ReportMarkdownFilename)
	if err := report.WriteMarkdown(markdownPath, summary, results); err != nil {
		return err
	}

	jsonPath := filepath.Join(o.cfg.ArtifactDir, config.ReportJSONFilename)
	if err := report.WriteJSON(jsonPath, config.ReportVersion, summary, results); err != nil {
		return err
	}

	o.log.WithFields(logrus.Fields{
		"markdown": markdownPath,
		"json":     jsonPath,
	}).Info("wrote report artifacts")

	return nil
}

// runScenario executes one scenario with retries and builds its result.
func (o *Orchestrator) runScenario(ctx context.Context, scenario *Scenario, maxAttempts int) *report.ScenarioResult {
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	log := o.log.WithField("scenario", scenario.Name)
	start := time.Now()

	var (
		entries    []trace.Entry
		failedStep string
		lastErr    error
		failedAt   time.Time
		attempt    int
	)

	for attempt = 1; attempt <= maxAttempts; attempt++ {
		entries, failedStep, lastErr = o.runAttempt(ctx, scenario)
		if lastErr == nil {
			break
		}

		failedAt = time.Now()

		log.WithError(lastErr).WithField("attempt", attempt).Warn("scenario attempt failed")

		if ctx.Err() != nil {
			break
		}
	}

	if attempt > maxAttempts {
		attempt = maxAttempts
	}

	result := &report.ScenarioResult{
		Name:        scenario.Name,
		Description: scenario.Description,
		Attempts:    attempt,
		Duration:    time.Since(start),
		APICalls:    len(entries),
		APIFailures: len(trace.Failures(entries)),
		Timestamp:   time.Now(),
	}

	switch {
	case lastErr == nil && attempt == 1:
		result.Status = report.StatusPassed
	case lastErr == nil:
		result.Status = report.StatusFlaky
	default:
		result.Status = report.StatusFailed
		result.ErrorMessage = lastErr.Error()
		result.FailedStep = failedStep
	}

	if len(entries) > 0 {
		tracePath, err := trace.Save(
			filepath.Join(o.cfg.ArtifactDir, config.TracesDir),
			scenario.Name,
			trace.Dedup(entries, dedupWindow),
		)
		if err != nil {
			log.WithError(err).Warn("failed to save trace")
		} else {
			result.TracePath = tracePath
		}

		if result.Status == report.StatusFailed {
			if windowed := trace.Window(entries, failedAt, failureWindowRadius); len(windowed) > 0 {
				windowPath, err := trace.Save(
					filepath.Join(o.cfg.ArtifactDir, config.TracesDir),
					scenario.Name+"-failure",
					windowed,
				)
				if err != nil {
					log.WithError(err).Warn("failed to save failure trace window")
				} else {
					result.FailureTracePath = windowPath
				}
			}
		}
	}

	log.WithFields(logrus.Fields{
		"status":   result.Status,
		"attempts": result.Attempts,
		"duration": result.Duration,
	}).Info("scenario finished")

	return result
}

// runAttempt performs one attempt: fixtures, page, trace, steps, cleanup.
func (o *Orchestrator) runAttempt(ctx context.Context, scenario *Scenario) (entries []trace.Entry, failedStep string, err error) {
	log := o.log.WithField("scenario", scenario.Name)

	journalpostIDs, err := o.prepareFixtures(ctx, scenario)
	if err != nil {
		return nil, "prepare fixtures", err
	}

	before := o.snapshotMetrics(ctx)

	page, err := o.session.NewPage(ctx, o.cfg.AppBaseURL)
	if err != nil {
		return nil, "open application", err
	}

	defer func() {
		o.recorder.Detach()
		o.session.ClosePage(page)
		o.cleanupFixtures(ctx, scenario)
	}()

	o.recorder.Attach(ctx, page, scenario.Name)

	rt := &Runtime{
		Log:            log,
		Config:         o.cfg,
		Page:           page,
		DB:             o.db,
		Mock:           o.mock,
		Dashboard:      pages.NewDashboard(log, page, o.cfg.ActionTimeout),
		Journalfoering: pages.NewJournalfoering(log, page, o.cfg.ActionTimeout),
		Behandling:     pages.NewBehandling(log, page, o.cfg.ActionTimeout),
		Vedtak:         pages.NewVedtak(log, page, o.cfg.ActionTimeout),
		JournalpostIDs: journalpostIDs,
	}

	runErr := scenario.Run(ctx, rt)

	entries = o.recorder.Entries()

	o.logMetricsDelta(ctx, before)

	if runErr != nil {
		return entries, rt.FailedStep(), runErr
	}

	return entries, "", nil
}

// prepareFixtures resets the mock, seeds the scenario's fixture and clears
// leftover database rows for the fixture person.
func (o *Orchestrator) prepareFixtures(ctx context.Context, scenario *Scenario) ([]string, error) {
	if err := o.mock.Reset(ctx); err != nil {
		return nil, fmt.Errorf("resetting mock: %w", err)
	}

	fixture := scenario.Fixture
	if fixture == nil {
		return nil, nil
	}

	if fixture.Person != nil {
		o.db.CleanupPerson(ctx, fixture.Person.Fnr)

		if err := o.mock.SeedPerson(ctx, fixture.Person); err != nil {
			return nil, err
		}
	}

	for _, forhold := range fixture.Arbeidsforhold {
		if err := o.mock.SeedArbeidsforhold(ctx, forhold); err != nil {
			return nil, err
		}
	}

	ids := make([]string, 0, len(fixture.Journalposter))

	for _, journalpost := range fixture.Journalposter {
		id, err := o.mock.OpprettJournalpost(ctx, journalpost)
		if err != nil {
			return nil, err
		}

		ids = append(ids, id)
	}

	return ids, nil
}

// cleanupFixtures removes the scenario's database traces. Failures are
// logged and ignored: cleanup never fails a scenario.
func (o *Orchestrator) cleanupFixtures(ctx context.Context, scenario *Scenario) {
	if scenario.Fixture == nil || scenario.Fixture.Person == nil {
		return
	}

	o.db.CleanupPerson(ctx, scenario.Fixture.Person.Fnr)
}

// snapshotMetrics scrapes the application metrics, tolerating failure.
func (o *Orchestrator) snapshotMetrics(ctx context.Context) *metrics.Snapshot {
	snapshot, err := o.scraper.Scrape(ctx)
	if err != nil {
		o.log.WithError(err).Warn("metrics scrape failed, continuing without")
		return nil
	}

	return snapshot
}

// logMetricsDelta logs the application counters that moved during a scenario.
func (o *Orchestrator) logMetricsDelta(ctx context.Context, before *metrics.Snapshot) {
	if before == nil {
		return
	}

	after := o.snapshotMetrics(ctx)
	if after == nil {
		return
	}

	for _, delta := range metrics.Delta(before, after) {
		o.log.WithFields(logrus.Fields{
			"metric":   delta.Name,
			"labels":   delta.Labels,
			"increase": delta.Increase,
		}).Debug("application counter moved")
	}

	for _, change := range metrics.GaugeChanges(before, after) {
		o.log.WithFields(logrus.Fields{
			"metric": change.Name,
			"labels": change.Labels,
			"before": change.Before,
			"after":  change.After,
		}).Debug("application gauge moved")
	}
}
