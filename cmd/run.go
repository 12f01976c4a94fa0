package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/navikt/melosys-e2e/internal/browser"
	"github.com/navikt/melosys-e2e/internal/config"
	"github.com/navikt/melosys-e2e/internal/database"
	"github.com/navikt/melosys-e2e/internal/metrics"
	"github.com/navikt/melosys-e2e/internal/mock"
	"github.com/navikt/melosys-e2e/internal/report"
	"github.com/navikt/melosys-e2e/internal/scenarios"
	"github.com/navikt/melosys-e2e/internal/suite"
	"github.com/navikt/melosys-e2e/internal/trace"
)

var (
	runPlanPath  string
	runScenarios []string
	runVerbose   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a test plan or individual scenarios",
	Long: `Run end-to-end scenarios against a running Melosys instance.

By default the plan at ` + config.DefaultPlanPath + ` is executed. Use
--plan to run a different plan, or --scenario (repeatable) to run named
scenarios directly, ignoring any plan.

Examples:
  melosys-e2e run
  melosys-e2e run --plan plans/vedtak.yaml
  melosys-e2e run --scenario fatte-vedtak --scenario avslaa-soknad`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return executeRun(runPlanPath, runScenarios, runVerbose)
	},
}

// executeRun wires the components together and runs either the named
// scenarios or the plan at planPath. Shared by the run command and the
// interactive mode.
func executeRun(planPath string, scenarioNames []string, verbose bool) error {
	log := newLogger(verbose)

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	registry := suite.NewRegistry()
	if err := scenarios.Register(registry); err != nil {
		return err
	}

	collector := report.NewCollector(log)

	orchestrator := suite.NewOrchestrator(&suite.OrchestratorConfig{
		Logger: log,
		Config: cfg,
		Session: browser.NewSession(log, browser.Config{
			Headless:       cfg.Headless,
			ViewportWidth:  cfg.ViewportWidth,
			ViewportHeight: cfg.ViewportHeight,
			NavTimeout:     cfg.NavTimeout,
		}),
		DB:        database.NewClient(log, cfg.OracleDSN()),
		Mock:      mock.NewClient(log, cfg.MockBaseURL),
		Scraper:   metrics.NewScraper(log, cfg.MetricsURL),
		Recorder:  trace.NewRecorder(log),
		Collector: collector,
		Registry:  registry,
	})

	if err := orchestrator.Start(ctx); err != nil {
		return fmt.Errorf("starting orchestrator: %w", err)
	}

	defer func() {
		if err := orchestrator.Stop(); err != nil {
			log.WithError(err).Warn("Failed to stop orchestrator")
		}
	}()

	if len(scenarioNames) > 0 {
		err = orchestrator.RunScenarios(ctx, scenarioNames)
	} else {
		var plan *suite.Plan

		plan, err = suite.LoadPlan(planPath)
		if err != nil {
			return fmt.Errorf("loading plan: %w", err)
		}

		err = orchestrator.RunPlan(ctx, plan)
	}

	if err != nil {
		return err
	}

	if err := orchestrator.WriteArtifacts(); err != nil {
		return err
	}

	formatter := report.NewConsoleFormatter(os.Stdout)
	formatter.PrintResults(collector.GetResults())
	formatter.PrintSummary(collector.GetSummary())

	if summary := collector.GetSummary(); summary.Failed > 0 {
		return fmt.Errorf("%d of %d scenarios failed", summary.Failed, summary.Total) //nolint:err113 // Top-level run verdict
	}

	return nil
}

func init() {
	runCmd.Flags().StringVar(&runPlanPath, "plan", config.DefaultPlanPath, "path to the plan file to run")
	runCmd.Flags().StringArrayVar(&runScenarios, "scenario", nil, "scenario to run directly (repeatable, overrides --plan)")
	runCmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(runCmd)
}
