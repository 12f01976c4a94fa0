// Package cmd contains CLI command definitions
package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/navikt/melosys-e2e/internal/config"
	"github.com/navikt/melosys-e2e/internal/database"
	"github.com/navikt/melosys-e2e/internal/mock"
	"github.com/navikt/melosys-e2e/internal/scenarios"
	"github.com/navikt/melosys-e2e/internal/suite"
	"github.com/navikt/melosys-e2e/pkg/interactive"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch interactive mode",
	Long:  `Launches the interactive terminal interface for melosys-e2e.`,
	Run: func(_ *cobra.Command, _ []string) {
		RunInteractive()
	},
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

// RunInteractive drives the interactive menu loop until the user exits.
func RunInteractive() {
	fmt.Println("Melosys E2E - Interactive Mode")
	fmt.Println("==============================")
	fmt.Println()

	for {
		options := []interactive.MenuOption{
			{
				Name:        "Show Config",
				Description: "Display current environment configuration",
				Action: func() error {
					cfg, err := config.Load()
					if err != nil {
						fmt.Printf("\n❌ Error: %v\n", err)
					} else {
						fmt.Println(cfg.String())
					}
					interactive.PauseForEnter()
					return nil
				},
			},
			{
				Name:        "Run Plan",
				Description: "Run the default test plan",
				Action: func() error {
					if err := executeRun(config.DefaultPlanPath, nil, false); err != nil {
						fmt.Printf("\n❌ Error: %v\n", err)
					}
					interactive.PauseForEnter()
					return nil
				},
			},
			{
				Name:        "Run Scenarios",
				Description: "Pick scenarios to run",
				Action: func() error {
					registry := suite.NewRegistry()
					if err := scenarios.Register(registry); err != nil {
						fmt.Printf("\n❌ Error: %v\n", err)
						interactive.PauseForEnter()
						return nil
					}

					selected, err := interactive.SelectScenarios(registry.Names())
					if err != nil {
						return nil
					}

					if err := executeRun("", selected, false); err != nil {
						fmt.Printf("\n❌ Error: %v\n", err)
					}
					interactive.PauseForEnter()
					return nil
				},
			},
			{
				Name:        "Cleanup Person",
				Description: "Delete test data for a fødselsnummer (destructive)",
				Action: func() error {
					fnr, err := interactive.AskFnr()
					if err != nil {
						return nil
					}

					if !interactive.Confirm(fmt.Sprintf("Delete all data for %s?", fnr)) {
						fmt.Println("Cleanup canceled.")
						interactive.PauseForEnter()
						return nil
					}

					if err := cleanupPerson(fnr); err != nil {
						fmt.Printf("\n❌ Error: %v\n", err)
					} else {
						fmt.Println("Cleanup complete.")
					}
					interactive.PauseForEnter()
					return nil
				},
			},
		}

		if err := interactive.ShowMainMenu(options); err != nil {
			if errors.Is(err, interactive.ErrExit) {
				fmt.Println("Goodbye!")
				return
			}

			fmt.Printf("\n❌ Error: %v\n", err)
			interactive.PauseForEnter()
		}
	}
}

// cleanupPerson removes the person's database rows and resets the mock.
func cleanupPerson(fnr string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	ctx := context.Background()

	db := database.NewClient(Logger, cfg.OracleDSN())
	if err := db.Start(ctx); err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	defer func() {
		if err := db.Stop(); err != nil {
			Logger.WithError(err).Warn("Failed to close database connection")
		}
	}()

	db.CleanupPerson(ctx, fnr)

	mockClient := mock.NewClient(Logger, cfg.MockBaseURL)
	if err := mockClient.Reset(ctx); err != nil {
		return fmt.Errorf("resetting mock: %w", err)
	}

	return nil
}
