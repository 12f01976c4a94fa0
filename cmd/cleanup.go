package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/navikt/melosys-e2e/internal/config"
	"github.com/navikt/melosys-e2e/internal/database"
	"github.com/navikt/melosys-e2e/internal/mock"
)

var cleanupVerbose bool

var cleanupCmd = &cobra.Command{
	Use:   "cleanup [fnr]",
	Short: "Remove test data for a person",
	Long: `Delete the database rows belonging to a test person and reset the
mock service. Useful after an aborted run left data behind.

Example:
  melosys-e2e cleanup 01019012345`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		log := newLogger(cleanupVerbose)
		fnr := args[0]

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}

		ctx := context.Background()

		db := database.NewClient(log, cfg.OracleDSN())
		if err := db.Start(ctx); err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}

		defer func() {
			if err := db.Stop(); err != nil {
				log.WithError(err).Warn("Failed to close database connection")
			}
		}()

		db.CleanupPerson(ctx, fnr)

		mockClient := mock.NewClient(log, cfg.MockBaseURL)
		if err := mockClient.Reset(ctx); err != nil {
			return fmt.Errorf("resetting mock: %w", err)
		}

		fmt.Println("Cleanup complete.")

		return nil
	},
}

func init() {
	cleanupCmd.Flags().BoolVarP(&cleanupVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(cleanupCmd)
}
