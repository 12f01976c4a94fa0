package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Logger is the shared logger instance for all commands
	Logger *logrus.Logger

	rootCmd = &cobra.Command{
		Use:   "melosys-e2e",
		Short: "End-to-end browser tests for Melosys",
		Long: `melosys-e2e drives a Chromium browser through the Melosys web
application, seeds test data through the melosys-mock service, verifies
state in the Oracle database and writes a report per run.

Run without arguments to launch interactive mode, or use subcommands for
direct operations.`,
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Load .env file if it exists
	_ = godotenv.Load()

	InitLogger()
}

// InitLogger initializes the shared logger from the LOG_LEVEL environment
// variable, defaulting to info.
func InitLogger() {
	Logger = logrus.New()

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		fmt.Printf("Invalid LOG_LEVEL '%s', defaulting to 'info'\n", logLevel)
		level = logrus.InfoLevel
	}

	Logger.SetLevel(level)
}
