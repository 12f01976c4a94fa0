// Package main is the entry point for the melosys-e2e application
package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/navikt/melosys-e2e/cmd"
)

const (
	envFlag      = "--env"
	envFlagEqual = "--env="
)

var errEnvFlagValue = errors.New("--env flag requires a value")

func main() {
	envFile, runTUI, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if !runTUI {
		// Cobra handles flags itself in CLI mode.
		cmd.Execute()
		return
	}

	if err := loadEnvFile(envFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading env file: %v\n", err)
		os.Exit(1)
	}

	cmd.InitLogger()
	cmd.RunInteractive()
}

// parseArgs extracts the --env flag from the arguments. Whatever remains
// decides the mode: no remaining arguments launches the interactive menu,
// anything else is a CLI invocation.
func parseArgs(args []string) (envFile string, runTUI bool, err error) {
	remaining := 0

	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == envFlag:
			if i+1 >= len(args) {
				return "", false, errEnvFlagValue
			}

			envFile = args[i+1]
			i++
		case strings.HasPrefix(args[i], envFlagEqual):
			envFile = strings.TrimPrefix(args[i], envFlagEqual)
		default:
			remaining++
		}
	}

	return envFile, remaining == 0, nil
}

// loadEnvFile loads the given environment file. A missing default .env
// is fine; a missing explicitly named file is not.
func loadEnvFile(file string) error {
	if file == "" {
		file = ".env"
	}

	if err := godotenv.Load(file); err != nil {
		if file == ".env" && os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("failed to load env file '%s': %w", file, err)
	}

	return nil
}
