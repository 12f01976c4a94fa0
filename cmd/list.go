package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/navikt/melosys-e2e/internal/scenarios"
	"github.com/navikt/melosys-e2e/internal/suite"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the available scenarios",
	RunE: func(_ *cobra.Command, _ []string) error {
		registry := suite.NewRegistry()
		if err := scenarios.Register(registry); err != nil {
			return err
		}

		for _, scenario := range registry.All() {
			line := scenario.Name
			if scenario.Description != "" {
				line = fmt.Sprintf("%s - %s", line, scenario.Description)
			}

			if len(scenario.Tags) > 0 {
				line = fmt.Sprintf("%s %v", line, scenario.Tags)
			}

			fmt.Println(line)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
