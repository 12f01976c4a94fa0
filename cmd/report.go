package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/navikt/melosys-e2e/internal/config"
	"github.com/navikt/melosys-e2e/internal/report"
)

var reportMarkdownOut string

var reportCmd = &cobra.Command{
	Use:   "report [report.json]",
	Short: "Render a saved run report",
	Long: `Render a previously written JSON run report to the console, and
optionally re-render the markdown summary.

With no argument the report under the configured artifact directory is
used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		} else {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading configuration: %w", err)
			}

			path = filepath.Join(cfg.ArtifactDir, config.ReportJSONFilename)
		}

		doc, err := report.LoadJSON(path)
		if err != nil {
			return fmt.Errorf("loading report: %w", err)
		}

		formatter := report.NewConsoleFormatter(os.Stdout)
		formatter.PrintResults(doc.Results)
		formatter.PrintSummary(doc.Summary)

		if reportMarkdownOut != "" {
			if err := report.WriteMarkdown(reportMarkdownOut, doc.Summary, doc.Results); err != nil {
				return err
			}

			fmt.Printf("\nWrote markdown summary to %s\n", reportMarkdownOut)
		}

		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportMarkdownOut, "markdown", "", "also write the markdown summary to this path")

	rootCmd.AddCommand(reportCmd)
}
