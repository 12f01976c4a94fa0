package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/navikt/melosys-e2e/internal/trace"
)

var (
	replayTarget          string
	replayIncludeMutating bool
	replayVerbose         bool
)

var replayCmd = &cobra.Command{
	Use:   "replay [trace-file]",
	Short: "Replay a recorded API trace against a target",
	Long: `Replay the API calls recorded during a scenario run against a
target base URL and report status divergences.

Only GET and HEAD requests are replayed unless --include-mutating is
given, since replaying writes changes application state.

Examples:
  melosys-e2e replay test-results/traces/fatte-vedtak.jsonl --target http://localhost:8080
  melosys-e2e replay trace.jsonl --target https://melosys.dev.nav.no --include-mutating`,
	Args: cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		log := newLogger(replayVerbose)

		entries, err := trace.Load(args[0])
		if err != nil {
			return fmt.Errorf("loading trace: %w", err)
		}

		replayer := trace.NewReplayer(log, replayTarget, replayIncludeMutating)

		result, err := replayer.Replay(context.Background(), entries)
		if err != nil {
			return fmt.Errorf("replaying trace: %w", err)
		}

		fmt.Printf("Replayed %d of %d calls (%d skipped), %d matched\n",
			result.Replayed, result.Total, result.Skipped, result.Matched)

		for _, divergence := range result.Divergences {
			if divergence.Err != nil {
				fmt.Printf("  %s %s: recorded %d, replay failed: %v\n",
					divergence.Entry.Method, divergence.Entry.Path, divergence.Entry.Status, divergence.Err)
				continue
			}

			fmt.Printf("  %s %s: recorded %d, got %d\n",
				divergence.Entry.Method, divergence.Entry.Path, divergence.Entry.Status, divergence.ReplayedStatus)
		}

		if len(result.Divergences) > 0 {
			return fmt.Errorf("%d calls diverged", len(result.Divergences)) //nolint:err113 // Top-level replay verdict
		}

		return nil
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayTarget, "target", "http://localhost:8080", "base URL to replay against")
	replayCmd.Flags().BoolVar(&replayIncludeMutating, "include-mutating", false, "also replay POST, PUT, PATCH and DELETE calls")
	replayCmd.Flags().BoolVarP(&replayVerbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(replayCmd)
}
