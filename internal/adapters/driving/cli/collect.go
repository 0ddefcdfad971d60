package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
)

var collectJSON bool

var collectCmd = &cobra.Command{
	Use:   "collect [event description]",
	Short: "Discover and store vendors for an event",
	Long: `Runs the full collection pipeline for an event description:
derives vendor categories, generates search queries, discovers places,
fetches details, embeds vendor descriptions, and persists them.

Individual failures never abort a run; they are reported at the end.`,
	Args: cobra.ExactArgs(1),
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().BoolVar(&collectJSON, "json", false, "output the run report as JSON")
	rootCmd.AddCommand(collectCmd)
}

func runCollect(cmd *cobra.Command, args []string) error {
	if collectorService == nil {
		return errors.New("collector service not configured")
	}

	report, err := collectorService.Collect(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("collection failed: %w", err)
	}

	if collectJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal report: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputRunReport(cmd, report)
	return nil
}

func outputRunReport(cmd *cobra.Command, report *domain.RunReport) {
	cmd.Printf("Run %s finished in %s\n", report.RunID, report.FinishedAt.Sub(report.StartedAt).Round(time.Second))
	cmd.Println()
	cmd.Printf("  Categories: %d\n", len(report.Categories))
	for _, category := range report.Categories {
		cmd.Printf("    - %s (%d queries)\n", category, len(report.Queries[category]))
	}
	cmd.Printf("  Discovered: %d places\n", report.Discovered)
	cmd.Printf("  Enriched:   %d vendors\n", report.Enriched)
	cmd.Printf("  Stored:     %d vendors\n", report.Stored)

	if report.Failed() {
		cmd.Println()
		cmd.Printf("  %d failures:\n", len(report.Failures))
		for _, f := range report.Failures {
			cmd.Printf("    [%s] %s: %s\n", f.Stage, f.Key, f.Reason)
		}
	}
}
