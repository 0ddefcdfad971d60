package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
)

var (
	planLimit int
	planJSON  bool
)

var planCmd = &cobra.Command{
	Use:   "plan [event description]",
	Short: "Rank stored vendors against an event description",
	Long: `Derives vendor categories for the event, embeds one search query per
category, and ranks the stored vendor corpus by cosine similarity.
Results are grouped by category, best match first.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func init() {
	planCmd.Flags().IntVarP(&planLimit, "limit", "n", 0, "maximum vendors per category (0 = configured default)")
	planCmd.Flags().BoolVar(&planJSON, "json", false, "output the plan as JSON")
	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	if plannerService == nil {
		return errors.New("planner service not configured")
	}

	plan, err := plannerService.Plan(cmd.Context(), args[0], planLimit)
	if err != nil {
		return fmt.Errorf("planning failed: %w", err)
	}

	if planJSON {
		data, err := json.MarshalIndent(plan, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal plan: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	outputPlanTable(cmd, plan)
	return nil
}

func outputPlanTable(cmd *cobra.Command, plan *domain.EventPlan) {
	if plan.TotalMatched == 0 {
		cmd.Println("No matching vendors found. Run 'vendorscout collect' first.")
	}

	for i := range plan.Plans {
		cp := &plan.Plans[i]
		cmd.Printf("%s  (query: %q)\n", cp.Category, cp.SearchQuery)
		if len(cp.Vendors) == 0 {
			cmd.Println("  no matches")
			cmd.Println()
			continue
		}
		for j := range cp.Vendors {
			rv := &cp.Vendors[j]
			cmd.Printf("  [%d] %s (%.3f)\n", rv.Rank, rv.Vendor.Name, rv.Score)
			if rv.Vendor.FormattedAddress != "" {
				cmd.Printf("      %s\n", rv.Vendor.FormattedAddress)
			}
			if rv.Vendor.Rating > 0 {
				cmd.Printf("      rated %.1f (%d reviews)\n", rv.Vendor.Rating, rv.Vendor.UserRatingCount)
			}
		}
		cmd.Println()
	}

	if len(plan.Failures) > 0 {
		cmd.Printf("%d failures:\n", len(plan.Failures))
		for _, f := range plan.Failures {
			cmd.Printf("  [%s] %s: %s\n", f.Stage, f.Key, f.Reason)
		}
	}
}
