package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	vendorsCategory string
	vendorsJSON     bool
)

var vendorsCmd = &cobra.Command{
	Use:   "vendors",
	Short: "List stored vendors",
	Args:  cobra.NoArgs,
	RunE:  runVendors,
}

func init() {
	vendorsCmd.Flags().StringVarP(&vendorsCategory, "category", "c", "", "filter by category")
	vendorsCmd.Flags().BoolVar(&vendorsJSON, "json", false, "output vendors as JSON")
	rootCmd.AddCommand(vendorsCmd)
}

func runVendors(cmd *cobra.Command, _ []string) error {
	if plannerService == nil {
		return errors.New("planner service not configured")
	}

	vendors, err := plannerService.Vendors(cmd.Context(), vendorsCategory)
	if err != nil {
		return fmt.Errorf("listing vendors failed: %w", err)
	}

	if vendorsJSON {
		data, err := json.MarshalIndent(vendors, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal vendors: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(vendors) == 0 {
		cmd.Println("No vendors stored.")
		return nil
	}

	for i := range vendors {
		v := &vendors[i]
		cmd.Printf("%s  [%s]\n", v.Name, v.Category)
		if v.FormattedAddress != "" {
			cmd.Printf("  %s\n", v.FormattedAddress)
		}
		if v.Rating > 0 {
			cmd.Printf("  rated %.1f (%d reviews)\n", v.Rating, v.UserRatingCount)
		}
	}
	cmd.Println()
	cmd.Printf("%d vendors\n", len(vendors))
	return nil
}
