// Package cli implements the vendorscout command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/eventry-labs/vendorscout/internal/core/ports/driving"
	"github.com/eventry-labs/vendorscout/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services are injected by the composition root before Execute runs.
var (
	collectorService driving.CollectorService
	plannerService   driving.PlannerService
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "vendorscout",
	Short: "Discover and rank event vendors",
	Long: `Vendorscout discovers local vendors for an event, enriches them with
description embeddings, and ranks the stored corpus against event
descriptions by semantic similarity.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// SetServices injects the core services into the CLI commands.
func SetServices(collector driving.CollectorService, planner driving.PlannerService) {
	collectorService = collector
	plannerService = planner
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
