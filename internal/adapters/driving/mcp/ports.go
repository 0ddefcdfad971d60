package mcp

import (
	"github.com/eventry-labs/vendorscout/internal/core/ports/driving"
)

// Ports aggregates the driving port interfaces required by the MCP
// server. This provides a single injection point for dependency
// injection.
type Ports struct {
	// Planner ranks stored vendors against an event description.
	Planner driving.PlannerService

	// Collector runs the vendor collection pipeline.
	Collector driving.CollectorService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Planner == nil {
		return ErrMissingPlannerService
	}
	// Collector is optional; collection is usually driven from the CLI.
	return nil
}
