package driving

import (
	"context"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
)

// CollectorService runs the vendor collection pipeline: derive
// categories and queries, search places, fetch details, embed
// descriptions, and persist.
//
// A run always completes with best-effort results; per-item failures
// are collected into the returned report, never escalated to a
// run-level abort. Only configuration-time errors fail the call.
type CollectorService interface {
	// Collect discovers and stores vendors for an event description.
	Collect(ctx context.Context, eventDescription string) (*domain.RunReport, error)
}
