package driving

import (
	"context"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
)

// PlannerService matches an event description against the stored
// vendor corpus and returns per-category rankings.
type PlannerService interface {
	// Plan derives categories for the event, generates one search
	// query per category, and ranks stored vendors by embedding
	// similarity. topK caps results per category; topK <= 0 uses the
	// configured default.
	Plan(ctx context.Context, eventDescription string, topK int) (*domain.EventPlan, error)

	// Vendors lists stored vendors, optionally filtered by category.
	Vendors(ctx context.Context, category string) ([]domain.Vendor, error)
}
