package driven

import (
	"context"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
)

// PlaceService finds vendors through a place-search API.
//
// Search and Details are separate quota pools on the underlying
// service, so they are driven by separate dispatchers.
type PlaceService interface {
	// Search runs a text query, optionally biased to a rectangle, and
	// returns matching place summaries.
	Search(ctx context.Context, query string, bias domain.LocationBias) ([]domain.PlaceSummary, error)

	// Details fetches the full record for a place by its ID.
	Details(ctx context.Context, placeID string) (*domain.PlaceDetail, error)
}
