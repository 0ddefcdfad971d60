// Package google provides a place-search adapter using the Google
// Places API (New) via google.golang.org/api.
package google

import (
	"context"
	"errors"
	"fmt"

	places "google.golang.org/api/places/v1"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
	"github.com/eventry-labs/vendorscout/internal/core/ports/driven"
)

// Ensure PlaceService implements the interface.
var _ driven.PlaceService = (*PlaceService)(nil)

// Field masks for the two call shapes. The search mask stays small;
// the full record comes from the details call, which is billed
// separately.
const (
	searchFieldMask = "places.id,places.displayName,places.formattedAddress,places.rating,places.userRatingCount,places.primaryType"

	detailFieldMask = "id,displayName,formattedAddress,rating,userRatingCount,primaryType,types," +
		"businessStatus,nationalPhoneNumber,internationalPhoneNumber,websiteUri,googleMapsUri," +
		"editorialSummary,location"
)

// maxResults caps one text search page.
const maxResults = 20

// PlaceService finds vendors through the Places API (New).
type PlaceService struct {
	svc *places.Service
}

// NewPlaceService creates a place service authenticated by API key.
func NewPlaceService(ctx context.Context, apiKey string) (*PlaceService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("places: API key is required")
	}

	svc, err := places.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("places: create service: %w", err)
	}
	return &PlaceService{svc: svc}, nil
}

// Search runs a text query, optionally biased to a rectangle, and
// returns matching place summaries.
func (s *PlaceService) Search(ctx context.Context, query string, bias domain.LocationBias) ([]domain.PlaceSummary, error) {
	if query == "" {
		return nil, fmt.Errorf("empty query: %w", domain.ErrInvalidInput)
	}

	req := &places.GoogleMapsPlacesV1SearchTextRequest{
		TextQuery: query,
		PageSize:  maxResults,
	}
	if !bias.IsZero() {
		req.LocationBias = &places.GoogleMapsPlacesV1SearchTextRequestLocationBias{
			Rectangle: &places.GoogleGeoTypeViewport{
				Low: &places.GoogleTypeLatLng{
					Latitude:  bias.LowLatitude,
					Longitude: bias.LowLongitude,
				},
				High: &places.GoogleTypeLatLng{
					Latitude:  bias.HighLatitude,
					Longitude: bias.HighLongitude,
				},
			},
		}
	}

	call := s.svc.Places.SearchText(req).Context(ctx)
	call.Header().Set("X-Goog-FieldMask", searchFieldMask)

	resp, err := call.Do()
	if err != nil {
		return nil, classify(err)
	}

	summaries := make([]domain.PlaceSummary, 0, len(resp.Places))
	for _, place := range resp.Places {
		summaries = append(summaries, domain.PlaceSummary{
			ID:               place.Id,
			Name:             localizedText(place.DisplayName),
			FormattedAddress: place.FormattedAddress,
			Rating:           place.Rating,
			UserRatingCount:  int(place.UserRatingCount),
			PrimaryType:      place.PrimaryType,
		})
	}
	return summaries, nil
}

// Details fetches the full record for a place by its ID.
func (s *PlaceService) Details(ctx context.Context, placeID string) (*domain.PlaceDetail, error) {
	if placeID == "" {
		return nil, fmt.Errorf("empty place ID: %w", domain.ErrInvalidInput)
	}

	call := s.svc.Places.Get("places/" + placeID).Context(ctx)
	call.Header().Set("X-Goog-FieldMask", detailFieldMask)

	place, err := call.Do()
	if err != nil {
		return nil, classify(err)
	}

	detail := &domain.PlaceDetail{
		PlaceSummary: domain.PlaceSummary{
			ID:               placeID,
			Name:             localizedText(place.DisplayName),
			FormattedAddress: place.FormattedAddress,
			Rating:           place.Rating,
			UserRatingCount:  int(place.UserRatingCount),
			PrimaryType:      place.PrimaryType,
		},
		Types:              place.Types,
		BusinessStatus:     place.BusinessStatus,
		NationalPhone:      place.NationalPhoneNumber,
		InternationalPhone: place.InternationalPhoneNumber,
		WebsiteURI:         place.WebsiteUri,
		GoogleMapsURI:      place.GoogleMapsUri,
		EditorialSummary:   localizedText(place.EditorialSummary),
	}
	if place.Location != nil {
		detail.Latitude = place.Location.Latitude
		detail.Longitude = place.Location.Longitude
	}
	return detail, nil
}

// classify maps API errors onto the domain taxonomy: 429 is retryable
// after backoff, other client errors are permanent.
func classify(err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429:
			return fmt.Errorf("%w: %s", domain.ErrRateLimited, apiErr.Message)
		case apiErr.Code == 404:
			return fmt.Errorf("%w: %s", domain.ErrNotFound, apiErr.Message)
		case apiErr.Code >= 400 && apiErr.Code < 500:
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, apiErr.Message)
		}
	}
	return err
}

func localizedText(t *places.GoogleTypeLocalizedText) string {
	if t == nil {
		return ""
	}
	return t.Text
}
