package domain

import (
	"fmt"
	"strings"
	"time"
)

// PlaceSummary is a single hit from the place-search service.
// Only identity and display fields are populated; the full record
// comes from a follow-up details call.
type PlaceSummary struct {
	// ID is the stable place identifier used for deduplication.
	ID string

	// Name is the place display name.
	Name string

	// FormattedAddress is the human-readable address.
	FormattedAddress string

	// Rating is the average user rating (0 when unrated).
	Rating float64

	// UserRatingCount is the number of ratings behind Rating.
	UserRatingCount int

	// PrimaryType is the service's primary classification.
	PrimaryType string
}

// PlaceDetail is the full record for a place, fetched by ID.
type PlaceDetail struct {
	PlaceSummary

	// Types lists all business type classifications.
	Types []string

	// BusinessStatus reports whether the place is operational.
	BusinessStatus string

	// NationalPhone is the locally formatted phone number.
	NationalPhone string

	// InternationalPhone is the internationally formatted phone number.
	InternationalPhone string

	// WebsiteURI is the vendor's website, if any.
	WebsiteURI string

	// GoogleMapsURI links to the place on the map service.
	GoogleMapsURI string

	// EditorialSummary is the service's generated description, if any.
	EditorialSummary string

	// Latitude and Longitude locate the place.
	Latitude  float64
	Longitude float64
}

// Vendor is a discovered vendor: place metadata, the category it was
// discovered under, and its description embedding once enriched.
type Vendor struct {
	// ID is the place identifier. Unique across the store; persistence
	// writes are keyed by it so concurrent writers cannot collide.
	ID string

	// Category is the vendor category this vendor was discovered under
	// (e.g. "decoration", "catering").
	Category string

	// Name is the vendor display name.
	Name string

	// FormattedAddress is the human-readable address.
	FormattedAddress string

	// Rating is the average user rating (0 when unrated).
	Rating float64

	// UserRatingCount is the number of ratings behind Rating.
	UserRatingCount int

	// PrimaryType is the primary business classification.
	PrimaryType string

	// Types lists all business type classifications.
	Types []string

	// BusinessStatus reports whether the vendor is operational.
	BusinessStatus string

	// NationalPhone is the locally formatted phone number.
	NationalPhone string

	// WebsiteURI is the vendor's website, if any.
	WebsiteURI string

	// GoogleMapsURI links to the vendor on the map service.
	GoogleMapsURI string

	// Specialties is a free-text description of what the vendor offers,
	// assembled from the place detail record.
	Specialties string

	// Embedding is the description embedding, populated by the
	// enrichment stage. Nil until enriched.
	Embedding []float32

	// CollectedAt records when the vendor was discovered.
	CollectedAt time.Time
}

// FromPlaceDetail builds a Vendor from a place detail record.
func FromPlaceDetail(category string, d PlaceDetail, now time.Time) Vendor {
	specialties := d.EditorialSummary
	if specialties == "" {
		specialties = strings.Join(d.Types, ", ")
	}
	return Vendor{
		ID:               d.ID,
		Category:         category,
		Name:             d.Name,
		FormattedAddress: d.FormattedAddress,
		Rating:           d.Rating,
		UserRatingCount:  d.UserRatingCount,
		PrimaryType:      d.PrimaryType,
		Types:            d.Types,
		BusinessStatus:   d.BusinessStatus,
		NationalPhone:    d.NationalPhone,
		WebsiteURI:       d.WebsiteURI,
		GoogleMapsURI:    d.GoogleMapsURI,
		Specialties:      specialties,
		CollectedAt:      now,
	}
}

// EmbeddingText assembles the text whose embedding represents this
// vendor in similarity search. Name, classification, and specialties
// carry the semantic signal; address anchors locality.
func (v *Vendor) EmbeddingText() string {
	parts := []string{v.Name}
	if v.PrimaryType != "" {
		parts = append(parts, v.PrimaryType)
	}
	if len(v.Types) > 0 {
		parts = append(parts, strings.Join(v.Types, " "))
	}
	if v.Specialties != "" {
		parts = append(parts, v.Specialties)
	}
	if v.FormattedAddress != "" {
		parts = append(parts, v.FormattedAddress)
	}
	if v.Rating > 0 {
		parts = append(parts, fmt.Sprintf("rated %.1f by %d users", v.Rating, v.UserRatingCount))
	}
	return strings.Join(parts, ". ")
}
