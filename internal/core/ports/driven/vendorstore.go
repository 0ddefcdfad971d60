package driven

import (
	"context"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
)

// VendorStore persists discovered vendors and their embeddings.
//
// Upsert is keyed by vendor ID, so concurrent writers for distinct
// vendors never collide and re-running collection is idempotent.
// Reads are consistent with this process's own writes.
type VendorStore interface {
	// Upsert inserts or replaces a vendor record.
	Upsert(ctx context.Context, vendor domain.Vendor) error

	// Get returns a vendor by ID, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (*domain.Vendor, error)

	// List returns all stored vendors, optionally filtered by
	// category (empty category means all).
	List(ctx context.Context, category string) ([]domain.Vendor, error)

	// FetchEmbeddings returns the (id, vector) pairs for all vendors
	// that have an embedding, optionally filtered by category. This is
	// the corpus the similarity engine ranks over.
	FetchEmbeddings(ctx context.Context, category string) ([]domain.EmbeddingRecord, error)

	// Close releases resources.
	Close() error
}
