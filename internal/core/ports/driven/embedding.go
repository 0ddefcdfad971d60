package driven

import "context"

// EmbeddingService generates vector embeddings from text.
//
// Note: this service only generates vectors; storage and ranking live
// with VendorStore and the similarity engine. Batching across texts is
// the dispatcher's job, so the port stays a single-text call.
type EmbeddingService interface {
	// Embed generates an embedding for the given text. The returned
	// vector always has exactly Dimensions() elements.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the embedding vector size. Every vector
	// stored and compared must match it.
	Dimensions() int

	// ModelName returns the name of the embedding model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight
	// request. Used at startup, before any work is dispatched.
	Ping(ctx context.Context) error
}
