package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimitMisconfigured indicates invalid limiter parameters,
	// for example a per-call cost larger than the bucket capacity.
	// This is fatal and reported at construction, before any work runs.
	ErrRateLimitMisconfigured = errors.New("rate limit misconfigured")

	// ErrRateLimited indicates the external service rejected a call
	// because its quota was exceeded. Retryable.
	ErrRateLimited = errors.New("rate limited")

	// ErrContentRejected indicates the generative service refused the
	// prompt (safety block, empty candidate). Not retryable.
	ErrContentRejected = errors.New("content rejected")

	// ErrZeroVector indicates a zero vector was offered for similarity
	// scoring. Cosine similarity is undefined for it, so the input is
	// rejected rather than silently scored.
	ErrZeroVector = errors.New("zero vector")

	// ErrDimensionMismatch indicates two vectors of different
	// dimensionality were compared. The offending record is excluded
	// from ranking; the run continues.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrQueryServiceUnavailable indicates the query-generation service
	// is not configured. Category derivation and planning are disabled.
	ErrQueryServiceUnavailable = errors.New("query-generation service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Enrichment and similarity ranking are disabled.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrPlaceServiceUnavailable indicates the place-search service is
	// not configured. Vendor discovery is disabled.
	ErrPlaceServiceUnavailable = errors.New("place-search service unavailable")

	// ErrStoreUnavailable indicates the vendor store is not configured.
	ErrStoreUnavailable = errors.New("vendor store unavailable")
)
