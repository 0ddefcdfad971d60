package domain

// EmbeddingRecord is an (id, vector) pair read back from the vendor
// store for similarity ranking. The ranking engine reads records but
// never mutates them.
type EmbeddingRecord struct {
	// ID is the vendor identifier the vector belongs to.
	ID string

	// Vector is the stored embedding. All records compared together
	// must share the same dimensionality.
	Vector []float32

	// Category is the vendor category the record was collected under.
	// Empty means uncategorised.
	Category string
}

// SimilarityResult is one ranked hit from the similarity engine.
type SimilarityResult struct {
	// ID is the matched vendor identifier.
	ID string

	// Score is the cosine similarity to the query vector. Higher is
	// more similar; range [-1, 1].
	Score float64

	// Rank is the 1-based position after sorting by descending score,
	// ties broken by ascending ID.
	Rank int
}
