// Package similarity ranks stored embeddings against a query vector.
//
// The engine computes exact cosine similarity over the full corpus and
// returns the exact top-k: no index, no approximation. Complexity is
// O(corpus size x dimensions) per query, which is the intended shape
// for corpora read straight out of the vendor store.
package similarity

import (
	"fmt"
	"math"
	"sort"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
)

// Rank scores every corpus record against the query vector and returns
// the k highest-scoring records in descending score order, ties broken
// by ascending ID so identical inputs always produce identical output.
// If k is larger than the corpus, all records are returned ranked.
//
// The query must be non-zero. Records whose vectors are zero or whose
// dimensionality differs from the query are excluded from the ranking
// and reported in excluded; they never fail the call.
func Rank(query []float32, corpus []domain.EmbeddingRecord, k int) (results []domain.SimilarityResult, excluded []domain.Failure, err error) {
	if len(query) == 0 {
		return nil, nil, fmt.Errorf("query vector: %w", domain.ErrInvalidInput)
	}
	if k <= 0 {
		return nil, nil, fmt.Errorf("k must be positive, got %d: %w", k, domain.ErrInvalidInput)
	}

	queryNorm := norm(query)
	if queryNorm == 0 {
		return nil, nil, fmt.Errorf("query vector: %w", domain.ErrZeroVector)
	}

	scored := make([]domain.SimilarityResult, 0, len(corpus))
	for i := range corpus {
		rec := &corpus[i]

		if len(rec.Vector) != len(query) {
			excluded = append(excluded, domain.Failure{
				Stage:  domain.StageRank,
				Key:    rec.ID,
				Reason: fmt.Sprintf("%v: record has %d dimensions, query has %d", domain.ErrDimensionMismatch, len(rec.Vector), len(query)),
			})
			continue
		}

		recNorm := norm(rec.Vector)
		if recNorm == 0 {
			excluded = append(excluded, domain.Failure{
				Stage:  domain.StageRank,
				Key:    rec.ID,
				Reason: domain.ErrZeroVector.Error(),
			})
			continue
		}

		scored = append(scored, domain.SimilarityResult{
			ID:    rec.ID,
			Score: dot(query, rec.Vector) / (queryNorm * recNorm),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].ID < scored[j].ID
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	for i := range scored {
		scored[i].Rank = i + 1
	}

	return scored, excluded, nil
}

// dot accumulates in float64 to keep precision over long vectors.
func dot(a, b []float32) float64 {
	var sum float64
	for i := range a {
		sum += float64(a[i]) * float64(b[i])
	}
	return sum
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}
