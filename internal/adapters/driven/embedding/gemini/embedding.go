// Package gemini provides an embedding service adapter using the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"math"

	"google.golang.org/genai"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
	"github.com/eventry-labs/vendorscout/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultModel      = "gemini-embedding-001"
	DefaultDimensions = 1536

	// nativeDimensions is the model's full output size. Vectors at
	// this size arrive unit-normalised; truncated ones do not and
	// must be normalised locally.
	nativeDimensions = 3072
)

// Config holds configuration for the Gemini embedding service.
type Config struct {
	// Model is the embedding model to use (default: gemini-embedding-001).
	Model string

	// Dimensions is the requested output dimensionality
	// (default 1536; the model supports 768, 1536, and 3072).
	Dimensions int
}

// EmbeddingService generates embeddings using the Gemini API.
type EmbeddingService struct {
	client     *genai.Client
	model      string
	dimensions int
}

// NewEmbeddingService creates a Gemini embedding service.
// client: genai.Client from google.golang.org/genai
func NewEmbeddingService(client *genai.Client, cfg Config) (*EmbeddingService, error) {
	if client == nil {
		return nil, fmt.Errorf("gemini: client is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}
	if cfg.Dimensions < 0 {
		return nil, fmt.Errorf("gemini: dimensions must be positive, got %d", cfg.Dimensions)
	}

	return &EmbeddingService{
		client:     client,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("empty text: %w", domain.ErrInvalidInput)
	}

	contents := []*genai.Content{
		{
			Parts: []*genai.Part{
				{Text: text},
			},
		},
	}

	dims := int32(s.dimensions)
	result, err := s.client.Models.EmbedContent(ctx, s.model, contents, &genai.EmbedContentConfig{
		OutputDimensionality: &dims,
	})
	if err != nil {
		return nil, classify(err)
	}

	if len(result.Embeddings) == 0 || len(result.Embeddings[0].Values) == 0 {
		return nil, fmt.Errorf("gemini: no embedding returned")
	}

	vector := result.Embeddings[0].Values
	if len(vector) != s.dimensions {
		return nil, fmt.Errorf("%w: got %d dimensions, want %d", domain.ErrDimensionMismatch, len(vector), s.dimensions)
	}

	if s.dimensions != nativeDimensions {
		normalise(vector)
	}
	return vector, nil
}

// Dimensions returns the configured embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the service is reachable by embedding a trivial text.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	_, err := s.Embed(ctx, "ping")
	return err
}

// classify maps API errors onto the domain taxonomy.
func classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429:
			return fmt.Errorf("%w: %s", domain.ErrRateLimited, apiErr.Message)
		case apiErr.Code >= 400 && apiErr.Code < 500:
			return fmt.Errorf("%w: %s", domain.ErrInvalidInput, apiErr.Message)
		}
	}
	return err
}

// normalise scales the vector to unit norm in place. Truncated Gemini
// embeddings are not pre-normalised, and cosine ranking assumes
// comparable magnitudes.
func normalise(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := 1 / math.Sqrt(sum)
	for i := range v {
		v[i] = float32(float64(v[i]) * inv)
	}
}
