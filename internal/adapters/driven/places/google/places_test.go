package google

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	places "google.golang.org/api/places/v1"

	"google.golang.org/api/googleapi"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		code int
		want error
	}{
		{"429 is rate limited", 429, domain.ErrRateLimited},
		{"404 is not found", 404, domain.ErrNotFound},
		{"400 is invalid input", 400, domain.ErrInvalidInput},
		{"403 is invalid input", 403, domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := classify(&googleapi.Error{Code: tt.code, Message: "m"})
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("5xx passes through for retry", func(t *testing.T) {
		apiErr := &googleapi.Error{Code: 503}
		err := classify(apiErr)
		assert.NotErrorIs(t, err, domain.ErrInvalidInput)
		assert.NotErrorIs(t, err, domain.ErrRateLimited)
	})

	t.Run("wrapped errors are unwrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("search: %w", &googleapi.Error{Code: 429})
		assert.ErrorIs(t, classify(wrapped), domain.ErrRateLimited)
	})

	t.Run("non-API errors pass through", func(t *testing.T) {
		base := errors.New("connection refused")
		assert.Equal(t, base, classify(base))
	})
}

func TestLocalizedText(t *testing.T) {
	assert.Equal(t, "", localizedText(nil))
	assert.Equal(t, "Fig & Olive", localizedText(&places.GoogleTypeLocalizedText{Text: "Fig & Olive"}))
}

func TestNewPlaceService_RequiresAPIKey(t *testing.T) {
	_, err := NewPlaceService(context.Background(), "")
	assert.Error(t, err)
}
