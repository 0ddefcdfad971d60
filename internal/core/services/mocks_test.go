package services

import (
	"context"
	"sync"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
	"github.com/eventry-labs/vendorscout/internal/core/ports/driven"
	"github.com/eventry-labs/vendorscout/internal/dispatch"
)

var (
	_ driven.QueryService     = (*mockQueryService)(nil)
	_ driven.EmbeddingService = (*mockEmbeddingService)(nil)
	_ driven.PlaceService     = (*mockPlaceService)(nil)
	_ driven.VendorStore      = (*mockVendorStore)(nil)
)

// newTestDispatcher returns a dispatcher fast enough that tests never
// wait on the bucket.
func newTestDispatcher(name string) *dispatch.Dispatcher {
	d, err := dispatch.New(dispatch.Config{
		Name:              name,
		RequestsPerSecond: 10000,
		Burst:             1000,
		MaxAttempts:       1,
	})
	if err != nil {
		panic(err)
	}
	return d
}

type mockQueryService struct {
	mu sync.Mutex

	categories    []string
	categoriesErr error
	queries       map[string][]string
	queriesErr    map[string]error
}

func (m *mockQueryService) DeriveCategories(_ context.Context, _ string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.categories, m.categoriesErr
}

func (m *mockQueryService) GenerateSearchQueries(_ context.Context, _, category string, _ int) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.queriesErr[category]; err != nil {
		return nil, err
	}
	return m.queries[category], nil
}

func (m *mockQueryService) ModelName() string { return "mock-llm" }

type mockEmbeddingService struct {
	mu sync.Mutex

	vectors map[string][]float32 // keyed by input text
	fixed   []float32            // returned when vectors is nil
	err     error
	calls   int
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if m.vectors != nil {
		return m.vectors[text], nil
	}
	return m.fixed, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if len(m.fixed) > 0 {
		return len(m.fixed)
	}
	return 2
}

func (m *mockEmbeddingService) ModelName() string { return "mock-embedding" }

func (m *mockEmbeddingService) Ping(_ context.Context) error { return m.err }

type mockPlaceService struct {
	mu sync.Mutex

	searchResults map[string][]domain.PlaceSummary // keyed by query
	searchErr     map[string]error
	details       map[string]*domain.PlaceDetail // keyed by place ID
	detailsErr    map[string]error
}

func (m *mockPlaceService) Search(_ context.Context, query string, _ domain.LocationBias) ([]domain.PlaceSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.searchErr[query]; err != nil {
		return nil, err
	}
	return m.searchResults[query], nil
}

func (m *mockPlaceService) Details(_ context.Context, placeID string) (*domain.PlaceDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.detailsErr[placeID]; err != nil {
		return nil, err
	}
	if d, ok := m.details[placeID]; ok {
		return d, nil
	}
	return nil, domain.ErrNotFound
}

type mockVendorStore struct {
	mu sync.Mutex

	vendors    map[string]domain.Vendor
	upsertErr  map[string]error
	embeddings map[string][]domain.EmbeddingRecord // keyed by category filter
	fetchErr   error
}

func newMockVendorStore() *mockVendorStore {
	return &mockVendorStore{vendors: make(map[string]domain.Vendor)}
}

func (m *mockVendorStore) Upsert(_ context.Context, vendor domain.Vendor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.upsertErr[vendor.ID]; err != nil {
		return err
	}
	m.vendors[vendor.ID] = vendor
	return nil
}

func (m *mockVendorStore) Get(_ context.Context, id string) (*domain.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.vendors[id]; ok {
		return &v, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockVendorStore) List(_ context.Context, category string) ([]domain.Vendor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Vendor
	for _, v := range m.vendors {
		if category == "" || v.Category == category {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *mockVendorStore) FetchEmbeddings(_ context.Context, category string) ([]domain.EmbeddingRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.embeddings[category], nil
}

func (m *mockVendorStore) Close() error { return nil }
