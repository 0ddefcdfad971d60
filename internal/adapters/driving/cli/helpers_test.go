package cli

import (
	"context"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
)

type mockCollectorService struct {
	report *domain.RunReport
	err    error
}

func (m *mockCollectorService) Collect(_ context.Context, eventDescription string) (*domain.RunReport, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.report != nil {
		return m.report, nil
	}
	return &domain.RunReport{
		RunID:            "test-run",
		EventDescription: eventDescription,
		Categories:       []string{"catering"},
		Queries:          map[string][]string{"catering": {"event catering"}},
		Discovered:       3,
		Enriched:         3,
		Stored:           3,
	}, nil
}

type mockPlannerService struct {
	plan    *domain.EventPlan
	vendors []domain.Vendor
	err     error
}

func (m *mockPlannerService) Plan(_ context.Context, eventDescription string, _ int) (*domain.EventPlan, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.plan != nil {
		return m.plan, nil
	}
	return &domain.EventPlan{
		RunID:            "test-run",
		EventDescription: eventDescription,
		TotalMatched:     1,
		Plans: []domain.CategoryPlan{
			{
				Category:    "catering",
				SearchQuery: "event catering",
				Vendors: []domain.RankedVendor{
					{Vendor: domain.Vendor{ID: "p1", Name: "Fig & Olive"}, Score: 0.9, Rank: 1},
				},
			},
		},
	}, nil
}

func (m *mockPlannerService) Vendors(_ context.Context, _ string) ([]domain.Vendor, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.vendors, nil
}

// setupTestServices wires mock services into the command tree and
// returns a cleanup function restoring the previous wiring.
func setupTestServices() func() {
	oldCollector := collectorService
	oldPlanner := plannerService
	collectorService = &mockCollectorService{}
	plannerService = &mockPlannerService{}
	return func() {
		collectorService = oldCollector
		plannerService = oldPlanner
	}
}
