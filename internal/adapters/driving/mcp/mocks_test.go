package mcp

import (
	"context"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
	"github.com/eventry-labs/vendorscout/internal/core/ports/driving"
)

var _ driving.PlannerService = (*mockPlannerService)(nil)

type mockPlannerService struct {
	plan    *domain.EventPlan
	vendors []domain.Vendor
	err     error

	lastTopK     int
	lastCategory string
}

func (m *mockPlannerService) Plan(_ context.Context, eventDescription string, topK int) (*domain.EventPlan, error) {
	m.lastTopK = topK
	if m.err != nil {
		return nil, m.err
	}
	if m.plan == nil {
		return &domain.EventPlan{EventDescription: eventDescription}, nil
	}
	return m.plan, nil
}

func (m *mockPlannerService) Vendors(_ context.Context, category string) ([]domain.Vendor, error) {
	m.lastCategory = category
	if m.err != nil {
		return nil, m.err
	}
	return m.vendors, nil
}
