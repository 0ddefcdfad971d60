package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
)

// PlanInput is the input schema for the plan_event tool.
type PlanInput struct {
	Event string `json:"event" jsonschema:"the event description to find vendors for"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum vendors per category (default 20)"`
}

// PlanOutput is the output schema for the plan_event tool.
type PlanOutput struct {
	Categories []CategoryOutput `json:"categories"`
	Matched    int              `json:"matched"`
	Failures   []string         `json:"failures,omitempty"`
}

// CategoryOutput is the ranking for one vendor category.
type CategoryOutput struct {
	Category string         `json:"category"`
	Query    string         `json:"query"`
	Vendors  []VendorOutput `json:"vendors"`
}

// VendorOutput represents one ranked vendor.
type VendorOutput struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Address     string  `json:"address,omitempty"`
	Rating      float64 `json:"rating,omitempty"`
	RatingCount int     `json:"rating_count,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Website     string  `json:"website,omitempty"`
	MapsURI     string  `json:"maps_uri,omitempty"`
	Specialties string  `json:"specialties,omitempty"`
	Score       float64 `json:"score,omitempty"`
	Rank        int     `json:"rank,omitempty"`
}

// ListVendorsInput is the input schema for the list_vendors tool.
type ListVendorsInput struct {
	Category string `json:"category,omitempty" jsonschema:"optional category filter, e.g. catering"`
}

// ListVendorsOutput is the output schema for the list_vendors tool.
type ListVendorsOutput struct {
	Vendors []VendorOutput `json:"vendors"`
	Count   int            `json:"count"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "plan_event",
		Description: "Rank stored vendors against an event description, per category",
	}, s.handlePlan)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_vendors",
		Description: "List stored vendors, optionally filtered by category",
	}, s.handleListVendors)
}

// handlePlan handles the plan_event tool invocation.
func (s *Server) handlePlan(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input PlanInput,
) (*mcp.CallToolResult, PlanOutput, error) {
	plan, err := s.ports.Planner.Plan(ctx, input.Event, input.TopK)
	if err != nil {
		return nil, PlanOutput{}, err
	}

	output := PlanOutput{
		Categories: make([]CategoryOutput, len(plan.Plans)),
		Matched:    plan.TotalMatched,
	}
	for i := range plan.Plans {
		cp := &plan.Plans[i]
		co := CategoryOutput{
			Category: cp.Category,
			Query:    cp.SearchQuery,
			Vendors:  make([]VendorOutput, len(cp.Vendors)),
		}
		for j := range cp.Vendors {
			rv := &cp.Vendors[j]
			co.Vendors[j] = vendorOutput(rv.Vendor)
			co.Vendors[j].Score = rv.Score
			co.Vendors[j].Rank = rv.Rank
		}
		output.Categories[i] = co
	}
	for _, f := range plan.Failures {
		output.Failures = append(output.Failures, f.Stage+"/"+f.Key+": "+f.Reason)
	}

	return nil, output, nil
}

// handleListVendors handles the list_vendors tool invocation.
func (s *Server) handleListVendors(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListVendorsInput,
) (*mcp.CallToolResult, ListVendorsOutput, error) {
	vendors, err := s.ports.Planner.Vendors(ctx, input.Category)
	if err != nil {
		return nil, ListVendorsOutput{}, err
	}

	output := ListVendorsOutput{
		Vendors: make([]VendorOutput, len(vendors)),
		Count:   len(vendors),
	}
	for i := range vendors {
		output.Vendors[i] = vendorOutput(vendors[i])
	}
	return nil, output, nil
}

func vendorOutput(v domain.Vendor) VendorOutput {
	return VendorOutput{
		ID:          v.ID,
		Name:        v.Name,
		Category:    v.Category,
		Address:     v.FormattedAddress,
		Rating:      v.Rating,
		RatingCount: v.UserRatingCount,
		Phone:       v.NationalPhone,
		Website:     v.WebsiteURI,
		MapsURI:     v.GoogleMapsURI,
		Specialties: v.Specialties,
	}
}
