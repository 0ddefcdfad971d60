package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
	"github.com/eventry-labs/vendorscout/internal/core/ports/driven"
	"github.com/eventry-labs/vendorscout/internal/core/ports/driving"
	"github.com/eventry-labs/vendorscout/internal/dispatch"
	"github.com/eventry-labs/vendorscout/internal/logger"
	"github.com/eventry-labs/vendorscout/internal/similarity"
)

// Ensure Planner implements the interface.
var _ driving.PlannerService = (*Planner)(nil)

// Planner matches event descriptions against the stored vendor corpus:
// derive categories, generate one query per category, embed the
// queries, and rank each category's corpus by cosine similarity.
type Planner struct {
	queries driven.QueryService
	embed   driven.EmbeddingService
	store   driven.VendorStore

	queryDisp *dispatch.Dispatcher
	embedDisp *dispatch.Dispatcher

	settings domain.Settings
}

// NewPlanner creates a planner.
func NewPlanner(
	queries driven.QueryService,
	embed driven.EmbeddingService,
	store driven.VendorStore,
	queryDisp *dispatch.Dispatcher,
	embedDisp *dispatch.Dispatcher,
	settings domain.Settings,
) *Planner {
	return &Planner{
		queries:   queries,
		embed:     embed,
		store:     store,
		queryDisp: queryDisp,
		embedDisp: embedDisp,
		settings:  settings.Normalised(),
	}
}

// Plan produces per-category vendor rankings for an event description.
// Categories whose query generation, embedding, or ranking fails are
// reported in the plan's failure manifest; the remaining categories
// still rank.
func (p *Planner) Plan(ctx context.Context, eventDescription string, topK int) (*domain.EventPlan, error) {
	if eventDescription == "" {
		return nil, fmt.Errorf("event description: %w", domain.ErrInvalidInput)
	}
	if p.queries == nil {
		return nil, domain.ErrQueryServiceUnavailable
	}
	if p.embed == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if p.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if topK <= 0 {
		topK = p.settings.TopK
	}

	plan := &domain.EventPlan{
		RunID:            uuid.NewString(),
		EventDescription: eventDescription,
	}

	logger.Section("Deriving vendor categories")
	categories := p.deriveCategories(ctx, eventDescription, plan)
	if len(categories) == 0 {
		return plan, nil
	}
	logger.Info("Planning for categories: %v", categories)

	logger.Section("Generating search queries")
	queries := p.generateQueries(ctx, eventDescription, categories, plan)

	logger.Section("Embedding queries")
	vectors := p.embedQueries(ctx, queries, plan)

	logger.Section("Ranking vendors")
	for _, category := range categories {
		vector, ok := vectors[category]
		if !ok {
			continue
		}
		categoryPlan, err := p.rankCategory(ctx, category, queries[category], vector, topK)
		if err != nil {
			plan.Failures = append(plan.Failures, domain.Failure{
				Stage:  domain.StageRank,
				Key:    category,
				Reason: err.Error(),
			})
			continue
		}
		plan.Plans = append(plan.Plans, *categoryPlan)
		plan.TotalMatched += len(categoryPlan.Vendors)
	}

	return plan, nil
}

// Vendors lists stored vendors, optionally filtered by category.
func (p *Planner) Vendors(ctx context.Context, category string) ([]domain.Vendor, error) {
	if p.store == nil {
		return nil, domain.ErrStoreUnavailable
	}
	return p.store.List(ctx, category)
}

func (p *Planner) deriveCategories(ctx context.Context, eventDescription string, plan *domain.EventPlan) []string {
	results := dispatch.Submit(ctx, p.queryDisp, []dispatch.Task[[]string]{{
		Key: "categories",
		Do: func(ctx context.Context) ([]string, error) {
			return p.queries.DeriveCategories(ctx, eventDescription)
		},
	}})

	if results[0].Err != nil {
		plan.Failures = append(plan.Failures, domain.Failure{
			Stage:  domain.StageCategories,
			Key:    "categories",
			Reason: results[0].Err.Error(),
		})
		return nil
	}
	return results[0].Value
}

func (p *Planner) generateQueries(ctx context.Context, eventDescription string, categories []string, plan *domain.EventPlan) map[string]string {
	tasks := make([]dispatch.Task[[]string], 0, len(categories))
	for _, category := range categories {
		tasks = append(tasks, dispatch.Task[[]string]{
			Key: category,
			Do: func(ctx context.Context) ([]string, error) {
				return p.queries.GenerateSearchQueries(ctx, eventDescription, category, 1)
			},
		})
	}

	queries := make(map[string]string, len(categories))
	for _, res := range dispatch.Submit(ctx, p.queryDisp, tasks) {
		if res.Err != nil || len(res.Value) == 0 {
			reason := "no query generated"
			if res.Err != nil {
				reason = res.Err.Error()
			}
			plan.Failures = append(plan.Failures, domain.Failure{
				Stage:  domain.StageQueries,
				Key:    res.Key,
				Reason: reason,
			})
			continue
		}
		queries[res.Key] = res.Value[0]
		logger.Debug("%s: query %q", res.Key, res.Value[0])
	}
	return queries
}

func (p *Planner) embedQueries(ctx context.Context, queries map[string]string, plan *domain.EventPlan) map[string][]float32 {
	tasks := make([]dispatch.Task[[]float32], 0, len(queries))
	for category, query := range queries {
		tasks = append(tasks, dispatch.Task[[]float32]{
			Key: category,
			Do: func(ctx context.Context) ([]float32, error) {
				return p.embed.Embed(ctx, query)
			},
		})
	}

	vectors := make(map[string][]float32, len(queries))
	for _, res := range dispatch.Submit(ctx, p.embedDisp, tasks) {
		if res.Err != nil {
			plan.Failures = append(plan.Failures, domain.Failure{
				Stage:  domain.StageEmbed,
				Key:    res.Key,
				Reason: res.Err.Error(),
			})
			continue
		}
		vectors[res.Key] = res.Value
	}
	return vectors
}

// rankCategory ranks the category's corpus against the query vector.
// Categories with no stored vendors fall back to the full corpus, so
// a sparsely collected store still yields recommendations.
func (p *Planner) rankCategory(ctx context.Context, category, query string, vector []float32, topK int) (*domain.CategoryPlan, error) {
	corpus, err := p.store.FetchEmbeddings(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("fetch embeddings: %w", err)
	}
	if len(corpus) == 0 {
		logger.Debug("%s: no category corpus, ranking over all vendors", category)
		corpus, err = p.store.FetchEmbeddings(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("fetch embeddings: %w", err)
		}
	}

	results, excluded, err := similarity.Rank(vector, corpus, topK)
	if err != nil {
		return nil, err
	}
	for _, f := range excluded {
		logger.Warn("%s: excluded %s from ranking: %s", category, f.Key, f.Reason)
	}

	categoryPlan := &domain.CategoryPlan{
		Category:    category,
		SearchQuery: query,
	}
	for _, hit := range results {
		vendor, err := p.store.Get(ctx, hit.ID)
		if err != nil {
			logger.Warn("%s: ranked vendor %s not loadable: %v", category, hit.ID, err)
			continue
		}
		categoryPlan.Vendors = append(categoryPlan.Vendors, domain.RankedVendor{
			Vendor: *vendor,
			Score:  hit.Score,
			Rank:   hit.Rank,
		})
	}
	return categoryPlan, nil
}
