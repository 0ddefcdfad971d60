package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
	"github.com/eventry-labs/vendorscout/internal/core/ports/driven"
	"github.com/eventry-labs/vendorscout/internal/core/ports/driving"
	"github.com/eventry-labs/vendorscout/internal/dispatch"
	"github.com/eventry-labs/vendorscout/internal/logger"
)

// Ensure Collector implements the interface.
var _ driving.CollectorService = (*Collector)(nil)

// Collector runs the vendor collection pipeline. Each stage submits a
// batch through its service's dispatcher and waits for the batch to
// drain before the next stage starts; stage boundaries are the only
// synchronisation points.
type Collector struct {
	queries driven.QueryService
	places  driven.PlaceService
	embed   driven.EmbeddingService
	store   driven.VendorStore

	queryDisp  *dispatch.Dispatcher
	searchDisp *dispatch.Dispatcher
	detailDisp *dispatch.Dispatcher
	embedDisp  *dispatch.Dispatcher

	settings  domain.Settings
	backupDir string
}

// NewCollector creates a collector. backupDir receives a JSON snapshot
// of each run's vendors; empty disables backups.
func NewCollector(
	queries driven.QueryService,
	places driven.PlaceService,
	embed driven.EmbeddingService,
	store driven.VendorStore,
	queryDisp *dispatch.Dispatcher,
	searchDisp *dispatch.Dispatcher,
	detailDisp *dispatch.Dispatcher,
	embedDisp *dispatch.Dispatcher,
	settings domain.Settings,
	backupDir string,
) *Collector {
	return &Collector{
		queries:    queries,
		places:     places,
		embed:      embed,
		store:      store,
		queryDisp:  queryDisp,
		searchDisp: searchDisp,
		detailDisp: detailDisp,
		embedDisp:  embedDisp,
		settings:   settings.Normalised(),
		backupDir:  backupDir,
	}
}

// Collect discovers, enriches, and stores vendors for an event
// description. Per-item failures accumulate in the report; only
// missing collaborators fail the call itself.
func (c *Collector) Collect(ctx context.Context, eventDescription string) (*domain.RunReport, error) {
	if eventDescription == "" {
		return nil, fmt.Errorf("event description: %w", domain.ErrInvalidInput)
	}
	if c.queries == nil {
		return nil, domain.ErrQueryServiceUnavailable
	}
	if c.places == nil {
		return nil, domain.ErrPlaceServiceUnavailable
	}
	if c.embed == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if c.store == nil {
		return nil, domain.ErrStoreUnavailable
	}

	report := &domain.RunReport{
		RunID:            uuid.NewString(),
		EventDescription: eventDescription,
		Queries:          make(map[string][]string),
		StartedAt:        time.Now(),
	}
	defer func() { report.FinishedAt = time.Now() }()

	// Stage 1: derive vendor categories.
	logger.Section("Deriving vendor categories")
	categories := c.deriveCategories(ctx, eventDescription, report)
	if len(categories) == 0 {
		return report, nil
	}
	report.Categories = categories
	logger.Info("Derived %d categories: %v", len(categories), categories)

	// Stage 2: generate search queries per category.
	logger.Section("Generating search queries")
	c.generateQueries(ctx, eventDescription, categories, report)

	// Stage 3: search places, deduplicating by place ID across
	// categories. The first category to find a place keeps it.
	logger.Section("Searching places")
	discovered := c.searchPlaces(ctx, report)
	report.Discovered = len(discovered)
	logger.Info("Discovered %d unique places", len(discovered))

	// Stage 4: fetch details and build vendor records.
	logger.Section("Fetching place details")
	vendors := c.fetchDetails(ctx, discovered, report)

	// Stage 5: embed vendor descriptions.
	logger.Section("Generating embeddings")
	c.embedVendors(ctx, vendors, report)

	// Stage 6: persist. Writes are keyed by vendor ID, and this stage
	// only starts once every embedding worker has finished.
	logger.Section("Persisting vendors")
	c.persist(ctx, vendors, report)

	c.writeBackup(vendors, report)

	logger.Info("Run %s complete: %d discovered, %d enriched, %d stored, %d failures",
		report.RunID, report.Discovered, report.Enriched, report.Stored, len(report.Failures))
	return report, nil
}

func (c *Collector) deriveCategories(ctx context.Context, eventDescription string, report *domain.RunReport) []string {
	results := dispatch.Submit(ctx, c.queryDisp, []dispatch.Task[[]string]{{
		Key: "categories",
		Do: func(ctx context.Context) ([]string, error) {
			return c.queries.DeriveCategories(ctx, eventDescription)
		},
	}})

	if results[0].Err != nil {
		report.Failures = append(report.Failures, domain.Failure{
			Stage:  domain.StageCategories,
			Key:    "categories",
			Reason: results[0].Err.Error(),
		})
		return nil
	}
	return results[0].Value
}

func (c *Collector) generateQueries(ctx context.Context, eventDescription string, categories []string, report *domain.RunReport) {
	tasks := make([]dispatch.Task[[]string], 0, len(categories))
	for _, category := range categories {
		tasks = append(tasks, dispatch.Task[[]string]{
			Key: category,
			Do: func(ctx context.Context) ([]string, error) {
				return c.queries.GenerateSearchQueries(ctx, eventDescription, category, c.settings.QueriesPerCategory)
			},
		})
	}

	for _, res := range dispatch.Submit(ctx, c.queryDisp, tasks) {
		if res.Err != nil {
			report.Failures = append(report.Failures, domain.Failure{
				Stage:  domain.StageQueries,
				Key:    res.Key,
				Reason: res.Err.Error(),
			})
			continue
		}
		report.Queries[res.Key] = res.Value
	}
}

// categorisedPlace carries the category a place was discovered under
// through the detail and embedding stages.
type categorisedPlace struct {
	category string
	place    domain.PlaceSummary
}

func (c *Collector) searchPlaces(ctx context.Context, report *domain.RunReport) []categorisedPlace {
	type queryKey struct{ category, query string }

	var tasks []dispatch.Task[[]domain.PlaceSummary]
	keys := make(map[string]queryKey)
	for _, category := range report.Categories {
		for _, query := range report.Queries[category] {
			key := category + "/" + query
			keys[key] = queryKey{category: category, query: query}
			tasks = append(tasks, dispatch.Task[[]domain.PlaceSummary]{
				Key: key,
				Do: func(ctx context.Context) ([]domain.PlaceSummary, error) {
					return c.places.Search(ctx, query, c.settings.Location)
				},
			})
		}
	}

	seen := make(map[string]bool)
	var discovered []categorisedPlace
	for _, res := range dispatch.Submit(ctx, c.searchDisp, tasks) {
		if res.Err != nil {
			report.Failures = append(report.Failures, domain.Failure{
				Stage:  domain.StageSearch,
				Key:    res.Key,
				Reason: res.Err.Error(),
			})
			continue
		}
		for _, place := range res.Value {
			if place.ID == "" || seen[place.ID] {
				continue
			}
			seen[place.ID] = true
			discovered = append(discovered, categorisedPlace{
				category: keys[res.Key].category,
				place:    place,
			})
		}
	}
	return discovered
}

func (c *Collector) fetchDetails(ctx context.Context, discovered []categorisedPlace, report *domain.RunReport) []*domain.Vendor {
	categories := make(map[string]string, len(discovered))
	tasks := make([]dispatch.Task[*domain.PlaceDetail], 0, len(discovered))
	for _, cp := range discovered {
		categories[cp.place.ID] = cp.category
		tasks = append(tasks, dispatch.Task[*domain.PlaceDetail]{
			Key: cp.place.ID,
			Do: func(ctx context.Context) (*domain.PlaceDetail, error) {
				return c.places.Details(ctx, cp.place.ID)
			},
		})
	}

	now := time.Now()
	var vendors []*domain.Vendor
	for _, res := range dispatch.Submit(ctx, c.detailDisp, tasks) {
		if res.Err != nil {
			report.Failures = append(report.Failures, domain.Failure{
				Stage:  domain.StageDetails,
				Key:    res.Key,
				Reason: res.Err.Error(),
			})
			continue
		}
		vendor := domain.FromPlaceDetail(categories[res.Key], *res.Value, now)
		vendors = append(vendors, &vendor)
	}
	return vendors
}

func (c *Collector) embedVendors(ctx context.Context, vendors []*domain.Vendor, report *domain.RunReport) {
	byID := make(map[string]*domain.Vendor, len(vendors))
	tasks := make([]dispatch.Task[[]float32], 0, len(vendors))
	for _, vendor := range vendors {
		byID[vendor.ID] = vendor
		text := vendor.EmbeddingText()
		tasks = append(tasks, dispatch.Task[[]float32]{
			Key: vendor.ID,
			Do: func(ctx context.Context) ([]float32, error) {
				return c.embed.Embed(ctx, text)
			},
		})
	}

	for _, res := range dispatch.Submit(ctx, c.embedDisp, tasks) {
		if res.Err != nil {
			report.Failures = append(report.Failures, domain.Failure{
				Stage:  domain.StageEmbed,
				Key:    res.Key,
				Reason: res.Err.Error(),
			})
			continue
		}
		if len(res.Value) != c.settings.Dimensions {
			report.Failures = append(report.Failures, domain.Failure{
				Stage:  domain.StageEmbed,
				Key:    res.Key,
				Reason: fmt.Sprintf("%v: got %d dimensions, want %d", domain.ErrDimensionMismatch, len(res.Value), c.settings.Dimensions),
			})
			continue
		}
		byID[res.Key].Embedding = res.Value
		report.Enriched++
	}
}

func (c *Collector) persist(ctx context.Context, vendors []*domain.Vendor, report *domain.RunReport) {
	for _, vendor := range vendors {
		if err := c.store.Upsert(ctx, *vendor); err != nil {
			report.Failures = append(report.Failures, domain.Failure{
				Stage:  domain.StagePersist,
				Key:    vendor.ID,
				Reason: err.Error(),
			})
			continue
		}
		report.Stored++
	}
}

// backupVendor is the JSON shape of the per-run snapshot. Embeddings
// are elided; only their dimensionality is recorded.
type backupVendor struct {
	domain.Vendor
	Embedding  any `json:"Embedding,omitempty"`
	Dimensions int `json:"EmbeddingDimensions,omitempty"`
}

func (c *Collector) writeBackup(vendors []*domain.Vendor, report *domain.RunReport) {
	if c.backupDir == "" || len(vendors) == 0 {
		return
	}

	snapshot := make([]backupVendor, 0, len(vendors))
	for _, vendor := range vendors {
		snapshot = append(snapshot, backupVendor{
			Vendor:     *vendor,
			Dimensions: len(vendor.Embedding),
		})
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		logger.Warn("backup: marshal failed: %v", err)
		return
	}

	name := fmt.Sprintf("vendors_%s_%s.json", report.StartedAt.Format("20060102_150405"), report.RunID[:8])
	path := filepath.Join(c.backupDir, name)
	if err := os.WriteFile(path, data, 0600); err != nil {
		logger.Warn("backup: write %s failed: %v", path, err)
		return
	}
	logger.Info("Backup saved to %s", path)
}
