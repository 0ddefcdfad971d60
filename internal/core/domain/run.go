package domain

import "time"

// Pipeline stages, used to attribute failures in run reports.
const (
	StageCategories = "categories"
	StageQueries    = "queries"
	StageSearch     = "search"
	StageDetails    = "details"
	StageEmbed      = "embed"
	StagePersist    = "persist"
	StageRank       = "rank"
)

// Failure records one failed item in a pipeline run. Failures never
// abort the run; they are collected into the run's manifest.
type Failure struct {
	// Stage is the pipeline stage the failure occurred in.
	Stage string

	// Key identifies the failed item: a category, a search query,
	// a place ID, or a vendor ID depending on the stage.
	Key string

	// Reason is the error message.
	Reason string
}

// RunReport is the manifest of a collector run: counts per stage plus
// every per-item failure. A run always completes with best-effort
// results and this explicit failure list.
type RunReport struct {
	// RunID uniquely identifies the run.
	RunID string

	// EventDescription is the event the collection was driven by.
	EventDescription string

	// Categories are the vendor categories derived for the event.
	Categories []string

	// Queries maps each category to its generated search queries.
	Queries map[string][]string

	// Discovered is the number of unique places found across queries.
	Discovered int

	// Enriched is the number of vendors that received an embedding.
	Enriched int

	// Stored is the number of vendors persisted to the store.
	Stored int

	// Failures lists every per-item failure, attributed to its stage.
	Failures []Failure

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time
	FinishedAt time.Time
}

// Failed reports whether the run recorded any per-item failures.
func (r *RunReport) Failed() bool {
	return len(r.Failures) > 0
}

// RankedVendor pairs a vendor with its similarity ranking.
type RankedVendor struct {
	Vendor Vendor

	// Score is the cosine similarity to the event query.
	Score float64

	// Rank is the 1-based position within the category.
	Rank int
}

// CategoryPlan is the planner output for one vendor category.
type CategoryPlan struct {
	// Category is the vendor category.
	Category string

	// SearchQuery is the generated, embedding-optimised query.
	SearchQuery string

	// Vendors are the top-k matches, descending by score.
	Vendors []RankedVendor
}

// EventPlan is the planner output: per-category vendor rankings for an
// event description, plus the failure manifest for stages that
// partially failed.
type EventPlan struct {
	// RunID uniquely identifies the planning run.
	RunID string

	// EventDescription is the user's event description.
	EventDescription string

	// Plans holds one entry per derived category.
	Plans []CategoryPlan

	// TotalMatched is the total number of vendors ranked across
	// categories.
	TotalMatched int

	// Failures lists categories or stages that failed.
	Failures []Failure
}
