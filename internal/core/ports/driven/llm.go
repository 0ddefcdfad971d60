package driven

import "context"

// QueryService turns event descriptions into vendor categories and
// embedding-optimised search queries via a generative model.
//
// Failure modes split into transient errors (timeouts, throttling,
// 5xx-equivalents), which the dispatch layer retries, and content
// rejection (domain.ErrContentRejected), which it does not.
//
// Implementations may include:
//   - Gemini (gemini-2.5-flash and later)
//   - Any OpenAI-compatible completion endpoint
type QueryService interface {
	// DeriveCategories analyses an event description and returns the
	// vendor categories the event needs (e.g. "decoration",
	// "catering", "venue").
	DeriveCategories(ctx context.Context, eventDescription string) ([]string, error)

	// GenerateSearchQueries produces up to n concise search queries
	// for finding vendors of the given category for the event. The
	// queries are optimised for embedding similarity search, not web
	// search.
	GenerateSearchQueries(ctx context.Context, eventDescription, category string, n int) ([]string, error)

	// ModelName returns the name of the generative model in use.
	ModelName() string
}
