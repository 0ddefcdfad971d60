// Package gemini provides a query-generation adapter using the Gemini API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/eventry-labs/vendorscout/internal/core/domain"
	"github.com/eventry-labs/vendorscout/internal/core/ports/driven"
)

// Ensure QueryService implements the interface.
var _ driven.QueryService = (*QueryService)(nil)

// DefaultModel is the generative model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// maxCategories caps how many vendor categories one event derives.
const maxCategories = 6

// QueryService turns event descriptions into vendor categories and
// search queries using a Gemini generative model.
type QueryService struct {
	client *genai.Client
	model  string
}

// NewQueryService creates a Gemini query service.
// client: genai.Client from google.golang.org/genai
// model: the generative model to use; empty selects DefaultModel.
func NewQueryService(client *genai.Client, model string) *QueryService {
	if model == "" {
		model = DefaultModel
	}
	return &QueryService{client: client, model: model}
}

// DeriveCategories asks the model which vendor categories the event
// needs and parses them from a one-per-line response.
func (s *QueryService) DeriveCategories(ctx context.Context, eventDescription string) ([]string, error) {
	prompt := fmt.Sprintf(`You are an expert event planner. List the vendor categories needed to organise the following event.

Event description: %q

Rules:
- One category per line, lowercase, one or two words (e.g. "decoration", "catering", "venue", "photography").
- Only categories a vendor marketplace would have.
- At most %d categories, most important first.
- Return ONLY the category lines, nothing else.`, eventDescription, maxCategories)

	text, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	categories := parseLines(text, maxCategories)
	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories in response: %w", domain.ErrContentRejected)
	}
	return categories, nil
}

// GenerateSearchQueries asks the model for up to n vendor search
// queries for one category, optimised for embedding similarity search.
func (s *QueryService) GenerateSearchQueries(ctx context.Context, eventDescription, category string, n int) ([]string, error) {
	if n <= 0 {
		n = 1
	}
	prompt := fmt.Sprintf(`You are an expert event planner. Generate %d search queries for finding %q vendors for the following event.

Event description: %q

Rules:
- One query per line, each a short phrase of service keywords vendors would use to describe themselves.
- Queries are matched against vendor descriptions by embedding similarity, so favour descriptive keywords over questions.
- Return ONLY the query lines, nothing else.

Example for a superhero birthday party, category "decoration":
superhero themed birthday party decorations balloons
children party decoration backdrop setup`, n, category, eventDescription)

	text, err := s.generate(ctx, prompt)
	if err != nil {
		return nil, err
	}

	queries := parseLines(text, n)
	if len(queries) == 0 {
		return nil, fmt.Errorf("no queries in response: %w", domain.ErrContentRejected)
	}
	return queries, nil
}

// ModelName returns the generative model in use.
func (s *QueryService) ModelName() string {
	return s.model
}

// generate runs one prompt through the model and returns the text of
// the first candidate.
func (s *QueryService) generate(ctx context.Context, prompt string) (string, error) {
	content := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}

	resp, err := s.client.Models.GenerateContent(ctx, s.model, []*genai.Content{content}, &genai.GenerateContentConfig{})
	if err != nil {
		return "", classify(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		// An empty candidate list means the prompt was blocked, not a
		// service fault; retrying the same prompt cannot help.
		return "", fmt.Errorf("empty response: %w", domain.ErrContentRejected)
	}

	text := strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text)
	if text == "" {
		return "", fmt.Errorf("blank candidate: %w", domain.ErrContentRejected)
	}
	return text, nil
}

// classify maps API errors onto the domain taxonomy: quota errors are
// retryable after backoff, client errors are permanent.
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

// parseLines extracts up to max non-empty lines, stripping list
// markers the model sometimes adds despite instructions.
func parseLines(text string, max int) []string {
	var out []string
	seen := make(map[string]bool)
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		line = strings.TrimLeft(line, "-*0123456789. ")
		line = strings.Trim(line, "\"`")
		if line == "" || seen[strings.ToLower(line)] {
			continue
		}
		seen[strings.ToLower(line)] = true
		out = append(out, line)
		if len(out) == max {
			break
		}
	}
	return out
}
