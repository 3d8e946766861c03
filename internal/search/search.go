// Package search adapts web search providers behind a narrow discovery
// interface used to retrieve candidate prior-art documents.
package search

import "context"

// Result is a single candidate document returned by a search provider.
type Result struct {
	URL     string  `json:"url"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// Adapter discovers candidate documents for a search query.
type Adapter interface {
	// Discover returns up to limit results for the query, ordered by
	// provider relevance.
	Discover(ctx context.Context, query string, limit int) ([]Result, error)
}
