package relevance

import (
	"context"
	"fmt"
)

// MockScorer is a Scorer returning fixed scores regardless of input.
type MockScorer struct {
	Result Scores
}

// NewMockScorer creates a MockScorer with moderately relevant scores.
func NewMockScorer() *MockScorer {
	return &MockScorer{
		Result: Scores{Scenario: 0.82, Problem: 0.74},
	}
}

func (m *MockScorer) Score(_ context.Context, _ Subject, _ string) (Scores, error) {
	return m.Result, nil
}

// MockFetcher is a Fetcher serving content from an in-memory map.
// Unknown URLs fall back to Default when set, otherwise error.
type MockFetcher struct {
	Content map[string]string
	Default string
}

// NewMockFetcher creates a MockFetcher with a generic default body.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{
		Content: map[string]string{},
		Default: "Candidate document body describing sensor-driven irrigation control.",
	}
}

func (m *MockFetcher) Fetch(_ context.Context, url string) (string, error) {
	if content, ok := m.Content[url]; ok {
		return content, nil
	}
	if m.Default != "" {
		return m.Default, nil
	}
	return "", fmt.Errorf("no content for %s", url)
}
