// Package relevance scores candidate prior-art documents against an
// invention disclosure on scenario and problem similarity.
package relevance

import "context"

// Scores holds the two scoring axes for a candidate document.
// Both values fall in [0.0, 1.0].
type Scores struct {
	Scenario float64 `json:"scenario"`
	Problem  float64 `json:"problem"`
}

// Subject is the invention side of a relevance comparison: the
// technical summary describing the deployment scenario and the
// normalized problem statement. The two views are judged on separate
// axes, so both must reach the scorer.
type Subject struct {
	Scenario string `json:"scenario"`
	Problem  string `json:"problem"`
}

// Scorer evaluates a candidate document against the invention subject.
type Scorer interface {
	Score(ctx context.Context, subject Subject, content string) (Scores, error)
}

// Fetcher retrieves document text for a candidate URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}
