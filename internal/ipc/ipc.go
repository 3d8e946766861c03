// Package ipc adapts patent classification services behind a narrow
// interface that predicts International Patent Classification symbols
// for an invention summary.
package ipc

import "context"

// Prediction is a single classification symbol with its confidence score.
type Prediction struct {
	Symbol string  `json:"symbol"`
	Score  float64 `json:"score"`
}

// Adapter predicts classification symbols for an invention summary.
type Adapter interface {
	// Classify returns predicted symbols ordered by descending confidence.
	Classify(ctx context.Context, summary string) ([]Prediction, error)
}
