package ipc

import "context"

// Mock is an Adapter returning canned predictions regardless of input.
type Mock struct {
	Predictions []Prediction
}

// NewMock creates a Mock preloaded with classification symbols for a
// smart irrigation disclosure.
func NewMock() *Mock {
	return &Mock{
		Predictions: []Prediction{
			{Symbol: "A01G25/16", Score: 0.95},
			{Symbol: "G05B15/02", Score: 0.87},
			{Symbol: "H04L12/28", Score: 0.82},
		},
	}
}

func (m *Mock) Classify(_ context.Context, _ string) ([]Prediction, error) {
	return m.Predictions, nil
}
