package search

import "context"

// Mock is an Adapter returning canned results regardless of query.
type Mock struct {
	Results []Result
}

// NewMock creates a Mock preloaded with candidate documents for a smart
// irrigation disclosure.
func NewMock() *Mock {
	return &Mock{
		Results: []Result{
			{
				URL:     "https://patents.example.com/US10342189",
				Title:   "Sensor-based irrigation control system",
				Content: "An irrigation controller receives soil moisture telemetry from distributed wireless probes and actuates zone valves when readings fall below configurable thresholds.",
				Score:   0.91,
			},
			{
				URL:     "https://patents.example.com/US9872776",
				Title:   "Wireless soil monitoring network",
				Content: "A mesh network of capacitive soil sensors reports moisture and temperature to a gateway for agronomic analysis.",
				Score:   0.84,
			},
			{
				URL:     "https://patents.example.com/EP3113590",
				Title:   "Water distribution scheduling for greenhouses",
				Content: "A scheduling engine allocates water delivery windows across greenhouse zones based on plant growth stage models.",
				Score:   0.72,
			},
		},
	}
}

func (m *Mock) Discover(_ context.Context, _ string, limit int) ([]Result, error) {
	if limit >= len(m.Results) {
		return m.Results, nil
	}
	return m.Results[:limit], nil
}
