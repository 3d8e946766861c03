// Package inference adapts language model providers behind a narrow
// completion interface consumed by the extraction pipeline.
package inference

import (
	"context"

	"github.com/ng-vanquang/priorart-p-dev/internal/prompts"
	"github.com/ng-vanquang/priorart-p-dev/pkg/formatting"
)

// Adapter produces raw model completions for composed stage prompts.
type Adapter interface {
	// Model returns the name of the model serving completions.
	Model() string
	// Complete sends a composed prompt for the given stage and returns
	// the raw model output.
	Complete(ctx context.Context, stage prompts.Stage, prompt string) (string, error)
}

// Infer completes a prompt and parses the response into T.
// Parsing is strict first (unknown fields rejected), falling back to
// lenient extraction for responses wrapped in markdown fencing or prose.
func Infer[T any](
	ctx context.Context,
	adapter Adapter,
	stage prompts.Stage,
	prompt string,
) (T, error) {
	raw, err := adapter.Complete(ctx, stage, prompt)
	if err != nil {
		var zero T
		return zero, err
	}

	parsed, err := formatting.ParseStrict[T](raw)
	if err == nil {
		return parsed, nil
	}

	return formatting.Parse[T](raw)
}
