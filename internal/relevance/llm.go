package relevance

import (
	"context"
	"fmt"

	"github.com/ng-vanquang/priorart-p-dev/internal/inference"
	"github.com/ng-vanquang/priorart-p-dev/internal/prompts"
	"github.com/ng-vanquang/priorart-p-dev/pkg/formatting"
)

type scorePayload struct {
	Scenario string `json:"scenario"`
	Problem  string `json:"problem"`
	Document string `json:"document"`
}

type scoreResponse struct {
	Scenario  float64 `json:"scenario"`
	Problem   float64 `json:"problem"`
	Rationale string  `json:"rationale"`
}

func (r scoreResponse) Validate() error {
	if r.Scenario < 0 || r.Scenario > 1 {
		return fmt.Errorf("%w: scenario score %f outside [0,1]", formatting.ErrParseFailed, r.Scenario)
	}
	if r.Problem < 0 || r.Problem > 1 {
		return fmt.Errorf("%w: problem score %f outside [0,1]", formatting.ErrParseFailed, r.Problem)
	}
	return nil
}

// LLM is a Scorer backed by a language model. Each call composes the
// relevance stage prompt with both invention views and the document
// text as payload.
type LLM struct {
	adapter inference.Adapter
	prompts prompts.Source
}

// NewLLM creates an LLM scorer with the given inference adapter and
// prompt system.
func NewLLM(adapter inference.Adapter, ps prompts.Source) *LLM {
	return &LLM{
		adapter: adapter,
		prompts: ps,
	}
}

func (l *LLM) Score(ctx context.Context, subject Subject, content string) (Scores, error) {
	prompt, err := prompts.Compose(ctx, l.prompts, prompts.StageRelevance, scorePayload{
		Scenario: subject.Scenario,
		Problem:  subject.Problem,
		Document: content,
	})
	if err != nil {
		return Scores{}, err
	}

	resp, err := inference.Infer[scoreResponse](ctx, l.adapter, prompts.StageRelevance, prompt)
	if err != nil {
		return Scores{}, err
	}

	return Scores{
		Scenario: resp.Scenario,
		Problem:  resp.Problem,
	}, nil
}
