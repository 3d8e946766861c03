package extraction

import (
	"context"
	"fmt"

	"github.com/ng-vanquang/priorart-p-dev/internal/inference"
	"github.com/ng-vanquang/priorart-p-dev/internal/prompts"
	"github.com/ng-vanquang/priorart-p-dev/pkg/formatting"
)

type queriesPayload struct {
	Problem          string              `json:"problem"`
	SeedKeywords     SeedKeywords        `json:"seed_keywords"`
	ExpandedKeywords map[string][]string `json:"expanded_keywords,omitempty"`
	Classifications  []CategoryScore     `json:"classifications,omitempty"`
}

type queriesResponse struct {
	Queries []string `json:"queries"`
}

func (r queriesResponse) Validate() error {
	if r.Queries == nil {
		return fmt.Errorf("%w: missing queries", formatting.ErrParseFailed)
	}
	return nil
}

// queriesStage composes search query strings from the validated and
// expanded keyword set, the predicted patent categories, and the
// normalized problem view.
type queriesStage struct {
	adapter inference.Adapter
	prompts prompts.Source
}

func newQueriesStage(adapter inference.Adapter, ps prompts.Source) Stage {
	return queriesStage{adapter: adapter, prompts: ps}
}

func (queriesStage) Phase() Phase { return PhaseGeneratingQueries }

func (queriesStage) Reads() []Field {
	return []Field{
		FieldNormalizedProblem,
		FieldSeedKeywords,
		FieldExpandedKeywords,
		FieldClassificationScores,
	}
}

func (queriesStage) Writes() []Field {
	return []Field{FieldQueries}
}

func (q queriesStage) Run(ctx context.Context, s State) (Delta, error) {
	if s.SeedKeywords == nil {
		return Delta{}, fmt.Errorf("%w: seed keywords not yet produced", ErrInvalidState)
	}

	prompt, err := prompts.Compose(ctx, q.prompts, prompts.StageQueries, queriesPayload{
		Problem:          s.NormalizedProblem,
		SeedKeywords:     *s.SeedKeywords,
		ExpandedKeywords: s.ExpandedKeywords,
		Classifications:  s.ClassificationScores,
	})
	if err != nil {
		return Delta{}, err
	}

	resp, err := inference.Infer[queriesResponse](ctx, q.adapter, prompts.StageQueries, prompt)
	if err != nil {
		return Delta{}, err
	}

	return NewDelta().Set(FieldQueries, resp.Queries), nil
}
