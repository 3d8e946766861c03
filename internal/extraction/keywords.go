package extraction

import (
	"context"
	"fmt"

	"github.com/ng-vanquang/priorart-p-dev/internal/inference"
	"github.com/ng-vanquang/priorart-p-dev/internal/prompts"
	"github.com/ng-vanquang/priorart-p-dev/pkg/formatting"
)

type keywordsPayload struct {
	ConceptMatrix ConceptMatrix `json:"concept_matrix"`
	Feedback      []string      `json:"feedback,omitempty"`
}

type keywordsResponse struct {
	ProblemPurpose   []string `json:"problem_purpose"`
	ObjectSystem     []string `json:"object_system"`
	EnvironmentField []string `json:"environment_field"`
}

// Validate requires all three facet keys to be present. Empty lists
// are legitimate output; an absent key is a schema violation.
func (r keywordsResponse) Validate() error {
	if r.ProblemPurpose == nil {
		return fmt.Errorf("%w: missing %s", formatting.ErrParseFailed, FacetProblemPurpose)
	}
	if r.ObjectSystem == nil {
		return fmt.Errorf("%w: missing %s", formatting.ErrParseFailed, FacetObjectSystem)
	}
	if r.EnvironmentField == nil {
		return fmt.Errorf("%w: missing %s", formatting.ErrParseFailed, FacetEnvironmentField)
	}
	return nil
}

// keywordsStage derives seed keywords per facet from the concept matrix.
type keywordsStage struct {
	adapter inference.Adapter
	prompts prompts.Source
}

func newKeywordsStage(adapter inference.Adapter, ps prompts.Source) Stage {
	return keywordsStage{adapter: adapter, prompts: ps}
}

func (keywordsStage) Phase() Phase { return PhaseGeneratingKeywords }

func (keywordsStage) Reads() []Field {
	return []Field{FieldConceptMatrix, FieldRetryFeedback}
}

func (keywordsStage) Writes() []Field {
	return []Field{FieldSeedKeywords}
}

func (k keywordsStage) Run(ctx context.Context, s State) (Delta, error) {
	if s.ConceptMatrix == nil {
		return Delta{}, fmt.Errorf("%w: concept matrix not yet produced", ErrInvalidState)
	}

	prompt, err := prompts.Compose(ctx, k.prompts, prompts.StageKeywords, keywordsPayload{
		ConceptMatrix: *s.ConceptMatrix,
		Feedback:      s.RetryFeedback,
	})
	if err != nil {
		return Delta{}, err
	}

	resp, err := inference.Infer[keywordsResponse](ctx, k.adapter, prompts.StageKeywords, prompt)
	if err != nil {
		return Delta{}, err
	}

	return NewDelta().Set(FieldSeedKeywords, SeedKeywords{
		ProblemPurpose:   resp.ProblemPurpose,
		ObjectSystem:     resp.ObjectSystem,
		EnvironmentField: resp.EnvironmentField,
	}), nil
}
