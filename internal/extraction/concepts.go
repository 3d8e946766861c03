package extraction

import (
	"context"
	"fmt"

	"github.com/ng-vanquang/priorart-p-dev/internal/inference"
	"github.com/ng-vanquang/priorart-p-dev/internal/prompts"
	"github.com/ng-vanquang/priorart-p-dev/pkg/formatting"
)

type conceptPayload struct {
	Problem   string   `json:"problem"`
	Technical string   `json:"technical"`
	Feedback  []string `json:"feedback,omitempty"`
}

type conceptResponse struct {
	ProblemPurpose   string `json:"problem_purpose"`
	ObjectSystem     string `json:"object_system"`
	EnvironmentField string `json:"environment_field"`
}

func (r conceptResponse) Validate() error {
	if r.ProblemPurpose == "" {
		return fmt.Errorf("%w: missing %s", formatting.ErrParseFailed, FacetProblemPurpose)
	}
	if r.ObjectSystem == "" {
		return fmt.Errorf("%w: missing %s", formatting.ErrParseFailed, FacetObjectSystem)
	}
	if r.EnvironmentField == "" {
		return fmt.Errorf("%w: missing %s", formatting.ErrParseFailed, FacetEnvironmentField)
	}
	return nil
}

// conceptsStage decomposes the normalized disclosure into the
// three-facet concept matrix.
type conceptsStage struct {
	adapter inference.Adapter
	prompts prompts.Source
}

func newConceptsStage(adapter inference.Adapter, ps prompts.Source) Stage {
	return conceptsStage{adapter: adapter, prompts: ps}
}

func (conceptsStage) Phase() Phase { return PhaseExtractingConcepts }

func (conceptsStage) Reads() []Field {
	return []Field{FieldNormalizedProblem, FieldNormalizedTechnical, FieldRetryFeedback}
}

func (conceptsStage) Writes() []Field {
	return []Field{FieldConceptMatrix}
}

func (c conceptsStage) Run(ctx context.Context, s State) (Delta, error) {
	prompt, err := prompts.Compose(ctx, c.prompts, prompts.StageConcepts, conceptPayload{
		Problem:   s.NormalizedProblem,
		Technical: s.NormalizedTechnical,
		Feedback:  s.RetryFeedback,
	})
	if err != nil {
		return Delta{}, err
	}

	resp, err := inference.Infer[conceptResponse](ctx, c.adapter, prompts.StageConcepts, prompt)
	if err != nil {
		return Delta{}, err
	}

	return NewDelta().Set(FieldConceptMatrix, ConceptMatrix{
		ProblemPurpose:   resp.ProblemPurpose,
		ObjectSystem:     resp.ObjectSystem,
		EnvironmentField: resp.EnvironmentField,
	}), nil
}
