package extraction

import (
	"context"
	"fmt"

	"github.com/ng-vanquang/priorart-p-dev/internal/inference"
	"github.com/ng-vanquang/priorart-p-dev/internal/prompts"
	"github.com/ng-vanquang/priorart-p-dev/pkg/formatting"
)

type summaryPayload struct {
	Disclosure string `json:"disclosure"`
}

type summaryResponse struct {
	Summary string `json:"summary"`
}

func (r summaryResponse) Validate() error {
	if r.Summary == "" {
		return fmt.Errorf("%w: missing summary", formatting.ErrParseFailed)
	}
	return nil
}

// summarizeStage produces the classification abstract. The summary
// does not depend on reviewer feedback, so retry passes through the
// concept fork skip it once a summary exists.
type summarizeStage struct {
	adapter inference.Adapter
	prompts prompts.Source
}

func newSummarizeStage(adapter inference.Adapter, ps prompts.Source) Stage {
	return summarizeStage{adapter: adapter, prompts: ps}
}

func (summarizeStage) Phase() Phase { return PhaseSummarizing }

func (summarizeStage) Reads() []Field {
	return []Field{FieldNormalizedTechnical, FieldSummaryText}
}

func (summarizeStage) Writes() []Field {
	return []Field{FieldSummaryText}
}

func (st summarizeStage) Run(ctx context.Context, s State) (Delta, error) {
	if s.SummaryText != "" {
		return NewDelta(), nil
	}

	prompt, err := prompts.Compose(ctx, st.prompts, prompts.StageSummarize, summaryPayload{
		Disclosure: s.NormalizedTechnical,
	})
	if err != nil {
		return Delta{}, err
	}

	resp, err := inference.Infer[summaryResponse](ctx, st.adapter, prompts.StageSummarize, prompt)
	if err != nil {
		return Delta{}, err
	}

	return NewDelta().Set(FieldSummaryText, resp.Summary), nil
}
