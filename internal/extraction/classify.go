package extraction

import (
	"context"
	"fmt"

	"github.com/ng-vanquang/priorart-p-dev/internal/ipc"
)

// classifyStage predicts patent classification symbols from the
// invention summary. It runs in the post-approval fork alongside
// synonym expansion and touches none of the keyword fields.
type classifyStage struct {
	classifier ipc.Adapter
}

func newClassifyStage(classifier ipc.Adapter) Stage {
	return classifyStage{classifier: classifier}
}

func (classifyStage) Phase() Phase { return PhaseClassifying }

func (classifyStage) Reads() []Field {
	return []Field{FieldSummaryText}
}

func (classifyStage) Writes() []Field {
	return []Field{FieldClassificationScores}
}

func (c classifyStage) Run(ctx context.Context, s State) (Delta, error) {
	if s.SummaryText == "" {
		return Delta{}, fmt.Errorf("%w: summary not yet produced", ErrInvalidState)
	}

	predictions, err := c.classifier.Classify(ctx, s.SummaryText)
	if err != nil {
		return Delta{}, err
	}

	scores := make([]CategoryScore, len(predictions))
	for i, p := range predictions {
		scores[i] = CategoryScore{Category: p.Symbol, Score: p.Score}
	}

	return NewDelta().Set(FieldClassificationScores, scores), nil
}
