package extraction

import (
	"context"
	"strings"
)

// normalizeStage cleans the raw disclosure into the problem and
// technical views downstream stages consume. On retry passes it folds
// accumulated reviewer feedback into the problem view so re-extraction
// sees what the human objected to.
type normalizeStage struct{}

func newNormalizeStage() Stage {
	return normalizeStage{}
}

func (normalizeStage) Phase() Phase { return PhaseNormalizing }

func (normalizeStage) Reads() []Field {
	return []Field{FieldInputText, FieldRetryFeedback}
}

func (normalizeStage) Writes() []Field {
	return []Field{FieldNormalizedProblem, FieldNormalizedTechnical}
}

func (normalizeStage) Run(_ context.Context, s State) (Delta, error) {
	cleaned := collapseWhitespace(s.InputText)

	problem := cleaned
	if len(s.RetryFeedback) > 0 {
		var sb strings.Builder
		sb.WriteString(cleaned)
		for _, fb := range s.RetryFeedback {
			sb.WriteString("\nReviewer feedback: ")
			sb.WriteString(fb)
		}
		problem = sb.String()
	}

	return NewDelta().
		Set(FieldNormalizedProblem, problem).
		Set(FieldNormalizedTechnical, cleaned), nil
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
