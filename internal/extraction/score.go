package extraction

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ng-vanquang/priorart-p-dev/internal/relevance"
)

// scoreStage evaluates every discovered candidate against the invention
// summary and problem views with bounded concurrency. Candidates
// without inline content are fetched first. Results keep candidate
// order.
type scoreStage struct {
	scorer  relevance.Scorer
	fetcher relevance.Fetcher
	workers int
}

func newScoreStage(scorer relevance.Scorer, fetcher relevance.Fetcher, workers int) Stage {
	return scoreStage{scorer: scorer, fetcher: fetcher, workers: workers}
}

func (scoreStage) Phase() Phase { return PhaseScoringRelevance }

func (scoreStage) Reads() []Field {
	return []Field{FieldCandidates, FieldSummaryText, FieldNormalizedProblem}
}

func (scoreStage) Writes() []Field {
	return []Field{FieldRankedResults}
}

func (sc scoreStage) Run(ctx context.Context, s State) (Delta, error) {
	ranked := make([]RankedResult, len(s.Candidates))
	subject := relevance.Subject{
		Scenario: s.SummaryText,
		Problem:  s.NormalizedProblem,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(sc.workers)

	for i, candidate := range s.Candidates {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			content := candidate.Content
			if content == "" {
				fetched, err := sc.fetcher.Fetch(gctx, candidate.URL)
				if err != nil {
					return fmt.Errorf("candidate %s: %w", candidate.URL, err)
				}
				content = fetched
			}

			scores, err := sc.scorer.Score(gctx, subject, content)
			if err != nil {
				return fmt.Errorf("candidate %s: %w", candidate.URL, err)
			}

			ranked[i] = RankedResult{
				URL:               candidate.URL,
				ScenarioRelevance: scores.Scenario,
				ProblemRelevance:  scores.Problem,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Delta{}, err
	}

	return NewDelta().Set(FieldRankedResults, ranked), nil
}
