package extraction

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/ng-vanquang/priorart-p-dev/internal/search"
)

// discoverStage runs every query against the search adapter and merges
// the results. Queries fan out concurrently; merging walks query order
// so candidate ordering stays deterministic, with later duplicates of a
// URL dropped. An empty result list from the provider is not an error.
type discoverStage struct {
	search search.Adapter
	limit  int
}

func newDiscoverStage(s search.Adapter, limit int) Stage {
	return discoverStage{search: s, limit: limit}
}

func (discoverStage) Phase() Phase { return PhaseDiscoveringCandidates }

func (discoverStage) Reads() []Field {
	return []Field{FieldQueries}
}

func (discoverStage) Writes() []Field {
	return []Field{FieldCandidates}
}

func (d discoverStage) Run(ctx context.Context, s State) (Delta, error) {
	perQuery := make([][]search.Result, len(s.Queries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerCount(len(s.Queries)))

	for i, query := range s.Queries {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}

			results, err := d.search.Discover(gctx, query, d.limit)
			if err != nil {
				return err
			}

			perQuery[i] = results
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Delta{}, err
	}

	seen := make(map[string]struct{})
	candidates := make([]Candidate, 0)

	for _, results := range perQuery {
		for _, r := range results {
			if _, dup := seen[r.URL]; dup {
				continue
			}
			seen[r.URL] = struct{}{}
			candidates = append(candidates, Candidate{
				URL:     r.URL,
				Title:   r.Title,
				Content: r.Content,
			})
		}
	}

	return NewDelta().Set(FieldCandidates, candidates), nil
}

func workerCount(tasks int) int {
	const maxWorkers = 4
	if tasks < maxWorkers {
		return max(tasks, 1)
	}
	return maxWorkers
}
