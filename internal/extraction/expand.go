package extraction

import (
	"context"
	"fmt"

	"github.com/ng-vanquang/priorart-p-dev/internal/inference"
	"github.com/ng-vanquang/priorart-p-dev/internal/prompts"
	"github.com/ng-vanquang/priorart-p-dev/pkg/formatting"
)

type expandPayload struct {
	SeedKeywords SeedKeywords `json:"seed_keywords"`
}

type expansionEntry struct {
	Keyword  string   `json:"keyword"`
	Synonyms []string `json:"synonyms"`
}

type expandResponse struct {
	Expansions []expansionEntry `json:"expansions"`
}

func (r expandResponse) Validate() error {
	if r.Expansions == nil {
		return fmt.Errorf("%w: missing expansions", formatting.ErrParseFailed)
	}
	for _, e := range r.Expansions {
		if e.Keyword == "" {
			return fmt.Errorf("%w: expansion entry missing keyword", formatting.ErrParseFailed)
		}
	}
	return nil
}

// expandStage grows each approved seed keyword into its synonym list.
// With no seed keywords (all facets edited to empty) there is nothing
// to expand and the stage completes without an adapter call.
type expandStage struct {
	adapter inference.Adapter
	prompts prompts.Source
}

func newExpandStage(adapter inference.Adapter, ps prompts.Source) Stage {
	return expandStage{adapter: adapter, prompts: ps}
}

func (expandStage) Phase() Phase { return PhaseExpandingSynonyms }

func (expandStage) Reads() []Field {
	return []Field{FieldSeedKeywords}
}

func (expandStage) Writes() []Field {
	return []Field{FieldExpandedKeywords}
}

func (e expandStage) Run(ctx context.Context, s State) (Delta, error) {
	if s.SeedKeywords == nil {
		return Delta{}, fmt.Errorf("%w: seed keywords not yet produced", ErrInvalidState)
	}

	seeds := s.SeedKeywords.All()
	if len(seeds) == 0 {
		return NewDelta().Set(FieldExpandedKeywords, map[string][]string{}), nil
	}

	prompt, err := prompts.Compose(ctx, e.prompts, prompts.StageSynonyms, expandPayload{
		SeedKeywords: *s.SeedKeywords,
	})
	if err != nil {
		return Delta{}, err
	}

	resp, err := inference.Infer[expandResponse](ctx, e.adapter, prompts.StageSynonyms, prompt)
	if err != nil {
		return Delta{}, err
	}

	seedSet := make(map[string]struct{}, len(seeds))
	for _, seed := range seeds {
		seedSet[seed] = struct{}{}
	}

	// Entries for keywords outside the approved seed set are dropped;
	// expansion processes exactly the validated keywords.
	expansions := make(map[string][]string, len(seeds))
	for _, entry := range resp.Expansions {
		if _, ok := seedSet[entry.Keyword]; !ok {
			continue
		}
		expansions[entry.Keyword] = append(expansions[entry.Keyword], entry.Synonyms...)
	}

	// Seeds the model skipped still get an entry so downstream query
	// composition sees every approved keyword.
	for _, seed := range seeds {
		if _, ok := expansions[seed]; !ok {
			expansions[seed] = []string{}
		}
	}

	return NewDelta().Set(FieldExpandedKeywords, expansions), nil
}
