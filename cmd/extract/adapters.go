package main

import (
	"github.com/ng-vanquang/priorart-p-dev/internal/config"
	"github.com/ng-vanquang/priorart-p-dev/internal/extraction"
	"github.com/ng-vanquang/priorart-p-dev/internal/inference"
	"github.com/ng-vanquang/priorart-p-dev/internal/ipc"
	"github.com/ng-vanquang/priorart-p-dev/internal/prompts"
	"github.com/ng-vanquang/priorart-p-dev/internal/relevance"
	"github.com/ng-vanquang/priorart-p-dev/internal/search"
)

// buildAdapters wires pipeline collaborators for a standalone run.
// Prompt instructions come from the hardcoded defaults; there is no
// database in this mode.
func buildAdapters(cfg *config.Config, mock bool) extraction.Adapters {
	source := prompts.Static()

	if mock {
		return extraction.Adapters{
			Inference:  inference.NewMock(),
			Search:     search.NewMock(),
			Classifier: ipc.NewMock(),
			Scorer:     relevance.NewMockScorer(),
			Fetcher:    relevance.NewMockFetcher(),
			Prompts:    source,
		}
	}

	agent := inference.NewAgent(cfg.Agent)

	return extraction.Adapters{
		Inference:  agent,
		Search:     search.NewClient(&cfg.Search),
		Classifier: ipc.NewClient(&cfg.Classifier),
		Scorer:     relevance.NewLLM(agent, source),
		Fetcher:    relevance.NewHTTPFetcher(cfg.Search.TimeoutDuration()),
		Prompts:    source,
	}
}
