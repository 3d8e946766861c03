package api

import (
	"fmt"

	"github.com/ng-vanquang/priorart-p-dev/internal/extraction"
	"github.com/ng-vanquang/priorart-p-dev/internal/inference"
	"github.com/ng-vanquang/priorart-p-dev/internal/ipc"
	"github.com/ng-vanquang/priorart-p-dev/internal/prompts"
	"github.com/ng-vanquang/priorart-p-dev/internal/relevance"
	"github.com/ng-vanquang/priorart-p-dev/internal/runs"
	"github.com/ng-vanquang/priorart-p-dev/internal/search"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Prompts prompts.System
	Runs    runs.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	promptsSystem := prompts.New(
		runtime.Database.Connection(),
		runtime.Logger,
		runtime.Pagination,
	)

	adapters := buildAdapters(runtime, promptsSystem)

	cfg := runtime.Config
	machine, err := extraction.NewMachine(adapters, extraction.Options{
		StageTimeout: cfg.Pipeline.StageTimeoutDuration(),
		SearchLimit:  cfg.Pipeline.SearchLimit,
		ScoreWorkers: cfg.Pipeline.ScoreWorkers,
		Logger:       runtime.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build pipeline machine: %w", err)
	}

	runsSystem := runs.New(
		runtime.Database.Connection(),
		runtime.Storage,
		machine,
		adapters.Inference.Model(),
		runtime.Logger,
		runtime.Pagination,
		cfg.Pipeline.CheckpointingEnabled(),
	)

	return &Domain{
		Prompts: promptsSystem,
		Runs:    runsSystem,
	}, nil
}

// buildAdapters selects the pipeline's external collaborators. Mock mode
// substitutes canned adapters so the full pipeline runs without
// credentials or external services.
func buildAdapters(runtime *Runtime, promptsSystem prompts.System) extraction.Adapters {
	cfg := runtime.Config

	if cfg.Pipeline.UseMocks {
		return extraction.Adapters{
			Inference:  inference.NewMock(),
			Search:     search.NewMock(),
			Classifier: ipc.NewMock(),
			Scorer:     relevance.NewMockScorer(),
			Fetcher:    relevance.NewMockFetcher(),
			Prompts:    promptsSystem,
		}
	}

	agent := inference.NewAgent(cfg.Agent)

	return extraction.Adapters{
		Inference:  agent,
		Search:     search.NewClient(&cfg.Search),
		Classifier: ipc.NewClient(&cfg.Classifier),
		Scorer:     relevance.NewLLM(agent, promptsSystem),
		Fetcher:    relevance.NewHTTPFetcher(cfg.Search.TimeoutDuration()),
		Prompts:    promptsSystem,
	}
}
