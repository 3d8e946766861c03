package extraction

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ng-vanquang/priorart-p-dev/internal/inference"
	"github.com/ng-vanquang/priorart-p-dev/internal/ipc"
	"github.com/ng-vanquang/priorart-p-dev/internal/prompts"
	"github.com/ng-vanquang/priorart-p-dev/internal/relevance"
	"github.com/ng-vanquang/priorart-p-dev/internal/search"
)

// Adapters bundles the external collaborators the pipeline stages call.
// All fields are required.
type Adapters struct {
	Inference  inference.Adapter
	Search     search.Adapter
	Classifier ipc.Adapter
	Scorer     relevance.Scorer
	Fetcher    relevance.Fetcher
	Prompts    prompts.Source
}

func (a Adapters) validate() error {
	if a.Inference == nil {
		return fmt.Errorf("inference adapter required")
	}
	if a.Search == nil {
		return fmt.Errorf("search adapter required")
	}
	if a.Classifier == nil {
		return fmt.Errorf("classification adapter required")
	}
	if a.Scorer == nil {
		return fmt.Errorf("relevance scorer required")
	}
	if a.Fetcher == nil {
		return fmt.Errorf("content fetcher required")
	}
	if a.Prompts == nil {
		return fmt.Errorf("prompt source required")
	}
	return nil
}

// Options tunes machine execution. The zero value is usable; defaults
// are applied at machine construction.
type Options struct {
	// StageTimeout bounds each adapter call. Exceeding it fails the run
	// with ErrAdapterUnavailable. Zero disables the bound.
	StageTimeout time.Duration
	// SearchLimit caps results requested per query during discovery.
	SearchLimit int
	// ScoreWorkers bounds concurrent relevance scoring calls.
	ScoreWorkers int
	// Logger receives stage progress events.
	Logger *slog.Logger
}

func (o *Options) applyDefaults() {
	if o.SearchLimit <= 0 {
		o.SearchLimit = 5
	}
	if o.ScoreWorkers <= 0 {
		o.ScoreWorkers = 4
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
}
