package runs_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"

	"github.com/ng-vanquang/priorart-p-dev/internal/extraction"
	"github.com/ng-vanquang/priorart-p-dev/internal/inference"
	"github.com/ng-vanquang/priorart-p-dev/internal/ipc"
	"github.com/ng-vanquang/priorart-p-dev/internal/prompts"
	"github.com/ng-vanquang/priorart-p-dev/internal/relevance"
	"github.com/ng-vanquang/priorart-p-dev/internal/runs"
	"github.com/ng-vanquang/priorart-p-dev/internal/search"
	"github.com/ng-vanquang/priorart-p-dev/pkg/pagination"
)

func testSystem(t *testing.T, checkpointing bool) runs.System {
	t.Helper()

	machine, err := extraction.NewMachine(extraction.Adapters{
		Inference:  inference.NewMock(),
		Search:     search.NewMock(),
		Classifier: ipc.NewMock(),
		Scorer:     relevance.NewMockScorer(),
		Fetcher:    relevance.NewMockFetcher(),
		Prompts:    prompts.Static(),
	}, extraction.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("build machine: %v", err)
	}

	system := runs.New(
		nil,
		nil,
		machine,
		"mock",
		slog.New(slog.NewTextHandler(io.Discard, nil)),
		pagination.Config{},
		checkpointing,
	)
	t.Cleanup(system.Stop)
	return system
}

func TestSubmitValidationRefusesResumeWhenCheckpointingDisabled(t *testing.T) {
	system := testSystem(t, false)

	_, err := system.SubmitValidation(
		context.Background(),
		uuid.New(),
		extraction.ValidationFeedback{Decision: extraction.DecisionApprove},
	)
	if !errors.Is(err, extraction.ErrInvalidState) {
		t.Fatalf("error %v, want ErrInvalidState", err)
	}
}
