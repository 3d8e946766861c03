package relevance_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ng-vanquang/priorart-p-dev/internal/inference"
	"github.com/ng-vanquang/priorart-p-dev/internal/prompts"
	"github.com/ng-vanquang/priorart-p-dev/internal/relevance"
	"github.com/ng-vanquang/priorart-p-dev/pkg/formatting"
)

func TestLLMScore(t *testing.T) {
	scorer := relevance.NewLLM(inference.NewMock(), prompts.Static())

	subject := relevance.Subject{
		Scenario: "irrigation summary",
		Problem:  "overwatering in greenhouse beds",
	}

	scores, err := scorer.Score(context.Background(), subject, "document text")
	if err != nil {
		t.Fatalf("score failed: %v", err)
	}

	if scores.Scenario != 0.82 {
		t.Errorf("scenario = %f, want 0.82", scores.Scenario)
	}
	if scores.Problem != 0.74 {
		t.Errorf("problem = %f, want 0.74", scores.Problem)
	}
}

func TestLLMScoreRejectsOutOfRange(t *testing.T) {
	adapter := &inference.Mock{
		Name: "mock",
		Responses: map[prompts.Stage]string{
			prompts.StageRelevance: `{"scenario": 1.4, "problem": 0.2, "rationale": "overshoot"}`,
		},
	}

	scorer := relevance.NewLLM(adapter, prompts.Static())

	_, err := scorer.Score(context.Background(), relevance.Subject{Scenario: "summary", Problem: "problem"}, "document")
	if !errors.Is(err, formatting.ErrParseFailed) {
		t.Fatalf("error = %v, want ErrParseFailed", err)
	}
}

func TestLLMScoreRejectsMalformedOutput(t *testing.T) {
	adapter := &inference.Mock{
		Name: "mock",
		Responses: map[prompts.Stage]string{
			prompts.StageRelevance: "the document seems relevant",
		},
	}

	scorer := relevance.NewLLM(adapter, prompts.Static())

	_, err := scorer.Score(context.Background(), relevance.Subject{Scenario: "summary", Problem: "problem"}, "document")
	if !errors.Is(err, formatting.ErrParseFailed) {
		t.Fatalf("error = %v, want ErrParseFailed", err)
	}
}

type promptCapture struct {
	inference.Adapter
	prompt string
}

func (c *promptCapture) Complete(ctx context.Context, stage prompts.Stage, prompt string) (string, error) {
	c.prompt = prompt
	return c.Adapter.Complete(ctx, stage, prompt)
}

func TestLLMScorePromptCarriesBothViews(t *testing.T) {
	capture := &promptCapture{Adapter: inference.NewMock()}
	scorer := relevance.NewLLM(capture, prompts.Static())

	subject := relevance.Subject{
		Scenario: "drip irrigation controller for greenhouse rows",
		Problem:  "uneven soil moisture causes root rot",
	}

	if _, err := scorer.Score(context.Background(), subject, "document text"); err != nil {
		t.Fatalf("score failed: %v", err)
	}

	if !strings.Contains(capture.prompt, subject.Scenario) {
		t.Error("prompt missing scenario view")
	}
	if !strings.Contains(capture.prompt, subject.Problem) {
		t.Error("prompt missing problem view")
	}
	if !strings.Contains(capture.prompt, "document text") {
		t.Error("prompt missing document content")
	}
}
