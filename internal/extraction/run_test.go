package extraction_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ng-vanquang/priorart-p-dev/internal/extraction"
	"github.com/ng-vanquang/priorart-p-dev/internal/inference"
	"github.com/ng-vanquang/priorart-p-dev/internal/ipc"
	"github.com/ng-vanquang/priorart-p-dev/internal/prompts"
	"github.com/ng-vanquang/priorart-p-dev/internal/relevance"
	"github.com/ng-vanquang/priorart-p-dev/internal/search"
)

const testInput = "Smart irrigation system with IoT sensors"

func testAdapters(inf inference.Adapter) extraction.Adapters {
	return extraction.Adapters{
		Inference:  inf,
		Search:     search.NewMock(),
		Classifier: ipc.NewMock(),
		Scorer:     relevance.NewMockScorer(),
		Fetcher:    relevance.NewMockFetcher(),
		Prompts:    prompts.Static(),
	}
}

func testMachine(t *testing.T, inf inference.Adapter, opts extraction.Options) *extraction.Machine {
	t.Helper()

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	m, err := extraction.NewMachine(testAdapters(inf), opts)
	if err != nil {
		t.Fatalf("build machine: %v", err)
	}
	return m
}

func waitForStatus(t *testing.T, r *extraction.Run, want extraction.Status) extraction.Snapshot {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap := r.Snapshot()
		if snap.Status == want {
			return snap
		}
		if snap.Status.Terminal() {
			t.Fatalf("run reached terminal status %s (error %q) waiting for %s",
				snap.Status, snap.Error, want)
		}
		time.Sleep(2 * time.Millisecond)
	}

	t.Fatalf("timed out waiting for status %s", want)
	return extraction.Snapshot{}
}

// recordingAdapter captures every composed prompt per stage.
type recordingAdapter struct {
	inner inference.Adapter

	mu      sync.Mutex
	prompts map[prompts.Stage][]string
}

func newRecordingAdapter(inner inference.Adapter) *recordingAdapter {
	return &recordingAdapter{
		inner:   inner,
		prompts: make(map[prompts.Stage][]string),
	}
}

func (r *recordingAdapter) Model() string { return r.inner.Model() }

func (r *recordingAdapter) Complete(ctx context.Context, stage prompts.Stage, prompt string) (string, error) {
	r.mu.Lock()
	r.prompts[stage] = append(r.prompts[stage], prompt)
	r.mu.Unlock()
	return r.inner.Complete(ctx, stage, prompt)
}

func (r *recordingAdapter) recorded(stage prompts.Stage) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.prompts[stage]))
	copy(out, r.prompts[stage])
	return out
}

// blockingAdapter parks every completion until the context ends.
type blockingAdapter struct{}

func (blockingAdapter) Model() string { return "blocking" }

func (blockingAdapter) Complete(ctx context.Context, _ prompts.Stage, _ string) (string, error) {
	<-ctx.Done()
	return "", ctx.Err()
}

func TestApprovedRunReachesDone(t *testing.T) {
	m := testMachine(t, inference.NewMock(), extraction.Options{})
	r := extraction.Start(t.Context(), m, testInput)

	snap := waitForStatus(t, r, extraction.StatusAwaitingValidation)

	if snap.State.SeedKeywords == nil {
		t.Fatal("no seed keywords at suspension")
	}
	if len(snap.State.SeedKeywords.ObjectSystem) == 0 {
		t.Error("object_system keywords empty at suspension")
	}
	if snap.State.ConceptMatrix == nil {
		t.Error("concept matrix missing at suspension")
	}
	if snap.State.SummaryText == "" {
		t.Error("summary missing at suspension")
	}

	if err := r.Submit(extraction.ValidationFeedback{Decision: extraction.DecisionApprove}); err != nil {
		t.Fatalf("submit approve: %v", err)
	}

	final, err := r.Wait(t.Context())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if got := r.Snapshot(); got.Phase != extraction.PhaseDone {
		t.Errorf("final phase %s, want %s", got.Phase, extraction.PhaseDone)
	}
	if len(final.Queries) == 0 {
		t.Error("no queries in final state")
	}
	if len(final.RankedResults) == 0 {
		t.Error("no ranked results in final state")
	}
	for _, res := range final.RankedResults {
		if res.ScenarioRelevance < 0 || res.ScenarioRelevance > 1 {
			t.Errorf("scenario relevance %f outside [0,1]", res.ScenarioRelevance)
		}
		if res.ProblemRelevance < 0 || res.ProblemRelevance > 1 {
			t.Errorf("problem relevance %f outside [0,1]", res.ProblemRelevance)
		}
	}
	if len(final.ClassificationScores) == 0 {
		t.Error("no classification scores in final state")
	}
}

func TestQueryPromptCarriesClassificationsAndProblem(t *testing.T) {
	rec := newRecordingAdapter(inference.NewMock())
	m := testMachine(t, rec, extraction.Options{})
	r := extraction.Start(t.Context(), m, testInput)

	waitForStatus(t, r, extraction.StatusAwaitingValidation)
	if err := r.Submit(extraction.ValidationFeedback{Decision: extraction.DecisionApprove}); err != nil {
		t.Fatalf("submit approve: %v", err)
	}

	final, err := r.Wait(t.Context())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	queryPrompts := rec.recorded(prompts.StageQueries)
	if len(queryPrompts) != 1 {
		t.Fatalf("query generation ran %d times, want 1", len(queryPrompts))
	}

	prompt := queryPrompts[0]
	if !strings.Contains(prompt, final.NormalizedProblem) {
		t.Error("query prompt does not carry the normalized problem view")
	}
	if len(final.ClassificationScores) == 0 {
		t.Fatal("no classification scores in final state")
	}
	for _, cs := range final.ClassificationScores {
		if !strings.Contains(prompt, cs.Category) {
			t.Errorf("query prompt missing predicted category %q", cs.Category)
		}
	}
}

// capturingScorer records the invention subject of every scoring call.
type capturingScorer struct {
	mu       sync.Mutex
	subjects []relevance.Subject
}

func (c *capturingScorer) Score(_ context.Context, subject relevance.Subject, _ string) (relevance.Scores, error) {
	c.mu.Lock()
	c.subjects = append(c.subjects, subject)
	c.mu.Unlock()
	return relevance.Scores{Scenario: 0.5, Problem: 0.5}, nil
}

func TestScoringReceivesBothInventionViews(t *testing.T) {
	scorer := &capturingScorer{}
	adapters := testAdapters(inference.NewMock())
	adapters.Scorer = scorer

	m, err := extraction.NewMachine(adapters, extraction.Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("build machine: %v", err)
	}
	r := extraction.Start(t.Context(), m, testInput)

	waitForStatus(t, r, extraction.StatusAwaitingValidation)
	if err := r.Submit(extraction.ValidationFeedback{Decision: extraction.DecisionApprove}); err != nil {
		t.Fatalf("submit approve: %v", err)
	}

	final, err := r.Wait(t.Context())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	scorer.mu.Lock()
	subjects := scorer.subjects
	scorer.mu.Unlock()

	if len(subjects) != len(final.Candidates) {
		t.Fatalf("scored %d candidates, want %d", len(subjects), len(final.Candidates))
	}
	for _, subject := range subjects {
		if subject.Scenario != final.SummaryText {
			t.Errorf("scoring subject scenario %q, want the invention summary", subject.Scenario)
		}
		if subject.Problem != final.NormalizedProblem {
			t.Errorf("scoring subject problem %q, want the normalized problem view", subject.Problem)
		}
	}
}

func TestApprovalDoesNotMutateKeywords(t *testing.T) {
	m := testMachine(t, inference.NewMock(), extraction.Options{})
	r := extraction.Start(t.Context(), m, testInput)

	snap := waitForStatus(t, r, extraction.StatusAwaitingValidation)
	suspended := *snap.State.SeedKeywords

	if err := r.Submit(extraction.ValidationFeedback{Decision: extraction.DecisionApprove}); err != nil {
		t.Fatalf("submit approve: %v", err)
	}

	final, err := r.Wait(t.Context())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !reflect.DeepEqual(*final.SeedKeywords, suspended) {
		t.Errorf("approval mutated seed keywords:\n got %+v\nwant %+v",
			*final.SeedKeywords, suspended)
	}
}

func TestEditOverridesExactly(t *testing.T) {
	m := testMachine(t, inference.NewMock(), extraction.Options{})
	r := extraction.Start(t.Context(), m, testInput)

	waitForStatus(t, r, extraction.StatusAwaitingValidation)

	edited := extraction.SeedKeywords{
		ProblemPurpose:   []string{"x"},
		ObjectSystem:     []string{},
		EnvironmentField: []string{"y", "z"},
	}

	err := r.Submit(extraction.ValidationFeedback{
		Decision:       extraction.DecisionEdit,
		EditedKeywords: &edited,
	})
	if err != nil {
		t.Fatalf("submit edit: %v", err)
	}

	final, err := r.Wait(t.Context())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if !reflect.DeepEqual(*final.SeedKeywords, edited) {
		t.Errorf("seed keywords %+v, want edited set %+v", *final.SeedKeywords, edited)
	}

	want := map[string]bool{"x": true, "y": true, "z": true}
	for keyword := range final.ExpandedKeywords {
		if !want[keyword] {
			t.Errorf("expansion processed keyword %q outside the edited set", keyword)
		}
		delete(want, keyword)
	}
	for keyword := range want {
		t.Errorf("edited keyword %q missing from expansion", keyword)
	}
}

func TestRejectionClearsAndRetains(t *testing.T) {
	rec := newRecordingAdapter(inference.NewMock())
	m := testMachine(t, rec, extraction.Options{})
	r := extraction.Start(t.Context(), m, testInput)

	waitForStatus(t, r, extraction.StatusAwaitingValidation)

	err := r.Submit(extraction.ValidationFeedback{
		Decision: extraction.DecisionReject,
		Feedback: "too broad",
	})
	if err != nil {
		t.Fatalf("submit reject: %v", err)
	}

	snap := waitForStatus(t, r, extraction.StatusAwaitingValidation)

	if snap.State.InputText != testInput {
		t.Errorf("input text changed across rejection: %q", snap.State.InputText)
	}
	if len(snap.State.RetryFeedback) != 1 || snap.State.RetryFeedback[0] != "too broad" {
		t.Errorf("retry feedback %v, want [too broad]", snap.State.RetryFeedback)
	}
	if snap.State.ConceptMatrix == nil {
		t.Error("concept matrix not regenerated after rejection")
	}

	conceptPrompts := rec.recorded(prompts.StageConcepts)
	if len(conceptPrompts) != 2 {
		t.Fatalf("concept extraction ran %d times, want 2", len(conceptPrompts))
	}
	if !strings.Contains(conceptPrompts[1], "too broad") {
		t.Error("retry concept prompt does not carry the rejection feedback")
	}
	if strings.Contains(conceptPrompts[0], "too broad") {
		t.Error("initial concept prompt already carried the rejection feedback")
	}

	// The summary survives retries; one summarize call total.
	if calls := rec.recorded(prompts.StageSummarize); len(calls) != 1 {
		t.Errorf("summarize ran %d times, want 1", len(calls))
	}
}

func TestRepeatedRejectionsThenApproveReachDone(t *testing.T) {
	m := testMachine(t, inference.NewMock(), extraction.Options{})
	r := extraction.Start(t.Context(), m, testInput)

	for i := 0; i < 3; i++ {
		waitForStatus(t, r, extraction.StatusAwaitingValidation)
		if err := r.Submit(extraction.ValidationFeedback{Decision: extraction.DecisionReject}); err != nil {
			t.Fatalf("reject %d: %v", i, err)
		}
	}

	waitForStatus(t, r, extraction.StatusAwaitingValidation)
	if err := r.Submit(extraction.ValidationFeedback{Decision: extraction.DecisionApprove}); err != nil {
		t.Fatalf("final approve: %v", err)
	}

	final, err := r.Wait(t.Context())
	if err != nil {
		t.Fatalf("run failed after retries: %v", err)
	}
	if len(final.RetryFeedback) != 3 {
		t.Errorf("retry feedback length %d, want 3", len(final.RetryFeedback))
	}
}

func TestMalformedEditLeavesRunSuspended(t *testing.T) {
	m := testMachine(t, inference.NewMock(), extraction.Options{})
	r := extraction.Start(t.Context(), m, testInput)

	waitForStatus(t, r, extraction.StatusAwaitingValidation)

	err := r.Submit(extraction.ValidationFeedback{
		Decision: extraction.DecisionEdit,
		EditedKeywords: &extraction.SeedKeywords{
			ProblemPurpose: []string{"x"},
			ObjectSystem:   []string{},
		},
	})
	if !errors.Is(err, extraction.ErrValidation) {
		t.Fatalf("error %v, want ErrValidation", err)
	}

	if snap := r.Snapshot(); snap.Status != extraction.StatusAwaitingValidation {
		t.Fatalf("status %s after malformed edit, want still suspended", snap.Status)
	}

	// A well-formed decision still goes through.
	if err := r.Submit(extraction.ValidationFeedback{Decision: extraction.DecisionApprove}); err != nil {
		t.Fatalf("approve after malformed edit: %v", err)
	}
	if _, err := r.Wait(t.Context()); err != nil {
		t.Fatalf("run failed: %v", err)
	}
}

func TestSubmitAgainstTerminalRun(t *testing.T) {
	m := testMachine(t, inference.NewMock(), extraction.Options{})
	r := extraction.Start(t.Context(), m, testInput)

	waitForStatus(t, r, extraction.StatusAwaitingValidation)
	if err := r.Submit(extraction.ValidationFeedback{Decision: extraction.DecisionApprove}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := r.Wait(t.Context()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	err := r.Submit(extraction.ValidationFeedback{Decision: extraction.DecisionApprove})
	if !errors.Is(err, extraction.ErrInvalidState) {
		t.Errorf("error %v, want ErrInvalidState", err)
	}
}

func TestMalformedInferenceOutputFailsRun(t *testing.T) {
	mock := inference.NewMock()
	mock.Responses[prompts.StageConcepts] = "the concepts are irrigation and sensors"

	m := testMachine(t, mock, extraction.Options{})
	r := extraction.Start(t.Context(), m, testInput)

	_, err := r.Wait(t.Context())
	if !errors.Is(err, extraction.ErrInferenceParse) {
		t.Fatalf("error %v, want ErrInferenceParse", err)
	}

	var stageErr *extraction.StageError
	if !errors.As(err, &stageErr) {
		t.Fatal("error does not identify the failing stage")
	}
	if stageErr.Phase != extraction.PhaseExtractingConcepts {
		t.Errorf("failing phase %s, want %s", stageErr.Phase, extraction.PhaseExtractingConcepts)
	}

	if snap := r.Snapshot(); snap.Status != extraction.StatusFailed {
		t.Errorf("status %s, want %s", snap.Status, extraction.StatusFailed)
	}
}

func TestMissingFieldIsParseError(t *testing.T) {
	mock := inference.NewMock()
	mock.Responses[prompts.StageConcepts] = `{"problem_purpose": "reducing water waste"}`

	m := testMachine(t, mock, extraction.Options{})
	r := extraction.Start(t.Context(), m, testInput)

	_, err := r.Wait(t.Context())
	if !errors.Is(err, extraction.ErrInferenceParse) {
		t.Fatalf("error %v, want ErrInferenceParse", err)
	}
}

func TestStageTimeoutSurfacesAdapterUnavailable(t *testing.T) {
	m := testMachine(t, blockingAdapter{}, extraction.Options{
		StageTimeout: 20 * time.Millisecond,
	})
	r := extraction.Start(t.Context(), m, testInput)

	_, err := r.Wait(t.Context())
	if !errors.Is(err, extraction.ErrAdapterUnavailable) {
		t.Fatalf("error %v, want ErrAdapterUnavailable", err)
	}
}

func TestCancelAbandonsRun(t *testing.T) {
	m := testMachine(t, blockingAdapter{}, extraction.Options{})
	r := extraction.Start(t.Context(), m, testInput)

	time.Sleep(10 * time.Millisecond)
	r.Cancel()

	_, err := r.Wait(t.Context())
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error %v, want context.Canceled", err)
	}
	if snap := r.Snapshot(); snap.Status != extraction.StatusAbandoned {
		t.Errorf("status %s, want %s", snap.Status, extraction.StatusAbandoned)
	}
}

func TestCheckpointRoundTripResumes(t *testing.T) {
	m := testMachine(t, inference.NewMock(), extraction.Options{})
	r := extraction.Start(t.Context(), m, testInput)

	waitForStatus(t, r, extraction.StatusAwaitingValidation)

	cp, err := r.Checkpoint()
	if err != nil {
		t.Fatalf("checkpoint: %v", err)
	}
	r.Cancel()

	data, err := json.Marshal(cp)
	if err != nil {
		t.Fatalf("marshal checkpoint: %v", err)
	}
	var restored extraction.Checkpoint
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("unmarshal checkpoint: %v", err)
	}

	r2, err := extraction.Restore(t.Context(), m, restored)
	if err != nil {
		t.Fatalf("restore: %v", err)
	}

	waitForStatus(t, r2, extraction.StatusAwaitingValidation)
	if err := r2.Submit(extraction.ValidationFeedback{Decision: extraction.DecisionApprove}); err != nil {
		t.Fatalf("approve restored run: %v", err)
	}

	final, err := r2.Wait(t.Context())
	if err != nil {
		t.Fatalf("restored run failed: %v", err)
	}
	if len(final.RankedResults) == 0 {
		t.Error("restored run produced no ranked results")
	}
}

func TestRestoreRejectsNonGateCheckpoint(t *testing.T) {
	m := testMachine(t, inference.NewMock(), extraction.Options{})

	_, err := extraction.Restore(t.Context(), m, extraction.Checkpoint{
		Phase: extraction.PhaseGeneratingQueries,
		State: extraction.NewState(testInput),
	})
	if !errors.Is(err, extraction.ErrInvalidState) {
		t.Fatalf("error %v, want ErrInvalidState", err)
	}
}

func TestCheckpointRequiresSuspension(t *testing.T) {
	m := testMachine(t, inference.NewMock(), extraction.Options{})
	r := extraction.Start(t.Context(), m, testInput)

	waitForStatus(t, r, extraction.StatusAwaitingValidation)
	if err := r.Submit(extraction.ValidationFeedback{Decision: extraction.DecisionApprove}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := r.Wait(t.Context()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if _, err := r.Checkpoint(); !errors.Is(err, extraction.ErrInvalidState) {
		t.Errorf("error %v, want ErrInvalidState", err)
	}
}
