package extraction

import (
	"context"
	"io"
	"log/slog"
	"reflect"
	"testing"

	"github.com/ng-vanquang/priorart-p-dev/internal/inference"
	"github.com/ng-vanquang/priorart-p-dev/internal/ipc"
	"github.com/ng-vanquang/priorart-p-dev/internal/prompts"
	"github.com/ng-vanquang/priorart-p-dev/internal/relevance"
	"github.com/ng-vanquang/priorart-p-dev/internal/search"
)

func quietMachine(t *testing.T) *Machine {
	t.Helper()

	m, err := NewMachine(Adapters{
		Inference:  inference.NewMock(),
		Search:     search.NewMock(),
		Classifier: ipc.NewMock(),
		Scorer:     relevance.NewMockScorer(),
		Fetcher:    relevance.NewMockFetcher(),
		Prompts:    prompts.Static(),
	}, Options{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("build machine: %v", err)
	}
	return m
}

func TestRouteRejectClearsPendingFields(t *testing.T) {
	m := quietMachine(t)

	s := NewState("input")
	s.ConceptMatrix = &ConceptMatrix{ProblemPurpose: "p", ObjectSystem: "o", EnvironmentField: "e"}
	s.SeedKeywords = &SeedKeywords{
		ProblemPurpose:   []string{"a"},
		ObjectSystem:     []string{"b"},
		EnvironmentField: []string{"c"},
	}
	s.SummaryText = "summary"

	routed, next := m.route(s, ValidationFeedback{
		Decision: DecisionReject,
		Feedback: "too broad",
	})

	if routed.ConceptMatrix != nil {
		t.Error("concept matrix not cleared by rejection")
	}
	if routed.SeedKeywords != nil {
		t.Error("seed keywords not cleared by rejection")
	}
	if routed.InputText != "input" {
		t.Errorf("input text changed: %q", routed.InputText)
	}
	if routed.SummaryText != "summary" {
		t.Error("summary cleared by rejection")
	}
	if !reflect.DeepEqual(routed.RetryFeedback, []string{"too broad"}) {
		t.Errorf("retry feedback %v", routed.RetryFeedback)
	}
	if next != m.conceptForkIndex() {
		t.Errorf("reject routed to step %d, want %d", next, m.conceptForkIndex())
	}
}

func TestRouteRejectWithEmptyFeedback(t *testing.T) {
	m := quietMachine(t)

	routed, _ := m.route(NewState("input"), ValidationFeedback{Decision: DecisionReject})
	if !reflect.DeepEqual(routed.RetryFeedback, []string{""}) {
		t.Errorf("retry feedback %v, want one empty entry", routed.RetryFeedback)
	}
}

func TestRouteEditReplacesKeywords(t *testing.T) {
	m := quietMachine(t)

	s := NewState("input")
	s.SeedKeywords = &SeedKeywords{
		ProblemPurpose:   []string{"old"},
		ObjectSystem:     []string{"old"},
		EnvironmentField: []string{"old"},
	}

	edited := SeedKeywords{
		ProblemPurpose:   []string{"new"},
		ObjectSystem:     []string{},
		EnvironmentField: []string{"n2"},
	}

	routed, next := m.route(s, ValidationFeedback{
		Decision:       DecisionEdit,
		EditedKeywords: &edited,
	})

	if !reflect.DeepEqual(*routed.SeedKeywords, edited) {
		t.Errorf("seed keywords %+v, want %+v", *routed.SeedKeywords, edited)
	}
	if next != m.gateIndex()+1 {
		t.Errorf("edit routed to step %d, want %d", next, m.gateIndex()+1)
	}
}

func TestForkOrderIndependence(t *testing.T) {
	mock := inference.NewMock()
	static := prompts.Static()

	concepts := newConceptsStage(mock, static)
	summarize := newSummarizeStage(mock, static)

	base := NewState("Smart irrigation system with IoT sensors")
	base.NormalizedProblem = base.InputText
	base.NormalizedTechnical = base.InputText

	runBoth := func(first, second Stage) State {
		t.Helper()

		s := base.Clone()
		d1, err := first.Run(context.Background(), s)
		if err != nil {
			t.Fatalf("%s: %v", first.Phase(), err)
		}
		d2, err := second.Run(context.Background(), s)
		if err != nil {
			t.Fatalf("%s: %v", second.Phase(), err)
		}

		// Deltas always apply in table order regardless of completion order.
		out, err := d1.apply(s)
		if err != nil {
			t.Fatalf("apply %s: %v", first.Phase(), err)
		}
		out, err = d2.apply(out)
		if err != nil {
			t.Fatalf("apply %s: %v", second.Phase(), err)
		}
		return out
	}

	forward := runBoth(concepts, summarize)
	reversed := runBoth(summarize, concepts)

	if !reflect.DeepEqual(forward, reversed) {
		t.Errorf("joined state depends on execution order:\n fwd %+v\n rev %+v", forward, reversed)
	}
}

func TestValidateForkRejectsSharedWrites(t *testing.T) {
	overlapping := step{stages: []Stage{
		fakeStage{phase: PhaseClassifying, writes: []Field{FieldQueries}},
		fakeStage{phase: PhaseExpandingSynonyms, writes: []Field{FieldQueries}},
	}}

	if err := validateFork(overlapping); err == nil {
		t.Error("overlapping fork writes accepted")
	}

	readsSibling := step{stages: []Stage{
		fakeStage{phase: PhaseClassifying, writes: []Field{FieldClassificationScores}},
		fakeStage{phase: PhaseExpandingSynonyms, reads: []Field{FieldClassificationScores}, writes: []Field{FieldExpandedKeywords}},
	}}

	if err := validateFork(readsSibling); err == nil {
		t.Error("fork reading sibling writes accepted")
	}

	disjoint := step{stages: []Stage{
		fakeStage{phase: PhaseClassifying, reads: []Field{FieldSummaryText}, writes: []Field{FieldClassificationScores}},
		fakeStage{phase: PhaseExpandingSynonyms, reads: []Field{FieldSeedKeywords}, writes: []Field{FieldExpandedKeywords}},
	}}

	if err := validateFork(disjoint); err != nil {
		t.Errorf("disjoint fork rejected: %v", err)
	}
}

func TestMergeExpansionsNeverShrinks(t *testing.T) {
	current := map[string][]string{
		"sensor": {"probe"},
	}

	merged := mergeExpansions(current, map[string][]string{
		"sensor": {"probe", "detector"},
		"valve":  {"actuator"},
	})

	if !reflect.DeepEqual(merged["sensor"], []string{"probe", "detector"}) {
		t.Errorf("sensor expansions %v", merged["sensor"])
	}
	if !reflect.DeepEqual(merged["valve"], []string{"actuator"}) {
		t.Errorf("valve expansions %v", merged["valve"])
	}

	merged = mergeExpansions(merged, map[string][]string{"sensor": {}})
	if len(merged["sensor"]) != 2 {
		t.Error("merging an empty expansion shrank the accumulated list")
	}
}

func TestDeltaRejectsUndeclaredWrites(t *testing.T) {
	stage := fakeStage{phase: PhaseClassifying, writes: []Field{FieldClassificationScores}}
	delta := NewDelta().Set(FieldQueries, []string{"q"})

	if err := checkDeclaredWrites(stage, delta); err == nil {
		t.Error("undeclared write accepted")
	}
}

type fakeStage struct {
	phase  Phase
	reads  []Field
	writes []Field
}

func (f fakeStage) Phase() Phase    { return f.phase }
func (f fakeStage) Reads() []Field  { return f.reads }
func (f fakeStage) Writes() []Field { return f.writes }

func (f fakeStage) Run(context.Context, State) (Delta, error) {
	return NewDelta(), nil
}
