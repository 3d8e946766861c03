package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ng-vanquang/priorart-p-dev/pkg/formatting"
)

// Phase identifies a position in the pipeline's transition table.
type Phase string

// Pipeline phases in traversal order.
const (
	PhaseNormalizing           Phase = "normalizing"
	PhaseExtractingConcepts    Phase = "extracting_concepts"
	PhaseSummarizing           Phase = "summarizing"
	PhaseGeneratingKeywords    Phase = "generating_keywords"
	PhaseAwaitingValidation    Phase = "awaiting_validation"
	PhaseClassifying           Phase = "classifying"
	PhaseExpandingSynonyms     Phase = "expanding_synonyms"
	PhaseGeneratingQueries     Phase = "generating_queries"
	PhaseDiscoveringCandidates Phase = "discovering_candidates"
	PhaseScoringRelevance      Phase = "scoring_relevance"
	PhaseDone                  Phase = "done"
)

// step is one row of the transition table: either a suspension point
// for human validation, or one to two stages. Two stages run
// concurrently and join before the next step.
type step struct {
	gate   bool
	stages []Stage
}

// Machine owns the transition table and executes steps against a state.
// It holds no per-run data; Run instances drive it.
type Machine struct {
	steps        []step
	stageTimeout time.Duration
	logger       *slog.Logger
}

// NewMachine builds the pipeline transition table from the given
// adapters. Construction fails if a forked pair declares overlapping
// writes or reads its sibling's writes, since that would make join
// results order-dependent.
func NewMachine(adapters Adapters, opts Options) (*Machine, error) {
	if err := adapters.validate(); err != nil {
		return nil, err
	}

	opts.applyDefaults()

	steps := []step{
		{stages: []Stage{newNormalizeStage()}},
		{stages: []Stage{
			newConceptsStage(adapters.Inference, adapters.Prompts),
			newSummarizeStage(adapters.Inference, adapters.Prompts),
		}},
		{stages: []Stage{newKeywordsStage(adapters.Inference, adapters.Prompts)}},
		{gate: true},
		{stages: []Stage{
			newClassifyStage(adapters.Classifier),
			newExpandStage(adapters.Inference, adapters.Prompts),
		}},
		{stages: []Stage{newQueriesStage(adapters.Inference, adapters.Prompts)}},
		{stages: []Stage{newDiscoverStage(adapters.Search, opts.SearchLimit)}},
		{stages: []Stage{newScoreStage(adapters.Scorer, adapters.Fetcher, opts.ScoreWorkers)}},
	}

	for _, st := range steps {
		if err := validateFork(st); err != nil {
			return nil, err
		}
	}

	return &Machine{
		steps:        steps,
		stageTimeout: opts.StageTimeout,
		logger:       opts.Logger.With("system", "extraction"),
	}, nil
}

// validateFork checks that concurrent stages touch disjoint state.
func validateFork(st step) error {
	if len(st.stages) < 2 {
		return nil
	}

	a, b := st.stages[0], st.stages[1]

	for _, w := range a.Writes() {
		if containsField(b.Writes(), w) {
			return fmt.Errorf("forked stages %s and %s both write %s", a.Phase(), b.Phase(), w)
		}
		if containsField(b.Reads(), w) {
			return fmt.Errorf("forked stage %s reads %s written by %s", b.Phase(), w, a.Phase())
		}
	}
	for _, w := range b.Writes() {
		if containsField(a.Reads(), w) {
			return fmt.Errorf("forked stage %s reads %s written by %s", a.Phase(), w, b.Phase())
		}
	}

	return nil
}

func containsField(fields []Field, f Field) bool {
	for _, c := range fields {
		if c == f {
			return true
		}
	}
	return false
}

// gateIndex returns the table index of the validation gate.
func (m *Machine) gateIndex() int {
	for i, st := range m.steps {
		if st.gate {
			return i
		}
	}
	return -1
}

// phaseAt returns the reporting phase for a step. Forked steps report
// their first stage's phase.
func (m *Machine) phaseAt(idx int) Phase {
	if idx >= len(m.steps) {
		return PhaseDone
	}
	st := m.steps[idx]
	if st.gate {
		return PhaseAwaitingValidation
	}
	return st.stages[0].Phase()
}

// runStep executes one table row and returns the merged state.
// Forked stages run concurrently against the same snapshot; their
// deltas are applied in table order, which is safe because construction
// verified the writes are disjoint.
func (m *Machine) runStep(ctx context.Context, idx int, s State) (State, error) {
	st := m.steps[idx]

	if len(st.stages) == 1 {
		delta, err := m.runStage(ctx, st.stages[0], s)
		if err != nil {
			return s, err
		}
		return delta.apply(s)
	}

	deltas := make([]Delta, len(st.stages))
	g, gctx := errgroup.WithContext(ctx)

	for i, stage := range st.stages {
		g.Go(func() error {
			delta, err := m.runStage(gctx, stage, s)
			if err != nil {
				return err
			}
			deltas[i] = delta
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return s, err
	}

	for _, delta := range deltas {
		var err error
		s, err = delta.apply(s)
		if err != nil {
			return s, err
		}
	}

	return s, nil
}

// runStage executes a single stage with the configured timeout and maps
// failures into the run error taxonomy.
func (m *Machine) runStage(ctx context.Context, stage Stage, s State) (Delta, error) {
	runCtx := ctx
	cancel := context.CancelFunc(func() {})
	if m.stageTimeout > 0 {
		runCtx, cancel = context.WithTimeout(ctx, m.stageTimeout)
	}
	defer cancel()

	started := time.Now()
	delta, err := stage.Run(runCtx, s)
	if err != nil {
		return Delta{}, &StageError{Phase: stage.Phase(), Err: m.mapStageError(ctx, err)}
	}

	if err := checkDeclaredWrites(stage, delta); err != nil {
		return Delta{}, &StageError{Phase: stage.Phase(), Err: err}
	}

	m.logger.Debug(
		"stage complete",
		"phase", stage.Phase(),
		"duration", time.Since(started),
	)

	return delta, nil
}

// mapStageError folds raw stage failures into the typed taxonomy.
// Parse failures surface as ErrInferenceParse (the lenient reparse has
// already been attempted by then). Caller cancellation passes through
// untouched; everything else an adapter can produce, timeouts included,
// is an availability failure.
func (m *Machine) mapStageError(parent context.Context, err error) error {
	switch {
	case errors.Is(err, formatting.ErrParseFailed):
		return fmt.Errorf("%w: %w", ErrInferenceParse, err)
	case parent.Err() != nil:
		return parent.Err()
	case errors.Is(err, ErrInferenceParse),
		errors.Is(err, ErrAdapterUnavailable),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrInvalidState):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrAdapterUnavailable, err)
	}
}

func checkDeclaredWrites(stage Stage, delta Delta) error {
	for _, f := range delta.Fields() {
		if !containsField(stage.Writes(), f) {
			return fmt.Errorf("stage %s wrote undeclared field %s", stage.Phase(), f)
		}
	}
	return nil
}

// route applies a validated gate decision to the state and returns the
// next table index. Approval proceeds unchanged; edit replaces the seed
// keywords wholesale; rejection clears the concept and keyword fields,
// records the feedback for the next pass, and re-enters the concept
// fork.
func (m *Machine) route(s State, decision ValidationFeedback) (State, int) {
	gateIdx := m.gateIndex()

	switch decision.Decision {
	case DecisionEdit:
		edited := *decision.EditedKeywords
		s.SeedKeywords = &edited
		return s, gateIdx + 1

	case DecisionReject:
		s.ConceptMatrix = nil
		s.SeedKeywords = nil
		s.RetryFeedback = append(s.RetryFeedback, decision.Feedback)
		return s, m.conceptForkIndex()

	default:
		return s, gateIdx + 1
	}
}

// conceptForkIndex returns the table index of the concept-extraction
// fork that rejection re-enters. Normalization re-runs too so the retry
// feedback reaches the normalized input.
func (m *Machine) conceptForkIndex() int {
	for i, st := range m.steps {
		if st.gate {
			continue
		}
		for _, stage := range st.stages {
			if stage.Phase() == PhaseNormalizing {
				return i
			}
		}
	}
	return 0
}
