package extraction

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Status is the lifecycle state of a run.
type Status string

// Run lifecycle states.
const (
	StatusRunning            Status = "running"
	StatusAwaitingValidation Status = "awaiting_validation"
	StatusCompleted          Status = "completed"
	StatusFailed             Status = "failed"
	StatusAbandoned          Status = "abandoned"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed || s == StatusAbandoned
}

// Snapshot is a read-only view of a run, safe to request while the run
// executes or sits suspended.
type Snapshot struct {
	Status Status `json:"status"`
	Phase  Phase  `json:"phase"`
	State  State  `json:"state"`
	Error  string `json:"error,omitempty"`
}

// Checkpoint is the serializable continuation of a run suspended at the
// validation gate. A checkpoint can outlive the process and be handed
// to Restore to resume the run.
type Checkpoint struct {
	Phase Phase `json:"phase"`
	State State `json:"state"`
}

// Run is the handle to one pipeline execution. The machine-owned state
// is reachable only through Snapshot copies; the caller interacts via
// Submit, Wait, and Cancel.
type Run struct {
	machine *Machine

	mu     sync.Mutex
	state  State
	phase  Phase
	status Status
	err    error

	decisions   chan ValidationFeedback
	transitions chan Snapshot
	done        chan struct{}
	cancel      context.CancelFunc
}

// Start creates a run for the given input and begins executing the
// pipeline. Cancelling ctx abandons the run.
func Start(ctx context.Context, machine *Machine, inputText string) *Run {
	return launch(ctx, machine, NewState(inputText), 0)
}

// Restore resumes a run from a checkpoint taken at the validation gate.
// Checkpoints from any other phase are rejected with ErrInvalidState.
func Restore(ctx context.Context, machine *Machine, cp Checkpoint) (*Run, error) {
	if cp.Phase != PhaseAwaitingValidation {
		return nil, fmt.Errorf("%w: checkpoint phase %s is not %s",
			ErrInvalidState, cp.Phase, PhaseAwaitingValidation)
	}
	return launch(ctx, machine, cp.State.Clone(), machine.gateIndex()), nil
}

func launch(ctx context.Context, machine *Machine, initial State, startIdx int) *Run {
	runCtx, cancel := context.WithCancel(ctx)

	r := &Run{
		machine:     machine,
		state:       initial,
		phase:       machine.phaseAt(startIdx),
		status:      StatusRunning,
		decisions:   make(chan ValidationFeedback, 1),
		transitions: make(chan Snapshot, 8),
		done:        make(chan struct{}),
		cancel:      cancel,
	}

	go r.loop(runCtx, startIdx)
	return r
}

// loop advances the run through the transition table until it reaches
// the end, fails, or is abandoned. The gate row parks the loop until a
// decision arrives.
func (r *Run) loop(ctx context.Context, idx int) {
	defer close(r.done)
	defer close(r.transitions)

	for idx < len(r.machine.steps) {
		if r.machine.steps[idx].gate {
			next, ok := r.suspend(ctx)
			if !ok {
				return
			}
			idx = next
			continue
		}

		r.enterStep(idx)

		next, err := r.machine.runStep(ctx, idx, r.snapshotState())
		if err != nil {
			r.fail(err)
			return
		}

		r.mu.Lock()
		r.state = next
		r.mu.Unlock()

		idx++
	}

	r.mu.Lock()
	r.phase = PhaseDone
	r.status = StatusCompleted
	r.mu.Unlock()

	r.notify()
	r.machine.logger.Info("run complete")
}

// suspend parks the run at the validation gate until a decision is
// accepted or the run is abandoned. Returns the next table index.
func (r *Run) suspend(ctx context.Context) (int, bool) {
	r.mu.Lock()
	r.phase = PhaseAwaitingValidation
	r.status = StatusAwaitingValidation
	r.mu.Unlock()

	r.notify()
	r.machine.logger.Info("run suspended for validation")

	select {
	case decision := <-r.decisions:
		r.mu.Lock()
		var next int
		r.state, next = r.machine.route(r.state, decision)
		r.phase = r.machine.phaseAt(next)
		r.mu.Unlock()

		r.notify()
		r.machine.logger.Info("validation decision routed", "decision", decision.Decision)
		return next, true

	case <-ctx.Done():
		r.fail(ctx.Err())
		return 0, false
	}
}

// Submit delivers a human decision to a run suspended at the gate.
// Malformed decisions fail with ErrValidation and leave the run
// suspended; submissions against a run not suspended fail with
// ErrInvalidState. At most one decision is accepted per suspension.
func (r *Run) Submit(decision ValidationFeedback) error {
	if err := decision.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	if r.status != StatusAwaitingValidation {
		status := r.status
		r.mu.Unlock()
		return fmt.Errorf("%w: run is %s, not %s",
			ErrInvalidState, status, StatusAwaitingValidation)
	}
	r.status = StatusRunning
	r.mu.Unlock()

	r.decisions <- decision
	return nil
}

// Snapshot returns a copy of the run's current position and state.
func (r *Run) Snapshot() Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	snap := Snapshot{
		Status: r.status,
		Phase:  r.phase,
		State:  r.state.Clone(),
	}
	if r.err != nil {
		snap.Error = r.err.Error()
	}
	return snap
}

// Checkpoint captures the durable continuation of a suspended run.
// Only valid while the run sits at the validation gate.
func (r *Run) Checkpoint() (Checkpoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != StatusAwaitingValidation {
		return Checkpoint{}, fmt.Errorf("%w: run is %s, not %s",
			ErrInvalidState, r.status, StatusAwaitingValidation)
	}

	return Checkpoint{
		Phase: r.phase,
		State: r.state.Clone(),
	}, nil
}

// Wait blocks until the run terminates and returns the final state.
// A completed run returns a nil error; failed and abandoned runs return
// the terminating error.
func (r *Run) Wait(ctx context.Context) (State, error) {
	select {
	case <-r.done:
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.state.Clone(), r.err

	case <-ctx.Done():
		return State{}, ctx.Err()
	}
}

// Cancel abandons the run. In-flight forked stages are joined before
// the run settles; Wait observes the terminal status.
func (r *Run) Cancel() {
	r.cancel()
}

// Done exposes completion for select-based callers.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

func (r *Run) enterStep(idx int) {
	r.mu.Lock()
	r.phase = r.machine.phaseAt(idx)
	r.status = StatusRunning
	r.mu.Unlock()
}

func (r *Run) snapshotState() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state.Clone()
}

func (r *Run) fail(err error) {
	r.mu.Lock()
	r.err = err
	if errors.Is(err, context.Canceled) {
		r.status = StatusAbandoned
	} else {
		r.status = StatusFailed
	}
	status := r.status
	phase := r.phase
	r.mu.Unlock()

	r.notify()

	if status == StatusAbandoned {
		r.machine.logger.Info("run abandoned", "phase", phase)
		return
	}
	r.machine.logger.Error("run failed", "phase", phase, "error", err)
}

// notify emits a snapshot on the transitions feed. Slow consumers drop
// intermediate snapshots; the terminal state is always observable via
// Snapshot after the feed closes.
func (r *Run) notify() {
	select {
	case r.transitions <- r.Snapshot():
	default:
	}
}

// Transitions emits a snapshot at each suspension, resume, and terminal
// transition. The channel closes when the run terminates.
func (r *Run) Transitions() <-chan Snapshot {
	return r.transitions
}
