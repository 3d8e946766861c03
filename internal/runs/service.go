package runs

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ng-vanquang/priorart-p-dev/internal/extraction"
	"github.com/ng-vanquang/priorart-p-dev/pkg/pagination"
	"github.com/ng-vanquang/priorart-p-dev/pkg/storage"
)

type service struct {
	repo          *repo
	store         storage.System
	machine       *extraction.Machine
	model         string
	logger        *slog.Logger
	page          pagination.Config
	checkpointing bool

	mu     sync.Mutex
	active map[uuid.UUID]*extraction.Run

	runCtx context.Context
	stop   context.CancelFunc
}

// New creates the run system. Pipeline executions launched through it
// outlive individual requests; Stop cancels whatever is still active.
// With checkpointing disabled, suspended runs cannot be resumed after
// the launching process exits.
func New(
	db *sql.DB,
	store storage.System,
	machine *extraction.Machine,
	model string,
	logger *slog.Logger,
	page pagination.Config,
	checkpointing bool,
) System {
	runCtx, stop := context.WithCancel(context.Background())

	return &service{
		repo:          &repo{db: db, pagination: page},
		store:         store,
		machine:       machine,
		model:         model,
		logger:        logger.With("system", "runs"),
		page:          page,
		checkpointing: checkpointing,
		active:        make(map[uuid.UUID]*extraction.Run),
		runCtx:        runCtx,
		stop:          stop,
	}
}

func (s *service) Handler() *Handler {
	return NewHandler(s, s.logger, s.page)
}

func (s *service) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Run], error) {
	return s.repo.list(ctx, page, filters)
}

func (s *service) Find(ctx context.Context, id uuid.UUID) (*Run, error) {
	record, err := s.repo.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if run, ok := s.lookup(id); ok {
		overlay(record, run.Snapshot())
	}

	return record, nil
}

func (s *service) Start(ctx context.Context, cmd StartCommand) (*Run, error) {
	if strings.TrimSpace(cmd.InputText) == "" {
		return nil, ErrEmptyInput
	}

	id := uuid.New()

	record, err := s.repo.insert(ctx, id, cmd.InputText, s.model, extraction.NewState(cmd.InputText))
	if err != nil {
		return nil, err
	}

	run := extraction.Start(s.runCtx, s.machine, cmd.InputText)
	s.track(id, run)

	s.logger.Info("run started", "id", id, "model", s.model)
	return record, nil
}

func (s *service) SubmitValidation(
	ctx context.Context,
	id uuid.UUID,
	decision extraction.ValidationFeedback,
) (*Run, error) {
	run, ok := s.lookup(id)
	if !ok {
		restored, err := s.restore(ctx, id)
		if err != nil {
			return nil, err
		}
		run = restored
	}

	if err := run.Submit(decision); err != nil {
		return nil, err
	}

	s.logger.Info("validation decision submitted", "id", id, "decision", decision.Decision)
	return s.Find(ctx, id)
}

// restore relaunches a run suspended by a previous process from its
// persisted checkpoint.
func (s *service) restore(ctx context.Context, id uuid.UUID) (*extraction.Run, error) {
	if !s.checkpointing {
		return nil, fmt.Errorf("%w: checkpoint resume is disabled", extraction.ErrInvalidState)
	}

	record, err := s.repo.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if record.Status != extraction.StatusAwaitingValidation {
		return nil, fmt.Errorf("%w: run is %s, not %s",
			extraction.ErrInvalidState, record.Status, extraction.StatusAwaitingValidation)
	}

	run, err := extraction.Restore(s.runCtx, s.machine, extraction.Checkpoint{
		Phase: extraction.PhaseAwaitingValidation,
		State: record.State,
	})
	if err != nil {
		return nil, err
	}

	s.track(id, run)

	// The restored loop parks at the gate almost immediately; wait for
	// it so the caller's decision is not refused by a startup race.
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if run.Snapshot().Status == extraction.StatusAwaitingValidation {
			break
		}
		time.Sleep(time.Millisecond)
	}

	s.logger.Info("run restored from checkpoint", "id", id)
	return run, nil
}

func (s *service) Abandon(ctx context.Context, id uuid.UUID) error {
	if run, ok := s.lookup(id); ok {
		run.Cancel()
		s.logger.Info("run abandoned", "id", id)
		return nil
	}

	record, err := s.repo.find(ctx, id)
	if err != nil {
		return err
	}
	if record.Status.Terminal() {
		return fmt.Errorf("%w: run already %s", extraction.ErrInvalidState, record.Status)
	}

	if err := s.repo.markAbandoned(ctx, id); err != nil {
		return err
	}

	s.logger.Info("run abandoned", "id", id)
	return nil
}

func (s *service) Export(ctx context.Context, id uuid.UUID) (*ExportResult, error) {
	record, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode run export: %w", err)
	}

	key := fmt.Sprintf("runs/%s.json", id)
	if err := s.store.Upload(ctx, key, bytes.NewReader(data), "application/json"); err != nil {
		return nil, fmt.Errorf("upload run export: %w", err)
	}

	s.logger.Info("run exported", "id", id, "key", key)
	return &ExportResult{Key: key}, nil
}

func (s *service) Stop() {
	s.stop()
}

func (s *service) lookup(id uuid.UUID) (*extraction.Run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	run, ok := s.active[id]
	return run, ok
}

// track registers an active run and watches its transition feed,
// persisting each recorded snapshot until the run terminates.
func (s *service) track(id uuid.UUID, run *extraction.Run) {
	s.mu.Lock()
	s.active[id] = run
	s.mu.Unlock()

	go func() {
		for snap := range run.Transitions() {
			s.persist(id, snap)
		}

		// The feed may drop intermediate snapshots under load; the
		// terminal state is always written from a direct snapshot.
		s.persist(id, run.Snapshot())

		s.mu.Lock()
		delete(s.active, id)
		s.mu.Unlock()
	}()
}

func (s *service) persist(id uuid.UUID, snap extraction.Snapshot) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.repo.updateProgress(ctx, id, snap); err != nil {
		s.logger.Error("persist run progress failed",
			"id", id,
			"status", snap.Status,
			"error", err,
		)
	}
}

func overlay(record *Run, snap extraction.Snapshot) {
	record.Status = snap.Status
	record.Phase = snap.Phase
	record.State = snap.State
	if snap.Error != "" {
		failure := snap.Error
		record.Failure = &failure
	}
}
