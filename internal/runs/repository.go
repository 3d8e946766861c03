package runs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/ng-vanquang/priorart-p-dev/internal/extraction"
	"github.com/ng-vanquang/priorart-p-dev/pkg/pagination"
	"github.com/ng-vanquang/priorart-p-dev/pkg/query"
	"github.com/ng-vanquang/priorart-p-dev/pkg/repository"
)

// repo handles run row persistence. Lifecycle logic lives in service;
// this layer only reads and writes rows.
type repo struct {
	db         *sql.DB
	pagination pagination.Config
}

func (r *repo) list(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Run], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "InputText")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count runs: %w", err)
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	records, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRun)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	result := pagination.NewPageResult(records, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) find(ctx context.Context, id uuid.UUID) (*Run, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	record, err := repository.QueryOne(ctx, r.db, q, args, scanRun)
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return &record, nil
}

func (r *repo) insert(
	ctx context.Context,
	id uuid.UUID,
	input string,
	model string,
	state extraction.State,
) (*Run, error) {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode run state: %w", err)
	}

	q := `
		INSERT INTO runs(id, status, phase, input_text, model_name, state)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, status, phase, input_text, model_name, state, failure, created_at, updated_at`

	args := []any{
		id,
		extraction.StatusRunning,
		extraction.PhaseNormalizing,
		input,
		model,
		stateJSON,
	}

	record, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (Run, error) {
		return repository.QueryOne(ctx, tx, q, args, scanRun)
	})
	if err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrDuplicate)
	}

	return &record, nil
}

func (r *repo) updateProgress(ctx context.Context, id uuid.UUID, snap extraction.Snapshot) error {
	stateJSON, err := json.Marshal(snap.State)
	if err != nil {
		return fmt.Errorf("encode run state: %w", err)
	}

	var failure *string
	if snap.Error != "" {
		failure = &snap.Error
	}

	q := `
		UPDATE runs
		SET status = $1, phase = $2, state = $3, failure = $4, updated_at = now()
		WHERE id = $5`

	_, err = repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx, q,
			snap.Status, snap.Phase, stateJSON, failure, id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}

func (r *repo) markAbandoned(ctx context.Context, id uuid.UUID) error {
	q := `
		UPDATE runs
		SET status = $1, updated_at = now()
		WHERE id = $2`

	_, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (struct{}, error) {
		if err := repository.ExecExpectOne(
			ctx, tx, q,
			extraction.StatusAbandoned, id,
		); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, nil
	})

	if err != nil {
		return repository.MapError(err, ErrNotFound, ErrDuplicate)
	}
	return nil
}
