package prompts

import (
	"context"

	"github.com/google/uuid"

	"github.com/ng-vanquang/priorart-p-dev/pkg/pagination"
)

// Source resolves the effective prompt content for a stage.
// Satisfied by the full System and by the static default source.
type Source interface {
	// Instructions returns the effective instructions for a stage:
	// the active override if one exists, otherwise the hardcoded default.
	Instructions(ctx context.Context, stage Stage) (string, error)
	// Spec returns the hardcoded output specification for a stage.
	Spec(ctx context.Context, stage Stage) (string, error)
}

// Static returns a Source serving only the hardcoded defaults,
// for contexts without a database (CLI runs, tests).
func Static() Source {
	return staticSource{}
}

type staticSource struct{}

func (staticSource) Instructions(_ context.Context, stage Stage) (string, error) {
	return Instructions(stage)
}

func (staticSource) Spec(_ context.Context, stage Stage) (string, error) {
	return Spec(stage)
}

// System defines the public contract for prompt domain operations.
type System interface {
	Source
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Prompt], error)

	Find(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Create(ctx context.Context, cmd CreateCommand) (*Prompt, error)
	Update(ctx context.Context, id uuid.UUID, cmd UpdateCommand) (*Prompt, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Activate(ctx context.Context, id uuid.UUID) (*Prompt, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*Prompt, error)
}
