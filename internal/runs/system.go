package runs

import (
	"context"

	"github.com/google/uuid"

	"github.com/ng-vanquang/priorart-p-dev/internal/extraction"
	"github.com/ng-vanquang/priorart-p-dev/pkg/pagination"
)

// System defines the public contract for run domain operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Run], error)

	// Find returns the run record, overlaid with the live snapshot when
	// the run is still executing in this process.
	Find(ctx context.Context, id uuid.UUID) (*Run, error)

	// Start persists and launches a new pipeline run.
	Start(ctx context.Context, cmd StartCommand) (*Run, error)

	// SubmitValidation resumes a run suspended at the validation gate.
	// Runs suspended by a previous process are restored from their
	// persisted checkpoint before the decision is applied, unless
	// checkpointing is disabled.
	SubmitValidation(ctx context.Context, id uuid.UUID, decision extraction.ValidationFeedback) (*Run, error)

	// Abandon cancels a run that has not yet terminated.
	Abandon(ctx context.Context, id uuid.UUID) error

	// Export writes the run record to blob storage and returns the key.
	Export(ctx context.Context, id uuid.UUID) (*ExportResult, error)

	// Stop cancels all runs active in this process. Called on shutdown.
	Stop()
}
