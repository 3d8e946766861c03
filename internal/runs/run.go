// Package runs implements the extraction run domain: persistence,
// lifecycle management, and HTTP handlers for pipeline executions,
// including the validation suspend/resume protocol.
package runs

import (
	"time"

	"github.com/google/uuid"

	"github.com/ng-vanquang/priorart-p-dev/internal/extraction"
)

// Run is the persisted record of one pipeline execution. State holds
// the full extraction state snapshot as of the last recorded transition.
type Run struct {
	ID        uuid.UUID         `json:"id"`
	Status    extraction.Status `json:"status"`
	Phase     extraction.Phase  `json:"phase"`
	InputText string            `json:"input_text"`
	ModelName string            `json:"model_name"`
	State     extraction.State  `json:"state"`
	Failure   *string           `json:"failure"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// StartCommand carries the data needed to begin a new run.
type StartCommand struct {
	InputText string `json:"input_text"`
}

// ExportResult reports where an exported run artifact was written.
type ExportResult struct {
	Key string `json:"key"`
}
