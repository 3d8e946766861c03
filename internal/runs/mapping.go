package runs

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/ng-vanquang/priorart-p-dev/internal/extraction"
	"github.com/ng-vanquang/priorart-p-dev/pkg/query"
	"github.com/ng-vanquang/priorart-p-dev/pkg/repository"
)

var projection = query.
	NewProjectionMap("public", "runs", "r").
	Project("id", "ID").
	Project("status", "Status").
	Project("phase", "Phase").
	Project("input_text", "InputText").
	Project("model_name", "ModelName").
	Project("state", "State").
	Project("failure", "Failure").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "created_at",
	Descending: true,
}

// Filters contains optional filtering criteria for run queries.
// Nil fields are ignored; both use exact matching.
type Filters struct {
	Status *extraction.Status `json:"status,omitempty"`
	Phase  *extraction.Phase  `json:"phase,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("Phase", f.Phase)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		status := extraction.Status(s)
		f.Status = &status
	}

	if p := values.Get("phase"); p != "" {
		phase := extraction.Phase(p)
		f.Phase = &phase
	}

	return f
}

func scanRun(s repository.Scanner) (Run, error) {
	var (
		r        Run
		stateRaw []byte
	)

	err := s.Scan(
		&r.ID,
		&r.Status,
		&r.Phase,
		&r.InputText,
		&r.ModelName,
		&stateRaw,
		&r.Failure,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return r, err
	}

	if len(stateRaw) > 0 {
		if err := json.Unmarshal(stateRaw, &r.State); err != nil {
			return r, fmt.Errorf("decode run state: %w", err)
		}
	}

	return r, nil
}
