package extraction

import (
	"errors"
	"fmt"
	"net/http"
)

// Error taxonomy for extraction runs.
var (
	// ErrInferenceParse indicates model output failed schema validation
	// after the fallback parse attempt. Fatal for the run.
	ErrInferenceParse = errors.New("inference output failed schema validation")
	// ErrAdapterUnavailable indicates an adapter call failed or timed out.
	// Fatal for the run; the caller may start a new one.
	ErrAdapterUnavailable = errors.New("adapter unavailable")
	// ErrValidation indicates a malformed human decision. The run stays
	// suspended and the caller must resubmit.
	ErrValidation = errors.New("invalid validation decision")
	// ErrInvalidState indicates an operation attempted against a run not
	// in the required status.
	ErrInvalidState = errors.New("run is not in the required state")
)

// StageError wraps a stage failure with the phase it occurred in.
// The run's last-known state remains available through Snapshot for
// diagnostics.
type StageError struct {
	Phase Phase
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Phase, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// MapHTTPStatus maps extraction errors to appropriate HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrInvalidState) {
		return http.StatusConflict
	}
	if errors.Is(err, ErrValidation) {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
