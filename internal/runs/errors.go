package runs

import (
	"errors"
	"net/http"

	"github.com/ng-vanquang/priorart-p-dev/internal/extraction"
)

// Domain errors for run operations.
var (
	ErrNotFound   = errors.New("run not found")
	ErrDuplicate  = errors.New("run already exists")
	ErrEmptyInput = errors.New("input text must not be empty")
)

// MapHTTPStatus maps run domain and extraction errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, extraction.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, extraction.ErrValidation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
