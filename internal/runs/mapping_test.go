package runs_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/ng-vanquang/priorart-p-dev/internal/extraction"
	"github.com/ng-vanquang/priorart-p-dev/internal/runs"
)

func TestFiltersFromQuery(t *testing.T) {
	values := url.Values{}
	values.Set("status", "awaiting_validation")
	values.Set("phase", "generating_keywords")

	f := runs.FiltersFromQuery(values)

	if f.Status == nil || *f.Status != extraction.StatusAwaitingValidation {
		t.Errorf("status filter = %v", f.Status)
	}
	if f.Phase == nil || *f.Phase != extraction.PhaseGeneratingKeywords {
		t.Errorf("phase filter = %v", f.Phase)
	}
}

func TestFiltersFromQueryEmpty(t *testing.T) {
	f := runs.FiltersFromQuery(url.Values{})

	if f.Status != nil || f.Phase != nil {
		t.Errorf("empty query produced filters: %+v", f)
	}
}

func TestMapHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: runs.ErrNotFound, want: http.StatusNotFound},
		{name: "duplicate", err: runs.ErrDuplicate, want: http.StatusConflict},
		{name: "empty input", err: runs.ErrEmptyInput, want: http.StatusBadRequest},
		{name: "invalid state", err: extraction.ErrInvalidState, want: http.StatusConflict},
		{name: "validation", err: extraction.ErrValidation, want: http.StatusUnprocessableEntity},
		{name: "wrapped validation", err: fmt.Errorf("submit: %w", extraction.ErrValidation), want: http.StatusUnprocessableEntity},
		{name: "unknown", err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := runs.MapHTTPStatus(tt.err); got != tt.want {
				t.Errorf("MapHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
