package extraction_test

import (
	"errors"
	"testing"

	"github.com/ng-vanquang/priorart-p-dev/internal/extraction"
)

func TestValidationFeedbackShapes(t *testing.T) {
	complete := &extraction.SeedKeywords{
		ProblemPurpose:   []string{"a"},
		ObjectSystem:     []string{},
		EnvironmentField: []string{"b"},
	}

	tests := []struct {
		name     string
		decision extraction.ValidationFeedback
		valid    bool
	}{
		{
			"approve",
			extraction.ValidationFeedback{Decision: extraction.DecisionApprove},
			true,
		},
		{
			"reject with feedback",
			extraction.ValidationFeedback{Decision: extraction.DecisionReject, Feedback: "too broad"},
			true,
		},
		{
			"reject without feedback",
			extraction.ValidationFeedback{Decision: extraction.DecisionReject},
			true,
		},
		{
			"edit with complete keywords",
			extraction.ValidationFeedback{Decision: extraction.DecisionEdit, EditedKeywords: complete},
			true,
		},
		{
			"edit with empty facet",
			extraction.ValidationFeedback{
				Decision: extraction.DecisionEdit,
				EditedKeywords: &extraction.SeedKeywords{
					ProblemPurpose:   []string{},
					ObjectSystem:     []string{},
					EnvironmentField: []string{},
				},
			},
			true,
		},
		{
			"approve carrying edited keywords",
			extraction.ValidationFeedback{Decision: extraction.DecisionApprove, EditedKeywords: complete},
			false,
		},
		{
			"reject carrying edited keywords",
			extraction.ValidationFeedback{Decision: extraction.DecisionReject, EditedKeywords: complete},
			false,
		},
		{
			"edit without keywords",
			extraction.ValidationFeedback{Decision: extraction.DecisionEdit},
			false,
		},
		{
			"edit missing a facet key",
			extraction.ValidationFeedback{
				Decision: extraction.DecisionEdit,
				EditedKeywords: &extraction.SeedKeywords{
					ProblemPurpose: []string{"a"},
					ObjectSystem:   []string{"b"},
				},
			},
			false,
		},
		{
			"unknown decision",
			extraction.ValidationFeedback{Decision: "defer"},
			false,
		},
		{
			"empty decision",
			extraction.ValidationFeedback{},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.decision.Validate()
			if tt.valid && err != nil {
				t.Errorf("valid decision rejected: %v", err)
			}
			if !tt.valid {
				if err == nil {
					t.Fatal("invalid decision accepted")
				}
				if !errors.Is(err, extraction.ErrValidation) {
					t.Errorf("error %v does not wrap ErrValidation", err)
				}
			}
		})
	}
}

func TestStateCloneDoesNotAlias(t *testing.T) {
	s := extraction.NewState("input")
	s.SeedKeywords = &extraction.SeedKeywords{
		ProblemPurpose:   []string{"a"},
		ObjectSystem:     []string{"b"},
		EnvironmentField: []string{"c"},
	}
	s.ExpandedKeywords = map[string][]string{"a": {"x"}}
	s.Queries = []string{"q1"}

	clone := s.Clone()
	clone.SeedKeywords.ProblemPurpose[0] = "mutated"
	clone.ExpandedKeywords["a"][0] = "mutated"
	clone.Queries[0] = "mutated"

	if s.SeedKeywords.ProblemPurpose[0] != "a" {
		t.Error("clone aliases seed keywords")
	}
	if s.ExpandedKeywords["a"][0] != "x" {
		t.Error("clone aliases expanded keywords")
	}
	if s.Queries[0] != "q1" {
		t.Error("clone aliases queries")
	}
}
