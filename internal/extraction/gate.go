package extraction

import "fmt"

// Decision tags the three possible outcomes of human validation.
type Decision string

// Valid validation decisions.
const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
	DecisionEdit    Decision = "edit"
)

// ValidationFeedback is the human decision submitted to a suspended run.
// Exactly one shape is valid per decision: approve carries nothing,
// reject optionally carries feedback text, edit carries a complete
// replacement keyword set.
type ValidationFeedback struct {
	Decision       Decision      `json:"decision"`
	Feedback       string        `json:"feedback,omitempty"`
	EditedKeywords *SeedKeywords `json:"edited_keywords,omitempty"`
}

// Validate checks the decision shape. It performs no inference and no
// content judgement: empty keyword lists and empty feedback strings are
// legitimate, mixed shapes and missing facet keys are not.
func (f ValidationFeedback) Validate() error {
	switch f.Decision {
	case DecisionApprove, DecisionReject:
		if f.EditedKeywords != nil {
			return fmt.Errorf("%w: %s must not carry edited keywords", ErrValidation, f.Decision)
		}
		return nil

	case DecisionEdit:
		if f.EditedKeywords == nil {
			return fmt.Errorf("%w: edit requires edited keywords", ErrValidation)
		}
		if f.EditedKeywords.ProblemPurpose == nil {
			return fmt.Errorf("%w: edited keywords missing %s", ErrValidation, FacetProblemPurpose)
		}
		if f.EditedKeywords.ObjectSystem == nil {
			return fmt.Errorf("%w: edited keywords missing %s", ErrValidation, FacetObjectSystem)
		}
		if f.EditedKeywords.EnvironmentField == nil {
			return fmt.Errorf("%w: edited keywords missing %s", ErrValidation, FacetEnvironmentField)
		}
		return nil

	default:
		return fmt.Errorf("%w: unknown decision %q", ErrValidation, f.Decision)
	}
}
