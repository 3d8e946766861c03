package extraction

import "fmt"

// Field identifies one State field for stage read/write declarations
// and delta application.
type Field string

// State fields addressable by stages.
const (
	FieldInputText            Field = "input_text"
	FieldRetryFeedback        Field = "retry_feedback"
	FieldNormalizedProblem    Field = "normalized_problem"
	FieldNormalizedTechnical  Field = "normalized_technical"
	FieldSummaryText          Field = "summary_text"
	FieldConceptMatrix        Field = "concept_matrix"
	FieldSeedKeywords         Field = "seed_keywords"
	FieldExpandedKeywords     Field = "expanded_keywords"
	FieldClassificationScores Field = "classification_scores"
	FieldQueries              Field = "queries"
	FieldCandidates           Field = "candidates"
	FieldRankedResults        Field = "ranked_results"
)

// Delta is a partial state update produced by a stage. Values are keyed
// by field and applied by the machine after the stage returns, so stages
// never touch machine-owned state directly.
type Delta struct {
	values map[Field]any
}

// NewDelta creates an empty Delta.
func NewDelta() Delta {
	return Delta{values: make(map[Field]any)}
}

// Set records a field update and returns the Delta for chaining.
func (d Delta) Set(field Field, value any) Delta {
	d.values[field] = value
	return d
}

// Fields returns the fields this delta writes.
func (d Delta) Fields() []Field {
	out := make([]Field, 0, len(d.values))
	for f := range d.values {
		out = append(out, f)
	}
	return out
}

// apply merges the delta into a copy of the state. The expanded keyword
// map accumulates by union so repeated expansion never shrinks it.
func (d Delta) apply(s State) (State, error) {
	for field, value := range d.values {
		var ok bool

		switch field {
		case FieldNormalizedProblem:
			s.NormalizedProblem, ok = value.(string)
		case FieldNormalizedTechnical:
			s.NormalizedTechnical, ok = value.(string)
		case FieldSummaryText:
			s.SummaryText, ok = value.(string)
		case FieldConceptMatrix:
			var cm ConceptMatrix
			if cm, ok = value.(ConceptMatrix); ok {
				s.ConceptMatrix = &cm
			}
		case FieldSeedKeywords:
			var kw SeedKeywords
			if kw, ok = value.(SeedKeywords); ok {
				s.SeedKeywords = &kw
			}
		case FieldExpandedKeywords:
			var exp map[string][]string
			if exp, ok = value.(map[string][]string); ok {
				s.ExpandedKeywords = mergeExpansions(s.ExpandedKeywords, exp)
			}
		case FieldClassificationScores:
			s.ClassificationScores, ok = value.([]CategoryScore)
		case FieldQueries:
			s.Queries, ok = value.([]string)
		case FieldCandidates:
			s.Candidates, ok = value.([]Candidate)
		case FieldRankedResults:
			s.RankedResults, ok = value.([]RankedResult)
		default:
			return s, fmt.Errorf("delta writes unassignable field %s", field)
		}

		if !ok {
			return s, fmt.Errorf("delta value for %s has wrong type %T", field, value)
		}
	}

	return s, nil
}

// mergeExpansions unions new synonym lists into the accumulated map
// without dropping previously recorded terms.
func mergeExpansions(current, incoming map[string][]string) map[string][]string {
	if current == nil {
		current = make(map[string][]string, len(incoming))
	}

	for keyword, synonyms := range incoming {
		seen := make(map[string]struct{}, len(current[keyword]))
		for _, s := range current[keyword] {
			seen[s] = struct{}{}
		}
		for _, s := range synonyms {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			current[keyword] = append(current[keyword], s)
		}
		if _, exists := current[keyword]; !exists {
			current[keyword] = []string{}
		}
	}

	return current
}
