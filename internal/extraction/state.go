// Package extraction implements the workflow core of the prior-art
// pipeline: the state machine that sequences stages, forks independent
// stages, suspends for human validation, and re-enters earlier stages
// on rejection while preserving accumulated state.
package extraction

// Facet names the three fixed concept categories of an invention.
type Facet string

// The three facets every concept matrix and keyword set covers.
const (
	FacetProblemPurpose   Facet = "problem_purpose"
	FacetObjectSystem     Facet = "object_system"
	FacetEnvironmentField Facet = "environment_field"
)

// Facets returns the facet names in canonical order.
func Facets() []Facet {
	return []Facet{FacetProblemPurpose, FacetObjectSystem, FacetEnvironmentField}
}

// ConceptMatrix decomposes a disclosure into one phrase per facet.
type ConceptMatrix struct {
	ProblemPurpose   string `json:"problem_purpose"`
	ObjectSystem     string `json:"object_system"`
	EnvironmentField string `json:"environment_field"`
}

// SeedKeywords holds the pre-expansion keywords per facet.
// A nil slice means the facet key is absent (distinct from a facet
// deliberately edited to an empty list).
type SeedKeywords struct {
	ProblemPurpose   []string `json:"problem_purpose"`
	ObjectSystem     []string `json:"object_system"`
	EnvironmentField []string `json:"environment_field"`
}

// All returns every keyword across facets in canonical facet order.
func (k SeedKeywords) All() []string {
	out := make([]string, 0, len(k.ProblemPurpose)+len(k.ObjectSystem)+len(k.EnvironmentField))
	out = append(out, k.ProblemPurpose...)
	out = append(out, k.ObjectSystem...)
	out = append(out, k.EnvironmentField...)
	return out
}

// CategoryScore is one predicted classification symbol with confidence.
type CategoryScore struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
}

// Candidate is a discovered document pending relevance scoring.
type Candidate struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// RankedResult is a scored candidate document.
type RankedResult struct {
	URL               string  `json:"url"`
	ScenarioRelevance float64 `json:"scenario_relevance"`
	ProblemRelevance  float64 `json:"problem_relevance"`
}

// State is the working memory of one extraction run, threaded through
// every stage. Stages never mutate it in place; they return deltas the
// machine merges. Outside callers only ever see copies via snapshots.
type State struct {
	InputText            string              `json:"input_text"`
	RetryFeedback        []string            `json:"retry_feedback,omitempty"`
	NormalizedProblem    string              `json:"normalized_problem,omitempty"`
	NormalizedTechnical  string              `json:"normalized_technical,omitempty"`
	SummaryText          string              `json:"summary_text,omitempty"`
	ConceptMatrix        *ConceptMatrix      `json:"concept_matrix,omitempty"`
	SeedKeywords         *SeedKeywords       `json:"seed_keywords,omitempty"`
	ExpandedKeywords     map[string][]string `json:"expanded_keywords,omitempty"`
	ClassificationScores []CategoryScore     `json:"classification_scores,omitempty"`
	Queries              []string            `json:"queries,omitempty"`
	Candidates           []Candidate         `json:"candidates,omitempty"`
	RankedResults        []RankedResult      `json:"ranked_results,omitempty"`
}

// NewState creates the initial state for a run.
func NewState(inputText string) State {
	return State{InputText: inputText}
}

// Clone returns a deep copy so snapshots never alias machine-owned memory.
func (s State) Clone() State {
	out := s

	out.RetryFeedback = cloneSlice(s.RetryFeedback)
	out.Queries = cloneSlice(s.Queries)
	out.ClassificationScores = cloneSlice(s.ClassificationScores)
	out.Candidates = cloneSlice(s.Candidates)
	out.RankedResults = cloneSlice(s.RankedResults)

	if s.ConceptMatrix != nil {
		cm := *s.ConceptMatrix
		out.ConceptMatrix = &cm
	}

	if s.SeedKeywords != nil {
		kw := SeedKeywords{
			ProblemPurpose:   cloneSlice(s.SeedKeywords.ProblemPurpose),
			ObjectSystem:     cloneSlice(s.SeedKeywords.ObjectSystem),
			EnvironmentField: cloneSlice(s.SeedKeywords.EnvironmentField),
		}
		out.SeedKeywords = &kw
	}

	if s.ExpandedKeywords != nil {
		exp := make(map[string][]string, len(s.ExpandedKeywords))
		for k, v := range s.ExpandedKeywords {
			exp[k] = cloneSlice(v)
		}
		out.ExpandedKeywords = exp
	}

	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
