package prompts

import (
	"encoding/json"
	"slices"
)

// Stage represents an inference stage that a prompt override targets.
type Stage string

// Valid inference stages.
const (
	StageConcepts  Stage = "concepts"
	StageSummarize Stage = "summarize"
	StageKeywords  Stage = "keywords"
	StageSynonyms  Stage = "synonyms"
	StageQueries   Stage = "queries"
	StageRelevance Stage = "relevance"
)

var stages = []Stage{
	StageConcepts,
	StageSummarize,
	StageKeywords,
	StageSynonyms,
	StageQueries,
	StageRelevance,
}

// Stages returns the list of valid inference stages.
func Stages() []Stage {
	return stages
}

// UnmarshalJSON validates that the decoded string is a known stage value.
func (s *Stage) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v := Stage(raw)
	if !slices.Contains(stages, v) {
		return ErrInvalidStage
	}
	*s = v
	return nil
}

// ParseStage validates a string as a known inference stage.
// Returns ErrInvalidStage if the value is not recognized.
func ParseStage(s string) (Stage, error) {
	v := Stage(s)
	if !slices.Contains(stages, v) {
		return "", ErrInvalidStage
	}
	return v, nil
}
