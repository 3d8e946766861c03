package inference

import (
	"context"
	"fmt"

	"github.com/ng-vanquang/priorart-p-dev/internal/prompts"
)

// Mock is an Adapter returning canned responses keyed by stage.
// Unscripted stages produce an error so tests fail loudly instead of
// silently parsing empty output.
type Mock struct {
	Name      string
	Responses map[prompts.Stage]string
}

// NewMock creates a Mock preloaded with responses for a smart irrigation
// disclosure, covering every inference stage of the pipeline.
func NewMock() *Mock {
	return &Mock{
		Name: "mock",
		Responses: map[prompts.Stage]string{
			prompts.StageConcepts: `{
				"problem_purpose": "reducing water waste in crop irrigation",
				"object_system": "networked soil moisture sensor array with automated valve control",
				"environment_field": "precision agriculture"
			}`,
			prompts.StageSummarize: `{
				"summary": "A smart irrigation system deploys wireless soil moisture sensors across agricultural fields. Sensor readings are aggregated by a gateway that schedules irrigation valves, applying water only where soil moisture falls below crop-specific thresholds. The system reduces water consumption while maintaining crop yield in precision agriculture deployments."
			}`,
			prompts.StageKeywords: `{
				"problem_purpose": ["water conservation", "irrigation scheduling"],
				"object_system": ["soil moisture sensor", "automated valve"],
				"environment_field": ["precision agriculture", "smart farming"]
			}`,
			prompts.StageSynonyms: `{
				"expansions": [
					{"keyword": "water conservation", "synonyms": ["water usage optimization", "water saving"]},
					{"keyword": "irrigation scheduling", "synonyms": ["deficit irrigation", "irrigation timing"]},
					{"keyword": "soil moisture sensor", "synonyms": ["capacitive moisture probe", "soil humidity sensor"]},
					{"keyword": "automated valve", "synonyms": ["solenoid irrigation valve", "remote actuated valve"]},
					{"keyword": "precision agriculture", "synonyms": ["site-specific crop management"]},
					{"keyword": "smart farming", "synonyms": ["agricultural IoT", "connected agriculture"]}
				]
			}`,
			prompts.StageQueries: `{
				"queries": [
					"soil moisture sensor automated valve irrigation scheduling",
					"capacitive moisture probe water conservation precision agriculture",
					"agricultural IoT deficit irrigation",
					"smart farming water usage optimization"
				]
			}`,
			prompts.StageRelevance: `{
				"scenario": 0.82,
				"problem": 0.74,
				"rationale": "The document describes sensor-driven irrigation control in row-crop fields, matching both the deployment scenario and the water conservation problem."
			}`,
		},
	}
}

func (m *Mock) Model() string {
	return m.Name
}

func (m *Mock) Complete(
	_ context.Context,
	stage prompts.Stage,
	_ string,
) (string, error) {
	resp, ok := m.Responses[stage]
	if !ok {
		return "", fmt.Errorf("no scripted response for stage %s", stage)
	}
	return resp, nil
}
