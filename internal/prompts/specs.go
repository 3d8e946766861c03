package prompts

const conceptsSpec = `Respond with a JSON object matching this exact structure:

{
  "problem_purpose": "<phrase>",
  "object_system": "<phrase>",
  "environment_field": "<phrase>"
}

Field constraints:
- problem_purpose: The technical problem solved or purpose served,
  as a short noun phrase (e.g., "reducing water waste in crop irrigation").
- object_system: The system the invention embodies or operates on
  (e.g., "networked soil moisture sensor array").
- environment_field: The technical field or deployment environment
  (e.g., "precision agriculture").

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- All three fields are required and must be non-empty
- Ground each phrase in the disclosure text`

const summarizeSpec = `Respond with a JSON object matching this exact structure:

{
  "summary": "<paragraph>"
}

Field constraints:
- summary: A single paragraph under 150 words describing what the
  invention does, how it works, and where it applies, in the technical
  register of a patent abstract.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- No headings, lists, or line breaks inside the summary`

const keywordsSpec = `Respond with a JSON object matching this exact structure:

{
  "problem_purpose": ["<keyword>", "<keyword>"],
  "object_system": ["<keyword>", "<keyword>"],
  "environment_field": ["<keyword>", "<keyword>"]
}

Field constraints:
- Each field: An array of search keyword strings for that facet.
  Every facet must contain at least one keyword.
- Keywords are concrete technical terms; prefer multi-word terms
  where a single word is ambiguous.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- All three arrays are required
- Do not duplicate a keyword across facets`

const synonymsSpec = `Respond with a JSON object matching this exact structure:

{
  "expansions": [
    {"keyword": "<seed keyword>", "synonyms": ["<term>", "<term>"]}
  ]
}

Field constraints:
- expansions: One entry per seed keyword from the input.
- keyword: The seed keyword exactly as it appears in the input.
- synonyms: Synonyms, alternative spellings, and equivalent technical
  terms patent documents might use for the same concept. May be empty
  when no good equivalent exists.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Cover every seed keyword from the input exactly once
- Do not add terms that shift to a different concept`

const queriesSpec = `Respond with a JSON object matching this exact structure:

{
  "queries": ["<query>", "<query>"]
}

Field constraints:
- queries: Between three and eight search query strings, ordered
  from most specific to most general. Each query combines terms
  from at least two keyword facets.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- The queries array must not be empty`

const relevanceSpec = `Respond with a JSON object matching this exact structure:

{
  "scenario": 0.0,
  "problem": 0.0,
  "rationale": "<explanation>"
}

Field constraints:
- scenario: Number between 0.0 and 1.0 scoring how closely the
  document's application context matches the invention's scenario.
- problem: Number between 0.0 and 1.0 scoring how closely the
  document addresses the same technical problem.
- rationale: Brief explanation citing evidence from the document text.

Behavioral constraints:
- Always respond with valid JSON, no markdown fencing
- Base scores only on the provided text`

var specs = map[Stage]string{
	StageConcepts:  conceptsSpec,
	StageSummarize: summarizeSpec,
	StageKeywords:  keywordsSpec,
	StageSynonyms:  synonymsSpec,
	StageQueries:   queriesSpec,
	StageRelevance: relevanceSpec,
}

// Spec returns the hardcoded output specification for an inference stage.
// Specifications define the expected response format and behavioral constraints.
// Returns ErrInvalidStage if the stage is not recognized.
func Spec(stage Stage) (string, error) {
	text, ok := specs[stage]
	if !ok {
		return "", ErrInvalidStage
	}
	return text, nil
}
