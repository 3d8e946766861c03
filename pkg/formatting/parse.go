// Package formatting provides schema-validated parsing of structured model
// output. Model responses are expected to be JSON but frequently arrive
// wrapped in markdown fences or surrounded by prose; parsing is attempted
// strictly first, then through fence extraction.
package formatting

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed is returned when content cannot be decoded into the target
// type, either directly or from a markdown code fence.
var ErrParseFailed = errors.New("failed to parse response")

var jsonBlockRegex = regexp.MustCompile(`(?s)` + "```" + `(?:json)?\s*\n?(.*?)\n?` + "```")

// Validator is implemented by response types that require fields beyond
// syntactic JSON validity. A decoded value that fails Validate is treated
// as a parse failure, never as a silently-defaulted result.
type Validator interface {
	Validate() error
}

// ParseStrict decodes content as bare JSON with unknown fields rejected.
// If T implements Validator, the decoded value must also validate.
func ParseStrict[T any](content string) (T, error) {
	var result T

	dec := json.NewDecoder(bytes.NewReader([]byte(strings.TrimSpace(content))))
	dec.DisallowUnknownFields()

	if err := dec.Decode(&result); err != nil {
		return result, fmt.Errorf("%w: %s", ErrParseFailed, err)
	}

	return result, validate(result)
}

// Parse decodes content into T, first as bare JSON, then by extracting a
// markdown-fenced JSON block. Returns ErrParseFailed if both attempts fail
// or the decoded value does not validate.
func Parse[T any](content string) (T, error) {
	var result T
	content = strings.TrimSpace(content)

	if err := json.Unmarshal([]byte(content), &result); err == nil {
		if err := validate(result); err == nil {
			return result, nil
		}
	}

	matches := jsonBlockRegex.FindStringSubmatch(content)
	if len(matches) >= 2 {
		cleaned := strings.TrimSpace(matches[1])
		var fenced T
		if err := json.Unmarshal([]byte(cleaned), &fenced); err == nil {
			if err := validate(fenced); err == nil {
				return fenced, nil
			}
		}
	}

	return result, fmt.Errorf("%w: %s", ErrParseFailed, truncate(content, 240))
}

func validate(v any) error {
	if val, ok := v.(Validator); ok {
		if err := val.Validate(); err != nil {
			return fmt.Errorf("%w: %s", ErrParseFailed, err)
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
