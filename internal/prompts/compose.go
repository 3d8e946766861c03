package prompts

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Compose builds a stage prompt by combining tunable instructions,
// the immutable output specification, and an optional input payload.
// The payload is serialized as indented JSON so models receive structured
// input in a stable shape. When payload is nil the prompt contains only
// instructions and spec.
func Compose(
	ctx context.Context,
	src Source,
	stage Stage,
	payload any,
) (string, error) {
	instructions, err := src.Instructions(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load instructions for %s: %w", stage, err)
	}

	spec, err := src.Spec(ctx, stage)
	if err != nil {
		return "", fmt.Errorf("load spec for %s: %w", stage, err)
	}

	var sb strings.Builder
	sb.WriteString(instructions)
	sb.WriteString("\n\n")
	sb.WriteString(spec)

	if payload != nil {
		payloadJSON, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return "", fmt.Errorf("serialize %s payload: %w", stage, err)
		}

		sb.WriteString("\n\nInput:\n\n")
		sb.WriteString(string(payloadJSON))
	}

	return sb.String(), nil
}
