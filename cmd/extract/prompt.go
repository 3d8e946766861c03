package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/ng-vanquang/priorart-p-dev/internal/extraction"
)

// promptDecision collects a gate decision from the console. Unrecognized
// answers re-prompt rather than submitting a malformed decision.
func promptDecision(console *bufio.Reader) extraction.ValidationFeedback {
	for {
		fmt.Print("\ndecision [approve/reject/edit]: ")

		switch readLine(console) {
		case "approve", "a":
			return extraction.ValidationFeedback{
				Decision: extraction.DecisionApprove,
			}
		case "reject", "r":
			fmt.Print("feedback: ")
			return extraction.ValidationFeedback{
				Decision: extraction.DecisionReject,
				Feedback: readLine(console),
			}
		case "edit", "e":
			return extraction.ValidationFeedback{
				Decision:       extraction.DecisionEdit,
				EditedKeywords: promptKeywords(console),
			}
		}

		fmt.Println("unrecognized decision")
	}
}

// promptKeywords collects a full keyword replacement, one facet per
// line, comma separated. A blank line yields an empty facet.
func promptKeywords(console *bufio.Reader) *extraction.SeedKeywords {
	fmt.Println("enter replacement keywords, comma separated")

	fmt.Print("  problem/purpose: ")
	problem := splitKeywords(readLine(console))

	fmt.Print("  object/system: ")
	object := splitKeywords(readLine(console))

	fmt.Print("  environment/field: ")
	environment := splitKeywords(readLine(console))

	return &extraction.SeedKeywords{
		ProblemPurpose:   problem,
		ObjectSystem:     object,
		EnvironmentField: environment,
	}
}

func readLine(console *bufio.Reader) string {
	line, _ := console.ReadString('\n')
	return strings.TrimSpace(line)
}

func splitKeywords(line string) []string {
	if line == "" {
		return []string{}
	}

	parts := strings.Split(line, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}
	return keywords
}
