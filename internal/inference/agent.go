package inference

import (
	"context"
	"fmt"

	"github.com/JaimeStill/go-agents/pkg/agent"
	gaconfig "github.com/JaimeStill/go-agents/pkg/config"

	"github.com/ng-vanquang/priorart-p-dev/internal/prompts"
)

type agentAdapter struct {
	config gaconfig.AgentConfig
}

// NewAgent creates an Adapter backed by a configured language model provider.
// A fresh agent is constructed per completion so concurrent stages never
// share conversation state.
func NewAgent(config gaconfig.AgentConfig) Adapter {
	return &agentAdapter{config: config}
}

func (a *agentAdapter) Model() string {
	return a.config.Model.Name
}

func (a *agentAdapter) Complete(
	ctx context.Context,
	stage prompts.Stage,
	prompt string,
) (string, error) {
	ag, err := agent.New(&a.config)
	if err != nil {
		return "", fmt.Errorf("%s: create agent: %w", stage, err)
	}

	resp, err := ag.Chat(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("%s: completion: %w", stage, err)
	}

	return resp.Text(), nil
}
