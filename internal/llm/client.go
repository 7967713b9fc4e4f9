package llm

import (
	"context"
)

// Prompt is one completion request. System carries the standing
// instructions and goes in the provider's system slot; User is the turn.
type Prompt struct {
	System string
	User   string
}

// LLMClient generates a short plain-text completion.
type LLMClient interface {
	Generate(ctx context.Context, p Prompt) (string, error)
}
