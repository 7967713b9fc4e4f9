package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"
)

// ClaudeClient uses the Anthropic messages API. Text blocks of the reply
// are concatenated.
type ClaudeClient struct {
	client *anthropic.Client
	model  string
}

func NewClaudeClient(apiKey string, model string, baseURL string) *ClaudeClient {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &ClaudeClient{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

func (c *ClaudeClient) Generate(ctx context.Context, p Prompt) (string, error) {
	temperature := float32(replyTemperature)
	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:  anthropic.Model(c.model),
		System: p.System,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(p.User),
		},
		MaxTokens:   maxReplyTokens,
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("claude %s: %w", c.model, err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Text != nil {
			b.WriteString(*block.Text)
		}
	}
	if s := strings.TrimSpace(b.String()); s != "" {
		return s, nil
	}
	return "", ErrEmptyReply
}
