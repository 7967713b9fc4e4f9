package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyReply is returned when the model answers with blank text.
var ErrEmptyReply = errors.New("empty reply")

const redirectSystem = `You are the assistant at a public place that explains the technology installed there.
When a visitor says something you could not match, reply with one short, friendly sentence that steers them back to asking about the systems, the data they collect, or who is accountable for them.
Do not invent facts about the place. Output only the sentence.`

const redirectUser = `Place: %s
A visitor said: %q`

// Redirector turns an unmatched utterance into a short answer that points
// the visitor back to questions the agent can handle.
type Redirector struct {
	LLM      LLMClient
	MaxChars int
}

func NewRedirector(client LLMClient) *Redirector {
	return &Redirector{LLM: client, MaxChars: 280}
}

// Redirect asks the model for a one-sentence redirect. placeHeadline may be
// empty when the place is unknown.
func (r *Redirector) Redirect(ctx context.Context, utterance, placeHeadline string) (string, error) {
	if placeHeadline == "" {
		placeHeadline = "unknown"
	}
	resp, err := r.LLM.Generate(ctx, Prompt{
		System: redirectSystem,
		User:   fmt.Sprintf(redirectUser, placeHeadline, utterance),
	})
	if err != nil {
		return "", fmt.Errorf("redirect: %w", err)
	}
	return r.clean(resp)
}

func (r *Redirector) clean(resp string) (string, error) {
	s := strings.TrimSpace(resp)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	s = strings.TrimSpace(strings.Trim(strings.TrimSpace(s), `"`))
	if s == "" {
		return "", ErrEmptyReply
	}
	if r.MaxChars > 0 && len([]rune(s)) > r.MaxChars {
		s = strings.TrimSpace(string([]rune(s)[:r.MaxChars])) + "..."
	}
	return s, nil
}
