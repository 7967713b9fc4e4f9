// Package webhook holds the Dialogflow ES v2 fulfillment wire format and a
// builder for responses.
package webhook

import "github.com/agenthands/dtpr/internal/core/entity"

type Request struct {
	ResponseID                  string          `json:"responseId"`
	Session                     string          `json:"session"`
	QueryResult                 QueryResult     `json:"queryResult"`
	OriginalDetectIntentRequest OriginalRequest `json:"originalDetectIntentRequest"`
}

type QueryResult struct {
	QueryText      string            `json:"queryText"`
	LanguageCode   string            `json:"languageCode"`
	Parameters     entity.Parameters `json:"parameters"`
	Intent         Intent            `json:"intent"`
	OutputContexts []Context         `json:"outputContexts"`
}

type Intent struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// Context is an NLU output context. Name is the full resource name
// "{session}/contexts/{short name}".
type Context struct {
	Name          string         `json:"name"`
	LifespanCount int            `json:"lifespanCount,omitempty"`
	Parameters    map[string]any `json:"parameters,omitempty"`
}

// OriginalRequest carries the payload set by the client page hosting the
// conversation.
type OriginalRequest struct {
	Source  string         `json:"source,omitempty"`
	Payload map[string]any `json:"payload,omitempty"`
}

type Response struct {
	FulfillmentText     string      `json:"fulfillmentText,omitempty"`
	FulfillmentMessages []Message   `json:"fulfillmentMessages,omitempty"`
	OutputContexts      []Context   `json:"outputContexts,omitempty"`
	FollowupEventInput  *EventInput `json:"followupEventInput,omitempty"`
}

// Message is one rich response message; exactly one field is set.
type Message struct {
	Text         *Text         `json:"text,omitempty"`
	Card         *Card         `json:"card,omitempty"`
	QuickReplies *QuickReplies `json:"quickReplies,omitempty"`
}

type Text struct {
	Text []string `json:"text"`
}

type Card struct {
	Title    string   `json:"title,omitempty"`
	Subtitle string   `json:"subtitle,omitempty"`
	ImageURI string   `json:"imageUri,omitempty"`
	Buttons  []Button `json:"buttons,omitempty"`
}

type Button struct {
	Text     string `json:"text"`
	Postback string `json:"postback,omitempty"`
}

type QuickReplies struct {
	Title        string   `json:"title,omitempty"`
	QuickReplies []string `json:"quickReplies"`
}

type EventInput struct {
	Name         string         `json:"name"`
	LanguageCode string         `json:"languageCode,omitempty"`
	Parameters   map[string]any `json:"parameters,omitempty"`
}

// ShortName returns the last path segment of a context name.
func (c Context) ShortName() string {
	for i := len(c.Name) - 1; i >= 0; i-- {
		if c.Name[i] == '/' {
			return c.Name[i+1:]
		}
	}
	return c.Name
}
