package webhook

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRequest = `{
  "responseId": "resp-1",
  "session": "projects/dtpr/agent/sessions/abc",
  "queryResult": {
    "queryText": "what is a security camera",
    "languageCode": "en",
    "parameters": {"component": "security camera", "location": ""},
    "intent": {"name": "projects/dtpr/agent/intents/1", "displayName": "what is"},
    "outputContexts": [
      {"name": "projects/dtpr/agent/sessions/abc/contexts/component-context", "lifespanCount": 3, "parameters": {"componentId": "recHVAC"}}
    ]
  },
  "originalDetectIntentRequest": {
    "payload": {"userId": "{\"placeId\":\"recPlace1\"}"}
  }
}`

func TestDecodeRequest(t *testing.T) {
	var req Request
	require.NoError(t, json.Unmarshal([]byte(sampleRequest), &req))

	assert.Equal(t, "what is", req.QueryResult.Intent.DisplayName)
	assert.Equal(t, "security camera", req.QueryResult.Parameters.Value("component"))
	require.Len(t, req.QueryResult.OutputContexts, 1)
	assert.Equal(t, "component-context", req.QueryResult.OutputContexts[0].ShortName())
	assert.Equal(t, "recHVAC", req.QueryResult.OutputContexts[0].Parameters["componentId"])
	assert.Contains(t, req.OriginalDetectIntentRequest.Payload, "userId")
}

func TestBuilder(t *testing.T) {
	req := &Request{Session: "projects/dtpr/agent/sessions/abc"}
	b := NewBuilder(req)

	b.Say("This place has several systems: HVAC System, Lighting System")
	b.Say("  ")
	b.Suggest("HVAC System")
	b.Suggest("Lighting System", "")
	b.Card(Card{Title: "Waterfront Toronto", Buttons: []Button{{Text: "Visit", Postback: "https://example.org"}}})
	b.SetContext("component-context", 5, map[string]any{"componentId": "recA"})
	b.SetContext("component-context", 5, map[string]any{"componentId": "recB"})
	b.Followup("learn-about-place")

	resp := b.Response()
	assert.Equal(t, "This place has several systems: HVAC System, Lighting System", resp.FulfillmentText)
	require.Len(t, resp.FulfillmentMessages, 3)
	assert.Equal(t, []string{"HVAC System", "Lighting System"}, resp.Suggestions())
	assert.Len(t, resp.Cards(), 1)

	ctx, ok := resp.Context("component-context")
	require.True(t, ok)
	assert.Equal(t, "projects/dtpr/agent/sessions/abc/contexts/component-context", ctx.Name)
	assert.Equal(t, 5, ctx.LifespanCount)
	assert.Equal(t, "recB", ctx.Parameters["componentId"])
	assert.Len(t, resp.OutputContexts, 1)

	require.NotNil(t, resp.FollowupEventInput)
	assert.Equal(t, "learn-about-place", resp.FollowupEventInput.Name)
	assert.Equal(t, "en", resp.FollowupEventInput.LanguageCode)
}

func TestResponseJSON(t *testing.T) {
	b := NewBuilder(nil)
	b.Say("Hello")
	b.Suggest("Where am I?")

	data, err := json.Marshal(b.Response())
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"fulfillmentText": "Hello",
		"fulfillmentMessages": [
			{"text": {"text": ["Hello"]}},
			{"quickReplies": {"quickReplies": ["Where am I?"]}}
		]
	}`, string(data))
}
