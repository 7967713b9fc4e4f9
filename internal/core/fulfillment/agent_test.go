package fulfillment

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agenthands/dtpr/internal/core/entity"
	"github.com/agenthands/dtpr/internal/dataset"
)

func TestParseIntent(t *testing.T) {
	assert.Len(t, intentNames, 22)
	for intent, name := range intentNames {
		assert.Equal(t, intent, ParseIntent(name), name)
		assert.Equal(t, name, intent.String())
	}
	assert.Equal(t, IntentWhereAmI, ParseIntent("  Where Am I "))
	assert.Equal(t, IntentUnknown, ParseIntent("order pizza"))
	assert.Equal(t, "unknown", IntentUnknown.String())
}

func TestAndJoin(t *testing.T) {
	assert.Equal(t, "", andJoin(nil))
	assert.Equal(t, "A", andJoin([]string{"A"}))
	assert.Equal(t, "A and B", andJoin([]string{"A", "B"}))
	assert.Equal(t, "A, B, and C", andJoin([]string{"A", "B", "C"}))
}

func TestHandle_UnknownIntentFallsBack(t *testing.T) {
	agent, _ := newTestAgent(t)
	resp := agent.Handle(context.Background(), newRequest("order pizza"))
	assert.Equal(t, []string{"I didn't understand", "I'm sorry, can you try again?"}, texts(resp))
}

func TestFallback_Redirector(t *testing.T) {
	agent, _ := newTestAgent(t)
	mock := &MockRedirector{Reply: "Try asking which systems are in use here."}
	agent.Redirector = mock

	resp := agent.Handle(context.Background(), newRequest("Default Fallback Intent", withQuery("what's for lunch")))
	assert.Equal(t, []string{"Try asking which systems are in use here.", "I'm sorry, can you try again?"}, texts(resp))
	assert.Equal(t, 1, mock.Calls)

	mock.Err = errors.New("quota")
	resp = agent.Handle(context.Background(), newRequest("Default Fallback Intent", withQuery("what's for lunch")))
	assert.Equal(t, "I didn't understand", texts(resp)[0])
}

func TestWelcome(t *testing.T) {
	agent, _ := newTestAgent(t)

	resp := agent.Handle(context.Background(), newRequest("Default Welcome Intent"))
	assert.Equal(t, []string{"Hi I can provide information to you about technology is being used in building and spaces. What place do you want to talk about?"}, texts(resp))
	assert.Nil(t, resp.FollowupEventInput)

	resp = agent.Handle(context.Background(), newRequest("Default Welcome Intent",
		withPayload(map[string]any{"userId": `{"startingIntent":"learn-about-component","componentId":"recCam"}`})))
	require.NotNil(t, resp.FollowupEventInput)
	assert.Equal(t, "learn-about-component", resp.FollowupEventInput.Name)
	assert.Equal(t, "en", resp.FollowupEventInput.LanguageCode)
}

func TestMissingSubject_ListsSystems(t *testing.T) {
	agent, _ := newTestAgent(t)

	for _, intent := range []string{"get description", "get why", "get storage", "get the parts", "get collects image data"} {
		resp := agent.Handle(context.Background(), newRequest(intent))
		assert.Equal(t, []string{
			"The way that works varies from system to system. However you can ask about each system individually.",
			"This place has several systems: HVAC System, Lighting System",
		}, texts(resp), intent)
		assert.Equal(t, []string{"HVAC System", "Lighting System"}, resp.Suggestions(), intent)
	}
}

func TestUnknownComponent(t *testing.T) {
	agent, _ := newTestAgent(t)
	resp := agent.Handle(context.Background(), newRequest("get description", withComponent("recGone")))
	assert.Equal(t, []string{"I couldn't find that component in my records."}, texts(resp))
}

func TestSourceFailure_Apologizes(t *testing.T) {
	agent := NewAgent(failingSource{}, placeID, zap.NewNop())

	resp := agent.Handle(context.Background(), newRequest("get systems"))
	assert.Equal(t, []string{apology}, texts(resp))

	resp = agent.Handle(context.Background(), newRequest("what is", withParams(entity.Parameters{"component": "security camera"})))
	assert.Equal(t, []string{apology}, texts(resp))
}

func TestTurnError(t *testing.T) {
	err := notFound("nothing here", dataset.ErrNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, dataset.ErrNotFound)
	assert.NotErrorIs(t, err, ErrMissingField)

	var te *TurnError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "nothing here", te.Utterance)

	assert.ErrorIs(t, errMissingSubject, ErrMissingSubject)
	assert.Equal(t, "missing field", missingField("x").Error())
}

func TestResolve_SkipsDanglingAndKeepsOrder(t *testing.T) {
	agent, _ := newTestAgent(t)
	agent.FanOut = 2

	rows, err := agent.resolve(context.Background(), dataset.Purpose, []string{"recPurp2", "recNope", "recPurp1", "recPurp3"})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "recPurp2", rows[0].ID())
	assert.Equal(t, "recPurp1", rows[1].ID())
	assert.Equal(t, "recPurp3", rows[2].ID())
}
