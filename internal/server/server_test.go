package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agenthands/dtpr/internal/config"
	"github.com/agenthands/dtpr/internal/core/fulfillment"
	"github.com/agenthands/dtpr/internal/dataset"
	"github.com/agenthands/dtpr/internal/webhook"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type MockFulfiller struct {
	Requests    []*webhook.Request
	HadDeadline bool
}

func (m *MockFulfiller) Handle(ctx context.Context, req *webhook.Request) *webhook.Response {
	m.Requests = append(m.Requests, req)
	_, m.HadDeadline = ctx.Deadline()
	b := webhook.NewBuilder(req)
	b.Say("ok: " + req.QueryResult.Intent.DisplayName)
	return b.Response()
}

func post(r http.Handler, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const getSystems = `{"session":"projects/p/agent/sessions/s","queryResult":{"intent":{"displayName":"get systems"},"parameters":{}}}`

func TestWebhook(t *testing.T) {
	mock := &MockFulfiller{}
	srv := NewServer(mock, config.ServerConfig{TurnTimeout: config.Duration{Duration: time.Second}}, zap.NewNop())
	r := srv.SetupRouter()

	w := post(r, getSystems, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(requestIDHeader))

	var resp webhook.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok: get systems", resp.FulfillmentText)
	require.Len(t, mock.Requests, 1)
	assert.True(t, mock.HadDeadline)
}

func TestWebhook_MalformedJSON(t *testing.T) {
	mock := &MockFulfiller{}
	r := NewServer(mock, config.ServerConfig{}, nil).SetupRouter()

	w := post(r, `{"queryResult":`, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, mock.Requests)
}

func TestWebhook_Token(t *testing.T) {
	mock := &MockFulfiller{}
	r := NewServer(mock, config.ServerConfig{WebhookToken: "s3cret"}, nil).SetupRouter()

	assert.Equal(t, http.StatusUnauthorized, post(r, getSystems, nil).Code)
	assert.Equal(t, http.StatusUnauthorized, post(r, getSystems, map[string]string{tokenHeader: "nope"}).Code)
	assert.Equal(t, http.StatusOK, post(r, getSystems, map[string]string{tokenHeader: "s3cret"}).Code)
	assert.Len(t, mock.Requests, 1)
}

func TestHealth(t *testing.T) {
	r := NewServer(&MockFulfiller{}, config.ServerConfig{}, nil).SetupRouter()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc", w.Header().Get(requestIDHeader))
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestWebhook_EndToEnd(t *testing.T) {
	snap, err := dataset.NewSnapshot(map[dataset.Table][]dataset.Record{
		dataset.Components: {
			{Key: "r1", Fields: map[string]any{"ID": "recHVAC", "Name": "HVAC System", "System": true, "Place": []any{config.DefaultPlaceID}}},
			{Key: "r2", Fields: map[string]any{"ID": "recLight", "Name": "Lighting System", "System": true, "Place": []any{config.DefaultPlaceID}}},
		},
	})
	require.NoError(t, err)
	agent := fulfillment.NewAgent(snap, config.DefaultPlaceID, zap.NewNop())
	r := NewServer(agent, config.ServerConfig{}, nil).SetupRouter()

	w := post(r, getSystems, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp webhook.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "This place has several systems: HVAC System, Lighting System", resp.FulfillmentText)
	assert.Equal(t, []string{"HVAC System", "Lighting System"}, resp.Suggestions())

	// Unknown intents still get a 200 and the fallback.
	w = post(r, `{"queryResult":{"intent":{"displayName":"order pizza"}}}`, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "I didn't understand\nI'm sorry, can you try again?", resp.FulfillmentText)
}
