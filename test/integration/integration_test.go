//go:build integration

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agenthands/dtpr/internal/config"
	"github.com/agenthands/dtpr/internal/core/fulfillment"
	"github.com/agenthands/dtpr/internal/dataset"
	"github.com/agenthands/dtpr/internal/driver"
	"github.com/agenthands/dtpr/internal/llm"
	"github.com/agenthands/dtpr/internal/webhook"
)

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	_ = godotenv.Load("../../.env")
	cfg := config.Default()
	cfg.ApplyEnv()
	return cfg
}

func airtableSource(t *testing.T, cfg *config.Config) *dataset.AirtableSource {
	t.Helper()
	if cfg.Airtable.APIKey == "" || cfg.Airtable.BaseID == "" {
		t.Skip("Skipping integration test: AIRTABLE_API_KEY or AIRTABLE_BASE_ID not set")
	}
	return dataset.NewAirtableSource(cfg.Airtable, nil, zap.NewNop())
}

func TestLiveAirtable_SnapshotMatchesLive(t *testing.T) {
	cfg := loadConfig(t)
	live := airtableSource(t, cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	snap, err := dataset.Preload(ctx, live, cfg.Concurrency.Preload)
	require.NoError(t, err)
	require.NotZero(t, snap.Len())

	places := snap.Records(dataset.Places)
	require.NotEmpty(t, places)
	id := places[0].ID()
	require.NotEmpty(t, id)

	fromLive, err := live.Find(ctx, dataset.Places, id)
	require.NoError(t, err)
	fromSnap, err := snap.Find(ctx, dataset.Places, id)
	require.NoError(t, err)
	assert.Equal(t, fromLive.String("Name"), fromSnap.String("Name"))
}

func TestLiveAirtable_Conversation(t *testing.T) {
	cfg := loadConfig(t)
	live := airtableSource(t, cfg)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	agent := fulfillment.NewAgent(live, cfg.Defaults.PlaceID, zap.NewNop())
	for _, intent := range []string{"where am I", "get systems", "get accountability", "get questions to ask"} {
		resp := agent.Handle(ctx, &webhook.Request{
			Session:     "projects/dtpr/agent/sessions/integration",
			QueryResult: webhook.QueryResult{Intent: webhook.Intent{DisplayName: intent}},
		})
		assert.NotEmpty(t, resp.FulfillmentText, intent)
		t.Logf("%s -> %s", intent, resp.FulfillmentText)
	}
}

func TestMemgraphMirror(t *testing.T) {
	cfg := loadConfig(t)
	if os.Getenv("MEMGRAPH_URI") == "" {
		t.Skip("Skipping integration test: MEMGRAPH_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, zap.NewNop())
	require.NoError(t, err)
	defer d.Close(context.Background())

	snap, err := dataset.NewSnapshot(map[dataset.Table][]dataset.Record{
		dataset.Places: {
			{Key: "row1", Fields: map[string]any{"ID": "recPlaceIT", "Name": "Integration Plaza"}},
		},
		dataset.Components: {
			{Key: "row2", Fields: map[string]any{"ID": "recSysIT", "Name": "Test System", "System": true, "Place": []any{"recPlaceIT"}, "Child components": []any{"recPartIT"}}},
			{Key: "row3", Fields: map[string]any{"ID": "recPartIT", "Name": "Test Part", "Place": []any{"recPlaceIT"}}},
		},
	})
	require.NoError(t, err)
	require.NoError(t, dataset.MirrorToGraph(ctx, d, snap))

	graph := dataset.NewGraphSource(d)
	r, err := graph.Find(ctx, dataset.Components, "recSysIT")
	require.NoError(t, err)
	assert.Equal(t, "Test System", r.String("Name"))

	agent := fulfillment.NewAgent(graph, "recPlaceIT", zap.NewNop())
	resp := agent.Handle(ctx, &webhook.Request{
		QueryResult: webhook.QueryResult{Intent: webhook.Intent{DisplayName: "get systems"}},
	})
	assert.Equal(t, "This place has a Test System system.", resp.FulfillmentText)
}

func TestLLMRedirect(t *testing.T) {
	cfg := loadConfig(t)
	if cfg.LLM.Provider == "" {
		t.Skip("Skipping integration test: LLM_PROVIDER not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := llm.NewClient(ctx, cfg.LLM, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, client)

	reply, err := llm.NewRedirector(client).Redirect(ctx, "can you book me a taxi", "You are at Union Station.")
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
	t.Logf("redirect: %s", reply)
}
