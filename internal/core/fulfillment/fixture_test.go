package fulfillment

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agenthands/dtpr/internal/core/entity"
	"github.com/agenthands/dtpr/internal/dataset"
	"github.com/agenthands/dtpr/internal/webhook"
)

const (
	placeID      = "recPlace1"
	emptyPlaceID = "recPlace2"
	sessionName  = "projects/dtpr/agent/sessions/test"
)

func rec(id string, fields map[string]any) dataset.Record {
	fields[dataset.FieldID] = id
	return dataset.Record{Key: "row" + id, Fields: fields}
}

func fixture() map[dataset.Table][]dataset.Record {
	return map[dataset.Table][]dataset.Record{
		dataset.Places: {
			rec(placeID, map[string]any{
				"Name":               "Union Station",
				"Headline":           "You are at Union Station, a transit hub in Toronto.",
				"Description":        "A busy railway station.",
				"Accountable Entity": []any{"recAcc"},
			}),
			rec(emptyPlaceID, map[string]any{"Name": "Queens Quay"}),
		},
		dataset.Accountability: {
			rec("recAcc", map[string]any{
				"Name":        "Waterfront Toronto",
				"Description": "Revitalizing the waterfront.",
				"Logo": []any{map[string]any{
					"thumbnails": map[string]any{"large": map[string]any{"url": "https://dl.example.org/logo-large.png"}},
				}},
				"Accountable Organization URL": "https://waterfrontoronto.ca",
			}),
		},
		dataset.Components: {
			rec("recHVAC", map[string]any{
				"Name":             "HVAC System",
				"Description":      "Keeps the building comfortable.",
				"System":           true,
				"Place":            []any{placeID},
				"Child components": []any{"recTemp", "recHum", "recHVAC", "recFan", "recTemp"},
				"Purpose":          []any{"recPurp1", "recPurp2"},
				"Storage":          []any{"recS1", "recS2", "recS3"},
				"Access":           []any{"recAc1"},
				"Data Process":     []any{"recDP1", "recDP2"},
				"Data Type":        []any{"recDTEnv", "recDTPixel"},
				"Target Outcome":   "Lower energy use",
			}),
			rec("recLight", map[string]any{
				"Name":   "Lighting System",
				"System": true,
				"Place":  []any{placeID},
			}),
			rec("recCam", map[string]any{
				"Name":            "Security Camera",
				"Place":           []any{placeID},
				"Technology Type": []any{"recTTCam"},
				"Data Type":       []any{"recDTPII", "recDTPixel"},
				"Purpose":         []any{"recPurp3"},
			}),
			rec("recTemp", map[string]any{
				"Name":             "Temperature Sensor",
				"Place":            []any{placeID},
				"Technology Type":  []any{"recTT1"},
				"Data Type":        []any{"recDTEnv"},
				"Measured Outcome": "a 12% drop in heating costs",
			}),
			rec("recHum", map[string]any{"Name": "Humidity Sensor", "Place": []any{placeID}}),
			rec("recFan", map[string]any{"Name": "Exhaust Fan", "Place": []any{placeID}}),
			rec("recGrid", map[string]any{
				"Name":             "Smart Grid",
				"System":           true,
				"Technology Type":  []any{"recTT1"},
				"Child components": []any{"recFan"},
			}),
			rec("recOrphan", map[string]any{"Name": "Broken Widget", "Technology Type": []any{"recMissing"}}),
		},
		dataset.Purpose: {
			rec("recPurp1", map[string]any{"Name": "Energy Efficiency", "Description": "used to save energy"}),
			rec("recPurp2", map[string]any{"Name": "Comfort"}),
			rec("recPurp3", map[string]any{"Name": "Safety & Security"}),
		},
		dataset.Storage: {
			rec("recS1", map[string]any{"PropertyType": "storage", "Description": "Data is stored on site."}),
			rec("recS2", map[string]any{"PropertyType": "retention", "Description": "Data is kept for 30 days."}),
			rec("recS3", map[string]any{"PropertyType": "storage", "Description": "Backups go to the cloud."}),
		},
		dataset.Access: {
			rec("recAc1", map[string]any{"Name": "Staff", "Description": "Only facilities staff can see the data."}),
		},
		dataset.DataProcess: {
			rec("recDP1", map[string]any{"Name": "De-identification"}),
			rec("recDP2", map[string]any{"Name": "Aggregation"}),
			rec("recDP3", map[string]any{"Name": "Data minimization", "Description": "Only the data that is needed is collected."}),
		},
		dataset.DataType: {
			rec("recDTPII", map[string]any{"Name": "Personal Information"}),
			rec("recDTPixel", map[string]any{"Name": "Pixel-based Image"}),
			rec("recDTEnv", map[string]any{"Name": "Environmental"}),
		},
		dataset.TechnologyType: {
			rec("recTT1", map[string]any{"Name": "Thermometer"}),
			rec("recTTCam", map[string]any{"Name": "Video Camera"}),
		},
	}
}

// countingSource records every query made against the wrapped source.
type countingSource struct {
	dataset.Source
	mu      sync.Mutex
	finds   map[dataset.Table]int
	selects map[dataset.Table]int
}

func newCountingSource(src dataset.Source) *countingSource {
	return &countingSource{
		Source:  src,
		finds:   map[dataset.Table]int{},
		selects: map[dataset.Table]int{},
	}
}

func (c *countingSource) Find(ctx context.Context, table dataset.Table, id string) (dataset.Record, error) {
	c.mu.Lock()
	c.finds[table]++
	c.mu.Unlock()
	return c.Source.Find(ctx, table, id)
}

func (c *countingSource) Select(ctx context.Context, table dataset.Table, f *dataset.Filter) ([]dataset.Record, error) {
	c.mu.Lock()
	c.selects[table]++
	c.mu.Unlock()
	return c.Source.Select(ctx, table, f)
}

type failingSource struct{}

var errBackend = errors.New("connection reset")

func (failingSource) Find(context.Context, dataset.Table, string) (dataset.Record, error) {
	return dataset.Record{}, errBackend
}

func (failingSource) Select(context.Context, dataset.Table, *dataset.Filter) ([]dataset.Record, error) {
	return nil, errBackend
}

type MockRedirector struct {
	Reply string
	Err   error
	Calls int
}

func (m *MockRedirector) Redirect(ctx context.Context, utterance, headline string) (string, error) {
	m.Calls++
	return m.Reply, m.Err
}

func newTestAgent(t *testing.T) (*Agent, *countingSource) {
	t.Helper()
	snap, err := dataset.NewSnapshot(fixture())
	require.NoError(t, err)
	src := newCountingSource(snap)
	return NewAgent(src, placeID, zap.NewNop()), src
}

type turnOpt func(*webhook.Request)

func withParams(p entity.Parameters) turnOpt {
	return func(r *webhook.Request) { r.QueryResult.Parameters = p }
}

func withPayload(p map[string]any) turnOpt {
	return func(r *webhook.Request) { r.OriginalDetectIntentRequest.Payload = p }
}

func withComponent(id string) turnOpt {
	return func(r *webhook.Request) {
		r.QueryResult.OutputContexts = append(r.QueryResult.OutputContexts, webhook.Context{
			Name:          sessionName + "/contexts/component-context",
			LifespanCount: 3,
			Parameters:    map[string]any{"componentId": id},
		})
	}
}

func withQuery(q string) turnOpt {
	return func(r *webhook.Request) { r.QueryResult.QueryText = q }
}

func newRequest(intent string, opts ...turnOpt) *webhook.Request {
	r := &webhook.Request{
		Session: sessionName,
		QueryResult: webhook.QueryResult{
			LanguageCode: "en",
			Intent:       webhook.Intent{DisplayName: intent},
		},
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func texts(resp *webhook.Response) []string {
	if resp.FulfillmentText == "" {
		return nil
	}
	return strings.Split(resp.FulfillmentText, "\n")
}
