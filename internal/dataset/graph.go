package dataset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/agenthands/dtpr/internal/driver"
)

// GraphSource serves rows from the Memgraph mirror written by MirrorToGraph.
type GraphSource struct {
	Driver driver.GraphDriver
}

func NewGraphSource(d driver.GraphDriver) *GraphSource {
	return &GraphSource{Driver: d}
}

func (g *GraphSource) Find(ctx context.Context, table Table, id string) (Record, error) {
	if err := checkQuery(table, nil); err != nil {
		return Record{}, err
	}
	res, err := g.Driver.ExecuteQuery(ctx, driver.FindRecordQuery, map[string]interface{}{
		"table": string(table),
		"id":    id,
	})
	if err != nil {
		return Record{}, fmt.Errorf("graph find %s %q: %w", table, id, err)
	}
	if len(res.Records) == 0 || id == "" {
		return Record{}, fmt.Errorf("%s %q: %w", table, id, ErrNotFound)
	}
	return decodeGraphRecord(res.Records[0])
}

func (g *GraphSource) Select(ctx context.Context, table Table, filter *Filter) ([]Record, error) {
	if err := checkQuery(table, filter); err != nil {
		return nil, err
	}
	res, err := g.Driver.ExecuteQuery(ctx, driver.SelectRecordsQuery, map[string]interface{}{
		"table": string(table),
	})
	if err != nil {
		return nil, fmt.Errorf("graph select %s: %w", table, err)
	}
	records := make([]Record, 0, len(res.Records))
	for _, row := range res.Records {
		r, err := decodeGraphRecord(row)
		if err != nil {
			return nil, fmt.Errorf("graph select %s: %w", table, err)
		}
		records = append(records, r)
	}
	// Fields are stored as JSON text, so equality is evaluated here.
	return applyFilter(records, filter), nil
}

func decodeGraphRecord(row *neo4j.Record) (Record, error) {
	key, _ := row.Get("key")
	created, _ := row.Get("created_time")
	raw, _ := row.Get("fields")

	r := Record{Fields: map[string]any{}}
	r.Key, _ = key.(string)
	r.CreatedTime, _ = created.(string)
	if text, ok := raw.(string); ok && text != "" {
		if err := json.Unmarshal([]byte(text), &r.Fields); err != nil {
			return Record{}, fmt.Errorf("decode fields of %q: %w", r.Key, err)
		}
	}
	return r, nil
}
