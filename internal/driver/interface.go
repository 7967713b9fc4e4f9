package driver

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// GraphDriver runs Cypher against the graph mirror of the DTPR tables.
// Each Airtable record is a :Record node carrying its table name and
// record id.
type GraphDriver interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error)
	// BuildIndices indexes :Record on table and id. Existing indexes are
	// not an error.
	BuildIndices(ctx context.Context) error
	Close(ctx context.Context) error
}
