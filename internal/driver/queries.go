package driver

// Every table row is mirrored as one :Record node keyed by (table, id). The
// row's fields are kept as a JSON string so that the loosely typed columns
// survive the round trip unchanged; seq preserves the table order.
const (
	FindRecordQuery = `
		MATCH (r:Record {table: $table, id: $id})
		RETURN r.key AS key, r.id AS id, r.created_time AS created_time, r.fields AS fields
		ORDER BY r.seq
		LIMIT 1
	`

	SelectRecordsQuery = `
		MATCH (r:Record {table: $table})
		RETURN r.key AS key, r.id AS id, r.created_time AS created_time, r.fields AS fields
		ORDER BY r.seq
	`

	DeleteTableQuery = `
		MATCH (r:Record {table: $table})
		DETACH DELETE r
	`

	SaveRecordsQuery = `
		UNWIND $rows AS row
		CREATE (r:Record {table: $table})
		SET r.id = row.id,
			r.key = row.key,
			r.seq = row.seq,
			r.created_time = row.created_time,
			r.fields = row.fields
		RETURN count(r) AS saved
	`

	// Child components become explicit edges so the component tree can be
	// walked in Cypher as well.
	LinkChildrenQuery = `
		MATCH (p:Record {table: 'Components', id: $parent_id})
		UNWIND $child_ids AS child_id
		MATCH (c:Record {table: 'Components', id: child_id})
		MERGE (p)-[:HAS_CHILD]->(c)
	`
)

var IndexQueries = []string{
	"CREATE INDEX ON :Record(table);",
	"CREATE INDEX ON :Record(id);",
}
