// Package dataset is the data access facade over the DTPR tables. Callers
// talk to a Source; whether the rows come from the live Airtable API, an
// in-memory snapshot or the Memgraph mirror is decided once at start-up.
package dataset

import (
	"context"
	"errors"
)

var (
	// ErrInvalidTable is returned for a table outside the recognized set.
	ErrInvalidTable = errors.New("invalid table")
	// ErrMalformedFilter is returned when a filter lacks its field or value.
	ErrMalformedFilter = errors.New("filter must define both field and value")
	// ErrNotFound is returned by Find when no row carries the identifier.
	ErrNotFound = errors.New("record not found")
)

// Source is the uniform find/select contract over the recognized tables.
type Source interface {
	// Find returns the row whose ID column equals id.
	Find(ctx context.Context, table Table, id string) (Record, error)
	// Select returns the rows matching filter, or every row when filter is nil.
	Select(ctx context.Context, table Table, filter *Filter) ([]Record, error)
}

func checkQuery(table Table, filter *Filter) error {
	if !table.Valid() {
		return invalidTable(table)
	}
	if filter != nil && (filter.Field == "" || filter.Value == "") {
		return ErrMalformedFilter
	}
	return nil
}
