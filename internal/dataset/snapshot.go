package dataset

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Snapshot serves every query from an immutable in-memory copy of the
// tables. It is safe for concurrent use once constructed.
type Snapshot struct {
	tables map[Table][]Record
	byID   map[Table]map[string]int
}

// NewSnapshot indexes the given rows. Tables missing from the map are
// served as empty.
func NewSnapshot(tables map[Table][]Record) (*Snapshot, error) {
	s := &Snapshot{
		tables: make(map[Table][]Record, len(tables)),
		byID:   make(map[Table]map[string]int, len(tables)),
	}
	for table, records := range tables {
		if !table.Valid() {
			return nil, invalidTable(table)
		}
		rows := make([]Record, len(records))
		copy(rows, records)
		index := make(map[string]int, len(rows))
		for i, r := range rows {
			id := r.ID()
			if id == "" {
				continue
			}
			if _, dup := index[id]; !dup {
				index[id] = i
			}
		}
		s.tables[table] = rows
		s.byID[table] = index
	}
	return s, nil
}

// Preload reads every recognized table from src in parallel and blocks until
// all of them are in memory. limit bounds the number of concurrent table
// reads; zero or less means one per table.
func Preload(ctx context.Context, src Source, limit int) (*Snapshot, error) {
	results := make([][]Record, len(Tables))

	g, gctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, table := range Tables {
		i, table := i, table
		g.Go(func() error {
			records, err := src.Select(gctx, table, nil)
			if err != nil {
				return fmt.Errorf("preload %s: %w", table, err)
			}
			results[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	tables := make(map[Table][]Record, len(Tables))
	for i, table := range Tables {
		tables[table] = results[i]
	}
	return NewSnapshot(tables)
}

func (s *Snapshot) Find(_ context.Context, table Table, id string) (Record, error) {
	if err := checkQuery(table, nil); err != nil {
		return Record{}, err
	}
	i, ok := s.byID[table][id]
	if !ok || id == "" {
		return Record{}, fmt.Errorf("%s %q: %w", table, id, ErrNotFound)
	}
	return s.tables[table][i], nil
}

func (s *Snapshot) Select(_ context.Context, table Table, filter *Filter) ([]Record, error) {
	if err := checkQuery(table, filter); err != nil {
		return nil, err
	}
	return applyFilter(s.tables[table], filter), nil
}

// Records returns a copy of every row of a table in stored order.
func (s *Snapshot) Records(table Table) []Record {
	return applyFilter(s.tables[table], nil)
}

// Len returns the total number of rows across all tables.
func (s *Snapshot) Len() int {
	n := 0
	for _, rows := range s.tables {
		n += len(rows)
	}
	return n
}
