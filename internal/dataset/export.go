package dataset

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agenthands/dtpr/internal/driver"
)

// Export reads every recognized table from src and writes the snapshot to
// path. It returns the snapshot that was written.
func Export(ctx context.Context, src Source, path string, limit int) (*Snapshot, error) {
	snap, err := Preload(ctx, src, limit)
	if err != nil {
		return nil, err
	}
	if err := SaveFile(ctx, path, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// MirrorToGraph replaces the graph mirror of every table with the rows of s
// and links child components.
func MirrorToGraph(ctx context.Context, d driver.GraphDriver, s *Snapshot) error {
	if err := d.BuildIndices(ctx); err != nil {
		return err
	}
	for _, table := range Tables {
		if _, err := d.ExecuteQuery(ctx, driver.DeleteTableQuery, map[string]interface{}{"table": string(table)}); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}

		records := s.Records(table)
		if len(records) == 0 {
			continue
		}
		rows := make([]interface{}, 0, len(records))
		for seq, r := range records {
			fields, err := json.Marshal(r.Fields)
			if err != nil {
				return fmt.Errorf("encode %s %q: %w", table, r.Key, err)
			}
			rows = append(rows, map[string]interface{}{
				"id":           r.ID(),
				"key":          r.Key,
				"seq":          seq,
				"created_time": r.CreatedTime,
				"fields":       string(fields),
			})
		}
		if _, err := d.ExecuteQuery(ctx, driver.SaveRecordsQuery, map[string]interface{}{
			"table": string(table),
			"rows":  rows,
		}); err != nil {
			return fmt.Errorf("save %s: %w", table, err)
		}
	}

	for _, c := range s.Records(Components) {
		children := c.Strings("Child components")
		if len(children) == 0 {
			continue
		}
		if _, err := d.ExecuteQuery(ctx, driver.LinkChildrenQuery, map[string]interface{}{
			"parent_id": c.ID(),
			"child_ids": children,
		}); err != nil {
			return fmt.Errorf("link children of %q: %w", c.ID(), err)
		}
	}
	return nil
}
