package dataset

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/agenthands/dtpr/internal/config"
	"github.com/agenthands/dtpr/internal/driver"
)

// Open builds the Source selected by cfg.Dataset.Mode. Snapshot mode blocks
// until every table is in memory. The returned close function releases any
// connection the source holds and is never nil.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (Source, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Dataset.Mode {
	case config.ModeLive:
		logger.Info("serving live from airtable", zap.String("base_id", cfg.Airtable.BaseID))
		return NewAirtableSource(cfg.Airtable, nil, logger), noop, nil

	case config.ModeSnapshot:
		start := time.Now()
		var (
			snap *Snapshot
			err  error
		)
		if cfg.Dataset.SnapshotPath != "" {
			snap, err = LoadFile(ctx, cfg.Dataset.SnapshotPath)
		} else {
			snap, err = Preload(ctx, NewAirtableSource(cfg.Airtable, nil, logger), cfg.Concurrency.Preload)
		}
		if err != nil {
			return nil, nil, fmt.Errorf("load snapshot: %w", err)
		}
		logger.Info("snapshot ready",
			zap.String("path", cfg.Dataset.SnapshotPath),
			zap.Int("records", snap.Len()),
			zap.Duration("took", time.Since(start)))
		return snap, noop, nil

	case config.ModeGraph:
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to memgraph: %w", err)
		}
		return NewGraphSource(d), d.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown dataset mode %q", cfg.Dataset.Mode)
}
