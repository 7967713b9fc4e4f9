package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agenthands/dtpr/internal/config"
	"github.com/agenthands/dtpr/internal/dataset"
	"github.com/agenthands/dtpr/internal/driver"
	"github.com/agenthands/dtpr/internal/logging"
)

var fileCmd = &cobra.Command{
	Use:   "file PATH",
	Short: "Write a snapshot file",
	Long: `Write every table to PATH. The codec follows the extension: .db,
.sqlite and .sqlite3 produce a SQLite database, anything else JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runFile,
}

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Replace the Memgraph mirror",
	Long: `Read every table and rewrite the Memgraph mirror used by dataset mode
"graph". With --from, rows come from a snapshot file instead of Airtable.`,
	Args: cobra.NoArgs,
	RunE: runMirror,
}

var mirrorFrom string

func init() {
	mirrorCmd.Flags().StringVar(&mirrorFrom, "from", "", "snapshot file to mirror instead of reading Airtable")
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	if path == "" {
		path = "config/config.toml"
	}
	cfg, err := config.LoadOrDefault(path)
	if err != nil {
		return nil, nil, err
	}
	cfg.ApplyEnv()
	if preload > 0 {
		cfg.Concurrency.Preload = preload
	}
	logger, err := logging.New(cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func airtable(cfg *config.Config, logger *zap.Logger) (*dataset.AirtableSource, error) {
	if cfg.Airtable.APIKey == "" || cfg.Airtable.BaseID == "" {
		return nil, errors.New("AIRTABLE_API_KEY and AIRTABLE_BASE_ID are required")
	}
	return dataset.NewAirtableSource(cfg.Airtable, nil, logger), nil
}

func runFile(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	src, err := airtable(cfg, logger)
	if err != nil {
		return err
	}

	start := time.Now()
	snap, err := dataset.Export(cmd.Context(), src, args[0], cfg.Concurrency.Preload)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d records to %s in %s\n", snap.Len(), args[0], time.Since(start).Round(time.Millisecond))
	return nil
}

func runMirror(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := cmd.Context()

	var snap *dataset.Snapshot
	if mirrorFrom != "" {
		snap, err = dataset.LoadFile(ctx, mirrorFrom)
	} else {
		var src *dataset.AirtableSource
		if src, err = airtable(cfg, logger); err == nil {
			snap, err = dataset.Preload(ctx, src, cfg.Concurrency.Preload)
		}
	}
	if err != nil {
		return err
	}

	d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, logger)
	if err != nil {
		return fmt.Errorf("connect to memgraph: %w", err)
	}
	defer func() { _ = d.Close(context.Background()) }()

	if err := dataset.MirrorToGraph(ctx, d, snap); err != nil {
		return fmt.Errorf("mirror: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Mirrored %d records to %s\n", snap.Len(), cfg.Memgraph.URI)
	return nil
}
