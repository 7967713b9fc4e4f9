// Command dtpr-export copies the DTPR base out of Airtable into a snapshot
// file or the Memgraph mirror.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	configPath string
	preload    int
)

var rootCmd = &cobra.Command{
	Use:   "dtpr-export",
	Short: "Export the DTPR base for offline serving",
	Long: `Read every DTPR table from Airtable and store the result.

Available subcommands:
  file   - Write a snapshot file (.json, or .db/.sqlite for SQLite)
  mirror - Replace the Memgraph mirror with the current base`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default $CONFIG_PATH or config/config.toml)")
	rootCmd.PersistentFlags().IntVar(&preload, "parallel", 0, "concurrent table reads (default from config)")
	rootCmd.AddCommand(fileCmd, mirrorCmd)
}

func main() {
	_ = godotenv.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
