package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"humboldt-hq/biotica/pkg/export/lifecycle"
	"humboldt-hq/biotica/pkg/telemetry/logging"
)

var sweepFlags struct {
	retention time.Duration
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Reclaim expired export artifacts once and exit",
	Long: `Delete export artifacts older than the retention threshold.

This runs the same reclamation the server performs on its background
schedule, as a one-off pass. Useful from cron or before backups.

Examples:
  # Sweep with the configured retention
  biotica sweep

  # Sweep with an explicit retention override
  biotica sweep --retention 30m`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().DurationVar(&sweepFlags.retention, "retention", 0, "override retention threshold (e.g. 30m, 2h)")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger := logging.New(&cfg.Telemetry.Logging, os.Stdout)
	slog.SetDefault(logger)

	manager, err := lifecycle.NewManager(&lifecycle.Config{
		Dir:       cfg.Export.Dir,
		Retention: cfg.Export.Retention,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize export manager: %w", err)
	}
	defer manager.Close()

	retention := manager.Retention()
	if sweepFlags.retention > 0 {
		retention = sweepFlags.retention
	}

	deleted, err := manager.Reclaim(context.Background(), time.Now(), retention)
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Printf("Reclaimed %d artifact(s) older than %s\n", deleted, retention)
	return nil
}
