package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"humboldt-hq/biotica/pkg/config"
	"humboldt-hq/biotica/pkg/export/lifecycle"
	"humboldt-hq/biotica/pkg/geo"
	"humboldt-hq/biotica/pkg/observation/storage"
	"humboldt-hq/biotica/pkg/server"
	"humboldt-hq/biotica/pkg/telemetry/logging"
	"humboldt-hq/biotica/pkg/telemetry/metrics"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	watch         bool
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the biotica server",
	Long: `Start the biotica server with the specified configuration.

The server listens on the configured address and serves filter queries,
coordinate projection, and export generation over the observation store.

Examples:
  # Start with default config
  biotica run

  # Start with custom config
  biotica run --config /etc/biotica/config.yaml

  # Override listen address
  biotica run --listen 0.0.0.0:8080

  # Reload export settings when the config file changes
  biotica run --watch

  # Validate config without starting the server
  biotica run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.watch, "watch", false, "reload configuration on file change")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	logger := logging.New(&cfg.Telemetry.Logging, os.Stdout)
	slog.SetDefault(logger)

	if runFlags.dryRun {
		fmt.Println("Configuration valid")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Record store with the coordinate registry for per-row projection.
	store, err := storage.NewSQLiteStore(&storage.Config{
		Path:         cfg.Store.Path,
		MaxOpenConns: cfg.Store.MaxOpenConns,
		MaxIdleConns: cfg.Store.MaxIdleConns,
		WALMode:      true,
		BusyTimeout:  cfg.Store.BusyTimeout,
		RowCap:       cfg.Store.RowCap,
	}, geo.NewRegistry())
	if err != nil {
		return fmt.Errorf("failed to open record store: %w", err)
	}
	defer store.Close()

	manager, err := lifecycle.NewManager(&lifecycle.Config{
		Dir:           cfg.Export.Dir,
		Retention:     cfg.Export.Retention,
		SweepSchedule: cfg.Export.SweepSchedule,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize export manager: %w", err)
	}
	defer manager.Close()

	var collector *metrics.Collector
	if cfg.Telemetry.Metrics.Enabled {
		collector = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	}

	scheduler := lifecycle.NewScheduler(manager)
	if collector != nil {
		scheduler.OnSweep = func(deleted int, failed bool) {
			errs := 0
			if failed {
				errs = 1
			}
			collector.RecordSweep(deleted, errs)
		}
	}
	if err := scheduler.Start(ctx); err != nil {
		return fmt.Errorf("failed to start sweep scheduler: %w", err)
	}
	defer scheduler.Stop()

	holder := config.NewHolder(cfg)

	if runFlags.watch {
		watcher, err := config.NewWatcher(cfgFile, holder, logger)
		if err != nil {
			return fmt.Errorf("failed to create config watcher: %w", err)
		}
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				logger.Error("Config watcher stopped", "error", err)
			}
		}()
	}

	srv := server.NewServer(holder, store, manager, collector, logger)
	return srv.Start(ctx)
}

// loadConfig loads the configuration file, falling back to defaults when
// no file exists at the default path.
func loadConfig() (*config.Config, error) {
	if _, err := os.Stat(cfgFile); os.IsNotExist(err) {
		if !rootCmd.PersistentFlags().Changed("config") {
			return config.DefaultConfig(), nil
		}
		return nil, fmt.Errorf("config file %q does not exist", cfgFile)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}
