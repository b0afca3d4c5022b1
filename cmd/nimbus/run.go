package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"nimbus-gw/nimbus/pkg/accounts"
	"nimbus-gw/nimbus/pkg/config"
	"nimbus-gw/nimbus/pkg/gateway"
	"nimbus-gw/nimbus/pkg/health"
	"nimbus-gw/nimbus/pkg/routing"
	"nimbus-gw/nimbus/pkg/routing/strategies"
	"nimbus-gw/nimbus/pkg/telemetry/logging"
	"nimbus-gw/nimbus/pkg/upstream"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Nimbus gateway server",
	Long: `Start the Nimbus gateway server with the specified configuration.

The server listens on the configured address and forwards inference API
requests upstream with the credential of a healthy account, failing over
across the pool on rate limits and errors.

Examples:
  # Start with default config
  nimbus run

  # Start with custom config
  nimbus run --config /etc/nimbus/config.yaml

  # Override listen address
  nimbus run --listen 0.0.0.0:11435

  # Validate config without starting the server
  nimbus run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Apply flag overrides
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logging.Setup(cfg.Telemetry.Logging)

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Account store
	store, cleanup, err := newAccountStore(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := store.Load(ctx); err != nil {
		return fmt.Errorf("failed to load accounts: %w", err)
	}
	fmt.Printf("✓ Accounts loaded (%d accounts)\n", store.Len())

	// Health tracker and selector
	tracker := health.NewTracker(cfg.Health)
	tracker.Sync(store.Names())

	strategy := strategies.ForName(cfg.Routing.Strategy)
	selector := routing.NewSelector(store, tracker, strategy)

	// Upstream client
	client, err := upstream.NewClient(cfg.Upstream)
	if err != nil {
		return fmt.Errorf("failed to create upstream client: %w", err)
	}

	srv := gateway.NewServer(*cfg, store, tracker, selector, client)

	// Hot reload of the account file
	if cfg.Accounts.Source == "file" && cfg.Accounts.Watch {
		watcher := accounts.NewWatcher(store, cfg.Accounts.Path, cfg.Accounts.WatchDebounce)
		watcher.OnReload = func() { tracker.Sync(store.Names()) }
		if err := watcher.Start(ctx); err != nil {
			slog.Warn("failed to start account file watcher", "error", err)
		} else {
			defer watcher.Stop()
			fmt.Printf("✓ Watching %s for changes\n", cfg.Accounts.Path)
		}
	}

	// Scheduled pool-status summary
	if cfg.Telemetry.StatusSchedule != "" {
		janitor := gateway.NewJanitor(tracker, selector, srv.Collector(), cfg.Telemetry.StatusSchedule)
		if err := janitor.Start(); err != nil {
			slog.Warn("failed to start status scheduler", "error", err)
		} else {
			defer janitor.Stop()
		}
	}

	fmt.Printf("✓ Server listening on %s\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Printf("✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Println("\nPress Ctrl+C to stop")

	return srv.Start(ctx)
}

// newAccountStore builds the account store for the configured source.
// The returned cleanup closes the underlying source when it holds
// resources (the SQLite backend does, the file backend does not).
func newAccountStore(cfg *config.Config) (*accounts.Store, func(), error) {
	switch cfg.Accounts.Source {
	case "sqlite":
		source, err := accounts.NewSQLiteSource(cfg.Accounts.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open account database: %w", err)
		}
		return accounts.NewStore(source), func() { source.Close() }, nil
	default:
		source := accounts.NewFileSource(cfg.Accounts.Path)
		return accounts.NewStore(source), func() {}, nil
	}
}
