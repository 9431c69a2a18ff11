package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/logkeeper/pkg/cli"
	"mercator-hq/logkeeper/pkg/config"
	"mercator-hq/logkeeper/pkg/retention"
	"mercator-hq/logkeeper/pkg/telemetry/health"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Sweep on a schedule and reload configuration on change",
	Long: `Keep retention running for a log that may go quiet.

watch activates retention (running one sweep), then sweeps on the cron
schedule in retention.schedule. Edits to the config file are picked up
without a restart: the retention window and mode are re-applied, while
changes to the log section need a restart. When metrics are enabled they
are served on telemetry.metrics.listen_address, together with /health,
/ready and /version probes.

Examples:
  # Sweep every 15 minutes
  LOGKEEPER_RETENTION_SCHEDULE="*/15 * * * *" logkeeper watch -c logkeeper.yaml`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Retention.Schedule == "" {
		return cli.NewConfigError("retention.schedule", "watch needs a cron schedule")
	}

	ctx, stop := cli.SetupSignalHandler(cmd.Context())
	defer stop()

	logger, closeLog, err := setupLogging(ctx, cfg, os.Stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	a, err := newApp(cfg, logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer a.close()

	if err := a.activate(ctx); err != nil {
		return cli.NewCommandError("watch", err)
	}

	janitor := retention.NewJanitor(a.retainer, cfg.Retention.Schedule)
	if err := janitor.Start(ctx); err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer janitor.Stop()

	var server *http.Server
	if a.metrics != nil {
		mux := http.NewServeMux()
		mux.Handle(cfg.Telemetry.Metrics.Path, a.metrics.Handler())
		health.Register(mux, newChecker(a, janitor), Version, GitCommit, BuildDate)
		server = &http.Server{
			Addr:              cfg.Telemetry.Metrics.ListenAddress,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("serving metrics",
				"address", cfg.Telemetry.Metrics.ListenAddress,
				"path", cfg.Telemetry.Metrics.Path,
			)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server failed", "error", err)
			}
		}()
	}

	if cfgFile != "" {
		watcher, err := config.NewWatcher(cfgFile, config.DefaultDebounceInterval, logger)
		if err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer watcher.Stop()
		go func() {
			if err := watcher.Watch(ctx, reloadFunc(ctx, a)); err != nil {
				logger.Error("configuration watcher stopped", "error", err)
			}
		}()
	}

	if next := janitor.NextRun(); next != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Watching %s (next sweep %s)\n", cfg.Log.File, next.Format(time.RFC3339))
	}

	<-ctx.Done()
	logger.Info("shutting down")

	if server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("metrics server shutdown failed", "error", err)
		}
	}
	return nil
}

// newChecker registers the readiness checks for a watched log.
func newChecker(a *app, janitor *retention.Janitor) *health.Checker {
	checker := health.New(2 * time.Second)
	checker.Register("log_dir", health.DirCheck(filepath.Dir(a.cfg.Log.File)))
	checker.Register("janitor", health.RunningCheck("janitor", janitor.IsRunning))
	// Deadlines move only on writes and janitor runs.
	checker.Register("retention", health.OverdueCheck(a.retainer.NextCheck, 2*a.retainer.CheckInterval()+time.Hour))
	if a.journal != nil {
		checker.Register("journal", health.PingCheck(a.journal))
	}
	return checker
}

// reloadFunc applies a reloaded configuration to the running retainer.
func reloadFunc(ctx context.Context, a *app) func(*config.Config) error {
	return func(next *config.Config) error {
		if next.Log != a.cfg.Log {
			a.logger.Warn("log section changed, restart to apply",
				"file", next.Log.File,
				"date_pattern", next.Log.DatePattern,
			)
		}
		if next.Retention.Schedule != a.cfg.Retention.Schedule {
			a.logger.Warn("retention schedule changed, restart to apply",
				"schedule", next.Retention.Schedule,
			)
		}
		if err := a.retainer.Reconfigure(ctx, next.RetainerConfig()); err != nil {
			return fmt.Errorf("failed to apply retention config: %w", err)
		}
		a.logger.Info("retention configuration reloaded",
			"window", next.Retention.Window,
			"mode", next.Retention.Mode,
		)
		return nil
	}
}
