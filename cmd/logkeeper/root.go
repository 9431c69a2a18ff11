package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/logkeeper/pkg/cli"
	"mercator-hq/logkeeper/pkg/config"
	"mercator-hq/logkeeper/pkg/retention"
	"mercator-hq/logkeeper/pkg/rolling"
	"mercator-hq/logkeeper/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile      string
	verbose      bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "logkeeper",
	Short: "Logkeeper - time-windowed retention for rolling logs",
	Long: `Logkeeper writes rolling log files and deletes rolled files once they
fall outside a retention window.

The window is anchored either to the log's date pattern ("calendar": a 7d
window on a daily log keeps seven whole days) or to the current moment
("trailing": a 36h window keeps exactly the last 36 hours).

Configuration is read from the file given with --config, falling back to
built-in defaults, and can be overridden with LOGKEEPER_* environment
variables (for example LOGKEEPER_RETENTION_WINDOW=7d).`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default: built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format (text, json, csv)")
}

// loadConfig loads the configuration named by --config. Validation failures
// are returned as *cli.ConfigError.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		var verr config.ValidationError
		if errors.As(err, &verr) && len(verr.Errors) > 0 {
			return nil, cli.NewConfigError(verr.Errors[0].Field, verr.Error())
		}
		return nil, cli.NewConfigError("config", err.Error())
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	return cfg, nil
}

// formatter returns the formatter selected by --output.
func formatter() (cli.Formatter, error) {
	format, err := cli.ParseOutputFormat(outputFormat)
	if err != nil {
		return nil, err
	}
	return cli.NewFormatter(format), nil
}

// setupLogging builds the process logger and installs it as the slog
// default. When telemetry.logging.file is set, logs go to a rolling file
// that is retained with the same policy as the managed log. The returned
// func closes that file.
func setupLogging(ctx context.Context, cfg *config.Config, stderr io.Writer) (*slog.Logger, func() error, error) {
	logCfg := logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
		Writer: stderr,
	}

	if cfg.Telemetry.Logging.File == "" {
		logger, err := logging.New(logCfg)
		if err != nil {
			return nil, nil, cli.NewConfigError("telemetry.logging", err.Error())
		}
		slog.SetDefault(logger)
		return logger, func() error { return nil }, nil
	}

	// The self-log's own retainer must not log into the file it guards:
	// BeforeWrite runs under that writer's lock.
	fallback, err := logging.New(logCfg)
	if err != nil {
		return nil, nil, cli.NewConfigError("telemetry.logging", err.Error())
	}

	w, err := rolling.New(rolling.Config{
		Filename:    cfg.Telemetry.Logging.File,
		DatePattern: cfg.Log.DatePattern,
		MaxSizeMB:   cfg.Log.MaxSizeMB,
		Compress:    cfg.Log.Compress,
		LocalTime:   cfg.Log.LocalTime,
	}, rolling.WithLogger(fallback))
	if err != nil {
		return nil, nil, err
	}
	r, err := retention.New(w, cfg.RetainerConfig(), retention.WithLogger(fallback))
	if err != nil {
		return nil, nil, err
	}
	w.SetHooks(r)
	if err := w.Open(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logCfg.Writer = w
	logger, err := logging.New(logCfg)
	if err != nil {
		_ = w.Close()
		return nil, nil, cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)
	return logger, w.Close, nil
}
