package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"mercator-hq/logkeeper/pkg/retention"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	Long: `Load and validate the configuration without touching any files.

Besides field checks, this reports configurations retention would reject
at activation: a malformed window, a calendar mode without a usable date
pattern, or a trailing window shorter than the log's roll period.

Examples:
  logkeeper validate -c logkeeper.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	window := retention.DefaultWindow
	if cfg.Retention.Window != "" {
		if window, err = retention.ParseWindow(cfg.Retention.Window); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "✓ Configuration valid")
	fmt.Fprintf(out, "  Log:       %s (date pattern %q)\n", cfg.Log.File, cfg.Log.DatePattern)
	fmt.Fprintf(out, "  Retention: %s window, %s mode\n", retention.FormatWindow(window), cfg.Retention.Mode)
	if cfg.Retention.Schedule != "" {
		fmt.Fprintf(out, "  Schedule:  %s\n", cfg.Retention.Schedule)
	}
	if cfg.Journal.Enabled {
		fmt.Fprintf(out, "  Journal:   %s (%s)\n", cfg.Journal.Path, cfg.Journal.Driver)
	}
	return nil
}
