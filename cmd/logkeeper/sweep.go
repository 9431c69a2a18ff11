package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/logkeeper/pkg/cli"
	"mercator-hq/logkeeper/pkg/retention"
)

var sweepFlags struct {
	dryRun bool
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete expired log files once",
	Long: `Run one retention sweep over the configured log's directory.

A file is a candidate when its name contains the log's base name without
extension. Candidates whose normalized modification time falls before the
cutoff are deleted. A file that cannot be deleted is reported and the
others are still processed.

Examples:
  # Delete expired files
  logkeeper sweep --config logkeeper.yaml

  # Show what would be deleted
  logkeeper sweep --dry-run

  # Machine-readable output
  logkeeper sweep -o json`,
	RunE: runSweep,
}

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().BoolVar(&sweepFlags.dryRun, "dry-run", false, "report expired files without deleting them")
}

// sweepReport is the printable outcome of a sweep.
type sweepReport struct {
	Dir     string    `json:"dir"`
	Cutoff  time.Time `json:"cutoff"`
	DryRun  bool      `json:"dry_run"`
	Kept    int       `json:"kept"`
	Deleted []string  `json:"deleted"`
	Failed  []string  `json:"failed,omitempty"`
}

func newSweepReport(result *retention.SweepResult) *sweepReport {
	rep := &sweepReport{
		Dir:     result.Dir,
		Cutoff:  result.Cutoff,
		DryRun:  result.DryRun,
		Kept:    result.Kept,
		Deleted: result.Deleted,
	}
	if rep.Deleted == nil {
		rep.Deleted = []string{}
	}
	for _, f := range result.Failed {
		rep.Failed = append(rep.Failed, f.Path)
	}
	return rep
}

func (r *sweepReport) Header() []string {
	return []string{"PATH", "OUTCOME"}
}

func (r *sweepReport) Rows() [][]string {
	deleted := "deleted"
	if r.DryRun {
		deleted = "would delete"
	}
	rows := make([][]string, 0, len(r.Deleted)+len(r.Failed))
	for _, p := range r.Deleted {
		rows = append(rows, []string{p, deleted})
	}
	for _, p := range r.Failed {
		rows = append(rows, []string{p, "failed"})
	}
	return rows
}

func runSweep(cmd *cobra.Command, args []string) error {
	out, err := formatter()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
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
		return cli.NewCommandError("sweep", err)
	}
	defer a.close()

	var result *retention.SweepResult
	if sweepFlags.dryRun {
		result, err = retention.Preview(ctx, a.writer, cfg.RetainerConfig(), time.Now())
		if result == nil {
			return cli.NewCommandError("sweep", err)
		}
	} else {
		// Activation runs the sweep.
		if err := a.activate(ctx); err != nil {
			return cli.NewCommandError("sweep", err)
		}
		result = a.retainer.LastSweep()
		err = a.sweepErr()
	}

	if ferr := out.FormatTo(cmd.OutOrStdout(), newSweepReport(result)); ferr != nil {
		return ferr
	}
	if err != nil {
		return cli.NewCommandError("sweep", err)
	}

	if outputFormat == string(cli.FormatText) {
		verb := "Deleted"
		if result.DryRun {
			verb = "Would delete"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ %s %d file(s), kept %d (cutoff %s)\n",
			verb, len(result.Deleted), result.Kept, result.Cutoff.Format(time.RFC3339))
	}
	return nil
}
