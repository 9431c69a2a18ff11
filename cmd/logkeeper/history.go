package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"mercator-hq/logkeeper/pkg/cli"
	"mercator-hq/logkeeper/pkg/journal"
	"mercator-hq/logkeeper/pkg/retention"
)

var historyFlags struct {
	limit int
	since string
	prune string
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past sweeps from the journal",
	Long: `List sweeps recorded in the journal, newest first.

--since and --prune take a window in any form retention.window accepts
("7d", "36h", "1.12:00:00").

Examples:
  # Last 20 sweeps
  logkeeper history

  # Sweeps from the last day, as JSON
  logkeeper history --since 1d -o json

  # Drop journal records older than 90 days
  logkeeper history --prune 90d`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyFlags.limit, "limit", "n", 20, "maximum number of sweeps to list")
	historyCmd.Flags().StringVar(&historyFlags.since, "since", "", "only list sweeps within this window")
	historyCmd.Flags().StringVar(&historyFlags.prune, "prune", "", "delete records older than this window instead of listing")
}

// historyTable prints sweep records as rows.
type historyTable []*retention.SweepRecord

func (h historyTable) Header() []string {
	return []string{"ID", "STARTED", "TRIGGER", "MODE", "WINDOW", "DELETED", "FAILED", "ERROR"}
}

func (h historyTable) Rows() [][]string {
	rows := make([][]string, 0, len(h))
	for _, rec := range h {
		rows = append(rows, []string{
			rec.ID,
			rec.StartedAt.Format(time.RFC3339),
			rec.Trigger,
			string(rec.Mode),
			retention.FormatWindow(rec.Window),
			strconv.Itoa(len(rec.Deleted)),
			strconv.Itoa(len(rec.Failed)),
			rec.Error,
		})
	}
	return rows
}

func runHistory(cmd *cobra.Command, args []string) error {
	out, err := formatter()
	if err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if !cfg.Journal.Enabled {
		return cli.NewConfigError("journal.enabled", "the journal is disabled")
	}
	if _, err := os.Stat(cfg.Journal.Path); err != nil {
		return cli.NewCommandError("history", fmt.Errorf("no journal at %s: %w", cfg.Journal.Path, err))
	}

	j, err := journal.Open(&journal.Config{
		Driver:      cfg.Journal.Driver,
		Path:        cfg.Journal.Path,
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	})
	if err != nil {
		return cli.NewCommandError("history", err)
	}
	defer j.Close()

	ctx := cmd.Context()

	if historyFlags.prune != "" {
		window, err := retention.ParseWindow(historyFlags.prune)
		if err != nil {
			return cli.NewConfigError("prune", err.Error())
		}
		n, err := j.Prune(ctx, time.Now().Add(-window))
		if err != nil {
			return cli.NewCommandError("history", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Pruned %d sweep record(s) older than %s\n", n, retention.FormatWindow(window))
		return nil
	}

	var records []*retention.SweepRecord
	if historyFlags.since != "" {
		window, err := retention.ParseWindow(historyFlags.since)
		if err != nil {
			return cli.NewConfigError("since", err.Error())
		}
		records, err = j.Since(ctx, time.Now().Add(-window))
		if err != nil {
			return cli.NewCommandError("history", err)
		}
		// Since is oldest first.
		for i, k := 0, len(records)-1; i < k; i, k = i+1, k-1 {
			records[i], records[k] = records[k], records[i]
		}
		if historyFlags.limit > 0 && len(records) > historyFlags.limit {
			records = records[:historyFlags.limit]
		}
	} else {
		records, err = j.Recent(ctx, historyFlags.limit)
		if err != nil {
			return cli.NewCommandError("history", err)
		}
	}

	if records == nil {
		records = []*retention.SweepRecord{}
	}
	return out.FormatTo(cmd.OutOrStdout(), historyTable(records))
}
