package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"mercator-hq/logkeeper/pkg/cli"
)

var writeFlags struct {
	tee bool
}

var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Copy stdin into the rolling log",
	Long: `Copy standard input into the configured log file, line by line.

The log rolls on its date pattern and size limit, and retention runs inline:
before each line is written, expired files are deleted if the next check is
due. Nothing runs in the background, so a quiet input means no sweeps.

Examples:
  myserver 2>&1 | logkeeper write -c logkeeper.yaml

  # Also echo input to stdout
  myserver | logkeeper write --tee`,
	RunE: runWrite,
}

func init() {
	rootCmd.AddCommand(writeCmd)

	writeCmd.Flags().BoolVar(&writeFlags.tee, "tee", false, "also copy input to stdout")
}

func runWrite(cmd *cobra.Command, args []string) error {
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
		return cli.NewCommandError("write", err)
	}
	defer a.close()

	if err := a.activate(ctx); err != nil {
		return cli.NewCommandError("write", err)
	}

	var dst io.Writer = a.writer
	if writeFlags.tee {
		dst = io.MultiWriter(a.writer, cmd.OutOrStdout())
	}

	lines, err := copyLines(dst, cmd.InOrStdin(), ctx.Done())
	logger.Debug("input closed", "lines", lines)
	if err != nil {
		return cli.NewCommandError("write", err)
	}
	return nil
}

// copyLines writes src to dst one line at a time, so every line gets its
// own roll and retention check. It stops at EOF or when done is closed.
func copyLines(dst io.Writer, src io.Reader, done <-chan struct{}) (int, error) {
	r := bufio.NewReader(src)
	n := 0
	for {
		select {
		case <-done:
			return n, nil
		default:
		}

		line, err := r.ReadBytes('\n')
		if len(line) > 0 {
			if _, werr := dst.Write(line); werr != nil {
				return n, fmt.Errorf("write line %d: %w", n+1, werr)
			}
			n++
		}
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("read input: %w", err)
		}
	}
}
