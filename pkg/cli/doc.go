/*
Package cli provides command-line helpers for the logkeeper command.

Output Formatting:

Results are printed as aligned text, JSON or CSV. Types that implement
Table get column output in text and CSV:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()

Errors:

ExitCode maps a command error to the process exit status; configuration
errors exit with ExitConfig.
*/
package cli
