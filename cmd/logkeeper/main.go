// Logkeeper writes and retains time-windowed rolling logs.
//
// It rolls a log file on size and on a date pattern, and deletes rolled
// files once they fall outside a retention window anchored either to the
// date pattern's calendar grid or to a trailing window measured back from
// now.
//
// Usage:
//
//	# Pipe a program's output into a retained rolling log
//	myserver 2>&1 | logkeeper write --config logkeeper.yaml
//
//	# Delete expired files once
//	logkeeper sweep --config logkeeper.yaml
//
//	# Show what would be deleted
//	logkeeper sweep --dry-run
//
//	# Sweep on a cron schedule, reload on config edits, serve metrics
//	logkeeper watch --config logkeeper.yaml
//
//	# List recent sweeps from the journal
//	logkeeper history --limit 10
package main

func main() {
	Execute()
}
