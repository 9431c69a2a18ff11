// Package retention deletes a rolling log's expired files.
//
// # Overview
//
// A Retainer is attached to a rolling writer (see package rolling) and runs
// inline with it:
//
//   - Activate, once when the writer opens: parse the window, resolve the
//     check granularity, sweep, and set the first deadline.
//   - BeforeWrite, before every write: sweep if the deadline has passed.
//
// There is no background timer. Log volume drives sweep cadence; a log that
// is never written is never swept. Use a Janitor for that case.
//
// # Basic Usage
//
//	w := rolling.New(rolling.Config{
//	    Filename:    "logs/app.log",
//	    DatePattern: "2006-01-02",
//	})
//	r, err := retention.New(w, retention.Config{
//	    Window: "7d",
//	    Mode:   retention.ModeCalendar,
//	})
//	if err != nil {
//	    return err
//	}
//	w.SetHooks(r)
//	if err := w.Open(ctx); err != nil {
//	    return err
//	}
//
// # Windows
//
// ParseWindow accepts:
//
//   - "7d", "7 days": day marker
//   - "7": bare day count
//   - "1.12:00:00": days.hours:minutes:seconds
//   - "00:05:00", "06:30": hours:minutes[:seconds]
//   - "90m", "36h": Go duration literal
//
// An empty window means DefaultWindow (36500 days), which keeps everything.
//
// # Anchoring
//
// ModeCalendar anchors to the writer's date pattern. The pattern decides both
// the check interval (the finest of second, minute, hour it keeps, else day)
// and how timestamps are bucketed (format and parse back through the
// pattern).
//
// ModeTrailing measures the window back from now. The interval is the finest
// non-zero component of the window itself, and timestamps are truncated
// arithmetically. A trailing window shorter than the writer's roll period is
// rejected with ErrIncompatibleRollPeriod.
//
// # Sweeps
//
// A sweep lists the log's directory (not recursively), keeps entries whose
// name contains the log's base name without extension, and deletes those
// whose normalized modification time is strictly before
//
//	normalize(now) - window
//
// A file that cannot be deleted does not stop the others. All failures are
// returned together in a *SweepError and passed to the error handler; they
// never fail the write that triggered the sweep.
//
// Preview runs the same selection for a config without activating anything
// or deleting files. Validate performs activation's checks without touching
// the filesystem.
package retention
