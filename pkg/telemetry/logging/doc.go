// Package logging builds logkeeper's structured logger on log/slog.
//
// # Usage
//
//	logger, err := logging.New(logging.Config{
//	    Level:  "info",
//	    Format: "json",
//	})
//	if err != nil {
//	    return err
//	}
//	slog.SetDefault(logger)
//
// Records logged with a context carry the fields stored in it:
//
//	ctx = logging.WithSweepID(ctx, id)
//	ctx = logging.WithTrigger(ctx, "write")
//	logger.InfoContext(ctx, "retention sweep completed", "deleted_count", 3)
//	// ... sweep_id=... trigger=write deleted_count=3
//
// The trace_id and span_id of the active OpenTelemetry span are added the
// same way.
package logging
