// Package rolling provides a rolling log file writer built on lumberjack.
//
// A Writer rolls on size (lumberjack's MaxSize) and on date: whenever the
// current time formats differently under DatePattern, the active file is
// rolled. Rolled files keep the active file's base name plus a timestamp,
// e.g. app-2025-01-02T00-00-00.000.log.
//
// lumberjack's own MaxAge and MaxBackups stay at zero; age-based deletion is
// done by a retention.Retainer installed with SetHooks:
//
//	w, _ := rolling.New(rolling.Config{Filename: "logs/app.log", DatePattern: "2006-01-02"})
//	r, _ := retention.New(w, retention.Config{Window: "7d"})
//	w.SetHooks(r)
//	if err := w.Open(ctx); err != nil {
//	    return err
//	}
//	logger := slog.New(slog.NewJSONHandler(w, nil))
package rolling
