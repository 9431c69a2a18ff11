// Package health serves liveness and readiness probes for "logkeeper watch".
//
// Readiness aggregates named checks that run concurrently, each with its own
// timeout:
//
//	checker := health.New(2 * time.Second)
//	checker.Register("log_dir", health.DirCheck("logs"))
//	checker.Register("janitor", health.RunningCheck("janitor", janitor.IsRunning))
//	checker.Register("retention", health.OverdueCheck(retainer.NextCheck, time.Hour))
//	checker.Register("journal", health.PingCheck(journal))
//
//	mux := http.NewServeMux()
//	health.Register(mux, checker, version, commit, buildTime)
//
// /health always answers 200. /ready answers 503 while any check fails.
package health
