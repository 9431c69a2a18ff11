// Package metrics provides Prometheus metrics for logkeeper.
//
// # Usage
//
//	collector := metrics.NewCollector(&metrics.Config{Enabled: true}, nil)
//	r, _ := retention.New(writer, cfg, retention.WithMetrics(collector))
//	http.Handle("/metrics", collector.Handler())
//
// # Metrics
//
//   - logkeeper_retention_sweeps_total{trigger,result}
//   - logkeeper_retention_files_deleted_total
//   - logkeeper_retention_file_errors_total
//   - logkeeper_retention_sweep_duration_seconds
//   - logkeeper_retention_check_interval_seconds
//   - logkeeper_retention_next_check_timestamp_seconds
//
// A disabled collector accepts every call and records nothing.
package metrics
