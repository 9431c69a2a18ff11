package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// SweepMetrics tracks retention sweeps.
//
// Metrics:
//   - logkeeper_retention_sweeps_total: sweeps by trigger and result
//   - logkeeper_retention_files_deleted_total: files deleted
//   - logkeeper_retention_file_errors_total: files that failed
//   - logkeeper_retention_sweep_duration_seconds: sweep duration histogram
//   - logkeeper_retention_check_interval_seconds: current check interval
//   - logkeeper_retention_next_check_timestamp_seconds: next deadline (unix)
type SweepMetrics struct {
	sweepsTotal   *prometheus.CounterVec
	filesDeleted  prometheus.Counter
	fileErrors    prometheus.Counter
	sweepDuration prometheus.Histogram
	checkInterval prometheus.Gauge
	nextCheck     prometheus.Gauge
}

// NewSweepMetrics creates and registers sweep metrics with the provided registry.
func NewSweepMetrics(cfg *Config, registry *prometheus.Registry) *SweepMetrics {
	sm := &SweepMetrics{
		sweepsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "sweeps_total",
				Help:      "Total number of retention sweeps",
			},
			[]string{"trigger", "result"},
		),

		filesDeleted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "files_deleted_total",
				Help:      "Total number of expired log files deleted",
			},
		),

		fileErrors: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "file_errors_total",
				Help:      "Total number of candidate files that could not be inspected or deleted",
			},
		),

		sweepDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "sweep_duration_seconds",
				Help:      "Duration of retention sweeps in seconds",
				Buckets:   cfg.SweepDurationBuckets,
			},
		),

		checkInterval: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "check_interval_seconds",
				Help:      "Interval between retention checks",
			},
		),

		nextCheck: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "next_check_timestamp_seconds",
				Help:      "Unix time of the next retention check",
			},
		),
	}

	registry.MustRegister(
		sm.sweepsTotal,
		sm.filesDeleted,
		sm.fileErrors,
		sm.sweepDuration,
		sm.checkInterval,
		sm.nextCheck,
	)

	return sm
}

// RecordSweep records a completed sweep.
func (sm *SweepMetrics) RecordSweep(trigger string, deleted, failed int, errored bool, duration time.Duration) {
	result := "success"
	if errored {
		result = "error"
	}
	sm.sweepsTotal.WithLabelValues(trigger, result).Inc()
	sm.filesDeleted.Add(float64(deleted))
	sm.fileErrors.Add(float64(failed))
	sm.sweepDuration.Observe(duration.Seconds())
}

// SetSchedule updates the schedule gauges.
func (sm *SweepMetrics) SetSchedule(interval time.Duration, next time.Time) {
	sm.checkInterval.Set(interval.Seconds())
	sm.nextCheck.Set(float64(next.Unix()))
}
