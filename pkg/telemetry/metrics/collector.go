package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config contains configuration for the metrics collector.
type Config struct {
	// Enabled controls whether metrics are recorded at all.
	Enabled bool

	// Namespace is the metric namespace (default "logkeeper").
	Namespace string

	// Subsystem is the metric subsystem (default "retention").
	Subsystem string

	// SweepDurationBuckets are histogram buckets for sweep duration in seconds.
	SweepDurationBuckets []float64
}

// Collector owns all logkeeper Prometheus metrics. It registers them on a
// private registry so several collectors can coexist in one process.
type Collector struct {
	config   *Config
	registry *prometheus.Registry

	sweepMetrics *SweepMetrics
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a new registry is created.
//
// Example:
//
//	collector := metrics.NewCollector(&metrics.Config{Enabled: true}, nil)
//	http.Handle("/metrics", collector.Handler())
func NewCollector(cfg *Config, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = &Config{Enabled: true}
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = "logkeeper"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "retention"
	}
	if len(cfg.SweepDurationBuckets) == 0 {
		// Sweeps list one directory; most finish in well under a second.
		cfg.SweepDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}
	}

	return &Collector{
		config:       cfg,
		registry:     registry,
		sweepMetrics: NewSweepMetrics(cfg, registry),
	}
}

// RecordSweep records one completed sweep.
//
// Parameters:
//   - trigger: what started the sweep ("activation", "write", "manual", "janitor")
//   - deleted: number of files deleted
//   - failed: number of files that could not be inspected or deleted
//   - errored: whether the sweep returned an error
//   - duration: wall time spent sweeping
func (c *Collector) RecordSweep(trigger string, deleted, failed int, errored bool, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.sweepMetrics.RecordSweep(trigger, deleted, failed, errored, duration)
}

// SetSchedule publishes the current check interval and next deadline.
func (c *Collector) SetSchedule(interval time.Duration, next time.Time) {
	if !c.config.Enabled {
		return
	}
	c.sweepMetrics.SetSchedule(interval, next)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
