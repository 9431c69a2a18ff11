package config

// Config is the root configuration structure for logkeeper.
// It contains all configuration sections for the rolling log, its retention
// policy, the sweep journal and telemetry.
type Config struct {
	// Log configures the rolling log file that retention is applied to.
	Log LogConfig `yaml:"log"`

	// Retention configures how long rolled files are kept.
	Retention RetentionConfig `yaml:"retention"`

	// Journal configures the persistent record of sweeps.
	Journal JournalConfig `yaml:"journal"`

	// Telemetry configures logging, metrics and tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LogConfig configures the rolling log writer.
type LogConfig struct {
	// File is the path of the active log file. Rolled files are written next
	// to it and share its base name.
	// Default: "logs/app.log"
	File string `yaml:"file"`

	// DatePattern is a Go reference layout. The log rolls whenever the
	// current time formatted with it changes. An explicit "" or "none"
	// disables date rolling and leaves only size rolling.
	// Example: "2006-01-02" rolls daily, "2006-01-02T15" hourly.
	// Default: "2006-01-02"
	DatePattern string `yaml:"date_pattern"`

	// MaxSizeMB rolls the log when it grows past this size.
	// Default: 100
	MaxSizeMB int `yaml:"max_size_mb"`

	// Compress gzips rolled files.
	// Default: false
	Compress bool `yaml:"compress"`

	// LocalTime uses local time in rolled file names instead of UTC.
	// Default: true
	LocalTime bool `yaml:"local_time"`
}

// RetentionConfig configures retention of rolled files.
type RetentionConfig struct {
	// Window is how much history to keep.
	// Examples: "7d", "7 days", "1.12:00:00", "00:05:00", "36h"
	// Empty keeps roughly 100 years, which in practice disables deletion.
	Window string `yaml:"window"`

	// Mode selects how the window is anchored.
	// Options: "calendar" (aligned to the date pattern grid), "trailing"
	// Default: "trailing"
	Mode string `yaml:"mode"`

	// Schedule is an optional cron expression for out-of-band sweeps, used
	// by "logkeeper watch" so an idle log is still cleaned up.
	// Example: "*/15 * * * *"
	// Default: "" (disabled)
	Schedule string `yaml:"schedule"`
}

// JournalConfig configures the sweep journal.
type JournalConfig struct {
	// Enabled records every sweep and every deleted file.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Driver is the database/sql driver name.
	// Options: "sqlite" (pure Go), "sqlite3" (cgo)
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file.
	// Default: "data/logkeeper.db"
	Path string `yaml:"path"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text", "console"
	// Default: "text"
	Format string `yaml:"format"`

	// File sends logkeeper's own logs to a rolling file instead of stderr.
	// The file is rolled with log.date_pattern and retained with the same
	// retention policy.
	// Default: "" (stderr)
	File string `yaml:"file"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics collection is active.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// ListenAddress is where "logkeeper watch" serves metrics.
	// Default: "127.0.0.1:9464"
	ListenAddress string `yaml:"listen_address"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the Prometheus metric namespace.
	// Default: "logkeeper"
	Namespace string `yaml:"namespace"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether sweeps are traced.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector address.
	// Default: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// Insecure disables TLS to the collector.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// ServiceName is reported as the service.name resource attribute.
	// Default: "logkeeper"
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the fraction of sweeps traced (0.0 to 1.0).
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`
}
