package config

// Default values for configuration fields.
const (
	// Log defaults
	DefaultLogFile        = "logs/app.log"
	DefaultLogDatePattern = "2006-01-02"
	DatePatternNone       = "none" // disables date rolling
	DefaultLogMaxSizeMB   = 100
	DefaultLogCompress    = false
	DefaultLogLocalTime   = true

	// Retention defaults
	DefaultRetentionMode = "trailing"

	// Journal defaults
	DefaultJournalEnabled = true
	DefaultJournalDriver  = "sqlite"
	DefaultJournalPath    = "data/logkeeper.db"

	// Telemetry defaults
	DefaultLoggingLevel         = "info"
	DefaultLoggingFormat        = "text"
	DefaultMetricsEnabled       = true
	DefaultMetricsListenAddress = "127.0.0.1:9464"
	DefaultMetricsPath          = "/metrics"
	DefaultMetricsNamespace     = "logkeeper"
	DefaultTracingEnabled       = false
	DefaultTracingEndpoint      = "localhost:4317"
	DefaultTracingInsecure      = true
	DefaultTracingServiceName   = "logkeeper"
	DefaultTracingSampleRatio   = 1.0
)

// NewDefaultConfig returns a configuration with every field at its default.
// LoadConfig decodes YAML on top of it, so boolean defaults survive keys that
// are absent from the file. The date pattern is seeded here rather than in
// ApplyDefaults because an explicit empty pattern disables date rolling.
func NewDefaultConfig() *Config {
	cfg := &Config{
		Log: LogConfig{
			DatePattern: DefaultLogDatePattern,
			Compress:    DefaultLogCompress,
			LocalTime:   DefaultLogLocalTime,
		},
		Journal: JournalConfig{
			Enabled: DefaultJournalEnabled,
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{
				Enabled: DefaultMetricsEnabled,
			},
			Tracing: TracingConfig{
				Enabled:  DefaultTracingEnabled,
				Insecure: DefaultTracingInsecure,
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults applies default values to a Config struct.
// It sets defaults for any fields that have zero values and resolves
// DatePatternNone to the empty pattern.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Log defaults
	if cfg.Log.File == "" {
		cfg.Log.File = DefaultLogFile
	}
	if cfg.Log.DatePattern == DatePatternNone {
		cfg.Log.DatePattern = ""
	}
	if cfg.Log.MaxSizeMB == 0 {
		cfg.Log.MaxSizeMB = DefaultLogMaxSizeMB
	}

	// Retention defaults. An empty window is meaningful and left alone.
	if cfg.Retention.Mode == "" {
		cfg.Retention.Mode = DefaultRetentionMode
	}

	// Journal defaults
	if cfg.Journal.Driver == "" {
		cfg.Journal.Driver = DefaultJournalDriver
	}
	if cfg.Journal.Path == "" {
		cfg.Journal.Path = DefaultJournalPath
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.ListenAddress == "" {
		cfg.Telemetry.Metrics.ListenAddress = DefaultMetricsListenAddress
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Telemetry.Tracing.Endpoint == "" {
		cfg.Telemetry.Tracing.Endpoint = DefaultTracingEndpoint
	}
	if cfg.Telemetry.Tracing.ServiceName == "" {
		cfg.Telemetry.Tracing.ServiceName = DefaultTracingServiceName
	}
	if cfg.Telemetry.Tracing.SampleRatio == 0 {
		cfg.Telemetry.Tracing.SampleRatio = DefaultTracingSampleRatio
	}
}
