package config

import (
	"errors"
	"fmt"
	"net"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"

	"mercator-hq/logkeeper/pkg/retention"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "retention.window").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// It implements the error interface and provides access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// HasField reports whether field failed validation.
func (e ValidationError) HasField(field string) bool {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Validate validates the entire configuration and returns a ValidationError
// if any validation rules fail. It returns nil if the configuration is valid.
// All validation errors are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateLog(&cfg.Log)...)
	errs = append(errs, validateRetention(&cfg.Retention, cfg.Log.DatePattern)...)
	errs = append(errs, validateJournal(&cfg.Journal)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if f := cfg.Telemetry.Logging.File; f != "" && filepath.Clean(f) == filepath.Clean(cfg.Log.File) {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.file",
			Message: "must differ from log.file",
		})
	}

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateLog validates the rolling log configuration.
func validateLog(cfg *LogConfig) []FieldError {
	var errs []FieldError

	if cfg.File == "" {
		errs = append(errs, FieldError{
			Field:   "log.file",
			Message: "log file path is required",
		})
	} else if strings.HasSuffix(cfg.File, string(filepath.Separator)) {
		errs = append(errs, FieldError{
			Field:   "log.file",
			Message: "log file path must name a file, not a directory",
		})
	}

	if cfg.MaxSizeMB < 0 {
		errs = append(errs, FieldError{
			Field:   "log.max_size_mb",
			Message: "max size must be non-negative",
		})
	}

	return errs
}

// validateRetention parses the window and mode the way activation will, so a
// configuration that would fail at startup is rejected here instead.
func validateRetention(cfg *RetentionConfig, datePattern string) []FieldError {
	var errs []FieldError

	if cfg.Window != "" {
		if _, err := retention.ParseWindow(cfg.Window); err != nil {
			errs = append(errs, FieldError{
				Field:   "retention.window",
				Message: err.Error(),
			})
		}
	}

	mode, err := retention.ParseMode(cfg.Mode)
	if err != nil {
		errs = append(errs, FieldError{
			Field:   "retention.mode",
			Message: err.Error(),
		})
	}

	// Cross-field checks only make sense once each field is valid.
	if len(errs) == 0 {
		err := retention.Validate(retention.Config{Window: cfg.Window, Mode: mode}, datePattern)
		switch {
		case err == nil:
		case errors.Is(err, retention.ErrIncompatibleRollPeriod):
			errs = append(errs, FieldError{
				Field:   "retention.window",
				Message: err.Error(),
			})
		case mode == retention.ModeCalendar:
			errs = append(errs, FieldError{
				Field:   "log.date_pattern",
				Message: err.Error(),
			})
		default:
			errs = append(errs, FieldError{
				Field:   "retention.window",
				Message: err.Error(),
			})
		}
	}

	if cfg.Schedule != "" {
		if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
			errs = append(errs, FieldError{
				Field:   "retention.schedule",
				Message: fmt.Sprintf("invalid cron expression: %v", err),
			})
		}
	}

	return errs
}

// validateJournal validates the sweep journal configuration.
func validateJournal(cfg *JournalConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return errs
	}

	validDrivers := map[string]bool{"sqlite": true, "sqlite3": true}
	if !validDrivers[cfg.Driver] {
		errs = append(errs, FieldError{
			Field:   "journal.driver",
			Message: fmt.Sprintf("invalid driver %q (must be 'sqlite' or 'sqlite3')", cfg.Driver),
		})
	}

	if cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "journal.path",
			Message: "journal path is required when the journal is enabled",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(cfg.Logging.Level)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid log level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "console": true}
	if !validFormats[strings.ToLower(cfg.Logging.Format)] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid log format %q (must be json, text, or console)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(cfg.Metrics.ListenAddress); err != nil {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.listen_address",
				Message: fmt.Sprintf("invalid listen address: %v", err),
			})
		}
		if !strings.HasPrefix(cfg.Metrics.Path, "/") {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path must start with '/'",
			})
		}
	}

	if cfg.Tracing.Enabled {
		if cfg.Tracing.Endpoint == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.endpoint",
				Message: "endpoint is required when tracing is enabled",
			})
		}
		if cfg.Tracing.SampleRatio < 0 || cfg.Tracing.SampleRatio > 1 {
			errs = append(errs, FieldError{
				Field:   "telemetry.tracing.sample_ratio",
				Message: "sample ratio must be between 0.0 and 1.0",
			})
		}
	}

	return errs
}
