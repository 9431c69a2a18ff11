// Package config provides configuration management for logkeeper.
//
// This package handles loading, validating, and watching configuration from
// YAML files with environment variable overrides.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("logkeeper.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("logkeeper.yaml")
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention LOGKEEPER_SECTION_FIELD.
// For example:
//
//   - LOGKEEPER_LOG_FILE overrides log.file
//   - LOGKEEPER_RETENTION_WINDOW overrides retention.window
//   - LOGKEEPER_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Validation
//
// Validation resolves the retention policy exactly as activation will: the
// window is parsed, the check granularity is resolved, and a trailing window
// shorter than the log's roll period is rejected. The cron schedule is parsed
// too. All problems are reported together:
//
//	configuration validation failed with 2 errors:
//	  - retention.window: invalid retention window "5 minutes": ...
//	  - retention.schedule: invalid cron expression: ...
//
// Setting log.date_pattern to "" or "none" disables date rolling. The log then
// rolls by size only, and a sub-day trailing window is accepted.
//
// # Reloading
//
// Watcher reloads the file when it changes and hands each valid configuration
// to a callback. Invalid edits are logged and ignored.
//
// # Example Configuration
//
//	log:
//	  file: "/var/log/myapp/app.log"
//	  date_pattern: "2006-01-02"
//
//	retention:
//	  window: "14d"
//	  mode: "calendar"
//	  schedule: "0 * * * *"
//
//	journal:
//	  enabled: true
//	  path: "/var/lib/logkeeper/journal.db"
package config
