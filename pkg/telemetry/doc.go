// Package telemetry groups logkeeper's observability packages.
//
//   - logging: slog construction with sweep and trace identifiers from context
//   - metrics: Prometheus sweep metrics on a private registry
//   - tracing: OpenTelemetry spans around sweeps, exported over OTLP gRPC
//   - health: liveness and readiness probes for "logkeeper watch"
//
// Each package is configured from the telemetry section of the
// configuration file.
package telemetry
