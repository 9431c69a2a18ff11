// Package tracing sets up OpenTelemetry tracing for logkeeper.
//
// Each retention sweep runs in a "retention.sweep" span carrying the sweep
// ID, trigger, mode and outcome. Spans are exported over OTLP gRPC:
//
//	tracer, err := tracing.New(&tracing.Config{
//	    Enabled:     true,
//	    Endpoint:    "localhost:4317",
//	    Insecure:    true,
//	    SampleRatio: 1.0,
//	})
//	if err != nil {
//	    return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	r, err := retention.New(w, cfg, retention.WithTracer(tracer.Tracer()))
//
// When Enabled is false the tracer is a noop and costs next to nothing.
package tracing
