package tracing

import (
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// createSampler picks a sampler for ratio. Child spans follow their parent's
// decision so a sweep is traced whole or not at all.
//
//	ratio >= 1   every sweep
//	ratio <= 0   no sweep
//	otherwise    TraceIDRatioBased(ratio)
func createSampler(ratio float64) sdktrace.Sampler {
	var root sdktrace.Sampler
	switch {
	case ratio >= 1:
		root = sdktrace.AlwaysSample()
	case ratio <= 0:
		root = sdktrace.NeverSample()
	default:
		root = sdktrace.TraceIDRatioBased(ratio)
	}
	return sdktrace.ParentBased(root)
}
