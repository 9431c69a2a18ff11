package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys for retention spans.
const (
	AttrSweepID = attribute.Key("retention.sweep_id")
	AttrTrigger = attribute.Key("retention.trigger")
	AttrMode    = attribute.Key("retention.mode")
	AttrWindow  = attribute.Key("retention.window")
	AttrDeleted = attribute.Key("retention.deleted")
	AttrFailed  = attribute.Key("retention.failed")
	AttrCutoff  = attribute.Key("retention.cutoff")
)

// SetError marks the span as failed and records the error.
func SetError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.SetAttributes(
		attribute.Bool("error", true),
		attribute.String("error.message", err.Error()),
	)
	span.RecordError(err)
}

// SetStatus sets the span status based on an error.
// If err is nil, status is set to OK, otherwise to Error.
func SetStatus(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
