package changetree

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for listener trees.
const defaultTracerName = "changetree"

const (
	spanRebind     = "changetree.rebind"
	spanMembership = "changetree.membership"
)

func (c *config) startSpan(name string, attrs ...attribute.KeyValue) trace.Span {
	_, span := c.tracer.Start(c.ctx, name, trace.WithAttributes(attrs...))
	return span
}

// endSpan records err on span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}
