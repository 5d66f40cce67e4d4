// Package activity provides the correlation-span source consumed by the
// manual logger facade (C10) and by entries built while a span is open. It
// is grounded on the teacher repo's OpenTelemetry bridge (adapters/otel),
// reduced to exactly the correlation-id surface the logging core needs:
// an identifier that entries can carry, and a way to open/close a scope.
package activity

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey struct{}

// Handle represents an open correlation span. Closing it (End) ends the
// span; entries built while the span is in scope on the same context
// carry its ID.
type Handle struct {
	span trace.Span
	id   string
}

// ID returns the span's correlation identifier.
func (h *Handle) ID() string {
	return h.id
}

// End closes the span.
func (h *Handle) End() {
	h.span.End()
}

// Source opens correlation spans through an OpenTelemetry tracer named
// after configuration.Config.ActivitySourceName.
type Source struct {
	tracer trace.Tracer
}

// NewSource creates an activity source backed by the named OTEL tracer.
func NewSource(name string) *Source {
	if name == "" {
		name = "weft"
	}
	return &Source{tracer: otel.Tracer(name)}
}

// Start opens a new correlation span as a child of any span already
// present on ctx, returning a context carrying the new Handle alongside
// the returned Handle itself.
func (s *Source) Start(ctx context.Context, name string) (context.Context, *Handle) {
	spanCtx, span := s.tracer.Start(ctx, name)
	h := &Handle{span: span, id: span.SpanContext().SpanID().String()}
	return context.WithValue(spanCtx, ctxKey{}, h), h
}

// FromContext returns the Handle opened by the most recent Start call
// carried on ctx, if any.
func FromContext(ctx context.Context) (*Handle, bool) {
	h, ok := ctx.Value(ctxKey{}).(*Handle)
	return h, ok
}

// IDFromContext is a convenience wrapper returning just the correlation
// identifier, or "" if no activity is open on ctx.
func IDFromContext(ctx context.Context) string {
	if h, ok := FromContext(ctx); ok {
		return h.ID()
	}
	return ""
}
