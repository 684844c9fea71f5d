package oteladapters

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/sequelocity-go/sequelocity"
)

const (
	spanNameExecute       = "sequelocity.execute"
	spanAttrCommandID     = "sequelocity.command_id"
	spanAttrDBSystem      = "db.system"
	spanAttrDBStatement   = "db.statement"
	spanStatusDescription = "database command failed"
)

// TracingHooks creates one span per command execution using the pre-execute,
// post-execute, and unhandled-exception event handlers.
type TracingHooks struct {
	tracer trace.Tracer
	spans  sync.Map // command ID -> trace.Span
}

// RegisterTracingHooks registers span tracing with the given event handlers.
func RegisterTracingHooks(handlers *sequelocity.EventHandlers, tracer trace.Tracer) *TracingHooks {
	hooks := &TracingHooks{tracer: tracer}

	handlers.AddPreExecute(hooks.startSpan)
	handlers.AddPostExecute(hooks.finishSpanSuccess)
	handlers.AddUnhandledException(hooks.finishSpanError)

	return hooks
}

func (h *TracingHooks) startSpan(ctx context.Context, command *sequelocity.DatabaseCommand) {
	attrs := []attribute.KeyValue{
		attribute.String(spanAttrCommandID, command.ID().String()),
		attribute.String(spanAttrDBStatement, command.CommandText()),
	}

	if dbCommand := command.DbCommand(); dbCommand != nil {
		attrs = append(attrs, attribute.String(spanAttrDBSystem, dbCommand.Connection().Provider().InvariantName))
	}

	_, span := h.tracer.Start(ctx, spanNameExecute, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(attrs...))
	h.spans.Store(command.ID(), span)
}

func (h *TracingHooks) finishSpanSuccess(_ context.Context, command *sequelocity.DatabaseCommand) {
	if span, ok := h.takeSpan(command); ok {
		span.SetStatus(codes.Ok, "")
		span.End()
	}
}

func (h *TracingHooks) finishSpanError(_ context.Context, err error, command *sequelocity.DatabaseCommand) {
	if span, ok := h.takeSpan(command); ok {
		span.RecordError(err)
		span.SetStatus(codes.Error, spanStatusDescription)
		span.End()
	}
}

func (h *TracingHooks) takeSpan(command *sequelocity.DatabaseCommand) (trace.Span, bool) {
	value, ok := h.spans.LoadAndDelete(command.ID())
	if !ok {
		return nil, false
	}

	return value.(trace.Span), true
}
