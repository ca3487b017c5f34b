package httpapi

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const requestIDAttribute = "http.request_id"

var apiTracer = otel.Tracer("fpl-fixture-difficulty/internal/interfaces/httpapi")
var noopSpan = trace.SpanFromContext(context.Background())

// startSpan opens a handler span under the otelhttp request span and tags it with
// the request id so traces join the request log.
func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	parent := trace.SpanFromContext(ctx)
	if !parent.SpanContext().IsValid() {
		return ctx, noopSpan
	}
	if !shouldCreateHTTPAPISpan(name) {
		return ctx, noopSpan
	}
	return apiTracer.Start(ctx, name, spanStartOptions(ctx)...)
}

func spanStartOptions(ctx context.Context) []trace.SpanStartOption {
	id := requestIDFromContext(ctx)
	if id == "" {
		return nil
	}
	return []trace.SpanStartOption{trace.WithAttributes(attribute.String(requestIDAttribute, id))}
}

func shouldCreateHTTPAPISpan(name string) bool {
	return strings.HasPrefix(name, "httpapi.Handler.")
}
