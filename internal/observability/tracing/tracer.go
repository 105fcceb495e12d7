// Package tracing provides OpenTelemetry tracing integration for HTTP
// request handling and cross-service trace propagation.
package tracing

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the global tracer instance for the application.
var tracer = otel.Tracer("cinefind")

// GetTracer returns the global tracer for creating spans.
//
// Example usage:
//
//	ctx, span := tracing.GetTracer().Start(ctx, "tmdb.search")
//	defer span.End()
func GetTracer() trace.Tracer {
	return tracer
}
