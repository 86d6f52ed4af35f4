// Package otel wires OpenTelemetry tracing for the service.
package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	stdouttrace "go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// InitTracing installs a tracer provider backed by the stdout exporter and
// returns it with a shutdown function for deferred cleanup.
func InitTracing(serviceName string) (*sdktrace.TracerProvider, func(context.Context) error, error) {
	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		return nil, nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)
	return tp, tp.Shutdown, nil
}

// AddSpan starts a span named name on the globally installed tracer.
func AddSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer("posflow").Start(ctx, name)
}
