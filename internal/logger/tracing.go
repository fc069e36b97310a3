package logger

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const serviceName = "volume-chat"

// TraceConfig controls the stdout span exporter.
type TraceConfig struct {
	Enabled bool
	Version string
	Output  io.Writer // defaults to stdout
}

type tracing struct {
	tracer   oteltrace.Tracer
	provider *sdktrace.TracerProvider
}

// tracer is nil while tracing is off
var tracer *tracing

// InitTracing reads LOG_TRACING_ENABLED and installs the tracer when set.
func InitTracing(version string) error {
	return InitTracingWithConfig(TraceConfig{
		Enabled: getEnvOrDefault("LOG_TRACING_ENABLED", "false") == "true",
		Version: version,
	})
}

func InitTracingWithConfig(cfg TraceConfig) error {
	tracer = nil
	if !cfg.Enabled {
		return nil
	}

	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(out), stdouttrace.WithPrettyPrint())
	if err != nil {
		return fmt.Errorf("failed to create span exporter: %w", err)
	}

	res, err := resource.New(context.Background(), resource.WithAttributes(
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(cfg.Version),
	))
	if err != nil {
		return fmt.Errorf("failed to build trace resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	tracer = &tracing{tracer: provider.Tracer(serviceName), provider: provider}
	return nil
}

// ShutdownTracing flushes pending spans.
func ShutdownTracing(ctx context.Context) error {
	if tracer == nil {
		return nil
	}
	return tracer.provider.Shutdown(ctx)
}

func tracingEnabled() bool {
	return tracer != nil
}

// StartSpan starts a span, or returns the context's current span when tracing is off.
func StartSpan(ctx context.Context, spanName string, opts ...oteltrace.SpanStartOption) (context.Context, oteltrace.Span) {
	if tracer == nil {
		return ctx, oteltrace.SpanFromContext(ctx)
	}
	return tracer.tracer.Start(ctx, spanName, opts...)
}

// getTraceAttrs extracts trace ID and span ID from context for logging
func getTraceAttrs(ctx context.Context) []any {
	if tracer == nil {
		return nil
	}
	sc := oteltrace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return nil
	}
	return []any{"trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String()}
}
