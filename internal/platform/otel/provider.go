// Package otel configures OpenTelemetry tracing for the commands.
package otel

import (
	"context"
	"os"
	"strings"

	"github.com/louisbranch/rolldice/internal/platform/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	// EndpointEnv names the OTLP/HTTP collector URL.
	EndpointEnv = config.EnvPrefix + "OTEL_ENDPOINT"
	// EnabledEnv disables tracing when set to "false".
	EnabledEnv = config.EnvPrefix + "OTEL_ENABLED"
)

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when ROLLDICE_OTEL_ENDPOINT is empty or
// ROLLDICE_OTEL_ENABLED is "false", Setup returns a no-op shutdown function
// and no global provider is registered, so roll spans go to the default no-op
// tracer.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	if strings.EqualFold(os.Getenv(EnabledEnv), "false") {
		return noop, nil
	}

	endpoint := strings.TrimSpace(os.Getenv(EndpointEnv))
	if endpoint == "" {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(endpoint),
	)
	if err != nil {
		return noop, err
	}
	return SetupWithExporter(ctx, serviceName, exporter)
}

// SetupWithExporter registers a global tracer provider that batches spans to
// exporter. Setup uses it with the OTLP exporter; tests pass an in-memory one.
func SetupWithExporter(ctx context.Context, serviceName string, exporter sdktrace.SpanExporter) (shutdown func(context.Context) error, err error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return func(context.Context) error { return nil }, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
