package otel_test

import (
	"context"
	"testing"

	"github.com/louisbranch/rolldice/internal/platform/otel"
	gotel "go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv("ROLLDICE_OTEL_ENDPOINT", "")
	t.Setenv("ROLLDICE_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv("ROLLDICE_OTEL_ENDPOINT", "http://localhost:4318")
	t.Setenv("ROLLDICE_OTEL_ENABLED", "false")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	// Use a non-routable address so no actual export happens.
	t.Setenv("ROLLDICE_OTEL_ENDPOINT", "http://192.0.2.1:4318")
	t.Setenv("ROLLDICE_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Shutdown should flush cleanly even though the endpoint is unreachable.
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopShutdownIgnoresCancelledContext(t *testing.T) {
	t.Setenv("ROLLDICE_OTEL_ENDPOINT", "")
	t.Setenv("ROLLDICE_OTEL_ENABLED", "")

	shutdown, err := otel.Setup(context.Background(), "noop-test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := shutdown(ctx); err != nil {
		t.Fatalf("noop shutdown should not error: %v", err)
	}
}

func TestSetupWithExporter_FlushesSpansOnShutdown(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()

	shutdown, err := otel.SetupWithExporter(context.Background(), "roll-test", exporter)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, span := gotel.Tracer("test").Start(context.Background(), "roll.evaluate")
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != "roll.evaluate" {
		t.Fatalf("expected one roll.evaluate span, got %v", spans)
	}
}

func TestEnvNamesShareCommandPrefix(t *testing.T) {
	if otel.EndpointEnv != "ROLLDICE_OTEL_ENDPOINT" {
		t.Fatalf("endpoint env = %q", otel.EndpointEnv)
	}
	if otel.EnabledEnv != "ROLLDICE_OTEL_ENABLED" {
		t.Fatalf("enabled env = %q", otel.EnabledEnv)
	}
}
