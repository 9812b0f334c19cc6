// Package telemetry configures OpenTelemetry tracing.
package telemetry

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// ShutdownFunc flushes and stops the tracer provider.
type ShutdownFunc func(context.Context) error

// Config selects the OTLP collector and service identity.
type Config struct {
	Endpoint       string
	ServiceName    string
	ServiceVersion string
	Environment    string
}

// Enabled reports whether an exporter endpoint is configured.
func (c Config) Enabled() bool {
	return c.Endpoint != ""
}

// Setup installs a global tracer provider exporting over OTLP gRPC.
// Without an endpoint it installs nothing and returns a no-op shutdown.
func Setup(ctx context.Context, cfg Config) (ShutdownFunc, error) {
	if !cfg.Enabled() {
		return func(context.Context) error { return nil }, nil
	}

	var opt otlptracegrpc.Option
	if strings.Contains(cfg.Endpoint, "://") {
		opt = otlptracegrpc.WithEndpointURL(cfg.Endpoint)
	} else {
		opt = otlptracegrpc.WithEndpoint(cfg.Endpoint)
	}

	exporter, err := otlptracegrpc.New(ctx, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
		attribute.String("deployment.environment", cfg.Environment),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to build resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}
