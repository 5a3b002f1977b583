// Package telemetry wires OpenTelemetry tracing for recipes.
//
// Tracing is off by default and installs a no-op provider. When enabled,
// spans are pretty-printed to the configured writer (normally a trace file,
// since the terminal belongs to the form).
package telemetry

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

const instrumentationScope = "github.com/idilsaglam/recipes"

var shutdownFns []func(context.Context) error

// Options control Init.
type Options struct {
	Enabled     bool
	ServiceName string
	Version     string
	Writer      io.Writer // span output; required when Enabled
}

// Init installs the global tracer provider.
func Init(ctx context.Context, opt Options) error {
	if !opt.Enabled {
		otel.SetTracerProvider(tracenoop.NewTracerProvider())
		return nil
	}
	if opt.Writer == nil {
		return fmt.Errorf("telemetry: no span writer")
	}
	if opt.ServiceName == "" {
		opt.ServiceName = "recipes"
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(opt.ServiceName),
			semconv.ServiceVersionKey.String(opt.Version),
		),
	)
	if err != nil {
		return fmt.Errorf("telemetry: resource: %w", err)
	}

	exp, err := stdouttrace.New(stdouttrace.WithWriter(opt.Writer), stdouttrace.WithPrettyPrint())
	if err != nil {
		return fmt.Errorf("telemetry: stdout exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
		sdktrace.WithBatcher(exp),
	)
	otel.SetTracerProvider(tp)
	shutdownFns = append(shutdownFns, tp.Shutdown)
	return nil
}

// Tracer returns a tracer with the given instrumentation name (or the module scope).
func Tracer(name string) trace.Tracer {
	if name == "" {
		name = instrumentationScope
	}
	return otel.Tracer(name)
}

// Shutdown flushes pending spans and tears the provider down.
func Shutdown(ctx context.Context) {
	for _, fn := range shutdownFns {
		_ = fn(ctx)
	}
	shutdownFns = nil
}
