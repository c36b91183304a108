package config

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

// InitTracing installs the global tracer provider and propagators. Spans go
// to stderr as JSON when the stdout exporter is enabled, keeping stdout free
// for command output. The returned function flushes pending spans.
func InitTracing(ctx context.Context, cfg TraceConfig) (func(context.Context) error, error) {
	return initTracing(ctx, cfg, os.Stderr)
}

func initTracing(ctx context.Context, cfg TraceConfig, w io.Writer) (func(context.Context) error, error) {
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	if !cfg.Enabled {
		otel.SetTracerProvider(noop.NewTracerProvider())
		return func(context.Context) error { return nil }, nil
	}

	var exp sdktrace.SpanExporter
	switch strings.ToLower(cfg.Exporter) {
	case "stdout", "":
		e, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithoutTimestamps())
		if err != nil {
			return nil, eris.Wrap(err, "config: create trace exporter")
		}
		exp = e
	default:
		return nil, eris.Errorf("config: unsupported trace exporter %q", cfg.Exporter)
	}

	res, err := resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", cfg.ServiceName),
	))
	if err != nil {
		return nil, eris.Wrap(err, "config: create trace resource")
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRatio))),
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	zap.L().Debug("config: tracing enabled",
		zap.String("exporter", cfg.Exporter),
		zap.String("service_name", cfg.ServiceName),
		zap.Float64("sample_ratio", cfg.SampleRatio),
	)
	return tp.Shutdown, nil
}

// ShutdownTracing flushes spans with a bounded timeout, logging failures.
func ShutdownTracing(shutdown func(context.Context) error) {
	if shutdown == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		zap.L().Warn("config: tracing shutdown failed", zap.Error(err))
	}
}
