// Package observability wires OpenTelemetry tracing and metrics.
package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const (
	ExporterStdout     = "stdout"
	ExporterHTTP       = "http"
	ExporterPrometheus = "prometheus"
)

type Config struct {
	Enable bool `mapstructure:"enable" yaml:"enable"`
	// stdout, http or prometheus; empty means stdout
	Exporter string `mapstructure:"exporter" yaml:"exporter" validate:"omitempty,oneof=stdout http prometheus"`
	// http endpoint exporter
	TraceEndpoint   string `mapstructure:"trace_endpoint" yaml:"trace_endpoint"`
	MetricsEndpoint string `mapstructure:"metrics_endpoint" yaml:"metrics_endpoint"`
	// secure endpoint (https)
	Secure bool `mapstructure:"secure" yaml:"secure"`
}

// Telemetry is the result of Init.
type Telemetry struct {
	// MetricsHandler serves the prometheus scrape endpoint, nil unless the
	// prometheus exporter is selected.
	MetricsHandler http.Handler

	shutdown []func(context.Context) error
}

// Shutdown flushes and stops every provider started by Init.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	if t == nil {
		return nil
	}
	slog.Info("Shutting down observability providers...")
	var shutdownErr error
	for _, fn := range t.shutdown {
		shutdownErr = errors.Join(shutdownErr, fn(ctx))
	}
	t.shutdown = nil
	return shutdownErr
}

// Init configures the global otel providers. A disabled config returns an
// empty Telemetry and leaves the noop globals in place.
func Init(ctx context.Context, serviceName string, cfg Config) (*Telemetry, error) {
	tel := &Telemetry{}
	if !cfg.Enable {
		slog.Info("Observability is disabled")
		return tel, nil
	}

	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create otel resource: %w", err)
	}

	// --- TRACER PROVIDER ---
	traceExporter, err := newTraceExporter(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if traceExporter != nil {
		tracerProvider := trace.NewTracerProvider(
			trace.WithBatcher(traceExporter),
			trace.WithResource(res),
		)
		otel.SetTracerProvider(tracerProvider)
		tel.shutdown = append(tel.shutdown, tracerProvider.Shutdown)
	}

	// --- METER PROVIDER ---
	reader, handler, err := newMetricReader(ctx, cfg)
	if err != nil {
		_ = tel.Shutdown(ctx)
		return nil, err
	}
	meterProvider := metric.NewMeterProvider(
		metric.WithReader(reader),
		metric.WithResource(res),
	)
	otel.SetMeterProvider(meterProvider)
	tel.shutdown = append(tel.shutdown, meterProvider.Shutdown)
	tel.MetricsHandler = handler

	// Set the global propagator to tracecontext.
	otel.SetTextMapPropagator(propagation.TraceContext{})
	slog.Info("Observability initialized", "exporter", cfg.Exporter)
	return tel, nil
}

func newTraceExporter(ctx context.Context, cfg Config) (trace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterHTTP:
		slog.Info("Initializing otlp trace exporter", "endpoint", cfg.TraceEndpoint)
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(cfg.TraceEndpoint)}
		if !cfg.Secure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exp, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create otlp http trace exporter: %w", err)
		}
		return exp, nil

	case ExporterPrometheus:
		// prometheus is metrics only
		return nil, nil

	default:
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("failed to create trace exporter: %w", err)
		}
		return exp, nil
	}
}

func newMetricReader(ctx context.Context, cfg Config) (metric.Reader, http.Handler, error) {
	switch cfg.Exporter {
	case ExporterHTTP:
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.MetricsEndpoint)}
		if !cfg.Secure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exp, err := otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create otlp http metric exporter: %w", err)
		}
		return metric.NewPeriodicReader(exp), nil, nil

	case ExporterPrometheus:
		exp, err := prometheus.New()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
		}
		return exp, promhttp.Handler(), nil

	default:
		exp, err := stdoutmetric.New()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create metric exporter: %w", err)
		}
		return metric.NewPeriodicReader(exp), nil, nil
	}
}
