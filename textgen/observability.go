package textgen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/go-logr/logr"
	"github.com/odit-bit/textgen/textgen/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

const (
	ExporterStdout     = "stdout"
	ExporterHTTP       = "http"
	ExporterPrometheus = "prometheus"
)

// InitObservability installs the global tracer and meter providers. The
// returned shutdown flushes pending telemetry.
func InitObservability(ctx context.Context, serviceName string, cfg config.Observability) (shutdown func(context.Context) error, err error) {
	noopShutdown := func(context.Context) error { return nil }
	if !cfg.Enable {
		slog.Debug("observability disabled")
		return noopShutdown, nil
	}

	// otel internal errors end up in slog
	otel.SetLogger(logr.FromSlogHandler(slog.Default().Handler()))

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceNameKey.String(serviceName)))
	if err != nil {
		return noopShutdown, fmt.Errorf("otel resource: %w", err)
	}

	spans, err := newSpanExporter(ctx, cfg)
	if err != nil {
		return noopShutdown, err
	}
	reader, err := newMetricReader(ctx, cfg)
	if err != nil {
		return noopShutdown, errors.Join(err, spans.Shutdown(ctx))
	}

	tp := trace.NewTracerProvider(trace.WithBatcher(spans), trace.WithResource(res))
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader), sdkmetric.WithResource(res))
	otel.SetTracerProvider(tp)
	otel.SetMeterProvider(mp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	if _, err := RamUsage(); err != nil {
		slog.Error("failed register ram usage gauge", "error", err)
	}
	slog.Info("observability initialized", "exporter", cfg.Exporter)

	return func(ctx context.Context) error {
		return errors.Join(tp.Shutdown(ctx), mp.Shutdown(ctx))
	}, nil
}

func newSpanExporter(ctx context.Context, cfg config.Observability) (trace.SpanExporter, error) {
	switch cfg.Exporter {
	case ExporterHTTP:
		var opts []otlptracehttp.Option
		if cfg.TraceEndpoint != "" {
			opts = append(opts, otlptracehttp.WithEndpoint(cfg.TraceEndpoint))
		}
		if !cfg.Secure {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		exp, err := otlptracehttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("otlp trace exporter: %w", err)
		}
		return exp, nil
	case ExporterStdout, ExporterPrometheus, "":
		// prometheus only covers metrics, spans still go to stdout
		exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("stdout trace exporter: %w", err)
		}
		return exp, nil
	default:
		return nil, fmt.Errorf("unknown exporter %q", cfg.Exporter)
	}
}

func newMetricReader(ctx context.Context, cfg config.Observability) (sdkmetric.Reader, error) {
	switch cfg.Exporter {
	case ExporterHTTP:
		var opts []otlpmetrichttp.Option
		if cfg.MetricsEndpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(cfg.MetricsEndpoint))
		}
		if !cfg.Secure {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		exp, err := otlpmetrichttp.New(ctx, opts...)
		if err != nil {
			return nil, fmt.Errorf("otlp metric exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil
	case ExporterPrometheus:
		// scraped through the playground /metrics endpoint
		exp, err := otelprom.New()
		if err != nil {
			return nil, fmt.Errorf("prometheus exporter: %w", err)
		}
		return exp, nil
	case ExporterStdout, "":
		exp, err := stdoutmetric.New()
		if err != nil {
			return nil, fmt.Errorf("stdout metric exporter: %w", err)
		}
		return sdkmetric.NewPeriodicReader(exp), nil
	default:
		return nil, fmt.Errorf("unknown exporter %q", cfg.Exporter)
	}
}

// RamUsage registers a gauge reporting memory obtained from the OS.
func RamUsage() (metric.Int64ObservableGauge, error) {
	meter := otel.Meter("textgen")
	return meter.Int64ObservableGauge(
		"textgen.ram_usage_bytes",
		metric.WithDescription("Ram usage of the app in bytes"),
		metric.WithInt64Callback(func(ctx context.Context, o metric.Int64Observer) error {
			var stats runtime.MemStats
			runtime.ReadMemStats(&stats)
			o.Observe(int64(stats.Sys))
			return nil
		}),
	)
}
