package observability

import (
	"context"

	"github.com/forkastlabs/forkast/internal/config"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("observability",
	fx.Provide(NewLogger),
	fx.Invoke(SetupTracing),
)

func NewLogger() (*zap.Logger, error) {
	return zap.NewProduction()
}

// SetupTracing registers a global OTLP/HTTP tracer provider when tracing is
// enabled. The provider is flushed on shutdown via the fx lifecycle.
func SetupTracing(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) error {
	if !cfg.Telemetry.TracingEnabled {
		return nil
	}

	exporter, err := otlptracehttp.New(context.Background(),
		otlptracehttp.WithEndpoint(cfg.Telemetry.OTLPEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("forkast"),
		)),
	)
	otel.SetTracerProvider(provider)
	log.Info("tracing enabled", zap.String("endpoint", cfg.Telemetry.OTLPEndpoint))

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return provider.Shutdown(ctx)
		},
	})
	return nil
}
