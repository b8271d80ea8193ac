package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"google.golang.org/grpc/credentials"

	"github.com/tuanvumaihuynh/retail-pos/internal/config"
)

const defaultServiceName = "retail-pos"

type CleanupFunc func(ctx context.Context) error

// InitTracer installs the global tracer provider and propagators. Without a
// collector URL spans are sampled but never exported.
func InitTracer(ctx context.Context, cfg config.Otel) (CleanupFunc, error) {
	res, err := resource.New(ctx, resource.WithAttributes(resourceAttributes(cfg)...))
	if err != nil {
		return nil, fmt.Errorf("create otel resource: %w", err)
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.TraceIDRatio))),
	}

	if cfg.CollectorURL != "" {
		exporter, err := otlptracegrpc.New(ctx, exporterOptions(cfg)...)
		if err != nil {
			return nil, fmt.Errorf("create otlp trace exporter: %w", err)
		}
		opts = append(opts, sdktrace.WithBatcher(exporter))
	}

	tp := sdktrace.NewTracerProvider(opts...)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp.Shutdown, nil
}

func resourceAttributes(cfg config.Otel) []attribute.KeyValue {
	name := cfg.ServiceName
	if name == "" {
		name = defaultServiceName
	}

	attrs := []attribute.KeyValue{semconv.ServiceName(name)}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}
	if cfg.K8sPodName != "" {
		attrs = append(attrs, semconv.K8SPodName(cfg.K8sPodName))
	}
	if cfg.K8sNamespace != "" {
		attrs = append(attrs, semconv.K8SNamespaceName(cfg.K8sNamespace))
	}
	return attrs
}

func exporterOptions(cfg config.Otel) []otlptracegrpc.Option {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.CollectorURL)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	} else {
		opts = append(opts, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
	}
	if cfg.CollectorAuth != "" {
		opts = append(opts, otlptracegrpc.WithHeaders(map[string]string{
			"Authorization": cfg.CollectorAuth,
		}))
	}
	return opts
}
