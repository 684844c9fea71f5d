// Package telemetry sets up OpenTelemetry tracer and meter providers exporting over OTLP gRPC.
package telemetry

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/AntonStoeckl/sequelocity-go/sequelocity"
	"github.com/AntonStoeckl/sequelocity-go/sequelocity/oteladapters"
)

const (
	instrumentationName = "github.com/AntonStoeckl/sequelocity-go"
	metricExportPeriod  = 5 * time.Second
)

// Providers holds the OpenTelemetry providers created by NewProviders.
type Providers struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Resource       *resource.Resource
}

// NewProviders creates tracer and meter providers that export to the OTLP gRPC endpoint, e.g. localhost:4317.
// The exporters connect lazily, no network I/O happens here. The providers are also set as the global ones.
func NewProviders(ctx context.Context, endpoint, serviceName, serviceVersion string) (*Providers, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(serviceName),
			semconv.ServiceVersionKey.String(serviceVersion),
		),
	)
	if err != nil {
		return nil, err
	}

	traceExporter, err := otlptracegrpc.New(
		ctx,
		otlptracegrpc.WithEndpoint(endpoint),
		otlptracegrpc.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	metricExporter, err := otlpmetricgrpc.New(
		ctx,
		otlpmetricgrpc.WithEndpoint(endpoint),
		otlpmetricgrpc.WithInsecure(),
	)
	if err != nil {
		return nil, errors.Join(err, traceExporter.Shutdown(ctx))
	}

	tracerProvider := trace.NewTracerProvider(
		trace.WithBatcher(traceExporter),
		trace.WithResource(res),
	)

	meterProvider := metric.NewMeterProvider(
		metric.WithReader(metric.NewPeriodicReader(metricExporter, metric.WithInterval(metricExportPeriod))),
		metric.WithResource(res),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return &Providers{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		Resource:       res,
	}, nil
}

// Instrument registers span tracing with the event handlers of cfg.
func (p *Providers) Instrument(cfg *sequelocity.Configuration) {
	oteladapters.RegisterTracingHooks(cfg.EventHandlers(), p.TracerProvider.Tracer(instrumentationName))
}

// MetricsOption returns the option wiring the meter provider into a Configuration.
func (p *Providers) MetricsOption() sequelocity.Option {
	return sequelocity.WithMetrics(oteladapters.NewMetricsCollector(p.MeterProvider.Meter(instrumentationName)))
}

// Shutdown flushes and stops both providers.
func (p *Providers) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.TracerProvider.Shutdown(ctx),
		p.MeterProvider.Shutdown(ctx),
	)
}
