package config

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/mpapenbr/regatta-score-manager-go/log"
	"github.com/mpapenbr/regatta-score-manager-go/version"
)

const stdoutEndpoint = "stdout"

type Telemetry struct {
	tracerProvider *sdktrace.TracerProvider
	meterProvider  *sdkmetric.MeterProvider
}

// SetupTelemetry registers global trace and meter providers exporting to
// TelemetryEndpoint.
func SetupTelemetry(ctx context.Context) (*Telemetry, error) {
	res, err := resource.Merge(resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", "rsm"),
			attribute.String("service.version", version.Version),
		))
	if err != nil {
		return nil, err
	}

	traceExporter, err := newTraceExporter(ctx)
	if err != nil {
		return nil, err
	}
	metricExporter, err := newMetricExporter(ctx)
	if err != nil {
		return nil, err
	}

	ret := &Telemetry{
		tracerProvider: sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(traceExporter),
			sdktrace.WithResource(res),
		),
		meterProvider: sdkmetric.NewMeterProvider(
			sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter,
				sdkmetric.WithInterval(15*time.Second))),
			sdkmetric.WithResource(res),
		),
	}
	otel.SetTracerProvider(ret.tracerProvider)
	otel.SetMeterProvider(ret.meterProvider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{}, propagation.Baggage{}))
	return ret, nil
}

func newTraceExporter(ctx context.Context) (sdktrace.SpanExporter, error) {
	if TelemetryEndpoint == stdoutEndpoint {
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	return otlptracegrpc.New(ctx,
		otlptracegrpc.WithEndpoint(TelemetryEndpoint),
		otlptracegrpc.WithInsecure())
}

func newMetricExporter(ctx context.Context) (sdkmetric.Exporter, error) {
	if TelemetryEndpoint == stdoutEndpoint {
		return stdoutmetric.New()
	}
	return otlpmetricgrpc.New(ctx,
		otlpmetricgrpc.WithEndpoint(TelemetryEndpoint),
		otlpmetricgrpc.WithInsecure())
}

// Shutdown flushes pending data
func (t *Telemetry) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := errors.Join(
		t.tracerProvider.Shutdown(ctx),
		t.meterProvider.Shutdown(ctx),
	)
	if err != nil {
		log.Warn("telemetry shutdown", log.ErrorField(err))
	}
}
