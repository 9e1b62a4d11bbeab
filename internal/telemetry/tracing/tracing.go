package tracing

import (
	"fmt"

	"github.com/go-redis/redis/extra/redisotel/v8"
	"github.com/go-redis/redis/v8"
	"github.com/honeycombio/honeycomb-opentelemetry-go"
	"github.com/honeycombio/otel-config-go/otelconfig"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var GlobalTracer = otel.Tracer("gymsessions")

// EndSpanWithErrCheck marks the span as failed when err is not nil, then ends it.
func EndSpanWithErrCheck(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
	}
	span.End()
}

// HoneycombSetup configures the OpenTelemetry SDK via the honeycomb distro.
// When disabled it returns a no-op shutdown func.
func HoneycombSetup(enabled bool, serviceName string, rdb *redis.Client) (func(), error) {
	if !enabled {
		return func() {}, nil
	}

	// copy baggage entries to span attributes
	bsp := honeycomb.NewBaggageSpanProcessor()
	otelShutdown, err := otelconfig.ConfigureOpenTelemetry(
		otelconfig.WithSpanProcessor(bsp),
		otelconfig.WithServiceName(serviceName),
	)
	if err != nil {
		return nil, fmt.Errorf("configure open telemetry: %w", err)
	}

	if rdb != nil {
		rdb.AddHook(redisotel.NewTracingHook())
	}

	log.Debugf("honeycomb tracing set up for service: %s", serviceName)
	return otelShutdown, nil
}
