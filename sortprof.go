package sortprof

import (
	"context"
	"fmt"
	"log"

	"github.com/thehale/sortprof/exporter"
	"github.com/thehale/sortprof/infrastructure/storage/inmemory"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
)

// Version is reported as the service version in trace resources.
const Version = "1.0.0"

// Probe owns the tracer provider that routes profiled call spans into a store.
type Probe struct {
	tp *sdktrace.TracerProvider
}

// Shutdown flushes and stops the tracer provider.
func (p *Probe) Shutdown(ctx context.Context) {
	if err := p.tp.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down tracer provider: %v", err)
	}
}

// NewProbe installs a global tracer provider whose spans are recorded in the
// returned store. Spans are exported synchronously so the store is current as
// soon as a profiled call returns.
func NewProbe(ctx context.Context, serviceName string) (*Probe, *inmemory.Store, error) {
	store := inmemory.NewStore()

	res, err := newResource(serviceName, Version)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter.NewCallExporter(store)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	log.Println("Probe initialized with call exporter.")
	return &Probe{tp: tp}, store, nil
}

func newResource(serviceName, serviceVersion string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		),
	)
}
