package exporter

import (
	"context"
	"log"
	"sync"

	"github.com/thehale/sortprof/domain"
	"github.com/thehale/sortprof/domain/metrics"
	"github.com/thehale/sortprof/profiling"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

var _ sdktrace.SpanExporter = (*CallExporter)(nil)

// CallExporter turns the spans emitted by the profiler into call events in a
// store. Spans without a profile output path come from other instrumentation
// and are ignored.
type CallExporter struct {
	store domain.StoreWriter

	mu       sync.Mutex
	shutdown bool
}

// NewCallExporter returns an exporter that writes call events to store.
func NewCallExporter(store domain.StoreWriter) *CallExporter {
	log.Println("Initializing call exporter.")
	return &CallExporter{store: store}
}

// ExportSpans records every profiler span in the store.
func (e *CallExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.shutdown {
		return nil
	}

	for _, span := range spans {
		if event, ok := callEvent(span); ok {
			e.store.AddCall(event)
		}
	}
	return nil
}

// Shutdown stops recording. Later exports are dropped.
func (e *CallExporter) Shutdown(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shutdown = true
	log.Println("Call exporter shut down.")
	return nil
}

func callEvent(span sdktrace.ReadOnlySpan) (metrics.CallEvent, bool) {
	event := metrics.CallEvent{
		Timestamp: span.EndTime(),
		Function:  span.Name(),
		Duration:  span.EndTime().Sub(span.StartTime()),
	}

	var isProfile bool
	for _, attr := range span.Attributes() {
		switch string(attr.Key) {
		case profiling.AttrOutputPath:
			isProfile = true
			event.OutputPath = attr.Value.AsString()
		case profiling.AttrFormat:
			event.Format = attr.Value.AsString()
		case profiling.AttrBytes:
			event.Bytes = attr.Value.AsInt64()
		}
	}
	if !isProfile {
		return metrics.CallEvent{}, false
	}

	if span.Status().Code == codes.Error {
		event.Error = span.Status().Description
		if event.Error == "" {
			event.Error = "unknown error"
		}
		log.Printf("CallExporter: Profiled call '%s' failed: %s", event.Function, event.Error)
	}
	return event, true
}
