package exporter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thehale/sortprof/infrastructure/storage/inmemory"
	"github.com/thehale/sortprof/profiling"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	oteltrace "go.opentelemetry.io/otel/trace"
)

func profileSpan(name string, duration time.Duration, attrs ...attribute.KeyValue) tracetest.SpanStub {
	start := time.Now()
	return tracetest.SpanStub{
		SpanContext: oteltrace.NewSpanContext(oteltrace.SpanContextConfig{
			TraceID: oteltrace.TraceID{0x01},
			SpanID:  oteltrace.SpanID{0x01},
		}),
		Name:      name,
		StartTime: start,
		EndTime:   start.Add(duration),
		Attributes: append([]attribute.KeyValue{
			attribute.String(profiling.AttrOutputPath, "sorting.profile"),
			attribute.String(profiling.AttrFormat, "pprof"),
		}, attrs...),
	}
}

func TestCallExporter_ExportSpans(t *testing.T) {
	t.Run("records profiled calls", func(t *testing.T) {
		store := inmemory.NewStore()
		exporter := NewCallExporter(store)

		span := profileSpan("sortprof.SortRandomList", 10*time.Millisecond, attribute.Int(profiling.AttrBytes, 512))
		require.NoError(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{span.Snapshot()}))

		snapshot := store.GetSnapshot()
		require.Contains(t, snapshot.Functions, "sortprof.SortRandomList")
		stats := snapshot.Functions["sortprof.SortRandomList"]
		assert.Equal(t, uint64(1), stats.Calls)
		assert.Equal(t, uint64(0), stats.Failures)
		assert.Equal(t, uint64(512), stats.BytesWritten)
		assert.Equal(t, uint64(10*time.Millisecond), stats.TotalTimeNs)

		require.Len(t, snapshot.Recent, 1)
		assert.Equal(t, "sorting.profile", snapshot.Recent[0].OutputPath)
		assert.Equal(t, "pprof", snapshot.Recent[0].Format)
	})

	t.Run("records failed calls", func(t *testing.T) {
		store := inmemory.NewStore()
		exporter := NewCallExporter(store)

		span := profileSpan("main.run", 5*time.Millisecond)
		span.Status = sdktrace.Status{Code: codes.Error, Description: "profiling: write profile: permission denied"}
		require.NoError(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{span.Snapshot()}))

		snapshot := store.GetSnapshot()
		assert.Equal(t, uint64(1), snapshot.Functions["main.run"].Failures)
		require.Len(t, snapshot.Recent, 1)
		assert.Contains(t, snapshot.Recent[0].Error, "permission denied")
	})

	t.Run("ignores spans from other instrumentation", func(t *testing.T) {
		store := inmemory.NewStore()
		exporter := NewCallExporter(store)

		span := tracetest.SpanStub{Name: "GET /", StartTime: time.Now(), EndTime: time.Now()}
		require.NoError(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{span.Snapshot()}))

		assert.Empty(t, store.GetSnapshot().Functions)
	})

	t.Run("drops spans after shutdown", func(t *testing.T) {
		store := inmemory.NewStore()
		exporter := NewCallExporter(store)
		require.NoError(t, exporter.Shutdown(context.Background()))

		span := profileSpan("late", time.Millisecond)
		require.NoError(t, exporter.ExportSpans(context.Background(), []sdktrace.ReadOnlySpan{span.Snapshot()}))

		assert.Empty(t, store.GetSnapshot().Functions)
	})
}

func TestCallExporter_WithProfiler(t *testing.T) {
	store := inmemory.NewStore()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(NewCallExporter(store)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	p, err := profiling.NewProfiler(profiling.Config{Format: profiling.FormatJSON}, profiling.WithTracer(tp.Tracer("test")))
	require.NoError(t, err)

	path := t.TempDir() + "/run.json"
	for i := 0; i < 3; i++ {
		require.NoError(t, p.Run(path, func() {}))
	}

	snapshot := store.GetSnapshot()
	require.Len(t, snapshot.Functions, 1)
	for _, stats := range snapshot.Functions {
		assert.Equal(t, uint64(3), stats.Calls)
		assert.Greater(t, stats.BytesWritten, uint64(0))
	}
}

func TestCallExporter_PanickedCallCountsAsFailure(t *testing.T) {
	store := inmemory.NewStore()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(NewCallExporter(store)))
	defer func() { _ = tp.Shutdown(context.Background()) }()

	p, err := profiling.NewProfiler(profiling.Config{Format: profiling.FormatJSON}, profiling.WithTracer(tp.Tracer("test")))
	require.NoError(t, err)

	path := t.TempDir() + "/panic.json"
	assert.Panics(t, func() { _ = p.Run(path, func() { panic("boom") }) })

	snapshot := store.GetSnapshot()
	require.Len(t, snapshot.Recent, 1)
	assert.Equal(t, "panic: boom", snapshot.Recent[0].Error)
	assert.Equal(t, uint64(1), snapshot.Functions[snapshot.Recent[0].Function].Failures)
}
