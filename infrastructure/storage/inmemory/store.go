package inmemory

import (
	"runtime"
	"sync"
	"time"

	"github.com/thehale/sortprof/domain"
	"github.com/thehale/sortprof/domain/metrics"
)

const (
	// Number of recent call events kept for reporting.
	defaultEventBufferSize = 100
)

// --- Store Implementation ---

// Store is a thread-safe in-memory data store for profiled call metrics.
// It implements the domain.Store interface.
var _ domain.Store = (*Store)(nil)

type Store struct {
	mu        sync.RWMutex
	functions map[string]*metrics.CallStats
	runtime   metrics.RuntimeMetrics
	events    *ringBuffer[metrics.CallEvent]
}

// NewStore creates and initializes a new Store.
func NewStore() *Store {
	return NewStoreWithCapacity(defaultEventBufferSize)
}

// NewStoreWithCapacity creates a Store that keeps the last size call events.
// A size below one falls back to the default.
func NewStoreWithCapacity(size int) *Store {
	if size < 1 {
		size = defaultEventBufferSize
	}
	return &Store{
		functions: make(map[string]*metrics.CallStats),
		events:    newRingBuffer[metrics.CallEvent](size),
	}
}

// AddCall records a finished profiled call.
func (s *Store) AddCall(event metrics.CallEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats, ok := s.functions[event.Function]
	if !ok {
		stats = &metrics.CallStats{}
		s.functions[event.Function] = stats
	}

	ns := uint64(event.Duration.Nanoseconds())
	if stats.Calls == 0 || ns < stats.MinTime {
		stats.MinTime = ns
	}
	if ns > stats.MaxTime {
		stats.MaxTime = ns
	}
	stats.Calls++
	stats.TotalTime += ns

	if event.Failed() {
		stats.Failures++
	} else if event.Bytes > 0 {
		stats.BytesWritten += uint64(event.Bytes)
	}

	s.events.add(event)
}

// UpdateRuntime captures current runtime metrics.
func (s *Store) UpdateRuntime() {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.runtime.NumGoroutine = runtime.NumGoroutine()
	s.runtime.MemoryAllocBytes = memStats.Alloc
	s.runtime.MemoryTotalAllocBytes = memStats.TotalAlloc
	s.runtime.MemoryHeapAllocBytes = memStats.HeapAlloc
	s.runtime.MemoryHeapSysBytes = memStats.HeapSys
	s.runtime.NumGC = memStats.NumGC
}

// GetSnapshot returns a read-only copy of the current metrics.
func (s *Store) GetSnapshot() *domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := &domain.Snapshot{
		Functions: make(map[string]metrics.CallStatsSnapshot, len(s.functions)),
		Runtime:   s.runtime,
		Recent:    s.events.getAll(),
	}

	for name, m := range s.functions {
		var avgTimeNs uint64
		if m.Calls > 0 {
			avgTimeNs = m.TotalTime / m.Calls
		}
		snapshot.Functions[name] = metrics.CallStatsSnapshot{
			Calls:        m.Calls,
			Failures:     m.Failures,
			TotalTimeNs:  m.TotalTime,
			AvgTimeNs:    avgTimeNs,
			AvgTime:      time.Duration(avgTimeNs).String(),
			MinTimeNs:    m.MinTime,
			MaxTimeNs:    m.MaxTime,
			BytesWritten: m.BytesWritten,
		}
	}

	return snapshot
}

// --- Ring Buffer for Events ---

// ringBuffer is a generic, thread-unsafe circular buffer.
// The locking must be handled by the parent (Store).
type ringBuffer[T any] struct {
	buffer []T
	size   int
	start  int
	count  int
}

func newRingBuffer[T any](size int) *ringBuffer[T] {
	return &ringBuffer[T]{
		buffer: make([]T, size),
		size:   size,
	}
}

// add inserts an element into the buffer, overwriting the oldest if full.
func (rb *ringBuffer[T]) add(item T) {
	index := (rb.start + rb.count) % rb.size
	rb.buffer[index] = item
	if rb.count < rb.size {
		rb.count++
	} else {
		rb.start = (rb.start + 1) % rb.size
	}
}

// getAll returns all elements in the buffer, oldest first.
func (rb *ringBuffer[T]) getAll() []T {
	if rb.count == 0 {
		return nil
	}
	items := make([]T, rb.count)
	for i := 0; i < rb.count; i++ {
		items[i] = rb.buffer[(rb.start+i)%rb.size]
	}
	return items
}
