package metrics

import (
	"time"
)

// --- Data Structures for Metrics ---

// CallStats holds aggregated metrics for one profiled function.
type CallStats struct {
	Calls        uint64
	Failures     uint64
	TotalTime    uint64 // nanoseconds
	MinTime      uint64
	MaxTime      uint64
	BytesWritten uint64
}

// RuntimeMetrics holds metrics about the Go runtime.
type RuntimeMetrics struct {
	NumGoroutine          int    `json:"num_goroutine"`
	MemoryAllocBytes      uint64 `json:"memory_alloc_bytes"`
	MemoryTotalAllocBytes uint64 `json:"memory_total_alloc_bytes"`
	MemoryHeapAllocBytes  uint64 `json:"memory_heap_alloc_bytes"`
	MemoryHeapSysBytes    uint64 `json:"memory_heap_sys_bytes"`
	NumGC                 uint32 `json:"num_gc"`
}

// CallEvent is one finished profiled invocation.
type CallEvent struct {
	Timestamp  time.Time     `json:"timestamp"`
	Function   string        `json:"function"`
	OutputPath string        `json:"output_path"`
	Format     string        `json:"format"`
	Duration   time.Duration `json:"duration_ns"`
	Bytes      int64         `json:"bytes"`
	Error      string        `json:"error,omitempty"`
}

// Failed reports whether the profile for this call could not be written.
func (e CallEvent) Failed() bool {
	return e.Error != ""
}

// --- Snapshot Structures (for reporting) ---

// CallStatsSnapshot is a read-only copy of a function's call metrics.
type CallStatsSnapshot struct {
	Calls        uint64 `json:"calls"`
	Failures     uint64 `json:"failures"`
	TotalTimeNs  uint64 `json:"total_time_ns"`
	AvgTimeNs    uint64 `json:"avg_time_ns"`
	AvgTime      string `json:"avg_time"`
	MinTimeNs    uint64 `json:"min_time_ns"`
	MaxTimeNs    uint64 `json:"max_time_ns"`
	BytesWritten uint64 `json:"bytes_written"`
}
