package domain

import (
	"github.com/thehale/sortprof/domain/metrics"
)

// Snapshot is a point-in-time, read-only copy of every profiled call the
// store has seen. Reporters and tests work with this structure only.
type Snapshot struct {
	Functions map[string]metrics.CallStatsSnapshot `json:"functions"`
	Runtime   metrics.RuntimeMetrics               `json:"runtime_metrics"`
	Recent    []metrics.CallEvent                  `json:"recent_calls"`
}

// StoreReader defines the contract for reading call metrics from a store.
type StoreReader interface {
	GetSnapshot() *Snapshot
}

// StoreWriter defines the contract for writing call metrics to a store.
type StoreWriter interface {
	AddCall(event metrics.CallEvent)
	UpdateRuntime()
}

// Store is the combined interface for a call store.
type Store interface {
	StoreReader
	StoreWriter
}
