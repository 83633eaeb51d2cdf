package profiling

import (
	"bytes"
	"encoding/json"
	"fmt"
	"runtime"
	"text/tabwriter"
	"time"
)

// Record holds the call statistics of one profiled invocation. It is the
// payload of the json and text formats and feeds the span attributes for
// every format.
type Record struct {
	Function   string        `json:"function"`
	Calls      int           `json:"calls"`
	Started    time.Time     `json:"started"`
	WallTime   time.Duration `json:"wall_time_ns"`
	Allocs     uint64        `json:"allocs"`
	AllocBytes uint64        `json:"alloc_bytes"`
	NumGC      uint32        `json:"num_gc"`
}

type memSample struct {
	mallocs    uint64
	totalAlloc uint64
	numGC      uint32
}

func readMem() memSample {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return memSample{mallocs: m.Mallocs, totalAlloc: m.TotalAlloc, numGC: m.NumGC}
}

func newRecord(function string, started time.Time, wall time.Duration, before, after memSample) Record {
	return Record{
		Function:   function,
		Calls:      1,
		Started:    started,
		WallTime:   wall,
		Allocs:     after.mallocs - before.mallocs,
		AllocBytes: after.totalAlloc - before.totalAlloc,
		NumGC:      after.numGC - before.numGC,
	}
}

func encodeJSON(rec Record) ([]byte, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func encodeText(rec Record) ([]byte, error) {
	var buf bytes.Buffer
	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "function\tcalls\twall time\tallocs\talloc bytes\tgc cycles")
	fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%d\t%d\n",
		rec.Function, rec.Calls, rec.WallTime, rec.Allocs, rec.AllocBytes, rec.NumGC)
	if err := tw.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
