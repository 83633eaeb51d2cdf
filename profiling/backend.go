package profiling

import (
	"io"
	"runtime/pprof"
)

// cpuProfiler abstracts CPU profiling so tests can mock it.
type cpuProfiler interface {
	StartCPUProfile(w io.Writer) error
	StopCPUProfile()
}

// pprofProfiler delegates to runtime/pprof. Only one CPU profile can be
// active per process, so StartCPUProfile fails while another is running.
type pprofProfiler struct{}

func (pprofProfiler) StartCPUProfile(w io.Writer) error {
	return pprof.StartCPUProfile(w)
}

func (pprofProfiler) StopCPUProfile() {
	pprof.StopCPUProfile()
}
