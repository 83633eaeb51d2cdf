package profiling

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"reflect"
	"runtime"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/thehale/sortprof/profiling"

// Span attribute keys set on every profiled call.
const (
	AttrOutputPath = "profile.output_path"
	AttrFormat     = "profile.format"
	AttrBytes      = "profile.bytes"
	AttrWallTimeNs = "profile.wall_time_ns"
	AttrAllocs     = "profile.allocs"
)

// Format selects what gets written to the output file.
type Format string

const (
	// FormatPprof writes a gzipped pprof CPU profile.
	FormatPprof Format = "pprof"
	// FormatJSON writes the call Record as JSON.
	FormatJSON Format = "json"
	// FormatText writes the call Record as an aligned table.
	FormatText Format = "text"
)

var (
	// ErrProfilerBusy is returned when another CPU profile is already running
	// in the process. The wrapped function is not called.
	ErrProfilerBusy = errors.New("profiling: cpu profiler already in use")
	// ErrUnknownFormat is returned by Config.Validate.
	ErrUnknownFormat = errors.New("profiling: unknown format")
)

type Config struct {
	Format   Format
	FileMode os.FileMode
}

// Validate checks that the format is one the profiler can write.
func (c Config) Validate() error {
	switch c.Format {
	case FormatPprof, FormatJSON, FormatText:
		return nil
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, c.Format)
	}
}

func (c Config) withDefaults() Config {
	if c.Format == "" {
		c.Format = FormatPprof
	}
	if c.FileMode == 0 {
		c.FileMode = 0o644
	}
	return c
}

type Profiler struct {
	config Config
	cpu    cpuProfiler
	// tracer is nil when spans go to the current global provider.
	tracer trace.Tracer
}

// Option customizes a Profiler.
type Option func(*Profiler)

// WithTracer sets the tracer used for call spans. By default the tracer is
// looked up from the global OpenTelemetry provider on every call.
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Profiler) {
		p.tracer = tracer
	}
}

func NewProfiler(config Config, opts ...Option) (*Profiler, error) {
	config = config.withDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	log.Printf("Initializing profiler with %s output.", config.Format)
	p := &Profiler{
		config: config,
		cpu:    pprofProfiler{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

var defaultProfiler = &Profiler{
	config: Config{}.withDefaults(),
	cpu:    pprofProfiler{},
}

// Default returns the profiler used by Profile. It writes pprof CPU profiles.
func Default() *Profiler {
	return defaultProfiler
}

// Format returns the output format of p.
func (p *Profiler) Format() Format {
	return p.config.Format
}

func (p *Profiler) spanTracer() trace.Tracer {
	if p.tracer != nil {
		return p.tracer
	}
	return otel.Tracer(tracerName)
}

// Run profiles a single call of fn and writes the statistics to path.
func (p *Profiler) Run(path string, fn func()) error {
	return p.run(context.Background(), funcName(fn), path, func(context.Context) { fn() })
}

// run starts collection, calls fn, stops collection and writes the result to
// path, replacing any existing file. The file is written only after fn returns.
func (p *Profiler) run(ctx context.Context, name, path string, fn func(context.Context)) (err error) {
	ctx, span := p.spanTracer().Start(ctx, name, trace.WithAttributes(
		attribute.String(AttrOutputPath, path),
		attribute.String(AttrFormat, string(p.config.Format)),
	))
	defer func() {
		if r := recover(); r != nil {
			span.RecordError(fmt.Errorf("panic: %v", r), trace.WithStackTrace(true))
			span.SetStatus(codes.Error, fmt.Sprintf("panic: %v", r))
			span.End()
			panic(r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var cpuProfile bytes.Buffer
	withCPU := p.config.Format == FormatPprof
	if withCPU {
		if err := p.cpu.StartCPUProfile(&cpuProfile); err != nil {
			log.Printf("Profiler: Error starting CPU profile for '%s': %v", name, err)
			return fmt.Errorf("%w: %w", ErrProfilerBusy, err)
		}
	}

	before := readMem()
	started := time.Now()
	var wall time.Duration
	func() {
		if withCPU {
			defer p.cpu.StopCPUProfile()
		}
		fn(ctx)
		wall = time.Since(started)
	}()
	rec := newRecord(name, started, wall, before, readMem())

	data, err := p.encode(rec, cpuProfile.Bytes())
	if err != nil {
		return fmt.Errorf("profiling: encode %s profile: %w", p.config.Format, err)
	}

	span.SetAttributes(
		attribute.Int64(AttrWallTimeNs, wall.Nanoseconds()),
		attribute.Int64(AttrAllocs, int64(rec.Allocs)),
	)

	if err := os.WriteFile(path, data, p.config.FileMode); err != nil {
		log.Printf("Profiler: Error writing profile for '%s': %v", name, err)
		return fmt.Errorf("profiling: write profile: %w", err)
	}
	span.SetAttributes(attribute.Int(AttrBytes, len(data)))

	log.Printf("Profiler: Profile for '%s' completed in %s. Saved to %s", name, wall, path)
	return nil
}

func (p *Profiler) encode(rec Record, cpuProfile []byte) ([]byte, error) {
	switch p.config.Format {
	case FormatJSON:
		return encodeJSON(rec)
	case FormatText:
		return encodeText(rec)
	default:
		return cpuProfile, nil
	}
}

// funcName returns the symbol name of fn without its import path, e.g.
// "sortprof.Workload.Run" or "main.main.func1".
func funcName(fn any) string {
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return "anonymous"
	}
	f := runtime.FuncForPC(v.Pointer())
	if f == nil {
		return "anonymous"
	}
	name := strings.TrimSuffix(f.Name(), "-fm")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}
