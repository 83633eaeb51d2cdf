package profiling

import "context"

// Profile wraps fn with the default pprof profiler. Each call of the returned
// function runs fn once, writes the CPU profile to path and returns fn's
// result. The result is returned even when writing the profile fails.
func Profile[R any](path string, fn func() R) func() (R, error) {
	return Wrap(defaultProfiler, path, fn)
}

// Wrap wraps a function without arguments.
func Wrap[R any](p *Profiler, path string, fn func() R) func() (R, error) {
	name := funcName(fn)
	return func() (R, error) {
		var result R
		err := p.run(context.Background(), name, path, func(context.Context) {
			result = fn()
		})
		return result, err
	}
}

// Wrap1 wraps a function of one argument.
func Wrap1[A, R any](p *Profiler, path string, fn func(A) R) func(A) (R, error) {
	name := funcName(fn)
	return func(a A) (R, error) {
		var result R
		err := p.run(context.Background(), name, path, func(context.Context) {
			result = fn(a)
		})
		return result, err
	}
}

// Wrap2 wraps a function of two arguments.
func Wrap2[A, B, R any](p *Profiler, path string, fn func(A, B) R) func(A, B) (R, error) {
	name := funcName(fn)
	return func(a A, b B) (R, error) {
		var result R
		err := p.run(context.Background(), name, path, func(context.Context) {
			result = fn(a, b)
		})
		return result, err
	}
}

// WrapContext wraps a function taking a context. fn receives a context
// carrying the call span, so spans it starts are children of it.
func WrapContext[R any](p *Profiler, path string, fn func(context.Context) R) func(context.Context) (R, error) {
	name := funcName(fn)
	return func(ctx context.Context) (R, error) {
		var result R
		err := p.run(ctx, name, path, func(ctx context.Context) {
			result = fn(ctx)
		})
		return result, err
	}
}
