package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/spf13/pflag"
	"github.com/thehale/sortprof"
	"github.com/thehale/sortprof/config"
	"github.com/thehale/sortprof/internal/ports/reporter"
	"github.com/thehale/sortprof/profiling"
)

func main() {
	fs := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	config.RegisterFlags(fs)
	configDir := fs.String("config-dir", ".", "directory searched for config.yaml")
	_ = fs.Parse(os.Args[1:])

	cfg, err := config.Load(*configDir, fs)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := run(context.Background(), cfg, os.Stdout); err != nil {
		log.Fatalf("profiled run failed: %v", err)
	}
}

// run sorts one random list under the profiler and writes the profile to
// cfg.OutputPath. The call report goes to out when enabled.
func run(ctx context.Context, cfg config.Config, out io.Writer) error {
	probe, store, err := sortprof.NewProbe(ctx, cfg.ServiceName)
	if err != nil {
		return fmt.Errorf("failed to initialize probe: %w", err)
	}
	defer probe.Shutdown(ctx)

	p, err := profiling.NewProfiler(profiling.Config{Format: profiling.Format(cfg.Format)})
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	workload := sortprof.Workload{
		Rand:     rand.New(rand.NewPCG(seed, seed)),
		Size:     cfg.ListSize,
		MaxValue: cfg.MaxValue,
	}

	result, err := profiling.Wrap(p, cfg.OutputPath, workload.Run)()
	if err != nil {
		return err
	}
	log.Printf("Sorted %d values (seed %d): bubble sort took %d passes and %d swaps.",
		len(result.Input), seed, result.BubbleStats.Passes, result.BubbleStats.Swaps)

	if !cfg.PrintReport {
		return nil
	}
	store.UpdateRuntime()
	return reporter.Write(out, store)
}
