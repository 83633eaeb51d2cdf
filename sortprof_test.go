package sortprof

import (
	"context"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thehale/sortprof/profiling"
	"go.opentelemetry.io/otel/sdk/resource"
)

func TestRandomInts(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))

	ints := RandomInts(rng, 500, 10)
	require.Len(t, ints, 500)
	for _, v := range ints {
		assert.GreaterOrEqual(t, v, 0)
		assert.LessOrEqual(t, v, 10)
	}
	assert.Contains(t, ints, 10, "upper bound should be inclusive")

	assert.Empty(t, RandomInts(rng, 0, 10))
	assert.Equal(t, []int{0, 0, 0}, RandomInts(rng, 3, 0))
}

func TestRandomInts_FullIntRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(6, 6))

	var ints []int
	require.NotPanics(t, func() { ints = RandomInts(rng, 3, math.MaxInt) })
	require.Len(t, ints, 3)
	for _, v := range ints {
		assert.GreaterOrEqual(t, v, 0)
	}
}

func TestNewResource_MatchesDefaultSchema(t *testing.T) {
	res, err := newResource("sortprof-test", Version)
	require.NoError(t, err)
	assert.Equal(t, resource.Default().SchemaURL(), res.SchemaURL())
}

func TestSortRandomList(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 1))

	result := SortRandomList(rng, 250, 1000)

	require.Len(t, result.Input, 250)
	expected := slices.Clone(result.Input)
	slices.Sort(expected)
	assert.Equal(t, expected, result.Bubble)
	assert.Equal(t, expected, result.Merge)
	assert.False(t, slices.IsSorted(result.Input), "input should keep its random order")
	assert.Greater(t, result.BubbleStats.Swaps, 0)
}

func TestSortRandomList_Deterministic(t *testing.T) {
	a := SortRandomList(rand.New(rand.NewPCG(9, 9)), 50, 100)
	b := SortRandomList(rand.New(rand.NewPCG(9, 9)), 50, 100)

	assert.Equal(t, a, b)
}

func TestNewProbe_RecordsProfiledCalls(t *testing.T) {
	ctx := context.Background()
	probe, store, err := NewProbe(ctx, "sortprof-test")
	require.NoError(t, err)
	defer probe.Shutdown(ctx)

	p, err := profiling.NewProfiler(profiling.Config{Format: profiling.FormatJSON})
	require.NoError(t, err)

	w := Workload{Rand: rand.New(rand.NewPCG(5, 5)), Size: 20, MaxValue: 50}
	path := filepath.Join(t.TempDir(), "sorting.profile")
	result, err := profiling.Wrap(p, path, w.Run)()
	require.NoError(t, err)
	assert.True(t, slices.IsSorted(result.Merge))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	snapshot := store.GetSnapshot()
	require.Contains(t, snapshot.Functions, "sortprof.Workload.Run")
	assert.Equal(t, uint64(1), snapshot.Functions["sortprof.Workload.Run"].Calls)
	assert.Equal(t, uint64(info.Size()), snapshot.Functions["sortprof.Workload.Run"].BytesWritten)
}
