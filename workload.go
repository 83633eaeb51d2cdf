package sortprof

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/thehale/sortprof/sorting"
)

// Result is the outcome of one SortRandomList run.
type Result struct {
	Input       []int         `json:"input"`
	Bubble      []int         `json:"bubble"`
	Merge       []int         `json:"merge"`
	BubbleStats sorting.Stats `json:"bubble_stats"`
}

// RandomInts returns n values drawn uniformly from [0, maxValue].
func RandomInts(rng *rand.Rand, n, maxValue int) []int {
	ints := make([]int, n)
	for i := range ints {
		if maxValue == math.MaxInt {
			ints[i] = rng.Int()
			continue
		}
		ints[i] = rng.IntN(maxValue + 1)
	}
	return ints
}

// SortRandomList builds a random list and sorts a separate copy of it with
// each algorithm. The input is left unsorted.
func SortRandomList(rng *rand.Rand, size, maxValue int) Result {
	ints := RandomInts(rng, size, maxValue)

	bubble := slices.Clone(ints)
	stats := sorting.BubbleSortStats(bubble)
	merged := sorting.MergeSort(slices.Clone(ints))

	return Result{
		Input:       ints,
		Bubble:      bubble,
		Merge:       merged,
		BubbleStats: stats,
	}
}

// Workload binds SortRandomList to its parameters so it can be wrapped as a
// function without arguments.
type Workload struct {
	Rand     *rand.Rand
	Size     int
	MaxValue int
}

func (w Workload) Run() Result {
	return SortRandomList(w.Rand, w.Size, w.MaxValue)
}
