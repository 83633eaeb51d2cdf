// Package sorting provides the two textbook sorts used as a profiling workload:
// an in-place bubble sort with early exit and a stable, allocating merge sort.
//
// Both work on any cmp.Ordered element type, and each has a Func variant that
// takes a comparison function for other types.
package sorting
