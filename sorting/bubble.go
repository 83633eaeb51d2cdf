package sorting

import "cmp"

// Stats counts the work done by one bubble sort.
type Stats struct {
	Passes      int `json:"passes"`
	Swaps       int `json:"swaps"`
	Comparisons int `json:"comparisons"`
}

// BubbleSort sorts s in place in ascending order and returns it.
// A pass that makes no swaps ends the sort early, so sorted input costs a single pass.
func BubbleSort[T cmp.Ordered](s []T) []T {
	bubble(s, cmp.Compare[T], nil)
	return s
}

// BubbleSortFunc is like BubbleSort but orders elements with compare.
func BubbleSortFunc[T any](s []T, compare func(a, b T) int) []T {
	bubble(s, compare, nil)
	return s
}

// BubbleSortStats sorts s in place and reports how many passes, swaps and
// comparisons it took.
func BubbleSortStats[T cmp.Ordered](s []T) Stats {
	var stats Stats
	bubble(s, cmp.Compare[T], &stats)
	return stats
}

func bubble[T any](s []T, compare func(a, b T) int, stats *Stats) {
	for i := len(s) - 1; i > 0; i-- {
		swapped := false
		for j := 0; j < i; j++ {
			if stats != nil {
				stats.Comparisons++
			}
			if compare(s[j], s[j+1]) > 0 {
				s[j], s[j+1] = s[j+1], s[j]
				swapped = true
				if stats != nil {
					stats.Swaps++
				}
			}
		}
		if stats != nil {
			stats.Passes++
		}
		if !swapped {
			break
		}
	}
}
