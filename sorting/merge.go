package sorting

import "cmp"

// MergeSort returns a new slice holding the elements of s in ascending order.
// s is left untouched. Equal elements keep their relative order.
func MergeSort[T cmp.Ordered](s []T) []T {
	return MergeSortFunc(s, cmp.Compare[T])
}

// MergeSortFunc is like MergeSort but orders elements with compare.
func MergeSortFunc[T any](s []T, compare func(a, b T) int) []T {
	if len(s) <= 1 {
		out := make([]T, len(s))
		copy(out, s)
		return out
	}
	mid := len(s) / 2
	return merge(MergeSortFunc(s[:mid], compare), MergeSortFunc(s[mid:], compare), compare)
}

// merge takes from left on ties.
func merge[T any](left, right []T, compare func(a, b T) int) []T {
	result := make([]T, 0, len(left)+len(right))
	i, j := 0, 0
	for i < len(left) && j < len(right) {
		if compare(left[i], right[j]) <= 0 {
			result = append(result, left[i])
			i++
		} else {
			result = append(result, right[j])
			j++
		}
	}
	result = append(result, left[i:]...)
	result = append(result, right[j:]...)
	return result
}
