// Package seq provides the generic sequence operations used by collections.
//
// Every function makes a single left-to-right pass and hands the predicate or
// mapper both the element and its index.
package seq

// Map returns a new slice with fn applied to every element.
func Map[T, U any](items []T, fn func(T, int) U) []U {
	out := make([]U, len(items))
	for i, item := range items {
		out[i] = fn(item, i)
	}
	return out
}

// Filter returns the elements for which keep returns true, in order.
func Filter[T any](items []T, keep func(T, int) bool) []T {
	out := make([]T, 0, len(items))
	for i, item := range items {
		if keep(item, i) {
			out = append(out, item)
		}
	}
	return out
}

// Find returns the first element matching fn.
func Find[T any](items []T, fn func(T, int) bool) (T, bool) {
	if i := IndexOf(items, fn); i >= 0 {
		return items[i], true
	}
	var zero T
	return zero, false
}

// IndexOf returns the index of the first element matching fn, or -1.
func IndexOf[T any](items []T, fn func(T, int) bool) int {
	for i, item := range items {
		if fn(item, i) {
			return i
		}
	}
	return -1
}

// Some reports whether any element matches fn. It stops at the first match.
func Some[T any](items []T, fn func(T, int) bool) bool {
	return IndexOf(items, fn) >= 0
}
