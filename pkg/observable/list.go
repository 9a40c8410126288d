// Package observable implements the ordered, mutable sequence that backs a
// collection and tells listeners when its contents change.
//
// A List is not safe for concurrent use. Mutations are expected to come from
// a single logical thread of control, the way UI state is usually driven.
package observable

import (
	"iter"

	"github.com/aretw0/herd/pkg/core"
	"github.com/aretw0/herd/pkg/seq"
)

// Change describes what a mutation (or a whole transaction) did to a List.
type Change[T any] struct {
	Added   []T
	Removed []T
	Updated []T
	Cleared bool
}

// Empty reports whether the change carries nothing worth notifying.
func (c Change[T]) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Updated) == 0 && !c.Cleared
}

func (c *Change[T]) merge(o Change[T]) {
	c.Added = append(c.Added, o.Added...)
	c.Removed = append(c.Removed, o.Removed...)
	c.Updated = append(c.Updated, o.Updated...)
	c.Cleared = c.Cleared || o.Cleared
}

// Listener receives change notifications.
type Listener[T any] func(Change[T])

type subscription[T any] struct {
	id int
	fn Listener[T]
}

// List is an insertion-ordered sequence with change notification.
type List[T any] struct {
	items     []T
	equal     func(a, b T) bool
	listeners []subscription[T]
	nextID    int

	depth   int
	pending Change[T]
	emitted int
}

// New creates an empty List.
// Membership (Remove, IndexOf, Includes) uses core.Identical unless equal is given.
func New[T any](equal func(a, b T) bool) *List[T] {
	if equal == nil {
		equal = func(a, b T) bool { return core.Identical(a, b) }
	}
	return &List[T]{equal: equal}
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	return len(l.items)
}

// At returns the item at index i.
func (l *List[T]) At(i int) (T, bool) {
	if i < 0 || i >= len(l.items) {
		var zero T
		return zero, false
	}
	return l.items[i], true
}

// Values returns a copy of all items.
func (l *List[T]) Values() []T {
	out := make([]T, len(l.items))
	copy(out, l.items)
	return out
}

// All iterates over the live items.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range l.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Slice returns a plain copy of items[start:end].
// Negative indices count back from the end and out-of-range bounds are clamped,
// so Slice(0, l.Len()) and Slice(-2, l.Len()) always succeed.
func (l *List[T]) Slice(start, end int) []T {
	n := len(l.items)
	start, end = clampIndex(start, n), clampIndex(end, n)
	if start >= end {
		return []T{}
	}
	out := make([]T, end-start)
	copy(out, l.items[start:end])
	return out
}

func clampIndex(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			return 0
		}
	}
	if i > n {
		return n
	}
	return i
}

// Find returns the first item matching fn.
func (l *List[T]) Find(fn func(T, int) bool) (T, bool) {
	return seq.Find(l.items, fn)
}

// IndexOf returns the position of item, or -1.
func (l *List[T]) IndexOf(item T) int {
	return seq.IndexOf(l.items, func(v T, _ int) bool { return l.equal(v, item) })
}

// Includes reports whether item is in the list.
func (l *List[T]) Includes(item T) bool {
	return l.IndexOf(item) >= 0
}

// Push appends items and returns the new length.
func (l *List[T]) Push(items ...T) int {
	if len(items) == 0 {
		return len(l.items)
	}
	l.items = append(l.items, items...)
	l.emit(Change[T]{Added: append([]T(nil), items...)})
	return len(l.items)
}

// Remove deletes the first occurrence of item.
func (l *List[T]) Remove(item T) bool {
	i := l.IndexOf(item)
	if i < 0 {
		return false
	}
	removed := l.items[i]
	l.items = append(l.items[:i], l.items[i+1:]...)
	l.emit(Change[T]{Removed: []T{removed}})
	return true
}

// Clear removes every item.
func (l *List[T]) Clear() {
	if len(l.items) == 0 {
		return
	}
	removed := l.items
	l.items = nil
	l.emit(Change[T]{Removed: removed, Cleared: true})
}

// Touch notifies listeners that items were modified in place.
// Items that are not in the list are ignored.
func (l *List[T]) Touch(items ...T) {
	updated := seq.Filter(items, func(v T, _ int) bool { return l.Includes(v) })
	if len(updated) == 0 {
		return
	}
	l.emit(Change[T]{Updated: updated})
}

// Subscribe registers fn and returns a function that unregisters it.
func (l *List[T]) Subscribe(fn Listener[T]) (unsubscribe func()) {
	l.nextID++
	id := l.nextID
	l.listeners = append(l.listeners, subscription[T]{id: id, fn: fn})
	return func() {
		i := seq.IndexOf(l.listeners, func(s subscription[T], _ int) bool { return s.id == id })
		if i >= 0 {
			l.listeners = append(l.listeners[:i], l.listeners[i+1:]...)
		}
	}
}

// Transact runs fn and delivers everything it changed as a single notification.
// Transactions nest; only the outermost one notifies. Changes made before fn
// fails are kept and still notified.
func (l *List[T]) Transact(fn func() error) error {
	l.depth++
	defer func() {
		l.depth--
		if l.depth == 0 {
			pending := l.pending
			l.pending = Change[T]{}
			l.deliver(pending)
		}
	}()
	return fn()
}

func (l *List[T]) emit(c Change[T]) {
	if l.depth > 0 {
		l.pending.merge(c)
		return
	}
	l.deliver(c)
}

func (l *List[T]) deliver(c Change[T]) {
	if c.Empty() {
		return
	}
	l.emitted++
	listeners := append([]subscription[T](nil), l.listeners...)
	for _, s := range listeners {
		s.fn(c)
	}
}
