// Package collection implements an in-memory, identity-indexed collection that
// reconciles raw records against typed items.
//
// Set decides per record whether to create a new item or update the existing
// one carrying the same identifier. Items keep their identity across updates:
// an update mutates the item already in the collection and never replaces it.
package collection

import (
	"fmt"
	"reflect"

	"github.com/aretw0/herd/pkg/core"
	"github.com/aretw0/herd/pkg/observable"
	"github.com/aretw0/herd/pkg/seq"
)

// Collection is an observable, insertion-ordered set of items indexed by identifier.
// It is not safe for concurrent use.
type Collection[T any] struct {
	cfg     Config[T]
	items   *observable.List[T]
	watches int
}

// New creates an empty collection. T must be a pointer or a map type.
func New[T any](opts ...Option[T]) (*Collection[T], error) {
	if t := reflect.TypeFor[T](); !core.IsReferenceKind(t) {
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedItem, t)
	}

	cfg := defaultConfig[T]().apply(opts)
	return &Collection[T]{
		cfg:   cfg,
		items: observable.New[T](nil),
	}, nil
}

// Config returns the collection-level configuration.
func (c *Collection[T]) Config() Config[T] {
	return c.cfg
}

// Items returns the live backing list.
func (c *Collection[T]) Items() *observable.List[T] {
	return c.items
}

// Len returns the number of items.
func (c *Collection[T]) Len() int {
	return c.items.Len()
}

// Values returns a copy of all items in insertion order.
func (c *Collection[T]) Values() []T {
	return c.items.Values()
}

// Slice returns a plain copy of the items between start and end.
// Negative indices count back from the end.
func (c *Collection[T]) Slice(start, end int) []T {
	return c.items.Slice(start, end)
}

// Filter returns the items matching fn.
func (c *Collection[T]) Filter(fn func(T, int) bool) []T {
	return seq.Filter(c.items.Values(), fn)
}

// Find returns the first item matching fn.
func (c *Collection[T]) Find(fn func(T, int) bool) (T, bool) {
	return c.items.Find(fn)
}

// Some reports whether any item matches fn.
func (c *Collection[T]) Some(fn func(T, int) bool) bool {
	return seq.Some(c.items.Values(), fn)
}

// Each calls fn for every item in order.
func (c *Collection[T]) Each(fn func(T, int)) {
	for i, item := range c.items.All() {
		fn(item, i)
	}
}

// Map applies fn to every item of c.
func Map[T, U any](c *Collection[T], fn func(T, int) U) []U {
	return seq.Map(c.items.Values(), fn)
}

// Get returns the first item whose identifier matches id.
func (c *Collection[T]) Get(id any) (T, bool) {
	key, err := core.NormalizeID(id)
	if err != nil {
		var zero T
		return zero, false
	}
	return c.lookup(key, c.cfg)
}

// GetMany looks up every id and returns the results positionally.
// Missing items leave the zero value (nil) in their slot.
func (c *Collection[T]) GetMany(ids ...any) []T {
	return seq.Map(ids, func(id any, _ int) T {
		item, _ := c.Get(id)
		return item
	})
}

func (c *Collection[T]) lookup(key string, cfg Config[T]) (T, bool) {
	return c.items.Find(func(item T, _ int) bool {
		id, ok := cfg.GetModelID(item, cfg)
		if !ok || core.IsZeroID(id) {
			return false
		}
		itemKey, err := core.NormalizeID(id)
		return err == nil && itemKey == key
	})
}

// Set reconciles one record into the collection.
//
// A record whose identifier matches an existing item updates that item in place
// and returns it. Otherwise a new item is created and appended. A record without
// identifier is skipped and yields the zero value with a nil error. A record whose
// identifier is explicitly nil fails with an error matching core.ErrInvalidID.
//
// opts override the collection configuration for this call only.
func (c *Collection[T]) Set(rec core.Record, opts ...Option[T]) (T, error) {
	return c.set(rec, c.cfg.apply(opts))
}

// SetMany reconciles records in order, notifying observers once.
// The first failure stops the batch; records before it stay applied.
func (c *Collection[T]) SetMany(recs []core.Record, opts ...Option[T]) ([]T, error) {
	cfg := c.cfg.apply(opts)
	results := make([]T, 0, len(recs))
	err := c.items.Transact(func() error {
		for i, rec := range recs {
			item, err := c.set(rec, cfg)
			if err != nil {
				return fmt.Errorf("record %d: %w", i, err)
			}
			results = append(results, item)
		}
		return nil
	})
	return results, err
}

func (c *Collection[T]) set(rec core.Record, cfg Config[T]) (T, error) {
	var zero T
	if rec == nil {
		return zero, nil
	}

	dataID, ok := cfg.GetDataID(rec, cfg)
	if !ok {
		cfg.Logger.Debug("record skipped, no identifier", "id_attribute", cfg.IDAttribute)
		return zero, nil
	}
	if dataID == nil {
		return zero, &core.InvalidIDError{ID: nil}
	}
	key, err := core.NormalizeID(dataID)
	if err != nil {
		return zero, err
	}

	if existing, found := c.lookup(key, cfg); found {
		if _, err := cfg.Update(existing, rec, cfg); err != nil {
			return zero, fmt.Errorf("update %s: %w", key, err)
		}
		c.items.Touch(existing)
		cfg.Logger.Debug("item updated", "id", key)
		return existing, nil
	}

	created, err := cfg.Create(rec, cfg)
	if err != nil {
		return zero, fmt.Errorf("create %s: %w", key, err)
	}
	c.items.Push(created)
	cfg.Logger.Debug("item created", "id", key)
	return created, nil
}

// Add appends the items that are not already in the collection, by reference.
// Identifiers are not consulted.
func (c *Collection[T]) Add(items ...T) *Collection[T] {
	var fresh []T
	for _, item := range items {
		if c.items.Includes(item) || seq.Some(fresh, func(v T, _ int) bool { return core.Identical(v, item) }) {
			continue
		}
		fresh = append(fresh, item)
	}
	c.items.Push(fresh...)
	return c
}

// Remove deletes one item. target is either an item (matched by reference) or
// an identifier resolved through Get. Unknown targets are ignored.
func (c *Collection[T]) Remove(target any) *Collection[T] {
	item, ok := target.(T)
	if !ok {
		if !core.IsIdentifier(target) {
			return c
		}
		if item, ok = c.Get(target); !ok {
			return c
		}
	}
	if c.items.Remove(item) {
		c.cfg.Logger.Debug("item removed", "id", c.idOf(item))
	}
	return c
}

// Clear removes every item.
func (c *Collection[T]) Clear() *Collection[T] {
	c.items.Clear()
	return c
}

// Transact runs fn so that every mutation it performs reaches observers as one change.
func (c *Collection[T]) Transact(fn func() error) error {
	return c.items.Transact(fn)
}

// Subscribe registers fn for change notifications.
func (c *Collection[T]) Subscribe(fn func(observable.Change[T])) (unsubscribe func()) {
	return c.items.Subscribe(fn)
}

// idOf returns the canonical identifier of item, or "" when it has none.
func (c *Collection[T]) idOf(item T) string {
	id, ok := c.cfg.GetModelID(item, c.cfg)
	if !ok || core.IsZeroID(id) {
		return ""
	}
	key, err := core.NormalizeID(id)
	if err != nil {
		return ""
	}
	return key
}
