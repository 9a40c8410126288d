package herd

import (
	"log/slog"

	"github.com/aretw0/herd/pkg/collection"
	"github.com/aretw0/herd/pkg/core"
	"github.com/aretw0/herd/pkg/observable"
)

// --- Types ---

// Collection is a public alias for the reconciling collection.
type Collection[T any] = collection.Collection[T]

// Config is a public alias for the collection policy bundle.
type Config[T any] = collection.Config[T]

// Option is a public alias for a collection option.
type Option[T any] = collection.Option[T]

// Change is a public alias for a change notification.
type Change[T any] = observable.Change[T]

// Record is raw input data.
type Record = core.Record

// Event is a single-item change emitted by Watch.
type Event = core.Event

// --- Errors ---

var (
	// ErrInvalidID is returned by Set for records whose identifier is explicitly null.
	ErrInvalidID = core.ErrInvalidID

	// ErrUnsupportedItem is returned by New for item types without reference identity.
	ErrUnsupportedItem = core.ErrUnsupportedItem
)

// --- Configuration ---

// WithIDAttribute sets the key the default identifier extractors read.
func WithIDAttribute[T any](name string) Option[T] {
	return collection.WithIDAttribute[T](name)
}

// WithModelID overrides how identifiers are read from items.
func WithModelID[T any](fn func(item T, cfg Config[T]) (any, bool)) Option[T] {
	return collection.WithModelID(fn)
}

// WithDataID overrides how identifiers are read from records.
func WithDataID[T any](fn func(rec Record, cfg Config[T]) (any, bool)) Option[T] {
	return collection.WithDataID(fn)
}

// WithCreate overrides how new items are built from records.
func WithCreate[T any](fn func(rec Record, cfg Config[T]) (T, error)) Option[T] {
	return collection.WithCreate(fn)
}

// WithUpdate overrides how records are merged into existing items.
func WithUpdate[T any](fn func(existing T, rec Record, cfg Config[T]) (T, error)) Option[T] {
	return collection.WithUpdate(fn)
}

// WithLogger sets the logger for the collection.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return collection.WithLogger[T](logger)
}

// WithConfig overlays the non-zero fields of a partial configuration.
func WithConfig[T any](partial Config[T]) Option[T] {
	return collection.WithConfig(partial)
}

// --- Factory ---

// New creates an empty collection of T, which must be a pointer or map type.
func New[T any](opts ...Option[T]) (*Collection[T], error) {
	return collection.New[T](opts...)
}

// NewRecords creates a collection that keeps records as items.
func NewRecords(opts ...Option[Record]) (*Collection[Record], error) {
	return collection.New[Record](opts...)
}

// Map applies fn to every item of c, in order.
func Map[T, U any](c *Collection[T], fn func(T, int) U) []U {
	return collection.Map(c, fn)
}
