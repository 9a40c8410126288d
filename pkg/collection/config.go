package collection

import (
	"log/slog"

	"github.com/aretw0/herd/pkg/core"
)

// DefaultIDAttribute is the record key read by the default identifier extractors.
const DefaultIDAttribute = "id"

// Config is the policy bundle a collection reconciles records with.
//
// Every field is optional: a zero field falls back to the collection's value,
// which in turn falls back to the built-in default.
type Config[T any] struct {
	// IDAttribute names the key the default extractors read. Defaults to "id".
	IDAttribute string

	// GetModelID extracts the identifier of an item already in the collection.
	GetModelID func(item T, cfg Config[T]) (any, bool)

	// GetDataID extracts the identifier of an incoming record.
	// ok=false means the record has no identifier and is skipped.
	// ok=true with a nil value marks the record as malformed.
	GetDataID func(rec core.Record, cfg Config[T]) (id any, ok bool)

	// Create builds a new item from a record.
	Create func(rec core.Record, cfg Config[T]) (T, error)

	// Update merges a record into an existing item in place.
	// Its returned item is ignored: the existing reference stays in the collection.
	Update func(existing T, rec core.Record, cfg Config[T]) (T, error)

	// Logger receives debug traces of reconciliation. Defaults to a discard logger.
	Logger *slog.Logger
}

// Option overrides one or more Config fields.
type Option[T any] func(*Config[T])

// WithIDAttribute sets the key read by the default extractors.
func WithIDAttribute[T any](name string) Option[T] {
	return func(c *Config[T]) {
		c.IDAttribute = name
	}
}

// WithModelID overrides how identifiers are read from items.
func WithModelID[T any](fn func(item T, cfg Config[T]) (any, bool)) Option[T] {
	return func(c *Config[T]) {
		c.GetModelID = fn
	}
}

// WithDataID overrides how identifiers are read from records.
func WithDataID[T any](fn func(rec core.Record, cfg Config[T]) (any, bool)) Option[T] {
	return func(c *Config[T]) {
		c.GetDataID = fn
	}
}

// WithCreate overrides how new items are built.
func WithCreate[T any](fn func(rec core.Record, cfg Config[T]) (T, error)) Option[T] {
	return func(c *Config[T]) {
		c.Create = fn
	}
}

// WithUpdate overrides how records are merged into existing items.
func WithUpdate[T any](fn func(existing T, rec core.Record, cfg Config[T]) (T, error)) Option[T] {
	return func(c *Config[T]) {
		c.Update = fn
	}
}

// WithLogger sets the logger.
func WithLogger[T any](logger *slog.Logger) Option[T] {
	return func(c *Config[T]) {
		c.Logger = logger
	}
}

// WithConfig overlays every non-zero field of partial.
func WithConfig[T any](partial Config[T]) Option[T] {
	return func(c *Config[T]) {
		*c = c.merge(partial)
	}
}

// defaultConfig returns the built-in policies.
func defaultConfig[T any]() Config[T] {
	return Config[T]{
		IDAttribute: DefaultIDAttribute,
		GetModelID:  defaultModelID[T],
		GetDataID:   defaultDataID[T],
		Create:      defaultCreate[T],
		Update:      defaultUpdate[T],
		Logger:      slog.New(slog.DiscardHandler),
	}
}

// merge returns c with every non-zero field of over applied on top (last writer wins).
func (c Config[T]) merge(over Config[T]) Config[T] {
	if over.IDAttribute != "" {
		c.IDAttribute = over.IDAttribute
	}
	if over.GetModelID != nil {
		c.GetModelID = over.GetModelID
	}
	if over.GetDataID != nil {
		c.GetDataID = over.GetDataID
	}
	if over.Create != nil {
		c.Create = over.Create
	}
	if over.Update != nil {
		c.Update = over.Update
	}
	if over.Logger != nil {
		c.Logger = over.Logger
	}
	return c
}

// apply layers opts over c, resolving a fresh Config for one operation.
func (c Config[T]) apply(opts []Option[T]) Config[T] {
	if len(opts) == 0 {
		return c
	}
	var over Config[T]
	for _, opt := range opts {
		opt(&over)
	}
	return c.merge(over)
}
