package collection

import (
	"reflect"

	"github.com/aretw0/introspection"

	"github.com/aretw0/herd/pkg/observable"
)

// CollectionState exposes internal state for observability.
type CollectionState struct {
	ItemType    string `json:"item_type"`
	Length      int    `json:"length"`
	IDAttribute string `json:"id_attribute"`
	Subscribers int    `json:"subscribers"`
	Watchers    int    `json:"watchers"`
	Sequence    any    `json:"sequence"`
}

// State implements introspection.Introspectable.
func (c *Collection[T]) State() any {
	list := c.items.State()
	subscribers := 0
	if s, ok := list.(observable.ListState); ok {
		subscribers = s.Listeners
	}
	return CollectionState{
		ItemType:    reflect.TypeFor[T]().String(),
		Length:      c.items.Len(),
		IDAttribute: c.cfg.IDAttribute,
		Subscribers: subscribers,
		Watchers:    c.watches,
		Sequence:    list,
	}
}

// ComponentType implements introspection.Component.
func (c *Collection[T]) ComponentType() string {
	return "collection"
}

var _ introspection.Introspectable = (*Collection[map[string]any])(nil)
var _ introspection.Component = (*Collection[map[string]any])(nil)
