package observable

import (
	"github.com/aretw0/introspection"
)

// ListState exposes internal state for observability.
type ListState struct {
	Length        int  `json:"length"`
	Listeners     int  `json:"listeners"`
	InTransaction bool `json:"in_transaction"`
	Notifications int  `json:"notifications"`
}

// State implements introspection.Introspectable.
func (l *List[T]) State() any {
	return ListState{
		Length:        len(l.items),
		Listeners:     len(l.listeners),
		InTransaction: l.depth > 0,
		Notifications: l.emitted,
	}
}

// ComponentType implements introspection.Component.
func (l *List[T]) ComponentType() string {
	return "observable-list"
}

var _ introspection.Introspectable = (*List[int])(nil)
var _ introspection.Component = (*List[int])(nil)
