package platform

import (
	"maps"
	"slices"
	"time"

	"github.com/aretw0/introspection"
)

// SourceState exposes internal state for observability.
type SourceState struct {
	Root     string     `json:"root"`
	Pattern  string     `json:"pattern"`
	Strict   bool       `json:"strict"`
	Parsers  []string   `json:"parsers"`
	Files    int        `json:"files"`
	Items    int        `json:"items"`
	LastLoad *time.Time `json:"last_load,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Source) State() any {
	return SourceState{
		Root:     s.root,
		Pattern:  s.opts.pattern,
		Strict:   s.opts.strict,
		Parsers:  slices.Sorted(maps.Keys(s.opts.parsers)),
		Files:    len(s.owned),
		Items:    s.collection.Len(),
		LastLoad: s.lastLoad,
	}
}

// ComponentType implements introspection.Component.
func (s *Source) ComponentType() string {
	return "source"
}

var _ introspection.Introspectable = (*Source)(nil)
var _ introspection.Component = (*Source)(nil)
