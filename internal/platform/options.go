package platform

import (
	"log/slog"

	"github.com/aretw0/herd/pkg/adapters/fs"
)

// options holds the configuration of a file-backed Source.
type options struct {
	pattern     string
	strict      bool
	idAttribute string
	logger      *slog.Logger
	parsers     map[string]fs.Parser
}

// Option defines a functional option for configuring a Source.
type Option func(*options)

func defaultOptions() *options {
	return &options{
		pattern:     fs.DefaultPattern,
		idAttribute: "id",
		logger:      slog.New(slog.DiscardHandler),
		parsers:     make(map[string]fs.Parser),
	}
}

// WithPattern selects which files under the root are loaded (doublestar syntax).
func WithPattern(pattern string) Option {
	return func(o *options) {
		if pattern != "" {
			o.pattern = pattern
		}
	}
}

// WithStrict keeps numbers as json.Number in every default parser.
func WithStrict(strict bool) Option {
	return func(o *options) {
		o.strict = strict
	}
}

// WithIDAttribute sets the record key holding identifiers.
func WithIDAttribute(name string) Option {
	return func(o *options) {
		if name != "" {
			o.idAttribute = name
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithParser registers a custom parser for an extension (e.g. ".toml").
func WithParser(ext string, p fs.Parser) Option {
	return func(o *options) {
		o.parsers[ext] = p
	}
}
