package parser

import (
	"github.com/lefeck/nginxconf/catalog"
	"github.com/lefeck/nginxconf/ext"
)

// Option configures a Parser.
type Option func(*options)

type options struct {
	onError     func(error) interface{}
	catchErrors bool
	ignore      map[string]struct{}
	singleFile  bool
	comments    bool
	strict      bool
	combine     bool
	checkCtx    bool
	checkArgs   bool
	registry    *ext.Registry
	catalog     catalog.Catalog
}

func defaultOptions() options {
	return options{
		catchErrors: true,
		ignore:      map[string]struct{}{},
		checkCtx:    true,
		checkArgs:   true,
		registry:    ext.NewRegistry(),
		catalog:     catalog.Default(),
	}
}

// WithOnError installs cb to produce the opaque Callback value attached
// to every recorded error.
func WithOnError(cb func(error) interface{}) Option {
	return func(o *options) { o.onError = cb }
}

// WithCatchErrors controls whether an analyzer error is recorded and
// parsing continues (true, the default) or returned immediately (false).
func WithCatchErrors(catch bool) Option {
	return func(o *options) { o.catchErrors = catch }
}

// WithIgnore adds directive names that should be skipped entirely,
// including their whole block if they open one.
func WithIgnore(directives ...string) Option {
	return func(o *options) {
		for _, d := range directives {
			o.ignore[d] = struct{}{}
		}
	}
}

// WithSingleFile disables "include" traversal.
func WithSingleFile() Option {
	return func(o *options) { o.singleFile = true }
}

// WithComments retains comment directives in the parsed tree.
func WithComments() Option {
	return func(o *options) { o.comments = true }
}

// WithStrict propagates strict mode to the analyzer (unknown directives
// become errors instead of being silently skipped).
func WithStrict() Option {
	return func(o *options) { o.strict = true }
}

// WithCombine flattens the payload into a single logical file via
// inline inclusion after parsing finishes.
func WithCombine() Option {
	return func(o *options) { o.combine = true }
}

// WithSkipContextCheck disables the analyzer's block-context check.
func WithSkipContextCheck() Option {
	return func(o *options) { o.checkCtx = false }
}

// WithSkipArgsCheck disables the analyzer's argument-count check.
func WithSkipArgsCheck() Option {
	return func(o *options) { o.checkArgs = false }
}

// WithRegistry installs the extension registry used to dispatch lex
// hooks at directive-name position. A nil registry is ignored.
func WithRegistry(r *ext.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithCatalog replaces the default directive catalog. A nil catalog is
// ignored.
func WithCatalog(c catalog.Catalog) Option {
	return func(o *options) {
		if c != nil {
			o.catalog = c
		}
	}
}
