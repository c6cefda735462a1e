package builder

import "github.com/lefeck/nginxconf/ext"

// Option configures a Builder.
type Option func(*options)

type options struct {
	indent   int
	tabs     bool
	header   string
	registry *ext.Registry
}

func defaultOptions() options {
	return options{indent: 4, registry: ext.NewRegistry()}
}

// WithIndent sets the number of spaces per indent level. Ignored when
// WithTabs is also given. The default is 4.
func WithIndent(n int) Option {
	return func(o *options) { o.indent = n }
}

// WithTabs renders one tab per indent level instead of spaces.
func WithTabs() Option {
	return func(o *options) { o.tabs = true }
}

// WithHeader prepends header, followed by a newline, before the first
// directive.
func WithHeader(header string) Option {
	return func(o *options) { o.header = header }
}

// WithRegistry installs the extension registry consulted for build
// hooks. A nil registry is ignored.
func WithRegistry(r *ext.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}
