// Package ext is the extension registry shared by the lexer and the
// builder: it lets a directive whose body is not plain NGINX syntax (an
// embedded scripting block, for instance) take over tokenization and
// rebuilding for itself.
package ext

import "github.com/lefeck/nginxconf/config"

// Token is the lexer's output unit: a token's text with surrounding
// quotes stripped, the source line it began on, and whether it came
// from inside a matching quote pair (or an extension declaring its
// output string-like).
type Token struct {
	Text   string
	Line   int
	Quoted bool
}

// CharSource is the pull interface a lex hook receives so it can read
// raw characters directly off the live char stream, the same interface
// the core lexer itself consumes. Next reports ok=false at end of
// stream. PutBack restores at most one item for the next Next call.
type CharSource interface {
	Next() (text string, line int, ok bool, err error)
	PutBack(text string, line int)
}

// LexHook completely consumes one directive's body from src and returns
// the tokens it produced, ending with a token equivalent to ";". After
// the hook returns, the lexer resumes reading src at its current
// position.
type LexHook func(src CharSource, directive string) ([]Token, error)

// BuildHook renders a directive node into the text that should replace
// the builder's default rendering. The returned string excludes the
// margin for its first line; the builder prepends that.
type BuildHook func(d *config.Directive, padding string, indent int, tabs bool) (string, error)

// Registry holds named lex and build hooks. A Registry is safe to read
// concurrently once registration has finished; it is not safe to
// register into while a parse or build using it is in progress.
type Registry struct {
	lex   map[string]LexHook
	build map[string]BuildHook
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{lex: map[string]LexHook{}, build: map[string]BuildHook{}}
}

// RegisterLex installs hook as the lex hook for each of the given
// directive names.
func (r *Registry) RegisterLex(hook LexHook, names ...string) {
	for _, name := range names {
		r.lex[name] = hook
	}
}

// RegisterBuild installs hook as the build hook for each of the given
// directive names.
func (r *Registry) RegisterBuild(hook BuildHook, names ...string) {
	for _, name := range names {
		r.build[name] = hook
	}
}

// LexHookFor returns the lex hook registered for name, if any.
func (r *Registry) LexHookFor(name string) (LexHook, bool) {
	h, ok := r.lex[name]
	return h, ok
}

// BuildHookFor returns the build hook registered for name, if any.
func (r *Registry) BuildHookFor(name string) (BuildHook, bool) {
	h, ok := r.build[name]
	return h, ok
}

// Merge copies all hooks from other into r, letting callers compose a
// registry out of several extension packages' defaults.
func (r *Registry) Merge(other *Registry) {
	if other == nil {
		return
	}
	for name, h := range other.lex {
		r.lex[name] = h
	}
	for name, h := range other.build {
		r.build[name] = h
	}
}
