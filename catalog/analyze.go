package catalog

import (
	"strings"

	"github.com/lefeck/nginxconf/errors"
)

// Options controls which checks Analyze performs.
type Options struct {
	// Strict rejects any directive absent from the catalog.
	Strict bool
	// CheckCtx validates the directive against the current block
	// context.
	CheckCtx bool
	// CheckArgs validates argument count/flag value.
	CheckArgs bool
}

// DefaultOptions returns the toolkit's default analyzer behavior:
// context and argument checks on, strict mode off.
func DefaultOptions() Options {
	return Options{CheckCtx: true, CheckArgs: true}
}

// Analyze validates one directive's name, argument count and
// terminator against cat, given the enclosing context path and the
// terminator token that ended the directive ("{", ";" or "}").
// A nil error does not mean the directive is known-good: an
// unrecognized directive or context is simply not checked, unless
// Strict is set.
func Analyze(file string, name string, args []string, line int, term string, ctx []string, cat Catalog, opts Options) error {
	masks, knownDirective := cat.Lookup(name)

	if opts.Strict && !knownDirective {
		return errors.New(errors.Unknown, file, line, "unknown directive %q", name)
	}

	ctxMask, knownContext := ContextMask(ctx)
	if !knownContext || !knownDirective {
		return nil
	}

	candidates := masks
	if opts.CheckCtx {
		candidates = nil
		for _, m := range masks {
			if m&ctxMask != 0 {
				candidates = append(candidates, m)
			}
		}
		if len(candidates) == 0 {
			return errors.New(errors.Context, file, line, "directive %q is not allowed here", name)
		}
	}

	if !opts.CheckArgs {
		return nil
	}

	n := len(args)
	var lastErr string
	for i := len(candidates) - 1; i >= 0; i-- {
		m := candidates[i]

		if m&Block != 0 && term != "{" {
			lastErr = `directive "` + name + `" has no opening "{"`
			continue
		}
		if m&Block == 0 && term != ";" {
			lastErr = `directive "` + name + `" is not terminated by ";"`
			continue
		}

		switch {
		case n <= 7 && (m>>uint(n))&1 != 0:
			return nil
		case m&Flag != 0 && n == 1 && validFlag(args[0]):
			return nil
		case m&Any != 0:
			return nil
		case m&OneMore != 0 && n >= 1:
			return nil
		case m&TwoMore != 0 && n >= 2:
			return nil
		case m&Flag != 0 && n == 1:
			lastErr = `invalid value "` + args[0] + `" in "` + name + `" directive, it must be "on" or "off"`
		default:
			lastErr = `invalid number of arguments in "` + name + `" directive`
		}
	}

	return errors.New(errors.Arguments, file, line, "%s", lastErr)
}

func validFlag(s string) bool {
	l := strings.ToLower(s)
	return l == "on" || l == "off"
}
