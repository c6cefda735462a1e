// Package catalog holds the directive catalog — a mapping from directive
// name to one or more bitmasks that jointly encode allowed argument
// arity and allowed block context — and the analyzer that checks a
// parsed directive against it.
package catalog

// Mask is a single bitmask encoding both an arity class (low bits) and
// a set of allowed contexts (high bits) for one valid usage of a
// directive. A directive may have several masks, one per distinct valid
// usage (e.g. "listen" takes different argument counts in different
// forms).
type Mask uint64

// Arity class bits, one-hot over the low byte for NOARGS..TAKE7 so that
// "mask permits n args" reduces to a single bit test; BLOCK/FLAG/ANY/
// 1MORE/2MORE occupy the bits immediately above.
const (
	NoArgs Mask = 1 << iota
	Take1
	Take2
	Take3
	Take4
	Take5
	Take6
	Take7
	Block
	Flag
	Any
	OneMore
	TwoMore
)

// Convenience unions for directives that accept more than one fixed
// arity.
const (
	Take12   = Take1 | Take2
	Take13   = Take1 | Take3
	Take23   = Take2 | Take3
	Take34   = Take3 | Take4
	Take123  = Take12 | Take3
	Take1234 = Take123 | Take4
)

// Context bits. DirectConf marks a directive as main-file-only (nginx's
// own "direct conf" modifier); it is informational and not checked by
// Analyze since this toolkit doesn't track which file is the "main"
// file once includes are flattened.
const (
	DirectConf Mask = 1 << (iota + 16)
	MainConf
	EventsConf
	MailMainConf
	MailSrvConf
	StreamMainConf
	StreamSrvConf
	StreamUpsConf
	HTTPMainConf
	HTTPSrvConf
	HTTPLocConf
	HTTPUpsConf
	HTTPSifConf
	HTTPLifConf
	HTTPLmtConf
)

// AnyConf is every ordinary context bit except the http if/limit_except
// pseudo-contexts, a convenience for directives valid almost anywhere.
const AnyConf = MainConf | EventsConf | MailMainConf | MailSrvConf |
	StreamMainConf | StreamSrvConf | StreamUpsConf |
	HTTPMainConf | HTTPSrvConf | HTTPLocConf | HTTPUpsConf

// contextPaths maps each context bit to its canonical nested-block path;
// its reverse index resolves a parser's current context sequence to a
// mask.
var contextPaths = map[Mask][]string{
	MainConf:       {},
	EventsConf:     {"events"},
	MailMainConf:   {"mail"},
	MailSrvConf:    {"mail", "server"},
	StreamMainConf: {"stream"},
	StreamSrvConf:  {"stream", "server"},
	StreamUpsConf:  {"stream", "upstream"},
	HTTPMainConf:   {"http"},
	HTTPSrvConf:    {"http", "server"},
	HTTPLocConf:    {"http", "location"},
	HTTPUpsConf:    {"http", "upstream"},
	HTTPSifConf:    {"http", "server", "if"},
	HTTPLifConf:    {"http", "location", "if"},
	HTTPLmtConf:    {"http", "location", "limit_except"},
}

var pathToContext = func() map[string]Mask {
	m := make(map[string]Mask, len(contextPaths))
	for mask, path := range contextPaths {
		m[pathKey(path)] = mask
	}
	return m
}()

func pathKey(path []string) string {
	key := ""
	for i, p := range path {
		if i > 0 {
			key += ">"
		}
		key += p
	}
	return key
}

// ContextMask resolves a block-context sequence (e.g. ["http","server"])
// to its bitmask, and reports whether the sequence is a recognized
// context at all.
func ContextMask(ctx []string) (Mask, bool) {
	mask, ok := pathToContext[pathKey(ctx)]
	return mask, ok
}

// EnterBlockCtx computes the child context a directive opening a block
// introduces. "location" blocks inside "http" (at any nesting depth
// under http) do not stack further "location" segments onto the path —
// ngxHttpLocConf means "a location block somewhere under http", not
// "the Nth nested location".
func EnterBlockCtx(directive string, ctx []string) []string {
	if len(ctx) > 0 && ctx[0] == "http" && directive == "location" {
		return []string{"http", "location"}
	}
	next := make([]string, len(ctx)+1)
	copy(next, ctx)
	next[len(ctx)] = directive
	return next
}
