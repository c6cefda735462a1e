package catalog

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v2"
)

// Catalog maps a directive name to the set of masks describing its
// valid usages. It is data, not code: the default instance is loaded
// from an embedded YAML document, and callers may load their own or
// register individual directives into any Catalog value.
type Catalog map[string][]Mask

// tokenBits names every bit Mask defines, for the YAML encoding: a
// directive's masks are written as lists of these token names rather
// than raw integers, so the catalog document stays legible and
// diffable.
var tokenBits = map[string]Mask{
	"NOARGS":   NoArgs,
	"TAKE1":    Take1,
	"TAKE2":    Take2,
	"TAKE3":    Take3,
	"TAKE4":    Take4,
	"TAKE5":    Take5,
	"TAKE6":    Take6,
	"TAKE7":    Take7,
	"TAKE12":   Take12,
	"TAKE13":   Take13,
	"TAKE23":   Take23,
	"TAKE34":   Take34,
	"TAKE123":  Take123,
	"TAKE1234": Take1234,
	"BLOCK":    Block,
	"FLAG":     Flag,
	"ANY":      Any,
	"1MORE":    OneMore,
	"2MORE":    TwoMore,
	"DIRECT":   DirectConf,
	"MAIN":     MainConf,
	"EVENTS":   EventsConf,
	"MAIL_MAIN":   MailMainConf,
	"MAIL_SRV":    MailSrvConf,
	"STREAM_MAIN": StreamMainConf,
	"STREAM_SRV":  StreamSrvConf,
	"STREAM_UPS":  StreamUpsConf,
	"HTTP_MAIN": HTTPMainConf,
	"HTTP_SRV":  HTTPSrvConf,
	"HTTP_LOC":  HTTPLocConf,
	"HTTP_UPS":  HTTPUpsConf,
	"HTTP_SIF":  HTTPSifConf,
	"HTTP_LIF":  HTTPLifConf,
	"HTTP_LMT":  HTTPLmtConf,
	"ANY_CTX":   AnyConf,
}

type catalogDoc struct {
	Directives map[string][][]string `yaml:"directives"`
}

//go:embed directives.yaml
var defaultCatalogYAML []byte

// defaultCatalog is populated from directives.yaml on package init and
// returned (cloned) by Default.
var defaultCatalog Catalog

func init() {
	c, err := Parse(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded default catalog is malformed: %v", err))
	}
	defaultCatalog = c
}

// Parse decodes a YAML catalog document of the form:
//
//	directives:
//	  worker_processes:
//	    - [TAKE1, MAIN]
//	  server:
//	    - [NOARGS, BLOCK, HTTP_MAIN]
func Parse(doc []byte) (Catalog, error) {
	var parsed catalogDoc
	if err := yaml.Unmarshal(doc, &parsed); err != nil {
		return nil, fmt.Errorf("catalog: %w", err)
	}
	out := make(Catalog, len(parsed.Directives))
	for name, entries := range parsed.Directives {
		masks := make([]Mask, 0, len(entries))
		for _, tokens := range entries {
			var m Mask
			for _, tok := range tokens {
				bit, ok := tokenBits[strings.ToUpper(tok)]
				if !ok {
					return nil, fmt.Errorf("catalog: directive %q uses unknown token %q", name, tok)
				}
				m |= bit
			}
			masks = append(masks, m)
		}
		out[name] = masks
	}
	return out, nil
}

// Default returns a fresh copy of the toolkit's built-in catalog. It is
// a representative set of core/events/http/stream/mail directives, not
// an exhaustive one — the catalog's content is data a caller is
// expected to extend or replace via Register/Merge, not a property of
// this package's design.
func Default() Catalog {
	return defaultCatalog.Clone()
}

// Clone returns a deep-enough copy of c (mask slices are copied; masks
// themselves are values) so a caller can extend it without mutating the
// source.
func (c Catalog) Clone() Catalog {
	out := make(Catalog, len(c))
	for name, masks := range c {
		out[name] = append([]Mask(nil), masks...)
	}
	return out
}

// Register adds one more valid usage for name, leaving any existing
// masks for that directive in place. Extensions use this to add their
// own directives to a catalog at startup.
func (c Catalog) Register(name string, masks ...Mask) {
	c[name] = append(c[name], masks...)
}

// Merge copies every entry from other into c, appending to (rather than
// replacing) any masks c already has for a shared directive name.
func (c Catalog) Merge(other Catalog) {
	for name, masks := range other {
		c[name] = append(c[name], masks...)
	}
}

// Lookup returns the masks registered for name.
func (c Catalog) Lookup(name string) ([]Mask, bool) {
	masks, ok := c[name]
	return masks, ok
}
