// Package config holds the directive tree and parse-result data model
// shared by the lexer, parser, analyzer and builder: Directive, the
// per-file and per-run reports, and the payload errors that carry them.
package config

// Directive is one node of a parsed configuration tree. A comment is
// represented as a Directive whose Name is "#"; its text (without the
// leading "#") lives in Comment.
type Directive struct {
	Name    string       `json:"directive" yaml:"directive"`
	Line    int          `json:"line" yaml:"line"`
	Args    []string     `json:"args" yaml:"args"`
	Block   []*Directive `json:"block,omitempty" yaml:"block,omitempty"`
	// Includes holds indices into the owning Payload's Config slice; it
	// is only set on an "include" directive when include expansion ran.
	Includes []int  `json:"includes,omitempty" yaml:"includes,omitempty"`
	Comment  string `json:"comment,omitempty" yaml:"comment,omitempty"`
	// File is only populated in combine mode, where nodes from several
	// source files are merged into one tree.
	File string `json:"file,omitempty" yaml:"file,omitempty"`
}

// IsBlock reports whether the directive opened a "{ ... }" body.
func (d *Directive) IsBlock() bool {
	return d.Block != nil
}

// IsInclude reports whether the directive is an "include" the parser
// attempted to resolve, whether or not any of it resolved; Includes is
// the empty slice rather than nil when resolution failed outright.
func (d *Directive) IsInclude() bool {
	return d.Includes != nil
}

// IsComment reports whether the directive is a comment node.
func (d *Directive) IsComment() bool {
	return d.Name == "#"
}

// Clone returns a deep copy of the directive and its block, so callers
// can mutate a combined tree without aliasing the parsed originals.
func (d *Directive) Clone() *Directive {
	if d == nil {
		return nil
	}
	c := *d
	if d.Args != nil {
		c.Args = append([]string(nil), d.Args...)
	}
	if d.Includes != nil {
		c.Includes = append([]int(nil), d.Includes...)
	}
	if d.Block != nil {
		c.Block = make([]*Directive, len(d.Block))
		for i, child := range d.Block {
			c.Block[i] = child.Clone()
		}
	}
	return &c
}
