// Package format composes parser and builder with fixed option sets
// for the two common whole-file operations: rendering a file back to
// its canonical layout, and producing the smallest text that still
// parses to the same tree.
package format

import (
	"strings"

	"github.com/lefeck/nginxconf/builder"
	"github.com/lefeck/nginxconf/config"
	"github.com/lefeck/nginxconf/luablock"
	"github.com/lefeck/nginxconf/parser"
	"github.com/lefeck/nginxconf/quote"
	"gopkg.in/yaml.v2"
)

// Format parses filename on its own (not following "include") and
// renders it back with 4-space indentation, comments preserved, and
// embedded Lua blocks reformatted.
func Format(filename string) (string, error) {
	payload, err := parser.New(
		parser.WithSingleFile(),
		parser.WithComments(),
		parser.WithRegistry(luablock.NewRegistry()),
	).Parse(filename)
	if err != nil {
		return "", err
	}
	if len(payload.Config) == 0 {
		return "", nil
	}
	b := builder.New(builder.WithRegistry(luablock.NewRegistry()))
	return b.Build(payload.Config[0].Parsed), nil
}

// Minify parses filename on its own and renders it back as densely as
// possible: no indentation, no comments, and no separators between
// sibling statements beyond the ";" or "}" that already ends one.
func Minify(filename string) (string, error) {
	payload, err := parser.New(
		parser.WithSingleFile(),
		parser.WithRegistry(luablock.NewRegistry()),
	).Parse(filename)
	if err != nil {
		return "", err
	}
	if len(payload.Config) == 0 {
		return "", nil
	}
	return minifyBlock(payload.Config[0].Parsed) + "\n", nil
}

// minifyBlock renders nodes with no whitespace beyond what each
// statement needs internally (a space before its args, a space before
// an opening "{").
func minifyBlock(nodes []*config.Directive) string {
	var sb strings.Builder
	for _, d := range nodes {
		if d.IsComment() {
			continue
		}
		sb.WriteString(minifyStatement(d))
	}
	return sb.String()
}

func minifyStatement(d *config.Directive) string {
	var sb strings.Builder
	if d.Name == "if" {
		sb.WriteString("if (")
		sb.WriteString(strings.Join(minifyArgs(d.Args), " "))
		sb.WriteString(")")
	} else {
		sb.WriteString(d.Name)
		for _, a := range minifyArgs(d.Args) {
			sb.WriteString(" ")
			sb.WriteString(a)
		}
	}

	if d.IsBlock() {
		sb.WriteString(" {")
		sb.WriteString(minifyBlock(d.Block))
		sb.WriteString("}")
	} else {
		sb.WriteString(";")
	}
	return sb.String()
}

func minifyArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = quote.Enquote(a)
	}
	return out
}

// MarshalYAML encodes payload as YAML, the toolkit's alternative to the
// JSON tags config.Payload already carries for an external caller.
func MarshalYAML(payload *config.Payload) ([]byte, error) {
	return yaml.Marshal(payload)
}

// UnmarshalYAML decodes a payload previously produced by MarshalYAML.
func UnmarshalYAML(data []byte) (*config.Payload, error) {
	var payload config.Payload
	if err := yaml.Unmarshal(data, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}
