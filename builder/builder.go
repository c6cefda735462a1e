// Package builder renders a parsed directive tree back into NGINX
// configuration text, the inverse of package parser.
package builder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lefeck/nginxconf/config"
	"github.com/lefeck/nginxconf/fsutil"
	"github.com/lefeck/nginxconf/quote"
)

// Builder renders directive trees into text.
type Builder struct {
	opts options
}

// New builds a Builder with the given options applied over the
// defaults: 4-space indent, no tabs, no header, no extension hooks.
func New(opts ...Option) *Builder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Builder{opts: o}
}

// Build renders nodes (one file's top-level directives) into text
// ending with exactly one trailing newline.
func (b *Builder) Build(nodes []*config.Directive) string {
	var sb strings.Builder
	if b.opts.header != "" {
		sb.WriteString(b.opts.header)
		sb.WriteString("\n")
	}
	sb.WriteString(b.renderBlock(nodes, 0))
	sb.WriteString("\n")
	return sb.String()
}

// BuildFiles writes every file report in payload under rootDir (paths
// already absolute are written as-is), creating parent directories as
// needed.
func (b *Builder) BuildFiles(payload *config.Payload, rootDir string) error {
	for _, report := range payload.Config {
		path := fsutil.ResolveAgainst(rootDir, report.File)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(b.Build(report.Parsed)), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) padding() string {
	if b.opts.tabs {
		return "\t"
	}
	return strings.Repeat(" ", b.opts.indent)
}

func (b *Builder) margin(depth int) string {
	return strings.Repeat(b.padding(), depth)
}

// renderBlock renders nodes, one statement per source line, at depth,
// joined by "\n" with no leading or trailing newline of its own. A
// comment on the same source line as the previously rendered node is
// appended to that line instead of starting a new one.
func (b *Builder) renderBlock(nodes []*config.Directive, depth int) string {
	margin := b.margin(depth)
	var lines []string
	lastLine := -1

	for _, d := range nodes {
		if d.IsComment() {
			if len(lines) > 0 && d.Line == lastLine {
				lines[len(lines)-1] += " #" + d.Comment
				continue
			}
			lines = append(lines, margin+"#"+d.Comment)
			lastLine = d.Line
			continue
		}
		lines = append(lines, margin+b.renderStatement(d, depth))
		lastLine = d.Line
	}

	return strings.Join(lines, "\n")
}

func (b *Builder) renderStatement(d *config.Directive, depth int) string {
	if hook, ok := b.opts.registry.BuildHookFor(d.Name); ok {
		if text, err := hook(d, b.margin(depth), b.opts.indent, b.opts.tabs); err == nil {
			return text
		}
	}

	var head string
	if d.Name == "if" {
		head = fmt.Sprintf("if ( %s )", strings.Join(quoteArgs(d.Args), " "))
	} else {
		parts := append([]string{d.Name}, quoteArgs(d.Args)...)
		head = strings.Join(parts, " ")
	}

	if !d.IsBlock() {
		return head + ";"
	}

	body := b.renderBlock(d.Block, depth+1)
	if body == "" {
		return head + " {\n" + b.margin(depth) + "}"
	}
	return head + " {\n" + body + "\n" + b.margin(depth) + "}"
}

func quoteArgs(args []string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		out[i] = quote.Enquote(a)
	}
	return out
}
