// Package parser recursively parses NGINX configuration files, following
// "include" directives across a work queue, into a config.Payload.
package parser

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"

	"github.com/lefeck/nginxconf/catalog"
	"github.com/lefeck/nginxconf/config"
	"github.com/lefeck/nginxconf/errors"
	"github.com/lefeck/nginxconf/ext"
	"github.com/lefeck/nginxconf/fsutil"
	"github.com/lefeck/nginxconf/lexer"
)

// Parser walks one or more NGINX configuration files into a
// config.Payload. A Parser holds only options; it carries no state
// between Parse calls and is safe to reuse.
type Parser struct {
	opts options
}

// New builds a Parser with the given options applied over the defaults:
// errors are recorded and parsing continues, includes are followed,
// comments are dropped, and both context and argument checks run
// against the built-in catalog.
func New(opts ...Option) *Parser {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Parser{opts: o}
}

// Parse runs a one-shot parse of filename with opts, equivalent to
// New(opts...).Parse(filename).
func Parse(filename string, opts ...Option) (*config.Payload, error) {
	return New(opts...).Parse(filename)
}

type fileCtx struct {
	path string
	ctx  []string
}

// run carries the state threaded through one Parse call's include
// queue: it is reconstructed fresh on every call so a Parser can be
// reused concurrently.
type run struct {
	opts      options
	configDir string
	queue     []fileCtx
	included  map[string]int
	payload   *config.Payload
}

// Parse reads filename and every file it transitively includes,
// per p's options, into one payload. Parse itself only fails for a
// condition that aborts the whole run; per-file and per-directive
// errors are recorded on the returned payload instead.
func (p *Parser) Parse(filename string) (*config.Payload, error) {
	r := &run{
		opts:      p.opts,
		configDir: filepath.Dir(filename),
		queue:     []fileCtx{{path: filename, ctx: nil}},
		included:  map[string]int{filename: 0},
		payload:   config.NewPayload(),
	}

	for len(r.queue) > 0 {
		incl := r.queue[0]
		r.queue = r.queue[1:]

		report := config.NewFileReport(incl.path)

		f, err := os.Open(incl.path)
		if err != nil {
			r.payload.MarkFailed(report, 0, err.Error(), r.callback(err))
			r.payload.Config = append(r.payload.Config, *report)
			continue
		}

		toks := lexer.New(f, incl.path, r.opts.registry).Tokens()
		parsed, err := r.parseContext(report, toks, incl.ctx, false)
		f.Close()
		if err != nil {
			return nil, err
		}
		report.Parsed = parsed
		r.payload.Config = append(r.payload.Config, *report)
	}

	if p.opts.combine {
		return combine(r.payload)
	}
	return r.payload, nil
}

func (r *run) callback(err error) interface{} {
	if r.opts.onError == nil {
		return nil
	}
	return r.opts.onError(err)
}

// parseContext reads tokens from toks, collecting directives, until the
// stream ends or a non-quoted "}" at the current depth closes the
// block. When consume is true, the whole subtree is being discarded
// (an ignored or malformed directive's body) and nothing is recorded.
func (r *run) parseContext(report *config.FileReport, toks <-chan lexer.Result, ctx []string, consume bool) ([]*config.Directive, error) {
	var parsed []*config.Directive

	for res := range toks {
		if res.Err != nil {
			return nil, res.Err
		}
		t := res.Token

		if t.Text == "}" && !t.Quoted {
			return parsed, nil
		}

		if consume {
			if t.Text == "{" && !t.Quoted {
				if _, err := r.parseContext(report, toks, nil, true); err != nil {
					return nil, err
				}
			}
			continue
		}

		if strings.HasPrefix(t.Text, "#") && !t.Quoted {
			if r.opts.comments {
				parsed = append(parsed, &config.Directive{Name: "#", Line: t.Line, Comment: t.Text[1:]})
			}
			continue
		}

		stmt := &config.Directive{Name: t.Text, Line: t.Line}
		var commentsInArgs []string

		at, ok, err := r.nextArgToken(toks)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, errors.New(errors.Syntax, report.File, stmt.Line, "directive %q has no terminating \";\" or \"{\"", stmt.Name)
		}
		for at.Quoted || (at.Text != "{" && at.Text != ";" && at.Text != "}") {
			if strings.HasPrefix(at.Text, "#") && !at.Quoted {
				commentsInArgs = append(commentsInArgs, at.Text[1:])
			} else {
				stmt.Args = append(stmt.Args, at.Text)
			}
			at, ok, err = r.nextArgToken(toks)
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, errors.New(errors.Syntax, report.File, stmt.Line, "directive %q has no terminating \";\" or \"{\"", stmt.Name)
			}
		}
		term := at.Text

		if _, ignored := r.opts.ignore[stmt.Name]; ignored {
			if term == "{" && !at.Quoted {
				if _, err := r.parseContext(report, toks, nil, true); err != nil {
					return nil, err
				}
			}
			continue
		}

		if stmt.Name == "if" {
			prepareIfArgs(stmt)
		}

		analyzeOpts := catalog.Options{Strict: r.opts.strict, CheckCtx: r.opts.checkCtx, CheckArgs: r.opts.checkArgs}
		if aerr := catalog.Analyze(report.File, stmt.Name, stmt.Args, stmt.Line, term, ctx, r.opts.catalog, analyzeOpts); aerr != nil {
			if !r.opts.catchErrors {
				return nil, aerr
			}
			line := stmt.Line
			msg := aerr.Error()
			if e, ok := aerr.(*errors.Error); ok {
				line = e.Line
				msg = e.Message
			}
			r.payload.MarkFailed(report, line, aerr.Error(), r.callback(aerr))
			if strings.HasSuffix(msg, `is not terminated by ";"`) && term != "}" {
				if _, cerr := r.parseContext(report, toks, nil, true); cerr != nil {
					return nil, cerr
				}
			}
			continue
		}

		if stmt.Name == "include" && !r.opts.singleFile && len(stmt.Args) > 0 {
			if ierr := r.resolveInclude(report, stmt, ctx); ierr != nil {
				if !r.opts.catchErrors {
					return nil, ierr
				}
				r.payload.MarkFailed(report, stmt.Line, ierr.Error(), r.callback(ierr))
			}
		}

		if term == "{" {
			inner := catalog.EnterBlockCtx(stmt.Name, ctx)
			block, berr := r.parseContext(report, toks, inner, false)
			if berr != nil {
				return nil, berr
			}
			if block == nil {
				block = []*config.Directive{}
			}
			stmt.Block = block
		}

		parsed = append(parsed, stmt)
		for _, c := range commentsInArgs {
			parsed = append(parsed, &config.Directive{Name: "#", Line: stmt.Line, Comment: c})
		}
	}

	return parsed, nil
}

func (r *run) nextArgToken(toks <-chan lexer.Result) (ext.Token, bool, error) {
	item, open := <-toks
	if !open {
		return ext.Token{}, false, nil
	}
	if item.Err != nil {
		return ext.Token{}, false, item.Err
	}
	return item.Token, true, nil
}

// prepareIfArgs strips one leading "(" from the first arg and one
// trailing ")" from the last, the way nginx's own "if" grammar treats
// its condition as a parenthesized expression rather than plain args.
func prepareIfArgs(d *config.Directive) {
	e := len(d.Args) - 1
	if e < 0 {
		return
	}
	if strings.HasPrefix(d.Args[0], "(") && strings.HasSuffix(d.Args[e], ")") {
		d.Args[0] = strings.TrimLeftFunc(strings.TrimPrefix(d.Args[0], "("), unicode.IsSpace)
		d.Args[e] = strings.TrimRightFunc(strings.TrimSuffix(d.Args[e], ")"), unicode.IsSpace)
		if len(d.Args[0]) == 0 {
			d.Args = d.Args[1:]
			e--
		}
		if e >= 0 && e < len(d.Args) && len(d.Args[e]) == 0 {
			d.Args = d.Args[:e]
		}
	}
}

// resolveInclude expands stmt's include pattern into concrete files,
// queuing any not already seen and recording every resolved index (new
// or previously queued) on stmt.Includes.
func (r *run) resolveInclude(report *config.FileReport, stmt *config.Directive, ctx []string) error {
	pattern := fsutil.ResolveAgainst(r.configDir, stmt.Args[0])
	stmt.Includes = []int{}

	var matches []string
	switch {
	case fsutil.HasMagic(pattern):
		m, err := filepath.Glob(pattern)
		if err != nil {
			return errors.New(errors.IO, report.File, stmt.Line, "%s", err.Error())
		}
		sort.Strings(m)
		matches = m
	case fsutil.Exists(pattern):
		matches = []string{pattern}
	default:
		return errors.New(errors.IO, report.File, stmt.Line, "No such file or directory: %q", pattern)
	}

	for _, path := range matches {
		if _, seen := r.included[path]; !seen {
			r.included[path] = len(r.included)
			r.queue = append(r.queue, fileCtx{path: path, ctx: ctx})
		}
		stmt.Includes = append(stmt.Includes, r.included[path])
	}
	return nil
}
