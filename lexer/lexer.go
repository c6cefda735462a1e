package lexer

import (
	"io"
	"strings"

	"github.com/lefeck/nginxconf/errors"
	"github.com/lefeck/nginxconf/ext"
)

// Result is one item pulled off a Lexer's channel: either a Token or a
// terminal error. Lexer errors (syntax, I/O, brace imbalance) are
// unconditionally fatal for the stream — once Err is non-nil no further
// Results follow.
type Result struct {
	Token ext.Token
	Err   error
}

// Lexer turns a character stream into a channel of tokens, dispatching
// to registered extension hooks at directive-name position and
// verifying brace balance as it goes.
type Lexer struct {
	cs       *CharStream
	registry *ext.Registry
	file     string
}

// New wraps r as a lexer for file, using registry to resolve extension
// hooks (pass ext.NewRegistry() for none).
func New(r io.Reader, file string, registry *ext.Registry) *Lexer {
	if registry == nil {
		registry = ext.NewRegistry()
	}
	return &Lexer{cs: NewCharStream(r, file), registry: registry, file: file}
}

// Tokens starts the lex pass and returns a channel of Results. The
// channel is closed once the stream is exhausted or a fatal error has
// been sent.
func (lx *Lexer) Tokens() <-chan Result {
	raw := make(chan Result)
	go lx.scan(raw)
	return balanceBraces(raw, lx.file)
}

// scan implements the core state machine from the character stream
// down to un-balance-checked tokens.
func (lx *Lexer) scan(out chan<- Result) {
	defer close(out)

	var buf strings.Builder
	var tokenLine int
	nextIsDirective := true

	flush := func() (ext.Token, bool) {
		if buf.Len() == 0 {
			return ext.Token{}, false
		}
		t := ext.Token{Text: buf.String(), Line: tokenLine, Quoted: false}
		buf.Reset()
		return t, true
	}

	// dispatch hands the char stream to a registered extension lexer if
	// flushed is eligible (directive-name position and a hook is
	// registered for its text); it reports whether it did so.
	dispatch := func(flushed ext.Token) bool {
		if !nextIsDirective {
			return false
		}
		hook, ok := lx.registry.LexHookFor(flushed.Text)
		if !ok {
			return false
		}
		toks, err := hook(lx.cs, flushed.Text)
		if err != nil {
			out <- Result{Err: errors.Wrap(errors.Extension, lx.file, flushed.Line, err)}
			return true
		}
		for _, t := range toks {
			out <- Result{Token: t}
		}
		nextIsDirective = true
		return true
	}

	emit := func(t ext.Token, quoted bool) {
		t.Quoted = quoted
		out <- Result{Token: t}
		if dispatch(t) {
			return
		}
		nextIsDirective = false
	}

	for {
		text, line, ok, err := lx.cs.Next()
		if err != nil {
			out <- Result{Err: err}
			return
		}
		if !ok {
			if t, had := flush(); had {
				emit(t, false)
			}
			return
		}

		switch {
		case isSpace(text):
			if t, had := flush(); had {
				emit(t, false)
			}
			for {
				text2, line2, ok2, err2 := lx.cs.Next()
				if err2 != nil {
					out <- Result{Err: err2}
					return
				}
				if !ok2 {
					return
				}
				if !isSpace(text2) {
					lx.cs.PutBack(text2, line2)
					break
				}
			}

		case buf.Len() == 0 && text == "#":
			commentLine := line
			comment := text
			for !strings.HasSuffix(comment, "\n") {
				text2, _, ok2, err2 := lx.cs.Next()
				if err2 != nil {
					out <- Result{Err: err2}
					return
				}
				if !ok2 {
					break
				}
				comment += text2
			}
			comment = strings.TrimSuffix(comment, "\n")
			comment = strings.TrimSuffix(comment, "\r")
			out <- Result{Token: ext.Token{Text: comment, Line: commentLine, Quoted: false}}
			nextIsDirective = false

		case buf.Len() > 0 && strings.HasSuffix(buf.String(), "$") && text == "{":
			buf.WriteString(text)
			for !strings.HasSuffix(buf.String(), "}") {
				text2, line2, ok2, err2 := lx.cs.Next()
				if err2 != nil {
					out <- Result{Err: err2}
					return
				}
				if !ok2 || isSpace(text2) {
					if ok2 {
						lx.cs.PutBack(text2, line2)
					}
					break
				}
				buf.WriteString(text2)
			}

		case text == `"` || text == `'`:
			if buf.Len() > 0 {
				buf.WriteString(text)
				continue
			}
			quote := text
			var sb strings.Builder
			startLine := line
			closed := false
			for {
				text2, line2, ok2, err2 := lx.cs.Next()
				if err2 != nil {
					out <- Result{Err: err2}
					return
				}
				if !ok2 {
					line = line2
					break
				}
				if text2 == quote {
					closed = true
					break
				}
				if text2 == "\\"+quote {
					sb.WriteString(quote)
				} else {
					sb.WriteString(text2)
				}
			}
			if !closed {
				out <- Result{Err: errors.New(errors.Syntax, lx.file, startLine, "unterminated quoted string")}
				return
			}
			emit(ext.Token{Text: sb.String(), Line: startLine}, true)

		case text == "{" || text == "}" || text == ";":
			if t, had := flush(); had {
				emit(t, false)
			}
			out <- Result{Token: ext.Token{Text: text, Line: line, Quoted: false}}
			nextIsDirective = true

		default:
			if buf.Len() == 0 {
				tokenLine = line
			}
			buf.WriteString(text)
		}
	}
}

// balanceBraces wraps a raw token channel with a running brace-depth
// check, failing with an UnexpectedRightBrace-class error the moment
// depth would go negative.
func balanceBraces(in <-chan Result, file string) <-chan Result {
	out := make(chan Result)
	go func() {
		defer close(out)
		depth := 0
		line := 0
		for r := range in {
			if r.Err != nil {
				out <- r
				return
			}
			line = r.Token.Line
			if r.Token.Text == "}" && !r.Token.Quoted {
				depth--
			} else if r.Token.Text == "{" && !r.Token.Quoted {
				depth++
			}
			if depth < 0 {
				out <- Result{Err: errors.New(errors.Syntax, file, line, `unexpected "}"`)}
				return
			}
			out <- r
		}
		if depth > 0 {
			out <- Result{Err: errors.New(errors.Syntax, file, line, `unexpected end of file, expecting "}"`)}
		}
	}()
	return out
}

func isSpace(s string) bool {
	for _, r := range s {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f':
		default:
			return false
		}
	}
	return len(s) > 0
}
