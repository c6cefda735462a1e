// Package luablock provides the lexer and builder extension hooks for
// OpenResty's embedded "*_by_lua_block" directives. The lex hook
// captures the directive's raw Lua body as a single opaque argument so
// the core lexer never tries to tokenize Lua as NGINX syntax; the
// build hook reformats that body through github.com/imega/luaformatter
// when the tree is rendered back to text.
package luablock

import (
	"fmt"
	"strings"

	"github.com/imega/luaformatter"
	"github.com/lefeck/nginxconf/config"
	"github.com/lefeck/nginxconf/ext"
)

// Directives lists every directive whose body is embedded Lua rather
// than NGINX syntax.
var Directives = []string{
	"set_by_lua_block",
	"access_by_lua_block",
	"rewrite_by_lua_block",
	"content_by_lua_block",
	"log_by_lua_block",
	"balancer_by_lua_block",
	"init_by_lua_block",
	"init_worker_by_lua_block",
}

// Register installs the lex and build hooks for every directive in
// Directives into r.
func Register(r *ext.Registry) {
	r.RegisterLex(lexHook, Directives...)
	r.RegisterBuild(buildHook, Directives...)
}

// NewRegistry returns a registry carrying only the Lua block hooks, for
// callers that don't need to compose it with other extensions.
func NewRegistry() *ext.Registry {
	r := ext.NewRegistry()
	Register(r)
	return r
}

// lexHook reads everything between a "*_by_lua_block" directive's name
// and its closing "}" directly off the character stream: an optional
// leading bareword argument (set_by_lua_block's target variable), then
// the brace-delimited Lua body, skipping braces inside string literals
// and "--" comments so they don't disturb the depth count.
func lexHook(src ext.CharSource, directive string) ([]ext.Token, error) {
	var leading []ext.Token

	text, line, ok, err := skipSpace(src)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%s: unexpected end of file, expecting \"{\"", directive)
	}

	if text != "{" {
		var sb strings.Builder
		argLine := line
		sb.WriteString(text)
		for {
			text, line, ok, err = src.Next()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, fmt.Errorf("%s: unexpected end of file, expecting \"{\"", directive)
			}
			if isSpace(text) {
				break
			}
			sb.WriteString(text)
		}
		leading = append(leading, ext.Token{Text: sb.String(), Line: argLine})

		text, line, ok, err = skipSpace(src)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("%s: unexpected end of file, expecting \"{\"", directive)
		}
	}

	if text != "{" {
		return nil, fmt.Errorf("%s: expected \"{\" to open the lua block", directive)
	}

	body, err := readBalancedBody(src)
	if err != nil {
		return nil, err
	}

	toks := append(leading, ext.Token{Text: body, Line: line, Quoted: true})
	return append(toks, ext.Token{Text: ";", Line: line}), nil
}

func skipSpace(src ext.CharSource) (string, int, bool, error) {
	for {
		text, line, ok, err := src.Next()
		if err != nil || !ok {
			return text, line, ok, err
		}
		if !isSpace(text) {
			return text, line, true, nil
		}
	}
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

// readBalancedBody consumes raw Lua source up to the brace that matches
// the one the caller already consumed.
func readBalancedBody(src ext.CharSource) (string, error) {
	var sb strings.Builder
	depth := 1
	for depth > 0 {
		text, line, ok, err := src.Next()
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("luablock: unexpected end of file, expecting \"}\"")
		}

		switch text {
		case "{":
			depth++
			sb.WriteString(text)
		case "}":
			depth--
			if depth == 0 {
				return sb.String(), nil
			}
			sb.WriteString(text)
		case "-":
			next, nline, ok2, err2 := src.Next()
			if err2 != nil {
				return "", err2
			}
			if ok2 && next == "-" {
				sb.WriteString("--")
				for {
					c, _, ok3, err3 := src.Next()
					if err3 != nil {
						return "", err3
					}
					if !ok3 {
						return "", fmt.Errorf("luablock: unexpected end of file inside comment")
					}
					sb.WriteString(c)
					if strings.HasSuffix(c, "\n") {
						break
					}
				}
			} else {
				sb.WriteString(text)
				if ok2 {
					src.PutBack(next, nline)
				}
			}
		case `"`, "'":
			quote := text
			sb.WriteString(text)
			for {
				c, _, ok3, err3 := src.Next()
				if err3 != nil {
					return "", err3
				}
				if !ok3 {
					return "", fmt.Errorf("luablock: unterminated string literal")
				}
				sb.WriteString(c)
				if c == quote {
					break
				}
			}
		default:
			sb.WriteString(text)
		}
	}
	return sb.String(), nil
}

// buildHook reformats the directive's Lua body through luaformatter and
// re-indents it under margin; a formatting failure falls back to the
// body exactly as it was captured rather than failing the whole build.
func buildHook(d *config.Directive, margin string, indent int, tabs bool) (string, error) {
	if len(d.Args) == 0 {
		return "", fmt.Errorf("luablock: %s has no body", d.Name)
	}
	body := d.Args[len(d.Args)-1]

	head := d.Name
	for _, a := range d.Args[:len(d.Args)-1] {
		head += " " + a
	}

	if !strings.Contains(body, "\n") {
		// A one-line block (the common case for a short expression)
		// is reproduced verbatim rather than run through the
		// formatter, so a block that was already on one line stays
		// stable across a parse/build round trip.
		return head + " {" + body + "}", nil
	}

	formatted, err := luaformatter.Format([]byte(body))
	text := body
	if err == nil {
		text = string(formatted)
	}

	innerMargin := margin + pad(indent, tabs)
	lines := strings.Split(strings.Trim(text, "\n"), "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}
		lines[i] = innerMargin + l
	}

	return head + " {\n" + strings.Join(lines, "\n") + "\n" + margin + "}", nil
}

func pad(indent int, tabs bool) string {
	if tabs {
		return "\t"
	}
	return strings.Repeat(" ", indent)
}
