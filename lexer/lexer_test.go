package lexer_test

import (
	"strings"
	"testing"

	"github.com/lefeck/nginxconf/ext"
	"github.com/lefeck/nginxconf/lexer"
	"gotest.tools/v3/assert"
)

func collect(t *testing.T, src string) ([]string, error) {
	t.Helper()
	lx := lexer.New(strings.NewReader(src), "test.conf", ext.NewRegistry())
	var texts []string
	for res := range lx.Tokens() {
		if res.Err != nil {
			return texts, res.Err
		}
		texts = append(texts, res.Token.Text)
	}
	return texts, nil
}

func TestTokensSimpleDirective(t *testing.T) {
	toks, err := collect(t, "worker_processes 1;\n")
	assert.NilError(t, err)
	assert.DeepEqual(t, toks, []string{"worker_processes", "1", ";"})
}

func TestTokensNestedBlock(t *testing.T) {
	toks, err := collect(t, "http {\n  server { listen 80; }\n}\n")
	assert.NilError(t, err)
	assert.DeepEqual(t, toks, []string{
		"http", "{", "server", "{", "listen", "80", ";", "}", "}",
	})
}

func TestTokensQuotedStringUnescapesEmbeddedQuote(t *testing.T) {
	toks, err := collect(t, `server_name "a\"b";`)
	assert.NilError(t, err)
	assert.DeepEqual(t, toks, []string{"server_name", `a"b`, ";"})
}

func TestTokensCommentKeepsLeadingSpace(t *testing.T) {
	toks, err := collect(t, "# hello\nworker_processes 1;")
	assert.NilError(t, err)
	assert.DeepEqual(t, toks, []string{"# hello", "worker_processes", "1", ";"})
}

func TestTokensVariableExpansionBraceStaysOneToken(t *testing.T) {
	toks, err := collect(t, "set $x ${foo};")
	assert.NilError(t, err)
	assert.DeepEqual(t, toks, []string{"set", "$x", "${foo}", ";"})
}

func TestTokensUnexpectedRightBrace(t *testing.T) {
	_, err := collect(t, "}")
	assert.ErrorContains(t, err, `unexpected "}"`)
}

func TestTokensUnterminatedBlock(t *testing.T) {
	_, err := collect(t, "http {")
	assert.ErrorContains(t, err, `unexpected end of file, expecting "}"`)
}

func TestTokensUnterminatedQuote(t *testing.T) {
	_, err := collect(t, `foo "bar`)
	assert.ErrorContains(t, err, "unterminated quoted string")
}

func TestTokensLineNumbersTrackNewlines(t *testing.T) {
	lx := lexer.New(strings.NewReader("a b;\nc d;\n"), "test.conf", ext.NewRegistry())
	var lines []int
	for res := range lx.Tokens() {
		assert.NilError(t, res.Err)
		lines = append(lines, res.Token.Line)
	}
	assert.DeepEqual(t, lines, []int{1, 1, 1, 2, 2, 2})
}
