// End-to-end tests exercising parser, builder, format and luablock
// together, one per scenario from the toolkit's worked examples.
package nginxconf_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lefeck/nginxconf/builder"
	"github.com/lefeck/nginxconf/config"
	"github.com/lefeck/nginxconf/format"
	"github.com/lefeck/nginxconf/lexer"
	"github.com/lefeck/nginxconf/luablock"
	"github.com/lefeck/nginxconf/parser"
	"gotest.tools/v3/assert"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	assert.NilError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	assert.NilError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestSimpleRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "nginx.conf", "events { worker_connections 1024; }\n")

	payload, err := parser.New(parser.WithSingleFile()).Parse(path)
	assert.NilError(t, err)
	assert.Equal(t, payload.Status, config.StatusOK)
	assert.Equal(t, len(payload.Config), 1)

	parsed := payload.Config[0].Parsed
	assert.Equal(t, len(parsed), 1)
	assert.Equal(t, parsed[0].Name, "events")
	assert.Equal(t, parsed[0].Line, 1)
	assert.Equal(t, len(parsed[0].Args), 0)
	assert.Equal(t, len(parsed[0].Block), 1)
	assert.Equal(t, parsed[0].Block[0].Name, "worker_connections")
	assert.DeepEqual(t, parsed[0].Block[0].Args, []string{"1024"})

	rebuilt := builder.New().Build(parsed)
	assert.Equal(t, rebuilt, "events {\n    worker_connections 1024;\n}\n")
}

func TestQuoteEscapeInsideDoubleQuotes(t *testing.T) {
	src := `log_format main "hello \"world\"";`
	lx := lexer.New(strings.NewReader(src), "nginx.conf", nil)

	var got []struct {
		Text   string
		Quoted bool
	}
	for res := range lx.Tokens() {
		assert.NilError(t, res.Err)
		got = append(got, struct {
			Text   string
			Quoted bool
		}{res.Token.Text, res.Token.Quoted})
	}

	assert.Equal(t, len(got), 4)
	assert.Equal(t, got[0].Text, "log_format")
	assert.Equal(t, got[1].Text, "main")
	assert.Equal(t, got[2].Text, `hello "world"`)
	assert.Assert(t, got[2].Quoted)
	assert.Equal(t, got[3].Text, ";")
}

func TestGlobbedIncludesAndCombine(t *testing.T) {
	dir := t.TempDir()
	nginxPath := writeFile(t, dir, "nginx.conf", "events{} include http.conf;")
	writeFile(t, dir, "http.conf", "http{ include servers/*.conf; }")
	writeFile(t, dir, "servers/s1.conf", "server { listen 80; }")
	writeFile(t, dir, "servers/s2.conf", "server { listen 81; }")

	payload, err := parser.New().Parse(nginxPath)
	assert.NilError(t, err)
	assert.Equal(t, payload.Status, config.StatusOK)
	assert.Equal(t, len(payload.Config), 4)

	nginxReport := payload.Config[0]
	includeDirective := nginxReport.Parsed[1]
	assert.Equal(t, includeDirective.Name, "include")
	assert.DeepEqual(t, includeDirective.Includes, []int{1})

	httpReport := payload.Config[1]
	httpInclude := httpReport.Parsed[0].Block[0]
	assert.Equal(t, httpInclude.Name, "include")
	assert.DeepEqual(t, httpInclude.Includes, []int{2, 3})

	combined, err := parser.New(parser.WithCombine()).Parse(nginxPath)
	assert.NilError(t, err)
	assert.Equal(t, len(combined.Config), 1)

	root := combined.Config[0].Parsed
	assert.Equal(t, root[0].Name, "events")
	httpNode := root[1]
	assert.Equal(t, httpNode.Name, "http")
	assert.Equal(t, len(httpNode.Block), 2)
	assert.Equal(t, httpNode.Block[0].Name, "server")
	assert.DeepEqual(t, httpNode.Block[0].Block[0].Args, []string{"80"})
	assert.Equal(t, httpNode.Block[1].Name, "server")
	assert.DeepEqual(t, httpNode.Block[1].Block[0].Args, []string{"81"})
}

func TestMissingIncludeUnderCatchErrors(t *testing.T) {
	dir := t.TempDir()
	nginxPath := writeFile(t, dir, "nginx.conf",
		"http {\n"+
			"    include conf.d/server.conf;\n"+
			"    include bar.conf;\n"+
			"}\n")
	writeFile(t, dir, "conf.d/server.conf", "server {\n    include bar.conf;\n}\n")

	payload, err := parser.New(parser.WithCatchErrors(true)).Parse(nginxPath)
	assert.NilError(t, err)
	assert.Equal(t, payload.Status, config.StatusFailed)

	foundTopLevel := false
	for _, e := range payload.Errors {
		if e.File == nginxPath && strings.Contains(e.Error, "bar.conf") {
			foundTopLevel = true
		}
	}
	assert.Assert(t, foundTopLevel)

	serverReport := payload.Config[1]
	serverInclude := serverReport.Parsed[0].Block[0]
	assert.Equal(t, serverInclude.Name, "include")
	assert.Assert(t, serverInclude.Includes != nil)
	assert.Equal(t, len(serverInclude.Includes), 0)
}

func TestUnknownDirectiveInStrictMode(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "nginx.conf",
		"http{ server{ location /{ proxy_passs http://up; } } }")

	payload, err := parser.New(parser.WithSingleFile(), parser.WithStrict(), parser.WithComments()).Parse(path)
	assert.NilError(t, err)
	assert.Equal(t, payload.Status, config.StatusFailed)
	assert.Equal(t, len(payload.Errors), 1)
	assert.Assert(t, strings.Contains(payload.Errors[0].Error, `unknown directive "proxy_passs"`))

	report := payload.Config[0]
	httpNode := report.Parsed[0]
	serverNode := httpNode.Block[0]
	locationNode := serverNode.Block[0]
	assert.Equal(t, locationNode.Name, "location")
	assert.DeepEqual(t, locationNode.Args, []string{"/"})
}

func TestEmbeddedLuaBlockRoundTripsVerbatim(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "nginx.conf", "http { set_by_lua_block $res { return { 1,2,3 } } }")

	payload, err := parser.New(parser.WithSingleFile(), parser.WithRegistry(luablock.NewRegistry())).Parse(path)
	assert.NilError(t, err)
	assert.Equal(t, payload.Status, config.StatusOK)

	d := payload.Config[0].Parsed[0].Block[0]
	assert.Equal(t, d.Name, "set_by_lua_block")
	assert.DeepEqual(t, d.Args, []string{"$res", " return { 1,2,3 } "})

	rebuilt := builder.New(builder.WithRegistry(luablock.NewRegistry())).Build(payload.Config[0].Parsed)
	assert.Equal(t, rebuilt, "http {\n    set_by_lua_block $res { return { 1,2,3 } }\n}\n")
}

func TestMinifyScenario(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "nginx.conf",
		"events { worker_connections 1024; } http { server { listen 80; } }")

	got, err := format.Minify(path)
	assert.NilError(t, err)
	assert.Equal(t, got, "events {worker_connections 1024;}http {server {listen 80;}}\n")
}
