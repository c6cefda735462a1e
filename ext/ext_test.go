package ext_test

import (
	"testing"

	"github.com/lefeck/nginxconf/config"
	"github.com/lefeck/nginxconf/ext"
	"gotest.tools/v3/assert"
)

func stubLexHook(src ext.CharSource, directive string) ([]ext.Token, error) {
	return []ext.Token{{Text: directive}, {Text: ";"}}, nil
}

func stubBuildHook(d *config.Directive, padding string, indent int, tabs bool) (string, error) {
	return d.Name + " <stub>", nil
}

func TestRegistryLexHookForMissing(t *testing.T) {
	r := ext.NewRegistry()
	_, ok := r.LexHookFor("content_by_lua_block")
	assert.Assert(t, !ok)
}

func TestRegistryRegisterLexCoversAllNames(t *testing.T) {
	r := ext.NewRegistry()
	r.RegisterLex(stubLexHook, "foo_block", "bar_block")

	for _, name := range []string{"foo_block", "bar_block"} {
		hook, ok := r.LexHookFor(name)
		assert.Assert(t, ok)
		toks, err := hook(nil, name)
		assert.NilError(t, err)
		assert.Equal(t, toks[0].Text, name)
	}

	_, ok := r.LexHookFor("baz_block")
	assert.Assert(t, !ok)
}

func TestRegistryRegisterBuild(t *testing.T) {
	r := ext.NewRegistry()
	r.RegisterBuild(stubBuildHook, "foo_block")

	hook, ok := r.BuildHookFor("foo_block")
	assert.Assert(t, ok)

	out, err := hook(&config.Directive{Name: "foo_block"}, "", 4, false)
	assert.NilError(t, err)
	assert.Equal(t, out, "foo_block <stub>")
}

func TestRegistryMergeCombinesHooks(t *testing.T) {
	a := ext.NewRegistry()
	a.RegisterLex(stubLexHook, "foo_block")

	b := ext.NewRegistry()
	b.RegisterBuild(stubBuildHook, "foo_block")
	b.RegisterLex(stubLexHook, "bar_block")

	a.Merge(b)

	_, ok := a.LexHookFor("bar_block")
	assert.Assert(t, ok)
	_, ok = a.BuildHookFor("foo_block")
	assert.Assert(t, ok)
}

func TestRegistryMergeNilIsNoop(t *testing.T) {
	a := ext.NewRegistry()
	a.RegisterLex(stubLexHook, "foo_block")
	a.Merge(nil)

	_, ok := a.LexHookFor("foo_block")
	assert.Assert(t, ok)
}
