package fsutil_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lefeck/nginxconf/fsutil"
	"gotest.tools/v3/assert"
)

func TestHasMagic(t *testing.T) {
	cases := map[string]bool{
		"conf.d/*.conf":  true,
		"conf.d/?.conf":  true,
		"conf.d/[ab].conf": true,
		"conf.d/server.conf": false,
	}
	for pattern, want := range cases {
		assert.Equal(t, fsutil.HasMagic(pattern), want, pattern)
	}
}

func TestIsAbs(t *testing.T) {
	assert.Assert(t, fsutil.IsAbs("/etc/nginx/nginx.conf"))
	assert.Assert(t, !fsutil.IsAbs("conf.d/server.conf"))
}

func TestResolveAgainst(t *testing.T) {
	assert.Equal(t, fsutil.ResolveAgainst("/etc/nginx", "conf.d/server.conf"), "/etc/nginx/conf.d/server.conf")
	assert.Equal(t, fsutil.ResolveAgainst("/etc/nginx", "/srv/server.conf"), "/srv/server.conf")
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.conf")
	assert.NilError(t, os.WriteFile(present, []byte("ok"), 0o644))

	assert.Assert(t, fsutil.Exists(present))
	assert.Assert(t, !fsutil.Exists(filepath.Join(dir, "missing.conf")))
}
