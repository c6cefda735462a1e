package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/lefeck/nginxconf/errors"
	"gotest.tools/v3/assert"
)

func TestErrorStringWithLine(t *testing.T) {
	err := errors.New(errors.Syntax, "nginx.conf", 5, "unexpected %q", "}")
	assert.Equal(t, err.Error(), `unexpected "}" in nginx.conf:5`)
}

func TestErrorStringWithoutLine(t *testing.T) {
	err := errors.NewNoLine(errors.IO, "nginx.conf", "permission denied")
	assert.Equal(t, err.Error(), "permission denied in nginx.conf")
}

func TestErrorStringWithNeitherFileNorLine(t *testing.T) {
	err := &errors.Error{Kind: errors.Unknown, Message: "unknown directive"}
	assert.Equal(t, err.Error(), "unknown directive")
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("boom")
	err := errors.Wrap(errors.Extension, "nginx.conf", 3, cause)
	assert.Equal(t, err.Error(), "boom in nginx.conf:3")
	assert.Assert(t, stderrors.Is(err, cause))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, errors.Context.String(), "context")
	assert.Equal(t, errors.Kind(99).String(), "error")
}
