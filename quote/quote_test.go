package quote_test

import (
	"testing"

	"github.com/lefeck/nginxconf/quote"
	"gotest.tools/v3/assert"
)

func TestNeedsQuotingPlainArgs(t *testing.T) {
	t.Parallel()
	for _, s := range []string{"80", "off", "$host", "/etc/nginx", "example.com", "prefix_${var}"} {
		assert.Equal(t, quote.NeedsQuoting(s), false, s)
	}
}

func TestNeedsQuotingBreakingArgs(t *testing.T) {
	t.Parallel()
	cases := map[string]bool{
		"":                    true,
		"has space":           true,
		`contains"quote`:      true,
		"contains'quote":      true,
		"trailing\\":          true,
		"trailing$":           true,
		"${unclosed":          true,
		"${var}_suffix":       true,
		"${nested${inner}}":   true,
		"closing}brace":       true,
		" leading space":      true,
		"{leading-brace":      true,
		";leading-semicolon":  true,
		`\$escaped-dollar`:    false,
		`\{escaped-brace`:     false,
	}
	for s, want := range cases {
		got := quote.NeedsQuoting(s)
		assert.Equal(t, got, want, s)
	}
}

func TestEnquoteRoundTrip(t *testing.T) {
	t.Parallel()
	got := quote.Enquote("hello \"world\"")
	assert.Equal(t, got, `'hello "world"'`)
}

func TestEnquoteLeavesSafeArgsAlone(t *testing.T) {
	t.Parallel()
	assert.Equal(t, quote.Enquote("example.com"), "example.com")
}

func TestEnquoteEscapesControlChars(t *testing.T) {
	t.Parallel()
	got := quote.Enquote("line1\nline2")
	assert.Equal(t, got, `'line1\nline2'`)
}
