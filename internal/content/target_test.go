package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolverTarget(t *testing.T) {
	r := Resolver{Base: "/docs", Locale: "de", Extensions: DefaultExtensions}
	from := PageRef{Slug: "guides/setup", Directory: "guides"}

	cases := []struct {
		dest string
		want string
		ok   bool
	}{
		{"https://example.com/", "", false},
		{"mailto:docs@example.com", "", false},
		{"//cdn.example.com/lib.js", "", false},
		{"#install", "", false},
		{"?tab=2", "", false},
		{"logo.png", "", false},
		{"/other/site/", "", false},
		{"/docs/guides/intro/", "guides/intro", true},
		{"/docs/de/guides/intro/#step-2", "guides/intro", true},
		{"/docs/", "index", true},
		{"/docs/guides/page.html", "guides/page", true},
		{"./install.md", "guides/install", true},
		{"../intro.md?x=1", "intro", true},
		{"Getting%20Started.md", "guides/getting-started", true},
		{"../install/", "guides/install", true},
		{"install/", "guides/setup/install", true},
		{"../../", "index", true},
		{"../", "guides", true},
		{"..", "guides", true},
		{"./", "guides/setup", true},
		{".", "guides/setup", true},
	}
	for _, tc := range cases {
		got, ok := r.Target(tc.dest, from)
		assert.Equal(t, tc.ok, ok, tc.dest)
		assert.Equal(t, tc.want, got, tc.dest)
	}
}

func TestResolverTarget_FromRootIndex(t *testing.T) {
	r := Resolver{Extensions: DefaultExtensions}
	from := PageRef{Slug: "index"}

	got, ok := r.Target("guides/", from)
	assert.True(t, ok)
	assert.Equal(t, "guides", got)

	got, ok = r.Target("guides/index.md", from)
	assert.True(t, ok)
	assert.Equal(t, "guides", got)

	got, ok = r.Target("/", from)
	assert.True(t, ok)
	assert.Equal(t, "index", got)
}
