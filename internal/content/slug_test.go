package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugFor(t *testing.T) {
	cases := map[string]string{
		"intro.md":                   "intro",
		"guides/Setup.md":            "guides/setup",
		"guides/Getting Started.mdx": "guides/getting-started",
		"guides/index.md":            "guides",
		"index.md":                   "index",
		"ref/api/index.markdown":     "ref/api",
		"notes.txt":                  "notes.txt",
	}
	for rel, want := range cases {
		assert.Equal(t, want, SlugFor(rel, DefaultExtensions), rel)
	}
}

func TestDirectoryFor(t *testing.T) {
	assert.Equal(t, "", DirectoryFor("intro.md"))
	assert.Equal(t, "guides", DirectoryFor("guides/a.md"))
	assert.Equal(t, "guides", DirectoryFor("guides/index.md"))
	assert.Equal(t, "my-docs/deep", DirectoryFor("My Docs/deep/x.md"))
}
