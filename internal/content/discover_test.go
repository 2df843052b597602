package content

import (
	"testing"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/linkcheck"
)

func writeFiles(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for name, body := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(body), 0o644))
	}
	return fs
}

func siteFiles() map[string]string {
	return map[string]string{
		"index.md":          "---\ntitle: Home\n---\nSee [intro](intro.md) and [gone](missing.md).\n",
		"intro.md":          "# Intro\n\n[Guide](/guides/a/)\n\n![img](x.png)\n",
		"guides/a.md":       "---\ntitle: A\nsidebar:\n  order: 1\n---\n[back](../intro.md)\n<a href=\"../b/\">b</a>\n",
		"guides/b.md":       "---\nsidebar:\n  label: Bee\n  hidden: true\n---\nbody\n",
		".hidden/secret.md": "# secret\n",
		"guides/.draft.md":  "# draft\n",
		"notes.txt":         "not a page\n",
	}
}

func TestDiscover(t *testing.T) {
	catalog, err := Discover(writeFiles(t, siteFiles()), Options{})
	require.NoError(t, err)

	var slugs []string
	for _, p := range catalog.Index.Pages() {
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"guides/a", "guides/b", "index", "intro"}, slugs)

	a, ok := catalog.Index.Lookup("guides/a")
	require.True(t, ok)
	assert.Equal(t, "A", a.Title)
	assert.Equal(t, "guides", a.Directory)
	assert.Equal(t, "guides/a.md", a.Path)
	require.NotNil(t, a.Order)
	assert.Equal(t, 1, *a.Order)
	assert.NotEmpty(t, a.Fingerprint)

	b, _ := catalog.Index.Lookup("guides/b")
	assert.Equal(t, "Bee", b.Label())
	assert.True(t, b.Hidden)

	assert.Equal(t, []linkcheck.ContentLink{
		{Source: "guides/a", Target: "intro", Destination: "../intro.md", Line: 6},
		{Source: "guides/a", Target: "guides/b", Destination: "../b/", Line: 7},
		{Source: "index", Target: "intro", Destination: "intro.md", Line: 4},
		{Source: "index", Target: "missing", Destination: "missing.md", Line: 4},
		{Source: "intro", Target: "guides/a", Destination: "/guides/a/", Line: 3},
	}, catalog.Links)
}

func TestDiscover_DigestTracksContent(t *testing.T) {
	files := siteFiles()
	first, err := Discover(writeFiles(t, files), Options{})
	require.NoError(t, err)
	again, err := Discover(writeFiles(t, files), Options{})
	require.NoError(t, err)
	assert.Equal(t, first.Digest, again.Digest)

	files["intro.md"] += "more text\n"
	changed, err := Discover(writeFiles(t, files), Options{})
	require.NoError(t, err)
	assert.NotEqual(t, first.Digest, changed.Digest)
}

func TestDiscover_LocaleRoot(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"en/index.md":    "[a](/docs/en/guides/a/)\n",
		"en/guides/a.md": "# a\n",
		"de/index.md":    "# de\n",
	})

	catalog, err := Discover(fs, Options{Root: "en", Base: "/docs", Locale: "en"})
	require.NoError(t, err)
	assert.Equal(t, 2, catalog.Index.Len())
	require.Len(t, catalog.Links, 1)
	assert.Equal(t, "guides/a", catalog.Links[0].Target)
	assert.True(t, catalog.Index.Has("guides/a"))
}

func TestDiscover_SlugCollisionIsContentError(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"guide.md":        "# one\n",
		"guide/index.mdx": "# two\n",
	})

	_, err := Discover(fs, Options{})
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryContent))
}

func TestDiscover_InvalidFrontmatter(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"broken.md": "---\ntitle: [unclosed\n---\nbody\n",
	})

	_, err := Discover(fs, Options{})
	require.Error(t, err)
	ce, ok := derrors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, derrors.CategoryContent, ce.Category())
	assert.Equal(t, "broken.md", ce.Context()["path"])
}

func TestDiscover_MissingRoot(t *testing.T) {
	_, err := Discover(memfs.New(), Options{Root: "nope"})
	require.Error(t, err)
	assert.True(t, derrors.HasCategory(err, derrors.CategoryNotFound))
}

func TestDiscover_CustomExtensions(t *testing.T) {
	fs := writeFiles(t, map[string]string{
		"a.md":  "# a\n",
		"b.txt": "# b\n",
	})
	catalog, err := Discover(fs, Options{Extensions: []string{".txt"}})
	require.NoError(t, err)
	assert.True(t, catalog.Index.Has("b"))
	assert.False(t, catalog.Index.Has("a"))
}
