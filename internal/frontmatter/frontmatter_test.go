package frontmatter

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	doc, err := Split(input)
	require.NoError(t, err)
	require.False(t, doc.Had)
	require.Empty(t, doc.Frontmatter)
	require.Equal(t, input, doc.Body)
	require.Equal(t, 1, doc.BodyLine)
}

func TestSplit_YAMLFrontmatter(t *testing.T) {
	doc, err := Split([]byte("---\ntitle: Intro\nsidebar:\n  order: 2\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, doc.Had)
	require.Equal(t, []byte("title: Intro\nsidebar:\n  order: 2\n"), doc.Frontmatter)
	require.Equal(t, []byte("# Title\n"), doc.Body)
	require.Equal(t, 6, doc.BodyLine)
}

func TestSplit_MissingClosingDelimiter(t *testing.T) {
	_, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.True(t, errors.Is(err, ErrMissingClosingDelimiter))
}

func TestSplit_CRLF(t *testing.T) {
	doc, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.Equal(t, []byte("key: value\r\n"), doc.Frontmatter)
	require.Equal(t, []byte("# Title\r\n"), doc.Body)
	require.Equal(t, 4, doc.BodyLine)
}

func TestSplit_EmptyFrontmatterBlock(t *testing.T) {
	doc, err := Split([]byte("---\n---\n# Title\n"))
	require.NoError(t, err)
	require.True(t, doc.Had)
	require.Empty(t, doc.Frontmatter)
	require.Equal(t, []byte("# Title\n"), doc.Body)
	require.Equal(t, 3, doc.BodyLine)
}

func TestParseYAML(t *testing.T) {
	fields, err := ParseYAML([]byte("title: abc\ntags:\n  - one\n"))
	require.NoError(t, err)
	require.Equal(t, "abc", fields["title"])
	require.Equal(t, []any{"one"}, fields["tags"])

	empty, err := ParseYAML(nil)
	require.NoError(t, err)
	require.Empty(t, empty)

	_, err = ParseYAML([]byte("title: [unclosed"))
	require.Error(t, err)
}

func TestDecodePage(t *testing.T) {
	meta, err := DecodePage([]byte("title: Setup\nsidebar:\n  label: Install\n  order: 3\n  hidden: true\nextra: ignored\n"))
	require.NoError(t, err)
	require.Equal(t, "Setup", meta.Title)
	require.Equal(t, "Install", meta.Sidebar.Label)
	require.NotNil(t, meta.Sidebar.Order)
	require.Equal(t, 3, *meta.Sidebar.Order)
	require.True(t, meta.Sidebar.Hidden)
}

func TestDecodePage_NoOrder(t *testing.T) {
	meta, err := DecodePage([]byte("title: Plain\n"))
	require.NoError(t, err)
	require.Nil(t, meta.Sidebar.Order)
	require.False(t, meta.Sidebar.Hidden)
}

func TestDecodePage_InvalidType(t *testing.T) {
	_, err := DecodePage([]byte("sidebar:\n  order: first\n"))
	require.Error(t, err)
}
