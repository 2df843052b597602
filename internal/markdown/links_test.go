package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractLinks_InlineLink(t *testing.T) {
	links, err := ExtractLinks([]byte("See [API](api.md) for details."))
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "api.md", links[0].Destination)
	require.Equal(t, 1, links[0].Line)
	require.True(t, links[0].Navigational())
}

func TestExtractLinks_ImageLink(t *testing.T) {
	links, err := ExtractLinks([]byte("![Diagram](diagram.png)"))
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, LinkKindImage, links[0].Kind)
	require.Equal(t, "diagram.png", links[0].Destination)
	require.False(t, links[0].Navigational())
}

func TestExtractLinks_AutoLink(t *testing.T) {
	links, err := ExtractLinks([]byte("<https://example.com/path>"))
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, LinkKindAuto, links[0].Kind)
	require.Equal(t, "https://example.com/path", links[0].Destination)
}

func TestExtractLinks_ReferenceLinkUsageAndDefinition(t *testing.T) {
	links, err := ExtractLinks([]byte("See [API][ref].\n\n[ref]: api.md\n"))
	require.NoError(t, err)

	require.Len(t, links, 2)
	require.Equal(t, LinkKindInline, links[0].Kind)
	require.Equal(t, "api.md", links[0].Destination)
	require.Equal(t, LinkKindReferenceDefinition, links[1].Kind)
	require.Equal(t, "api.md", links[1].Destination)
	require.Equal(t, 3, links[1].Line)
}

func TestExtractLinks_SkipsInlineCodeAndCodeBlocks(t *testing.T) {
	src := []byte("" +
		"Inline code: `[Link](./ignored-inline.md)`\n" +
		"\n" +
		"```\n" +
		"[Link](./ignored-fence.md)\n" +
		"```\n" +
		"\n" +
		"Real: [OK](./real.md)\n")

	links, err := ExtractLinks(src)
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, "./real.md", links[0].Destination)
	require.Equal(t, 7, links[0].Line)
}

func TestExtractLinks_LineNumbersInParagraph(t *testing.T) {
	src := []byte("# Heading\n\nfirst line\nsecond [b](b.md) line\nthird [c](c.md)\n")

	links, err := ExtractLinks(src)
	require.NoError(t, err)
	require.Len(t, links, 2)
	require.Equal(t, 4, links[0].Line)
	require.Equal(t, 5, links[1].Line)
}

func TestExtractLinks_HTMLBlock(t *testing.T) {
	src := []byte("intro\n\n<div class=\"cards\">\n  <a href=\"/guides/setup/\">Setup</a>\n  <img src=\"logo.svg\">\n</div>\n")

	links, err := ExtractLinks(src)
	require.NoError(t, err)
	require.Len(t, links, 2)
	require.Equal(t, Link{Kind: LinkKindHTML, Destination: "/guides/setup/", Line: 4}, links[0])
	require.Equal(t, LinkKindImage, links[1].Kind)
	require.Equal(t, 5, links[1].Line)
}

func TestExtractLinks_InlineHTML(t *testing.T) {
	links, err := ExtractLinks([]byte("Go <a href=\"../other/\">there</a> now.\n"))
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, LinkKindHTML, links[0].Kind)
	require.Equal(t, "../other/", links[0].Destination)
	require.Equal(t, 1, links[0].Line)
}

func TestExtractLinks_AnchorWithoutHref(t *testing.T) {
	links, err := ExtractLinks([]byte("<a name=\"top\"></a>\n"))
	require.NoError(t, err)
	require.Empty(t, links)
}

func TestExtractLinks_InlineHTMLAcrossLines(t *testing.T) {
	links, err := ExtractLinks([]byte("Go <a\nhref=\"/guides/\">there</a> now.\n"))
	require.NoError(t, err)
	require.Len(t, links, 1)
	require.Equal(t, LinkKindHTML, links[0].Kind)
	require.Equal(t, "/guides/", links[0].Destination)
}
