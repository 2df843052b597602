package content

import (
	"net/url"
	"path"
	"strings"
)

// Resolver maps link destinations written in a page to the slug they point at.
type Resolver struct {
	Base       string   // site base path, e.g. "/docs"
	Locale     string   // locale prefix stripped from absolute links
	Extensions []string // page extensions
}

// Target returns the slug a destination points to. ok is false for links that do not
// address a page of this site: external URLs, protocol-relative URLs, pure fragments,
// assets and absolute paths outside the base.
//
// Relative links that carry a page extension are file links and resolve against the
// directory of the source file. Other relative links resolve against the rendered
// page URL /slug/.
func (r Resolver) Target(dest string, from PageRef) (string, bool) {
	dest = strings.TrimSpace(dest)
	if dest == "" || strings.HasPrefix(dest, "#") || strings.HasPrefix(dest, "//") || hasScheme(dest) {
		return "", false
	}
	if i := strings.IndexAny(dest, "?#"); i >= 0 {
		dest = dest[:i]
	}
	if dest == "" {
		return "", false
	}
	if unescaped, err := url.PathUnescape(dest); err == nil {
		dest = unescaped
	}

	isPageFile := pageExt(dest, r.Extensions) != ""
	if !isPageFile {
		switch ext := strings.ToLower(linkExt(dest)); ext {
		case "":
		case ".html", ".htm":
			dest = strings.TrimSuffix(dest, path.Ext(dest))
		default:
			return "", false
		}
	}

	var resolved string
	switch {
	case strings.HasPrefix(dest, "/"):
		rest, ok := r.stripPrefixes(path.Clean(dest))
		if !ok {
			return "", false
		}
		resolved = rest
	case isPageFile:
		resolved = path.Join(from.Directory, dest)
	default:
		resolved = path.Join(pageURL(from.Slug), dest)
	}

	return normalizeSlug(trimPageExt(resolved, r.Extensions)), true
}

// stripPrefixes removes the site base and locale from an absolute path.
func (r Resolver) stripPrefixes(p string) (string, bool) {
	if base := strings.Trim(r.Base, "/"); base != "" {
		rest, ok := cutSegment(p, "/"+base)
		if !ok {
			return "", false
		}
		p = rest
	}
	if r.Locale != "" {
		if rest, ok := cutSegment(p, "/"+r.Locale); ok {
			p = rest
		}
	}
	return p, true
}

// cutSegment trims prefix from p when prefix covers whole path segments.
func cutSegment(p, prefix string) (string, bool) {
	if p == prefix {
		return "/", true
	}
	if strings.HasPrefix(p, prefix+"/") {
		return p[len(prefix):], true
	}
	return "", false
}

// pageURL is the URL a page renders at. The root index renders at /.
func pageURL(slug string) string {
	if slug == "index" {
		return "/"
	}
	return "/" + slug + "/"
}

func hasScheme(dest string) bool {
	u, err := url.Parse(dest)
	return err == nil && u.Scheme != ""
}

// linkExt is the extension of the last path segment. The dot segments "." and ".."
// address directories and have none.
func linkExt(dest string) string {
	last := path.Base(strings.TrimSuffix(dest, "/"))
	if last == "." || last == ".." || last == "/" {
		return ""
	}
	return path.Ext(last)
}
