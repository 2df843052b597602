package content

import (
	"path"
	"strings"
)

// DefaultExtensions are the file extensions treated as pages when none are configured.
var DefaultExtensions = []string{".md", ".mdx", ".markdown"}

// SlugFor derives the slug of a page from its slash-separated path relative to the
// content root: extension dropped, lower-cased, spaces turned into dashes, and a
// trailing /index collapsed onto its directory. The root index keeps the slug "index".
func SlugFor(rel string, exts []string) string {
	rel = strings.Trim(path.Clean("/"+rel), "/")
	rel = trimPageExt(rel, exts)
	return normalizeSlug(rel)
}

// DirectoryFor returns the slash-separated parent directory of rel, "" at the root,
// normalised like a slug prefix.
func DirectoryFor(rel string) string {
	dir := path.Dir(strings.Trim(path.Clean("/"+rel), "/"))
	if dir == "." {
		return ""
	}
	return strings.ReplaceAll(strings.ToLower(dir), " ", "-")
}

func normalizeSlug(s string) string {
	s = strings.ToLower(strings.Trim(s, "/"))
	s = strings.ReplaceAll(s, " ", "-")
	if s == "" || s == "index" {
		return "index"
	}
	return strings.TrimSuffix(s, "/index")
}

func trimPageExt(p string, exts []string) string {
	if ext := pageExt(p, exts); ext != "" {
		return p[:len(p)-len(ext)]
	}
	return p
}

// pageExt returns the extension of p when it is a page extension, matched case-insensitively.
func pageExt(p string, exts []string) string {
	ext := path.Ext(p)
	if ext == "" {
		return ""
	}
	for _, e := range exts {
		if strings.EqualFold(ext, e) {
			return ext
		}
	}
	return ""
}
