// Package content discovers documentation pages on a billy filesystem and extracts the
// links between them.
package content

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/inful/mdfp"

	derrors "git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/frontmatter"
	"git.home.luguber.info/inful/docnav/internal/linkcheck"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/markdown"
	"git.home.luguber.info/inful/docnav/internal/nav"
)

// Options controls discovery.
type Options struct {
	Root       string   // directory inside the filesystem, "." when empty
	Extensions []string // page extensions, DefaultExtensions when empty
	Base       string   // site base path stripped from absolute links
	Locale     string   // locale prefix stripped from absolute links
}

// Catalog is the result of one discovery pass.
type Catalog struct {
	Index *nav.Index
	Links []linkcheck.ContentLink
	// Digest changes whenever any page's path, frontmatter or body changes.
	Digest string
}

type discovered struct {
	record nav.PageRecord
	links  []markdown.Link
	offset int
}

// Discover walks opts.Root and builds the page index and the inter-page link list.
// Hidden files and directories are skipped. Links are ordered by source slug, then by
// their position in the page.
func Discover(fsys billy.Filesystem, opts Options) (*Catalog, error) {
	root := opts.Root
	if root == "" {
		root = "."
	}
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	var pages []discovered
	err := util.Walk(fsys, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if p != root && strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() || pageExt(info.Name(), exts) == "" {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		page, err := readPage(fsys, p, filepath.ToSlash(rel), exts)
		if err != nil {
			return err
		}
		pages = append(pages, page)
		return nil
	})
	if err != nil {
		if _, ok := derrors.AsClassified(err); ok {
			return nil, err
		}
		if errors.Is(err, fs.ErrNotExist) {
			return nil, derrors.WrapError(err, derrors.CategoryNotFound, "content directory not found").
				WithContext("root", root).
				UserAction().
				Build()
		}
		return nil, derrors.FileSystemError(err, "walk content directory").
			WithContext("root", root).
			Build()
	}

	records := make([]nav.PageRecord, len(pages))
	for i, p := range pages {
		records[i] = p.record
	}
	index, err := nav.NewIndex(records...)
	if err != nil {
		return nil, err
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].record.Slug < pages[j].record.Slug })
	resolver := Resolver{Base: opts.Base, Locale: opts.Locale, Extensions: exts}
	var links []linkcheck.ContentLink
	for _, p := range pages {
		from := PageRef{Slug: p.record.Slug, Directory: p.record.Directory}
		for _, l := range p.links {
			if !l.Navigational() {
				continue
			}
			target, ok := resolver.Target(l.Destination, from)
			if !ok {
				continue
			}
			line := 0
			if l.Line > 0 {
				line = l.Line + p.offset
			}
			links = append(links, linkcheck.ContentLink{
				Source:      p.record.Slug,
				Target:      target,
				Destination: l.Destination,
				Line:        line,
			})
		}
	}

	slog.Debug("Content discovered",
		logfields.Path(root),
		logfields.Count(index.Len()),
		slog.Int("links", len(links)))

	return &Catalog{Index: index, Links: links, Digest: digest(pages)}, nil
}

// PageRef identifies the page a link was written in.
type PageRef struct {
	Slug      string
	Directory string
}

func readPage(fsys billy.Filesystem, p, rel string, exts []string) (discovered, error) {
	raw, err := util.ReadFile(fsys, p)
	if err != nil {
		return discovered{}, derrors.FileSystemError(err, "read page").
			WithContext("path", rel).
			Build()
	}
	doc, err := frontmatter.Split(raw)
	if err != nil {
		return discovered{}, pageError(err, rel, "invalid frontmatter")
	}
	meta, err := frontmatter.DecodePage(doc.Frontmatter)
	if err != nil {
		return discovered{}, pageError(err, rel, "invalid frontmatter")
	}
	links, err := markdown.ExtractLinks(doc.Body)
	if err != nil {
		return discovered{}, pageError(err, rel, "parse markdown")
	}

	return discovered{
		record: nav.PageRecord{
			Slug:         SlugFor(rel, exts),
			Title:        meta.Title,
			Directory:    DirectoryFor(rel),
			Path:         rel,
			SidebarLabel: meta.Sidebar.Label,
			Order:        meta.Sidebar.Order,
			Hidden:       meta.Sidebar.Hidden,
			Fingerprint:  mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(doc.Frontmatter), "\n"), string(doc.Body)),
		},
		links:  links,
		offset: doc.BodyLine - 1,
	}, nil
}

func pageError(err error, rel, msg string) error {
	return derrors.WrapError(err, derrors.CategoryContent, msg).
		WithContext("path", rel).
		Build()
}

// digest folds every page fingerprint into one, keyed by path so renames count as changes.
func digest(pages []discovered) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = p.record.Path + " " + p.record.Fingerprint
	}
	sort.Strings(parts)
	return mdfp.CalculateFingerprintFromParts("", strings.Join(parts, "\n"))
}
