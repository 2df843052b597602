package nav

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// PageRecord is a discovered content page. Records are immutable once indexed.
type PageRecord struct {
	Slug      string // unique, path-like identifier
	Title     string
	Directory string // slash-separated content directory, "" at the root
	Path      string // source file, relative to the content root

	// Sidebar overrides from frontmatter.
	SidebarLabel string
	Order        *int // explicit position inside an autogenerated directory
	Hidden       bool // excluded from autogenerate expansion

	Fingerprint string
}

// Label returns the text used for the page in navigation.
func (p PageRecord) Label() string {
	if p.SidebarLabel != "" {
		return p.SidebarLabel
	}
	if p.Title != "" {
		return p.Title
	}
	return titleFromSlug(p.Slug)
}

func titleFromSlug(slug string) string {
	last := slug
	if i := strings.LastIndex(slug, "/"); i >= 0 {
		last = slug[i+1:]
	}
	words := strings.NewReplacer("-", " ", "_", " ").Replace(last)
	// Casers are stateful; one per call keeps Label safe across goroutines.
	return cases.Title(language.English).String(words)
}

// before reports whether a sorts ahead of b inside an autogenerated directory:
// pages with an explicit order first (ascending), then everything by slug.
func before(a, b *PageRecord) bool {
	switch {
	case a.Order != nil && b.Order != nil:
		if *a.Order != *b.Order {
			return *a.Order < *b.Order
		}
	case a.Order != nil:
		return true
	case b.Order != nil:
		return false
	}
	return a.Slug < b.Slug
}

// Index is the per-build arena of pages keyed by slug. It is never mutated after
// NewIndex returns, so resolver and validator can share it freely.
type Index struct {
	records []PageRecord
	bySlug  map[string]int
	byDir   map[string][]int
}

// NewIndex builds an index from records. Two records sharing a slug is a structural
// content error.
func NewIndex(records ...PageRecord) (*Index, error) {
	idx := &Index{
		records: make([]PageRecord, 0, len(records)),
		bySlug:  make(map[string]int, len(records)),
		byDir:   make(map[string][]int),
	}
	for _, rec := range records {
		if rec.Slug == "" {
			return nil, errors.ContentError("page has an empty slug").
				Fatal().
				WithContext("path", rec.Path).
				Build()
		}
		if prev, dup := idx.bySlug[rec.Slug]; dup {
			return nil, errors.ContentError("two pages share one slug").
				Fatal().
				WithContext("slug", rec.Slug).
				WithContext("first", idx.records[prev].Path).
				WithContext("second", rec.Path).
				Build()
		}
		pos := len(idx.records)
		idx.records = append(idx.records, rec)
		idx.bySlug[rec.Slug] = pos
		idx.byDir[rec.Directory] = append(idx.byDir[rec.Directory], pos)
	}
	for _, positions := range idx.byDir {
		sort.SliceStable(positions, func(i, j int) bool {
			return before(&idx.records[positions[i]], &idx.records[positions[j]])
		})
	}
	return idx, nil
}

// MustIndex is NewIndex for fixtures; it panics on error.
func MustIndex(records ...PageRecord) *Index {
	idx, err := NewIndex(records...)
	if err != nil {
		panic(err)
	}
	return idx
}

// Lookup returns the page for slug.
func (i *Index) Lookup(slug string) (PageRecord, bool) {
	if i == nil {
		return PageRecord{}, false
	}
	pos, ok := i.bySlug[slug]
	if !ok {
		return PageRecord{}, false
	}
	return i.records[pos], true
}

// Has reports whether slug names an indexed page.
func (i *Index) Has(slug string) bool {
	_, ok := i.Lookup(slug)
	return ok
}

// Len returns the number of pages.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	return len(i.records)
}

// Pages returns all records sorted by slug.
func (i *Index) Pages() []PageRecord {
	if i == nil {
		return nil
	}
	out := make([]PageRecord, len(i.records))
	copy(out, i.records)
	sort.Slice(out, func(a, b int) bool { return out[a].Slug < out[b].Slug })
	return out
}

// InDirectory returns the pages directly inside dir in autogenerate order.
func (i *Index) InDirectory(dir string) []PageRecord {
	if i == nil {
		return nil
	}
	positions := i.byDir[dir]
	out := make([]PageRecord, 0, len(positions))
	for _, pos := range positions {
		out = append(out, i.records[pos])
	}
	return out
}
