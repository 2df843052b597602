package nav

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
)

// Entry is one node of the declarative sidebar. The set of variants is closed:
// LinkEntry, GroupEntry and AutogenerateEntry.
type Entry interface {
	isEntry()
}

// LinkEntry points at a single page. An empty Label takes the page's own label.
type LinkEntry struct {
	Label string
	Slug  string
}

// GroupEntry is a labelled, ordered list of child entries.
type GroupEntry struct {
	Label     string
	Collapsed bool
	Items     []Entry
}

// AutogenerateEntry expands to one link per page directly inside Directory.
type AutogenerateEntry struct {
	Directory string
}

func (*LinkEntry) isEntry()         {}
func (*GroupEntry) isEntry()        {}
func (*AutogenerateEntry) isEntry() {}

// Link, Group and Autogenerate are shorthand constructors for sidebar literals.
func Link(label, slug string) *LinkEntry { return &LinkEntry{Label: label, Slug: slug} }

func Group(label string, items ...Entry) *GroupEntry {
	return &GroupEntry{Label: label, Items: items}
}

func Autogenerate(directory string) *AutogenerateEntry {
	return &AutogenerateEntry{Directory: directory}
}

// CleanSlug trims surrounding slashes and whitespace from an authored slug.
func CleanSlug(slug string) string {
	return strings.Trim(strings.TrimSpace(slug), "/")
}

// CleanDirectory normalises an autogenerate directory; "." and "/" mean the content root.
func CleanDirectory(dir string) string {
	d := strings.Trim(strings.TrimSpace(dir), "/")
	if d == "." {
		return ""
	}
	return d
}

// CheckSchema rejects structurally malformed sidebars. It stops at the first problem:
// a malformed sidebar cannot be resolved meaningfully.
func CheckSchema(sidebar []Entry) error {
	return checkEntries(sidebar, nil)
}

func checkEntries(entries []Entry, path []string) error {
	for i, entry := range entries {
		where := entryPath(path, i)
		switch e := entry.(type) {
		case *LinkEntry:
			if e == nil || CleanSlug(e.Slug) == "" {
				return malformed("link entry has no slug", where)
			}
		case *GroupEntry:
			if e == nil || strings.TrimSpace(e.Label) == "" {
				return malformed("group entry has no label", where)
			}
			if err := checkEntries(e.Items, append(path, e.Label)); err != nil {
				return err
			}
		case *AutogenerateEntry:
			if e == nil || strings.TrimSpace(e.Directory) == "" {
				return malformed("autogenerate entry has no directory", where)
			}
		case nil:
			return malformed("sidebar entry is empty", where)
		default:
			return malformed(fmt.Sprintf("unsupported sidebar entry %T", entry), where)
		}
	}
	return nil
}

func entryPath(path []string, index int) string {
	return strings.Join(append(append([]string{}, path...), fmt.Sprintf("#%d", index+1)), " > ")
}

func malformed(msg, where string) error {
	return errors.NavigationError(msg).WithContext("entry", where).Build()
}
