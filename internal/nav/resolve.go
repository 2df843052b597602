package nav

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/foundation"
)

// ProblemKind classifies a recoverable resolution problem.
type ProblemKind string

const (
	MissingSlug   ProblemKind = "missing-slug"
	DuplicateSlug ProblemKind = "duplicate-slug"
)

// Problem is one recoverable resolution finding.
type Problem struct {
	Kind ProblemKind
	Slug string
	Path []string // labels of the enclosing groups
}

func (p Problem) String() string {
	where := "top level"
	if len(p.Path) > 0 {
		where = strings.Join(p.Path, " > ")
	}
	switch p.Kind {
	case MissingSlug:
		return fmt.Sprintf("sidebar links to unknown page %q (%s)", p.Slug, where)
	case DuplicateSlug:
		return fmt.Sprintf("page %q appears more than once in the sidebar (%s)", p.Slug, where)
	default:
		return fmt.Sprintf("%s: %q (%s)", p.Kind, p.Slug, where)
	}
}

// ResolutionError carries every problem found by one Resolve pass.
type ResolutionError struct {
	Problems []Problem
}

func (e *ResolutionError) Error() string {
	if len(e.Problems) == 1 {
		return "navigation resolution failed: " + e.Problems[0].String()
	}
	msgs := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		msgs[i] = p.String()
	}
	return fmt.Sprintf("navigation resolution failed with %d problems: %s", len(e.Problems), strings.Join(msgs, "; "))
}

// Resolve turns the declarative sidebar into a resolved tree.
//
// A structurally malformed sidebar fails immediately with a navigation error. Otherwise
// every missing and duplicated slug is collected and returned together as a
// *ResolutionError; a successful result carries the tree and nothing else.
func Resolve(sidebar []Entry, pages *Index) foundation.Result[Tree, error] {
	if err := CheckSchema(sidebar); err != nil {
		return foundation.Err[Tree, error](err)
	}

	r := &resolver{pages: pages}
	tree := Tree{Nodes: r.resolveEntries(sidebar, nil)}
	r.checkDuplicates(tree)

	if len(r.problems) > 0 {
		return foundation.Err[Tree, error](&ResolutionError{Problems: r.problems})
	}
	return foundation.Ok[Tree, error](tree)
}

type resolver struct {
	pages    *Index
	problems []Problem
}

func (r *resolver) report(kind ProblemKind, slug string, path []string) {
	r.problems = append(r.problems, Problem{
		Kind: kind,
		Slug: slug,
		Path: append([]string(nil), path...),
	})
}

func (r *resolver) resolveEntries(entries []Entry, path []string) []Node {
	nodes := make([]Node, 0, len(entries))
	for _, entry := range entries {
		switch e := entry.(type) {
		case *LinkEntry:
			slug := CleanSlug(e.Slug)
			page, ok := r.pages.Lookup(slug)
			if !ok {
				r.report(MissingSlug, slug, path)
				continue
			}
			label := e.Label
			if label == "" {
				label = page.Label()
			}
			nodes = append(nodes, &LinkNode{Label: label, Slug: slug})
		case *GroupEntry:
			inner := append(append(make([]string, 0, len(path)+1), path...), e.Label)
			nodes = append(nodes, &GroupNode{
				Label:     e.Label,
				Collapsed: e.Collapsed,
				Children:  r.resolveEntries(e.Items, inner),
			})
		case *AutogenerateEntry:
			for _, page := range r.pages.InDirectory(CleanDirectory(e.Directory)) {
				if page.Hidden {
					continue
				}
				nodes = append(nodes, &LinkNode{Label: page.Label(), Slug: page.Slug})
			}
		default:
			// CheckSchema has already rejected anything else.
			panic(fmt.Sprintf("nav: unhandled entry type %T", entry))
		}
	}
	return nodes
}

func (r *resolver) checkDuplicates(tree Tree) {
	seen := make(map[string]struct{})
	tree.Visit(func(n Node, path []string) bool {
		link, ok := n.(*LinkNode)
		if !ok {
			return true
		}
		if _, dup := seen[link.Slug]; dup {
			r.report(DuplicateSlug, link.Slug, path)
			return true
		}
		seen[link.Slug] = struct{}{}
		return true
	})
}
