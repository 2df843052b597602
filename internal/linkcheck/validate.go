// Package linkcheck validates a resolved navigation tree and the links between pages.
//
// Validation never stops at the first problem: every check runs to completion and the
// Report lists all findings in a deterministic order.
package linkcheck

import (
	"fmt"
	"path"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/nav"
)

// Options tunes a validation pass.
type Options struct {
	// Exclude lists path.Match patterns; links whose target matches are not checked.
	Exclude []string
	// SkipOrphans disables the orphan page warning.
	SkipOrphans bool
	// ReportHidden also warns about hidden pages the navigation never reaches.
	ReportHidden bool
}

// Validate checks tree and links against pages.
//
// Findings are ordered: navigation findings in depth-first order, then broken links in
// input order, then orphan pages by slug.
func Validate(tree nav.Tree, pages *nav.Index, links []ContentLink, opts Options) Report {
	report := Report{
		PagesTotal: pages.Len(),
		LinksTotal: len(links),
		NavTotal:   len(tree.Flatten()),
	}
	report.Findings = append(report.Findings, CheckTree(tree, pages)...)
	report.Findings = append(report.Findings, CheckLinks(pages, links, opts)...)
	if !opts.SkipOrphans {
		report.Findings = append(report.Findings, CheckOrphans(tree, pages, opts)...)
	}
	return report
}

// CheckTree re-checks every navigation link against the page index and reports each
// repeated slug once per later occurrence.
func CheckTree(tree nav.Tree, pages *nav.Index) []Finding {
	var findings []Finding
	seen := make(map[string]struct{})
	tree.Visit(func(n nav.Node, groups []string) bool {
		link, ok := n.(*nav.LinkNode)
		if !ok {
			return true
		}
		if !pages.Has(link.Slug) {
			findings = append(findings, missingSlug(link.Slug, groups))
		}
		if _, dup := seen[link.Slug]; dup {
			findings = append(findings, duplicateSlug(link.Slug, groups))
		} else {
			seen[link.Slug] = struct{}{}
		}
		return true
	})
	return findings
}

// CheckLinks reports every link whose target is not an indexed page.
func CheckLinks(pages *nav.Index, links []ContentLink, opts Options) []Finding {
	var findings []Finding
	for _, l := range links {
		if excluded(l.Target, opts.Exclude) || pages.Has(l.Target) {
			continue
		}
		findings = append(findings, Finding{
			Kind:     KindBrokenLink,
			Severity: SeverityError,
			Source:   l.Source,
			Target:   l.Target,
			Line:     l.Line,
			Message:  fmt.Sprintf("broken link from %s to %s", l.Source, l.Target),
		})
	}
	return findings
}

// CheckOrphans warns about pages the navigation never reaches. Pages marked hidden
// opt out of navigation on purpose and are only reported with opts.ReportHidden.
func CheckOrphans(tree nav.Tree, pages *nav.Index, opts Options) []Finding {
	reached := make(map[string]struct{})
	for _, slug := range tree.Slugs() {
		reached[slug] = struct{}{}
	}
	var findings []Finding
	for _, p := range pages.Pages() {
		if _, ok := reached[p.Slug]; ok || (p.Hidden && !opts.ReportHidden) {
			continue
		}
		findings = append(findings, Finding{
			Kind:     KindOrphanPage,
			Severity: SeverityWarning,
			Slug:     p.Slug,
			Message:  fmt.Sprintf("page %s is not reachable from the navigation", p.Slug),
		})
	}
	return findings
}

// FromResolution converts the problems of a failed resolve into findings, so a build
// whose sidebar does not resolve still gets a complete report.
func FromResolution(rerr *nav.ResolutionError) []Finding {
	if rerr == nil {
		return nil
	}
	findings := make([]Finding, 0, len(rerr.Problems))
	for _, p := range rerr.Problems {
		switch p.Kind {
		case nav.MissingSlug:
			findings = append(findings, missingSlug(p.Slug, p.Path))
		case nav.DuplicateSlug:
			findings = append(findings, duplicateSlug(p.Slug, p.Path))
		default:
			panic(fmt.Sprintf("linkcheck: unhandled problem kind %q", p.Kind))
		}
	}
	return findings
}

func missingSlug(slug string, groups []string) Finding {
	return Finding{
		Kind:     KindMissingSlug,
		Severity: SeverityError,
		Slug:     slug,
		Path:     copyPath(groups),
		Message:  fmt.Sprintf("navigation links to unknown page %s%s", slug, where(groups)),
	}
}

func duplicateSlug(slug string, groups []string) Finding {
	return Finding{
		Kind:     KindDuplicateSlug,
		Severity: SeverityError,
		Slug:     slug,
		Path:     copyPath(groups),
		Message:  fmt.Sprintf("page %s is listed more than once in the navigation%s", slug, where(groups)),
	}
}

func where(groups []string) string {
	if len(groups) == 0 {
		return ""
	}
	return " (under " + strings.Join(groups, " > ") + ")"
}

func copyPath(groups []string) []string {
	if len(groups) == 0 {
		return nil
	}
	return append([]string(nil), groups...)
}

func excluded(target string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := path.Match(pattern, target); err == nil && ok {
			return true
		}
	}
	return false
}
