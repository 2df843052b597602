package commands

import (
	"fmt"
	"io"
	"strings"

	"git.home.luguber.info/inful/docnav/internal/linkcheck"
	"git.home.luguber.info/inful/docnav/internal/nav"
	"git.home.luguber.info/inful/docnav/internal/pipeline"
)

// printTree renders a resolved tree as an indented outline.
func printTree(w io.Writer, nodes []nav.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		switch n := n.(type) {
		case nil:
		case *nav.LinkNode:
			if n == nil {
				continue
			}
			_, _ = fmt.Fprintf(w, "%s- %s (%s)\n", indent, n.Label, n.Slug)
		case *nav.GroupNode:
			if n == nil {
				continue
			}
			suffix := ""
			if n.Collapsed {
				suffix = " [collapsed]"
			}
			_, _ = fmt.Fprintf(w, "%s+ %s%s\n", indent, n.Label, suffix)
			printTree(w, n.Children, depth+1)
		default:
			panic(fmt.Sprintf("unknown navigation node %T", n))
		}
	}
}

// localeName labels an outcome in output.
func localeName(o pipeline.Outcome) string {
	return localeOrDefault(o.Locale)
}

// treeFindings keeps the findings produced while resolving the sidebar.
func treeFindings(report linkcheck.Report) []linkcheck.Finding {
	var out []linkcheck.Finding
	for _, f := range report.Findings {
		if f.Kind == linkcheck.KindMissingSlug || f.Kind == linkcheck.KindDuplicateSlug {
			out = append(out, f)
		}
	}
	return out
}

// exitCodeFor applies the check policy: 2 for error findings, 1 when warnings
// fail the build, otherwise 0.
func exitCodeFor(outcomes []pipeline.Outcome, failOnWarnings bool) int {
	code := 0
	for _, o := range outcomes {
		switch {
		case o.Report.HasErrors():
			return 2
		case failOnWarnings && o.Report.HasWarnings():
			code = 1
		}
	}
	return code
}

// report writes the formatted report of every outcome; skipped outcomes get one line.
func report(w io.Writer, formatter linkcheck.Formatter, outcomes []pipeline.Outcome) error {
	for i, o := range outcomes {
		if o.Skipped {
			_, _ = fmt.Fprintf(w, "Locale %s unchanged since last check\n", localeName(o))
			continue
		}
		if i > 0 {
			if _, ok := formatter.(*linkcheck.TextFormatter); ok {
				_, _ = fmt.Fprintln(w)
			}
		}
		if err := formatter.Format(w, &o.Report, localeName(o)); err != nil {
			return err
		}
	}
	return nil
}
