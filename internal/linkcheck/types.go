package linkcheck

import (
	"fmt"
	"strings"
)

// Severity indicates the importance level of a finding.
type Severity int

const (
	// SeverityWarning marks findings that are reported but don't fail a build by default.
	SeverityWarning Severity = iota + 1
	// SeverityError marks findings that fail the build.
	SeverityError
)

// String returns the human-readable severity name.
func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "WARNING"
	case SeverityError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the severity in lower case for JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

// Kind identifies the rule that produced a finding.
type Kind string

const (
	KindMissingSlug   Kind = "missing-slug"
	KindDuplicateSlug Kind = "duplicate-slug"
	KindBrokenLink    Kind = "broken-link"
	KindOrphanPage    Kind = "orphan-page"
)

// ContentLink is an inter-page link found in a page body.
type ContentLink struct {
	Source      string // slug of the page containing the link
	Target      string // slug the link resolves to
	Destination string // link destination as written
	Line        int    // 1-based line in the source file, 0 if unknown
}

// Finding is a single validation problem.
type Finding struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Slug     string   `json:"slug,omitempty"`
	Source   string   `json:"source,omitempty"`
	Target   string   `json:"target,omitempty"`
	Line     int      `json:"line,omitempty"`
	Path     []string `json:"path,omitempty"` // enclosing sidebar groups
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("%s [%s] %s", f.Severity, f.Kind, f.Message)
}

// Report aggregates the findings of one validation pass.
type Report struct {
	Findings   []Finding
	PagesTotal int // pages in the content index
	LinksTotal int // inter-page links checked
	NavTotal   int // links in the resolved navigation
}

// HasErrors returns true if any error-level findings exist.
func (r *Report) HasErrors() bool {
	return r.ErrorCount() > 0
}

// HasWarnings returns true if any warning-level findings exist.
func (r *Report) HasWarnings() bool {
	return r.WarningCount() > 0
}

// ErrorCount returns the number of error-level findings.
func (r *Report) ErrorCount() int {
	return r.count(SeverityError)
}

// WarningCount returns the number of warning-level findings.
func (r *Report) WarningCount() int {
	return r.count(SeverityWarning)
}

// Failed reports whether the build should fail given the warning policy.
func (r *Report) Failed(failOnWarnings bool) bool {
	return r.HasErrors() || (failOnWarnings && r.HasWarnings())
}

// CountByKind returns the number of findings per kind.
func (r *Report) CountByKind() map[Kind]int {
	out := make(map[Kind]int)
	for _, f := range r.Findings {
		out[f.Kind]++
	}
	return out
}

func (r *Report) count(s Severity) int {
	n := 0
	for _, f := range r.Findings {
		if f.Severity == s {
			n++
		}
	}
	return n
}
