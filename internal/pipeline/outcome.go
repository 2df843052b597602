package pipeline

import (
	"time"

	"git.home.luguber.info/inful/docnav/internal/linkcheck"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/nav"
)

// Outcome is the result of checking one locale.
type Outcome struct {
	BuildID  string
	Locale   string
	Index    *nav.Index
	Tree     nav.Tree
	Resolved bool // false when the sidebar had missing or duplicate slugs
	Report   linkcheck.Report
	Digest   string
	// Skipped is set when content and configuration were unchanged since the previous
	// run of the same Runner; only BuildID, Locale and Digest are filled in.
	Skipped  bool
	Started  time.Time
	Duration time.Duration
	Stages   map[string]time.Duration
}

// Status classifies the outcome for metrics and history.
func (o Outcome) Status(failOnWarnings bool) metrics.Outcome {
	switch {
	case o.Report.Failed(failOnWarnings):
		return metrics.OutcomeFailed
	case o.Report.HasWarnings():
		return metrics.OutcomeWarning
	default:
		return metrics.OutcomeSuccess
	}
}

// Failed reports whether any outcome fails the build under the warning policy.
func Failed(outcomes []Outcome, failOnWarnings bool) bool {
	for _, o := range outcomes {
		if o.Report.Failed(failOnWarnings) {
			return true
		}
	}
	return false
}
