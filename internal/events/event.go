// Package events publishes check results to a message bus for downstream consumers,
// for example a bot that opens issues for broken links.
package events

import (
	"time"

	"git.home.luguber.info/inful/docnav/internal/linkcheck"
)

// RunEvent describes one finished locale check.
type RunEvent struct {
	BuildID   string              `json:"build_id"`
	Locale    string              `json:"locale,omitempty"`
	Site      string              `json:"site,omitempty"`
	Outcome   string              `json:"outcome"`
	Errors    int                 `json:"errors"`
	Warnings  int                 `json:"warnings"`
	Digest    string              `json:"digest,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
	Findings  []linkcheck.Finding `json:"-"`
}

// FindingEvent is published once per error-level finding.
type FindingEvent struct {
	BuildID   string    `json:"build_id"`
	Locale    string    `json:"locale,omitempty"`
	Site      string    `json:"site,omitempty"`
	Timestamp time.Time `json:"timestamp"`

	linkcheck.Finding
}
