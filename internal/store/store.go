// Package store keeps the history of navigation checks in SQLite.
package store

import (
	"time"

	"git.home.luguber.info/inful/docnav/internal/linkcheck"
)

// Run is one locale's check within a build.
type Run struct {
	BuildID   string
	Locale    string
	StartedAt time.Time
	Duration  time.Duration
	Digest    string
	Outcome   string
	Pages     int
	Links     int
	Errors    int
	Warnings  int
	Findings  []linkcheck.Finding // only populated on Record
}
