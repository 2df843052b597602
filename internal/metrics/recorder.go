package metrics

import "time"

// Outcome enumerates the final status of a run.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeWarning Outcome = "warning"
	OutcomeFailed  Outcome = "failed"
)

// Stage names used for stage duration metrics.
const (
	StageDiscover = "discover"
	StageResolve  = "resolve"
	StageValidate = "validate"
	StageStore    = "store"
	StagePublish  = "publish"
)

// Recorder defines observability hooks for pipeline runs.
type Recorder interface {
	ObserveStageDuration(locale, stage string, d time.Duration)
	ObserveRunDuration(locale string, d time.Duration)
	SetPages(locale string, n int)
	SetLinks(locale string, n int)
	SetFindings(locale, kind string, n int)
	IncRunOutcome(locale string, outcome Outcome)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveStageDuration(string, string, time.Duration) {}
func (NoopRecorder) ObserveRunDuration(string, time.Duration)           {}
func (NoopRecorder) SetPages(string, int)                               {}
func (NoopRecorder) SetLinks(string, int)                               {}
func (NoopRecorder) SetFindings(string, string, int)                    {}
func (NoopRecorder) IncRunOutcome(string, Outcome)                      {}
