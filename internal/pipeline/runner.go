// Package pipeline runs discovery, resolution and validation for every configured
// locale and fans the results out to metrics, history and the event bus.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/content"
	"git.home.luguber.info/inful/docnav/internal/events"
	"git.home.luguber.info/inful/docnav/internal/linkcheck"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/nav"
	"git.home.luguber.info/inful/docnav/internal/store"
)

// History records finished runs. *store.SQLiteStore implements it.
type History interface {
	Record(ctx context.Context, run store.Run) error
}

// Runner executes checks. It is safe to call Run repeatedly, for example from watch mode.
type Runner struct {
	cfg       *config.Config
	fs        billy.Filesystem
	recorder  metrics.Recorder
	history   History
	publisher events.Publisher
	locales   []string
	skip      bool
	newID     func() string
	now       func() time.Time

	mu      sync.Mutex
	digests map[string]string
}

// Option configures a Runner.
type Option func(*Runner)

// WithFilesystem replaces the content filesystem (default: osfs rooted at content.dir).
func WithFilesystem(fs billy.Filesystem) Option {
	return func(r *Runner) { r.fs = fs }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(rec metrics.Recorder) Option {
	return func(r *Runner) { r.recorder = rec }
}

// WithHistory records every run.
func WithHistory(h History) Option {
	return func(r *Runner) { r.history = h }
}

// WithPublisher publishes every run.
func WithPublisher(p events.Publisher) Option {
	return func(r *Runner) { r.publisher = p }
}

// WithLocales restricts the run to the given locale codes.
func WithLocales(codes ...string) Option {
	return func(r *Runner) { r.locales = codes }
}

// WithSkipUnchanged skips resolution and validation of a locale whose content digest
// matches the previous run of this Runner.
func WithSkipUnchanged() Option {
	return func(r *Runner) { r.skip = true }
}

// New creates a Runner for cfg.
func New(cfg *config.Config, opts ...Option) *Runner {
	r := &Runner{
		cfg:       cfg,
		recorder:  metrics.NoopRecorder{},
		publisher: events.NoopPublisher{},
		newID:     uuid.NewString,
		now:       time.Now,
		digests:   make(map[string]string),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.fs == nil {
		r.fs = osfs.New(cfg.Content.Dir)
	}
	return r
}

// target is one locale to check; code is "" for a site without locales.
type target struct {
	code string
	dir  string
}

func (r *Runner) targets() ([]target, error) {
	if len(r.cfg.Locales) == 0 {
		if len(r.locales) > 0 {
			return nil, unknownLocale(r.locales[0])
		}
		return []target{{dir: "."}}, nil
	}
	want := make(map[string]bool, len(r.locales))
	for _, code := range r.locales {
		want[code] = true
	}
	known := make(map[string]bool, len(r.cfg.Locales))
	var out []target
	for _, l := range r.cfg.Locales {
		known[l.Code] = true
		if len(want) > 0 && !want[l.Code] {
			continue
		}
		out = append(out, target{code: l.Code, dir: l.LocaleDir()})
	}
	for _, code := range r.locales {
		if !known[code] {
			return nil, unknownLocale(code)
		}
	}
	return out, nil
}

// Invalidate forgets previous digests so the next Run checks every locale.
func (r *Runner) Invalidate() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.digests = make(map[string]string)
}

// Run checks every selected locale concurrently. Outcomes are returned in locale
// declaration order. Findings never produce an error; only fatal problems do
// (unreadable content, malformed sidebar, cancellation).
func (r *Runner) Run(ctx context.Context) ([]Outcome, error) {
	targets, err := r.targets()
	if err != nil {
		return nil, err
	}

	buildID := r.newID()
	outcomes := make([]Outcome, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range targets {
		g.Go(func() error {
			o, err := r.runLocale(gctx, buildID, t)
			if err != nil {
				return err
			}
			outcomes[i] = o
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (r *Runner) runLocale(ctx context.Context, buildID string, t target) (Outcome, error) {
	log := slog.With(logfields.BuildID(buildID), logfields.Locale(t.code))
	out := Outcome{BuildID: buildID, Locale: t.code, Started: r.now(), Stages: make(map[string]time.Duration)}

	stage := func(name string, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		start := time.Now()
		err := fn()
		d := time.Since(start)
		out.Stages[name] = d
		r.recorder.ObserveStageDuration(t.code, name, d)
		log.Debug("Stage finished", logfields.Stage(name), logfields.DurationMS(float64(d.Microseconds())/1000))
		return err
	}

	var catalog *content.Catalog
	if err := stage(metrics.StageDiscover, func() error {
		var err error
		catalog, err = content.Discover(r.fs, content.Options{
			Root:       t.dir,
			Extensions: r.cfg.Content.Extensions,
			Base:       r.cfg.Site.Base,
			Locale:     t.code,
		})
		return err
	}); err != nil {
		return Outcome{}, err
	}
	out.Index = catalog.Index
	out.Digest = catalog.Digest

	if r.skip && r.unchanged(t.code, catalog.Digest) {
		log.Info("Content unchanged, skipping check")
		return Outcome{BuildID: buildID, Locale: t.code, Digest: catalog.Digest, Skipped: true}, nil
	}

	var resolutionErr *nav.ResolutionError
	if err := stage(metrics.StageResolve, func() error {
		res := nav.Resolve(r.cfg.Sidebar, catalog.Index)
		if res.IsOk() {
			out.Tree, out.Resolved = res.Unwrap(), true
			return nil
		}
		err := res.UnwrapErr()
		if errors.As(err, &resolutionErr) {
			return nil
		}
		return err
	}); err != nil {
		return Outcome{}, err
	}

	opts := linkcheck.Options{
		Exclude:      r.cfg.Validation.Exclude,
		SkipOrphans:  r.cfg.Validation.SkipOrphans,
		ReportHidden: r.cfg.Validation.ReportHidden,
	}
	_ = stage(metrics.StageValidate, func() error {
		if out.Resolved {
			out.Report = linkcheck.Validate(out.Tree, catalog.Index, catalog.Links, opts)
			return nil
		}
		// Without a tree there is nothing to measure reachability against.
		out.Report = linkcheck.Report{
			PagesTotal: catalog.Index.Len(),
			LinksTotal: len(catalog.Links),
			Findings:   append(linkcheck.FromResolution(resolutionErr), linkcheck.CheckLinks(catalog.Index, catalog.Links, opts)...),
		}
		return nil
	})
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	out.Duration = time.Since(out.Started)

	status := out.Status(r.cfg.Validation.FailOnWarnings)
	r.observe(t.code, out, status)

	if r.history != nil {
		_ = stage(metrics.StageStore, func() error {
			err := r.history.Record(ctx, r.historyRun(out, status))
			if err != nil {
				log.Warn("Failed to record run history", logfields.Error(err))
			}
			return nil
		})
	}
	_ = stage(metrics.StagePublish, func() error {
		err := r.publisher.PublishRun(ctx, events.RunEvent{
			BuildID:  buildID,
			Locale:   t.code,
			Site:     r.cfg.Site.Title,
			Outcome:  string(status),
			Errors:   out.Report.ErrorCount(),
			Warnings: out.Report.WarningCount(),
			Digest:   out.Digest,
			Findings: out.Report.Findings,
		})
		if err != nil {
			log.Warn("Failed to publish run events", logfields.Error(err))
		}
		return nil
	})

	r.remember(t.code, catalog.Digest)
	log.Info("Navigation checked",
		slog.String("outcome", string(status)),
		logfields.Count(len(out.Report.Findings)),
		slog.Int("pages", out.Report.PagesTotal),
		logfields.DurationMS(float64(out.Duration.Microseconds())/1000))
	return out, nil
}

func (r *Runner) observe(locale string, out Outcome, status metrics.Outcome) {
	r.recorder.ObserveRunDuration(locale, out.Duration)
	r.recorder.SetPages(locale, out.Report.PagesTotal)
	r.recorder.SetLinks(locale, out.Report.LinksTotal)
	counts := out.Report.CountByKind()
	for _, kind := range []linkcheck.Kind{
		linkcheck.KindMissingSlug,
		linkcheck.KindDuplicateSlug,
		linkcheck.KindBrokenLink,
		linkcheck.KindOrphanPage,
	} {
		r.recorder.SetFindings(locale, string(kind), counts[kind])
	}
	r.recorder.IncRunOutcome(locale, status)
}

func (r *Runner) historyRun(out Outcome, status metrics.Outcome) store.Run {
	return store.Run{
		BuildID:   out.BuildID,
		Locale:    out.Locale,
		StartedAt: out.Started,
		Duration:  out.Duration,
		Digest:    out.Digest,
		Outcome:   string(status),
		Pages:     out.Report.PagesTotal,
		Links:     out.Report.LinksTotal,
		Errors:    out.Report.ErrorCount(),
		Warnings:  out.Report.WarningCount(),
		Findings:  out.Report.Findings,
	}
}

func (r *Runner) unchanged(locale, digest string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, ok := r.digests[locale]
	return ok && prev == digest
}

func (r *Runner) remember(locale, digest string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.digests[locale] = digest
}
