// Package watch re-runs checks when content or configuration changes, and optionally
// on a fixed interval.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/logfields"
)

// Reason is a bit set describing why a re-run was triggered.
type Reason uint8

const (
	ReasonContent Reason = 1 << iota
	ReasonConfig
	ReasonInterval
)

func (r Reason) Has(flag Reason) bool { return r&flag != 0 }

func (r Reason) String() string {
	var parts []string
	if r.Has(ReasonContent) {
		parts = append(parts, "content")
	}
	if r.Has(ReasonConfig) {
		parts = append(parts, "config")
	}
	if r.Has(ReasonInterval) {
		parts = append(parts, "interval")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// Handler is invoked after changes settle. Calls never overlap.
type Handler func(ctx context.Context, reason Reason)

// Options configures a Watcher.
type Options struct {
	ConfigPath string
	ContentDir string
	Debounce   time.Duration
	Interval   time.Duration // 0 disables the periodic re-check
}

// Watcher monitors the config file and the content tree.
type Watcher struct {
	opts      Options
	handler   Handler
	fsw       *fsnotify.Watcher
	scheduler gocron.Scheduler
	ticks     chan struct{}

	mu      sync.Mutex
	pending Reason
}

// New creates a watcher; nothing is watched until Run.
func New(opts Options, handler Handler) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "create file watcher").Build()
	}
	configPath, err := filepath.Abs(opts.ConfigPath)
	if err != nil {
		_ = fsw.Close()
		return nil, errors.FileSystemError(err, "resolve config path").Build()
	}
	contentDir, err := filepath.Abs(opts.ContentDir)
	if err != nil {
		_ = fsw.Close()
		return nil, errors.FileSystemError(err, "resolve content directory").Build()
	}
	opts.ConfigPath, opts.ContentDir = configPath, contentDir
	if opts.Debounce <= 0 {
		opts.Debounce = 500 * time.Millisecond
	}

	w := &Watcher{opts: opts, handler: handler, fsw: fsw, ticks: make(chan struct{}, 1)}
	if opts.Interval > 0 {
		s, err := gocron.NewScheduler()
		if err != nil {
			_ = fsw.Close()
			return nil, errors.WrapError(err, errors.CategoryRuntime, "create scheduler").Build()
		}
		if _, err := s.NewJob(
			gocron.DurationJob(opts.Interval),
			gocron.NewTask(w.tick),
			gocron.WithName("docnav-recheck"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		); err != nil {
			_ = fsw.Close()
			_ = s.Shutdown()
			return nil, errors.WrapError(err, errors.CategoryRuntime, "schedule periodic re-check").Build()
		}
		w.scheduler = s
	}
	return w, nil
}

// Run watches until ctx is done. The config file's directory is watched rather than
// the file itself so editors that replace the file on save are still noticed.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	if err := w.fsw.Add(filepath.Dir(w.opts.ConfigPath)); err != nil {
		return errors.FileSystemError(err, "watch config directory").
			WithContext("path", w.opts.ConfigPath).
			Build()
	}
	if err := w.addTree(w.opts.ContentDir); err != nil {
		return err
	}
	if w.scheduler != nil {
		w.scheduler.Start()
		defer func() { _ = w.scheduler.Shutdown() }()
	}
	slog.Info("Watching for changes",
		logfields.Path(w.opts.ContentDir),
		slog.String("config", w.opts.ConfigPath),
		slog.Duration("interval", w.opts.Interval))

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			reason := w.classify(event)
			if reason == 0 {
				continue
			}
			slog.Debug("Change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			w.mark(reason)
			if timer == nil {
				timer = time.NewTimer(w.opts.Debounce)
			} else {
				timer.Reset(w.opts.Debounce)
			}
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", logfields.Error(err))
		case <-w.ticks:
			w.mark(ReasonInterval)
			w.flush(ctx)
		case <-fire:
			fire = nil
			w.flush(ctx)
		}
	}
}

func (w *Watcher) tick() {
	select {
	case w.ticks <- struct{}{}:
	default:
	}
}

func (w *Watcher) mark(r Reason) {
	w.mu.Lock()
	w.pending |= r
	w.mu.Unlock()
}

func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	reason := w.pending
	w.pending = 0
	w.mu.Unlock()
	if reason == 0 || ctx.Err() != nil {
		return
	}
	slog.Info("Re-running check", slog.String("reason", reason.String()))
	w.handler(ctx, reason)
}

func (w *Watcher) classify(event fsnotify.Event) Reason {
	if event.Op == fsnotify.Chmod {
		return 0
	}
	if event.Name == w.opts.ConfigPath {
		return ReasonConfig
	}
	rel, err := filepath.Rel(w.opts.ContentDir, event.Name)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return 0
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return 0
	}
	if event.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addTree(event.Name); err != nil {
				slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
			}
		}
	}
	return ReasonContent
}

// addTree watches root and every non-hidden directory below it; fsnotify is not recursive.
func (w *Watcher) addTree(root string) error {
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
	if err != nil {
		return errors.FileSystemError(err, "watch content directory").
			WithContext("path", root).
			Build()
	}
	return nil
}
