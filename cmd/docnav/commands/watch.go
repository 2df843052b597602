package commands

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/foundation/errors"
	"git.home.luguber.info/inful/docnav/internal/linkcheck"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/pipeline"
	"git.home.luguber.info/inful/docnav/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Every  time.Duration `help:"Force a full re-check at this interval (overrides watch.interval)"`
	Listen string        `help:"Serve Prometheus metrics on this address (overrides metrics.listen)"`
}

func (w *WatchCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.loadConfig(g)
	if err != nil {
		return err
	}
	if w.Every > 0 {
		cfg.Watch.Interval = w.Every
	}
	if w.Listen != "" {
		cfg.Metrics.Listen = w.Listen
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := openServices(ctx, cfg, cfg.Metrics.Listen != "")
	if err != nil {
		return err
	}
	defer svc.close()

	if cfg.Metrics.Listen != "" {
		srv := serveMetrics(cfg.Metrics.Listen, svc)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	s := &session{g: g, root: root, svc: svc, cfg: cfg, formatter: linkcheck.NewTextFormatter()}
	s.runner = svc.runner(cfg, pipeline.WithSkipUnchanged())
	if err := s.check(ctx); err != nil {
		return err
	}

	watcher, err := watch.New(watch.Options{
		ConfigPath: root.Config,
		ContentDir: cfg.Content.Dir,
		Debounce:   cfg.Watch.Debounce,
		Interval:   cfg.Watch.Interval,
	}, s.handle)
	if err != nil {
		return err
	}
	return watcher.Run(ctx)
}

// session is the mutable state of watch mode. handle is never called concurrently.
type session struct {
	g         *Global
	root      *CLI
	svc       *services
	cfg       *config.Config
	runner    *pipeline.Runner
	formatter linkcheck.Formatter
}

func (s *session) handle(ctx context.Context, reason watch.Reason) {
	if reason.Has(watch.ReasonConfig) {
		cfg, err := s.root.loadConfig(s.g)
		if err != nil {
			slog.Error("Configuration reload failed; keeping previous configuration", logfields.Error(err))
		} else {
			// TODO: re-register the content watch when content.dir changes on reload.
			if cfg.Content.Dir != s.cfg.Content.Dir {
				slog.Warn("content.dir changed; restart watch to follow the new directory")
			}
			s.cfg = cfg
			s.runner = s.svc.runner(cfg, pipeline.WithSkipUnchanged())
			slog.Info("Configuration reloaded")
		}
	}
	if reason.Has(watch.ReasonInterval) {
		s.runner.Invalidate()
	}
	if err := s.check(ctx); err != nil && ctx.Err() == nil {
		slog.Error("Check failed",
			slog.String("category", string(errors.GetCategory(err))),
			logfields.Error(err))
	}
}

func (s *session) check(ctx context.Context) error {
	outcomes, err := s.runner.Run(ctx)
	if err != nil {
		return err
	}
	s.svc.writeMetrics(s.cfg)
	return report(s.g.Out, s.formatter, outcomes)
}

func serveMetrics(addr string, svc *services) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", svc.recorder.HTTPHandler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		slog.Info("Serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			slog.Error("Metrics server stopped", logfields.Error(err))
		}
	}()
	return srv
}

