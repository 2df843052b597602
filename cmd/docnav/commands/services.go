package commands

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/docnav/internal/config"
	"git.home.luguber.info/inful/docnav/internal/events"
	"git.home.luguber.info/inful/docnav/internal/logfields"
	"git.home.luguber.info/inful/docnav/internal/metrics"
	"git.home.luguber.info/inful/docnav/internal/pipeline"
	"git.home.luguber.info/inful/docnav/internal/store"
)

// services holds the optional collaborators of a Runner that outlive a single run.
type services struct {
	recorder  *metrics.PrometheusRecorder
	history   *store.SQLiteStore
	publisher events.Publisher
}

// openServices connects whatever the configuration enables. A Prometheus recorder is
// created when withMetrics is set or a metrics file is configured.
func openServices(ctx context.Context, cfg *config.Config, withMetrics bool) (*services, error) {
	s := &services{publisher: events.NoopPublisher{}}
	if withMetrics || cfg.Metrics.File != "" {
		s.recorder = metrics.NewPrometheusRecorder(nil)
	}
	if cfg.Store.Path != "" {
		h, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		s.history = h
	}
	if cfg.Events.URL != "" {
		var p *events.NATSPublisher
		err := cfg.Events.Retry.Policy().Do(ctx, "connect to NATS", func() error {
			var err error
			p, err = events.NewNATSPublisher(cfg.Events.URL, cfg.Events.Subject)
			return err
		})
		if err != nil {
			s.close()
			return nil, err
		}
		s.publisher = p
	}
	return s, nil
}

func (s *services) runner(cfg *config.Config, opts ...pipeline.Option) *pipeline.Runner {
	all := []pipeline.Option{pipeline.WithPublisher(s.publisher)}
	if s.recorder != nil {
		all = append(all, pipeline.WithRecorder(s.recorder))
	}
	if s.history != nil {
		all = append(all, pipeline.WithHistory(s.history))
	}
	return pipeline.New(cfg, append(all, opts...)...)
}

// writeMetrics writes the textfile collector output when one is configured.
func (s *services) writeMetrics(cfg *config.Config) {
	if s.recorder == nil || cfg.Metrics.File == "" {
		return
	}
	if err := s.recorder.WriteTextfile(cfg.Metrics.File); err != nil {
		slog.Warn("Failed to write metrics file", logfields.Path(cfg.Metrics.File), logfields.Error(err))
	}
}

func (s *services) close() {
	if s.history != nil {
		if err := s.history.Close(); err != nil {
			slog.Warn("Failed to close history store", logfields.Error(err))
		}
	}
	if err := s.publisher.Close(); err != nil {
		slog.Warn("Failed to close publisher", logfields.Error(err))
	}
}

func pipelineLocales(codes []string) []pipeline.Option {
	if len(codes) == 0 {
		return nil
	}
	return []pipeline.Option{pipeline.WithLocales(codes...)}
}
